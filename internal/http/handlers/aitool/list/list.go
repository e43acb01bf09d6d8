// Package list реализует HTTP-обработчик списка и поиска AI-инструментов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/response"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

// Service ищет инструменты; пустой запрос означает полный список.
type Service interface {
	Search(ctx context.Context, keyword string) ([]*models.AITool, error)
}

// Handler обрабатывает GET /api/ai-tools и GET /api/ai-tools/search.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP возвращает инструменты, отсортированные по имени.
// @Summary Список и поиск AI-инструментов
// @Description Без параметра query возвращает все инструменты, с ним ищет по словам в названии и описании
// @Tags ai-tools
// @Produce json
// @Security BearerAuth
// @Param query query string false "Ключевые слова"
// @Success 200 {array} models.AITool
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/ai-tools [get]
// @Router /api/ai-tools/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.aitool.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query().Get("query")
	tools, err := h.service.Search(r.Context(), query)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	if tools == nil {
		tools = []*models.AITool{}
	}

	log.Debug("ai tools listed", slog.String("query", query), slog.Int("count", len(tools)))
	response.OK(w, r, tools)
}
