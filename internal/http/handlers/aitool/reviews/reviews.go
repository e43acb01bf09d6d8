// Package reviews реализует HTTP-обработчик получения отзывов об инструменте.
package reviews

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/response"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

// Service возвращает отзывы инструмента.
type Service interface {
	ListReviews(ctx context.Context, toolID string) ([]models.Review, error)
}

// Handler обрабатывает GET /api/ai-tools/{id}/reviews.
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

// ServeHTTP возвращает отзывы в порядке добавления.
// @Summary Отзывы об инструменте
// @Tags ai-tools
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID инструмента"
// @Success 200 {array} models.Review
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/ai-tools/{id}/reviews [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.aitool.reviews"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.service.ListReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}
	if list == nil {
		list = []models.Review{}
	}
	response.OK(w, r, list)
}
