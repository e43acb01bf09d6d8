// Package create реализует HTTP-обработчик добавления AI-инструмента в каталог.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/response"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

// Service создаёт инструмент от имени пользователя.
type Service interface {
	Create(ctx context.Context, creator *models.User, input models.DummyAITool) (*models.AITool, error)
}

// Handler обрабатывает POST /api/ai-tools.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP создаёт инструмент.
// @Summary Добавить AI-инструмент
// @Description Доступно только пользователям с подпиской
// @Tags ai-tools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyAITool true "Название, описание, платность и сайт"
// @Success 200 {object} models.AITool
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/ai-tools [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.aitool.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		response.Fail(w, r, http.StatusUnauthorized, "user identification missing")
		return
	}

	var req models.DummyAITool
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Invalid(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Invalid(w, r, err)
		return
	}

	tool, err := h.service.Create(r.Context(), user, req)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("ai tool created", slog.String("tool_id", tool.ID))
	response.OK(w, r, tool)
}
