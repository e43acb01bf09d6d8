// Package review реализует HTTP-обработчик отзыва об AI-инструменте.
package review

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/response"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

// Request — тело запроса с текстом отзыва.
type Request struct {
	Review string `json:"review" validate:"required"`
}

// Service добавляет отзыв пользователя.
type Service interface {
	Review(ctx context.Context, toolID, userUID, text string) (*models.AITool, error)
}

// Handler обрабатывает POST /api/ai-tools/{id}/reviews.
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

// ServeHTTP добавляет отзыв и возвращает обновлённый инструмент.
// @Summary Оставить отзыв
// @Tags ai-tools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID инструмента"
// @Param request body Request true "Текст отзыва"
// @Success 200 {object} models.AITool
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/ai-tools/{id}/reviews [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.aitool.review"

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
	toolID := chi.URLParam(r, "id")

	var req Request
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

	tool, err := h.service.Review(r.Context(), toolID, user.UUID, req.Review)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("ai tool reviewed", slog.String("tool_id", toolID), slog.String("user_uid", user.UUID))
	response.OK(w, r, tool)
}
