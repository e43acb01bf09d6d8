// Package rate реализует HTTP-обработчик оценки AI-инструмента.
//
// Пользователь может оценить инструмент один раз; повторная оценка
// отклоняется с кодом 400, а средний рейтинг не меняется.
package rate

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

// Request — тело запроса с оценкой от 1 до 5.
type Request struct {
	Rating *int `json:"rating" validate:"required"`
}

// Service добавляет оценку пользователя.
type Service interface {
	Rate(ctx context.Context, toolID, userUID string, rating int) (*models.AITool, error)
}

// Handler обрабатывает POST /api/ai-tools/{id}/rate.
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

// ServeHTTP добавляет оценку и возвращает обновлённый инструмент.
// @Summary Оценить AI-инструмент
// @Tags ai-tools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID инструмента"
// @Param request body Request true "Оценка"
// @Success 200 {object} models.AITool
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/ai-tools/{id}/rate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.aitool.rate"

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

	tool, err := h.service.Rate(r.Context(), toolID, user.UUID, *req.Rating)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("ai tool rated",
		slog.String("tool_id", toolID),
		slog.String("user_uid", user.UUID),
		slog.Float64("average_rating", tool.AverageRating),
	)
	response.OK(w, r, tool)
}
