// Package login реализует HTTP-обработчик входа пользователя.
//
// Обработчик декодирует логин и пароль, валидирует их и делегирует проверку
// сервису аутентификации. При успехе возвращается JSON с JWT, при неверной
// паре логин/пароль — 400 с сообщением "invalid credentials".
package login

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/response"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

// Handler обрабатывает POST /api/auth/login.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчик входа.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP аутентифицирует пользователя.
// @Summary Вход пользователя
// @Description Проверяет логин и пароль и возвращает JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.DummyUser true "Логин и пароль"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyUser
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

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("user logged in", slog.String("username", req.Username))
	response.OK(w, r, models.TokenResponse{Token: token})
}
