// Package paymentcreate обрабатывает оплату подписки.
package paymentcreate

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
	"github.com/magabrotheeeer/ai-tools-catalog/internal/services/payment"
)

// Request представляет запрос на оплату подписки.
type Request struct {
	Amount *float64 `json:"amount" validate:"required"`
}

// Service определяет интерфейс обработки платежа.
type Service interface {
	EvaluatePayment(ctx context.Context, userUID string, amount float64) (payment.Result, error)
}

// Handler обрабатывает запросы на оплату подписки.
type Handler struct {
	log            *slog.Logger        // Логгер для записи информации и ошибок
	paymentService Service             // Сервис оценки платежа
	validate       *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ps Service) *Handler {
	return &Handler{
		log:            log,
		paymentService: ps,
		validate:       validator.New(),
	}
}

// ServeHTTP обрабатывает платёж текущего пользователя.
// @Summary Оплата подписки
// @Description Сумма не меньше порога включает подписку, меньшая сумма возвращает сообщение об отказе
// @Tags payment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Сумма платежа"
// @Success 200 {object} payment.Result
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/payment/create [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentcreate"

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

	res, err := h.paymentService.EvaluatePayment(r.Context(), user.UUID, *req.Amount)
	if err != nil {
		response.FromError(w, r, log, err)
		return
	}

	log.Info("payment processed", slog.String("user_uid", user.UUID), slog.Bool("subscribed", res.Subscribed))
	response.OK(w, r, res)
}
