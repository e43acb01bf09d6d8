// Package response содержит вспомогательные типы и функции для формирования
// JSON‑ответов с ошибками. Успешные ответы обработчики отдают как есть.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/apperr"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/sl"
)

// ErrorResponse описывает JSON‑ответ с ошибкой.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// StatusError — значение статуса для ответа с ошибкой.
const StatusError = "Error"

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", field))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", field, err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s", field, err.Param()))
		case "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than or equal to %s", field, err.Param()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid URL", field))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", field))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}

// Fail отправляет ошибку с указанным статусом.
func Fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// Invalid отправляет 400 для ошибки разбора или валидации тела запроса.
func Invalid(w http.ResponseWriter, r *http.Request, err error) {
	var validateErr validator.ValidationErrors
	if errors.As(err, &validateErr) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ValidationError(validateErr))
		return
	}
	Fail(w, r, http.StatusBadRequest, "invalid request body")
}

// FromError отправляет ошибку прикладного уровня: статус и сообщение
// определяются классом ошибки. Неизвестные ошибки логируются целиком,
// клиент получает обобщённое сообщение с кодом 500.
func FromError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("internal error", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}
	Fail(w, r, status, apperr.PublicMessage(err))
}

// OK отправляет данные со статусом 200.
func OK(w http.ResponseWriter, r *http.Request, data any) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, data)
}
