// Package apperr описывает классы ошибок приложения, которые видит клиент.
//
// Каждый класс — это sentinel-ошибка (ErrValidation, ErrNotFound и т.д.).
// Error связывает класс с публичным сообщением: нижние слои оборачивают её
// через fmt.Errorf("%s: %w", op, err), а HTTP-слой достаёт класс через errors.Is
// и сообщение через errors.As, не раскрывая внутренние детали.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation — некорректные или отсутствующие входные данные.
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized — отсутствующий, невалидный или просроченный токен, неизвестный пользователь.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden — пользователь аутентифицирован, но не имеет подписки.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — запрошенная запись не существует.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate — повторная оценка, повторный отзыв или занятое имя пользователя.
	ErrDuplicate = errors.New("duplicate")
	// ErrInvalidCredentials — неверная пара логин/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error — ошибка определённого класса с сообщением, которое можно отдать клиенту.
type Error struct {
	kind error
	msg  string
}

// New создаёт ошибку класса kind с публичным сообщением msg.
func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

// Unwrap возвращает класс ошибки, чтобы работал errors.Is(err, ErrNotFound).
func (e *Error) Unwrap() error {
	return e.kind
}

// Message возвращает публичное сообщение ошибки.
func (e *Error) Message() string {
	return e.msg
}

// HTTPStatus сопоставляет класс ошибки с HTTP-статусом.
// Для неизвестных ошибок возвращает 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage возвращает сообщение для клиента.
//
// Для ошибок с классом берётся сообщение из *Error, если оно есть в цепочке,
// иначе — текст самого класса. Для неизвестных ошибок возвращается
// обобщённое сообщение, чтобы не раскрывать внутренние детали.
func PublicMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message()
	}
	for _, kind := range []error{ErrValidation, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrDuplicate, ErrInvalidCredentials} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "internal server error"
}
