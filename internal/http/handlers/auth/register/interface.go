package register

import (
	"context"
)

// Service регистрирует пользователя и выдаёт ему токен.
type Service interface {
	Register(ctx context.Context, username, password string) (string, error)
}
