package login

import "context"

// Service проверяет учётные данные и выдаёт токен.
type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}
