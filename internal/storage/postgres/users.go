package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/apperr"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

var errUserNotFound = apperr.New(apperr.ErrNotFound, "user not found")

// CreateUser сохраняет нового пользователя.
// Занятое имя пользователя возвращается как ошибка класса apperr.ErrDuplicate.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.postgres.CreateUser"

	query := `INSERT INTO users (uid, username, password_hash, is_subscribed, created_at)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query,
		user.UUID, user.Username, user.PasswordHash, user.IsSubscribed, user.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrDuplicate, "username already exists"))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.postgres.GetUserByUsername"

	query := `SELECT uid, username, password_hash, is_subscribed, created_at
			  FROM users
			  WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.postgres.GetUser"
	if _, err := uuid.Parse(userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, errUserNotFound)
	}

	query := `SELECT uid, username, password_hash, is_subscribed, created_at
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// SetSubscribed выставляет пользователю признак оплаченной подписки.
func (s *Storage) SetSubscribed(ctx context.Context, userUID string) error {
	const op = "storage.postgres.SetSubscribed"
	if _, err := uuid.Parse(userUID); err != nil {
		return fmt.Errorf("%s: %w", op, errUserNotFound)
	}

	query := `UPDATE users
			  SET is_subscribed = TRUE
			  WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errUserNotFound)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.UUID, &u.Username, &u.PasswordHash, &u.IsSubscribed, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
