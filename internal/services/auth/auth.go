// Package auth содержит бизнес-логику регистрации, входа и проверки
// сессионных токенов пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/cache"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/apperr"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/jwt"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/password"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя.
	CreateUser(ctx context.Context, user models.User) error
	// GetUserByUsername возвращает пользователя по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Cache описывает методы кеша, которые нужны сервису.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Version(ctx context.Context, key string) (int64, error)
}

// PasswordHasher хеширует и сверяет пароли.
type PasswordHasher interface {
	GetHash(password string) (string, error)
	CompareHash(originalHash, externalPassword string) error
}

// AuthService отвечает за регистрацию, вход и аутентификацию по JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	hasher   PasswordHasher
	cache    Cache
	userTTL  time.Duration
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, hasher PasswordHasher,
	cache Cache, userTTL time.Duration, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		hasher:   hasher,
		cache:    cache,
		userTTL:  userTTL,
		log:      log,
	}
}

// Register создает нового пользователя и сразу выдаёт ему токен.
func (s *AuthService) Register(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "services.auth.Register"

	if strings.TrimSpace(username) == "" {
		return "", fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrValidation, "username is required"))
	}
	if len(rawPassword) < models.MinPasswordLength {
		return "", fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrValidation,
			fmt.Sprintf("password must be at least %d characters long", models.MinPasswordLength)))
	}

	_, err := s.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return "", fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrDuplicate, "username already exists"))
	case !errors.Is(err, apperr.ErrNotFound):
		return "", fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := s.hasher.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		UUID:         uuid.NewString(),
		Username:     username,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}
	if err = s.users.CreateUser(ctx, user); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user registered", slog.String("user_uid", user.UUID), slog.String("username", username))

	token, err := s.jwtMaker.GenerateToken(user.UUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Login проверяет пароль пользователя и выдаёт JWT.
// Неизвестный пользователь и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	const op = "services.auth.Login"
	invalid := apperr.New(apperr.ErrInvalidCredentials, "invalid credentials")

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", op, invalid)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	err = s.hasher.CompareHash(user.PasswordHash, rawPassword)
	if errors.Is(err, password.ErrMismatch) {
		return "", fmt.Errorf("%s: %w", op, invalid)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.UUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Authenticate проверяет токен и возвращает пользователя, которому он выдан.
//
// Невалидный или просроченный токен, а также токен несуществующего
// пользователя дают ошибку класса apperr.ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "services.auth.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		s.log.Debug("token rejected", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrUnauthorized, "invalid or expired token"))
	}

	user, err := s.lookupUser(ctx, claims.UserUID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrUnauthorized, "user not found"))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Profile возвращает пользователя по UID.
func (s *AuthService) Profile(ctx context.Context, userUID string) (*models.User, error) {
	const op = "services.auth.Profile"

	user, err := s.lookupUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// lookupUser читает пользователя сначала из кеша, затем из хранилища.
//
// Версия ключа читается до обращения к хранилищу: если платёж повысил её,
// пока шло чтение, устаревший профиль ляжет под старую версию.
// Ошибки кеша не прерывают запрос.
func (s *AuthService) lookupUser(ctx context.Context, userUID string) (*models.User, error) {
	key := cache.UserKey(userUID)

	version, err := s.cache.Version(ctx, key)
	if err != nil {
		s.log.Warn("failed to read user cache version", slog.String("key", key), sl.Err(err))
		return s.users.GetUser(ctx, userUID)
	}
	key = cache.VersionedKey(key, version)

	var cached models.User
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read user from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, cachedUser(user), s.userTTL); err != nil {
		s.log.Warn("failed to cache user", slog.String("key", key), sl.Err(err))
	}
	return user, nil
}

// cachedUser возвращает копию пользователя без хэша пароля.
func cachedUser(u *models.User) models.User {
	c := *u
	c.PasswordHash = ""
	return c
}
