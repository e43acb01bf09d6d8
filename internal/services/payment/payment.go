// Package payment реализует шлюз подписки: проверку суммы платежа
// и выставление пользователю признака подписки.
//
// Реальная оплата не проводится: платёж на сумму не меньше порога
// просто переводит пользователя в подписчики.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/cache"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/apperr"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/metrics"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/services/events"
)

// SuccessMessage возвращается при успешной подписке.
const SuccessMessage = "Payment successful. User is subscribed."

// UserRepository описывает единственную операцию хранилища, которая нужна шлюзу.
type UserRepository interface {
	SetSubscribed(ctx context.Context, userUID string) error
}

// Cache позволяет сделать закешированный профиль пользователя недостижимым.
type Cache interface {
	Bump(ctx context.Context, key string) error
}

// Result — итог обработки платежа.
type Result struct {
	Message    string `json:"message"`
	Subscribed bool   `json:"subscribed"`
}

// Service обрабатывает платежи за подписку.
type Service struct {
	users     UserRepository
	cache     Cache
	publisher events.Publisher
	metrics   *metrics.Metrics
	threshold float64
	log       *slog.Logger
}

// New создаёт Service с порогом подписки threshold.
func New(users UserRepository, cache Cache, publisher events.Publisher, m *metrics.Metrics,
	threshold float64, log *slog.Logger) *Service {
	return &Service{
		users:     users,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		threshold: threshold,
		log:       log,
	}
}

// EvaluatePayment проверяет сумму платежа.
//
// При amount >= порога пользователь становится подписчиком; иначе состояние
// не меняется и возвращается сообщение об отказе. Отрицательная сумма даёт
// ошибку класса apperr.ErrValidation.
func (s *Service) EvaluatePayment(ctx context.Context, userUID string, amount float64) (Result, error) {
	const op = "services.payment.EvaluatePayment"

	if amount < 0 {
		return Result{}, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrValidation, "amount must be a non-negative number"))
	}
	if amount < s.threshold {
		s.metrics.Subscriptions.WithLabelValues(metrics.ResultRejected).Inc()
		return Result{Message: s.RejectionMessage(), Subscribed: false}, nil
	}

	if err := s.users.SetSubscribed(ctx, userUID); err != nil {
		s.metrics.Subscriptions.WithLabelValues(metrics.ResultError).Inc()
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Subscriptions.WithLabelValues(metrics.ResultOK).Inc()
	s.log.Info("user subscribed", slog.String("user_uid", userUID), slog.Float64("amount", amount))

	if err := s.cache.Bump(ctx, cache.UserKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate cached user", slog.String("user_uid", userUID), sl.Err(err))
	}
	event := models.ActivityEvent{
		Type:       models.EventUserSubscribed,
		UserUID:    userUID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", event.Type), sl.Err(err))
	}

	return Result{Message: SuccessMessage, Subscribed: true}, nil
}

// RejectionMessage возвращает текст отказа для суммы ниже порога.
func (s *Service) RejectionMessage() string {
	return fmt.Sprintf("Amount should be at least %s for the subscription.",
		strconv.FormatFloat(s.threshold, 'f', -1, 64))
}

// RequireSubscription разрешает действие только подписчику.
func RequireSubscription(user *models.User) error {
	if user == nil || !user.IsSubscribed {
		return apperr.New(apperr.ErrForbidden, "subscription required")
	}
	return nil
}
