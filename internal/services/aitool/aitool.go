// Package aitool содержит бизнес-логику каталога AI-инструментов:
// создание, список и поиск, а также оценки и отзывы пользователей.
//
// Проверка «пользователь ещё не оценивал» и запись оценки выполняются
// внутри ToolRepository.UpdateTool, то есть атомарно относительно других
// изменений того же инструмента.
package aitool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/cache"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/apperr"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/metrics"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/services/events"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/services/payment"
)

// ToolRepository определяет методы для работы с инструментами в хранилище.
type ToolRepository interface {
	// CreateTool сохраняет новый инструмент.
	CreateTool(ctx context.Context, tool *models.AITool) error
	// GetTool возвращает инструмент по ID.
	GetTool(ctx context.Context, id string) (*models.AITool, error)
	// ListTools возвращает все инструменты, упорядоченные по имени.
	ListTools(ctx context.Context) ([]*models.AITool, error)
	// SearchTools возвращает инструменты, подходящие под ключевые слова.
	SearchTools(ctx context.Context, keyword string) ([]*models.AITool, error)
	// UpdateTool атомарно применяет fn к инструменту и сохраняет результат.
	UpdateTool(ctx context.Context, id string, fn func(*models.AITool) error) (*models.AITool, error)
}

// Cache описывает методы для кэширования данных.
// Значения лежат под ключом текущей версии; Bump делает их недостижимыми.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Version(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) error
}

var validate = validator.New()

// Service реализует каталог и агрегатор оценок.
type Service struct {
	tools     ToolRepository
	cache     Cache
	publisher events.Publisher
	metrics   *metrics.Metrics
	listTTL   time.Duration
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(tools ToolRepository, cache Cache, publisher events.Publisher, m *metrics.Metrics,
	listTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		tools:     tools,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		listTTL:   listTTL,
		log:       log,
	}
}

// Create добавляет инструмент в каталог от имени подписчика creator.
func (s *Service) Create(ctx context.Context, creator *models.User, input models.DummyAITool) (*models.AITool, error) {
	const op = "services.aitool.Create"

	if err := payment.RequireSubscription(creator); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" || description == "" {
		return nil, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrValidation, "name and description are required"))
	}
	website := strings.TrimSpace(input.ToolWebsite)
	if website != "" {
		if err := validate.Var(website, "url"); err != nil {
			return nil, fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrValidation, "toolWebsite must be a valid URL"))
		}
	}

	tool := &models.AITool{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		IsPaid:      input.IsPaid,
		ToolWebsite: website,
		Ratings:     []models.Rating{},
		Reviews:     []models.Review{},
		CreatedBy:   creator.UUID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.tools.CreateTool(ctx, tool); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.ToolsCreated.Inc()
	s.log.Info("AI tool created", slog.String("tool_id", tool.ID), slog.String("user_uid", creator.UUID))

	s.invalidateList(ctx)
	s.publish(ctx, models.ActivityEvent{
		Type:     models.EventToolCreated,
		UserUID:  creator.UUID,
		ToolID:   tool.ID,
		ToolName: tool.Name,
	})
	return tool, nil
}

// List возвращает все инструменты, упорядоченные по имени.
// Результат кешируется под текущей версией списка; ошибки кеша не прерывают запрос.
func (s *Service) List(ctx context.Context) ([]*models.AITool, error) {
	const op = "services.aitool.List"

	version, err := s.cache.Version(ctx, cache.ToolListKey)
	if err != nil {
		s.log.Warn("failed to read tool list version", sl.Err(err))
		tools, err := s.tools.ListTools(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return tools, nil
	}
	key := cache.VersionedKey(cache.ToolListKey, version)

	var cached []*models.AITool
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read tool list from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	tools, err := s.tools.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, key, tools, s.listTTL); err != nil {
		s.log.Warn("failed to cache tool list", sl.Err(err))
	}
	return tools, nil
}

// Search ищет инструменты по ключевым словам. Пустой запрос равносилен List.
func (s *Service) Search(ctx context.Context, keyword string) ([]*models.AITool, error) {
	const op = "services.aitool.Search"

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.List(ctx)
	}
	tools, err := s.tools.SearchTools(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	models.SortByName(tools)
	return tools, nil
}

// Rate добавляет оценку пользователя и возвращает обновлённый инструмент.
//
// Ошибки проверяются в порядке: неизвестный инструмент (apperr.ErrNotFound),
// значение вне диапазона (apperr.ErrValidation), повторная оценка
// того же пользователя (apperr.ErrDuplicate).
func (s *Service) Rate(ctx context.Context, toolID, userUID string, rating int) (*models.AITool, error) {
	const op = "services.aitool.Rate"

	tool, err := s.tools.UpdateTool(ctx, toolID, func(t *models.AITool) error {
		return t.AddRating(userUID, rating)
	})
	if err != nil {
		s.metrics.Ratings.WithLabelValues(resultOf(err)).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Ratings.WithLabelValues(metrics.ResultOK).Inc()
	s.log.Info("AI tool rated",
		slog.String("tool_id", toolID),
		slog.String("user_uid", userUID),
		slog.Int("rating", rating),
		slog.Float64("average_rating", tool.AverageRating),
	)

	s.invalidateList(ctx)
	s.publish(ctx, models.ActivityEvent{
		Type:          models.EventToolRated,
		UserUID:       userUID,
		ToolID:        tool.ID,
		ToolName:      tool.Name,
		Rating:        rating,
		AverageRating: tool.AverageRating,
	})
	return tool, nil
}

// Review добавляет отзыв пользователя и возвращает обновлённый инструмент.
// Порядок ошибок тот же, что у Rate: ErrNotFound, ErrValidation, ErrDuplicate.
func (s *Service) Review(ctx context.Context, toolID, userUID, text string) (*models.AITool, error) {
	const op = "services.aitool.Review"

	tool, err := s.tools.UpdateTool(ctx, toolID, func(t *models.AITool) error {
		return t.AddReview(userUID, text)
	})
	if err != nil {
		s.metrics.Reviews.WithLabelValues(resultOf(err)).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Reviews.WithLabelValues(metrics.ResultOK).Inc()
	s.log.Info("AI tool reviewed", slog.String("tool_id", toolID), slog.String("user_uid", userUID))

	s.invalidateList(ctx)
	s.publish(ctx, models.ActivityEvent{
		Type:     models.EventToolReviewed,
		UserUID:  userUID,
		ToolID:   tool.ID,
		ToolName: tool.Name,
	})
	return tool, nil
}

// ListReviews возвращает отзывы инструмента в порядке добавления.
func (s *Service) ListReviews(ctx context.Context, toolID string) ([]models.Review, error) {
	const op = "services.aitool.ListReviews"

	tool, err := s.tools.GetTool(ctx, toolID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if tool.Reviews == nil {
		return []models.Review{}, nil
	}
	return tool.Reviews, nil
}

func (s *Service) invalidateList(ctx context.Context) {
	if err := s.cache.Bump(ctx, cache.ToolListKey); err != nil {
		s.log.Warn("failed to invalidate tool list cache", sl.Err(err))
	}
}

func (s *Service) publish(ctx context.Context, event models.ActivityEvent) {
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", event.Type), sl.Err(err))
	}
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, apperr.ErrDuplicate):
		return metrics.ResultDuplicate
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrNotFound):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}
