// Package notifier обрабатывает события активности из очереди
// и ведёт по ним структурированный журнал.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

// Service пишет журнал активности и считает события по типам.
type Service struct {
	log *slog.Logger

	mu     sync.Mutex
	counts map[string]int
}

// NewService создает новый экземпляр Service.
func NewService(log *slog.Logger) *Service {
	return &Service{
		log:    log,
		counts: make(map[string]int),
	}
}

// HandleActivity разбирает сообщение и записывает его в журнал.
//
// Нечитаемые сообщения и события неизвестного типа отбрасываются
// без возврата в очередь.
func (s *Service) HandleActivity(_ context.Context, body []byte) error {
	var event models.ActivityEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal activity event, dropped", sl.Err(err))
		return nil
	}

	line, ok := describe(event)
	if !ok {
		s.log.Warn("unknown activity event type, dropped", slog.String("type", event.Type))
		return nil
	}

	s.mu.Lock()
	s.counts[event.Type]++
	s.mu.Unlock()

	s.log.Info(line,
		slog.String("type", event.Type),
		slog.String("user_uid", event.UserUID),
		slog.String("tool_id", event.ToolID),
		slog.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

// Counts возвращает число обработанных событий по типам.
func (s *Service) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

func describe(e models.ActivityEvent) (string, bool) {
	switch e.Type {
	case models.EventToolCreated:
		return fmt.Sprintf("new AI tool %q added to the catalog", e.ToolName), true
	case models.EventToolRated:
		return fmt.Sprintf("AI tool %q rated %d, average %.2f", e.ToolName, e.Rating, e.AverageRating), true
	case models.EventToolReviewed:
		return fmt.Sprintf("AI tool %q got a new review", e.ToolName), true
	case models.EventUserSubscribed:
		return "user subscribed", true
	default:
		return "", false
	}
}
