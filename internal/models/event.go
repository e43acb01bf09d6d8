package models

import "time"

// Типы событий активности, публикуемых в брокер сообщений.
const (
	EventToolCreated    = "tool.created"
	EventToolRated      = "tool.rated"
	EventToolReviewed   = "tool.reviewed"
	EventUserSubscribed = "user.subscribed"
)

// ActivityEvent описывает событие активности пользователя в каталоге.
type ActivityEvent struct {
	Type          string    `json:"type"`
	UserUID       string    `json:"user_uid"`
	ToolID        string    `json:"tool_id,omitempty"`
	ToolName      string    `json:"tool_name,omitempty"`
	Rating        int       `json:"rating,omitempty"`
	AverageRating float64   `json:"average_rating,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
