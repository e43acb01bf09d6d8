package models

import (
	"slices"
	"strings"
	"time"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/apperr"
)

const (
	// MinRating — минимально допустимая оценка.
	MinRating = 1
	// MaxRating — максимально допустимая оценка.
	MaxRating = 5
)

// Rating — оценка одного пользователя.
type Rating struct {
	UserUID string `json:"userId"`
	Value   int    `json:"rating"`
}

// Review — отзыв одного пользователя.
type Review struct {
	UserUID string `json:"userId"`
	Text    string `json:"review"`
}

// AITool представляет карточку AI-инструмента в каталоге.
//
// AverageRating всегда равен среднему арифметическому Ratings (0 при пустом списке);
// поддерживается методом AddRating.
type AITool struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	IsPaid        bool      `json:"isPaid"`
	ToolWebsite   string    `json:"toolWebsite,omitempty"`
	Ratings       []Rating  `json:"ratings"`
	AverageRating float64   `json:"averageRating"`
	Reviews       []Review  `json:"reviews"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DummyAITool используется для приёма данных из JSON-запроса на создание инструмента.
// ToolWebsite необязателен, но если указан, должен быть абсолютным URL.
type DummyAITool struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	IsPaid      bool   `json:"isPaid"`
	ToolWebsite string `json:"toolWebsite" validate:"omitempty,url"`
}

// ValidRating сообщает, входит ли значение в диапазон [MinRating, MaxRating].
func ValidRating(value int) bool {
	return value >= MinRating && value <= MaxRating
}

// HasRatingFrom сообщает, оценивал ли пользователь инструмент.
func (t *AITool) HasRatingFrom(userUID string) bool {
	return slices.ContainsFunc(t.Ratings, func(r Rating) bool { return r.UserUID == userUID })
}

// HasReviewFrom сообщает, оставлял ли пользователь отзыв.
func (t *AITool) HasReviewFrom(userUID string) bool {
	return slices.ContainsFunc(t.Reviews, func(r Review) bool { return r.UserUID == userUID })
}

// AddRating добавляет оценку пользователя и пересчитывает средний рейтинг.
//
// Возвращает ошибку класса apperr.ErrValidation для значения вне диапазона
// и apperr.ErrDuplicate, если пользователь уже оценивал инструмент.
// При ошибке инструмент не изменяется.
func (t *AITool) AddRating(userUID string, value int) error {
	if !ValidRating(value) {
		return apperr.New(apperr.ErrValidation, "rating must be between 1 and 5")
	}
	if t.HasRatingFrom(userUID) {
		return apperr.New(apperr.ErrDuplicate, "you have already rated this AI tool")
	}
	t.Ratings = append(t.Ratings, Rating{UserUID: userUID, Value: value})
	t.RecalculateAverage()
	return nil
}

// AddReview добавляет отзыв пользователя.
//
// Возвращает ошибку класса apperr.ErrValidation для пустого текста
// и apperr.ErrDuplicate, если пользователь уже оставлял отзыв.
func (t *AITool) AddReview(userUID, text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.New(apperr.ErrValidation, "review text is required")
	}
	if t.HasReviewFrom(userUID) {
		return apperr.New(apperr.ErrDuplicate, "you have already reviewed this AI tool")
	}
	t.Reviews = append(t.Reviews, Review{UserUID: userUID, Text: text})
	return nil
}

// RecalculateAverage пересчитывает AverageRating по полному списку оценок.
func (t *AITool) RecalculateAverage() {
	if len(t.Ratings) == 0 {
		t.AverageRating = 0
		return
	}
	sum := 0
	for _, r := range t.Ratings {
		sum += r.Value
	}
	t.AverageRating = float64(sum) / float64(len(t.Ratings))
}

// Clone возвращает глубокую копию инструмента.
func (t *AITool) Clone() *AITool {
	c := *t
	c.Ratings = slices.Clone(t.Ratings)
	c.Reviews = slices.Clone(t.Reviews)
	if c.Ratings == nil {
		c.Ratings = []Rating{}
	}
	if c.Reviews == nil {
		c.Reviews = []Review{}
	}
	return &c
}

// SortByName упорядочивает инструменты по имени по возрастанию, при равенстве — по ID.
func SortByName(tools []*AITool) {
	slices.SortStableFunc(tools, func(a, b *AITool) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
