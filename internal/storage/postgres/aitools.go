package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/apperr"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

var errToolNotFound = apperr.New(apperr.ErrNotFound, "AI tool not found")

const selectToolColumns = `SELECT id, name, description, is_paid, tool_website, ratings, reviews,
			  average_rating, created_by, created_at
			  FROM ai_tools`

// Ключевые слова поиска объединяются по ИЛИ: инструмент подходит,
// если совпало хотя бы одно слово.
const searchCondition = `WHERE to_tsvector('english', name || ' ' || description) @@
			  replace(plainto_tsquery('english', $1)::text, '&', '|')::tsquery`

// Запрос из одних стоп-слов даёт пустой tsquery, который ничему не соответствует.
const searchLexemes = `SELECT numnode(plainto_tsquery('english', $1))`

const orderByName = `ORDER BY name COLLATE "C", id`

type rowScanner interface {
	Scan(dest ...any) error
}

// CreateTool сохраняет новый инструмент.
func (s *Storage) CreateTool(ctx context.Context, tool *models.AITool) error {
	const op = "storage.postgres.CreateTool"

	ratings, reviews, err := marshalFeedback(tool)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO ai_tools (id, name, description, is_paid, tool_website,
			  ratings, reviews, average_rating, created_by, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = s.DB.ExecContext(ctx, query,
		tool.ID, tool.Name, tool.Description, tool.IsPaid, tool.ToolWebsite, ratings, reviews,
		tool.AverageRating, nullableUUID(tool.CreatedBy), tool.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetTool возвращает инструмент по его ID.
func (s *Storage) GetTool(ctx context.Context, id string) (*models.AITool, error) {
	const op = "storage.postgres.GetTool"
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, errToolNotFound)
	}

	tool, err := scanTool(s.DB.QueryRowContext(ctx, selectToolColumns+` WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tool, nil
}

// ListTools возвращает все инструменты, упорядоченные по имени.
func (s *Storage) ListTools(ctx context.Context) ([]*models.AITool, error) {
	const op = "storage.postgres.ListTools"

	tools, err := s.queryTools(ctx, selectToolColumns+` `+orderByName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tools, nil
}

// SearchTools выполняет полнотекстовый поиск по имени и описанию.
// Запрос без значимых слов (только стоп-слова или знаки) ничего не находит.
func (s *Storage) SearchTools(ctx context.Context, keyword string) ([]*models.AITool, error) {
	const op = "storage.postgres.SearchTools"

	var lexemes int
	if err := s.DB.QueryRowContext(ctx, searchLexemes, keyword).Scan(&lexemes); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if lexemes == 0 {
		return []*models.AITool{}, nil
	}

	tools, err := s.queryTools(ctx, selectToolColumns+` `+searchCondition+` `+orderByName, keyword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tools, nil
}

// UpdateTool атомарно изменяет инструмент.
//
// Строка блокируется до конца транзакции, fn получает её текущее состояние.
// Если fn возвращает ошибку, транзакция откатывается и ошибка возвращается как есть.
func (s *Storage) UpdateTool(ctx context.Context, id string, fn func(*models.AITool) error) (*models.AITool, error) {
	const op = "storage.postgres.UpdateTool"
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, errToolNotFound)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	tool, err := scanTool(tx.QueryRowContext(ctx, selectToolColumns+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = fn(tool); err != nil {
		return nil, err
	}

	ratings, reviews, err := marshalFeedback(tool)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	query := `UPDATE ai_tools
			  SET ratings = $1, reviews = $2, average_rating = $3
			  WHERE id = $4`
	if _, err = tx.ExecContext(ctx, query, ratings, reviews, tool.AverageRating, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}
	return tool, nil
}

func (s *Storage) queryTools(ctx context.Context, query string, args ...any) ([]*models.AITool, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tools := make([]*models.AITool, 0)
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, tool)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tools, nil
}

func scanTool(row rowScanner) (*models.AITool, error) {
	var (
		tool             models.AITool
		ratings, reviews []byte
		createdBy        sql.NullString
	)
	err := row.Scan(&tool.ID, &tool.Name, &tool.Description, &tool.IsPaid, &tool.ToolWebsite,
		&ratings, &reviews, &tool.AverageRating, &createdBy, &tool.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errToolNotFound
	}
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(ratings, &tool.Ratings); err != nil {
		return nil, fmt.Errorf("decode ratings: %w", err)
	}
	if err = json.Unmarshal(reviews, &tool.Reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	tool.CreatedBy = createdBy.String
	return tool.Clone(), nil
}

func marshalFeedback(tool *models.AITool) (string, string, error) {
	c := tool.Clone()
	ratings, err := json.Marshal(c.Ratings)
	if err != nil {
		return "", "", fmt.Errorf("encode ratings: %w", err)
	}
	reviews, err := json.Marshal(c.Reviews)
	if err != nil {
		return "", "", fmt.Errorf("encode reviews: %w", err)
	}
	return string(ratings), string(reviews), nil
}

func nullableUUID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}
