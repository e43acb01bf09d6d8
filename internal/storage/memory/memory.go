// Package memory реализует хранилище каталога в памяти процесса.
//
// Используется для локального запуска и тестов. Изменения одного инструмента
// сериализуются собственной блокировкой, поэтому записи разных инструментов
// не ждут друг друга. Наружу всегда отдаются копии.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/apperr"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

var (
	errUserNotFound = apperr.New(apperr.ErrNotFound, "user not found")
	errToolNotFound = apperr.New(apperr.ErrNotFound, "AI tool not found")
)

// Storage хранит пользователей и инструменты в map.
type Storage struct {
	mu        sync.RWMutex
	users     map[string]*models.User
	usernames map[string]string
	tools     map[string]*models.AITool

	toolLocks keyedMutex
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		users:     make(map[string]*models.User),
		usernames: make(map[string]string),
		tools:     make(map[string]*models.AITool),
		toolLocks: keyedMutex{locks: make(map[string]*keyLock)},
	}
}

// CreateUser сохраняет нового пользователя.
func (s *Storage) CreateUser(_ context.Context, user models.User) error {
	const op = "storage.memory.CreateUser"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernames[user.Username]; ok {
		return fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrDuplicate, "username already exists"))
	}
	s.users[user.UUID] = &user
	s.usernames[user.Username] = user.UUID
	return nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	const op = "storage.memory.GetUserByUsername"

	s.mu.RLock()
	defer s.mu.RUnlock()

	uid, ok := s.usernames[username]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, errUserNotFound)
	}
	u := *s.users[uid]
	return &u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(_ context.Context, userUID string) (*models.User, error) {
	const op = "storage.memory.GetUser"

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userUID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, errUserNotFound)
	}
	c := *u
	return &c, nil
}

// SetSubscribed выставляет пользователю признак оплаченной подписки.
func (s *Storage) SetSubscribed(_ context.Context, userUID string) error {
	const op = "storage.memory.SetSubscribed"

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userUID]
	if !ok {
		return fmt.Errorf("%s: %w", op, errUserNotFound)
	}
	u.IsSubscribed = true
	return nil
}

// CreateTool сохраняет новый инструмент.
func (s *Storage) CreateTool(_ context.Context, tool *models.AITool) error {
	const op = "storage.memory.CreateTool"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tools[tool.ID]; ok {
		return fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrDuplicate, "AI tool already exists"))
	}
	s.tools[tool.ID] = tool.Clone()
	return nil
}

// GetTool возвращает инструмент по его ID.
func (s *Storage) GetTool(_ context.Context, id string) (*models.AITool, error) {
	const op = "storage.memory.GetTool"

	s.mu.RLock()
	defer s.mu.RUnlock()

	tool, ok := s.tools[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, errToolNotFound)
	}
	return tool.Clone(), nil
}

// ListTools возвращает все инструменты, упорядоченные по имени.
func (s *Storage) ListTools(_ context.Context) ([]*models.AITool, error) {
	s.mu.RLock()
	tools := make([]*models.AITool, 0, len(s.tools))
	for _, tool := range s.tools {
		tools = append(tools, tool.Clone())
	}
	s.mu.RUnlock()

	models.SortByName(tools)
	return tools, nil
}

// SearchTools возвращает инструменты, в имени или описании которых
// встречается хотя бы одно из слов keyword без учёта регистра.
func (s *Storage) SearchTools(_ context.Context, keyword string) ([]*models.AITool, error) {
	words := strings.Fields(strings.ToLower(keyword))

	s.mu.RLock()
	tools := make([]*models.AITool, 0)
	for _, tool := range s.tools {
		if matches(tool, words) {
			tools = append(tools, tool.Clone())
		}
	}
	s.mu.RUnlock()

	models.SortByName(tools)
	return tools, nil
}

// UpdateTool атомарно изменяет инструмент.
//
// fn получает копию текущего состояния; копия сохраняется только если fn
// вернула nil. Ошибка fn возвращается как есть.
func (s *Storage) UpdateTool(ctx context.Context, id string, fn func(*models.AITool) error) (*models.AITool, error) {
	const op = "storage.memory.UpdateTool"

	unlock := s.toolLocks.Lock(id)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	current, ok := s.tools[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, errToolNotFound)
	}

	updated := current.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.tools[id] = updated
	s.mu.Unlock()

	return updated.Clone(), nil
}

func matches(tool *models.AITool, words []string) bool {
	name := strings.ToLower(tool.Name)
	description := strings.ToLower(tool.Description)
	for _, w := range words {
		if strings.Contains(name, w) || strings.Contains(description, w) {
			return true
		}
	}
	return false
}
