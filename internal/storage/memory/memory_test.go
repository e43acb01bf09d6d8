package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/apperr"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

func newTool(name, description string) *models.AITool {
	return &models.AITool{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

func TestStorage_Users(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice := models.User{UUID: uuid.NewString(), Username: "alice", PasswordHash: "hash"}

	require.NoError(t, s.CreateUser(ctx, alice))

	err := s.CreateUser(ctx, models.User{UUID: uuid.NewString(), Username: "alice"})
	assert.ErrorIs(t, err, apperr.ErrDuplicate)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.UUID, got.UUID)

	got.IsSubscribed = true
	again, err := s.GetUser(ctx, alice.UUID)
	require.NoError(t, err)
	assert.False(t, again.IsSubscribed, "returned user must be a copy")

	require.NoError(t, s.SetSubscribed(ctx, alice.UUID))
	again, err = s.GetUser(ctx, alice.UUID)
	require.NoError(t, err)
	assert.True(t, again.IsSubscribed)

	_, err = s.GetUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, s.SetSubscribed(ctx, "missing"), apperr.ErrNotFound)
}

func TestStorage_ListAndSearch(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, tool := range []*models.AITool{
		newTool("Midjourney", "Image generator"),
		newTool("ChatGPT", "Chat assistant"),
		newTool("Copilot", "Code completion assistant"),
	} {
		require.NoError(t, s.CreateTool(ctx, tool))
	}

	tools, err := s.ListTools(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ChatGPT", "Copilot", "Midjourney"}, names(tools))

	tests := []struct {
		keyword string
		want    []string
	}{
		{keyword: "assistant", want: []string{"ChatGPT", "Copilot"}},
		{keyword: "IMAGE", want: []string{"Midjourney"}},
		{keyword: "image chat", want: []string{"ChatGPT", "Midjourney"}},
		{keyword: "copi", want: []string{"Copilot"}},
		{keyword: "spreadsheet", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			found, err := s.SearchTools(ctx, tt.keyword)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(found))
		})
	}
}

func TestStorage_ListTools_Empty(t *testing.T) {
	tools, err := New().ListTools(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tools)
	assert.Empty(t, tools)
}

func TestStorage_GetTool_NotFound(t *testing.T) {
	_, err := New().GetTool(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorage_UpdateTool(t *testing.T) {
	s := New()
	ctx := context.Background()
	tool := newTool("Claude", "assistant")
	require.NoError(t, s.CreateTool(ctx, tool))

	updated, err := s.UpdateTool(ctx, tool.ID, func(t *models.AITool) error {
		return t.AddRating("alice", 4)
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, updated.AverageRating, 1e-9)

	_, err = s.UpdateTool(ctx, tool.ID, func(t *models.AITool) error {
		t.Name = "changed"
		return t.AddRating("alice", 2)
	})
	assert.ErrorIs(t, err, apperr.ErrDuplicate)

	got, err := s.GetTool(ctx, tool.ID)
	require.NoError(t, err)
	assert.Equal(t, "Claude", got.Name, "failed update must not be stored")
	assert.Len(t, got.Ratings, 1)

	_, err = s.UpdateTool(ctx, "missing", func(*models.AITool) error { return nil })
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorage_UpdateTool_CanceledContext(t *testing.T) {
	s := New()
	tool := newTool("Claude", "assistant")
	require.NoError(t, s.CreateTool(context.Background(), tool))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.UpdateTool(ctx, tool.ID, func(*models.AITool) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorage_ConcurrentRatings(t *testing.T) {
	s := New()
	ctx := context.Background()
	tool := newTool("Claude", "assistant")
	require.NoError(t, s.CreateTool(ctx, tool))

	const raters = 200
	var wg sync.WaitGroup
	for i := range raters {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.UpdateTool(ctx, tool.ID, func(t *models.AITool) error {
				return t.AddRating(fmt.Sprintf("user-%d", i), i%5+1)
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := s.GetTool(ctx, tool.ID)
	require.NoError(t, err)
	assert.Len(t, got.Ratings, raters)
	assert.InDelta(t, 3.0, got.AverageRating, 1e-9)
}

func TestStorage_ConcurrentDuplicateRating(t *testing.T) {
	s := New()
	ctx := context.Background()
	tool := newTool("Claude", "assistant")
	require.NoError(t, s.CreateTool(ctx, tool))

	const attempts = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateTool(ctx, tool.ID, func(t *models.AITool) error {
				return t.AddRating("alice", 5)
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, apperr.ErrDuplicate)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	got, err := s.GetTool(ctx, tool.ID)
	require.NoError(t, err)
	assert.Len(t, got.Ratings, 1)
}

func TestKeyedMutex_ReleasesKeys(t *testing.T) {
	k := keyedMutex{locks: make(map[string]*keyLock)}

	unlockA := k.Lock("a")
	unlockB := k.Lock("b")
	assert.Len(t, k.locks, 2)

	unlockA()
	unlockB()
	assert.Empty(t, k.locks)
}

func names(tools []*models.AITool) []string {
	out := make([]string, 0, len(tools))
	for _, t := range tools {
		out = append(out, t.Name)
	}
	return out
}
