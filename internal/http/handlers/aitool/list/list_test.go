package list

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Search(ctx context.Context, keyword string) ([]*models.AITool, error) {
	args := m.Called(ctx, keyword)
	if res := args.Get(0); res != nil {
		return res.([]*models.AITool), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tools := []*models.AITool{
		{ID: "1", Name: "Alpha", Description: "image generator"},
		{ID: "2", Name: "Beta", Description: "code assistant"},
	}

	tests := []struct {
		name       string
		url        string
		setupMock  func(*MockService)
		wantStatus int
		wantIDs    []string
		wantError  string
	}{
		{
			name: "all tools",
			url:  "/api/ai-tools",
			setupMock: func(m *MockService) {
				m.On("Search", mock.Anything, "").Return(tools, nil)
			},
			wantStatus: http.StatusOK,
			wantIDs:    []string{"1", "2"},
		},
		{
			name: "search by keyword",
			url:  "/api/ai-tools/search?query=image",
			setupMock: func(m *MockService) {
				m.On("Search", mock.Anything, "image").Return(tools[:1], nil)
			},
			wantStatus: http.StatusOK,
			wantIDs:    []string{"1"},
		},
		{
			name: "nothing found",
			url:  "/api/ai-tools?query=zzz",
			setupMock: func(m *MockService) {
				m.On("Search", mock.Anything, "zzz").Return(nil, nil)
			},
			wantStatus: http.StatusOK,
			wantIDs:    []string{},
		},
		{
			name: "storage failure",
			url:  "/api/ai-tools",
			setupMock: func(m *MockService) {
				m.On("Search", mock.Anything, "").Return(nil, errors.New("timeout"))
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Contains(t, rec.Body.String(), tt.wantError)
				return
			}

			var got []models.AITool
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			ids := make([]string, 0, len(got))
			for _, tool := range got {
				ids = append(ids, tool.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			svc.AssertExpectations(t)
		})
	}
}
