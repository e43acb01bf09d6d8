package create

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/apperr"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, creator *models.User, input models.DummyAITool) (*models.AITool, error) {
	args := m.Called(ctx, creator, input)
	if res := args.Get(0); res != nil {
		return res.(*models.AITool), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	subscriber := &models.User{UUID: "u-1", Username: "alice", IsSubscribed: true}

	tests := []struct {
		name       string
		body       string
		user       *models.User
		setupMock  func(*MockService)
		wantStatus int
		wantInBody string
	}{
		{
			name: "created",
			body: `{"name":"Tool A","description":"desc"}`,
			user: subscriber,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, subscriber, models.DummyAITool{Name: "Tool A", Description: "desc"}).Return(&models.AITool{
					ID: "t-1", Name: "Tool A", Description: "desc",
					Ratings: []models.Rating{}, Reviews: []models.Review{},
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantInBody: `"averageRating":0`,
		},
		{
			name: "paid tool with website",
			body: `{"name":"Tool A","description":"desc","isPaid":true,"toolWebsite":"https://tool-a.example.com"}`,
			user: subscriber,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, subscriber, models.DummyAITool{
					Name: "Tool A", Description: "desc", IsPaid: true, ToolWebsite: "https://tool-a.example.com",
				}).Return(&models.AITool{
					ID: "t-1", Name: "Tool A", Description: "desc", IsPaid: true, ToolWebsite: "https://tool-a.example.com",
					Ratings: []models.Rating{}, Reviews: []models.Review{},
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantInBody: `"toolWebsite":"https://tool-a.example.com"`,
		},
		{
			name:       "website is not a url",
			body:       `{"name":"Tool A","description":"desc","toolWebsite":"not a url"}`,
			user:       subscriber,
			wantStatus: http.StatusBadRequest,
			wantInBody: "field toolwebsite must be a valid URL",
		},
		{
			name:       "missing description",
			body:       `{"name":"Tool A"}`,
			user:       subscriber,
			wantStatus: http.StatusBadRequest,
			wantInBody: "field description is a required field",
		},
		{
			name: "service rejects blank fields",
			body: `{"name":"   ","description":"desc"}`,
			user: subscriber,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, subscriber, models.DummyAITool{Name: "   ", Description: "desc"}).
					Return(nil, apperr.New(apperr.ErrValidation, "name and description are required"))
			},
			wantStatus: http.StatusBadRequest,
			wantInBody: "name and description are required",
		},
		{
			name: "not subscribed",
			body: `{"name":"Tool A","description":"desc"}`,
			user: &models.User{UUID: "u-2"},
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, models.DummyAITool{Name: "Tool A", Description: "desc"}).
					Return(nil, apperr.New(apperr.ErrForbidden, "subscription required"))
			},
			wantStatus: http.StatusForbidden,
			wantInBody: "subscription required",
		},
		{
			name:       "no user",
			body:       `{"name":"Tool A","description":"desc"}`,
			wantStatus: http.StatusUnauthorized,
			wantInBody: "user identification missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/ai-tools", strings.NewReader(tt.body))
			if tt.user != nil {
				req = req.WithContext(middlewarectx.WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantInBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestCreateHandler_ResponseShape(t *testing.T) {
	svc := new(MockService)
	user := &models.User{UUID: "u-1", IsSubscribed: true}
	svc.On("Create", mock.Anything, user, models.DummyAITool{Name: "Tool A", Description: "desc"}).Return(&models.AITool{
		ID: "t-1", Name: "Tool A", Description: "desc",
		Ratings: []models.Rating{}, Reviews: []models.Review{},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/ai-tools", strings.NewReader(`{"name":"Tool A","description":"desc"}`))
	req = req.WithContext(middlewarectx.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "t-1", got["id"])
	assert.Equal(t, []any{}, got["ratings"])
	assert.Equal(t, []any{}, got["reviews"])
	assert.Equal(t, false, got["isPaid"])
	assert.NotContains(t, got, "toolWebsite")
}
