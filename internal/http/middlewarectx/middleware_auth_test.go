package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/apperr"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

// Mock for Authenticator
type AuthMock struct {
	mock.Mock
}

func (m *AuthMock) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	alice := &models.User{UUID: "user-1", Username: "alice"}

	tests := []struct {
		name           string
		authHeader     string
		mockToken      string
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "empty bearer token",
			authHeader:     "Bearer   ",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "token rejected",
			authHeader:     "Bearer expired",
			mockToken:      "expired",
			mockErr:        apperr.New(apperr.ErrUnauthorized, "invalid or expired token"),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "storage failure",
			authHeader:     "Bearer token",
			mockToken:      "token",
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			mockToken:      "validtoken",
			mockUser:       alice,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthMock)
			if tt.mockToken != "" {
				authMock.On("Authenticate", mock.Anything, tt.mockToken).Return(tt.mockUser, tt.mockErr).Once()
			}

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				user, ok := middlewarectx.UserFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "alice", user.Username)
				w.WriteHeader(http.StatusOK)
			})
			handler := middlewarectx.JWTMiddleware(authMock, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if !tt.wantCalled {
				assert.Contains(t, rec.Body.String(), `"status":"Error"`)
			}
			authMock.AssertExpectations(t)
		})
	}
}

func TestSubscriptionMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{name: "subscriber passes", user: &models.User{UUID: "u", IsSubscribed: true}, wantStatus: http.StatusOK},
		{name: "not subscribed", user: &models.User{UUID: "u"}, wantStatus: http.StatusForbidden},
		{name: "no user in context", user: nil, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := middlewarectx.SubscriptionMiddleware(newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodPost, "/api/ai-tools", nil)
			if tt.user != nil {
				req = req.WithContext(middlewarectx.WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
