package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/models"
)

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 2)(next)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ai-tools", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitMiddleware_SeparateInstances(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	first := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 1)(next)
	second := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 1)(next)

	rec := httptest.NewRecorder()
	first.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	second.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware_PerUser(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 1)(next)

	requestAs := func(uid string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/ai-tools", nil)
		req = req.WithContext(middlewarectx.WithUser(req.Context(), &models.User{UUID: uid}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, requestAs("alice"))
	assert.Equal(t, http.StatusTooManyRequests, requestAs("alice"))
	assert.Equal(t, http.StatusOK, requestAs("bob"), "another user has its own bucket")
	assert.Equal(t, http.StatusTooManyRequests, requestAs("bob"))
}

func TestRateLimitMiddleware_PerAddressWithoutUser(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 1)(next)

	requestFrom := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/ai-tools", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, requestFrom("10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, requestFrom("10.0.0.1:5001"), "port does not matter")
	assert.Equal(t, http.StatusOK, requestFrom("10.0.0.2:5000"))
}
