package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/response"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/services/payment"
)

// SubscriptionMiddleware пропускает запрос дальше только для подписчика.
// Должен стоять после JWTMiddleware.
func SubscriptionMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SubscriptionMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				response.Fail(w, r, http.StatusUnauthorized, "user identification missing")
				return
			}
			if err := payment.RequireSubscription(user); err != nil {
				response.FromError(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
