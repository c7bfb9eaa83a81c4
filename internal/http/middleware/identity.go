package middleware

import (
	"context"
	"docproxy/internal/models"
	httperrors "docproxy/internal/utils/http_errors"
	"log/slog"
	"net/http"
)

const pkg = "middleware/"

// Identity extracts the editing identity from the X-User-Id / X-User-Name
// headers and stores it in the request context. The proxy keeps no accounts;
// authorization is the permission gateway's job.
func Identity(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := pkg + "Identity"

			log = log.With(slog.String("op", op))

			userID := r.Header.Get("X-User-Id")
			if userID == "" {
				log.Warn("request without user identity")
				httperrors.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
				return
			}

			user := &models.User{
				ID:   userID,
				Name: r.Header.Get("X-User-Name"),
			}

			ctx := context.WithValue(r.Context(), models.UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
