package http

import (
	"context"
	"net/http"

	"github.com/vncsmyrnk/awardvote/internal/core/ports"
)

type contextKey string

const VoterIDKey contextKey = "voter_id"

const (
	VoterCookieName   = "user_voting_id"
	voterCookieMaxAge = 10 * 365 * 24 * 60 * 60
)

// IdentityMiddleware reads the voter id cookie, issuing a new one on the
// first request, and stores the id in the request context.
func IdentityMiddleware(service ports.IdentityService, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var existing string
			if cookie, err := r.Cookie(VoterCookieName); err == nil {
				existing = cookie.Value
			}

			voterID, created := service.GetOrCreate(existing)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     VoterCookieName,
					Value:    voterID,
					Path:     "/",
					MaxAge:   voterCookieMaxAge,
					SameSite: http.SameSiteLaxMode,
					Secure:   secure,
				})
			}

			ctx := context.WithValue(r.Context(), VoterIDKey, voterID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func voterID(r *http.Request) string {
	id, _ := r.Context().Value(VoterIDKey).(string)
	return id
}
