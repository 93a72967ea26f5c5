package web

import (
	"net/http"

	"teamup-app/internal/store"
)

const actorCookieName = "teamup_user_id"

// WithCurrentActor rejects unauthenticated requests to protected routes.
// Handlers resolve the acting participant themselves via currentActor.
func WithCurrentActor(store store.Store, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if cookie, err := r.Cookie(actorCookieName); err == nil {
			if _, ok := store.GetUser(cookie.Value); ok {
				next.ServeHTTP(w, r)
				return
			}
		}
		respondError(w, http.StatusUnauthorized, "authentication required")
	})
}

func isPublicPath(method, path string) bool {
	switch path {
	case "/api/login", "/api/register", "/api/logout", "/healthz", "/api/stories":
		return true
	case "/api/listings":
		return method == http.MethodGet
	}
	return false
}
