package middleware

import (
	"net/http"
	"strings"

	"visionguard/internal/services/session"

	"github.com/google/uuid"
)

const sessionCookie = "vg_session"

// SessionMiddleware attaches a per-browser session to every request.
// A missing or malformed cookie gets a fresh session. Static assets are
// served without one.
func SessionMiddleware(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") ||
				strings.HasPrefix(r.URL.Path, "/css/") ||
				strings.HasPrefix(r.URL.Path, "/js/") {
				next.ServeHTTP(w, r)
				return
			}

			var sess *session.Session
			cookie, err := r.Cookie(sessionCookie)
			if err == nil {
				// Reject anything that is not a UUID so cookie values
				// never reach the temp file path.
				if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					sess = store.GetOrCreate(cookie.Value)
				}
			}

			if sess == nil {
				sess = store.Create(uuid.NewString())
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			sess.Touch()
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}
