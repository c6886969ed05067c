package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http/request"
)

const (
	// SessionCookie carries the cart session id in browsers
	SessionCookie = "cart_session"

	// SessionHeader carries the cart session id for API clients
	SessionHeader = "X-Cart-Session"

	sessionCookieMaxAge = 30 * 24 * time.Hour
)

// CartSession resolves the cart session of a request, issuing a new one when the
// request carries none or an unparseable one. The id is echoed in SessionHeader.
func CartSession(secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := sessionFromRequest(r)
			if !ok {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(sessionCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}

			w.Header().Set(SessionHeader, id)
			next.ServeHTTP(w, r.WithContext(request.WithSessionID(r.Context(), id)))
		})
	}
}

// sessionFromRequest prefers the header over the cookie
func sessionFromRequest(r *http.Request) (string, bool) {
	if v := r.Header.Get(SessionHeader); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			return id.String(), true
		}
	}

	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String(), true
		}
	}

	return "", false
}
