package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/delivery/http/response"
	"github.com/owntheclimb/jewishobituarymigration-sub004/internal/pkg/logger"
)

// Recovery returns a middleware that turns handler panics into 500 responses
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// Let the server abort the connection as it normally would
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.WithFields(map[string]any{
					"method":     r.Method,
					"path":       r.URL.Path,
					"request_id": chimw.GetReqID(r.Context()),
					"stack":      string(debug.Stack()),
				}).Error("Panic recovered", fmt.Errorf("panic: %v", rec))

				response.Error(w, http.StatusInternalServerError, "Internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
