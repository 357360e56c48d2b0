package middleware

import (
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Recoverer turns a handler panic into a 500 response in the error
// envelope. http.ErrAbortHandler is re-raised so net/http can abort the
// connection.
func Recoverer(respond ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				respond(w, r, pkgerrors.Errorf("panic: %v", rec))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
