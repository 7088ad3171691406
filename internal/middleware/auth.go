package middleware

import (
	"net/http"

	"github.com/dukerupert/chorequest/internal/auth"
)

// PinHeader carries the parent PIN on requests to parent-only routes.
const PinHeader = "X-Parent-Pin"

// RequireParent gates parent-only routes behind the family PIN. currentPin
// is a func so the middleware always checks the live value, not the PIN at
// router construction time. There is deliberately no attempt counter; this
// guards against children, not adversaries.
func RequireParent(currentPin func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.VerifyPin(currentPin(), r.Header.Get(PinHeader)) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
