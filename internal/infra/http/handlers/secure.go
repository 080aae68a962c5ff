package handlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
)

// SecureCompare checks two secrets in constant time. Hashing first keeps
// the comparison length-independent, so neither content nor length leaks
// through timing.
func SecureCompare(got, want string) bool {
	gotSum := sha256.Sum256([]byte(got))
	wantSum := sha256.Sum256([]byte(want))
	return subtle.ConstantTimeCompare(gotSum[:], wantSum[:]) == 1
}

// RequireSecret guards a route subtree with a shared-secret header.
// Rejection happens before any request processing.
func RequireSecret(header, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" || !SecureCompare(r.Header.Get(header), secret) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
