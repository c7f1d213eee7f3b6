// Package api implements the PromptVault REST API using chi.
package api

import "net/http"

// RequireAdmin returns middleware that gates admin routes behind the full
// access guard: the session must carry both a passed identity check and a
// passed PIN check. The response never says which one is missing.
func RequireAdmin(sess *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, pin := sess.Flags(r)
			if !identity || !pin {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
