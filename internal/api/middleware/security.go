package middleware

import "net/http"

// SecurityHeaders adds security headers to all responses. It does not
// interfere with the websocket upgrade on /ws: headers set before the
// hijack simply become part of the 101 response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}
