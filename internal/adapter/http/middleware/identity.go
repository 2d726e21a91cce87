package middleware

import (
	"context"
	"net/http"
)

// ContextKey is the type for context keys.
type ContextKey string

// UserIDContextKey is the context key for the request's ledger owner.
const UserIDContextKey ContextKey = "user_id"

// UserIDHeader names the header carrying the ledger owner's ID. The
// service trusts the gateway in front of it to have authenticated it.
const UserIDHeader = "X-User-ID"

// Identity requires the user ID header on every request and puts its
// value on the request context.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"missing ` + UserIDHeader + ` header"}`))
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext extracts the ledger owner's ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(string)
	return userID, ok && userID != ""
}
