package contextx

import "context"

// Key is a private type to avoid collisions in request context keys.
type Key string

// UserIDKey holds the authenticated user's ID (string).
const UserIDKey Key = "userID"

// EmailKey holds the authenticated user's email (string).
const EmailKey Key = "email"

// UserID returns the authenticated user's ID, or "" when the request is anonymous.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

