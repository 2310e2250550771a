package util

const DateFormat = "2006-01-02"

// gin context keys
const (
	UserContextKey = "user"
	RequestIDKey   = "request_id"
)
