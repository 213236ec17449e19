package middleware

type contextKey string

const (
	// RequestIDKey stores the request ID in the gin context.
	RequestIDKey = "request_id"
	// CollectionKey stores the collection resolved from the request API key.
	CollectionKey contextKey = "feedback_collection"
)
