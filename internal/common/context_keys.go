// File: internal/common/context_keys.go
package common

const (
	// RequestIDHeader is the header name for request ID
	RequestIDHeader = "X-Request-ID"
	// SessionIDHeader carries the client's opaque session identifier
	SessionIDHeader = "X-Session-ID"
	// RequestIDContextKey is the Gin context key for the request ID
	RequestIDContextKey = "requestID"
	// LoggerContextKey is the Gin context key for the request scoped logger
	LoggerContextKey = "logger"
)
