package middleware

// RequestIDHeader carries the request id. An incoming value is reused so that
// ids can be correlated across services.
const RequestIDHeader = "X-Request-ID"
