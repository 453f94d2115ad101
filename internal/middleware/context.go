package middleware

// ContextKeyRequestID stores the request identifier on the echo context.
const ContextKeyRequestID = "request_id"

// HeaderRequestID carries the request identifier in and out of the API.
const HeaderRequestID = "X-Request-ID"
