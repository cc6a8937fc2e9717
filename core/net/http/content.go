package http

// Common Content-Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
)

// Common headers
const (
	HeaderContentType = "Content-Type"
	HeaderAccept      = "Accept"
	HeaderRequestID   = "X-Request-Id"
)

// HTTP methods used by the facade
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodPatch  = "PATCH"
	MethodDelete = "DELETE"
)
