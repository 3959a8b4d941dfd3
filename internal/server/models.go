package server

// ClassifyRequest is the POST /classify body. Text is a pointer so a
// missing field can be told apart from an empty string.
type ClassifyRequest struct {
	Text *string `json:"text"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse is returned by GET /version
type VersionResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

const (
	codeBadRequest      = "bad_request"
	codeInvalidRequest  = "invalid_request"
	codeRequestTooLarge = "request_too_large"
)
