package api

// Error type identifiers returned in error responses
const (
	ErrTypeValidation    = "VALIDATION_ERROR"
	ErrTypeModelNotFound = "MODEL_NOT_FOUND"
	ErrTypeInvalidParams = "INVALID_PARAMS"
	ErrTypeNotFound      = "NOT_FOUND"
	ErrTypeTimeout       = "TIMEOUT"
	ErrTypeUnavailable   = "STORE_UNAVAILABLE"
	ErrTypeInternal      = "INTERNAL_ERROR"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
