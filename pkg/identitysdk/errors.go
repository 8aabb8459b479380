package identitysdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned by the service.
const (
	ErrorCodeInvalidRequest         = "invalid_request"
	ErrorCodeUnauthorized           = "unauthorized"
	ErrorCodeInvalidToken           = "invalid_token"
	ErrorCodeForbidden              = "forbidden"
	ErrorCodeConflict               = "conflict"
	ErrorCodeRateLimited            = "rate_limit_exceeded"
	ErrorCodeServerError            = "server_error"
	ErrorCodeServiceUnavailable     = "service_unavailable"
	ErrorCodeTemporarilyUnavailable = "temporarily_unavailable"
)

var (
	ErrInvalidArgument    = errors.New("identitysdk: invalid argument")
	ErrInvalidCredentials = errors.New("identitysdk: invalid credentials")
	ErrConnectionFailed   = errors.New("identitysdk: connection failed")
)

// APIError is a non-success response from the service.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Details     map[string]string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("identitysdk: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("identitysdk: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// Temporary reports whether repeating the request may succeed.
func (e *APIError) Temporary() bool {
	switch e.StatusCode {
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return true
	case http.StatusServiceUnavailable:
		return e.Code == ErrorCodeTemporarilyUnavailable
	}
	return false
}

// parseErrorResponse builds an APIError from a response, falling back to the
// status text when the body is not the usual JSON shape.
func parseErrorResponse(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		apiErr.Code = resp.Error
		apiErr.Description = resp.ErrorDescription
		apiErr.Details = resp.Details
		return apiErr
	}

	apiErr.Code = http.StatusText(status)
	if len(body) > 0 && len(body) <= 512 {
		apiErr.Description = string(body)
	}
	return apiErr
}
