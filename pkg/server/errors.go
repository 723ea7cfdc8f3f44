package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// Error codes returned in error bodies.
const (
	codeInvalidRequest   = "invalid_request"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeTimeout          = "timeout"
	codeInternal         = "internal_error"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Param   string `json:"param,omitempty"`
}

// RequestError is a client error in a query parameter.
type RequestError struct {
	Param   string
	Message string
}

func (e *RequestError) Error() string {
	return "invalid parameter " + e.Param + ": " + e.Message
}

// NewRequestError creates a new RequestError.
func NewRequestError(param, message string) *RequestError {
	return &RequestError{Param: param, Message: message}
}

// statusOf maps an error from a handler to an HTTP status and error code.
// Data source failures are not described to the client.
func statusOf(err error) (int, ErrorDetail) {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, ErrorDetail{Code: codeInvalidRequest, Message: reqErr.Message, Param: reqErr.Param}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorDetail{Code: codeTimeout, Message: "the query took too long to complete"}
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, ErrorDetail{Code: codeTimeout, Message: "the request was cancelled"}
	default:
		return http.StatusInternalServerError, ErrorDetail{Code: codeInternal, Message: "an internal error occurred"}
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
