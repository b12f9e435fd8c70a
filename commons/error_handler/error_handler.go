package error_handler

import (
	"net/http"

	"dingbot/commons/response"
)

type ErrorCollection struct {
	errors []response.Errors
}

func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{
		errors: make([]response.Errors, 0),
	}
}

func (ec *ErrorCollection) AddError(code int, message string, data any) *ErrorCollection {
	ec.errors = append(ec.errors, response.Errors{
		ErrorCode: code,
		Message:   message,
		Data:      data,
	})
	return ec
}

func (ec *ErrorCollection) HasErrors() bool {
	return len(ec.errors) > 0
}

func (ec *ErrorCollection) GetErrors() []response.Errors {
	return ec.errors
}

// GetHTTPStatus answers with the most severe code in the collection. Codes
// are HTTP statuses; anything unknown counts as a bad request.
func (ec *ErrorCollection) GetHTTPStatus() int {
	if !ec.HasErrors() {
		return http.StatusOK
	}

	status := 0
	for _, err := range ec.errors {
		code := err.ErrorCode
		if code < 400 || code > 599 || http.StatusText(code) == "" {
			code = http.StatusBadRequest
		}
		if code > status {
			status = code
		}
	}
	return status
}

// Common error codes
const (
	CodeValidationError     = http.StatusBadRequest
	CodeNotFound            = http.StatusNotFound
	CodeMethodNotAllowed    = http.StatusMethodNotAllowed
	CodeRateLimited         = http.StatusTooManyRequests
	CodeInternalServerError = http.StatusInternalServerError
	CodeDeliveryFailed      = http.StatusBadGateway
)

func GetValidationError(message string) response.Errors {
	return response.Errors{ErrorCode: CodeValidationError, Message: message}
}

func GetNotFoundError(message string) response.Errors {
	return response.Errors{ErrorCode: CodeNotFound, Message: message}
}

func GetInternalServerError(message string) response.Errors {
	return response.Errors{ErrorCode: CodeInternalServerError, Message: message}
}
