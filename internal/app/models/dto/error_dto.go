package dto

import (
	"errors"
	"net/http"

	"github.com/yigit/unienroll/internal/pkg/apperrors"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	ErrorCodeUnauthorized ErrorCode = "AUTH_008"

	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"

	ErrorCodeDuplicateEnrollment ErrorCode = "ENR_001"
	ErrorCodeCapacityExceeded    ErrorCode = "ENR_002"

	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	ErrorCodeInternalServer       ErrorCode = "SRV_001"
	ErrorCodeExternalServiceError ErrorCode = "SRV_003"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Detail string    `json:"detail" example:"Course is full"`
	Code   ErrorCode `json:"code,omitempty" example:"ENR_002"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(code ErrorCode, detail string) ErrorResponse {
	return ErrorResponse{Detail: detail, Code: code}
}

type errorMapping struct {
	sentinel error
	status   int
	code     ErrorCode
}

// Ordered most specific first: the enrollment conflicts share 409 with ErrConflict.
var errorMappings = []errorMapping{
	{apperrors.ErrDuplicateEnrollment, http.StatusConflict, ErrorCodeDuplicateEnrollment},
	{apperrors.ErrCapacityExceeded, http.StatusConflict, ErrorCodeCapacityExceeded},
	{apperrors.ErrConflict, http.StatusConflict, ErrorCodeResourceAlreadyExists},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, ErrorCodeResourceNotFound},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, ErrorCodeValidationFailed},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, ErrorCodeUnauthorized},
	{apperrors.ErrNetwork, http.StatusBadGateway, ErrorCodeExternalServiceError},
}

// Classify returns the HTTP status and code for an application error.
// ok is false for errors outside the taxonomy.
func Classify(err error) (status int, code ErrorCode, ok bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			return m.status, m.code, true
		}
	}
	return http.StatusInternalServerError, ErrorCodeInternalServer, false
}

// SentinelForCode is the inverse of Classify on the code; nil when unknown
func SentinelForCode(code ErrorCode) error {
	for _, m := range errorMappings {
		if m.code == code {
			return m.sentinel
		}
	}
	return nil
}

// SentinelForStatus restores an error category from a bare HTTP status
func SentinelForStatus(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.ErrValidationFailed
	case http.StatusNotFound:
		return apperrors.ErrResourceNotFound
	case http.StatusConflict:
		return apperrors.ErrConflict
	case http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	default:
		return apperrors.ErrNetwork
	}
}
