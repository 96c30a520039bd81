package apiErrors

import "fmt"

type ErrorCode string

const (
	ValidationFailed  ErrorCode = "VALIDATION_FAILED"
	Conflict          ErrorCode = "CONFLICT"
	InvalidID         ErrorCode = "INVALID_ID"
	InvalidCredential ErrorCode = "INVALID_CREDENTIAL"
	NotFound          ErrorCode = "NOT_FOUND"
	NoData            ErrorCode = "NO_DATA"
	StorageFailure    ErrorCode = "STORAGE_FAILURE"
	InternalError     ErrorCode = "INTERNAL_ERROR"
)

type APIError struct {
	Code    ErrorCode
	Message string
}

func (e APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
