package models

type ErrDetails struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrDetails `json:"error"`
}

const (
	NotFoundErr         string = "NOT_FOUND"
	AlreadyExistsErr    string = "ALREADY_EXISTS"
	InvalidJSONErr      string = "INVALID_JSON"
	ValidationFailedErr string = "VALIDATION_FAILED"
	InternalErr         string = "INTERNAL_ERROR"
)
