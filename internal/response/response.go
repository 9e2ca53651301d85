package response

import (
	"net/http"

	"github.com/Sintu8737/timesheet/internal"
)

// MessageBody is the body of responses that carry only a confirmation.
type MessageBody struct {
	Message string `json:"message"`
}

func Message(msg string) MessageBody {
	return MessageBody{Message: msg}
}

func BadRequest(msg string) *internal.AppError {
	return internal.NewAppError(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) *internal.AppError {
	return internal.NewAppError(http.StatusUnauthorized, msg)
}

func NotFound(msg string) *internal.AppError {
	return internal.NewAppError(http.StatusNotFound, msg)
}

func Conflict(msg string) *internal.AppError {
	return internal.NewAppError(http.StatusConflict, msg)
}

func InternalError(msg string) *internal.AppError {
	return internal.NewAppError(http.StatusInternalServerError, msg)
}

// Invalid reports field-level validation failures.
func Invalid(ve *internal.ValidationError) *internal.AppError {
	e := BadRequest("Validation failed")
	e.Fields = ve.Fields
	return e
}
