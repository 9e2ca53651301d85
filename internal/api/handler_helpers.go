package api

import (
	"net/http"
	"strconv"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/Sintu8737/timesheet/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
)

const (
	msgTimesheetNotFound  = "Timesheet not found"
	msgInvalidCredentials = "Invalid email or password"
)

// HandleError maps err onto a status code and body and logs it with the request id.
// msg describes the failed operation and is only shown for unexpected errors.
func HandleError(c *gin.Context, logger internal.Logger, err error, msg string) {
	requestID := c.GetString("request_id")
	var (
		status int
		body   *internal.AppError
		ve     *internal.ValidationError
	)
	switch {
	case errors.As(err, &ve):
		status, body = http.StatusBadRequest, response.Invalid(ve)
	case errors.Is(err, errors.NotValid):
		status, body = http.StatusBadRequest, response.BadRequest(msg+": "+err.Error())
	case errors.Is(err, errors.NotFound):
		status, body = http.StatusNotFound, response.NotFound(msgTimesheetNotFound)
	case errors.Is(err, errors.AlreadyExists):
		status, body = http.StatusConflict, response.Conflict("Timesheet already exists")
	case errors.Is(err, errors.Unauthorized):
		status, body = http.StatusUnauthorized, response.Unauthorized(msgInvalidCredentials)
	default:
		status, body = http.StatusInternalServerError, response.InternalError(msg)
	}
	if status >= http.StatusInternalServerError {
		logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	} else {
		logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
	}
	c.JSON(status, body)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}) {
	requestID := c.GetString("request_id")
	logger.Debugf("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, data)
}

// timesheetID parses the :id path parameter, answering 400 itself when it is malformed.
func timesheetID(c *gin.Context, logger internal.Logger) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		logger.Warnf("[request_id=%s] invalid timesheet id %q", c.GetString("request_id"), c.Param("id"))
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid timesheet id"))
		return 0, false
	}
	return id, true
}
