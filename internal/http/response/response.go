package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps a service error onto its HTTP status. Unclassified
// errors are reported as fallbackCode without their message.
func RespondServiceError(c *gin.Context, fallbackCode string, err error) {
	status := apierr.StatusFor(err)
	var ae *apierr.Error
	switch {
	case errors.As(err, &ae) && ae.Code != "":
		RespondError(c, status, ae.Code, err)
	case status == http.StatusBadRequest:
		RespondError(c, status, "invalid_request", err)
	case status == http.StatusNotFound:
		RespondError(c, status, "not_found", err)
	case status == http.StatusUnauthorized:
		RespondError(c, status, "unauthorized", err)
	case status == http.StatusConflict:
		RespondError(c, status, "conflict", err)
	default:
		RespondError(c, status, fallbackCode, errors.New("internal error"))
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
