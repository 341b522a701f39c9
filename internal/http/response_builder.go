package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetapp/internal/core"
	"budgetapp/internal/log"
)

// userView is the public shape of the account; the password hash never leaves the server.
type userView struct {
	Email   string       `json:"email"`
	Profile core.Profile `json:"profile"`
}

func newUserView(u core.User) userView {
	return userView{Email: u.Email, Profile: u.Profile}
}

type loginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expiresAt"`
	User      userView `json:"user"`
}

type budgetResponse struct {
	Monthly *core.Money `json:"monthly"`
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidEmail),
		errors.Is(err, core.ErrEmptyPassword),
		errors.Is(err, core.ErrPasswordTooLong),
		errors.Is(err, core.ErrNoteTooLong):
		return http.StatusBadRequest, log.ErrorTypeValidation
	case errors.Is(err, core.ErrInvalidCredentials), errors.Is(err, core.ErrNoSession):
		return http.StatusUnauthorized, log.ErrorTypeAuth
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrNoBudget):
		return http.StatusNotFound, log.ErrorTypeNotFound
	case errors.Is(err, core.ErrDuplicateAccount):
		return http.StatusConflict, log.ErrorTypeConflict
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, log.ErrorTypeValidation
	default:
		return http.StatusInternalServerError, log.ErrorTypeInternal
	}
}

// abortWithError writes {"error": msg} with the mapped status. Internal
// errors are logged and hidden from the client.
func (s *Server) abortWithError(c *gin.Context, err error) {
	status, kind := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request.Context(), "Request failed",
			log.FieldPath, c.Request.URL.Path, log.FieldError, msg, log.FieldErrorType, kind)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
