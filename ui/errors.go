package ui

import (
	"html"
	"net/http"

	"autostat/domain/core"
	"autostat/internal/errors"

	"github.com/gin-gonic/gin"
)

// statusFor maps an error onto an HTTP status via its AppError code, falling
// back to the domain sentinels
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeValidationError, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodePaymentRequired:
		return http.StatusPaymentRequired
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeExternalService:
		return http.StatusBadGateway
	case errors.CodeConfigInvalid, errors.CodeDatabaseError, errors.CodeInternalError:
		return http.StatusInternalServerError
	}
	switch {
	case core.IsValidationError(err):
		return http.StatusBadRequest
	case core.IsNotFoundError(err):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondDetail writes a JSON error body of the form {"detail": "..."}
func respondDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// respondHTMLError writes a small HTML error page; message is escaped
func respondHTMLError(c *gin.Context, status int, title, message string) {
	body := "<h1>" + html.EscapeString(title) + "</h1><p>" + html.EscapeString(message) + "</p>"
	c.Data(status, "text/html; charset=utf-8", []byte(body))
	c.Abort()
}
