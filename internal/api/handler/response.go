package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"grievance/backend/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

var statusByKind = map[error]int{
	apperr.ErrValidation:      http.StatusBadRequest,
	apperr.ErrBadRequest:      http.StatusBadRequest,
	apperr.ErrNotFound:        http.StatusNotFound,
	apperr.ErrForbidden:       http.StatusForbidden,
	apperr.ErrUnauthenticated: http.StatusUnauthorized,
	apperr.ErrConflict:        http.StatusConflict,
}

// writeError maps a service error to its HTTP status. Errors without a kind
// are logged and hidden behind a generic 500.
func writeError(c *gin.Context, err error) {
	if status, found := statusByKind[apperr.KindOf(err)]; found {
		fail(c, status, err.Error())
		return
	}
	log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
	fail(c, http.StatusInternalServerError, "internal server error")
}

// bindError reports a malformed body, naming the fields that failed validation.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fail(c, http.StatusBadRequest, "malformed request body")
		return
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	fail(c, http.StatusBadRequest, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param())
	default:
		return field + " is invalid"
	}
}
