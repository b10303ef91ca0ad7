package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
)

// respondDetail writes the {"detail": ...} error body used by every endpoint
func respondDetail(c *gin.Context, status int, detail any) {
	c.JSON(status, gin.H{"detail": detail})
}

// respondValidation writes a 422 with per-field messages when err holds
// validation errors, reporting whether it did.
func respondValidation(c *gin.Context, err error) bool {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return false
	}
	respondDetail(c, http.StatusUnprocessableEntity, verrs)
	return true
}

// respondBindError answers payloads that could not be decoded
func respondBindError(c *gin.Context, err error) {
	respondDetail(c, http.StatusUnprocessableEntity, err.Error())
}
