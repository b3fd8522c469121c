package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"student-sync-backend/internal/apperr"
)

func respondError(c *gin.Context, err error) {
	if apperr.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
