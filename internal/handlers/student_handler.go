package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"student-sync-backend/internal/services/duplicates"
)

type StudentHandler struct {
	duplicates *duplicates.Service
}

func NewStudentHandler(d *duplicates.Service) *StudentHandler {
	return &StudentHandler{duplicates: d}
}

func (h *StudentHandler) ListDuplicates(c *gin.Context) {
	groups, err := h.duplicates.Analyze(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
}

func (h *StudentHandler) ResolveDuplicates(c *gin.Context) {
	res, err := h.duplicates.ResolveAutomatically(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *StudentHandler) BatchDelete(c *gin.Context) {
	var payload struct {
		StudentIDs []uuid.UUID `json:"student_ids"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	deleted, err := h.duplicates.DeleteStudents(c.Request.Context(), payload.StudentIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "students deleted", "deleted": deleted})
}
