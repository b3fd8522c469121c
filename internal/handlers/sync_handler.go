package handler

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"student-sync-backend/internal/services/studentsync"
)

type SyncHandler struct {
	service *studentsync.Service
}

func NewSyncHandler(s *studentsync.Service) *SyncHandler {
	return &SyncHandler{service: s}
}

// StartRun reads the uploaded rosters and processes them in background.
// dry_run defaults to true.
func (h *SyncHandler) StartRun(c *gin.Context) {
	dryRun, err := strconv.ParseBool(c.DefaultPostForm("dry_run", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dry_run value"})
		return
	}
	updatePayments, err := strconv.ParseBool(c.DefaultPostForm("update_payments", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update_payments value"})
		return
	}

	var files []studentsync.File
	if form, err := c.MultipartForm(); err == nil {
		for _, header := range form.File["files"] {
			f, err := header.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read " + header.Filename})
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read " + header.Filename})
				return
			}
			log.Println("Received file:", header.Filename, "size:", header.Size)
			files = append(files, studentsync.File{Name: header.Filename, Content: bytes.NewReader(data)})
		}
	}

	run, err := h.service.Start(c.Request.Context(), files, studentsync.Options{
		DryRun:         dryRun,
		UpdatePayments: updatePayments,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"run_id": run.ID.String(),
		"status": run.Status,
	})
}

func (h *SyncHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return
	}

	run, err := h.service.Get(c.Request.Context(), id)
	if errors.Is(err, studentsync.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}
