package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"student-sync-backend/internal/services/payments"
)

type PaymentHandler struct {
	updater *payments.Updater
}

func NewPaymentHandler(u *payments.Updater) *PaymentHandler {
	return &PaymentHandler{updater: u}
}

func (h *PaymentHandler) Update(c *gin.Context) {
	res, err := h.updater.Update(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
