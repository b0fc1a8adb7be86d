package api

import (
	"errors"
	"io"
	"net/http"

	resdto "psyconnect/internal/handler/dto/response"
	"psyconnect/internal/handler/middleware"
	"psyconnect/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
	}
}

// @Summary Pay for reservation
// @Description Open a checkout session for a confirmed reservation
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/pay [post]
func (h *PaymentHandler) Pay(c *gin.Context) {
	patientID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	result, err := h.paymentCommands.Pay(c.Request.Context(), patientID, id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, commands.ErrNotReservationOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Not allowed to pay for this reservation",
			})
		case errors.Is(err, commands.ErrNotPayable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation is not awaiting payment",
			})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCheckoutResult(result))
}

// @Summary Payment webhook
// @Description Receives checkout settlement events from the payment provider
// @Tags payments
// @Accept json
// @Success 200 "OK"
// @Failure 400 {object} map[string]string
// @Router /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read payload",
		})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.paymentCommands.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, commands.ErrWebhookRejected) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Webhook verification failed",
			})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.Status(http.StatusOK)
}
