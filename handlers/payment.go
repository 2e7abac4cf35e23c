package handlers

import (
	"errors"
	"net/http"

	"hotelbook/services/api"
	"hotelbook/services/navigation"
	"hotelbook/services/payment"
	"hotelbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler serves the checkout views. The browser page collects the
// card with the provider's SDK and posts the terminal outcome back.
type PaymentHandler struct {
	registry       *payment.Registry
	publishableKey string
}

func NewPaymentHandler(registry *payment.Registry, publishableKey string) *PaymentHandler {
	return &PaymentHandler{registry: registry, publishableKey: publishableKey}
}

// StartHandler enters the payment page: it obtains the client secret for the
// booking reference and amount in the path.
func (h *PaymentHandler) StartHandler(c *gin.Context) {
	ref, amount := c.Param("bookingReference"), c.Param("amount")
	o := h.registry.Get(ref, amount)

	session, err := o.Start(c.Request.Context())
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, payment.ErrNotAwaiting) {
			status = http.StatusConflict
		}
		getLogger(c).Warn("payment could not start", zap.String("bookingReference", ref), zap.Error(err))
		c.JSON(status, gin.H{
			"message":  api.ErrorMessage(err),
			"state":    o.State().String(),
			"redirect": navigation.Path(navigation.PaymentFailedPath, ref),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookingReference": session.BookingReference,
		"amount":           session.Amount,
		"clientSecret":     session.ClientSecret,
		"publishableKey":   h.publishableKey,
		"state":            o.State().String(),
	})
}

type outcomeBody struct {
	Status        string `json:"status" binding:"required,oneof=succeeded failed"`
	TransactionID string `json:"transactionId"`
	FailureReason string `json:"failureReason"`
}

// OutcomeHandler receives the provider's terminal result. Only the first
// result for a checkout is honoured.
func (h *PaymentHandler) OutcomeHandler(c *gin.Context) {
	ref, amount := c.Param("bookingReference"), c.Param("amount")
	var body outcomeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Message: "Invalid payment outcome", Details: err.Error()})
		return
	}

	o, ok := h.registry.Lookup(ref, amount)
	if !ok {
		c.JSON(http.StatusNotFound, utils.ErrorResponse{Message: "No payment in progress for this booking"})
		return
	}

	var err error
	if body.Status == "succeeded" {
		err = o.OnSuccess(c.Request.Context(), body.TransactionID)
	} else {
		reason := body.FailureReason
		if reason == "" {
			reason = "Payment failed"
		}
		err = o.OnFailure(c.Request.Context(), reason)
	}
	if errors.Is(err, payment.ErrNotAwaiting) {
		c.JSON(http.StatusConflict, gin.H{"message": err.Error(), "state": o.State().String()})
		return
	}

	target := navigation.PaymentFailedPath
	if o.State() == payment.StateDone {
		target = navigation.PaymentSuccessPath
	}
	c.JSON(http.StatusOK, gin.H{
		"state":    o.State().String(),
		"redirect": navigation.Path(target, ref),
	})
}

func (h *PaymentHandler) SuccessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"bookingReference": c.Param("bookingReference"),
		"message":          "Payment successful",
	})
}

func (h *PaymentHandler) FailedHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"bookingReference": c.Param("bookingReference"),
		"message":          "Payment failed",
	})
}
