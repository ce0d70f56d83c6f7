package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/dto"
	"github.com/splitledger/bill_split_app/internal/middleware"
)

// paymentHandler handles HTTP requests related to receipt payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// registerPaymentRoutes registers payment routes under receipts plus the
// routes addressed by payment ID.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	rg.POST("/receipts/:receiptID/payments", h.recordPayment)
	rg.GET("/receipts/:receiptID/payments", h.listPayments)

	payments := rg.Group("/payments")
	{
		payments.PATCH("/:paymentID", h.updatePayment)
		payments.DELETE("/:paymentID", h.deletePayment)
	}
}

// recordPayment godoc
// @Summary Record a payment against a receipt
// @Description Records who paid how much. paid_by defaults to the caller.
// @Description The sum of payments may not exceed the receipt total.
// @Tags payments
// @Accept json
// @Produce json
// @Param receiptID path string true "Receipt ID"
// @Param payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} ErrorResponse "Non-positive amount or over-payment"
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /receipts/{receiptID}/payments [post]
func (h *paymentHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), c.Param("receiptID"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("receipt_id", payment.ReceiptID),
		slog.String("paid_by", payment.PaidBy))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// listPayments godoc
// @Summary List payments for a receipt
// @Tags payments
// @Produce json
// @Param receiptID path string true "Receipt ID"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /receipts/{receiptID}/payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), c.Param("receiptID"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, dto.ToListPaymentsResponse(payments))
}

// updatePayment godoc
// @Summary Update a payment
// @Tags payments
// @Accept json
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Param payment body dto.UpdatePaymentRequest true "Fields to update"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /payments/{paymentID} [patch]
func (h *paymentHandler) updatePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), c.Param("paymentID"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// deletePayment godoc
// @Summary Delete a payment
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 204 "Deleted"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /payments/{paymentID} [delete]
func (h *paymentHandler) deletePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	paymentID := c.Param("paymentID")

	if err := h.paymentService.DeletePayment(c.Request.Context(), paymentID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete payment")
		return
	}

	logger.Info("Payment deleted", slog.String("payment_id", paymentID))
	c.Status(http.StatusNoContent)
}
