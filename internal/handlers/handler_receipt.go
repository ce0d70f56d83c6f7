package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/dto"
	"github.com/splitledger/bill_split_app/internal/middleware"
)

// receiptHandler handles HTTP requests related to receipts, line items and
// their assignments.
type receiptHandler struct {
	receiptService portssvc.ReceiptSvcFacade
}

func newReceiptHandler(rs portssvc.ReceiptSvcFacade) *receiptHandler {
	return &receiptHandler{receiptService: rs}
}

// registerGroupReceiptRoutes registers the routes nested under a group.
func registerGroupReceiptRoutes(groups *gin.RouterGroup, receiptService portssvc.ReceiptSvcFacade) {
	h := newReceiptHandler(receiptService)

	groups.POST("/:groupID/receipts", h.createReceipt)
	groups.GET("/:groupID/receipts", h.listReceipts)
}

// registerReceiptRoutes registers the routes addressed by receipt ID.
func registerReceiptRoutes(rg *gin.RouterGroup, receiptService portssvc.ReceiptSvcFacade) {
	h := newReceiptHandler(receiptService)

	receipts := rg.Group("/receipts")
	{
		receipts.GET("/:receiptID", h.getReceipt)
		receipts.PATCH("/:receiptID", h.updateReceipt)
		receipts.DELETE("/:receiptID", h.deleteReceipt)
		receipts.POST("/:receiptID/confirm", h.confirmReceipt)
		receipts.PUT("/:receiptID/assignments", h.replaceAssignments)
		receipts.POST("/:receiptID/line-items/:lineItemID/assignment", h.toggleAssignment)
	}
}

// createReceipt godoc
// @Summary Create a receipt
// @Description Creates a receipt from manual line items, an image to
// @Description extract, or both. Image-only receipts go through extraction
// @Description before they can be confirmed.
// @Tags receipts
// @Accept json
// @Produce json
// @Param groupID path string true "Group ID"
// @Param receipt body dto.CreateReceiptRequest true "Receipt details"
// @Success 201 {object} dto.ReceiptResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /groups/{groupID}/receipts [post]
func (h *receiptHandler) createReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	receipt, err := h.receiptService.CreateReceipt(c.Request.Context(), req, c.Param("groupID"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create receipt")
		return
	}

	logger.Info("Receipt created",
		slog.String("receipt_id", receipt.ReceiptID),
		slog.String("group_id", receipt.GroupID),
		slog.String("status", string(receipt.Status)))
	c.JSON(http.StatusCreated, dto.ToReceiptResponse(receipt))
}

// listReceipts godoc
// @Summary List group receipts
// @Description Lists receipts newest first with cursor pagination. Pass the
// @Description returned next_token to fetch the following page.
// @Tags receipts
// @Produce json
// @Param groupID path string true "Group ID"
// @Param limit query int false "Page size" default(20)
// @Param next_token query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListReceiptsResponse
// @Failure 400 {object} ErrorResponse "Malformed cursor"
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /groups/{groupID}/receipts [get]
func (h *receiptHandler) listReceipts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListReceiptsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	receipts, nextToken, err := h.receiptService.ListReceipts(c.Request.Context(), c.Param("groupID"), userID, params.Limit, params.NextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list receipts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListReceiptsResponse(receipts, nextToken))
}

// getReceipt godoc
// @Summary Get a receipt
// @Description Returns the receipt with its line items, assignments and
// @Description payments.
// @Tags receipts
// @Produce json
// @Param receiptID path string true "Receipt ID"
// @Success 200 {object} dto.ReceiptResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /receipts/{receiptID} [get]
func (h *receiptHandler) getReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), c.Param("receiptID"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve receipt")
		return
	}

	c.JSON(http.StatusOK, dto.ToReceiptResponse(receipt))
}

// updateReceipt godoc
// @Summary Update a receipt
// @Description Updates header fields and optionally replaces line items.
// @Description Guarded by the receipt version: a stale expected_version is
// @Description rejected with 409. Replacing line items drops their
// @Description assignments.
// @Tags receipts
// @Accept json
// @Produce json
// @Param receiptID path string true "Receipt ID"
// @Param receipt body dto.UpdateReceiptRequest true "Fields to update"
// @Success 200 {object} dto.ReceiptResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Version conflict"
// @Security BearerAuth
// @Router /receipts/{receiptID} [patch]
func (h *receiptHandler) updateReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	receipt, err := h.receiptService.UpdateReceipt(c.Request.Context(), c.Param("receiptID"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update receipt")
		return
	}

	logger.Info("Receipt updated", slog.String("receipt_id", receipt.ReceiptID), slog.Int64("version", receipt.Version))
	c.JSON(http.StatusOK, dto.ToReceiptResponse(receipt))
}

// confirmReceipt godoc
// @Summary Confirm a receipt
// @Description Marks the receipt as reviewed. Requires at least one line
// @Description item. Confirming twice is a no-op.
// @Tags receipts
// @Produce json
// @Param receiptID path string true "Receipt ID"
// @Success 200 {object} dto.ReceiptResponse
// @Failure 400 {object} ErrorResponse "No line items"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /receipts/{receiptID}/confirm [post]
func (h *receiptHandler) confirmReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	receipt, err := h.receiptService.ConfirmReceipt(c.Request.Context(), c.Param("receiptID"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to confirm receipt")
		return
	}

	c.JSON(http.StatusOK, dto.ToReceiptResponse(receipt))
}

// deleteReceipt godoc
// @Summary Delete a receipt
// @Description Deletes the receipt with its line items, assignments and
// @Description payments. Only the uploader or the group owner may delete.
// @Tags receipts
// @Produce json
// @Param receiptID path string true "Receipt ID"
// @Success 204 "Deleted"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /receipts/{receiptID} [delete]
func (h *receiptHandler) deleteReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	receiptID := c.Param("receiptID")

	if err := h.receiptService.DeleteReceipt(c.Request.Context(), receiptID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete receipt")
		return
	}

	logger.Info("Receipt deleted", slog.String("receipt_id", receiptID))
	c.Status(http.StatusNoContent)
}

// replaceAssignments godoc
// @Summary Replace line item assignments
// @Description Replaces the assignee sets of the given line items in one
// @Description shot, recomputing exact shares per item. Guarded by the
// @Description receipt version when expected_version is supplied.
// @Tags receipts
// @Accept json
// @Produce json
// @Param receiptID path string true "Receipt ID"
// @Param assignments body dto.BulkAssignRequest true "Assignments per line item"
// @Success 200 {object} dto.AssignmentResultResponse
// @Failure 400 {object} ErrorResponse "Unknown line item or non-member assignee"
// @Failure 409 {object} ErrorResponse "Version conflict"
// @Security BearerAuth
// @Router /receipts/{receiptID}/assignments [put]
func (h *receiptHandler) replaceAssignments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	version, err := h.receiptService.ReplaceAssignments(c.Request.Context(), c.Param("receiptID"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to replace assignments")
		return
	}

	c.JSON(http.StatusOK, dto.AssignmentResultResponse{Version: version})
}

// toggleAssignment godoc
// @Summary Toggle a single assignment
// @Description Flips one user's assignment to a line item and rebalances the
// @Description item's shares.
// @Tags receipts
// @Accept json
// @Produce json
// @Param receiptID path string true "Receipt ID"
// @Param lineItemID path string true "Line item ID"
// @Param toggle body dto.ToggleAssignmentRequest true "User to toggle"
// @Success 200 {object} dto.AssignmentResultResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Version conflict"
// @Security BearerAuth
// @Router /receipts/{receiptID}/line-items/{lineItemID}/assignment [post]
func (h *receiptHandler) toggleAssignment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ToggleAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	assigned, version, err := h.receiptService.ToggleAssignment(c.Request.Context(), c.Param("receiptID"), c.Param("lineItemID"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to toggle assignment")
		return
	}

	c.JSON(http.StatusOK, dto.AssignmentResultResponse{Assigned: &assigned, Version: version})
}
