package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitledger/bill_split_app/internal/core/domain"
	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/dto"
	"github.com/splitledger/bill_split_app/internal/middleware"
)

// balanceHandler handles the balance and settlement routes of a group.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

func newBalanceHandler(bs portssvc.BalanceSvcFacade) *balanceHandler {
	return &balanceHandler{balanceService: bs}
}

// registerBalanceRoutes registers the balance routes nested under a group.
func registerBalanceRoutes(groups *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := newBalanceHandler(balanceService)

	groups.GET("/:groupID/balances", h.getBalances)
	groups.POST("/:groupID/settlements", h.recordSettlement)
	groups.DELETE("/:groupID/settlements", h.clearSettlements)
}

// getBalances godoc
// @Summary Get group balances
// @Description Computes each member's spent, paid and net balance in the
// @Description group's base currency for the requested period, plus the
// @Description minimal transfer list that settles all debts. Data-quality
// @Description warnings flag unassigned items and missing exchange rates.
// @Tags balances
// @Produce json
// @Param groupID path string true "Group ID"
// @Param period query string false "Time window: 1d, 1mo, 1yr or all" default(all)
// @Success 200 {object} dto.BalancesResponse
// @Failure 400 {object} ErrorResponse "Unknown period"
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /groups/{groupID}/balances [get]
func (h *balanceHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.BalancesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	ledger, err := h.balanceService.ComputeLedger(c.Request.Context(), c.Param("groupID"), userID, domain.Period(params.Period))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute balances")
		return
	}

	transfers := h.balanceService.ComputeTransfers(ledger.PerMember)
	c.JSON(http.StatusOK, dto.ToBalancesResponse(ledger, transfers))
}

// recordSettlement godoc
// @Summary Record a settlement
// @Description Records that one member repaid another outside the app. Both
// @Description parties must be members and the amount must be positive.
// @Tags balances
// @Accept json
// @Produce json
// @Param groupID path string true "Group ID"
// @Param settlement body dto.SettleRequest true "Settlement details"
// @Success 201 {object} dto.SettlementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /groups/{groupID}/settlements [post]
func (h *balanceHandler) recordSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	settlement, err := h.balanceService.RecordSettlement(c.Request.Context(), c.Param("groupID"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record settlement")
		return
	}

	logger.Info("Settlement recorded",
		slog.String("settlement_id", settlement.SettlementID),
		slog.String("from_user", settlement.FromUser),
		slog.String("to_user", settlement.ToUser))
	c.JSON(http.StatusCreated, dto.ToSettlementResponse(settlement))
}

// clearSettlements godoc
// @Summary Clear all settlements
// @Description Wipes the group's settlement log. Owner only.
// @Tags balances
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} dto.ClearSettlementsResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Security BearerAuth
// @Router /groups/{groupID}/settlements [delete]
func (h *balanceHandler) clearSettlements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	groupID := c.Param("groupID")

	deleted, err := h.balanceService.ClearSettlements(c.Request.Context(), groupID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to clear settlements")
		return
	}

	logger.Info("Settlements cleared", slog.String("group_id", groupID), slog.Int64("deleted", deleted))
	c.JSON(http.StatusOK, dto.ClearSettlementsResponse{Deleted: deleted})
}
