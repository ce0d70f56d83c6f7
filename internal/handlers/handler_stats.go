package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitledger/bill_split_app/internal/core/domain"
	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/dto"
	"github.com/splitledger/bill_split_app/internal/middleware"
)

// statsHandler handles the group statistics route.
type statsHandler struct {
	statsService portssvc.StatsSvcFacade
}

func newStatsHandler(ss portssvc.StatsSvcFacade) *statsHandler {
	return &statsHandler{statsService: ss}
}

func registerStatsRoutes(groups *gin.RouterGroup, statsService portssvc.StatsSvcFacade) {
	h := newStatsHandler(statsService)
	groups.GET("/:groupID/stats", h.getGroupStats)
}

// getGroupStats godoc
// @Summary Get group spending statistics
// @Description Returns total spending, per-member spending ranked highest
// @Description first and the receipt count for the requested period.
// @Tags stats
// @Produce json
// @Param groupID path string true "Group ID"
// @Param period query string false "Time window: 1d, 1mo, 1yr or all" default(1mo)
// @Success 200 {object} dto.GroupStatsResponse
// @Failure 400 {object} ErrorResponse "Unknown period"
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /groups/{groupID}/stats [get]
func (h *statsHandler) getGroupStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.StatsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	stats, err := h.statsService.GetGroupStats(c.Request.Context(), c.Param("groupID"), userID, domain.Period(params.Period))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute group stats")
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupStatsResponse(stats))
}
