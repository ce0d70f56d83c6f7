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

// groupHandler handles HTTP requests related to groups and membership.
type groupHandler struct {
	groupService portssvc.GroupSvcFacade
	userService  portssvc.UserSvcFacade
}

func newGroupHandler(gs portssvc.GroupSvcFacade, us portssvc.UserSvcFacade) *groupHandler {
	return &groupHandler{groupService: gs, userService: us}
}

// registerGroupRoutes registers the group-level routes and delegates the
// nested receipt, balance and stats routes to their handlers.
func registerGroupRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newGroupHandler(services.Group, services.User)

	groups := rg.Group("/groups")
	{
		groups.POST("", h.createGroup)
		groups.GET("", h.listGroups)
		groups.POST("/join", h.joinGroup)
		groups.GET("/:groupID", h.getGroup)
		groups.GET("/:groupID/members", h.listMembers)
		groups.PATCH("/:groupID/currency", h.updateCurrency)
	}

	registerGroupReceiptRoutes(groups, services.Receipt)
	registerBalanceRoutes(groups, services.Balance)
	registerStatsRoutes(groups, services.Stats)
}

// createGroup godoc
// @Summary Create a group
// @Description Creates a group with the caller as owner and generates an
// @Description invite code.
// @Tags groups
// @Accept json
// @Produce json
// @Param group body dto.CreateGroupRequest true "Group details"
// @Success 201 {object} dto.GroupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups [post]
func (h *groupHandler) createGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create group")
		return
	}

	logger.Info("Group created", slog.String("group_id", group.GroupID), slog.String("owner_id", userID))
	c.JSON(http.StatusCreated, dto.ToGroupResponse(group))
}

// listGroups godoc
// @Summary List the caller's groups
// @Tags groups
// @Produce json
// @Success 200 {object} dto.ListGroupsResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups [get]
func (h *groupHandler) listGroups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	groups, err := h.groupService.ListGroupsForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list groups")
		return
	}

	c.JSON(http.StatusOK, dto.ToListGroupsResponse(groups))
}

// joinGroup godoc
// @Summary Join a group by invite code
// @Description Adds the caller as a member. Joining a group you already
// @Description belong to is a no-op and returns the group.
// @Tags groups
// @Accept json
// @Produce json
// @Param join body dto.JoinGroupRequest true "Invite code"
// @Success 200 {object} dto.GroupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Invalid invite code"
// @Security BearerAuth
// @Router /groups/join [post]
func (h *groupHandler) joinGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	displayName := ""
	if user, err := h.userService.GetUserByID(c.Request.Context(), userID); err == nil {
		displayName = user.DisplayName
	}

	group, err := h.groupService.JoinByInviteCode(c.Request.Context(), req.InviteCode, userID, displayName)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to join group")
		return
	}

	logger.Info("User joined group", slog.String("group_id", group.GroupID), slog.String("user_id", userID))
	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// getGroup godoc
// @Summary Get a group
// @Tags groups
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{groupID} [get]
func (h *groupHandler) getGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	group, err := h.groupService.GetGroupByID(c.Request.Context(), c.Param("groupID"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve group")
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// listMembers godoc
// @Summary List group members
// @Tags groups
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} dto.ListGroupMembersResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /groups/{groupID}/members [get]
func (h *groupHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	groupID := c.Param("groupID")

	if err := h.groupService.AuthorizeMember(c.Request.Context(), userID, groupID, domain.RoleMember); err != nil {
		respondServiceError(c, logger, err, "Failed to list members")
		return
	}

	members, err := h.groupService.ListMembers(c.Request.Context(), groupID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list members")
		return
	}

	c.JSON(http.StatusOK, dto.ToListGroupMembersResponse(members))
}

// updateCurrency godoc
// @Summary Change the group's base currency
// @Description Owner only. Stored receipt amounts are untouched; balances
// @Description are simply reported in the new currency from now on.
// @Tags groups
// @Accept json
// @Produce json
// @Param groupID path string true "Group ID"
// @Param currency body dto.UpdateCurrencyRequest true "New base currency"
// @Success 200 {object} dto.GroupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Security BearerAuth
// @Router /groups/{groupID}/currency [patch]
func (h *groupHandler) updateCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	group, err := h.groupService.UpdateBaseCurrency(c.Request.Context(), c.Param("groupID"), req.BaseCurrency, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update base currency")
		return
	}

	logger.Info("Base currency updated", slog.String("group_id", group.GroupID), slog.String("base_currency", group.BaseCurrency))
	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}
