package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/worklog-backend/internal/middleware"
	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/opencampus/worklog-backend/internal/response"
	"github.com/opencampus/worklog-backend/internal/service"
	"github.com/opencampus/worklog-backend/internal/validator"
)

// GroupHandler manages course groups and their membership.
type GroupHandler struct {
	groupService *service.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroup godoc
// POST /api/v1/instructor/courses/:courseId/groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}

	var req model.CreateGroupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), claims.UserID, courseID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"group": group})
}

// ListGroups godoc
// GET /api/v1/instructor/courses/:courseId/groups
func (h *GroupHandler) ListGroups(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}

	groups, err := h.groupService.ListGroups(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"groups": groups})
}

// AddMembers godoc
// POST /api/v1/instructor/groups/:groupId/members
func (h *GroupHandler) AddMembers(c *gin.Context) {
	claims := middleware.GetClaims(c)

	groupID, ok := paramInt(c, "groupId")
	if !ok {
		return
	}

	var req model.AddGroupMembersRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	assigned, err := h.groupService.AddMembers(c.Request.Context(), claims.UserID, groupID, req.StudentIDs)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assigned": assigned})
}
