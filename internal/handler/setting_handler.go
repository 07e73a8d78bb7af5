package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/worklog-backend/internal/response"
	"github.com/opencampus/worklog-backend/internal/service"
	"github.com/opencampus/worklog-backend/internal/validator"
)

// SettingHandler exposes the application settings key/value store.
type SettingHandler struct {
	settingService *service.SettingService
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// GetSettings godoc
// GET /api/v1/instructor/settings
func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingService.GetAllSettings(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings godoc
// PUT /api/v1/instructor/settings
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req map[string]string
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if len(req) == 0 {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "at least one setting is required")
		return
	}

	if err := h.settingService.UpdateSettings(c.Request.Context(), req); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}
