package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mystickies/store-api/internal/service"
	"github.com/mystickies/store-api/internal/utils"
)

// SettingsHandler handles store settings HTTP endpoints.
type SettingsHandler struct {
	settingsSvc *service.SettingsService
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(settingsSvc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Settings retrieved", settings)
}

// Update handles PUT /api/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	settings, err := h.settingsSvc.Update(c.Request.Context(), &req)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Settings updated", settings)
}
