package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/caretaker-backend/internal/http/response"
	"github.com/yungbote/caretaker-backend/internal/services"
)

type SettingsHandler struct {
	settings services.SettingsService
}

func NewSettingsHandler(settings services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

type updateSettingsRequest struct {
	OperatingMode string `json:"operating_mode" binding:"required"`
}

// GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.settings.Get(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"settings": s})
}

// PATCH /api/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	s, err := h.settings.SetOperatingMode(c.Request.Context(), req.OperatingMode)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"settings": s})
}
