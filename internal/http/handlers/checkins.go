package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/caretaker-backend/internal/http/response"
	"github.com/yungbote/caretaker-backend/internal/services"
)

type CheckInHandler struct {
	checkIns services.CheckInService
}

func NewCheckInHandler(checkIns services.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkIns: checkIns}
}

// POST /api/checkins
func (h *CheckInHandler) Submit(c *gin.Context) {
	var req services.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.checkIns.Submit(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, res)
}

// GET /api/checkins?days=N
func (h *CheckInHandler) List(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.RespondError(c, http.StatusBadRequest, "invalid_days", nil)
			return
		}
		days = n
	}
	rows, err := h.checkIns.List(c.Request.Context(), days)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"check_ins": rows})
}

// GET /api/checkins/:day
func (h *CheckInHandler) Get(c *gin.Context) {
	row, err := h.checkIns.Get(c.Request.Context(), c.Param("day"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"check_in": row})
}
