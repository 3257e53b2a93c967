package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/caretaker-backend/internal/http/response"
	"github.com/yungbote/caretaker-backend/internal/services"
)

type InsightsHandler struct {
	insights services.InsightsService
}

func NewInsightsHandler(insights services.InsightsService) *InsightsHandler {
	return &InsightsHandler{insights: insights}
}

// GET /api/insights
func (h *InsightsHandler) Summary(c *gin.Context) {
	out, err := h.insights.Summary(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/insights/patterns
func (h *InsightsHandler) Patterns(c *gin.Context) {
	out, err := h.insights.Patterns(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"patterns": out})
}

// GET /api/insights/recovery
func (h *InsightsHandler) Recovery(c *gin.Context) {
	out, err := h.insights.Recovery(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/insights/correlations
func (h *InsightsHandler) Correlations(c *gin.Context) {
	out, err := h.insights.Correlations(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"correlations": out})
}

// GET /api/patterns
func (h *InsightsHandler) Findings(c *gin.Context) {
	out, err := h.insights.Findings(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"findings": out})
}
