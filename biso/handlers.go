package biso

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the Gate over gin's /api/stamped-bpi/* surface, the
// path prefix spec §4.10/§6 and Scenario D name explicitly.
type Handlers struct {
	gate *Gate
}

func NewHandlers(gate *Gate) *Handlers { return &Handlers{gate: gate} }

// RegisterRoutes wires the stamped-bpi endpoint group onto r.
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	group := r.Group("/api/stamped-bpi")
	group.POST("/poe/share", h.handlePoEShare)
	group.POST("/bank/transfer", h.handleBankTransfer)
	group.POST("/government/report", h.handleGovernmentReport)
}

type communicationRequest struct {
	WalletID string `json:"wallet_id" binding:"required"`
}

func (h *Handlers) respond(c *gin.Context, endpoint, operation string) {
	var req communicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	resp := h.gate.EvaluateCommunicationPermission(req.WalletID, endpoint, operation)

	status := http.StatusOK
	if !resp.Success {
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{
		"success":             resp.Success,
		"access_level":        resp.AccessLevel.String(),
		"compliance_required": resp.ComplianceRequired,
		"error":               resp.Error,
	})
}

func (h *Handlers) handlePoEShare(c *gin.Context) {
	h.respond(c, "/api/stamped-bpi/poe/share", "share")
}

func (h *Handlers) handleBankTransfer(c *gin.Context) {
	h.respond(c, "/api/stamped-bpi/bank/transfer", "transfer")
}

func (h *Handlers) handleGovernmentReport(c *gin.Context) {
	h.respond(c, "/api/stamped-bpi/government/report", "report")
}
