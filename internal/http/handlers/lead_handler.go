// README: Lead submission and WhatsApp deep-link endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"removals/internal/modules/lead"
	"removals/internal/modules/pricing"
	"removals/internal/types"
)

type LeadHandler struct {
	lead *lead.Service
}

func NewLeadHandler(svc *lead.Service) *LeadHandler {
	return &LeadHandler{lead: svc}
}

type leadRequest struct {
	Name           string      `json:"name" binding:"required,min=2"`
	Phone          string      `json:"phone" binding:"required,min=10"`
	Email          string      `json:"email" binding:"omitempty,email"`
	PickupAddress  string      `json:"pickupAddress"`
	DropoffAddress string      `json:"dropoffAddress"`
	Notes          string      `json:"notes" binding:"max=2000"`
	QuoteInputs    quoteInputs `json:"quoteInputs"`
}

func (r leadRequest) details() lead.Details {
	return lead.Details{
		Name:           r.Name,
		Phone:          r.Phone,
		Email:          r.Email,
		PickupAddress:  r.PickupAddress,
		DropoffAddress: r.DropoffAddress,
		Notes:          r.Notes,
	}
}

// Submit sends the customer confirmation and the business notification.
// An unconfigured mailer is reported before the body is read.
func (h *LeadHandler) Submit(c *gin.Context) {
	if !h.lead.Configured() {
		writeLeadError(c, lead.ErrMailerNotConfigured)
		return
	}
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	b, err := h.lead.Submit(c.Request.Context(), lead.Submission{
		Details: req.details(),
		Quote:   req.QuoteInputs.request(),
	})
	if err != nil {
		writeLeadError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"success": true,
		"message": "Quote sent successfully",
		"total":   b.Total,
	})
}

type whatsAppRequest struct {
	Name           string      `json:"name"`
	Phone          string      `json:"phone"`
	PickupAddress  string      `json:"pickupAddress"`
	DropoffAddress string      `json:"dropoffAddress"`
	Notes          string      `json:"notes"`
	QuoteInputs    quoteInputs `json:"quoteInputs"`
}

// WhatsAppLink returns the deep link that opens a chat with the business
// pre-filled with the quote summary.
func (h *LeadHandler) WhatsAppLink(c *gin.Context) {
	var req whatsAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	q := req.QuoteInputs.request()
	text, url := lead.Link(q, lead.Details{
		Name:           req.Name,
		Phone:          req.Phone,
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		Notes:          req.Notes,
	}, h.lead.Business())
	writeJSON(c, http.StatusOK, gin.H{
		"url":     url,
		"message": text,
		"total":   types.FormatGBP(pricing.Calculate(q).Total),
	})
}
