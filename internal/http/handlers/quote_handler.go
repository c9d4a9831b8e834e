// README: Quote calculator endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"removals/internal/modules/pricing"
	"removals/internal/types"
)

type QuoteHandler struct {
	pricing *pricing.Service
}

func NewQuoteHandler(svc *pricing.Service) *QuoteHandler {
	return &QuoteHandler{pricing: svc}
}

// quoteInputs is shared by the calculator and the lead form.
type quoteInputs struct {
	VanSize string   `json:"vanSize" binding:"required,oneof=small medium large"`
	Loaders *int     `json:"loaders" binding:"required,min=0,max=3"`
	Hours   float64  `json:"hours" binding:"required,min=1,max=12"`
	Miles   *float64 `json:"miles" binding:"required,min=0,max=100"`
}

func (q quoteInputs) request() pricing.QuoteRequest {
	req := pricing.QuoteRequest{VanSize: pricing.VanSize(q.VanSize), RequestedHours: q.Hours}
	if q.Loaders != nil {
		req.LoaderCount = *q.Loaders
	}
	if q.Miles != nil {
		req.Miles = *q.Miles
	}
	return req
}

type quoteResponse struct {
	Request        pricing.QuoteRequest `json:"request"`
	VanName        string               `json:"vanName"`
	Breakdown      pricing.Breakdown    `json:"breakdown"`
	LabourCost     float64              `json:"labourCost"`
	MinimumApplied bool                 `json:"minimumApplied"`
	Formatted      map[string]string    `json:"formatted"`
}

func newQuoteResponse(req pricing.QuoteRequest, b pricing.Breakdown) quoteResponse {
	gbp := types.FormatGBP
	return quoteResponse{
		Request:        req,
		VanName:        req.VanSize.DisplayName(),
		Breakdown:      b,
		LabourCost:     b.LabourCost(),
		MinimumApplied: b.MinimumApplied(),
		Formatted: map[string]string{
			"vanHourlyRate":      gbp(b.VanHourlyRate),
			"loaderHourlyRate":   gbp(b.LoaderHourlyRate),
			"combinedHourlyRate": gbp(b.CombinedHourlyRate),
			"labourCost":         gbp(b.LabourCost()),
			"distanceCharge":     gbp(b.DistanceCharge),
			"total":              gbp(b.Total),
		},
	}
}

func (h *QuoteHandler) Calculate(c *gin.Context) {
	var in quoteInputs
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err)
		return
	}
	req := in.request()
	b, err := h.pricing.Estimate(c.Request.Context(), req)
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newQuoteResponse(req, b))
}

// Minimum returns the "from" price shown on the landing page.
func (h *QuoteHandler) Minimum(c *gin.Context) {
	b := pricing.MinimumQuote()
	req := pricing.QuoteRequest{VanSize: pricing.VanSmall, RequestedHours: pricing.MinHours}
	writeJSON(c, http.StatusOK, newQuoteResponse(req, b))
}
