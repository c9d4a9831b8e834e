// README: Route mileage lookup.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"removals/internal/modules/route"
)

type RouteHandler struct {
	route   *route.Service
	timeout time.Duration
}

func NewRouteHandler(svc *route.Service, timeout time.Duration) *RouteHandler {
	return &RouteHandler{route: svc, timeout: timeout}
}

type routeResponse struct {
	Miles    float64  `json:"miles"`
	Meters   int      `json:"meters"`
	Summary  string   `json:"summary,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Status   string   `json:"status"`
}

func (h *RouteHandler) Miles(c *gin.Context) {
	var req route.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	res, err := h.route.Resolve(ctx, req)
	if err != nil {
		writeRouteError(c, err, h.route.MaxStops())
		return
	}
	writeJSON(c, http.StatusOK, routeResponse{
		Miles:    res.Miles,
		Meters:   res.Meters,
		Summary:  res.Summary,
		Warnings: res.Warnings,
		Status:   res.Status(),
	})
}
