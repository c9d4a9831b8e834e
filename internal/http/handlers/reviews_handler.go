// README: Google review widget data.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"removals/internal/maps"
)

const (
	defaultMaxReviews = 5
	maxMaxReviews     = 20
)

type ReviewSource interface {
	Reviews(ctx context.Context, placeID string, limit int) (maps.PlaceReviews, error)
}

type ReviewsHandler struct {
	source         ReviewSource
	defaultPlaceID string
}

// NewReviewsHandler takes a nil source when no maps key is configured.
func NewReviewsHandler(source ReviewSource, defaultPlaceID string) *ReviewsHandler {
	return &ReviewsHandler{source: source, defaultPlaceID: defaultPlaceID}
}

func (h *ReviewsHandler) List(c *gin.Context) {
	placeID := c.DefaultQuery("placeId", h.defaultPlaceID)
	if placeID == "" {
		writeError(c, http.StatusBadRequest, "Place ID is required")
		return
	}
	if h.source == nil {
		writeError(c, http.StatusServiceUnavailable, "Google Maps API key not configured")
		return
	}
	limit, err := strconv.Atoi(c.Query("maxReviews"))
	if err != nil || limit <= 0 {
		limit = defaultMaxReviews
	}
	limit = min(limit, maxMaxReviews)

	res, err := h.source.Reviews(c.Request.Context(), placeID, limit)
	if err != nil {
		writeJSON(c, http.StatusBadGateway, errorResponse{
			Error:  "Failed to fetch reviews from Google Places API",
			Status: err.Error(),
		})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"reviews":      res.Reviews,
		"rating":       res.Rating,
		"totalReviews": res.TotalReviews,
		"status":       "success",
	})
}
