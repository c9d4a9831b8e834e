package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"removals/internal/metrics"
)

// Review is a simplified Google review.
type Review struct {
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
	Time       int    `json:"time"`
	Language   string `json:"language,omitempty"`
}

// PlaceReviews is the review summary shown in the site's review widget.
type PlaceReviews struct {
	Reviews      []Review `json:"reviews"`
	Rating       float32  `json:"rating"`
	TotalReviews int      `json:"totalReviews"`
}

// PlacesService handles interactions with the Google Places API.
type PlacesService struct {
	client *maps.Client
	fields []maps.PlaceDetailsFieldMask
}

// NewPlacesService creates a new PlacesService with the given API key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	var fields []maps.PlaceDetailsFieldMask
	for _, name := range []string{"reviews", "rating", "user_ratings_total"} {
		f, err := maps.ParsePlaceDetailsFieldMask(name)
		if err != nil {
			return nil, fmt.Errorf("place details field %s: %w", name, err)
		}
		fields = append(fields, f)
	}
	return &PlacesService{client: client, fields: fields}, nil
}

// Reviews fetches at most limit reviews plus the aggregate rating for a place.
func (s *PlacesService) Reviews(ctx context.Context, placeID string, limit int) (PlaceReviews, error) {
	res, err := s.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields:  s.fields,
	})
	if err != nil {
		metrics.MapsCalls.WithLabelValues("place_details", "error").Inc()
		return PlaceReviews{}, fmt.Errorf("places api error: %w", err)
	}
	metrics.MapsCalls.WithLabelValues("place_details", "ok").Inc()

	out := PlaceReviews{Rating: res.Rating, TotalReviews: res.UserRatingsTotal, Reviews: []Review{}}
	for _, r := range res.Reviews {
		if len(out.Reviews) >= limit {
			break
		}
		out.Reviews = append(out.Reviews, Review{
			AuthorName: r.AuthorName,
			Rating:     r.Rating,
			Text:       r.Text,
			Time:       r.Time,
			Language:   r.Language,
		})
	}
	return out, nil
}
