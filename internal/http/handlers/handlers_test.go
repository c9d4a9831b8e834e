// README: Handler tests over gin.TestMode with fake providers.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"removals/internal/http/handlers"
	"removals/internal/maps"
	"removals/internal/modules/lead"
	"removals/internal/modules/pricing"
	"removals/internal/modules/route"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMaps is a test double for route.Geocoder and route.Router.
type fakeMaps struct {
	places     map[string]string
	candidates []route.Candidate
	routeErr   error
}

func (f *fakeMaps) PlaceID(_ context.Context, address string) (string, error) {
	if id, ok := f.places[address]; ok {
		return id, nil
	}
	return "", route.ErrAddressNotFound
}

func (f *fakeMaps) Routes(_ context.Context, _ route.Query) ([]route.Candidate, error) {
	return f.candidates, f.routeErr
}

func newRouteService(f *fakeMaps) *route.Service {
	if f == nil {
		return route.NewService(nil, nil, nil, route.Config{}, quietLogger())
	}
	return route.NewService(f, f, nil, route.Config{MaxStops: 2}, quietLogger())
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []lead.Email
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg lead.Email) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return "id", f.err
}

type fakeReviews struct {
	res       maps.PlaceReviews
	err       error
	lastLimit int
}

func (f *fakeReviews) Reviews(_ context.Context, _ string, limit int) (maps.PlaceReviews, error) {
	f.lastLimit = limit
	return f.res, f.err
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func detailFields(body map[string]any) []string {
	var fields []string
	details, _ := body["details"].([]any)
	for _, d := range details {
		if m, ok := d.(map[string]any); ok {
			fields = append(fields, m["field"].(string))
		}
	}
	return fields
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func scenarioB() map[string]any {
	return map[string]any{"vanSize": "large", "loaders": 2, "hours": 2, "miles": 25}
}

func TestQuoteHandler_Calculate(t *testing.T) {
	r := gin.New()
	h := handlers.NewQuoteHandler(pricing.NewService())
	r.POST("/api/quote/calculate", h.Calculate)
	r.GET("/api/quote/minimum", h.Minimum)

	w := doRequest(r, http.MethodPost, "/api/quote/calculate", scenarioB())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	breakdown := body["breakdown"].(map[string]any)
	if breakdown["total"] != 237.5 || breakdown["distanceCharge"] != 37.5 {
		t.Errorf("breakdown = %v", breakdown)
	}
	if body["formatted"].(map[string]any)["total"] != "£237.50" {
		t.Errorf("formatted = %v", body["formatted"])
	}
	if body["vanName"] != "Luton Van (17.3m³)" {
		t.Errorf("vanName = %v", body["vanName"])
	}

	w = doRequest(r, http.MethodGet, "/api/quote/minimum", nil)
	if got := decode(t, w)["breakdown"].(map[string]any)["total"]; got != 80.0 {
		t.Errorf("minimum total = %v, want 80", got)
	}
}

func TestQuoteHandler_CalculateInvalid(t *testing.T) {
	r := gin.New()
	r.POST("/api/quote/calculate", handlers.NewQuoteHandler(pricing.NewService()).Calculate)

	w := doRequest(r, http.MethodPost, "/api/quote/calculate", map[string]any{"vanSize": "huge", "loaders": 4, "hours": 13, "miles": 5})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := decode(t, w)
	if body["error"] != "Invalid request data" {
		t.Errorf("error = %v", body["error"])
	}
	fields := detailFields(body)
	for _, want := range []string{"vanSize", "loaders", "hours"} {
		if !contains(fields, want) {
			t.Errorf("details missing field %q: %v", want, fields)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/quote/calculate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed json: expected 400, got %d", rec.Code)
	}
}

func TestRouteHandler_Miles(t *testing.T) {
	places := map[string]string{"SW1A 1AA": "p1", "E1 6AN": "p2", "N1 9GU": "p3"}
	tests := []struct {
		name       string
		maps       *fakeMaps
		body       map[string]any
		wantCode   int
		wantStatus string
		wantMiles  float64
	}{
		{
			name: "Picks toll-free alternative",
			maps: &fakeMaps{places: places, candidates: []route.Candidate{
				{Summary: "A4", Warnings: []string{"This route has tolls."}, LegMeters: []int{8000}},
				{Summary: "A40", LegMeters: []int{8046, 8047}},
			}},
			body:       map[string]any{"pickup": "SW1A 1AA", "destination": "E1 6AN", "stops": []string{"N1 9GU"}},
			wantCode:   http.StatusOK,
			wantStatus: "Route calculated: 10 miles",
			wantMiles:  10,
		},
		{
			name:       "Missing destination",
			maps:       &fakeMaps{places: places},
			body:       map[string]any{"pickup": "SW1A 1AA", "destination": "  "},
			wantCode:   http.StatusBadRequest,
			wantStatus: "Enter pickup and destination addresses",
		},
		{
			name:       "Too many stops",
			maps:       &fakeMaps{places: places},
			body:       map[string]any{"pickup": "SW1A 1AA", "destination": "E1 6AN", "stops": []string{"a", "b", "c"}},
			wantCode:   http.StatusBadRequest,
			wantStatus: "Too many stops (max 2)",
		},
		{
			name:       "Unknown address",
			maps:       &fakeMaps{places: places},
			body:       map[string]any{"pickup": "Atlantis", "destination": "E1 6AN"},
			wantCode:   http.StatusUnprocessableEntity,
			wantStatus: "Could not find valid addresses",
		},
		{
			name:       "Provider status",
			maps:       &fakeMaps{places: places, routeErr: &route.RoutingError{Status: "ZERO_RESULTS"}},
			body:       map[string]any{"pickup": "SW1A 1AA", "destination": "E1 6AN"},
			wantCode:   http.StatusBadGateway,
			wantStatus: "Route calculation failed: ZERO_RESULTS",
		},
		{
			name:       "No candidates",
			maps:       &fakeMaps{places: places},
			body:       map[string]any{"pickup": "SW1A 1AA", "destination": "E1 6AN"},
			wantCode:   http.StatusBadGateway,
			wantStatus: "Unable to calculate route",
		},
		{
			name:       "Maps not configured",
			body:       map[string]any{"pickup": "SW1A 1AA", "destination": "E1 6AN"},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "Maps not available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/api/route/miles", handlers.NewRouteHandler(newRouteService(tt.maps), 0).Miles)

			w := doRequest(r, http.MethodPost, "/api/route/miles", tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			body := decode(t, w)
			if body["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %q", body["status"], tt.wantStatus)
			}
			if tt.wantCode == http.StatusOK && body["miles"] != tt.wantMiles {
				t.Errorf("miles = %v, want %v", body["miles"], tt.wantMiles)
			}
		})
	}
}

func leadBody() map[string]any {
	return map[string]any{
		"name":          "Ana Smith",
		"phone":         "07123 456789",
		"email":         "ana@example.com",
		"pickupAddress": "SW1A 1AA",
		"quoteInputs":   scenarioB(),
	}
}

func newLeadRouter(m lead.Mailer) *gin.Engine {
	r := gin.New()
	h := handlers.NewLeadHandler(lead.NewService(m, nil, lead.DefaultBusiness(), quietLogger()))
	r.POST("/api/quote", h.Submit)
	r.POST("/api/whatsapp-link", h.WhatsAppLink)
	return r
}

func TestLeadHandler_Submit(t *testing.T) {
	m := &fakeMailer{}
	w := doRequest(newLeadRouter(m), http.MethodPost, "/api/quote", leadBody())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["success"] != true || body["message"] != "Quote sent successfully" || body["total"] != 237.5 {
		t.Errorf("body = %v", body)
	}
	if len(m.sent) != 2 {
		t.Errorf("sent %d emails, want 2", len(m.sent))
	}
}

func TestLeadHandler_SubmitNotConfigured(t *testing.T) {
	// reported before validation, so even an empty body gets 503
	w := doRequest(newLeadRouter(nil), http.MethodPost, "/api/quote", map[string]any{})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Email service not configured" {
		t.Errorf("error = %v", got)
	}
}

func TestLeadHandler_SubmitInvalid(t *testing.T) {
	m := &fakeMailer{}
	body := leadBody()
	body["name"] = "A"
	body["phone"] = "0712"
	body["email"] = "not-an-email"
	body["quoteInputs"] = map[string]any{"vanSize": "medium", "loaders": 1, "hours": 0.5, "miles": 120}

	w := doRequest(newLeadRouter(m), http.MethodPost, "/api/quote", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	fields := detailFields(decode(t, w))
	for _, want := range []string{"name", "phone", "email", "quoteInputs.hours", "quoteInputs.miles"} {
		if !contains(fields, want) {
			t.Errorf("details missing field %q: %v", want, fields)
		}
	}
	if len(m.sent) != 0 {
		t.Errorf("sent %d emails for an invalid lead", len(m.sent))
	}
}

func TestLeadHandler_SubmitSendFailure(t *testing.T) {
	w := doRequest(newLeadRouter(&fakeMailer{err: errors.New("down")}), http.MethodPost, "/api/quote", leadBody())
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Failed to send quote" {
		t.Errorf("error = %v", got)
	}
}

func TestLeadHandler_WhatsAppLink(t *testing.T) {
	body := map[string]any{
		"name":        "Jo",
		"quoteInputs": map[string]any{"vanSize": "small", "loaders": 0, "hours": 1, "miles": 5},
	}
	w := doRequest(newLeadRouter(nil), http.MethodPost, "/api/whatsapp-link", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	out := decode(t, w)
	if url, _ := out["url"].(string); !strings.HasPrefix(url, "https://wa.me/447456507570?text=") {
		t.Errorf("url = %v", out["url"])
	}
	if msg, _ := out["message"].(string); !strings.Contains(msg, "*TOTAL: £80*") {
		t.Errorf("message missing total: %v", out["message"])
	}
	if out["total"] != "£80" {
		t.Errorf("total = %v", out["total"])
	}
}

func TestReviewsHandler_List(t *testing.T) {
	src := &fakeReviews{res: maps.PlaceReviews{
		Reviews:      []maps.Review{{AuthorName: "Kate", Rating: 5, Text: "Great"}},
		Rating:       4.9,
		TotalReviews: 87,
	}}

	r := gin.New()
	r.GET("/api/google-reviews", handlers.NewReviewsHandler(src, "").List)

	w := doRequest(r, http.MethodGet, "/api/google-reviews", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing placeId: expected 400, got %d", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/api/google-reviews?placeId=abc&maxReviews=50", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["totalReviews"] != 87.0 || body["status"] != "success" {
		t.Errorf("body = %v", body)
	}
	if src.lastLimit != 20 {
		t.Errorf("limit = %d, want clamp to 20", src.lastLimit)
	}

	doRequest(r, http.MethodGet, "/api/google-reviews?placeId=abc", nil)
	if src.lastLimit != 5 {
		t.Errorf("default limit = %d, want 5", src.lastLimit)
	}

	src.err = errors.New("maps: REQUEST_DENIED - bad key")
	if w = doRequest(r, http.MethodGet, "/api/google-reviews?placeId=abc", nil); w.Code != http.StatusBadGateway {
		t.Errorf("provider error: expected 502, got %d", w.Code)
	}
}

func TestReviewsHandler_NotConfigured(t *testing.T) {
	r := gin.New()
	r.GET("/api/google-reviews", handlers.NewReviewsHandler(nil, "default-place").List)

	w := doRequest(r, http.MethodGet, "/api/google-reviews", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
