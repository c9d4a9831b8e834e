package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"sync"
	"testing"

	"googlemaps.github.io/maps"

	"removals/internal/modules/route"
)

// fakeMapsAPI serves canned geocode and directions responses and records the
// query of every request.
type fakeMapsAPI struct {
	mu      sync.Mutex
	queries map[string][]url.Values
	geocode map[string]string
	routes  string
}

func (f *fakeMapsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.queries[r.URL.Path] = append(f.queries[r.URL.Path], r.URL.Query())
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/maps/api/geocode/json":
		body, ok := f.geocode[r.URL.Query().Get("address")]
		if !ok {
			body = `{"status":"ZERO_RESULTS","results":[]}`
		}
		_, _ = w.Write([]byte(body))
	case "/maps/api/directions/json":
		_, _ = w.Write([]byte(f.routes))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeMapsAPI) lastQuery(path string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	qs := f.queries[path]
	if len(qs) == 0 {
		return nil
	}
	return qs[len(qs)-1]
}

func newFakeRouteService(t *testing.T, api *fakeMapsAPI) *RouteService {
	t.Helper()
	api.queries = map[string][]url.Values{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := maps.NewClient(maps.WithAPIKey("k"), maps.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return &RouteService{client: client, country: "GB", region: regionFor("GB")}
}

func TestRouteService_PlaceID(t *testing.T) {
	api := &fakeMapsAPI{geocode: map[string]string{
		"SW1A 1AA": `{"status":"OK","results":[{"place_id":"p_pickup"}]}`,
		"denied":   `{"status":"REQUEST_DENIED","error_message":"bad key","results":[]}`,
	}}
	svc := newFakeRouteService(t, api)
	ctx := context.Background()

	id, err := svc.PlaceID(ctx, "SW1A 1AA")
	if err != nil || id != "p_pickup" {
		t.Fatalf("PlaceID() = %q, %v", id, err)
	}
	q := api.lastQuery("/maps/api/geocode/json")
	if got := q.Get("components"); got != "country:GB" {
		t.Errorf("components = %q, want country:GB", got)
	}
	if got := q.Get("region"); got != "uk" {
		t.Errorf("region = %q, want uk", got)
	}
	if got := q.Get("address"); got != "SW1A 1AA" {
		t.Errorf("address = %q", got)
	}

	if _, err := svc.PlaceID(ctx, "nowhere"); !errors.Is(err, route.ErrAddressNotFound) {
		t.Errorf("PlaceID(nowhere) error = %v, want ErrAddressNotFound", err)
	}

	_, err = svc.PlaceID(ctx, "denied")
	var rerr *route.RoutingError
	if !errors.As(err, &rerr) || rerr.Status != "REQUEST_DENIED" {
		t.Errorf("PlaceID(denied) error = %v, want RoutingError REQUEST_DENIED", err)
	}
}

func TestRouteService_Routes(t *testing.T) {
	api := &fakeMapsAPI{routes: `{"status":"OK","routes":[
		{"summary":"A1","warnings":["This route has tolls."],"legs":[
			{"distance":{"value":1000,"text":"1 km"},"duration":{"value":60,"text":"1 min"}},
			{"distance":{"value":2000,"text":"2 km"},"duration":{"value":120,"text":"2 mins"}}]},
		{"summary":"A2","warnings":[],"legs":[
			{"distance":{"value":5000,"text":"5 km"},"duration":{"value":300,"text":"5 mins"}}]}
	]}`}
	svc := newFakeRouteService(t, api)

	got, err := svc.Routes(context.Background(), route.Query{
		OriginPlaceID:      "o",
		DestinationPlaceID: "d",
		WaypointPlaceIDs:   []string{"w1", "w2"},
	})
	if err != nil {
		t.Fatalf("Routes() error = %v", err)
	}

	q := api.lastQuery("/maps/api/directions/json")
	wantParams := map[string]string{
		"origin":       "place_id:o",
		"destination":  "place_id:d",
		"waypoints":    "place_id:w1|place_id:w2",
		"mode":         "driving",
		"avoid":        "tolls",
		"alternatives": "true",
		"region":       "uk",
	}
	for k, want := range wantParams {
		if got := q.Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}

	want := []route.Candidate{
		{Summary: "A1", Warnings: []string{"This route has tolls."}, LegMeters: []int{1000, 2000}},
		{Summary: "A2", Warnings: []string{}, LegMeters: []int{5000}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Routes() = %+v, want %+v", got, want)
	}
}

func TestRouteService_RoutesProviderStatus(t *testing.T) {
	api := &fakeMapsAPI{routes: `{"status":"OVER_QUERY_LIMIT","error_message":"slow down","routes":[]}`}
	svc := newFakeRouteService(t, api)

	_, err := svc.Routes(context.Background(), route.Query{OriginPlaceID: "o", DestinationPlaceID: "d"})
	var rerr *route.RoutingError
	if !errors.As(err, &rerr) || rerr.Status != "OVER_QUERY_LIMIT" {
		t.Fatalf("Routes() error = %v, want RoutingError OVER_QUERY_LIMIT", err)
	}
}
