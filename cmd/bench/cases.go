// README: Smoke cases for the quote API: pricing fixtures, error mapping, live session, throughput.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Env: Postgres lead archive",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "SKIP", Note: "dsn not set"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				var exists bool
				err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'quote_leads')`).Scan(&exists)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if !exists {
					return Result{Status: "FAIL", Note: "quote_leads table missing"}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Env: Redis geocode cache",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not set"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},

		httpCaseMethod("API: health", http.MethodGet, base+"/health", nil, []int{200}, nil),
		httpCaseMethod("API: metrics", http.MethodGet, base+"/metrics", nil, []int{200}, nil),

		// Pricing fixtures
		quoteCase("Pricing: minimum hours enforced", base, "small", 0, 1, 5, 80),
		quoteCase("Pricing: large van, two loaders", base, "large", 2, 2, 25, 237.5),
		quoteCase("Pricing: exactly at free threshold", base, "medium", 0, 2, 10, 90),
		quoteCase("Pricing: just over threshold", base, "medium", 0, 2, 10.1, 105.15),
		httpCase("Pricing: out of range -> 400", base+"/api/quote/calculate", map[string]any{
			"vanSize": "huge", "loaders": 9, "hours": 20, "miles": 500,
		}, []int{400}, nil),
		httpCaseMethod("Pricing: minimum quote", http.MethodGet, base+"/api/quote/minimum", nil, []int{200}, nil),

		// Route and lead; 503 is acceptable when the integration is not configured
		httpCase("Route: missing destination -> 400", base+"/api/route/miles", map[string]any{
			"pickup": "SW1A 1AA",
		}, []int{400}, []int{503}),
		httpCase("Route: pickup to destination", base+"/api/route/miles", map[string]any{
			"pickup": "SW1A 1AA", "destination": "E1 6AN",
		}, []int{200}, []int{503}),
		httpCase("Lead: invalid form -> 400", base+"/api/quote", map[string]any{
			"name": "A", "phone": "1",
		}, []int{400}, []int{503}),
		httpCase("Lead: WhatsApp link", base+"/api/whatsapp-link", map[string]any{
			"name":        "Bench",
			"quoteInputs": map[string]any{"vanSize": "small", "loaders": 0, "hours": 2, "miles": 0},
		}, []int{200}, nil),

		{
			Name: "Live: session pushes initial update",
			Run: func(ctx context.Context, r *Runner) Result {
				return liveCheck(ctx, base)
			},
		},

		{
			Name: "Perf: quote calculate throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/quote/calculate", map[string]any{
					"vanSize": "medium", "loaders": 1, "hours": 3, "miles": 12,
				})
			},
		},
	}
}

func httpCase(name, url string, body any, okStatuses, skipStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses, skipStatuses)
}

func httpCaseMethod(name, method, url string, body any, okStatuses, skipStatuses []int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			status, _, latency, err := r.do(ctx, method, url, body)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			note := fmt.Sprintf("status=%d", status)
			switch {
			case contains(okStatuses, status):
				return Result{Status: "PASS", Latency: latency, Note: note}
			case contains(skipStatuses, status):
				return Result{Status: "SKIP", Latency: latency, Note: note + " (not configured)"}
			default:
				return Result{Status: "FAIL", Latency: latency, Note: note}
			}
		},
	}
}

// quoteCase checks a calculator fixture end to end, including the total.
func quoteCase(name, base, van string, loaders int, hours, miles, wantTotal float64) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			status, body, latency, err := r.do(ctx, http.MethodPost, base+"/api/quote/calculate", map[string]any{
				"vanSize": van, "loaders": loaders, "hours": hours, "miles": miles,
			})
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			if status != http.StatusOK {
				return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", status)}
			}
			var out struct {
				Breakdown struct {
					Total float64 `json:"total"`
				} `json:"breakdown"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				return Result{Status: "FAIL", Latency: latency, Note: err.Error()}
			}
			// fixtures are compared at display precision
			if fmt.Sprintf("%.2f", out.Breakdown.Total) != fmt.Sprintf("%.2f", wantTotal) {
				return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("total=%v want %v", out.Breakdown.Total, wantTotal)}
			}
			return Result{Status: "PASS", Latency: latency}
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, time.Since(start), err
}

func liveCheck(ctx context.Context, base string) Result {
	wsURL := "ws" + strings.TrimPrefix(base, "http") + "/api/live"
	start := time.Now()
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			return Result{Status: "SKIP", Note: "rate limited"}
		}
		return Result{Status: "FAIL", Note: err.Error()}
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var update struct {
		Type  string `json:"type"`
		Total string `json:"total"`
	}
	if err := conn.ReadJSON(&update); err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if update.Type != "update" {
		return Result{Status: "FAIL", Note: "unexpected message type " + update.Type}
	}
	return Result{Status: "PASS", Latency: time.Since(start), Note: "total=" + update.Total}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(b)))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					mu.Lock()
					errCount++
					mu.Unlock()
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				mu.Lock()
				count++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}
