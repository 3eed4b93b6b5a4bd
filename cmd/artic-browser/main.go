package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/artbrowse/artic-browser/pkg/artic"
	"github.com/artbrowse/artic-browser/pkg/browser"
	"github.com/artbrowse/artic-browser/pkg/cache"
	"github.com/artbrowse/artic-browser/pkg/logging"
	"github.com/artbrowse/artic-browser/pkg/notify"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env if present, then read configuration from environment
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	baseURL := getEnv("ARTIC_BASE_URL", artic.DefaultBaseURL)
	redisURL := getEnv("REDIS_URL", "")
	userAgent := getEnv("USER_AGENT", "artic-browser/0.1.0")

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") != "",
		Output: os.Stderr,
	})

	ctx := context.Background()

	// Redis is optional: without it the client fetches uncached
	var redisClient *redis.Client
	clientCfg := artic.DefaultConfig(userAgent)
	clientCfg.BaseURL = baseURL

	if redisURL != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: redisURL,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", redisURL).Msg("Failed to connect to Redis")
		}
		clientCfg.Cache = cache.NewManager(redisClient)
		log.Info().Str("addr", redisURL).Msg("Connected to Redis")
	}

	articClient, err := artic.New(clientCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create artworks client")
	}

	notifier := newTeeNotifier("artwork-browser")

	b, err := browser.New(browser.Config{
		Fetcher:  articClient,
		Notifier: notifier,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create browser")
	}

	// Initial load: page 0 at the default page size. A failure is surfaced
	// as a notification only; the server still starts.
	if err := b.LoadPage(ctx, 0); err != nil {
		log.Warn().Err(err).Msg("Initial page load failed")
	}

	srv := &browserServer{browser: b, notifier: notifier}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/ready", readyHandler(redisClient))
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/artworks", srv.artworksHandler)
	http.HandleFunc("/selection", srv.selectionHandler)
	http.HandleFunc("/selection/toggle", srv.toggleHandler)
	http.HandleFunc("/selection/page", srv.togglePageHandler)
	http.HandleFunc("/selection/first", srv.selectFirstHandler)
	http.HandleFunc("/submit", srv.submitHandler)

	addr := ":" + port
	log.Info().Str("addr", addr).Str("base_url", baseURL).Msg("Starting artic-browser server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// readyHandler reports readiness; with a Redis cache configured it also
// requires Redis to respond to a ping.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, fmt.Sprintf("redis not ready: %v", err), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

// teeNotifier logs every notification and remembers the most recent one so
// handlers can echo it in their responses.
type teeNotifier struct {
	mu   sync.Mutex
	log  *notify.LogNotifier
	last notify.Notification
}

func newTeeNotifier(component string) *teeNotifier {
	return &teeNotifier{log: notify.NewLogNotifier(component)}
}

func (t *teeNotifier) Notify(n notify.Notification) {
	t.log.Notify(n)
	t.mu.Lock()
	t.last = n
	t.mu.Unlock()
}

func (t *teeNotifier) Last() notify.Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// browserServer serializes HTTP access to the single browser instance. The
// browser itself is single-goroutine state; the mutex lives here so the HTTP
// surface doesn't interleave mutations.
type browserServer struct {
	mu       sync.Mutex
	browser  *browser.Browser
	notifier *teeNotifier
}

type artworkRow struct {
	artic.Artwork
	Selected bool `json:"selected"`
}

type pageView struct {
	Data           []artworkRow `json:"data"`
	Page           int          `json:"page"`
	PageSize       int          `json:"page_size"`
	Total          int          `json:"total"`
	TotalPages     int          `json:"total_pages"`
	AllSelected    bool         `json:"all_selected"`
	SelectionCount int          `json:"selection_count"`
}

// artworksHandler loads and renders a page.
// Query: page (0-indexed, default current), limit (optional page size).
func (s *browserServer) artworksHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := s.browser.Page()
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 0 {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
		page = p
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		if limit != s.browser.PageSize() {
			if err := s.browser.SetPageSize(r.Context(), limit); err != nil {
				http.Error(w, fmt.Sprintf("load failed: %v", err), http.StatusBadGateway)
				return
			}
		}
	}

	if page != s.browser.Page() || len(s.browser.Records()) == 0 {
		if err := s.browser.LoadPage(r.Context(), page); err != nil {
			http.Error(w, fmt.Sprintf("load failed: %v", err), http.StatusBadGateway)
			return
		}
	}

	s.writePageView(w)
}

// selectionHandler returns the current selection set.
func (s *browserServer) selectionHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, map[string]interface{}{
		"selected": s.browser.Selected(),
		"count":    s.browser.SelectionCount(),
	})
}

// toggleHandler flips selection of one record. Query: id.
func (s *browserServer) toggleHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	selected := s.browser.ToggleRow(id)
	writeJSON(w, map[string]interface{}{
		"id":              id,
		"selected":        selected,
		"all_selected":    s.browser.AllSelected(),
		"selection_count": s.browser.SelectionCount(),
	})
}

// togglePageHandler selects or deselects every row on the current page.
func (s *browserServer) togglePageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.browser.ToggleSelectAll()
	writeJSON(w, map[string]interface{}{
		"all_selected":    s.browser.AllSelected(),
		"selection_count": s.browser.SelectionCount(),
	})
}

// selectFirstHandler runs the bulk accumulator. Query: n.
func (s *browserServer) selectFirstHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil {
		// Non-numeric input is a validation warning, same as n <= 0
		notify.Warnf(s.notifier, "Select count must be a positive number")
		writeJSON(w, map[string]interface{}{
			"notification": s.notifier.Last(),
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.browser.SelectFirstN(r.Context(), n); err != nil {
		http.Error(w, fmt.Sprintf("bulk select failed: %v", err), http.StatusBadGateway)
		return
	}

	writeJSON(w, map[string]interface{}{
		"notification":    s.notifier.Last(),
		"selection_count": s.browser.SelectionCount(),
		"all_selected":    s.browser.AllSelected(),
	})
}

// submitHandler reports the selection set.
func (s *browserServer) submitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.browser.Submit()
	writeJSON(w, map[string]interface{}{
		"submitted":    ids,
		"count":        len(ids),
		"notification": s.notifier.Last(),
	})
}

// writePageView renders the current page state as JSON.
func (s *browserServer) writePageView(w http.ResponseWriter) {
	records := s.browser.Records()
	rows := make([]artworkRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, artworkRow{
			Artwork:  record,
			Selected: s.browser.IsSelected(record.ID),
		})
	}

	writeJSON(w, pageView{
		Data:           rows,
		Page:           s.browser.Page(),
		PageSize:       s.browser.PageSize(),
		Total:          s.browser.Total(),
		TotalPages:     s.browser.TotalPages(),
		AllSelected:    s.browser.AllSelected(),
		SelectionCount: s.browser.SelectionCount(),
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
