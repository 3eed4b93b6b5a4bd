package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/artbrowse/artic-browser/internal/testutil"
	"github.com/artbrowse/artic-browser/pkg/artic"
	"github.com/artbrowse/artic-browser/pkg/browser"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := redisC.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := redisC.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		redisC.Terminate(ctx)
	}

	return redisClient, cleanup
}

// setupServer builds a browserServer over a mock artworks API.
func setupServer(t *testing.T, total int) (*browserServer, *testutil.MockArtic) {
	t.Helper()

	mock := testutil.NewMockArtic(total)
	t.Cleanup(mock.Close)

	cfg := artic.DefaultConfig("test/1.0")
	cfg.BaseURL = mock.BaseURL()

	articClient, err := artic.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create artworks client: %v", err)
	}

	notifier := newTeeNotifier("test-browser")
	b, err := browser.New(browser.Config{
		Fetcher:  articClient,
		Notifier: notifier,
	})
	if err != nil {
		t.Fatalf("Failed to create browser: %v", err)
	}

	if err := b.LoadPage(context.Background(), 0); err != nil {
		t.Fatalf("Initial load failed: %v", err)
	}

	return &browserServer{browser: b, notifier: notifier}, mock
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestReadyEndpoint_NoRedis(t *testing.T) {
	// Without a cache there is nothing to ping
	handler := readyHandler(nil)

	req := httptest.NewRequest("GET", "/ready", nil)
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Result().StatusCode)
	}
}

func TestReadyEndpoint_WithRedis(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	handler := readyHandler(redisClient)

	t.Run("ready", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Result().StatusCode)
		}
	})

	t.Run("not_ready_redis_down", func(t *testing.T) {
		redisClient.Close()

		req := httptest.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		if w.Result().StatusCode != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", w.Result().StatusCode)
		}
	})
}

func TestArtworksHandler(t *testing.T) {
	srv, _ := setupServer(t, 128)

	t.Run("page navigation", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/artworks?page=1", nil)
		w := httptest.NewRecorder()

		srv.artworksHandler(w, req)

		var view pageView
		decodeJSON(t, w.Result(), &view)

		if view.Page != 1 {
			t.Errorf("Page = %d, want 1", view.Page)
		}
		if len(view.Data) != 12 {
			t.Errorf("Records = %d, want 12", len(view.Data))
		}
		if view.Total != 128 {
			t.Errorf("Total = %d, want 128", view.Total)
		}
	})

	t.Run("page size change", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/artworks?page=2&limit=50", nil)
		w := httptest.NewRecorder()

		srv.artworksHandler(w, req)

		var view pageView
		decodeJSON(t, w.Result(), &view)

		if view.PageSize != 50 {
			t.Errorf("PageSize = %d, want 50", view.PageSize)
		}
		// min(50, 128 - 2*50) = 28
		if len(view.Data) != 28 {
			t.Errorf("Records = %d, want 28", len(view.Data))
		}
	})

	t.Run("invalid page", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/artworks?page=-1", nil)
		w := httptest.NewRecorder()

		srv.artworksHandler(w, req)

		if w.Result().StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Result().StatusCode)
		}
	})
}

func TestToggleHandler(t *testing.T) {
	srv, _ := setupServer(t, 128)

	t.Run("toggle selects and deselects", func(t *testing.T) {
		for _, wantSelected := range []bool{true, false} {
			req := httptest.NewRequest("POST", "/selection/toggle?id=1000", nil)
			w := httptest.NewRecorder()

			srv.toggleHandler(w, req)

			var result struct {
				ID       int  `json:"id"`
				Selected bool `json:"selected"`
			}
			decodeJSON(t, w.Result(), &result)

			if result.Selected != wantSelected {
				t.Errorf("Selected = %v, want %v", result.Selected, wantSelected)
			}
		}
	})

	t.Run("missing id", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/selection/toggle", nil)
		w := httptest.NewRecorder()

		srv.toggleHandler(w, req)

		if w.Result().StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Result().StatusCode)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/selection/toggle?id=1000", nil)
		w := httptest.NewRecorder()

		srv.toggleHandler(w, req)

		if w.Result().StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("Expected status 405, got %d", w.Result().StatusCode)
		}
	})
}

func TestSelectFirstHandler(t *testing.T) {
	srv, mock := setupServer(t, 128)

	t.Run("bulk select", func(t *testing.T) {
		before := mock.GetRequestCount()

		req := httptest.NewRequest("POST", "/selection/first?n=75", nil)
		w := httptest.NewRecorder()

		srv.selectFirstHandler(w, req)

		var result struct {
			SelectionCount int `json:"selection_count"`
			Notification   struct {
				Level string `json:"level"`
			} `json:"notification"`
		}
		decodeJSON(t, w.Result(), &result)

		if result.SelectionCount != 75 {
			t.Errorf("SelectionCount = %d, want 75", result.SelectionCount)
		}
		if result.Notification.Level != "success" {
			t.Errorf("Notification level = %s, want success", result.Notification.Level)
		}
		// Two batch pages of 50
		if got := mock.GetRequestCount() - before; got != 2 {
			t.Errorf("Bulk fetches = %d, want 2", got)
		}
	})

	t.Run("non-numeric n", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/selection/first?n=abc", nil)
		w := httptest.NewRecorder()

		srv.selectFirstHandler(w, req)

		var result struct {
			Notification struct {
				Level string `json:"level"`
			} `json:"notification"`
		}
		decodeJSON(t, w.Result(), &result)

		if result.Notification.Level != "warning" {
			t.Errorf("Notification level = %s, want warning", result.Notification.Level)
		}
	})

	t.Run("exceeds total", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/selection/first?n=500", nil)
		w := httptest.NewRecorder()

		srv.selectFirstHandler(w, req)

		var result struct {
			Notification struct {
				Level string `json:"level"`
			} `json:"notification"`
		}
		decodeJSON(t, w.Result(), &result)

		if result.Notification.Level != "warning" {
			t.Errorf("Notification level = %s, want warning", result.Notification.Level)
		}
	})
}

func TestSubmitHandler(t *testing.T) {
	srv, _ := setupServer(t, 128)

	t.Run("empty selection", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/submit", nil)
		w := httptest.NewRecorder()

		srv.submitHandler(w, req)

		var result struct {
			Count        int `json:"count"`
			Notification struct {
				Level string `json:"level"`
			} `json:"notification"`
		}
		decodeJSON(t, w.Result(), &result)

		if result.Count != 0 {
			t.Errorf("Count = %d, want 0", result.Count)
		}
		if result.Notification.Level != "warning" {
			t.Errorf("Notification level = %s, want warning", result.Notification.Level)
		}
	})

	t.Run("echoes selection", func(t *testing.T) {
		toggle := httptest.NewRequest("POST", "/selection/toggle?id=1003", nil)
		srv.toggleHandler(httptest.NewRecorder(), toggle)

		req := httptest.NewRequest("POST", "/submit", nil)
		w := httptest.NewRecorder()

		srv.submitHandler(w, req)

		var result struct {
			Submitted []int `json:"submitted"`
		}
		decodeJSON(t, w.Result(), &result)

		if len(result.Submitted) != 1 || result.Submitted[0] != 1003 {
			t.Errorf("Submitted = %v, want [1003]", result.Submitted)
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	// Exercise the browser so metrics packages are registered and populated
	srv, _ := setupServer(t, 128)
	toggle := httptest.NewRequest("POST", "/selection/toggle?id=1000", nil)
	srv.toggleHandler(httptest.NewRecorder(), toggle)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler := promhttp.Handler()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	bodyStr := string(body)

	if !strings.Contains(bodyStr, "# HELP") || !strings.Contains(bodyStr, "# TYPE") {
		t.Error("Expected Prometheus format metrics output")
	}

	if !strings.Contains(bodyStr, "browser_selection_size") {
		t.Error("Expected metrics output to contain browser_selection_size")
	}
}
