// Package testutil provides testing utilities for the artwork browser.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// MockArtwork mirrors the wire shape of one record in a mock response.
type MockArtwork struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	PlaceOfOrigin string `json:"place_of_origin"`
	ArtistDisplay string `json:"artist_display"`
	Inscriptions  string `json:"inscriptions"`
	DateStart     int    `json:"date_start"`
	DateEnd       int    `json:"date_end"`
}

// MockArtic is a configurable mock artworks API server. It serves a
// synthetic collection of a given total size on /api/v1/artworks, honoring
// the page and limit query parameters.
type MockArtic struct {
	server *httptest.Server
	mu     sync.RWMutex

	total     int
	failAfter int // fail requests once RequestCount exceeds this (-1 = never)
	failCode  int
	handlers  map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount int
	PageRequests []int
	LastQuery    url.Values
}

// NewMockArtic creates a mock artworks server with the given collection size.
func NewMockArtic(total int) *MockArtic {
	mock := &MockArtic{
		total:     total,
		failAfter: -1,
		handlers:  make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastQuery = r.URL.Query()
		if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
			mock.PageRequests = append(mock.PageRequests, page)
		}
		shouldFail := mock.failAfter >= 0 && mock.RequestCount > mock.failAfter
		failCode := mock.failCode
		mock.mu.Unlock()

		if shouldFail {
			w.WriteHeader(failCode)
			fmt.Fprintf(w, `{"status": %d, "error": "injected failure"}`, failCode)
			return
		}

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.artworksHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockArtic) URL() string {
	return m.server.URL
}

// BaseURL returns the API root the client should be pointed at.
func (m *MockArtic) BaseURL() string {
	return m.server.URL + "/api/v1"
}

// Close shuts down the mock server.
func (m *MockArtic) Close() {
	m.server.Close()
}

// Reset clears all tracking counters and failure injection.
func (m *MockArtic) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PageRequests = nil
	m.LastQuery = nil
	m.failAfter = -1
}

// SetTotal changes the synthetic collection size.
func (m *MockArtic) SetTotal(total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = total
}

// FailAfter makes every request past the nth fail with the given status.
func (m *MockArtic) FailAfter(n, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
	m.failCode = statusCode
}

// SetHandler sets a custom handler for a specific path.
func (m *MockArtic) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockArtic) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPageRequests returns the 1-indexed page numbers requested, in order.
func (m *MockArtic) GetPageRequests() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pages := make([]int, len(m.PageRequests))
	copy(pages, m.PageRequests)
	return pages
}

// ArtworkAt returns the synthetic record at a 0-based collection index.
func ArtworkAt(i int) MockArtwork {
	return MockArtwork{
		ID:            1000 + i,
		Title:         fmt.Sprintf("Composition No. %d", i+1),
		PlaceOfOrigin: "Chicago",
		ArtistDisplay: fmt.Sprintf("Artist %d (American, active 20th century)", i%7),
		Inscriptions:  "",
		DateStart:     1900 + i%100,
		DateEnd:       1900 + i%100,
	}
}

// artworksHandler serves a page of the synthetic collection with the wire
// pagination block the real API returns.
func (m *MockArtic) artworksHandler(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	total := m.total
	m.mu.RUnlock()

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 12
	}

	offset := (page - 1) * limit
	count := total - offset
	if count < 0 {
		count = 0
	}
	if count > limit {
		count = limit
	}

	data := make([]MockArtwork, 0, count)
	for i := 0; i < count; i++ {
		data = append(data, ArtworkAt(offset+i))
	}

	totalPages := (total + limit - 1) / limit

	body := map[string]interface{}{
		"pagination": map[string]int{
			"total":        total,
			"limit":        limit,
			"offset":       offset,
			"total_pages":  totalPages,
			"current_page": page,
		},
		"data": data,
	}

	etag := fmt.Sprintf(`"artworks-p%d-l%d-t%d"`, page, limit, total)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}
