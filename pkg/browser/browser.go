// Package browser implements the artwork browser component: one page of
// records on display, a cross-page selection set, and a bulk accumulator
// that selects the first N records of the collection.
//
// A Browser is confined to a single goroutine. Overlapping async operations
// (a page change while SelectFirstN is running, or a second SelectFirstN)
// are not guarded against and may interleave selection mutations.
package browser

import (
	"context"
	"fmt"

	"github.com/artbrowse/artic-browser/pkg/artic"
	"github.com/artbrowse/artic-browser/pkg/notify"
	"github.com/artbrowse/artic-browser/pkg/selection"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for browser operations.
var (
	browserPagesLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "browser_pages_loaded_total",
		Help: "Total pages loaded into the browser",
	})

	browserLoadFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "browser_load_failures_total",
		Help: "Total page loads that failed",
	})

	browserBulkSelectTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "browser_bulk_select_total",
		Help: "Total bulk-select operations by outcome",
	}, []string{"outcome"}) // "ok", "invalid", "exceeds_total", "aborted"

	browserSubmitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "browser_submits_total",
		Help: "Total submit operations by outcome",
	}, []string{"outcome"}) // "ok", "empty"

	browserSelectionSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "browser_selection_size",
		Help: "Current number of selected record identifiers",
	})
)

const (
	// DefaultPageSize is the page size used by the initial load.
	DefaultPageSize = 12

	// BulkBatchSize is the fixed page size used by SelectFirstN.
	BulkBatchSize = 50
)

// PageFetcher is the interface the artworks client implements for
// single-page fetching.
type PageFetcher interface {
	// FetchArtworks fetches one 0-indexed page of records at the given size.
	FetchArtworks(ctx context.Context, page, limit int) (*artic.ArtworksPage, error)
}

// Config holds the browser configuration.
type Config struct {
	// Fetcher issues page-scoped reads against the collection (required)
	Fetcher PageFetcher

	// Notifier receives transient user-visible messages
	// (default: zerolog-backed notifier)
	Notifier notify.Notifier

	// PageSize for the initial load (default: DefaultPageSize)
	PageSize int
}

// Browser holds the page state and selection state of the artwork browser.
type Browser struct {
	fetcher  PageFetcher
	notifier notify.Notifier
	logger   zerolog.Logger

	// Page state: replaced wholesale on every successful fetch
	records    []artic.Artwork
	page       int
	pageSize   int
	total      int
	totalPages int

	// Selection state: outlives any single page view
	selected *selection.Set
}

// New creates a new artwork browser. No fetch is performed; call LoadPage
// for the initial load.
func New(cfg Config) (*Browser, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("page fetcher is required")
	}

	if cfg.Notifier == nil {
		cfg.Notifier = notify.NewLogNotifier("artwork-browser")
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	logger := log.With().Str("component", "artwork-browser").Logger()

	return &Browser{
		fetcher:  cfg.Fetcher,
		notifier: cfg.Notifier,
		logger:   logger,
		pageSize: cfg.PageSize,
		selected: selection.NewSet(),
	}, nil
}

// LoadPage fetches the given 0-indexed page at the current page size and
// replaces the displayed records and pagination metadata. A fetch failure
// surfaces an error notification and leaves the page state unchanged.
func (b *Browser) LoadPage(ctx context.Context, page int) error {
	result, err := b.fetcher.FetchArtworks(ctx, page, b.pageSize)
	if err != nil {
		browserLoadFailuresTotal.Inc()
		b.logger.Error().Err(err).Int("page", page).Msg("Page load failed")
		notify.Errorf(b.notifier, "Failed to load artworks")
		return err
	}

	b.records = result.Data
	b.page = page
	b.total = result.Pagination.Total
	b.totalPages = result.Pagination.TotalPages

	browserPagesLoadedTotal.Inc()
	b.logger.Debug().
		Int("page", page).
		Int("records", len(b.records)).
		Int("total", b.total).
		Bool("all_selected", b.AllSelected()).
		Msg("Page loaded")

	return nil
}

// SetPageSize changes the page size and refetches the current page.
func (b *Browser) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		notify.Warnf(b.notifier, "Page size must be a positive number")
		return nil
	}

	b.pageSize = size
	return b.LoadPage(ctx, b.page)
}

// Records returns the currently displayed page of records.
func (b *Browser) Records() []artic.Artwork {
	return b.records
}

// Page returns the current 0-indexed page.
func (b *Browser) Page() int {
	return b.page
}

// PageSize returns the current page size.
func (b *Browser) PageSize() int {
	return b.pageSize
}

// Total returns the total record count reported by the last fetch.
func (b *Browser) Total() int {
	return b.total
}

// TotalPages returns the total page count reported by the last fetch.
func (b *Browser) TotalPages() int {
	return b.totalPages
}

// IsSelected reports whether the given record identifier is selected.
func (b *Browser) IsSelected(id int) bool {
	return b.selected.Has(id)
}

// Selected returns the selected identifiers in ascending order.
func (b *Browser) Selected() []int {
	return b.selected.IDs()
}

// SelectionCount returns the number of selected identifiers.
func (b *Browser) SelectionCount() int {
	return b.selected.Len()
}

// AllSelected reports whether every identifier on the displayed page is in
// the selection set. Derived on every call, never stored.
func (b *Browser) AllSelected() bool {
	return b.selected.ContainsAll(b.pageIDs())
}

// ToggleRow flips the selection of one record identifier and reports the
// new state.
func (b *Browser) ToggleRow(id int) bool {
	selected := b.selected.Toggle(id)
	browserSelectionSize.Set(float64(b.selected.Len()))

	b.logger.Debug().
		Int("id", id).
		Bool("selected", selected).
		Bool("all_selected", b.AllSelected()).
		Msg("Row toggled")

	return selected
}

// ToggleSelectAll selects or deselects every identifier on the current page
// only, never the whole dataset.
func (b *Browser) ToggleSelectAll() {
	ids := b.pageIDs()
	if b.AllSelected() {
		b.selected.RemoveAll(ids)
	} else {
		b.selected.AddAll(ids)
	}
	browserSelectionSize.Set(float64(b.selected.Len()))
}

// SelectFirstN selects the first n records of the collection. Pages are
// fetched sequentially at BulkBatchSize in ascending order starting at page
// 0, taking min(remaining, page length) identifiers from each. A short page
// ends the scan early. A fetch failure aborts the operation and leaves the
// selection set partially updated with whatever was merged before.
//
// Invalid input (n <= 0 or n greater than the total record count) surfaces
// a warning and mutates nothing.
func (b *Browser) SelectFirstN(ctx context.Context, n int) error {
	if n <= 0 {
		browserBulkSelectTotal.WithLabelValues("invalid").Inc()
		notify.Warnf(b.notifier, "Select count must be a positive number")
		return nil
	}

	if n > b.total {
		browserBulkSelectTotal.WithLabelValues("exceeds_total").Inc()
		notify.Warnf(b.notifier, "Cannot select %d records; only %d available", n, b.total)
		return nil
	}

	remaining := n
	page := 0
	pagesScanned := 0

	for remaining > 0 {
		result, err := b.fetcher.FetchArtworks(ctx, page, BulkBatchSize)
		if err != nil {
			browserBulkSelectTotal.WithLabelValues("aborted").Inc()
			browserSelectionSize.Set(float64(b.selected.Len()))
			b.logger.Error().Err(err).
				Int("page", page).
				Int("selected", n-remaining).
				Int("requested", n).
				Msg("Bulk select aborted")
			notify.Errorf(b.notifier, "Failed to load artworks")
			return err
		}

		pagesScanned++
		take := min(remaining, len(result.Data))
		for _, record := range result.Data[:take] {
			b.selected.Add(record.ID)
		}
		remaining -= take

		// A short page signals end of data
		if len(result.Data) < BulkBatchSize {
			break
		}
		page++
	}

	browserBulkSelectTotal.WithLabelValues("ok").Inc()
	browserSelectionSize.Set(float64(b.selected.Len()))

	b.logger.Info().
		Int("requested", n).
		Int("selected", n-remaining).
		Int("pages_scanned", pagesScanned).
		Bool("all_selected", b.AllSelected()).
		Msg("Bulk select complete")

	notify.Successf(b.notifier, "Selected first %d records", n-remaining)
	return nil
}

// Submit reports the full selection set via a transient notification and
// returns the reported identifiers. An empty selection surfaces a warning
// and returns nil.
func (b *Browser) Submit() []int {
	if b.selected.Len() == 0 {
		browserSubmitsTotal.WithLabelValues("empty").Inc()
		notify.Warnf(b.notifier, "No records selected")
		return nil
	}

	ids := b.selected.IDs()
	browserSubmitsTotal.WithLabelValues("ok").Inc()
	notify.Successf(b.notifier, "Submitted %d selected records: %v", len(ids), ids)
	return ids
}

// pageIDs returns the identifiers of the currently displayed page.
func (b *Browser) pageIDs() []int {
	ids := make([]int, 0, len(b.records))
	for _, record := range b.records {
		ids = append(ids, record.ID)
	}
	return ids
}
