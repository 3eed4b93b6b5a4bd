// Package cache provides response caching for the artworks API with a
// Redis backend.
//
// The cache manager is a pure traffic-reduction layer:
//
// - TTL from the Expires header, with a fallback default
// - ETag support for conditional requests (If-None-Match)
// - Last-Modified support (If-Modified-Since)
// - Prometheus metrics for observability
// - Deterministic cache key generation
//
// It caches remote response bodies only, never user state.
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache manager
//	manager := cache.NewManager(redisClient)
//
//	// Create cache key
//	key := cache.Key{
//		Endpoint:    "/artworks",
//		QueryParams: url.Values{"page": []string{"1"}},
//	}
//
//	// Get from cache
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// Cache miss - fetch from the API
//	}
//
// # Conditional Requests
//
//	// Check if we should make a conditional request
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//		// The API returns 304 if the page is unchanged
//	}
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - artic_cache_hits_total{layer="redis"} - Cache hits
//   - artic_cache_misses_total - Cache misses
//   - artic_cache_size_bytes{layer="redis"} - Cache size
//   - artic_304_responses_total - Conditional request successes
//   - artic_conditional_requests_total - Conditional requests sent
//   - artic_cache_errors_total{operation} - Cache operation errors
package cache
