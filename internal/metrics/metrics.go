package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Short link cache
	ShortLinkCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shortlink_cache_hits_total",
			Help: "Short link resolutions served from cache",
		},
	)

	ShortLinkCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shortlink_cache_misses_total",
			Help: "Short link resolutions that fell through to the database",
		},
	)

	ShortLinkCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shortlink_collisions_total",
			Help: "Generated short codes that were already taken",
		},
	)

	// Image storage
	ImageUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_image_uploads_total",
			Help: "Image uploads by backend and result",
		},
		[]string{"backend", "result"},
	)

	RecipesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_recipes_created_total",
			Help: "Total number of recipes created",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordImageUpload records an upload attempt against a storage backend
func RecordImageUpload(backend string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ImageUploads.WithLabelValues(backend, result).Inc()
}
