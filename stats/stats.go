package stats

import (
	"sync/atomic"
	"time"
)

// Stats holds server counters; all fields are safe for concurrent use
type Stats struct {
	StartTime time.Time

	// Requests by endpoint
	TotalRequests  atomic.Int64
	LyricsRequests atomic.Int64
	SearchRequests atomic.Int64
	CacheRequests  atomic.Int64
	StatsRequests  atomic.Int64
	HealthRequests atomic.Int64
	OtherRequests  atomic.Int64

	// Cache performance
	CacheHits         atomic.Int64
	CacheMisses       atomic.Int64
	NegativeCacheHits atomic.Int64

	// Lookup outcomes against Genius
	LyricsFound       atomic.Int64
	LyricsNotFound    atomic.Int64 // page had no lyrics container
	NoResults         atomic.Int64
	SearchFailures    atomic.Int64
	FetchFailures     atomic.Int64
	CircuitRejections atomic.Int64
	CircuitOpens      atomic.Int64

	// Response status codes
	Status2xx atomic.Int64
	Status4xx atomic.Int64
	Status5xx atomic.Int64

	// Response times in microseconds
	totalResponseTime   atomic.Int64
	responseCount       atomic.Int64
	minResponseTime     atomic.Int64
	maxResponseTime     atomic.Int64
	lyricsResponseTime  atomic.Int64
	lyricsResponseCount atomic.Int64
}

const noMin = int64(^uint64(0) >> 1)

var global = New()

// New returns an empty Stats starting now
func New() *Stats {
	s := &Stats{StartTime: time.Now()}
	s.minResponseTime.Store(noMin)
	return s
}

// Get returns the global stats instance
func Get() *Stats {
	return global
}

// RecordRequest records a request to a specific endpoint
func (s *Stats) RecordRequest(endpoint string) {
	s.TotalRequests.Add(1)
	switch endpoint {
	case "/getLyrics":
		s.LyricsRequests.Add(1)
	case "/search":
		s.SearchRequests.Add(1)
	case "/cache", "/cache/clear":
		s.CacheRequests.Add(1)
	case "/stats":
		s.StatsRequests.Add(1)
	case "/health":
		s.HealthRequests.Add(1)
	default:
		s.OtherRequests.Add(1)
	}
}

func (s *Stats) RecordCacheHit()         { s.CacheHits.Add(1) }
func (s *Stats) RecordCacheMiss()        { s.CacheMisses.Add(1) }
func (s *Stats) RecordNegativeCacheHit() { s.NegativeCacheHits.Add(1) }

// RecordCircuitOpen counts a transition of the Genius breaker into OPEN
func (s *Stats) RecordCircuitOpen() { s.CircuitOpens.Add(1) }

// RecordOutcome records how a lookup against Genius ended. kind is one of
// "found", "not_found", "no_results", "search_failure", "fetch_failure"
// or "circuit_open".
func (s *Stats) RecordOutcome(kind string) {
	switch kind {
	case "found":
		s.LyricsFound.Add(1)
	case "not_found":
		s.LyricsNotFound.Add(1)
	case "no_results":
		s.NoResults.Add(1)
	case "search_failure":
		s.SearchFailures.Add(1)
	case "fetch_failure":
		s.FetchFailures.Add(1)
	case "circuit_open":
		s.CircuitRejections.Add(1)
	}
}

// RecordStatusCode records a response status code
func (s *Stats) RecordStatusCode(code int) {
	switch {
	case code >= 200 && code < 300:
		s.Status2xx.Add(1)
	case code >= 400 && code < 500:
		s.Status4xx.Add(1)
	case code >= 500:
		s.Status5xx.Add(1)
	}
}

// RecordResponseTime records a response time
func (s *Stats) RecordResponseTime(duration time.Duration, endpoint string) {
	us := duration.Microseconds()

	s.totalResponseTime.Add(us)
	s.responseCount.Add(1)

	for {
		current := s.minResponseTime.Load()
		if us >= current || s.minResponseTime.CompareAndSwap(current, us) {
			break
		}
	}
	for {
		current := s.maxResponseTime.Load()
		if us <= current || s.maxResponseTime.CompareAndSwap(current, us) {
			break
		}
	}

	if endpoint == "/getLyrics" {
		s.lyricsResponseTime.Add(us)
		s.lyricsResponseCount.Add(1)
	}
}

// Uptime returns the server uptime
func (s *Stats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// CacheHitRate returns the cache hit rate as a percentage
func (s *Stats) CacheHitRate() float64 {
	hits := s.CacheHits.Load() + s.NegativeCacheHits.Load()
	total := hits + s.CacheMisses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

func average(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total/count) * time.Microsecond
}

// AvgResponseTime returns the average response time
func (s *Stats) AvgResponseTime() time.Duration {
	return average(s.totalResponseTime.Load(), s.responseCount.Load())
}

// MinResponseTime returns the minimum response time
func (s *Stats) MinResponseTime() time.Duration {
	min := s.minResponseTime.Load()
	if min == noMin {
		return 0
	}
	return time.Duration(min) * time.Microsecond
}

// MaxResponseTime returns the maximum response time
func (s *Stats) MaxResponseTime() time.Duration {
	return time.Duration(s.maxResponseTime.Load()) * time.Microsecond
}

// AvgLyricsResponseTime returns the average response time for lyrics requests
func (s *Stats) AvgLyricsResponseTime() time.Duration {
	return average(s.lyricsResponseTime.Load(), s.lyricsResponseCount.Load())
}

// Snapshot returns a point-in-time snapshot of all stats
func (s *Stats) Snapshot() map[string]interface{} {
	uptime := s.Uptime()

	return map[string]interface{}{
		"server": map[string]interface{}{
			"start_time":     s.StartTime.Format(time.RFC3339),
			"uptime":         uptime.String(),
			"uptime_seconds": int64(uptime.Seconds()),
		},
		"requests": map[string]interface{}{
			"total":  s.TotalRequests.Load(),
			"lyrics": s.LyricsRequests.Load(),
			"search": s.SearchRequests.Load(),
			"cache":  s.CacheRequests.Load(),
			"stats":  s.StatsRequests.Load(),
			"health": s.HealthRequests.Load(),
			"other":  s.OtherRequests.Load(),
		},
		"cache": map[string]interface{}{
			"hits":          s.CacheHits.Load(),
			"misses":        s.CacheMisses.Load(),
			"negative_hits": s.NegativeCacheHits.Load(),
			"hit_rate":      s.CacheHitRate(),
		},
		"lookups": map[string]interface{}{
			"found":              s.LyricsFound.Load(),
			"lyrics_not_found":   s.LyricsNotFound.Load(),
			"no_results":         s.NoResults.Load(),
			"search_failures":    s.SearchFailures.Load(),
			"fetch_failures":     s.FetchFailures.Load(),
			"circuit_rejections": s.CircuitRejections.Load(),
			"circuit_opens":      s.CircuitOpens.Load(),
		},
		"responses": map[string]interface{}{
			"2xx": s.Status2xx.Load(),
			"4xx": s.Status4xx.Load(),
			"5xx": s.Status5xx.Load(),
		},
		"response_times": map[string]interface{}{
			"avg":        s.AvgResponseTime().String(),
			"min":        s.MinResponseTime().String(),
			"max":        s.MaxResponseTime().String(),
			"avg_lyrics": s.AvgLyricsResponseTime().String(),
		},
	}
}
