package main

import (
	"genius-lyrics-go/cache"
	"genius-lyrics-go/services/genius"
)

// CacheDump represents the full cache contents
type CacheDump map[string]cache.CacheEntry

// CachePerformance contains cache hit/miss statistics
type CachePerformance struct {
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	NegativeHits int64   `json:"negative_hits"`
	HitRate      float64 `json:"hit_rate_percent"`
}

// CacheDumpResponse is the response format for /cache endpoint
type CacheDumpResponse struct {
	NumberOfKeys int              `json:"number_of_keys"`
	SizeInKB     int              `json:"size_kb"`
	SizeInMB     float64          `json:"size_mb"`
	Performance  CachePerformance `json:"performance"`
	Cache        CacheDump        `json:"cache,omitempty"`
}

// CachedLyrics is what gets stored for a successful lookup
type CachedLyrics struct {
	Lyrics     string             `json:"lyrics"`
	Track      genius.TrackResult `json:"track"`
	Containers int                `json:"containers"`
}

// NegativeCacheEntry stores why a term produced no lyrics
type NegativeCacheEntry struct {
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"`
}

// LyricsResponse is the body of a successful /getLyrics call
type LyricsResponse struct {
	Lyrics      string             `json:"lyrics"`
	Track       genius.TrackResult `json:"track"`
	Containers  int                `json:"containers"`
	LyricsFound bool               `json:"lyricsFound"`
}

// ErrorResponse is the body of every failed lookup
type ErrorResponse struct {
	Error       string `json:"error"`
	Stage       string `json:"stage,omitempty"`
	Kind        string `json:"kind,omitempty"`
	Status      int    `json:"upstreamStatus,omitempty"`
	LyricsFound *bool  `json:"lyricsFound,omitempty"`
	RetryAfter  string `json:"retryAfter,omitempty"`
}

// SearchHitsResponse is the body of /search
type SearchHitsResponse struct {
	Query string               `json:"query"`
	Count int                  `json:"count"`
	Hits  []genius.TrackResult `json:"hits"`
}
