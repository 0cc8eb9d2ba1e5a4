package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"genius-lyrics-go/logcolors"
	"genius-lyrics-go/services/genius"
	"genius-lyrics-go/utils"

	log "github.com/sirupsen/logrus"
)

const (
	lyricsKeyPrefix   = "genius_lyrics:"
	negativeKeyPrefix = "no_lyrics:"
)

// buildCacheKey maps equivalent search terms onto one key
func buildCacheKey(term string) string {
	return lyricsKeyPrefix + utils.NormalizeTerm(term)
}

func getCachedLyrics(key string) (CachedLyrics, bool) {
	var cached CachedLyrics

	raw, ok := persistentCache.Get(key)
	if !ok {
		return cached, false
	}
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		log.Warnf("%s Dropping unreadable entry %s: %v", logcolors.LogCacheLyrics, key, err)
		persistentCache.Delete(key)
		return cached, false
	}
	return cached, true
}

func setCachedLyrics(key string, result *genius.LyricsResult) {
	data, err := json.Marshal(CachedLyrics{
		Lyrics:     result.Lyrics,
		Track:      result.Track,
		Containers: result.Containers,
	})
	if err != nil {
		log.Errorf("%s Error marshaling cached lyrics: %v", logcolors.LogCacheLyrics, err)
		return
	}

	ttl := time.Duration(conf.Configuration.LyricsCacheTTLInSeconds) * time.Second
	if err := persistentCache.Set(key, string(data), ttl); err != nil {
		log.Errorf("%s Error setting cache value: %v", logcolors.LogCacheLyrics, err)
		return
	}
	log.Infof("%s Cached lyrics for key: %s", logcolors.LogCacheLyrics, key)
}

// getNegativeCache returns the stored reason if key recently had no results
func getNegativeCache(key string) (string, bool) {
	raw, ok := persistentCache.Get(negativeKeyPrefix + key)
	if !ok {
		return "", false
	}

	var entry NegativeCacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return "", false
	}
	return entry.Reason, true
}

func setNegativeCache(key, reason string) {
	data, err := json.Marshal(NegativeCacheEntry{Reason: reason, Timestamp: time.Now().Unix()})
	if err != nil {
		log.Errorf("%s Error marshaling negative cache entry: %v", logcolors.LogCacheNegative, err)
		return
	}

	ttl := time.Duration(conf.Configuration.NegativeCacheTTLInSeconds) * time.Second
	if err := persistentCache.Set(negativeKeyPrefix+key, string(data), ttl); err != nil {
		log.Errorf("%s Error setting negative cache: %v", logcolors.LogCacheNegative, err)
		return
	}
	log.Infof("%s Cached 'no results' for key: %s (reason: %s)", logcolors.LogCacheNegative, key, reason)
}

// shouldNegativeCache reports whether err is a permanent "nothing to find"
// outcome. Upstream failures are transient and never cached.
func shouldNegativeCache(err error) bool {
	return errors.Is(err, genius.ErrNoResults)
}

// isUpstreamFailure reports whether err means Genius itself is unhealthy
func isUpstreamFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	switch genius.Kind(err) {
	case genius.ErrTransportFailure, genius.ErrFetchFailure:
		return true
	case genius.ErrUnsuccessfulStatus:
		return genius.StatusCode(err) >= 500
	default:
		return false
	}
}

// invalidateCache purges expired entries every interval until ctx is done
func invalidateCache(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	log.Infof("%s Starting cache invalidation every %v", logcolors.LogCacheInvalidate, interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := persistentCache.PurgeExpired(); removed > 0 {
				log.Infof("%s Removed %d expired keys", logcolors.LogCacheInvalidate, removed)
			}
		}
	}
}
