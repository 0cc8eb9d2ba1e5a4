package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"genius-lyrics-go/logcolors"
	"genius-lyrics-go/utils"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const bucketName = "lyrics"

// PersistentCache wraps BoltDB with an in-memory copy for fast reads.
// It only ever stores final lookup results, never raw pages.
type PersistentCache struct {
	db                 *bolt.DB
	memCache           sync.Map
	dbPath             string
	compressionEnabled bool
	now                func() time.Time
}

// CacheEntry is a stored value (possibly compressed) and its expiry.
// Expiration is a UnixNano timestamp; zero means the entry never expires.
type CacheEntry struct {
	Value      string `json:"value"`
	Expiration int64  `json:"expiration"`
}

func (e CacheEntry) expired(now time.Time) bool {
	return e.Expiration != 0 && now.UnixNano() > e.Expiration
}

// NewPersistentCache opens (or creates) the cache database at dbPath
func NewPersistentCache(dbPath string, compressionEnabled bool) (*PersistentCache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	if info, err := os.Stat(dbPath); err == nil {
		log.Infof("%s Found existing database file at: %s (size: %d bytes)", logcolors.LogCacheInit, dbPath, info.Size())
	} else {
		log.Infof("%s Creating new database file at: %s", logcolors.LogCacheInit, dbPath)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	pc := &PersistentCache{
		db:                 db,
		dbPath:             dbPath,
		compressionEnabled: compressionEnabled,
		now:                time.Now,
	}

	if err := pc.loadToMemory(); err != nil {
		log.Warnf("%s Failed to preload cache to memory: %v", logcolors.LogCache, err)
	}

	log.Infof("%s Persistent cache initialized at %s (compression: %v)", logcolors.LogCache, dbPath, compressionEnabled)
	return pc, nil
}

// loadToMemory copies every unexpired entry from disk to memory
func (pc *PersistentCache) loadToMemory() error {
	count := 0
	now := pc.now()
	err := pc.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var entry CacheEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				log.Warnf("%s Failed to unmarshal cache entry for key %s: %v", logcolors.LogCache, string(k), err)
				return nil
			}
			if entry.expired(now) {
				return nil
			}
			pc.memCache.Store(string(k), entry)
			count++
			return nil
		})
	})
	if err != nil {
		return err
	}

	log.Infof("%s Loaded %d entries from disk to memory", logcolors.LogCache, count)
	return nil
}

// Get returns the value stored under key if it exists and has not expired
func (pc *PersistentCache) Get(key string) (string, bool) {
	raw, ok := pc.memCache.Load(key)
	if !ok {
		return "", false
	}

	entry := raw.(CacheEntry)
	if entry.expired(pc.now()) {
		if err := pc.Delete(key); err != nil {
			log.Warnf("%s Failed to delete expired key %s: %v", logcolors.LogCache, key, err)
		}
		return "", false
	}

	if !pc.compressionEnabled {
		return entry.Value, true
	}

	decompressed, err := utils.DecompressString(entry.Value)
	if err != nil {
		log.Errorf("%s Error decompressing cache value for key %s: %v", logcolors.LogCache, key, err)
		return "", false
	}
	return decompressed, true
}

// Set stores value under key for ttl (ttl <= 0 keeps it forever)
func (pc *PersistentCache) Set(key, value string, ttl time.Duration) error {
	stored := value
	if pc.compressionEnabled {
		compressed, err := utils.CompressString(value)
		if err != nil {
			return fmt.Errorf("failed to compress value for key %s: %w", key, err)
		}
		stored = compressed
	}

	entry := CacheEntry{Value: stored}
	if ttl > 0 {
		entry.Expiration = pc.now().Add(ttl).UnixNano()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	err = pc.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return err
	}

	pc.memCache.Store(key, entry)
	return nil
}

// Delete removes a key from memory and disk
func (pc *PersistentCache) Delete(key string) error {
	pc.memCache.Delete(key)

	return pc.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		return b.Delete([]byte(key))
	})
}

// Clear removes all entries
func (pc *PersistentCache) Clear() error {
	pc.memCache.Range(func(key, _ interface{}) bool {
		pc.memCache.Delete(key)
		return true
	})

	err := pc.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
	if err == nil {
		log.Infof("%s Cache cleared", logcolors.LogCacheClear)
	}
	return err
}

// PurgeExpired deletes every expired entry and returns how many were removed
func (pc *PersistentCache) PurgeExpired() int {
	now := pc.now()
	var expired []string
	pc.memCache.Range(func(k, v interface{}) bool {
		if v.(CacheEntry).expired(now) {
			expired = append(expired, k.(string))
		}
		return true
	})

	removed := 0
	for _, key := range expired {
		if err := pc.Delete(key); err != nil {
			log.Warnf("%s Failed to delete key %s: %v", logcolors.LogCacheInvalidate, key, err)
			continue
		}
		removed++
		log.Debugf("%s Deleted key: %s", logcolors.LogCacheInvalidate, key)
	}
	return removed
}

// Range iterates over all entries in memory (values as stored)
func (pc *PersistentCache) Range(fn func(key string, entry CacheEntry) bool) {
	pc.memCache.Range(func(k, v interface{}) bool {
		return fn(k.(string), v.(CacheEntry))
	})
}

// Stats returns the number of keys and their approximate size in KB
func (pc *PersistentCache) Stats() (numKeys int, sizeInKB int) {
	pc.memCache.Range(func(k, v interface{}) bool {
		entry := v.(CacheEntry)
		numKeys++
		sizeInKB += len(k.(string)) + len(entry.Value) + 8
		return true
	})
	sizeInKB = sizeInKB / 1024
	return
}

// Close closes the database
func (pc *PersistentCache) Close() error {
	if pc.db != nil {
		return pc.db.Close()
	}
	return nil
}
