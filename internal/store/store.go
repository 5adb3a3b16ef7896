package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ekinoz/phototriage/internal/domain"
)

// Bucket names
var (
	bucketAlbums = []byte("albums")
	bucketAssets = []byte("assets")
)

// ListingStore implements domain.Store using BoltDB.
type ListingStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewListingStore opens (or creates) the cache database under cacheDir.
// An empty cacheDir gives a memory-only store with no persistence.
func NewListingStore(cacheDir string) (*ListingStore, error) {
	if cacheDir == "" {
		return &ListingStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cacheDir, "phototriage.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketAlbums, bucketAssets} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ListingStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *ListingStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *ListingStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *ListingStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	// Update memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	// Write to BoltDB
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *ListingStore) deletePrefix(bucket []byte, prefix string) {
	// Clear from memory cache
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	// Delete from BoltDB using prefix scan
	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Albums ===

func (s *ListingStore) GetAlbums(kind domain.MediaKind) ([]domain.Album, bool) {
	var albums []domain.Album
	ok := s.get(bucketAlbums, "list:"+kind.String(), &albums)
	return albums, ok
}

func (s *ListingStore) SaveAlbums(kind domain.MediaKind, albums []domain.Album) error {
	return s.set(bucketAlbums, "list:"+kind.String(), albums)
}

// === Album content (hierarchical key: album:{albumID}:{kind}) ===

func (s *ListingStore) GetAssets(albumID string, kind domain.MediaKind) ([]*domain.Asset, bool) {
	var assets []*domain.Asset
	key := fmt.Sprintf("album:%s:%s", albumID, kind.String())
	ok := s.get(bucketAssets, key, &assets)
	return assets, ok
}

func (s *ListingStore) SaveAssets(albumID string, kind domain.MediaKind, assets []*domain.Asset, sourceTS int64) error {
	key := fmt.Sprintf("album:%s:%s", albumID, kind.String())
	if err := s.set(bucketAssets, key, assets); err != nil {
		return err
	}
	// Save timestamp separately for freshness checks
	return s.set(bucketAssets, key+":ts", sourceTS)
}

// === Validation ===

// IsValid reports whether the cached listing is at least as new as the
// source's last content change.
func (s *ListingStore) IsValid(albumID string, kind domain.MediaKind, sourceTS int64) bool {
	var storedTS int64
	key := fmt.Sprintf("album:%s:%s:ts", albumID, kind.String())
	if !s.get(bucketAssets, key, &storedTS) {
		return false
	}
	return storedTS >= sourceTS
}

// === Invalidation (hierarchical prefix deletion) ===

// InvalidateAlbum wipes the album's listings for every kind, plus timestamps
func (s *ListingStore) InvalidateAlbum(albumID string) {
	s.deletePrefix(bucketAssets, "album:"+albumID+":")
	// Counts in the album lists are stale too
	s.deletePrefix(bucketAlbums, "list:")
}

func (s *ListingStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	// Delete all data from all buckets
	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketAlbums, bucketAssets} {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
