package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/moviehub/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// DefaultMaxValueBytes bounds a single stored collection
const DefaultMaxValueBytes = 5 << 20

var bucketUserData = []byte("userdata")

// UserStore implements domain.LocalStore using BoltDB.
type UserStore struct {
	db     *bolt.DB
	mu     sync.RWMutex // Protects memory cache
	logger *slog.Logger

	maxValueBytes int

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Options tunes a UserStore
type Options struct {
	MaxValueBytes int // Writes above this size are denied; 0 uses DefaultMaxValueBytes
	Logger        *slog.Logger
}

// NewUserStore opens the store under baseDir. An empty baseDir keeps
// everything in memory (no persistence).
func NewUserStore(baseDir string, opts Options) (*UserStore, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxValueBytes <= 0 {
		opts.MaxValueBytes = DefaultMaxValueBytes
	}
	s := &UserStore{
		logger:        opts.Logger,
		maxValueBytes: opts.MaxValueBytes,
		cache:         make(map[string][]byte),
	}
	if baseDir == "" {
		return s, nil
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(baseDir, "moviehub.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketUserData)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

// identityPrefix namespaces keys per account without storing the raw id
func identityPrefix(identity string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(identity)))
	return "u:" + hex.EncodeToString(hash[:6]) + ":"
}

func storageKey(identity string, c domain.Collection) string {
	return identityPrefix(identity) + string(c)
}

func (s *UserStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements domain.LocalStore.
func (s *UserStore) Load(identity string, c domain.Collection, dest any) bool {
	data := s.get(storageKey(identity, c))
	if data == nil {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("discarding malformed collection",
			"collection", c, "error", fmt.Errorf("%w: %v", domain.ErrMalformedData, err))
		return false
	}
	return true
}

// Save implements domain.LocalStore.
func (s *UserStore) Save(identity string, c domain.Collection, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrStorageDenied, c, err)
	}
	if len(data) > s.maxValueBytes {
		return fmt.Errorf("%w: %s is %d bytes, quota is %d", domain.ErrStorageDenied, c, len(data), s.maxValueBytes)
	}
	if err := s.set(storageKey(identity, c), data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageDenied, err)
	}
	return nil
}

// Clear removes exactly the collections belonging to identity.
func (s *UserStore) Clear(identity string) error {
	keys := make([]string, 0, len(domain.Collections()))
	for _, c := range domain.Collections() {
		keys = append(keys, storageKey(identity, c))
	}
	return s.delete(keys...)
}

// === Typed collections ===

// Favorites returns the stored favorites, or an empty slice
func (s *UserStore) Favorites(identity string) []domain.Movie {
	return s.movies(identity, domain.CollectionFavorites)
}

func (s *UserStore) SaveFavorites(identity string, movies []domain.Movie) error {
	return s.Save(identity, domain.CollectionFavorites, movies)
}

// Recent returns the stored recently viewed list, or an empty slice
func (s *UserStore) Recent(identity string) []domain.Movie {
	return s.movies(identity, domain.CollectionRecent)
}

func (s *UserStore) SaveRecent(identity string, movies []domain.Movie) error {
	return s.Save(identity, domain.CollectionRecent, movies)
}

// SearchHistory returns the stored search history, or an empty slice
func (s *UserStore) SearchHistory(identity string) []domain.SearchEntry {
	var entries []domain.SearchEntry
	if !s.Load(identity, domain.CollectionSearchHistory, &entries) || entries == nil {
		return []domain.SearchEntry{}
	}
	return entries
}

func (s *UserStore) SaveSearchHistory(identity string, entries []domain.SearchEntry) error {
	return s.Save(identity, domain.CollectionSearchHistory, entries)
}

func (s *UserStore) movies(identity string, c domain.Collection) []domain.Movie {
	var movies []domain.Movie
	if !s.Load(identity, c, &movies) || movies == nil {
		return []domain.Movie{}
	}
	return movies
}

// === Raw helpers ===

func (s *UserStore) get(key string) []byte {
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return data
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUserData)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to read store", "error", err)
		return nil
	}
	if data == nil {
		return nil
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return data
}

func (s *UserStore) set(key string, data []byte) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			b, err := tx.CreateBucketIfNotExists(bucketUserData)
			if err != nil {
				return err
			}
			return b.Put([]byte(key), data)
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()
	return nil
}

func (s *UserStore) delete(keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.cache, k)
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUserData)
		if b == nil {
			return nil
		}
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ domain.LocalStore = (*UserStore)(nil)
