package favorites

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.etcd.io/bbolt"
)

var (
	bucketName   = []byte("songctl")
	favoritesKey = []byte("favorites")
)

// BoltStorage keeps client-local state in a bbolt file. Favorites are a
// JSON array of codes under their own key.
type BoltStorage struct {
	db *bbolt.DB
}

// OpenBolt opens or creates the state file at path.
func OpenBolt(path string) (*BoltStorage, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open bbolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not create %s bucket: %w", bucketName, err)
	}

	return &BoltStorage{db: db}, nil
}

// LoadFavorites returns the stored codes; a missing key is an empty list.
func (s *BoltStorage) LoadFavorites() ([]string, error) {
	var codes []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketName).Get(favoritesKey)
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &codes); err != nil {
			return fmt.Errorf("error deserializing favorites: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// SaveFavorites overwrites the stored codes.
func (s *BoltStorage) SaveFavorites(codes []string) error {
	if codes == nil {
		codes = []string{}
	}
	value, err := json.Marshal(codes)
	if err != nil {
		return fmt.Errorf("error serializing favorites: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put(favoritesKey, value)
	})
}

// Close releases the file lock.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}
