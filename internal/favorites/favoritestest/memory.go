// Package favoritestest provides an in-memory favorites storage for tests.
package favoritestest

import (
	"errors"
	"slices"
	"sync"
)

// ErrSaveFailed is returned by MemoryStorage when configured to fail.
var ErrSaveFailed = errors.New("storage unavailable")

// MemoryStorage keeps favorites in memory. FailSaves makes every save fail,
// the way a full disk or quota would.
type MemoryStorage struct {
	mu        sync.Mutex
	codes     []string
	saves     int
	FailSaves bool
}

// NewMemoryStorage returns a storage preloaded with codes.
func NewMemoryStorage(codes ...string) *MemoryStorage {
	return &MemoryStorage{codes: codes}
}

func (m *MemoryStorage) LoadFavorites() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.codes), nil
}

func (m *MemoryStorage) SaveFavorites(codes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves {
		return ErrSaveFailed
	}
	m.codes = slices.Clone(codes)
	m.saves++
	return nil
}

// Saved returns the last successfully saved codes and the number of saves.
func (m *MemoryStorage) Saved() ([]string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.codes), m.saves
}
