package favorites

import (
	"fmt"
	"slices"
	"sync"

	"songfinder/internal/catalog"
)

// Storage persists the favorite codes of one client.
type Storage interface {
	LoadFavorites() ([]string, error)
	SaveFavorites(codes []string) error
}

// Ledger is the set of favorite song codes. The in-memory set is
// authoritative; storage may fall behind when a save fails.
type Ledger struct {
	mu      sync.Mutex
	storage Storage
	codes   []string
	index   map[string]struct{}
}

// NewLedger returns an empty ledger backed by storage.
func NewLedger(storage Storage) *Ledger {
	return &Ledger{
		storage: storage,
		index:   make(map[string]struct{}),
	}
}

// Load replaces the in-memory set with the persisted one. On failure the
// ledger is left empty and the error wraps catalog.ErrPersistence.
func (l *Ledger) Load() error {
	codes, err := l.storage.LoadFavorites()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.codes = nil
	l.index = make(map[string]struct{})
	if err != nil {
		return fmt.Errorf("%w: load favorites: %w", catalog.ErrPersistence, err)
	}
	for _, code := range codes {
		if code == "" {
			continue
		}
		if _, dup := l.index[code]; dup {
			continue
		}
		l.index[code] = struct{}{}
		l.codes = append(l.codes, code)
	}
	return nil
}

// Toggle adds code when absent and removes it when present, then persists
// the whole set. It returns the resulting membership even when the save
// fails; the error then wraps catalog.ErrPersistence.
func (l *Ledger) Toggle(code string) (bool, error) {
	if code == "" {
		return false, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, present := l.index[code]
	if present {
		delete(l.index, code)
		l.codes = slices.DeleteFunc(l.codes, func(c string) bool { return c == code })
	} else {
		l.index[code] = struct{}{}
		l.codes = append(l.codes, code)
	}

	if err := l.storage.SaveFavorites(slices.Clone(l.codes)); err != nil {
		return !present, fmt.Errorf("%w: save favorites: %w", catalog.ErrPersistence, err)
	}
	return !present, nil
}

// IsFavorite reports whether code is in the set.
func (l *Ledger) IsFavorite(code string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.index[code]
	return ok
}

// Codes returns the favorite codes in the order they were added.
func (l *Ledger) Codes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.codes)
}

// Len returns the number of favorites.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.codes)
}
