// Package snapshot keeps the client-side copy of the active catalog used for
// recommendations, genre listing and search suggestions.
package snapshot

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"songfinder/internal/catalog"
)

const (
	// MinSuggestLen is the shortest query, in characters, that gets suggestions.
	MinSuggestLen = 2
	// MaxSuggestions caps the suggestion list.
	MaxSuggestions = 8
)

// Source fetches the full active catalog.
type Source interface {
	ListActive(ctx context.Context) ([]catalog.Song, error)
}

type entry struct {
	interpreter string
	title       string
}

// Cache holds the snapshot and the indexes derived from it. It only changes
// on Load or Replace; filtering never touches it.
type Cache struct {
	mu     sync.RWMutex
	songs  []catalog.Song
	index  []entry
	byCode map[string]int
	genres []string
	loaded bool
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{byCode: map[string]int{}}
}

// Load fetches the catalog from src and rebuilds every index. On failure the
// previous snapshot is kept.
func (c *Cache) Load(ctx context.Context, src Source) error {
	songs, err := src.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	c.Replace(songs)
	return nil
}

// Replace swaps in a new snapshot. Inactive songs are dropped.
func (c *Cache) Replace(songs []catalog.Song) {
	active := make([]catalog.Song, 0, len(songs))
	for _, s := range songs {
		if s.Active {
			active = append(active, s)
		}
	}

	index := make([]entry, len(active))
	byCode := make(map[string]int, len(active))
	seen := map[string]struct{}{}
	var genres []string
	for i, s := range active {
		index[i] = entry{
			interpreter: strings.ToLower(s.Interpreter),
			title:       strings.ToLower(s.Title),
		}
		if _, dup := byCode[s.Code]; !dup {
			byCode[s.Code] = i
		}
		if g := strings.TrimSpace(s.GenreValue()); g != "" {
			if _, ok := seen[g]; !ok {
				seen[g] = struct{}{}
				genres = append(genres, g)
			}
		}
	}
	slices.Sort(genres)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.songs = active
	c.index = index
	c.byCode = byCode
	c.genres = genres
	c.loaded = true
}

// Loaded reports whether a snapshot was ever installed.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Len returns the number of active songs held.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.songs)
}

// Songs returns the snapshot in server order. The slice must not be modified.
func (c *Cache) Songs() []catalog.Song {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.songs
}

// Genres returns the genre index: distinct non-empty genres, sorted.
func (c *Cache) Genres() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.genres)
}

// Find looks a song up by code.
func (c *Cache) Find(code string) (catalog.Song, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byCode[code]
	if !ok {
		return catalog.Song{}, false
	}
	return c.songs[i], true
}

// Suggest returns up to MaxSuggestions songs whose performer or title contains
// query, ignoring case. Queries shorter than MinSuggestLen return nothing.
func (c *Cache) Suggest(query string) []catalog.Song {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSuggestLen {
		return nil
	}
	needle := strings.ToLower(query)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []catalog.Song
	for i, e := range c.index {
		if strings.Contains(e.interpreter, needle) || strings.Contains(e.title, needle) {
			out = append(out, c.songs[i])
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}
