package catalog

import (
	"errors"
	"slices"
	"strings"
)

var (
	// ErrQueryFailure signals the catalog could not be queried: the store is
	// unreachable, the request timed out or was rejected by admission control.
	ErrQueryFailure = errors.New("catalog query failed")
	// ErrPersistence signals client-local state could not be written. It is
	// never fatal; in-memory state stays authoritative.
	ErrPersistence = errors.New("local persistence failed")
)

// Song is a catalog entry. Songs are read-only from this system's point of view.
type Song struct {
	Code        string
	Interpreter string
	Title       string
	LyricStart  *string
	Genre       *string
	Active      bool
}

// GenreValue returns the genre or "" when it is not set.
func (s Song) GenreValue() string {
	if s.Genre == nil {
		return ""
	}
	return *s.Genre
}

// LyricValue returns the lyric excerpt or "" when it is not set.
func (s Song) LyricValue() string {
	if s.LyricStart == nil {
		return ""
	}
	return *s.LyricStart
}

// Filter is the free-text term plus genre selection driving a search.
// An empty genre list means all genres.
type Filter struct {
	Term   string
	Genres []string
}

// NewFilter trims the term and normalizes genres into a sorted set without
// blank entries, so equal selections compare equal.
func NewFilter(term string, genres []string) Filter {
	return Filter{
		Term:   strings.TrimSpace(term),
		Genres: normalizeGenres(genres),
	}
}

// IsZero reports whether the filter selects the whole active catalog.
func (f Filter) IsZero() bool {
	return f.Term == "" && len(f.Genres) == 0
}

// Equal reports whether both filters select the same rows.
func (f Filter) Equal(other Filter) bool {
	return f.Term == other.Term && slices.Equal(f.Genres, other.Genres)
}

// HasGenre reports whether g is part of the selection.
func (f Filter) HasGenre(g string) bool {
	_, found := slices.BinarySearch(f.Genres, strings.TrimSpace(g))
	return found
}

// WithGenreToggled returns a copy with g added when absent, removed when present.
// Removing the last genre yields the "all genres" selection.
func (f Filter) WithGenreToggled(g string) Filter {
	g = strings.TrimSpace(g)
	if g == "" {
		return f
	}
	genres := make([]string, 0, len(f.Genres)+1)
	removed := false
	for _, existing := range f.Genres {
		if existing == g {
			removed = true
			continue
		}
		genres = append(genres, existing)
	}
	if !removed {
		genres = append(genres, g)
	}
	return NewFilter(f.Term, genres)
}

func normalizeGenres(genres []string) []string {
	if len(genres) == 0 {
		return nil
	}
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return slices.Compact(out)
}
