// Package session holds the state of one catalog browsing session: the
// current filter, the last applied result set and the page being viewed.
//
// Queries run outside the session lock. Each one takes a generation number
// when issued and its response is applied only if no newer query was issued
// in the meantime, so out-of-order responses never overwrite a newer view.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"songfinder/internal/catalog"
	"songfinder/internal/favorites"
	"songfinder/internal/pager"
	"songfinder/internal/recommend"
	"songfinder/internal/snapshot"
)

const (
	msgLoadFailed   = "Erro ao carregar o catálogo. Tente novamente."
	msgSearchFailed = "Erro ao realizar a busca. Tente novamente."
	msgSaveFailed   = "Não foi possível salvar os favoritos"
)

// Catalog is the remote side of the session: the full active list for the
// snapshot and filtered searches.
type Catalog interface {
	snapshot.Source
	Search(ctx context.Context, filter catalog.Filter) ([]catalog.Song, error)
}

// Row is a song as rendered, annotated with its favorite state.
type Row struct {
	catalog.Song
	Favorite bool
}

// View is the derived, render-ready state of the session.
type View struct {
	Filter          catalog.Filter
	Page            pager.Page[Row]
	Recommendations []Row
	Suggestions     []Row
	Genres          []string
	Loaded          bool
	NoResults       bool
	Message         string // query failure, shown until the next successful query
	Warning         string // non-fatal problem, e.g. favorites not saved
	Notice          string // outcome of the last command
	Generation      uint64
}

// Session is safe for concurrent use.
type Session struct {
	catalog   Catalog
	cache     *snapshot.Cache
	favorites *favorites.Ledger
	pageSize  int

	mu           sync.Mutex
	filter       catalog.Filter // latest requested, reverted when its query fails
	shown        catalog.Filter // filter of the applied result set
	results      []catalog.Song
	applied      bool // a result set has been applied
	page         int
	issued       uint64
	current      uint64 // generation of the applied result set
	loadFailed   bool
	searchFailed bool // the latest search failed, so an equal filter must re-query
	message      string
	suggestions  []catalog.Song
}

// New builds a session over separately owned cache and favorites stores.
func New(c Catalog, cache *snapshot.Cache, ledger *favorites.Ledger) *Session {
	return &Session{
		catalog:   c,
		cache:     cache,
		favorites: ledger,
		pageSize:  pager.DefaultSize,
		page:      1,
	}
}

// Start performs the initial load: it fills the snapshot cache and shows the
// whole active catalog.
func (s *Session) Start(ctx context.Context) View {
	v, _ := s.load(ctx)
	return v
}

// Reload refetches the snapshot and re-runs the current filter.
func (s *Session) Reload(ctx context.Context) (View, error) {
	if _, err := s.load(ctx); err != nil {
		return s.View(), err
	}
	return s.Refresh(ctx)
}

func (s *Session) load(ctx context.Context) (View, error) {
	gen := s.issue(nil)
	err := s.cache.Load(ctx, s.catalog)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Uint64("generation", gen).Msg("Catalog load failed")
		s.loadFailed = true
		s.message = msgLoadFailed
		return s.viewLocked(), err
	}
	s.loadFailed = false
	if s.message == msgLoadFailed {
		s.message = ""
	}
	if gen != s.issued {
		s.dropStale(gen)
		return s.viewLocked(), nil
	}
	if s.filter.IsZero() {
		s.applyLocked(gen, s.filter, s.cache.Songs(), 1)
	}
	return s.viewLocked(), nil
}

// SetTerm replaces the search term. An unchanged term issues no query.
func (s *Session) SetTerm(ctx context.Context, term string) (View, error) {
	s.mu.Lock()
	next := catalog.NewFilter(term, s.filter.Genres)
	s.mu.Unlock()
	return s.SetFilter(ctx, next)
}

// SetGenres replaces the genre selection; an empty selection means all
// genres. An unchanged selection issues no query.
func (s *Session) SetGenres(ctx context.Context, genres []string) (View, error) {
	s.mu.Lock()
	next := catalog.NewFilter(s.filter.Term, genres)
	s.mu.Unlock()
	return s.SetFilter(ctx, next)
}

// Refresh re-issues the current filter, keeping the page index when it is
// still valid.
func (s *Session) Refresh(ctx context.Context) (View, error) {
	s.mu.Lock()
	filter := s.filter
	page := s.page
	s.mu.Unlock()
	return s.query(ctx, filter, page)
}

// SetFilter replaces term and genres together. An unchanged filter issues
// no query unless the previous search for it failed.
func (s *Session) SetFilter(ctx context.Context, next catalog.Filter) (View, error) {
	s.mu.Lock()
	if next.Equal(s.filter) && !s.searchFailed {
		v := s.viewLocked()
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()
	return s.query(ctx, next, 1)
}

// query runs filter and applies the response if it is still the latest.
func (s *Session) query(ctx context.Context, filter catalog.Filter, page int) (View, error) {
	gen := s.issue(&filter)
	songs, err := s.catalog.Search(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.issued {
		s.dropStale(gen)
		return s.viewLocked(), nil
	}
	if err != nil {
		s.filter = s.shown
		if errors.Is(err, context.Canceled) {
			return s.viewLocked(), err
		}
		log.Error().Err(err).Uint64("generation", gen).Str("term", filter.Term).Strs("genres", filter.Genres).Msg("Search failed")
		s.searchFailed = true
		s.message = msgSearchFailed
		return s.viewLocked(), err
	}

	s.applyLocked(gen, filter, songs, page)
	return s.viewLocked(), nil
}

// issue takes the next generation, recording filter as the requested state.
func (s *Session) issue(filter *catalog.Filter) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	if filter != nil {
		s.filter = *filter
		s.suggestions = nil
	}
	return s.issued
}

func (s *Session) applyLocked(gen uint64, filter catalog.Filter, songs []catalog.Song, page int) {
	s.shown = filter
	s.searchFailed = false
	s.results = songs
	s.applied = true
	s.current = gen
	s.page = pager.Clamp(page, len(songs), s.pageSize)
	s.message = ""
	if s.loadFailed {
		s.message = msgLoadFailed
	}
}

func (s *Session) dropStale(gen uint64) {
	log.Debug().Uint64("generation", gen).Uint64("latest", s.issued).Msg("Dropping stale response")
}

// View returns the current derived state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	page := pager.Paginate(s.results, s.page, s.pageSize)
	v := View{
		Filter:     s.filter,
		Page:       pager.Map(page, s.row),
		Genres:     s.cache.Genres(),
		Loaded:     s.cache.Loaded(),
		NoResults:  s.applied && len(s.results) == 0,
		Message:    s.message,
		Generation: s.current,
	}
	if len(s.results) == 1 {
		v.Recommendations = s.rows(recommend.For(s.results[0], s.cache.Songs()))
	}
	if len(s.suggestions) > 0 {
		v.Suggestions = s.rows(s.suggestions)
	}
	return v
}

func (s *Session) row(song catalog.Song) Row {
	return Row{Song: song, Favorite: s.favorites.IsFavorite(song.Code)}
}

func (s *Session) rows(songs []catalog.Song) []Row {
	if len(songs) == 0 {
		return nil
	}
	out := make([]Row, len(songs))
	for i, song := range songs {
		out[i] = s.row(song)
	}
	return out
}
