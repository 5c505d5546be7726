package session

import (
	"context"

	"github.com/rs/zerolog/log"

	"songfinder/internal/catalog"
	"songfinder/internal/pager"
)

// OnSearch sets the search term. Failures are reported in View.Message.
func (s *Session) OnSearch(ctx context.Context, term string) View {
	v, _ := s.SetTerm(ctx, term)
	return v
}

// OnToggleGenre adds g to the genre selection or removes it. Removing the
// last selected genre goes back to all genres.
func (s *Session) OnToggleGenre(ctx context.Context, g string) View {
	s.mu.Lock()
	next := s.filter.WithGenreToggled(g)
	s.mu.Unlock()
	v, _ := s.SetGenres(ctx, next.Genres)
	return v
}

// OnClearGenres selects all genres.
func (s *Session) OnClearGenres(ctx context.Context) View {
	v, _ := s.SetGenres(ctx, nil)
	return v
}

// OnPage moves delta pages, staying within the valid range.
func (s *Session) OnPage(delta int) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = pager.Move(s.page, delta, len(s.results), s.pageSize)
	return s.viewLocked()
}

// OnToggleFavorite flips the favorite state of code. A failed save leaves
// the toggle applied and sets View.Warning.
func (s *Session) OnToggleFavorite(code string) View {
	on, err := s.favorites.Toggle(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.viewLocked()
	if title, ok := s.titleLocked(code); ok {
		if on {
			v.Notice = title + " adicionada aos favoritos"
		} else {
			v.Notice = title + " removida dos favoritos"
		}
	}
	if err != nil {
		log.Warn().Err(err).Str("code", code).Msg("Favorites not persisted")
		v.Warning = msgSaveFailed
	}
	return v
}

// OnSuggest lists snapshot songs whose performer or title contains prefix.
func (s *Session) OnSuggest(prefix string) View {
	suggestions := s.cache.Suggest(prefix)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions = suggestions
	return s.viewLocked()
}

// OnPickSuggestion searches for the picked song as "<performer> - <title>".
func (s *Session) OnPickSuggestion(ctx context.Context, code string) View {
	song, ok := s.cache.Find(code)
	if !ok {
		return s.View()
	}
	return s.OnSearch(ctx, song.Interpreter+" - "+song.Title)
}

func (s *Session) titleLocked(code string) (string, bool) {
	if song, ok := s.cache.Find(code); ok {
		return song.Title, true
	}
	for _, song := range s.results {
		if song.Code == code {
			return song.Title, true
		}
	}
	return "", false
}

// Filter returns the current filter.
func (s *Session) Filter() catalog.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}
