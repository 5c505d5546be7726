package store

import (
	"context"
	"database/sql"
	"fmt"

	"songfinder/internal/catalog"
)

// ListActive returns every active song in catalog order.
func (s *Store) ListActive(ctx context.Context) ([]catalog.Song, error) {
	return s.query(ctx, "list_songs", BuildSearch(catalog.Filter{}))
}

// Search returns active songs matching the filter in catalog order.
func (s *Store) Search(ctx context.Context, filter catalog.Filter) ([]catalog.Song, error) {
	return s.query(ctx, "search_songs", BuildSearch(filter))
}

func (s *Store) query(ctx context.Context, op string, p Predicate) ([]catalog.Song, error) {
	var songs []catalog.Song
	err := s.guard.Do(ctx, op, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, selectSongs(p), p.Args...)
		if err != nil {
			return fmt.Errorf("query songs: %w", err)
		}
		defer rows.Close()

		songs, err = scanSongs(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return songs, nil
}

func scanSongs(rows *sql.Rows) ([]catalog.Song, error) {
	songs := []catalog.Song{}
	for rows.Next() {
		var (
			song  catalog.Song
			lyric sql.NullString
			genre sql.NullString
		)
		if err := rows.Scan(&song.Code, &song.Interpreter, &song.Title, &lyric, &genre, &song.Active); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		if lyric.Valid {
			song.LyricStart = &lyric.String
		}
		if genre.Valid {
			song.Genre = &genre.String
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}
