package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"songfinder/internal/catalog"
)

var songRowColumns = []string{"code", "interpreter", "title", "lyric_start", "genre", "active"}

func TestListActiveSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db, Limits{})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT code, interpreter, title, lyric_start, genre, active FROM songs WHERE active = TRUE ORDER BY interpreter ASC, title ASC, code ASC`)).
		WillReturnRows(sqlmock.NewRows(songRowColumns).
			AddRow("1", "Caetano Veloso", "Sozinho", "Às vezes no silêncio da noite", "MPB", true).
			AddRow("2", "Djavan", "Oceano", nil, nil, true))

	songs, err := s.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}

	if len(songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(songs))
	}
	if songs[0].GenreValue() != "MPB" || songs[0].LyricValue() == "" {
		t.Fatalf("unexpected first song: %+v", songs[0])
	}
	if songs[1].Genre != nil || songs[1].LyricStart != nil {
		t.Fatalf("expected NULL columns to stay nil: %+v", songs[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchBindsFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db, Limits{})
	filter := catalog.NewFilter("rosa", []string{"Samba"})

	mock.ExpectQuery(regexp.QuoteMeta(selectSongs(BuildSearch(filter)))).
		WithArgs("rosa:*", "%rosa%", pq.Array([]string{"Samba"})).
		WillReturnRows(sqlmock.NewRows(songRowColumns).
			AddRow("7", "Cartola", "As Rosas Não Falam", nil, "Samba", true))

	songs, err := s.Search(context.Background(), filter)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(songs) != 1 || songs[0].Code != "7" {
		t.Fatalf("unexpected songs: %+v", songs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchNoMatchesReturnsEmptySlice(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db, Limits{})
	filter := catalog.NewFilter("zzzz", nil)

	mock.ExpectQuery(regexp.QuoteMeta(selectSongs(BuildSearch(filter)))).
		WithArgs("zzzz:*", "%zzzz%").
		WillReturnRows(sqlmock.NewRows(songRowColumns))

	songs, err := s.Search(context.Background(), filter)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if songs == nil || len(songs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", songs)
	}
}

func TestSearchFailureWrapsQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db, Limits{})
	dbErr := errors.New("connection refused")

	mock.ExpectQuery(regexp.QuoteMeta(selectSongs(BuildSearch(catalog.Filter{})))).
		WillReturnError(dbErr)

	_, err = s.ListActive(context.Background())
	if !errors.Is(err, catalog.ErrQueryFailure) {
		t.Fatalf("expected ErrQueryFailure, got %v", err)
	}
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected cause to be kept, got %v", err)
	}
}

func TestScanFailureWrapsQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db, Limits{})

	mock.ExpectQuery(regexp.QuoteMeta(selectSongs(BuildSearch(catalog.Filter{})))).
		WillReturnRows(sqlmock.NewRows(songRowColumns).
			AddRow("1", "A", "B", nil, nil, true).
			RowError(0, errors.New("broken row")))

	if _, err := s.ListActive(context.Background()); !errors.Is(err, catalog.ErrQueryFailure) {
		t.Fatalf("expected ErrQueryFailure, got %v", err)
	}
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db, Limits{})
	mock.ExpectPing().WillReturnError(errors.New("down"))

	if err := s.Ping(context.Background()); !errors.Is(err, catalog.ErrQueryFailure) {
		t.Fatalf("expected ErrQueryFailure, got %v", err)
	}
}
