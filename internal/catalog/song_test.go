package catalog

import (
	"testing"
)

func TestNewFilterNormalizesGenres(t *testing.T) {
	tests := []struct {
		name   string
		genres []string
		want   []string
	}{
		{name: "nil stays nil", genres: nil, want: nil},
		{name: "blank entries dropped", genres: []string{" ", ""}, want: nil},
		{name: "trimmed sorted unique", genres: []string{" Rock", "Pop", "Rock "}, want: []string{"Pop", "Rock"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := NewFilter("  term ", tc.genres)
			if got.Term != "term" {
				t.Fatalf("expected trimmed term, got %q", got.Term)
			}
			if len(got.Genres) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got.Genres)
			}
			for i := range tc.want {
				if got.Genres[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got.Genres)
				}
			}
		})
	}
}

func TestFilterEqual(t *testing.T) {
	a := NewFilter("x", []string{"Rock", "Pop"})
	b := NewFilter("x ", []string{"Pop", "Rock", "Pop"})
	if !a.Equal(b) {
		t.Fatalf("expected %#v to equal %#v", a, b)
	}
	if a.Equal(NewFilter("x", []string{"Pop"})) {
		t.Fatalf("filters with different genres must not be equal")
	}
	if !NewFilter("", nil).IsZero() {
		t.Fatalf("empty filter should be zero")
	}
}

func TestFilterWithGenreToggled(t *testing.T) {
	f := NewFilter("", nil)

	f = f.WithGenreToggled("Pop")
	if !f.HasGenre("Pop") {
		t.Fatalf("expected Pop selected, got %v", f.Genres)
	}

	f = f.WithGenreToggled("Rock")
	if len(f.Genres) != 2 {
		t.Fatalf("expected two genres, got %v", f.Genres)
	}

	f = f.WithGenreToggled("Pop").WithGenreToggled("Rock")
	if len(f.Genres) != 0 || !f.IsZero() {
		t.Fatalf("removing the last genre should select all genres, got %v", f.Genres)
	}

	if got := f.WithGenreToggled("  "); !got.Equal(f) {
		t.Fatalf("blank genre toggle should be a no-op")
	}
}

func TestSongValues(t *testing.T) {
	genre := "Pop"
	s := Song{Genre: &genre}
	if s.GenreValue() != "Pop" || s.LyricValue() != "" {
		t.Fatalf("unexpected values: %q %q", s.GenreValue(), s.LyricValue())
	}
}
