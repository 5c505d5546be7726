package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"songfinder/internal/catalog"
)

func song(code, interpreter, title, genre string) catalog.Song {
	s := catalog.Song{Code: code, Interpreter: interpreter, Title: title, Active: true}
	if genre != "" {
		s.Genre = &genre
	}
	return s
}

func codes(songs []catalog.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.Code
	}
	return out
}

func TestForSameInterpreterBeforeSameGenre(t *testing.T) {
	corpus := []catalog.Song{
		song("1", "A", "X", "Pop"),
		song("2", "A", "Y", "Rock"),
		song("3", "B", "Z", "Pop"),
	}

	got := For(corpus[0], corpus)

	require.Equal(t, []string{"2", "3"}, codes(got))
}

func TestForCapsAndDeduplicates(t *testing.T) {
	corpus := []catalog.Song{
		song("1", "A", "focal", "Pop"),
		song("2", "A", "a2", "Pop"),
		song("3", "A", "a3", "Pop"),
		song("4", "A", "a4", "Pop"),
		song("5", "A", "a5", "Pop"),
		song("6", "B", "b6", "Pop"),
		song("7", "C", "c7", "Pop"),
		song("8", "D", "d8", "Pop"),
	}

	got := For(corpus[0], corpus)

	// 5 shares the performer and overflowed the first bucket; it does not
	// spill into the genre picks.
	require.Equal(t, []string{"2", "3", "4", "6", "7"}, codes(got))
}

func TestForOnlyInterpreterMatches(t *testing.T) {
	corpus := []catalog.Song{
		song("1", "X", "t1", "Jazz"),
		song("2", "X", "t2", "Jazz"),
		song("3", "X", "t3", ""),
		song("4", "X", "t4", "Jazz"),
		song("5", "X", "t5", "Jazz"),
		song("6", "Y", "t6", "Rock"),
	}

	got := For(corpus[0], corpus)

	require.LessOrEqual(t, len(got), 3)
	for _, s := range got {
		require.Equal(t, "X", s.Interpreter)
	}
}

func TestForSkipsInactiveAndFocal(t *testing.T) {
	inactive := song("2", "A", "hidden", "Pop")
	inactive.Active = false
	corpus := []catalog.Song{
		song("1", "A", "focal", "Pop"),
		inactive,
		song("3", "B", "shown", "Pop"),
	}

	got := For(corpus[0], corpus)

	require.Equal(t, []string{"3"}, codes(got))
}

func TestForWithoutSimilarityKey(t *testing.T) {
	focal := catalog.Song{Code: "1", Active: true}
	corpus := []catalog.Song{focal, {Code: "2", Active: true}}

	require.Empty(t, For(focal, corpus))
}

func TestForMissingGenreNeverMatchesMissingGenre(t *testing.T) {
	corpus := []catalog.Song{
		song("1", "A", "focal", ""),
		song("2", "B", "other", ""),
	}

	require.Empty(t, For(corpus[0], corpus))
}
