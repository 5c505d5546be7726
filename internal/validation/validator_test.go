package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type searchParams struct {
	Term   string   `query:"q" validate:"max=5"`
	Genres []string `query:"genres" validate:"max=2,dive,max=3"`
}

func TestStructPasses(t *testing.T) {
	require.NoError(t, Struct(&searchParams{Term: "ação", Genres: []string{"MPB"}}))
}

func TestStructCountsRunes(t *testing.T) {
	require.NoError(t, Struct(&searchParams{Term: strings.Repeat("ã", 5)}))
	require.Error(t, Struct(&searchParams{Term: strings.Repeat("ã", 6)}))
}

func TestStructReportsQueryNames(t *testing.T) {
	err := Struct(&searchParams{Term: "too long", Genres: []string{"a", "b", "c"}})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 2)
	require.Equal(t, "q", verr.Fields[0].Field)
	require.Equal(t, "q must be at most 5 characters", verr.Fields[0].Message)
	require.Equal(t, "genres must have at most 2 entries", verr.Fields[1].Message)
	require.Equal(t, "q must be at most 5 characters; genres must have at most 2 entries", err.Error())
}

func TestStructValidatesEachGenre(t *testing.T) {
	err := Struct(&searchParams{Genres: []string{"Rock", "Samba"}})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "genres[0]", verr.Fields[0].Field)
}
