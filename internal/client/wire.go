package client

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"songfinder/internal/catalog"
	"songfinder/internal/sanitize"
)

// code accepts CODIGO as a JSON string or number.
type code string

func (c *code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = code(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("CODIGO: %w", err)
		}
		*c = code(n.String())
	}
	return nil
}

type wireSong struct {
	Code        code    `json:"CODIGO"`
	Interpreter string  `json:"CANTOR"`
	Title       string  `json:"song_title"`
	LyricStart  *string `json:"lyric_start"`
	Genre       *string `json:"GENERO"`
	Active      *string `json:"ATIVO"`
}

// song converts the row, neutralizing markup in every text field. Rows
// without ATIVO come from search, which only returns active songs.
func (w wireSong) song() catalog.Song {
	return catalog.Song{
		Code:        sanitize.HTML(string(w.Code)),
		Interpreter: sanitize.HTML(w.Interpreter),
		Title:       sanitize.HTML(w.Title),
		LyricStart:  sanitize.OptionalHTML(w.LyricStart),
		Genre:       sanitize.OptionalHTML(w.Genre),
		Active:      w.Active == nil || !strings.EqualFold(strings.TrimSpace(*w.Active), "N"),
	}
}
