package httpapi

import (
	"net/http"
	"strings"

	"songfinder/internal/catalog"
	"songfinder/internal/validation"
)

const (
	msgListFailed   = "Erro ao buscar músicas"
	msgSearchFailed = "Erro na busca"
)

// searchRow is the wire shape of a search result.
type searchRow struct {
	Code        string  `json:"CODIGO"`
	Interpreter string  `json:"CANTOR"`
	Title       string  `json:"song_title"`
	LyricStart  *string `json:"lyric_start"`
	Genre       *string `json:"GENERO"`
}

// songRow is the wire shape of a catalog listing row.
type songRow struct {
	searchRow
	Active string `json:"ATIVO"`
}

type searchParams struct {
	Term   string   `query:"q" validate:"max=200"`
	Genres []string `query:"genres" validate:"max=50,dive,max=100"`
}

func toSearchRow(s catalog.Song) searchRow {
	return searchRow{
		Code:        s.Code,
		Interpreter: s.Interpreter,
		Title:       s.Title,
		LyricStart:  s.LyricStart,
		Genre:       s.Genre,
	}
}

func activeFlag(active bool) string {
	if active {
		return "S"
	}
	return "N"
}

// handleSongs lists every active song.
func (s *Server) handleSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.songs.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, msgListFailed, err)
		return
	}

	rows := make([]songRow, len(songs))
	for i, song := range songs {
		rows[i] = songRow{searchRow: toSearchRow(song), Active: activeFlag(song.Active)}
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleSearch filters active songs by free text and a comma-separated genre list.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := searchParams{
		Term:   query.Get("q"),
		Genres: splitGenres(query.Get("genres")),
	}
	if err := validation.Struct(&params); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	songs, err := s.songs.Search(r.Context(), params.Term, params.Genres)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, msgSearchFailed, err)
		return
	}

	rows := make([]searchRow, len(songs))
	for i, song := range songs {
		rows[i] = toSearchRow(song)
	}
	writeJSON(w, http.StatusOK, rows)
}

func splitGenres(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var genres []string
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}
