package store

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/lib/pq"

	"songfinder/internal/catalog"
	"songfinder/internal/sanitize"
)

const (
	songColumns = `code, interpreter, title, lyric_start, genre, active`
	songOrder   = `ORDER BY interpreter ASC, title ASC, code ASC`

	searchDocument = `to_tsvector('simple', interpreter || ' ' || title || ' ' || coalesce(lyric_start, ''))`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Predicate is a WHERE clause split into conditions and the values bound to
// their $n placeholders. Conditions are joined with AND.
type Predicate struct {
	Where []string
	Args  []any
}

// bind appends v and returns its placeholder.
func (p *Predicate) bind(v any) string {
	p.Args = append(p.Args, v)
	return "$" + strconv.Itoa(len(p.Args))
}

// SQL renders the clause, including the WHERE keyword.
func (p Predicate) SQL() string {
	if len(p.Where) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.Where, " AND ")
}

// BuildSearch turns a filter into a predicate over active songs.
func BuildSearch(f catalog.Filter) Predicate {
	p := Predicate{Where: []string{"active = TRUE"}}

	if term := strings.TrimSpace(f.Term); term != "" {
		var branches []string
		if q := tsQuery(term); q != "" {
			branches = append(branches, searchDocument+" @@ to_tsquery('simple', "+p.bind(q)+")")
		}
		like := p.bind(likePattern(term))
		branches = append(branches,
			"interpreter ILIKE "+like+` ESCAPE '\'`,
			"title ILIKE "+like+` ESCAPE '\'`,
		)
		p.Where = append(p.Where, "("+strings.Join(branches, " OR ")+")")
	}

	if genres := sanitize.Genres(f.Genres); len(genres) > 0 {
		p.Where = append(p.Where, "genre = ANY("+p.bind(pq.Array(genres))+")")
	}

	return p
}

// selectSongs renders the full catalog query for p.
func selectSongs(p Predicate) string {
	return "SELECT " + songColumns + " FROM songs " + p.SQL() + " " + songOrder
}

// tsQuery reduces term to letter/digit tokens, each a prefix match, all required.
func tsQuery(term string) string {
	words := strings.FieldsFunc(strings.ToLower(term), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}
	for i, w := range words {
		words[i] = w + ":*"
	}
	return strings.Join(words, " & ")
}

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
