package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"songfinder/internal/catalog"
	"songfinder/internal/session"
)

const (
	favoriteMark = "♥"
	emptyCell    = "-"
)

// renderer writes session views as plain tables. Styles apply to whole
// lines only so tabwriter alignment is not thrown off by escape codes.
type renderer struct {
	w       io.Writer
	heading lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
	notice  lipgloss.Style
}

func newRenderer(w io.Writer) renderer {
	lg := lipgloss.NewRenderer(w)
	return renderer{
		w:       w,
		heading: lg.NewStyle().Bold(true),
		muted:   lg.NewStyle().Faint(true),
		warning: lg.NewStyle().Foreground(lipgloss.Color("9")),
		notice:  lg.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

func (r renderer) view(v session.View) {
	r.messages(v)

	if v.NoResults {
		fmt.Fprintln(r.w, r.muted.Render("Nenhuma música encontrada"))
	} else if !v.Page.Empty() {
		r.songs(v.Page.Items)
	}
	if !v.Page.Empty() || v.NoResults {
		fmt.Fprintln(r.w, r.muted.Render(fmt.Sprintf("Página %d de %d (%d músicas)", v.Page.Index, v.Page.TotalPages, v.Page.Total)))
	}

	if len(v.Recommendations) > 0 {
		r.recommendations(v.Recommendations)
	}
	if len(v.Suggestions) > 0 {
		r.suggestions(v.Suggestions)
	}
}

func (r renderer) messages(v session.View) {
	for _, msg := range []string{v.Message, v.Warning} {
		if msg != "" {
			fmt.Fprintln(r.w, r.warning.Render(msg))
		}
	}
	if v.Notice != "" {
		fmt.Fprintln(r.w, r.notice.Render(v.Notice))
	}
}

func (r renderer) songs(rows []session.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(r.w, r.muted.Render("Nenhuma música encontrada"))
		return
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tCÓDIGO\tCANTOR\tMÚSICA\tLETRA\tGÊNERO")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			mark(row.Favorite), row.Code, cell(row.Interpreter), cell(row.Title),
			cell(row.LyricValue()), cell(row.GenreValue()))
	}
	_ = tw.Flush()
}

func (r renderer) recommendations(rows []session.Row) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.heading.Render("Você também pode gostar:"))
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tCÓDIGO\tCANTOR\tMÚSICA\tGÊNERO")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			mark(row.Favorite), row.Code, cell(row.Interpreter), cell(row.Title), cell(row.GenreValue()))
	}
	_ = tw.Flush()
}

func (r renderer) suggestions(rows []session.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(r.w, r.muted.Render("Nenhuma sugestão"))
		return
	}
	fmt.Fprintln(r.w, r.heading.Render("Sugestões:"))
	for i, row := range rows {
		fmt.Fprintf(r.w, "%2d. %s - %s\n", i+1, row.Interpreter, row.Title)
	}
}

func (r renderer) genres(genres []string, filter catalog.Filter) {
	all := " "
	if len(filter.Genres) == 0 {
		all = "x"
	}
	fmt.Fprintf(r.w, "[%s] Todos os gêneros\n", all)
	for _, g := range genres {
		box := " "
		if filter.HasGenre(g) {
			box = "x"
		}
		fmt.Fprintf(r.w, "[%s] %s\n", box, g)
	}
}

func mark(favorite bool) string {
	if favorite {
		return favoriteMark
	}
	return " "
}

func cell(s string) string {
	if strings.TrimSpace(s) == "" {
		return emptyCell
	}
	return s
}
