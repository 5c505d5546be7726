package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"songfinder/internal/session"
)

const shellHelp = `Comandos:
  search [termo]     busca por cantor, música ou início da letra (vazio limpa)
  genre [nome]       alterna um gênero (sem nome: todos os gêneros)
  genres             lista os gêneros
  next | prev        navega entre as páginas
  fav <código>       adiciona ou remove dos favoritos
  favs               lista os favoritos
  suggest <texto>    sugestões por cantor ou música
  pick <n|código>    busca a sugestão escolhida
  reload             recarrega o catálogo
  quit               sai`

func cmdShell(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Browse the catalog interactively",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			sh := &shell{app: a, prompt: cmd.OutOrStdout()}
			return sh.loop(cmd.Context(), cmd.InOrStdin())
		}),
	}
}

type shell struct {
	app         *app
	prompt      io.Writer
	suggestions []session.Row
}

func (sh *shell) loop(ctx context.Context, in io.Reader) error {
	sh.show(sh.app.session.Start(ctx))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.prompt, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.prompt)
			return scanner.Err()
		}
		if quit := sh.exec(ctx, scanner.Text()); quit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// exec runs one shell line and reports whether the shell should exit.
func (sh *shell) exec(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	s := sh.app.session

	switch name {
	case "":
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(sh.app.out.w, shellHelp)
	case "search", "s":
		sh.show(s.OnSearch(ctx, arg))
	case "genre", "g":
		if arg == "" {
			sh.show(s.OnClearGenres(ctx))
		} else {
			sh.show(s.OnToggleGenre(ctx, arg))
		}
	case "genres":
		v := s.View()
		sh.app.out.genres(v.Genres, v.Filter)
	case "next", "n":
		sh.show(s.OnPage(1))
	case "prev", "p":
		sh.show(s.OnPage(-1))
	case "fav", "f":
		v := s.OnToggleFavorite(arg)
		sh.app.out.messages(sh.app.favoriteNotice(v, arg))
	case "favs":
		sh.app.out.songs(sh.app.favoriteRows())
	case "suggest":
		v := s.OnSuggest(arg)
		sh.suggestions = v.Suggestions
		sh.app.out.suggestions(v.Suggestions)
	case "pick":
		sh.show(s.OnPickSuggestion(ctx, sh.pickCode(arg)))
	case "reload":
		v, _ := s.Reload(ctx)
		sh.show(v)
	default:
		fmt.Fprintf(sh.app.out.w, "Comando desconhecido: %s (help para ajuda)\n", name)
	}
	return false
}

// pickCode resolves a 1-based index into the last suggestions; anything
// else is taken as a song code.
func (sh *shell) pickCode(arg string) string {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(sh.suggestions) {
		return sh.suggestions[n-1].Code
	}
	return arg
}

func (sh *shell) show(v session.View) {
	sh.app.out.view(v)
}
