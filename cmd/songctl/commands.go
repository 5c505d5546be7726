package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"songfinder/internal/catalog"
	"songfinder/internal/recommend"
	"songfinder/internal/session"
)

func cmdSearch(a *app) *cobra.Command {
	var (
		genres []string
		page   int
	)
	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search active songs by performer, title or lyric start",
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			v := a.session.Start(ctx)

			filter := catalog.NewFilter(strings.Join(args, " "), genres)
			if !filter.IsZero() {
				var err error
				v, err = a.session.SetFilter(ctx, filter)
				if err != nil {
					return failed(v, err)
				}
			} else if !v.Loaded {
				return failed(v, errors.New("catalog load failed"))
			}
			if page > 1 {
				v = a.session.OnPage(page - 1)
			}
			a.out.view(v)
			return nil
		}),
	}
	cmd.Flags().StringSliceVarP(&genres, "genre", "g", nil, "restrict to genre (repeatable)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to show")
	return cmd
}

func cmdSuggest(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Suggest songs whose performer or title contains prefix",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			v := a.session.Start(cmd.Context())
			if !v.Loaded {
				return failed(v, errors.New("catalog load failed"))
			}
			v = a.session.OnSuggest(strings.Join(args, " "))
			a.out.suggestions(v.Suggestions)
			return nil
		}),
	}
}

func cmdRecommend(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <code>",
		Short: "Recommend songs similar to the given one",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			v := a.session.Start(cmd.Context())
			if !v.Loaded {
				return failed(v, errors.New("catalog load failed"))
			}
			focal, ok := a.cache.Find(args[0])
			if !ok {
				return fmt.Errorf("song %s not found", args[0])
			}
			a.out.recommendations(a.rows(recommend.For(focal, a.cache.Songs())))
			return nil
		}),
	}
}

func cmdFavorites(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List favorite songs",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			a.session.Start(cmd.Context())
			a.out.songs(a.favoriteRows())
			return nil
		}),
	}
}

func cmdFavorite(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <code>",
		Short: "Add a song to favorites or remove it",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			a.session.Start(cmd.Context())
			v := a.session.OnToggleFavorite(args[0])
			a.out.messages(a.favoriteNotice(v, args[0]))
			return nil
		}),
	}
}

func cmdGenres(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the genres of active songs",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			v := a.session.Start(cmd.Context())
			if !v.Loaded {
				return failed(v, errors.New("catalog load failed"))
			}
			a.out.genres(v.Genres, v.Filter)
			return nil
		}),
	}
}

// failed reports the user-facing message of v, keeping err for errors.Is.
func failed(v session.View, err error) error {
	if v.Message == "" {
		return err
	}
	return fmt.Errorf("%s: %w", v.Message, err)
}

func (a *app) rows(songs []catalog.Song) []session.Row {
	rows := make([]session.Row, len(songs))
	for i, song := range songs {
		rows[i] = session.Row{Song: song, Favorite: a.ledger.IsFavorite(song.Code)}
	}
	return rows
}

// favoriteRows resolves favorite codes against the snapshot. Codes no
// longer in the catalog are listed by code only.
func (a *app) favoriteRows() []session.Row {
	codes := a.ledger.Codes()
	rows := make([]session.Row, 0, len(codes))
	for _, code := range codes {
		song, ok := a.cache.Find(code)
		if !ok {
			song = catalog.Song{Code: code}
		}
		rows = append(rows, session.Row{Song: song, Favorite: true})
	}
	return rows
}

// favoriteNotice fills in a notice for codes the snapshot does not know.
func (a *app) favoriteNotice(v session.View, code string) session.View {
	if v.Notice != "" || code == "" {
		return v
	}
	if a.ledger.IsFavorite(code) {
		v.Notice = code + " adicionada aos favoritos"
	} else {
		v.Notice = code + " removida dos favoritos"
	}
	return v
}
