package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"songfinder/internal/client"
	"songfinder/internal/favorites"
	"songfinder/internal/logging"
	"songfinder/internal/session"
	"songfinder/internal/snapshot"
)

const (
	defaultAPI  = "http://localhost:3000"
	dataRelPath = "songctl/songctl.db"

	envAPI     = "SONGCTL_API"
	envTimeout = "SONGCTL_TIMEOUT"
	envData    = "SONGCTL_DATA"
)

type options struct {
	api     string
	timeout time.Duration
	data    string
	verbose bool
}

// app is the state shared by every subcommand for one invocation.
type app struct {
	opts    options
	storage *favorites.BoltStorage
	ledger  *favorites.Ledger
	cache   *snapshot.Cache
	session *session.Session
	out     renderer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "songctl",
		Short:         "Search the song catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.opts.api, "api", defaultAPI, "catalog API base URL (env "+envAPI+")")
	flags.DurationVar(&a.opts.timeout, "timeout", client.DefaultTimeout, "request timeout (env "+envTimeout+")")
	flags.StringVar(&a.opts.data, "data", "", "state file, defaults to the XDG data dir (env "+envData+")")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(
		cmdSearch(a),
		cmdSuggest(a),
		cmdRecommend(a),
		cmdFavorites(a),
		cmdFavorite(a),
		cmdGenres(a),
		cmdShell(a),
	)
	return cmd
}

// resolve fills options left at their defaults from the environment.
func (o *options) resolve(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if !flags.Changed("api") {
		if v := os.Getenv(envAPI); v != "" {
			o.api = v
		}
	}
	if !flags.Changed("timeout") {
		if v := os.Getenv(envTimeout); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", envTimeout, err)
			}
			o.timeout = d
		}
	}
	if !flags.Changed("data") {
		o.data = os.Getenv(envData)
	}
	if o.data == "" {
		path, err := xdg.DataFile(dataRelPath)
		if err != nil {
			return fmt.Errorf("resolve data path: %w", err)
		}
		o.data = path
	}
	if o.timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.timeout)
	}
	return nil
}

// run wraps a subcommand so it runs with the app opened and always closes
// the state file afterwards.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err := a.open(cmd); err != nil {
			return err
		}
		defer func() {
			if cerr := a.close(); err == nil {
				err = cerr
			}
		}()
		return fn(cmd, args)
	}
}

func (a *app) open(cmd *cobra.Command) error {
	level := "warn"
	if a.opts.verbose {
		level = "debug"
	}
	logging.SetGlobalLogger(logging.New(logging.Config{
		Component: "songctl",
		Level:     level,
		Format:    "text",
		Output:    cmd.ErrOrStderr(),
	}))

	if err := a.opts.resolve(cmd); err != nil {
		return err
	}

	storage, err := favorites.OpenBolt(a.opts.data)
	if err != nil {
		return err
	}
	a.storage = storage

	a.ledger = favorites.NewLedger(storage)
	if err := a.ledger.Load(); err != nil {
		log.Warn().Err(err).Str("path", a.opts.data).Msg("Starting with no favorites")
	}

	api := client.New(a.opts.api, &http.Client{Timeout: a.opts.timeout})
	a.cache = snapshot.New()
	a.session = session.New(api, a.cache, a.ledger)
	a.out = newRenderer(cmd.OutOrStdout())

	log.Debug().Str("api", a.opts.api).Str("data", a.opts.data).Dur("timeout", a.opts.timeout).Msg("songctl ready")
	return nil
}

func (a *app) close() error {
	if a.storage == nil {
		return nil
	}
	err := a.storage.Close()
	a.storage = nil
	return err
}
