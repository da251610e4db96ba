package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"

	"github.com/bekirdag/cragbook/internal/ascents"
	"github.com/bekirdag/cragbook/internal/auth"
	"github.com/bekirdag/cragbook/internal/catalog"
	"github.com/bekirdag/cragbook/internal/columns"
	"github.com/bekirdag/cragbook/internal/config"
	"github.com/bekirdag/cragbook/internal/graphql"
	"github.com/bekirdag/cragbook/internal/logger"
	"github.com/bekirdag/cragbook/internal/queryparam"
	"github.com/bekirdag/cragbook/internal/viewstate"
)

type options struct {
	Config   string   `short:"c" long:"config" description:"Configuration file" value-name:"PATH"`
	Database string   `long:"db" description:"Catalog database" value-name:"PATH"`
	Crag     string   `short:"k" long:"crag" description:"Crag slug to open"`
	URL      string   `short:"u" long:"url" description:"Location to restore, e.g. /plezalisce/osp?s=0&s=2&combine=true"`
	User     string   `long:"user" description:"Climber login in the local catalog"`
	Remote   bool     `long:"remote" description:"Load ascents from the GraphQL endpoint"`
	Token    string   `long:"token" env:"CRAGBOOK_TOKEN" description:"GraphQL bearer token"`
	Theme    string   `long:"theme" choice:"auto" choice:"dark" choice:"light" description:"Markdown theme"`
	Import   []string `short:"i" long:"import" description:"Crag YAML file to import before starting" value-name:"FILE"`
	Plain    bool     `long:"plain" description:"Print the route list instead of starting the UI"`
	Search   string   `short:"s" long:"search" description:"Search query for --plain; prefix with = for an expression"`
	Sort     string   `long:"sort" description:"Sort for --plain, e.g. difficulty or name:desc"`
	Columns  []string `long:"column" description:"Column to show; repeat for more"`
	Expand   bool     `long:"expand" description:"Expand every sector for --plain"`
	LogLevel string   `long:"log-level" choice:"err" choice:"warn" choice:"info" choice:"debug" description:"Log level"`
}

func parseOptions(args []string) (*options, error) {
	opts := &options{}
	parser := flags.NewParser(opts, flags.Default)
	parser.Name = "cragbook"
	parser.Usage = "[OPTIONS]"
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, "cragbook:", err)
		os.Exit(1)
	}
}

func applyOptions(cfg *config.Config, opts *options) {
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if opts.User != "" {
		cfg.Login = opts.User
	}
	if opts.Remote {
		cfg.GraphQL.Enabled = true
	}
	if opts.Token != "" {
		cfg.GraphQL.Token = opts.Token
	}
	if opts.Theme != "" {
		cfg.Theme = opts.Theme
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if len(opts.Columns) > 0 {
		cfg.Columns = opts.Columns
	}
}

func run(ctx context.Context, opts *options) error {
	cfg, cfgPath := config.Load(opts.Config)
	applyOptions(cfg, opts)
	logger.Level.SetByName(cfg.Log.Level)

	plain := opts.Plain || !isatty.IsTerminal(os.Stdout.Fd())
	log, closeLog := openLog(cfg, plain)
	defer closeLog()

	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
		return err
	}
	store, err := catalog.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	seeds := append(append([]string{}, cfg.Seeds...), opts.Import...)
	for _, path := range seeds {
		seed, err := catalog.LoadSeedFile(path)
		if err != nil {
			return err
		}
		id, err := store.Import(ctx, seed)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		log.Info("crag imported", slog.String("file", path), slog.String("crag", id))
	}

	var router *queryparam.MemoryRouter
	slug := opts.Crag
	if opts.URL != "" {
		location := opts.URL
		if strings.HasPrefix(location, "/") {
			location = shareBase + location
		}
		router, err = queryparam.ParseLocation(location)
		if err != nil {
			return fmt.Errorf("parse --url: %w", err)
		}
		if slug == "" {
			slug = cragSlugFromPath(router.Path())
		}
	}
	if slug == "" {
		crags, err := store.Crags(ctx)
		if err != nil {
			return err
		}
		if len(crags) == 0 {
			return errors.New("the catalog has no crags; import one with --import")
		}
		slug = crags[0].Slug
	}
	crag, err := store.Crag(ctx, slug)
	if err != nil {
		return fmt.Errorf("crag %q: %w", slug, err)
	}
	if router != nil && cragSlugFromPath(router.Path()) != slug {
		router.Navigate(cragPath(slug))
	}

	resolver, source, ascentLog := sources(ctx, cfg, store, log)

	reg := columns.Default()
	sess := newSession(sessionConfig{
		Registry: reg,
		Router:   router,
		Source:   source,
		Crag:     crag,
		Columns:  cfg.Columns,
		CellPx:   cfg.CellPixels,
		Log:      log,
		OnColumns: func(cols []string) {
			cfg.Columns = cols
			if err := config.Save(cfg, cfgPath); err != nil {
				log.Warn("saving column selection failed", slog.Any("error", err))
			}
		},
	})

	if plain {
		defer sess.close()
		return runPlain(ctx, sess, resolver, opts, os.Stdout)
	}

	watcher, err := watchCatalog(store.Path(), catalogDebounce, log)
	if err != nil {
		log.Warn("catalog changes will not be picked up", slog.Any("error", err))
		watcher = nil
	}
	m := newModel(ctx, modelConfig{
		Session:  sess,
		Resolver: resolver,
		Crags:    store,
		Ascents:  ascentLog,
		Watcher:  watcher,
		Theme:    cfg.Theme,
		Log:      log,
	})
	defer m.shutdown()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// openLog logs to stderr for plain output and to the log file while the UI
// owns the terminal.
func openLog(cfg *config.Config, plain bool) (*slog.Logger, func()) {
	if plain {
		return logger.New(os.Stderr), func() {}
	}
	log, closer, err := logger.OpenFile(cfg.Log.File)
	if err != nil {
		return logger.Discard(), func() {}
	}
	return log, func() { _ = closer.Close() }
}

// sources picks where sign-in and ascents come from. The GraphQL endpoint
// serves both when enabled; otherwise the configured login is looked up in
// the local catalog, which then also records new ascents.
func sources(ctx context.Context, cfg *config.Config, store *catalog.Store, log *slog.Logger) (auth.Resolver, ascents.Source, ascentLogger) {
	if cfg.GraphQL.Enabled {
		client := graphql.New(graphql.Config{
			Endpoint: cfg.GraphQL.Endpoint,
			Token:    cfg.GraphQL.Token,
		})
		return client, client, nil
	}
	st, err := catalog.LoginResolver{Store: store, Login: cfg.Login}.Status(ctx)
	if err != nil {
		log.Warn("unknown climber login", slog.String("login", cfg.Login), slog.Any("error", err))
		return auth.Static(auth.LoggedOut()), nil, nil
	}
	if !st.LoggedIn {
		return auth.Static(st), nil, nil
	}
	return auth.Static(st), store.Summary(st.User.ID), store
}

func runPlain(ctx context.Context, sess *session, resolver auth.Resolver, opts *options, w io.Writer) error {
	st, err := resolver.Status(ctx)
	if err != nil {
		sess.log.Warn("resolving sign-in failed", slog.Any("error", err))
	}
	sess.authenticate(st)
	// The printed list has no width limit.
	sess.monitor.Observe(sess.reg.WidthOf(sess.state().SelectedColumns) + 1)

	sort, err := parseSortFlag(opts.Sort, sess.reg)
	if err != nil {
		return err
	}
	var intents []viewstate.Intent
	if sort != nil {
		intents = append(intents, viewstate.SetSort{Sort: sort})
	}
	if q := strings.TrimSpace(opts.Search); q != "" {
		intents = append(intents, viewstate.SetSearch{Search: &viewstate.SearchOptions{Query: q}})
	}
	sess.store.Dispatch(intents...)
	if opts.Expand {
		if err := sess.expandAll(); err != nil {
			return err
		}
	}
	if _, err := sess.loader.Load(ctx); err != nil {
		sess.log.Warn("ascents unavailable", slog.Any("error", err))
	}
	return renderPlain(w, sess.view(), sess.cellPx)
}
