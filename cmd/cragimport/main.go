// Command cragimport loads crag YAML files into the catalog database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/jessevdk/go-flags"

	"github.com/bekirdag/cragbook/internal/catalog"
	"github.com/bekirdag/cragbook/internal/config"
	"github.com/bekirdag/cragbook/internal/logger"
)

type options struct {
	Config   string `short:"c" long:"config" description:"Configuration file" value-name:"PATH"`
	Database string `long:"db" description:"Catalog database; defaults to the configured one" value-name:"PATH"`
	Workers  int    `short:"j" long:"jobs" description:"Files parsed in parallel"`
	List     bool   `short:"l" long:"list" description:"List the crags in the catalog after importing"`
	Verbose  bool   `short:"v" long:"verbose" description:"Debug logging"`
	Args     struct {
		Files []string `positional-arg-name:"FILE"`
	} `positional-args:"yes"`
}

func main() {
	opts := &options{}
	parser := flags.NewParser(opts, flags.Default)
	parser.Name = "cragimport"
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if opts.Verbose {
		logger.Level.SetByName("debug")
	}
	log := logger.New(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, log); err != nil {
		exitWithError(err)
	}
}

func run(ctx context.Context, opts *options, log *slog.Logger) error {
	cfg, _ := config.Load(opts.Config)
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	store, err := catalog.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	n, err := importFiles(ctx, store, opts.Args.Files, workers, log)
	if err != nil {
		return err
	}
	log.Info("import finished", slog.Int("crags", n), slog.String("db", store.Path()))

	if opts.List {
		crags, err := store.Crags(ctx)
		if err != nil {
			return err
		}
		for _, c := range crags {
			fmt.Printf("%s\t%s\n", c.Slug, c.Name)
		}
	}
	return nil
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "cragimport: %v\n", err)
	os.Exit(1)
}
