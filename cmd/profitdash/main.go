package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"profitdash/internal/catalog"
	"profitdash/internal/config"
	"profitdash/internal/dataset"
	"profitdash/internal/notify"
	"profitdash/internal/profit"
	"profitdash/internal/report"
	"profitdash/internal/storage"
	"profitdash/pkg/api"
	"profitdash/pkg/logger"
	"profitdash/pkg/redis"
)

// ENTRY POINT

type options struct {
	envFile   string
	input     string
	line      string
	adSpend   float64
	fx        float64
	debug     bool
	layout    string
	header    bool
	xlsx      bool
	reconcile bool
	migrate   bool
	list      bool
}

func parseFlags(args []string) (options, map[string]bool, error) {
	var o options
	fs := flag.NewFlagSet("profitdash", flag.ContinueOnError)
	fs.StringVar(&o.envFile, "env", ".env", "dotenv file to load")
	fs.StringVar(&o.input, "input", "", "order export (.csv, .tsv or .xlsx)")
	fs.StringVar(&o.line, "line", "", "product line")
	fs.Float64Var(&o.adSpend, "ad-spend", 0, "ad spend in cost currency")
	fs.Float64Var(&o.fx, "fx", 0, "store to cost currency rate (0 = product line default)")
	fs.BoolVar(&o.debug, "debug", false, "log per-order cost breakdowns")
	fs.StringVar(&o.layout, "layout", "", "print a TSV row in this layout (summary or pnl)")
	fs.BoolVar(&o.header, "header", false, "include the header line with -layout")
	fs.BoolVar(&o.xlsx, "xlsx", false, "write an XLSX workbook to the export directory")
	fs.BoolVar(&o.reconcile, "reconcile", false, "print the per-order reconciliation table")
	fs.BoolVar(&o.migrate, "migrate", false, "migrate and seed the catalog database, then exit")
	fs.BoolVar(&o.list, "list", false, "list known product lines, then exit")
	if err := fs.Parse(args); err != nil {
		return o, nil, usageError{err}
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return o, set, nil
}

// apply lets explicit flags override the environment.
func (o options) apply(cfg *config.Config, set map[string]bool) {
	if set["input"] {
		cfg.InputPath = o.input
	}
	if set["line"] {
		cfg.ProductLine = o.line
	}
	if set["ad-spend"] {
		cfg.AdSpend = o.adSpend
	}
	if set["fx"] {
		cfg.FXRate = o.fx
	}
	if set["debug"] {
		cfg.Debug = o.debug
	}
	if set["layout"] {
		cfg.ExportLayout = o.layout
	}
}

// usageError marks bad command-line input.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, set, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	opts.apply(cfg, set)

	zapLogger, err := logger.New(logger.Config{
		Level: cfg.Log.Level,
		Debug: cfg.Debug,
		File:  cfg.Log.File,
	})
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	runID := uuid.NewString()[:8]
	zapLogger = zapLogger.With(zap.String("run_id", runID))

	var store *storage.CatalogStore
	if cfg.Database.Enabled() {
		store, err = openStore(ctx, cfg, zapLogger)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	if opts.migrate {
		return migrate(ctx, cfg, store, zapLogger)
	}

	source, err := catalogChain(cfg, store, zapLogger)
	if err != nil {
		return err
	}

	if opts.list {
		return listLines(ctx, stdout, store)
	}

	if cfg.InputPath == "" {
		return errors.New("no input file: pass -input or set INPUT_PATH")
	}

	line, err := source.Get(ctx, cfg.ProductLine)
	if err != nil {
		return fmt.Errorf("product line %q: %w", cfg.ProductLine, err)
	}

	engine, err := profit.NewEngine(line, zapLogger)
	if err != nil {
		return err
	}

	table, err := dataset.Load(cfg.InputPath)
	if err != nil {
		return err
	}

	result, err := engine.Compute(table, cfg.Settings())
	if err != nil {
		return err
	}

	if cfg.ExportLayout != "" {
		layout, err := profit.Layout(cfg.ExportLayout)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, result.TSV(layout, opts.header))
	} else {
		fmt.Fprint(stdout, report.FormatSummary(result))
	}

	if opts.reconcile {
		fmt.Fprintln(stdout)
		if err := report.WriteReconciliation(stdout, result); err != nil {
			return err
		}
	}
	if cfg.Debug {
		if err := report.WriteDiagnostics(os.Stderr, result); err != nil {
			return err
		}
	}

	files, err := export(cfg, opts, result, runID, zapLogger)
	if err != nil {
		return err
	}

	if cfg.Telegram.Enabled() {
		deliver(ctx, cfg, result, files, zapLogger)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage.CatalogStore, error) {
	var cache storage.Cache
	if cfg.Redis.Addr != "" {
		rc := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
			rc.Close()
		} else {
			cache = rc
		}
	}

	store, err := storage.Open(ctx, storage.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, cache, logger)
	if err != nil {
		return nil, err
	}
	return store.WithCacheTTL(cfg.Redis.TTL), nil
}

func migrate(ctx context.Context, cfg *config.Config, store *storage.CatalogStore, logger *zap.Logger) error {
	if store == nil {
		return errors.New("migrate: DB_DSN is not set")
	}
	if err := storage.RunMigrations(ctx, store.DB().DB, cfg.Database.Driver, logger); err != nil {
		return err
	}

	builtin := catalog.Builtin()
	lines := make([]profit.ProductLine, 0, len(builtin))
	for _, name := range builtin.Names() {
		lines = append(lines, builtin[name])
	}
	added, err := store.Seed(ctx, lines...)
	if err != nil {
		return err
	}
	logger.Info("Catalog seeded", zap.Int("added", added))
	return nil
}

// catalogChain resolves product lines from the database, then a config
// directory, then the catalog service, then the built-in lines.
func catalogChain(cfg *config.Config, store *storage.CatalogStore, logger *zap.Logger) (catalog.Chain, error) {
	var chain catalog.Chain
	if store != nil {
		chain = append(chain, store)
	}
	if cfg.Catalog.Dir != "" {
		dir, err := catalog.LoadDir(cfg.Catalog.Dir)
		if err != nil {
			return nil, err
		}
		chain = append(chain, dir)
	}
	if cfg.Catalog.URL != "" {
		client := api.NewClient(cfg.Catalog.URL, cfg.Catalog.APIKey, cfg.HTTPRequestTimeout, logger)
		chain = append(chain, catalog.NewRemote(client))
	}
	return append(chain, catalog.Builtin()), nil
}

func listLines(ctx context.Context, w io.Writer, store *storage.CatalogStore) error {
	if store != nil {
		infos, err := store.List(ctx)
		if err != nil {
			return err
		}
		for _, i := range infos {
			fmt.Fprintf(w, "%s\t%s\trev %d\n", i.Name, i.Title, i.Revision)
		}
	}
	builtin := catalog.Builtin()
	for _, name := range builtin.Names() {
		fmt.Fprintf(w, "%s\t%s\tbuilt-in\n", name, builtin[name].Title)
	}
	return nil
}

func export(cfg *config.Config, opts options, r *profit.Report, runID string, logger *zap.Logger) ([]string, error) {
	if cfg.ExportDir == "" {
		if opts.xlsx {
			return nil, errors.New("-xlsx needs EXPORT_DIR")
		}
		return nil, nil
	}

	var files []string
	layout, err := profit.Layout(cfg.ExportLayout)
	if err != nil {
		return nil, err
	}
	path, err := report.WriteTSV(r, layout, cfg.ExportDir)
	if err != nil {
		return nil, err
	}
	files = append(files, path)

	if opts.xlsx {
		path, err := report.WriteWorkbook(r, report.WorkbookPath(cfg.ExportDir, r, runID))
		if err != nil {
			return nil, err
		}
		files = append(files, path)
	}

	for _, f := range files {
		logger.Info("Export written", zap.String("file", f))
	}
	return files, nil
}

// deliver is best effort: a failed notification never fails the run.
func deliver(ctx context.Context, cfg *config.Config, r *profit.Report, files []string, logger *zap.Logger) {
	tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
	if err != nil {
		logger.Error("Failed to create Telegram notifier", zap.Error(err))
		return
	}
	if err := tg.SendSummary(ctx, r); err != nil {
		return
	}
	for _, f := range files {
		_ = tg.SendFile(ctx, f, r.Line)
	}
}
