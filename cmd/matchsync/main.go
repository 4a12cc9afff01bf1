package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"sports_crawler/internal/config"
	"sports_crawler/internal/extract"
	"sports_crawler/internal/fetch"
	"sports_crawler/internal/scheduler"
	"sports_crawler/internal/service"
	"sports_crawler/internal/source/robong"
	"sports_crawler/internal/source/vnexpress"
	"sports_crawler/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single sync cycle and exit")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	if err := postgres.RunMigrations(cfg.Database.URL()); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	conn := postgres.NewConnector(db, cfg.HTTP.MaxAttempts, cfg.HTTP.RetryDelay, logger)

	teamStore := postgres.NewTeamStore(conn)
	matchStore := postgres.NewMatchStore(conn)
	stateStore := postgres.NewCrawlStateStore(conn)

	fetcher := fetch.New(fetch.Config{
		UserAgent:    cfg.HTTP.UserAgent,
		Timeout:      cfg.HTTP.Timeout,
		MaxAttempts:  cfg.HTTP.MaxAttempts,
		RetryDelay:   cfg.HTTP.RetryDelay,
		RequestDelay: cfg.HTTP.RequestDelay,
	}, logger)

	classifier := extract.NewClassifier(cfg.Classifier)

	sources := buildSources(cfg, fetcher, classifier, logger)
	if len(sources) == 0 {
		logger.Error("no enabled match sources configured")
		os.Exit(1)
	}

	syncService := service.NewMatchSyncService(
		sources,
		teamStore,
		matchStore,
		stateStore,
		cfg.Matches,
		logger,
		cfg.Crawl.MatchesPerRun,
	)

	run := func(ctx context.Context) error {
		_, err := syncService.Sync(ctx)
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if *once {
		if err := run(ctx); err != nil && err != context.Canceled {
			os.Exit(1)
		}
		return
	}

	logger.Info("starting match syncer",
		"sources", len(sources),
		"interval", cfg.Crawl.Interval,
		"matches_per_run", cfg.Crawl.MatchesPerRun,
	)

	sched := scheduler.NewScheduler(run, cfg.Crawl.Interval, logger)
	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

// buildSources orders the structured feed ahead of the HTML heuristics so
// the batch-level pair dedupe keeps the candidate with the trusted kickoff.
func buildSources(cfg *config.Config, fetcher *fetch.Fetcher, classifier *extract.Classifier, logger *slog.Logger) []service.MatchSource {
	keys := make([]string, 0, len(cfg.Sources.Matches))
	for key := range cfg.Sources.Matches {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	nameFilter := extract.NewNameFilter(cfg.Matches)
	times := extract.NewTimeInferencer(cfg.Matches.DefaultKickoffHour)
	tournaments := extract.NewTournamentDetector(cfg.Matches.Tournaments, cfg.Matches.FallbackTournament)
	matchExtractor := extract.NewMatchExtractor(nameFilter, times, classifier, tournaments)

	var feeds, pages []service.MatchSource
	for _, key := range keys {
		src := cfg.Sources.Matches[key]
		if !src.Enabled {
			continue
		}
		switch src.Parser {
		case "robong":
			feeds = append(feeds, robong.New(robong.Config{
				BaseURL:    src.BaseURL,
				DaysBefore: cfg.Matches.DaysBefore,
				DaysAfter:  cfg.Matches.DaysAfter,
			}, fetcher, classifier, logger))
		case "vnexpress":
			pages = append(pages, vnexpress.NewMatchSource(src.BaseURL, src.Tournament, fetcher, matchExtractor, logger))
		default:
			logger.Warn("unknown match parser, source skipped", "source", key, "parser", src.Parser)
		}
	}
	return append(feeds, pages...)
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
