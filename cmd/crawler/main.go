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
	"sports_crawler/internal/publisher"
	"sports_crawler/internal/scheduler"
	"sports_crawler/internal/service"
	"sports_crawler/internal/source/vnexpress"
	"sports_crawler/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single crawl cycle and exit")
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

	// The queue is an optional downstream; the crawler still persists when
	// the broker is down.
	var pub service.Publisher
	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Warn("rabbitmq unavailable, publishing disabled", "error", err)
	} else {
		pub = rabbitMQ
		defer rabbitMQ.Close()
	}

	articleStore := postgres.NewArticleStore(conn)
	tagStore := postgres.NewTagStore(conn)
	stateStore := postgres.NewCrawlStateStore(conn)
	txManager := postgres.NewTransactionManager(conn)

	fetcher := fetch.New(fetch.Config{
		UserAgent:    cfg.HTTP.UserAgent,
		Timeout:      cfg.HTTP.Timeout,
		MaxAttempts:  cfg.HTTP.MaxAttempts,
		RetryDelay:   cfg.HTTP.RetryDelay,
		RequestDelay: cfg.HTTP.RequestDelay,
	}, logger)

	classifier := extract.NewClassifier(cfg.Classifier)

	services := buildServices(cfg, fetcher, classifier, articleStore, tagStore, stateStore, txManager, pub, logger)
	if len(services) == 0 {
		logger.Error("no enabled news sources configured")
		os.Exit(1)
	}

	run := func(ctx context.Context) error {
		for _, svc := range services {
			if _, err := svc.Crawl(ctx); err != nil {
				logger.Error("crawl failed", "error", err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		return nil
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

	logger.Info("starting article crawler",
		"sources", len(services),
		"interval", cfg.Crawl.Interval,
		"articles_per_run", cfg.Crawl.ArticlesPerRun,
	)

	sched := scheduler.NewScheduler(run, cfg.Crawl.Interval, logger)
	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func buildServices(
	cfg *config.Config,
	fetcher *fetch.Fetcher,
	classifier *extract.Classifier,
	articles *postgres.ArticleStore,
	tags *postgres.TagStore,
	state *postgres.CrawlStateStore,
	txManager *postgres.TransactionManager,
	pub service.Publisher,
	logger *slog.Logger,
) []*service.CrawlService {
	keys := make([]string, 0, len(cfg.Sources.News))
	for key := range cfg.Sources.News {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var services []*service.CrawlService
	for _, key := range keys {
		src := cfg.Sources.News[key]
		if !src.Enabled {
			continue
		}
		switch src.Parser {
		case "vnexpress":
			extractor := extract.NewArticleExtractor(vnexpress.DetailSelectors(), classifier, cfg.Crawl.DefaultAuthorID)
			articleSource := vnexpress.NewArticleSource(src.BaseURL, fetcher, extractor, logger)
			services = append(services, service.NewCrawlService(
				articleSource, articles, tags, state, txManager, pub, logger, cfg.Crawl.ArticlesPerRun,
			))
		default:
			logger.Warn("unknown news parser, source skipped", "source", key, "parser", src.Parser)
		}
	}
	return services
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
