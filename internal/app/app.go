package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"histomap/internal/config"
	"histomap/internal/discovery"
	"histomap/internal/infrastructure/mediawiki"
	"histomap/internal/infrastructure/storage"
	"histomap/internal/infrastructure/telegram"
	"histomap/internal/infrastructure/wikifeed"
	"histomap/internal/logging"
	"histomap/internal/ports"
	"histomap/internal/quiz"
)

// RunOptions selects what a single invocation does.
type RunOptions struct {
	Mode       string
	Lat        float64
	Lon        float64
	Radius     int
	Difficulty string
}

// Application wires configs to adapters and run modes.
type Application struct {
	cfg          config.Config
	logger       *slog.Logger
	orchestrator *discovery.Orchestrator
	generator    *quiz.Generator
	feed         *wikifeed.Client
	store        ports.EventStore
	activity     ports.ActivityStore
	closeStore   func() error
}

// New builds a runnable application instance: store, pre-warmed cache,
// discovery orchestrator and quiz generator.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.Wiki.TimeoutSeconds) * time.Second}
	wiki := mediawiki.NewClient(cfg.Wiki.APIBaseURL, cfg.Wiki.UserAgent, httpClient)

	a := &Application{
		cfg:       cfg,
		logger:    baseLogger,
		generator: quiz.NewGenerator(nil),
		feed:      wikifeed.NewClient(cfg.Wiki.FeedURL, httpClient),
	}

	switch cfg.Storage.Driver {
	case "", "sqlite":
		st, err := storage.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		a.store = st
		a.activity = st
		a.closeStore = st.Close
	case "mongo":
		st, err := storage.NewMongoStore(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		a.store = st
		a.closeStore = func() error { return st.Close(context.Background()) }
	case "none":
		// in-memory only; everything is rediscovered next run
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	cache := discovery.NewCache()
	if a.store != nil {
		events, rejected, err := a.store.LoadAll(ctx)
		if err != nil {
			baseLogger.Warn("cache pre-warm failed", "error", err)
		} else {
			for _, event := range events {
				cache.StoreEvent(event)
			}
			for _, id := range rejected {
				cache.StoreTombstone(id)
			}
			baseLogger.Info("cache pre-warmed", "events", len(events), "rejections", len(rejected))
		}
	}

	a.orchestrator = discovery.NewOrchestrator(discovery.Deps{
		Geo:       wiki,
		Keyword:   wiki,
		Extracts:  wiki,
		LangLinks: wiki,
		Store:     a.store,
		Cache:     cache,
		Logger:    baseLogger.With("component", "discovery"),
	}, discovery.Options{
		GridStep:     cfg.Discovery.GridStepDegrees,
		GeoLimit:     cfg.Discovery.GeoSearchLimit,
		TopN:         cfg.Discovery.TopN,
		Queries:      cfg.Discovery.KeywordQueries,
		LocationHint: cfg.Discovery.LocationHint,
	})

	return a, nil
}

// Close releases store resources.
func (a *Application) Close() error {
	if a.closeStore != nil {
		return a.closeStore()
	}
	return nil
}

// Run executes the selected mode.
func (a *Application) Run(ctx context.Context, opts RunOptions) error {
	switch opts.Mode {
	case "", "discover":
		return a.runDiscover(ctx, opts)
	case "quiz":
		return a.runQuiz(ctx, opts)
	case "onthisday":
		return a.runOnThisDay(ctx)
	case "bot":
		return a.runBot(ctx)
	default:
		return fmt.Errorf("unknown mode %q", opts.Mode)
	}
}

func (a *Application) runDiscover(ctx context.Context, opts RunOptions) error {
	result, err := a.orchestrator.FetchEvents(ctx, opts.Lat, opts.Lon, a.radius(opts))
	if err != nil {
		return fmt.Errorf("discovery pass: %w", err)
	}
	return printJSON(result)
}

func (a *Application) runQuiz(ctx context.Context, opts RunOptions) error {
	result, err := a.orchestrator.FetchEvents(ctx, opts.Lat, opts.Lon, a.radius(opts))
	if err != nil {
		return fmt.Errorf("discovery pass: %w", err)
	}
	if len(result.Events) == 0 {
		return fmt.Errorf("no events found around %.4f, %.4f", opts.Lat, opts.Lon)
	}

	question := a.generator.PrepareQuestion(result.Events[0], result.Events, opts.Difficulty)
	return printJSON(question)
}

func (a *Application) runOnThisDay(ctx context.Context) error {
	entries, err := a.feed.OnThisDay(ctx)
	if err != nil {
		return fmt.Errorf("on this day: %w", err)
	}
	return printJSON(entries)
}

func (a *Application) runBot(ctx context.Context) error {
	if a.cfg.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is not configured")
	}

	bot, err := telegram.NewQuizBot(a.cfg.Telegram.BotToken, a.orchestrator, a.generator,
		a.activity, a.logger.With("component", "bot"))
	if err != nil {
		return fmt.Errorf("start bot: %w", err)
	}
	return bot.Run(ctx)
}

func (a *Application) radius(opts RunOptions) int {
	if opts.Radius > 0 {
		return opts.Radius
	}
	return a.cfg.Discovery.RadiusMeters
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
