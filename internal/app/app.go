// Package app wires together all adapters and domain logic.
// It provides lifecycle management for the faqbot server: create, run, close.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/0xcro3dile/faqbot-go/internal/adapters/filewatcher"
	"github.com/0xcro3dile/faqbot-go/internal/adapters/fuzzy"
	"github.com/0xcro3dile/faqbot-go/internal/adapters/keywords"
	"github.com/0xcro3dile/faqbot-go/internal/adapters/kvstore"
	"github.com/0xcro3dile/faqbot-go/internal/adapters/loader"
	"github.com/0xcro3dile/faqbot-go/internal/adapters/parser"
	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
	"github.com/0xcro3dile/faqbot-go/internal/domain/ports"
	"github.com/0xcro3dile/faqbot-go/internal/domain/usecases"
	"github.com/0xcro3dile/faqbot-go/internal/infrastructure/config"
	httpserver "github.com/0xcro3dile/faqbot-go/internal/infrastructure/http"
	"github.com/0xcro3dile/faqbot-go/internal/infrastructure/metrics"
)

// Engine is the resolver half of the app: dataset, index and chatbot.
// The CLI's one-shot commands use it without opening any store.
type Engine struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Recorder
	Loader  *loader.MultiLoader
	Dataset *usecases.DatasetUseCase
	Chatbot *usecases.Chatbot
	Rules   []entities.CategoryRule
}

// NewEngine builds the matcher, classifier and dataset use case from cfg.
// Nothing is loaded yet.
func NewEngine(cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	metric, err := fuzzy.MetricByName(cfg.Match.Metric)
	if err != nil {
		return nil, err
	}
	builder := fuzzy.NewBuilder(metric, cfg.Match.Threshold,
		time.Duration(cfg.Match.CacheTTLSeconds)*time.Second)

	rules, err := config.LoadCategories(cfg.Match.CategoriesFile)
	if err != nil {
		return nil, err
	}
	classifier := keywords.NewClassifier(rules, entities.CategoryDefault)

	recorder := metrics.New()
	multi := loader.NewDefaultLoader(parser.NewQAParser(),
		time.Duration(cfg.Dataset.TimeoutSeconds)*time.Second, logger)
	dataset := usecases.NewDatasetUseCase(multi, builder, cfg.Dataset.Sources, recorder, logger)

	chatbot, err := usecases.NewChatbot(dataset, rules, classifier, recorder, usecases.RandomPicker)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}

	recorder.TrackDatasetAge(func() (time.Time, bool) {
		if k := dataset.Current(); k != nil {
			return k.LoadedAt, true
		}
		return time.Time{}, false
	})

	return &Engine{
		Config:  cfg,
		Logger:  logger,
		Metrics: recorder,
		Loader:  multi,
		Dataset: dataset,
		Chatbot: chatbot,
		Rules:   rules,
	}, nil
}

// App is the long-running server: the engine plus session storage, the
// HTTP adapter and the optional dataset watcher.
type App struct {
	*Engine

	Prefs   ports.Preferences
	Session *usecases.SessionUseCase
	Server  *httpserver.Server

	watcher *filewatcher.FSNotifyWatcher // nil when watching is off
}

// New creates an App with all dependencies wired. Does not start services.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	engine, err := NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}

	prefs, err := kvstore.Open(cfg.Prefs.Backend, cfg.Prefs.Path)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	session := usecases.NewSessionUseCase(prefs, usecases.Credentials{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
	})

	a := &App{
		Engine:  engine,
		Prefs:   prefs,
		Session: session,
		Server: httpserver.NewServer(engine.Chatbot, engine.Dataset, session,
			engine.Metrics.Handler(), cfg.App.ServerAddr, engine.Logger),
	}

	if cfg.Dataset.Watch && len(cfg.LocalSources()) > 0 {
		w, err := filewatcher.NewFSNotifyWatcher(0, engine.Logger)
		if err != nil {
			// Serving without hot reload is still useful.
			engine.Logger.Warn("file watcher unavailable", zap.Error(err))
		} else {
			a.watcher = w
		}
	}
	return a, nil
}

// Run loads the dataset in the background, starts the watcher and serves
// HTTP until ctx is cancelled. Until the first load succeeds, replies come
// from the categories alone.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loaded := a.Dataset.StartLoad(ctx)
	go func() {
		if err := <-loaded; err != nil {
			a.Logger.Warn("initial dataset load failed, answering from categories only",
				zap.Error(err))
		}
	}()

	if a.watcher != nil {
		go func() {
			if err := a.Dataset.Watch(ctx, a.watcher, a.Config.LocalSources()); err != nil {
				a.Logger.Warn("dataset watch stopped", zap.Error(err))
			}
		}()
	}

	return a.Server.Start(ctx)
}

// Close releases the watcher and the preference store.
func (a *App) Close() error {
	if a.watcher != nil {
		_ = a.watcher.Stop()
	}
	return a.Prefs.Close()
}
