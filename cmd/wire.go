package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/DIEAbdulHadi/NebuloViz/internal/adapters/apiclient"
	statusadapter "github.com/DIEAbdulHadi/NebuloViz/internal/adapters/render/status"
	tomlrepo "github.com/DIEAbdulHadi/NebuloViz/internal/adapters/repo/toml"
	"github.com/DIEAbdulHadi/NebuloViz/internal/adapters/secrets"
	"github.com/DIEAbdulHadi/NebuloViz/internal/application"
	"github.com/DIEAbdulHadi/NebuloViz/internal/config"
	"github.com/DIEAbdulHadi/NebuloViz/internal/logger"
	"github.com/DIEAbdulHadi/NebuloViz/internal/ports"
	"github.com/DIEAbdulHadi/NebuloViz/internal/query"
	"github.com/DIEAbdulHadi/NebuloViz/internal/telemetry"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	cfg            config.Config
	logger         *zap.Logger
	closeLogger    func()
	sessions       *application.SessionStore
	api            *apiclient.Client
	statusRenderer func(application.SessionStatus, statusadapter.RenderOptions) string
	now            func() time.Time
}

func wireApp() (*app, error) {
	cfg, settings, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, closeLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	repo, err := wireSessionRepository(cfg, settings, log)
	if err != nil {
		closeLogger()
		return nil, err
	}

	sessions := application.NewSessionStore(repo, ports.SystemClock{}, log)
	if err := sessions.Load(context.Background()); err != nil {
		closeLogger()
		return nil, err
	}

	api, err := apiclient.New(apiclient.Options{
		BaseURL:     cfg.API.BaseURL,
		BasePath:    cfg.API.BasePath,
		Timeout:     cfg.API.Timeout,
		Credentials: sessions,
		Logger:      log,
	})
	if err != nil {
		closeLogger()
		return nil, fmt.Errorf("wire api client: %w", err)
	}

	return &app{
		cfg:            cfg,
		logger:         log,
		closeLogger:    closeLogger,
		sessions:       sessions,
		api:            api,
		statusRenderer: statusadapter.Render,
		now:            time.Now,
	}, nil
}

func wireSessionRepository(cfg config.Config, settings *viper.Viper, log *zap.Logger) (ports.SessionRepository, error) {
	file, err := tomlrepo.NewSessionRepository(settings)
	if err != nil {
		return nil, fmt.Errorf("wire session repository: %w", err)
	}
	if cfg.Session.Backend != config.SessionBackendPass {
		return file, nil
	}

	repo, err := secrets.NewPassFirst(cfg.Session.PassEntry, file, log)
	if err != nil {
		return nil, fmt.Errorf("wire pass session repository: %w", err)
	}
	return repo, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
	a.closeLogger()
}

// newCache builds the query cache for one UI run. Any session change drops
// everything cached under the previous credential.
func (a *app) newCache(collector telemetry.Collector) (*query.Cache, func()) {
	cache := query.New(query.Config{
		Retention: a.cfg.Cache.Retention,
		StaleTime: a.cfg.Cache.StaleTime,
		Telemetry: collector,
		Logger:    a.logger,
	})

	unsubscribe := a.sessions.Subscribe(func(string, bool) {
		cache.InvalidateAll()
	})

	return cache, func() {
		unsubscribe()
		cache.Close()
	}
}
