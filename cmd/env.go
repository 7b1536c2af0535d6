package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/email"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/jobs"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/orchestrator"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/progress"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/provider"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/store"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/waterfall"
)

// runtimeEnv bundles the wired dependencies every subcommand needs,
// mirroring the teacher's pipelineEnv/initPipeline shape.
type runtimeEnv struct {
	store        store.Store
	registry     *provider.Registry
	waterfall    *waterfall.Executor
	verifier     email.Verifier
	bus          *progress.Bus
	tracker      *jobs.Tracker
	orchestrator *orchestrator.Orchestrator
}

func (e *runtimeEnv) Close() error {
	return e.store.Close()
}

func initEnv(ctx context.Context) (*runtimeEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	registry, err := initRegistry()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	wf := waterfall.NewExecutor(registry)
	verifier := email.NewStubVerifier()
	bus := progress.New(64)
	tracker := jobs.New(cfg.JobCleanup.Delay)
	orch := orchestrator.New(st, wf, verifier, bus, tracker, cfg.Batch.MaxConcurrentCells)

	return &runtimeEnv{
		store:        st,
		registry:     registry,
		waterfall:    wf,
		verifier:     verifier,
		bus:          bus,
		tracker:      tracker,
		orchestrator: orch,
	}, nil
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "memory", "":
		return store.NewMemory(nil), nil
	default:
		return nil, eris.Errorf("cmd: unknown store driver %q", cfg.Store.Driver)
	}
}

func initRegistry() (*provider.Registry, error) {
	var configs []provider.Config
	if _, err := os.Stat(cfg.Providers); err == nil {
		loaded, err := provider.LoadConfigs(cfg.Providers)
		if err != nil {
			return nil, err
		}
		configs = loaded
	} else {
		zap.L().Info("no providers config file found, using shipped defaults", zap.String("path", cfg.Providers))
		configs = provider.DefaultConfigs()
	}

	providers := make([]provider.Provider, 0, len(configs))
	for _, c := range configs {
		switch c.Name {
		case "Orion Connect":
			providers = append(providers, provider.NewOrion(c))
		case "Astra Dialer":
			providers = append(providers, provider.NewAstra(c))
		case "Nimbus Lookup":
			providers = append(providers, provider.NewNimbus(c))
		default:
			zap.L().Warn("providers config names an unknown provider, skipping", zap.String("name", c.Name))
		}
	}

	return provider.NewRegistry(providers...), nil
}
