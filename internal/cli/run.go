package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"facetgrip/internal/catalog"
	"facetgrip/internal/config"
	"facetgrip/internal/controller"
	"facetgrip/internal/eventbus"
	"facetgrip/internal/logging"
	"facetgrip/internal/ui"
)

// readyEnv makes the TUI print a marker once it is about to take the terminal
const readyEnv = "FACETGRIP_E2E_TEST"

func openLogger(cfg *config.Config) (zerolog.Logger, func(), error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Log.Level)
	logCfg.Format = cfg.Log.Format
	logCfg.File = cfg.Log.File
	return logging.Open(logCfg)
}

// runTUI wires catalog, controller and terminal host and blocks until the
// program exits or ctx is cancelled
func runTUI(ctx context.Context, cfg *config.Config, catalogPath string) error {
	logger, cleanup, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := catalog.Open(catalogPath, catalog.WithLogger(logger))
	if err != nil {
		return err
	}

	bus := eventbus.New(eventbus.WithLogger(logger))
	defer bus.Close()

	// The store announces every reload, whether the watcher, the poll or a
	// render triggered it
	var watcher *catalog.Watcher
	if cfg.Watch.Enabled {
		watcher, err = catalog.NewWatcher(store, cfg.Watch.Settle.Duration, logger)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	host := ui.NewHost()
	ctrlCfg := cfg.ControllerConfig()
	ctrl, err := controller.New(controller.Options{
		Collection: store,
		Facets:     store,
		Visibility: host,
		Visuals:    host,
		Notifier:   store,
		Bus:        bus,
		Logger:     &logger,
		Config:     &ctrlCfg,
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	model := ui.NewModel(ctrl, store, host)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))
	model.SetProgram(p)

	defer ui.Forward(bus, ctrl.ID(), p.Send)()
	defer store.Subscribe(func() { p.Send(ui.ItemsChangedMsg{Source: "catalog file"}) })()
	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}

	ctrl.Start(gctx)

	g.Go(func() error {
		defer cancel()
		if os.Getenv(readyEnv) == "1" {
			fmt.Println("__READY__")
		}
		logger.Info().Str("catalog", catalogPath).Msg("starting UI")
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("error running program: %w", err)
		}
		logger.Info().Msg("UI exited normally")
		return nil
	})

	return g.Wait()
}
