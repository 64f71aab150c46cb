package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/folio/assets"
	"github.com/bnema/folio/internal/application/port"
	"github.com/bnema/folio/internal/domain/repository"
	"github.com/bnema/folio/internal/infrastructure/config"
	"github.com/bnema/folio/internal/infrastructure/document"
	"github.com/bnema/folio/internal/infrastructure/jsdom"
	"github.com/bnema/folio/internal/logging"
)

// Engine selects the page implementation.
type Engine string

const (
	// EngineHTML edits the markup directly and renders it back as HTML.
	EngineHTML Engine = "html"
	// EngineScript hosts the page in the JavaScript runtime.
	EngineScript Engine = "script"
)

// ParallelInitInput holds the input for parallel initialization.
type ParallelInitInput struct {
	Config *config.Config
	Engine Engine
	// HTMLPath overrides page.html when set.
	HTMLPath string
	// Env describes the client the page is rendered for.
	Env port.StaticEnvironment
}

// ParallelInitResult holds the opened store and the loaded page.
type ParallelInitResult struct {
	Store   repository.PreferenceStore
	Cleanup func()
	Page    port.Page
	Env     port.Environment

	// Exactly one of Document and Script is set, depending on the engine.
	Document *document.Document
	Script   *jsdom.Runtime

	Timer *StartupTimer
}

// RunParallelInit opens the preference store while the page loads.
// On error everything opened so far is released.
func RunParallelInit(ctx context.Context, input ParallelInitInput) (*ParallelInitResult, error) {
	cfg := input.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	engine := input.Engine
	if engine == "" {
		engine = EngineHTML
	}
	if engine != EngineHTML && engine != EngineScript {
		return nil, fmt.Errorf("unknown page engine %q", engine)
	}

	timer := NewStartupTimer()
	res := &ParallelInitResult{Cleanup: func() {}, Timer: timer}

	// The localStorage driver keeps preferences inside the script page, so
	// the store can only be opened once that page exists.
	storeInPage := engine == EngineScript && cfg.Storage.Driver == config.StorageLocalStorage

	g, gctx := errgroup.WithContext(ctx)

	if !storeInPage {
		g.Go(func() error {
			start := time.Now()
			store, cleanup, err := OpenStore(gctx, cfg, nil)
			if err != nil {
				return fmt.Errorf("failed to open %s store: %w", cfg.Storage.Driver, err)
			}
			res.Store, res.Cleanup = store, cleanup
			timer.MarkDuration("store", time.Since(start))
			return nil
		})
	}

	g.Go(func() error {
		start := time.Now()
		html, err := readPage(input.HTMLPath, cfg.Page.HTML)
		if err != nil {
			return err
		}

		switch engine {
		case EngineScript:
			opts := jsdom.Options{
				HTML:      html,
				UserAgent: input.Env.Agent,
				Viewport:  input.Env.Geometry,
				Touch:     input.Env.Touch,
			}
			if storeInPage {
				if opts.Storage, err = jsdom.LoadStorageFile(cfg.Storage.Path); err != nil {
					return err
				}
			}
			rt, err := jsdom.New(gctx, opts)
			if err != nil {
				return err
			}
			res.Script, res.Page, res.Env = rt, rt, rt
		default:
			doc, err := document.ParseString(html)
			if err != nil {
				return err
			}
			res.Document, res.Page, res.Env = doc, doc, input.Env
		}
		timer.MarkDuration("page", time.Since(start))
		return nil
	})

	if err := g.Wait(); err != nil {
		res.Cleanup()
		return nil, err
	}

	if storeInPage {
		store, cleanup, err := OpenStore(ctx, cfg, res.Script)
		if err != nil {
			return nil, err
		}
		res.Store, res.Cleanup = store, cleanup
	}

	logging.FromContext(ctx).Debug().
		Str("engine", string(engine)).
		Str("driver", string(cfg.Storage.Driver)).
		Dur("duration", timer.Total()).
		Msg("parallel init completed")
	return res, nil
}

// readPage returns the markup at the first non-empty path, or the embedded
// portfolio page.
func readPage(paths ...string) (string, error) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read page %s: %w", path, err)
		}
		return string(data), nil
	}
	return assets.PortfolioHTML, nil
}
