package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/folio/internal/application/port"
	"github.com/bnema/folio/internal/bootstrap"
	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/infrastructure/config"
	"github.com/bnema/folio/internal/logging"
	"github.com/bnema/folio/internal/ui/mainloop"
)

const (
	renderDebounce = 250 * time.Millisecond
	renderKey      = "render"
)

var renderFlags struct {
	html      string
	out       string
	engine    string
	script    string
	userAgent string
	width     int
	height    int
	screen    int
	touch       bool
	orientation string
	visible     []string
	watch       bool
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the portfolio page with stored preferences applied",
	Long: `Load the portfolio page, apply the stored preferences and the device
setup for the given client, then write the result.

The html engine edits the markup and writes HTML. The script engine hosts
the page in a JavaScript runtime, optionally runs a script against it, and
writes a JSON snapshot of the page state.

Examples:
  folio render --out site/index.html
  folio render --engine script --user-agent "Mozilla/5.0 (Linux; Android 14)" --width 412 --height 800
  folio render --engine script --width 915 --height 412 --orientation landscape --visible projects
  folio render --out site/index.html --watch`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	f := renderCmd.Flags()
	f.StringVar(&renderFlags.html, "html", "", "page markup (default page.html from config, or the embedded page)")
	f.StringVarP(&renderFlags.out, "out", "o", "-", "output file, - for stdout")
	f.StringVar(&renderFlags.engine, "engine", string(bootstrap.EngineHTML), "page engine: html or script")
	f.StringVar(&renderFlags.script, "script", "", "JavaScript file to run after start (script engine only)")
	f.StringVar(&renderFlags.userAgent, "user-agent", "", "client user agent")
	f.IntVar(&renderFlags.width, "width", 1280, "client inner width in pixels")
	f.IntVar(&renderFlags.height, "height", 800, "client inner height in pixels")
	f.IntVar(&renderFlags.screen, "screen-height", 0, "client screen height in pixels (default: height)")
	f.BoolVar(&renderFlags.touch, "touch", false, "client has touch input")
	f.StringVar(&renderFlags.orientation, "orientation", "", "rotate the client to portrait or landscape after start")
	f.StringSliceVar(&renderFlags.visible, "visible", nil, "section ids scrolled into view, most visible first")
	f.BoolVarP(&renderFlags.watch, "watch", "w", false, "render again when the page, store or config changes")
}

// pageRenderer renders one page per call with a fixed set of options.
type pageRenderer struct {
	mu  sync.Mutex
	cfg *config.Config

	engine      bootstrap.Engine
	htmlPath    string
	scriptPath  string
	env         port.StaticEnvironment
	orientation entity.Orientation
	visible     []string
}

func newPageRenderer(cfg *config.Config) (*pageRenderer, error) {
	engine := bootstrap.Engine(renderFlags.engine)
	if renderFlags.script != "" && engine != bootstrap.EngineScript {
		return nil, errors.New("--script needs --engine script")
	}
	var orientation entity.Orientation
	if renderFlags.orientation != "" {
		o, err := entity.ParseOrientation(renderFlags.orientation)
		if err != nil {
			return nil, err
		}
		orientation = o
	}
	screen := renderFlags.screen
	if screen <= 0 {
		screen = renderFlags.height
	}
	return &pageRenderer{
		cfg:         cfg,
		engine:      engine,
		htmlPath:    renderFlags.html,
		scriptPath:  renderFlags.script,
		orientation: orientation,
		visible:     renderFlags.visible,
		env: port.StaticEnvironment{
			Agent: renderFlags.userAgent,
			Geometry: entity.Viewport{
				InnerWidth:   renderFlags.width,
				InnerHeight:  renderFlags.height,
				ScreenHeight: screen,
			},
			Touch: renderFlags.touch,
		},
	}, nil
}

func (r *pageRenderer) config() *config.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

func (r *pageRenderer) setConfig(cfg *config.Config) {
	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()
}

// render loads the page, applies the stored preferences and writes the
// result to w.
func (r *pageRenderer) render(ctx context.Context, w io.Writer) error {
	cfg := r.config()
	ctx = logging.WithPage(ctx, pageName(r.htmlPath, cfg))

	res, err := bootstrap.RunParallelInit(ctx, bootstrap.ParallelInitInput{
		Config:   cfg,
		Engine:   r.engine,
		HTMLPath: r.htmlPath,
		Env:      r.env,
	})
	if err != nil {
		return err
	}
	defer res.Cleanup()

	// The render is a single instant of the page: deferred work runs when
	// replayClientEvents advances the clock, never on the wall clock.
	clock := mainloop.NewManualClock(time.Now())
	rt := bootstrap.NewPageRuntime(ctx, cfg, res.Page, res.Store, res.Env, bootstrap.WithClock(clock))
	defer rt.Close()
	rt.Start(ctx)
	r.replayClientEvents(ctx, rt, clock)

	if r.scriptPath != "" {
		src, err := os.ReadFile(r.scriptPath)
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		out, err := res.Script.Eval(ctx, filepath.Base(r.scriptPath), string(src))
		if err != nil {
			return err
		}
		if out != "" {
			logging.FromContext(ctx).Info().Str("script", r.scriptPath).Str("result", out).Msg("script completed")
		}
	}
	rt.Loop.RunPending()

	if res.Document != nil {
		return res.Document.Write(ctx, w)
	}
	snap, err := res.Script.Snapshot()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// replayClientEvents sends the rotation and scroll position of the client to
// the page and lets the debounced and delayed handling settle.
func (r *pageRenderer) replayClientEvents(ctx context.Context, rt *bootstrap.PageRuntime, clock *mainloop.ManualClock) {
	if r.orientation != "" {
		rt.HandleOrientation(r.orientation.Angle())
		rt.HandleResize()
	}
	if len(r.visible) > 0 {
		entries := make([]entity.IntersectionEntry, 0, len(r.visible))
		for i, id := range r.visible {
			// most visible first, every listed section fully past the thresholds
			entries = append(entries, entity.IntersectionEntry{
				TargetID:     id,
				Ratio:        1 - float64(i)*0.1/float64(len(r.visible)),
				Intersecting: true,
			})
		}
		rt.HandleIntersections(entries)
	}
	rt.Loop.RunPending()
	clock.Advance(rt.SettleDelay())
	rt.Loop.RunPending()
	if n := clock.PendingTimers(); n > 0 {
		logging.FromContext(ctx).Debug().Int("timers", n).Msg("page timers still pending at render")
	}
}

// pageName labels log lines with the page being driven.
func pageName(htmlPath string, cfg *config.Config) string {
	switch {
	case htmlPath != "":
		return htmlPath
	case cfg.Page.HTML != "":
		return cfg.Page.HTML
	}
	return "embedded"
}

// renderTo renders into a buffer first so a failed render never truncates
// the previous output.
func (r *pageRenderer) renderTo(ctx context.Context, out string) error {
	var buf bytes.Buffer
	if err := r.render(ctx, &buf); err != nil {
		return err
	}
	return writeOutput(out, buf.Bytes())
}

// writeOutput writes data to the file out, or to stdout for "" and "-".
func writeOutput(out string, data []byte) error {
	if out == "" || out == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}

// watchedFiles returns the files whose changes trigger a render.
func (r *pageRenderer) watchedFiles() []string {
	cfg := r.config()
	files := make([]string, 0, 2)
	if r.htmlPath != "" {
		files = append(files, r.htmlPath)
	} else if cfg.Page.HTML != "" {
		files = append(files, cfg.Page.HTML)
	}
	// The localstorage snapshot is rewritten by every render, so only the
	// sqlite file is watched.
	if cfg.Storage.Driver == config.StorageSQLite && cfg.Storage.Path != "" {
		files = append(files, cfg.Storage.Path)
	}
	if r.scriptPath != "" {
		files = append(files, r.scriptPath)
	}
	return files
}

func runRender(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	r, err := newPageRenderer(a.Config)
	if err != nil {
		return err
	}

	if !renderFlags.watch {
		return r.renderTo(a.Ctx(), renderFlags.out)
	}

	ctx, stop := signal.NotifyContext(a.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchRender(ctx, r, a.Manager, renderFlags.out)
}

// watchRender renders once, then again after every burst of changes to the
// watched files or the config. Renders run on a single loop.
func watchRender(ctx context.Context, r *pageRenderer, mgr *config.Manager, out string) error {
	log := logging.FromContext(ctx)

	loop := mainloop.NewLoop()
	scheduler := mainloop.NewScheduler(nil, func(fn func()) { loop.Post(fn) })
	defer scheduler.Destroy()

	renderNow := func() {
		if err := r.renderTo(ctx, out); err != nil {
			log.Error().Err(err).Msg("render failed")
			return
		}
		log.Info().Str("out", out).Msg("page rendered")
	}
	schedule := func() { scheduler.Debounce(renderKey, renderDebounce, renderNow) }

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so watch directories and filter by name.
	watched := make(map[string]bool)
	for _, file := range r.watchedFiles() {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		watched[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", file, err)
		}
	}

	if mgr != nil {
		mgr.OnConfigChange(func(cfg *config.Config) {
			loop.Post(func() {
				r.setConfig(cfg)
				log.Info().Msg("config changed")
				schedule()
			})
		})
		if err := mgr.Watch(); err != nil {
			log.Warn().Err(err).Msg("config watch unavailable")
		}
	}

	loop.Post(renderNow)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := loop.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer loop.Close()
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !watched[filepath.Clean(ev.Name)] || ev.Op == fsnotify.Chmod {
					continue
				}
				log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("watched file changed")
				loop.Post(schedule)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Warn().Err(err).Msg("file watcher error")
			}
		}
	})
	err = g.Wait()
	if scheduler.Pending(renderKey) {
		log.Debug().Msg("pending render dropped on shutdown")
	}
	return err
}
