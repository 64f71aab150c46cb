// Package jsdom hosts the portfolio page inside a sobek JavaScript runtime.
// The runtime evaluates a small browser object model (document, window,
// navigator, localStorage) and exposes it as port.Page, port.Environment and
// a localStorage-backed preference store.
package jsdom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/grafana/sobek"
	"github.com/rs/zerolog"

	"github.com/bnema/folio/assets"
	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/logging"
)

// DefaultQuota is the localStorage size limit in UTF-16 code units, as in browsers.
const DefaultQuota = 5 * 1024 * 1024

// Options configures a Runtime.
type Options struct {
	// HTML is the page markup. Empty loads the embedded portfolio page.
	HTML      string
	UserAgent string
	Viewport  entity.Viewport
	Touch     bool
	// Storage seeds localStorage.
	Storage map[string]string
	// Quota overrides DefaultQuota when positive.
	Quota int
}

// Runtime is a single-threaded JS runtime. Every access goes through its mutex.
type Runtime struct {
	mu     sync.Mutex
	vm     *sobek.Runtime
	api    *sobek.Object
	doc    *sobek.Object
	logger zerolog.Logger
	opts   Options
}

// New evaluates the DOM shim and loads the page into it.
func New(ctx context.Context, opts Options) (*Runtime, error) {
	vm := sobek.New()
	if _, err := vm.RunScript("dom.js", assets.DOMShim); err != nil {
		return nil, fmt.Errorf("failed to evaluate dom shim: %w", err)
	}

	apiValue := vm.Get("__folio")
	if apiValue == nil || sobek.IsUndefined(apiValue) || sobek.IsNull(apiValue) {
		return nil, errors.New("dom shim did not define __folio")
	}

	r := &Runtime{
		vm:     vm,
		api:    apiValue.ToObject(vm),
		logger: logging.FromContext(ctx).With().Str("component", "jsdom").Logger(),
		opts:   opts,
	}

	html := opts.HTML
	if html == "" {
		html = assets.PortfolioHTML
	}
	tree, err := buildTree(html)
	if err != nil {
		return nil, err
	}
	if err := r.callJSON("load", tree); err != nil {
		return nil, fmt.Errorf("failed to load page: %w", err)
	}
	if err := r.configure(); err != nil {
		return nil, fmt.Errorf("failed to configure window: %w", err)
	}
	if len(opts.Storage) > 0 {
		if err := r.callJSON("seedStorage", opts.Storage); err != nil {
			return nil, fmt.Errorf("failed to seed localStorage: %w", err)
		}
	}

	r.doc = vm.Get("document").ToObject(vm)

	r.logger.Debug().
		Int("storage_keys", len(opts.Storage)).
		Str("user_agent", opts.UserAgent).
		Msg("script runtime ready")
	return r, nil
}

type windowConfig struct {
	UserAgent    string `json:"userAgent"`
	InnerWidth   int    `json:"innerWidth"`
	InnerHeight  int    `json:"innerHeight"`
	ScreenHeight int    `json:"screenHeight"`
	Touch        bool   `json:"touch"`
	Quota        int    `json:"quota"`
}

func (r *Runtime) configure() error {
	quota := r.opts.Quota
	if quota <= 0 {
		quota = DefaultQuota
	}
	return r.callJSON("configure", windowConfig{
		UserAgent:    r.opts.UserAgent,
		InnerWidth:   r.opts.Viewport.InnerWidth,
		InnerHeight:  r.opts.Viewport.InnerHeight,
		ScreenHeight: r.opts.Viewport.ScreenHeight,
		Touch:        r.opts.Touch,
		Quota:        quota,
	})
}

// callJSON calls an __folio function with v encoded as JSON.
func (r *Runtime) callJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s argument: %w", name, err)
	}
	_, err = r.callAPI(name, string(data))
	return err
}

// callAPI calls an __folio function. Exceptions come back as errors.
func (r *Runtime) callAPI(name string, args ...any) (sobek.Value, error) {
	return callMethod(r.vm, r.api, name, args...)
}

// callMethod invokes obj[name](args...). JS exceptions and Go panics raised
// while touching the object both come back as errors.
func callMethod(vm *sobek.Runtime, obj *sobek.Object, name string, args ...any) (result sobek.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicError(p)
		}
	}()

	fn, ok := sobek.AssertFunction(obj.Get(name))
	if !ok {
		return nil, fmt.Errorf("%s is not a function", name)
	}
	values := make([]sobek.Value, len(args))
	for i, a := range args {
		values[i] = vm.ToValue(a)
	}
	return fn(obj, values...)
}

func panicError(p any) error {
	switch v := p.(type) {
	case error:
		return v
	case sobek.Value:
		return fmt.Errorf("script error: %s", v.String())
	default:
		return fmt.Errorf("script panic: %v", v)
	}
}

// guard runs fn under the runtime lock and logs any failure as a warning.
// It reports whether fn succeeded.
func (r *Runtime) guard(op string, fn func(vm *sobek.Runtime) error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = panicError(p)
			}
		}()
		return fn(r.vm)
	}()
	if err != nil {
		r.logger.Warn().Err(err).Str("op", op).Msg("script operation failed")
		return false
	}
	return true
}

// Eval runs a script in the page context and returns its completion value as a string.
func (r *Runtime) Eval(ctx context.Context, name, src string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, err := r.vm.RunScript(name, src)
	if err != nil {
		return "", fmt.Errorf("failed to run %s: %w", name, err)
	}
	logging.FromContext(ctx).Debug().Str("script", name).Msg("script evaluated")
	if v == nil || sobek.IsUndefined(v) || sobek.IsNull(v) {
		return "", nil
	}
	return v.String(), nil
}

// ElementSnapshot is the observable state of one element.
type ElementSnapshot struct {
	Tag     string   `json:"tag"`
	ID      string   `json:"id,omitempty"`
	Classes []string `json:"classes"`
	Style   string   `json:"style,omitempty"`
	Text    string   `json:"text,omitempty"`
	Checked bool     `json:"checked,omitempty"`
	Value   string   `json:"value,omitempty"`
}

// PageSnapshot is the observable state of the page: the root and body plus
// every element carrying an id.
type PageSnapshot struct {
	Root     ElementSnapshot   `json:"root"`
	Body     ElementSnapshot   `json:"body"`
	Elements []ElementSnapshot `json:"elements"`
}

// Snapshot captures the current page state.
func (r *Runtime) Snapshot() (*PageSnapshot, error) {
	r.mu.Lock()
	v, err := r.callAPI("snapshot")
	r.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot page: %w", err)
	}

	var snap PageSnapshot
	if err := json.Unmarshal([]byte(v.String()), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode page snapshot: %w", err)
	}
	return &snap, nil
}
