package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/atomicstack/xdialog/internal/backend/browser"
	"github.com/atomicstack/xdialog/internal/backend/headless"
	"github.com/atomicstack/xdialog/internal/backend/tui"
	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
	"github.com/atomicstack/xdialog/internal/dispatcher"
	"github.com/atomicstack/xdialog/internal/logging"
	"github.com/atomicstack/xdialog/internal/logging/events"
	"github.com/atomicstack/xdialog/internal/theme"
)

// Config describes user-provided application options.
type Config struct {
	Backend      dialog.Backend
	Theme        dialog.Theme
	Webview      Webview
	PollInterval time.Duration
	Silent       bool
	// Width is the terminal dialog width in cells; 0 follows the terminal.
	Width     int
	AltScreen bool
	// Listen is the loopback address of the browser webview engine.
	Listen string
	// Answer and AnswerDelay script the headless user.
	Answer      string
	AnswerDelay time.Duration

	Input  io.Reader
	Output io.Writer
	Errors io.Writer
}

// Main is the user program. It runs on its own goroutine and its return
// value becomes the exit code.
type Main func(b *bus.Bus) int

// ErrMainPanicked is returned when the user program panics.
var ErrMainPanicked = errors.New("main panicked")

type exit struct {
	code int
	err  error
}

// Run starts the UI loop on the calling goroutine, runs main beside it, and
// stops the loop once main returns. It returns after both have finished.
func Run(ctx context.Context, cfg Config, main Main) (int, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cfg = withStreams(cfg)
	b := bus.New(bus.Options{PollInterval: cfg.PollInterval, Silent: cfg.Silent})
	backend := resolveBackend(cfg.Backend, cfg.Input, cfg.Output)
	th := theme.Resolve(cfg.Theme)
	events.App.Backend(backend.String(), th.String())

	run, err := newHost(cfg, backend, th, b)
	if err != nil {
		return 1, err
	}

	done := make(chan exit, 1)
	go func() {
		code, err := runMain(main, b)
		events.App.MainExited(code)
		if sendErr := b.Send(bus.NewExitEventLoop()); sendErr != nil && !errors.Is(sendErr, bus.ErrSendFailed) {
			logging.Error(fmt.Errorf("stop event loop: %w", sendErr))
		}
		done <- exit{code: code, err: err}
	}()

	loopErr := run(ctx)
	events.App.LoopExited(loopErr)
	result := <-done
	if loopErr != nil {
		return result.code, loopErr
	}
	return result.code, result.err
}

func runMain(main Main, b *bus.Bus) (code int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMainPanicked, r)
			logging.Error(err)
			code = 1
		}
	}()
	return main(b), nil
}

// newHost wires the managers of backend to b and returns the function that
// runs the UI loop.
func newHost(cfg Config, backend dialog.Backend, th dialog.Theme, b *bus.Bus) (func(context.Context) error, error) {
	webviews := newWebviews(cfg, backend)
	switch backend {
	case dialog.BackendTUI:
		model := tui.New(b, th, cfg.Width)
		loop, err := dispatcher.ForBus(b, model, webviews, th)
		if err != nil {
			return nil, err
		}
		opts := tui.Options{Input: cfg.Input, Output: cfg.Output, AltScreen: cfg.AltScreen}
		return func(ctx context.Context) error {
			return tui.Run(ctx, model, loop, opts)
		}, nil
	default:
		dialogs := headless.NewDialogs(b, headless.Options{
			Out:              cfg.Output,
			Answer:           cfg.Answer,
			Delay:            cfg.AnswerDelay,
			ProgressInterval: 250 * time.Millisecond,
		})
		loop, err := dispatcher.ForBus(b, dialogs, webviews, th)
		if err != nil {
			return nil, err
		}
		return loop.Run, nil
	}
}

func newWebviews(cfg Config, backend dialog.Backend) dispatcher.WebviewManager {
	kind := cfg.Webview
	if kind == WebviewAuto {
		kind = WebviewHeadless
		if backend == dialog.BackendTUI {
			kind = WebviewBrowser
		}
	}
	switch kind {
	case WebviewBrowser:
		out := cfg.Output
		if backend == dialog.BackendTUI {
			out = cfg.Errors
		}
		return browser.NewEngine(browser.Options{Addr: cfg.Listen, Out: out})
	case WebviewHeadless:
		return headless.NewWebviews(headless.Options{Out: cfg.Output})
	default:
		return nil
	}
}

func withStreams(cfg Config) Config {
	if cfg.Input == nil {
		cfg.Input = os.Stdin
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Errors == nil {
		cfg.Errors = os.Stderr
	}
	return cfg
}
