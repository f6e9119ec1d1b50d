package proxy

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
	"github.com/atomicstack/xdialog/internal/dispatcher"
	"github.com/atomicstack/xdialog/internal/testutil"
)

// answeringDialogs resolves every message dialog with a fixed result as soon
// as it is shown, and records progress updates.
type answeringDialogs struct {
	results bus.ResultSink
	answer  dialog.Result

	mu      sync.Mutex
	shown   []dialog.Options
	updates []string
}

func (a *answeringDialogs) Show(id dialog.ID, opts dialog.Options, progress bool) error {
	a.mu.Lock()
	a.shown = append(a.shown, opts)
	a.mu.Unlock()
	if !progress {
		a.results.InsertResult(id, a.answer)
	}
	return nil
}

func (a *answeringDialogs) Close(id dialog.ID) {
	a.record("close")
	a.results.InsertResult(id, dialog.Closed())
}
func (a *answeringDialogs) CloseAll()                             {}
func (a *answeringDialogs) SetProgressValue(dialog.ID, float32)   { a.record("value") }
func (a *answeringDialogs) SetProgressText(_ dialog.ID, t string) { a.record("text " + t) }
func (a *answeringDialogs) SetProgressIndeterminate(dialog.ID)    { a.record("indeterminate") }

func (a *answeringDialogs) record(s string) {
	a.mu.Lock()
	a.updates = append(a.updates, s)
	a.mu.Unlock()
}

func (a *answeringDialogs) snapshot() ([]dialog.Options, []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]dialog.Options(nil), a.shown...), append([]string(nil), a.updates...)
}

type crashingWebviews struct {
	dispatcher.NoWebviews
}

func (crashingWebviews) Show(dialog.ID, dialog.WebviewOptions, dispatcher.UIContext) error {
	return nil
}

func (crashingWebviews) SetTitle(dialog.ID, string) error {
	panic("engine crashed")
}

func startLoop(t *testing.T, b *bus.Bus, dialogs dispatcher.DialogManager, webviews dispatcher.WebviewManager) {
	t.Helper()
	testutil.QuietLogs(t)
	loop, err := dispatcher.ForBus(b, dialogs, webviews, dialog.ThemeSystemDefault)
	if err != nil {
		t.Fatalf("ForBus: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()
	t.Cleanup(func() {
		_ = b.Send(bus.NewExitEventLoop())
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Errorf("dispatcher did not stop")
		}
	})
}

func TestOKCancelMapsSecondButtonToTrue(t *testing.T) {
	b := bus.New(bus.Options{PollInterval: 2 * time.Millisecond})
	manager := &answeringDialogs{results: b, answer: dialog.Pressed(1)}
	startLoop(t, b, manager, nil)

	ok, err := ShowMessageOKCancel(b, "T", "Proceed?", "body", dialog.IconWarning)
	if err != nil {
		t.Fatalf("ok/cancel: %v", err)
	}
	if !ok {
		t.Fatalf("expected ButtonPressed(1) to map to true")
	}
	shown, _ := manager.snapshot()
	if len(shown) != 1 {
		t.Fatalf("expected one dialog, got %d", len(shown))
	}
	got := shown[0]
	if got.Title != "T" || len(got.Buttons) != 2 || got.Buttons[0] != "Cancel" || got.Buttons[1] != "OK" {
		t.Fatalf("unexpected options %+v", got)
	}
	if got.Icon != dialog.IconWarning {
		t.Fatalf("expected warning icon, got %s", got.Icon)
	}
}

func TestChoiceHelpersButtonLayout(t *testing.T) {
	cases := []struct {
		name   string
		show   func(*bus.Bus) (bool, error)
		labels [2]string
		answer dialog.Result
		want   bool
	}{
		{"yes", func(b *bus.Bus) (bool, error) { return ShowMessageYesNo(b, "t", "i", "m", dialog.IconNone) }, [2]string{"No", "Yes"}, dialog.Pressed(1), true},
		{"no", func(b *bus.Bus) (bool, error) { return ShowMessageYesNo(b, "t", "i", "m", dialog.IconNone) }, [2]string{"No", "Yes"}, dialog.Pressed(0), false},
		{"retry", func(b *bus.Bus) (bool, error) { return ShowMessageRetryCancel(b, "t", "i", "m", dialog.IconError) }, [2]string{"Cancel", "Retry"}, dialog.Pressed(1), true},
		{"closed", func(b *bus.Bus) (bool, error) { return ShowMessageOKCancel(b, "t", "i", "m", dialog.IconNone) }, [2]string{"Cancel", "OK"}, dialog.Closed(), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := bus.New(bus.Options{PollInterval: 2 * time.Millisecond})
			manager := &answeringDialogs{results: b, answer: tc.answer}
			startLoop(t, b, manager, nil)
			got, err := tc.show(b)
			if err != nil {
				t.Fatalf("show: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			shown, _ := manager.snapshot()
			if shown[0].Buttons[0] != tc.labels[0] || shown[0].Buttons[1] != tc.labels[1] {
				t.Fatalf("expected buttons %v, got %v", tc.labels, shown[0].Buttons)
			}
		})
	}
}

func TestSingleButtonHelpers(t *testing.T) {
	b := bus.New(bus.Options{PollInterval: 2 * time.Millisecond})
	manager := &answeringDialogs{results: b, answer: dialog.Pressed(0)}
	startLoop(t, b, manager, nil)

	for _, show := range []func(*bus.Bus, string, string, string) error{ShowMessageInfoOK, ShowMessageWarnOK, ShowMessageErrorOK} {
		if err := show(b, "t", "i", "m"); err != nil {
			t.Fatalf("show: %v", err)
		}
	}
	shown, _ := manager.snapshot()
	icons := []dialog.Icon{dialog.IconInformation, dialog.IconWarning, dialog.IconError}
	for i, opts := range shown {
		if opts.Icon != icons[i] || len(opts.Buttons) != 1 || opts.Buttons[0] != "OK" {
			t.Fatalf("dialog %d: unexpected options %+v", i, opts)
		}
	}
}

func TestShowMessageTimeoutClosesWindow(t *testing.T) {
	b := bus.New(bus.Options{PollInterval: 2 * time.Millisecond})
	start := time.Now()
	result, err := ShowMessageTimeout(b, dialog.Options{Title: "T", Buttons: []string{"OK"}}, 40*time.Millisecond)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if result.Kind != dialog.TimeoutElapsed {
		t.Fatalf("expected TimeoutElapsed, got %v", result)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("returned before the budget: %v", elapsed)
	}

	q := b.Commands()
	first, _ := q.TryPop()
	if _, ok := first.(bus.ShowMessageWindow); !ok {
		t.Fatalf("expected ShowMessageWindow first, got %s", bus.Name(first))
	}
	second, ok := q.TryPop()
	if !ok {
		t.Fatalf("expected CloseWindow on the queue")
	}
	if _, isClose := second.(bus.CloseWindow); !isClose || second.Target() != first.Target() {
		t.Fatalf("expected CloseWindow(%d), got %s(%d)", first.Target(), bus.Name(second), second.Target())
	}

	// The late close from the UI side must not replace the timeout.
	b.InsertResult(first.Target(), dialog.Closed())
	if got, _ := b.Result(first.Target()); got.Kind != dialog.TimeoutElapsed {
		t.Fatalf("expected stored TimeoutElapsed, got %v", got)
	}
}

func TestExpireReturnsResultThatWonTheRace(t *testing.T) {
	b := bus.New(bus.Options{})
	id, _ := b.NextID()
	b.InsertResult(id, dialog.Pressed(1))
	got, err := expire(b, id, time.Second)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if !got.IsButton(1) {
		t.Fatalf("expected ButtonPressed(1), got %v", got)
	}
	if b.Pending() != 0 {
		t.Fatalf("expected no CloseWindow for a resolved dialog, %d pending", b.Pending())
	}
}

func TestSilentModeSendsNothing(t *testing.T) {
	b := bus.New(bus.Options{Silent: true})
	result, err := ShowMessage(b, dialog.Options{Title: "quiet"})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if result.Kind != dialog.SilentMode {
		t.Fatalf("expected SilentMode, got %v", result)
	}
	if ok, _ := ShowMessageYesNo(b, "t", "i", "m", dialog.IconNone); ok {
		t.Fatalf("silent choice must be false")
	}

	p, err := ShowProgress(b, "t", "i", "m", dialog.IconInformation)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	for _, call := range []func() error{
		func() error { return p.SetValue(0.5) },
		func() error { return p.SetText("x") },
		p.SetIndeterminate,
		p.Close,
	} {
		if err := call(); err != nil {
			t.Fatalf("silent progress call: %v", err)
		}
	}
	if r, ok := p.Result(); !ok || r.Kind != dialog.SilentMode {
		t.Fatalf("expected SilentMode from inert proxy, got %v ok=%v", r, ok)
	}
	if b.Pending() != 0 {
		t.Fatalf("expected empty channel, %d pending", b.Pending())
	}
	if id, _ := b.NextID(); id != 1 {
		t.Fatalf("silent calls should not allocate ids, next is %d", id)
	}
}

func TestProgressLifecycle(t *testing.T) {
	b := bus.New(bus.Options{})
	manager := &answeringDialogs{results: b}
	startLoop(t, b, manager, nil)

	p, err := ShowProgress(b, "copy", "Copying", "starting", dialog.IconInformation)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.ID() == dialog.NoID {
		t.Fatalf("expected a real id")
	}
	if _, done := p.Result(); done {
		t.Fatalf("progress should be open")
	}
	_ = p.SetValue(0.5)
	_ = p.SetText("halfway")
	_ = p.SetIndeterminate()
	_ = p.Close()

	testutil.WaitFor(t, time.Second, "progress close", func() bool {
		_, done := p.Result()
		return done
	})
	_, updates := manager.snapshot()
	want := []string{"value", "text halfway", "indeterminate", "close"}
	if len(updates) != len(want) {
		t.Fatalf("expected %v, got %v", want, updates)
	}
	for i := range want {
		if updates[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, updates)
		}
	}
}

func TestProgressBackendFailurePropagates(t *testing.T) {
	b := bus.New(bus.Options{})
	startLoop(t, b, nil, nil)
	_, err := ShowProgress(b, "t", "i", "m", dialog.IconNone)
	var be *bus.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
}

func TestWebviewUnavailableEngine(t *testing.T) {
	b := bus.New(bus.Options{})
	startLoop(t, b, nil, dispatcher.NoWebviews{})

	done := make(chan error, 1)
	go func() {
		_, err := ShowWebview(b, dialog.DefaultWebviewOptions())
		done <- err
	}()
	select {
	case err := <-done:
		var be *bus.BackendError
		if !errors.As(err, &be) {
			t.Fatalf("expected BackendError, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("ShowWebview hung on a failing engine")
	}
}

func TestWebviewCrashYieldsNoResult(t *testing.T) {
	b := bus.New(bus.Options{})
	startLoop(t, b, nil, crashingWebviews{})

	w, err := ShowWebview(b, dialog.WebviewOptions{Title: "x"})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if err := w.SetTitle("boom"); !errors.Is(err, bus.ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
	if err := w.SetHTML("<p>still alive</p>"); err != nil {
		t.Fatalf("expected loop to survive, got %v", err)
	}
	if err := w.Eval("1+1"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestUninitializedBus(t *testing.T) {
	if _, err := ShowMessage(nil, dialog.Options{}); !errors.Is(err, bus.ErrNotInitialized) {
		t.Fatalf("message: expected ErrNotInitialized, got %v", err)
	}
	if _, err := ShowProgress(&bus.Bus{}, "t", "i", "m", dialog.IconNone); !errors.Is(err, bus.ErrNotInitialized) {
		t.Fatalf("progress: expected ErrNotInitialized, got %v", err)
	}
	if _, err := ShowWebview(nil, dialog.WebviewOptions{}); !errors.Is(err, bus.ErrNotInitialized) {
		t.Fatalf("webview: expected ErrNotInitialized, got %v", err)
	}
	if err := Attach(nil, 4).SetTitle("x"); !errors.Is(err, bus.ErrNotInitialized) {
		t.Fatalf("attach: expected ErrNotInitialized, got %v", err)
	}
}

func TestSendAfterLoopExit(t *testing.T) {
	b := bus.New(bus.Options{})
	b.Shutdown()
	if _, err := ShowMessage(b, dialog.Options{}); !errors.Is(err, bus.ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}
	if err := Attach(b, 1).Close(); !errors.Is(err, bus.ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed from close, got %v", err)
	}
}

func TestInvokerAttachesHandle(t *testing.T) {
	b := bus.New(bus.Options{})
	var got *Webview
	var arg string
	fn := Invoker(b, func(w *Webview, a string) {
		got, arg = w, a
	})
	fn(42, "ping")
	if got == nil || got.ID() != 42 || arg != "ping" {
		t.Fatalf("unexpected invoke: %v %q", got, arg)
	}
}
