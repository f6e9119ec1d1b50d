package headless

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
	"github.com/atomicstack/xdialog/internal/dispatcher"
	"github.com/atomicstack/xdialog/internal/proxy"
	"github.com/atomicstack/xdialog/internal/testutil"
)

func TestMatchButton(t *testing.T) {
	buttons := []string{"Cancel", "Retry", "Ignore"}
	cases := []struct {
		answer string
		want   int
	}{
		{"retry", 1},
		{"ign", 2},
		{"0", 0},
		{"2", 2},
		{"7", -1},
		{"rty", 1},
		{"", -1},
		{"zzz", -1},
	}
	for _, tc := range cases {
		if got := matchButton(buttons, tc.answer); got != tc.want {
			t.Fatalf("answer %q: expected %d, got %d", tc.answer, tc.want, got)
		}
	}
	if got := matchButton(nil, "ok"); got != -1 {
		t.Fatalf("expected no match without buttons, got %d", got)
	}
}

func TestThrottleAllowsOncePerInterval(t *testing.T) {
	th := newThrottle(time.Hour)
	if !th.allow() {
		t.Fatalf("first call should pass")
	}
	if th.allow() {
		t.Fatalf("second call within interval should be held back")
	}
	th.reset()
	if !th.allow() {
		t.Fatalf("reset should let the next call through")
	}
	if !newThrottle(0).allow() || !newThrottle(0).allow() {
		t.Fatalf("zero interval never throttles")
	}
}

func TestDialogsAnswerImmediately(t *testing.T) {
	results := bus.NewResults()
	var out bytes.Buffer
	d := NewDialogs(boolSink{results}, Options{Out: &out, Answer: "yes"})
	if err := d.Show(1, dialog.Options{Title: "Save", Buttons: []string{"No", "Yes"}}, false); err != nil {
		t.Fatalf("show: %v", err)
	}
	got, ok := results.Get(1)
	if !ok || !got.IsButton(1) {
		t.Fatalf("expected ButtonPressed(1), got %v ok=%v", got, ok)
	}
	if len(d.Open()) != 0 {
		t.Fatalf("answered dialog should not stay open")
	}
	if !strings.Contains(out.String(), `pressed "Yes"`) {
		t.Fatalf("transcript missing answer:\n%s", out.String())
	}
}

func TestDialogsWithoutAnswerClose(t *testing.T) {
	results := bus.NewResults()
	d := NewDialogs(boolSink{results}, Options{})
	_ = d.Show(4, dialog.Options{Buttons: []string{"OK"}}, false)
	if got, _ := results.Get(4); got.Kind != dialog.WindowClosed {
		t.Fatalf("expected WindowClosed, got %v", got)
	}
}

func TestDialogsDelayedAnswerAndClose(t *testing.T) {
	results := bus.NewResults()
	d := NewDialogs(boolSink{results}, Options{Answer: "OK", Delay: time.Hour})
	_ = d.Show(2, dialog.Options{Buttons: []string{"OK"}}, false)
	if _, ok := results.Get(2); ok {
		t.Fatalf("answer should be pending")
	}
	d.Close(2)
	if got, _ := results.Get(2); got.Kind != dialog.WindowClosed {
		t.Fatalf("programmatic close should win over a pending answer, got %v", got)
	}
	d.Close(2)
}

func TestDialogsProgress(t *testing.T) {
	results := bus.NewResults()
	var out bytes.Buffer
	d := NewDialogs(boolSink{results}, Options{Out: &out})
	_ = d.Show(3, dialog.Options{Title: "copy", Message: "start"}, true)

	d.SetProgressValue(3, 1.5)
	snap, ok := d.Dialog(3)
	if !ok || snap.Value != 1 || snap.Text != "start" {
		t.Fatalf("unexpected snapshot %+v ok=%v", snap, ok)
	}
	d.SetProgressText(3, "halfway")
	d.SetProgressIndeterminate(3)
	snap, _ = d.Dialog(3)
	if !snap.Indeterminate || snap.Text != "halfway" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	d.SetProgressValue(99, 0.5)
	d.CloseAll()
	if got, _ := results.Get(3); got.Kind != dialog.WindowClosed {
		t.Fatalf("expected CloseAll to record WindowClosed, got %v", got)
	}
	if !strings.Contains(out.String(), "100% start") {
		t.Fatalf("transcript missing progress line:\n%s", out.String())
	}
}

func TestWebviewsRecordState(t *testing.T) {
	w := NewWebviews(Options{})
	size := dialog.Size{Width: 640, Height: 480}
	err := w.Show(5, dialog.WebviewOptions{Title: "hi", HTML: "<p>", Size: &size}, dispatcher.UIContext{Theme: dialog.ThemeMacOSDark})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	_ = w.SetTitle(5, "renamed")
	_ = w.SetPosition(5, 10, 20)
	_ = w.SetZoomLevel(5, 1.25)
	_ = w.SetWindowState(5, dialog.StateMaximized)
	_ = w.Eval(5, "go()")
	snap, ok := w.Window(5)
	if !ok {
		t.Fatalf("expected window 5")
	}
	if snap.Title != "renamed" || snap.Size != size || snap.Position != (dialog.Point{X: 10, Y: 20}) ||
		snap.Zoom != 1.25 || snap.State != dialog.StateMaximized || len(snap.Scripts) != 1 || snap.Theme != dialog.ThemeMacOSDark {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if err := w.SetHTML(77, "x"); err != nil {
		t.Fatalf("unknown id must be a no-op, got %v", err)
	}
	w.CloseAll()
	if len(w.Open()) != 0 {
		t.Fatalf("expected no open windows")
	}
}

func TestWebviewsFailShow(t *testing.T) {
	w := NewWebviews(Options{FailShow: true})
	err := w.Show(1, dialog.WebviewOptions{}, dispatcher.UIContext{})
	var be *bus.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
}

func TestEndToEndThroughDispatcher(t *testing.T) {
	testutil.QuietLogs(t)
	b := bus.New(bus.Options{PollInterval: 2 * time.Millisecond})
	dialogs := NewDialogs(b, Options{Answer: "retry"})
	webviews := NewWebviews(Options{})
	loop, err := dispatcher.ForBus(b, dialogs, webviews, dialog.ThemeWindows)
	if err != nil {
		t.Fatalf("ForBus: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	retry, err := proxy.ShowMessageRetryCancel(b, "t", "Failed", "again?", dialog.IconError)
	if err != nil || !retry {
		t.Fatalf("expected retry=true, got %v err=%v", retry, err)
	}

	invoked := make(chan string, 1)
	wv, err := proxy.ShowWebview(b, dialog.WebviewOptions{
		Title: "page",
		OnInvoke: proxy.Invoker(b, func(w *proxy.Webview, arg string) {
			_ = w.SetTitle("clicked " + arg)
			invoked <- arg
		}),
	})
	if err != nil {
		t.Fatalf("webview: %v", err)
	}
	if !webviews.Invoke(wv.ID(), "go") {
		t.Fatalf("invoke not delivered")
	}
	select {
	case arg := <-invoked:
		if arg != "go" {
			t.Fatalf("unexpected arg %q", arg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("invoke callback never ran")
	}
	testutil.WaitFor(t, time.Second, "title update", func() bool {
		snap, _ := webviews.Window(wv.ID())
		return snap.Title == "clicked go"
	})
}

// boolSink adapts a bare result store to the sink the managers expect.
type boolSink struct{ r *bus.Results }

func (s boolSink) InsertResult(id dialog.ID, result dialog.Result) bool {
	return s.r.Insert(id, result)
}
