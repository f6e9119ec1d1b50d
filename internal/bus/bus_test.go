package bus

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/xdialog/internal/dialog"
)

func TestNextIDStartsAtOneAndIncreases(t *testing.T) {
	b := New(Options{})
	first, err := b.NextID()
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if first != 1 {
		t.Fatalf("expected first id 1, got %d", first)
	}
	second, _ := b.NextID()
	if second <= first {
		t.Fatalf("expected increasing ids, got %d then %d", first, second)
	}
}

func TestNextIDUniqueAcrossGoroutines(t *testing.T) {
	b := New(Options{})
	const workers = 16
	const perWorker = 500
	ids := make(chan dialog.ID, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id, err := b.NextID()
				if err != nil {
					t.Errorf("next id: %v", err)
					return
				}
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)
	seen := make(map[dialog.ID]bool, workers*perWorker)
	for id := range ids {
		if id == dialog.NoID {
			t.Fatalf("allocator issued the reserved id")
		}
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d ids, got %d", workers*perWorker, len(seen))
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	a := New(Options{})
	b := New(Options{})
	_, _ = a.NextID()
	_, _ = a.NextID()
	id, _ := b.NextID()
	if id != 1 {
		t.Fatalf("expected fresh bus to start at 1, got %d", id)
	}
	a.InsertResult(1, dialog.Closed())
	if _, ok := b.Result(1); ok {
		t.Fatalf("result leaked between bus instances")
	}
}

func TestInsertResultFirstWriterWins(t *testing.T) {
	b := New(Options{})
	if !b.InsertResult(7, dialog.Pressed(1)) {
		t.Fatalf("expected first insert to be stored")
	}
	if b.InsertResult(7, dialog.Closed()) {
		t.Fatalf("expected second insert to be dropped")
	}
	got, ok := b.Result(7)
	if !ok || !got.IsButton(1) {
		t.Fatalf("expected ButtonPressed(1), got %v (ok=%v)", got, ok)
	}
}

func TestConcurrentCloseKeepsEarlierResult(t *testing.T) {
	b := New(Options{})
	id, _ := b.NextID()
	b.InsertResult(id, dialog.Closed())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = b.Send(NewCloseWindow(id))
	}()
	go func() {
		defer wg.Done()
		b.InsertResult(id, dialog.Pressed(0))
	}()
	wg.Wait()

	got, _ := b.Result(id)
	if got.Kind != dialog.WindowClosed {
		t.Fatalf("expected WindowClosed to survive, got %v", got)
	}
}

func TestUninitializedBusReportsTypedError(t *testing.T) {
	var nilBus *Bus
	zero := &Bus{}
	for name, b := range map[string]*Bus{"nil": nilBus, "zero": zero} {
		if _, err := b.NextID(); !errors.Is(err, ErrNotInitialized) {
			t.Fatalf("%s: expected ErrNotInitialized from NextID, got %v", name, err)
		}
		if err := b.Send(NewNone()); !errors.Is(err, ErrNotInitialized) {
			t.Fatalf("%s: expected ErrNotInitialized from Send, got %v", name, err)
		}
		if b.InsertResult(1, dialog.Closed()) {
			t.Fatalf("%s: insert should fail", name)
		}
		if _, ok := b.Result(1); ok {
			t.Fatalf("%s: result should be absent", name)
		}
		if b.Commands() != nil {
			t.Fatalf("%s: expected no command queue", name)
		}
	}
}

func TestSendAfterShutdownFails(t *testing.T) {
	b := New(Options{})
	_ = b.Send(NewSetProgressValue(1, 0.5))
	rest := b.Shutdown()
	if len(rest) != 1 {
		t.Fatalf("expected 1 leftover command, got %d", len(rest))
	}
	err := b.Send(NewCloseWindow(1))
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}
}

func TestSendPreservesOrder(t *testing.T) {
	b := New(Options{})
	_ = b.Send(NewSetProgressValue(3, 0.1))
	_ = b.Send(NewSetProgressText(3, "half"))
	_ = b.Send(NewCloseWindow(3))
	q := b.Commands()
	want := []string{"SetProgressValue", "SetProgressText", "CloseWindow"}
	for _, name := range want {
		cmd, ok := q.TryPop()
		if !ok {
			t.Fatalf("expected %s, queue empty", name)
		}
		if got := Name(cmd); got != name {
			t.Fatalf("expected %s, got %s", name, got)
		}
		if cmd.Target() != 3 {
			t.Fatalf("expected target 3, got %d", cmd.Target())
		}
	}
}

func TestSilentModeToggle(t *testing.T) {
	b := New(Options{Silent: true})
	if !b.SilentMode() {
		t.Fatalf("expected silent mode from options")
	}
	b.SetSilentMode(false)
	if b.SilentMode() {
		t.Fatalf("expected silent mode off")
	}
}

func TestPollIntervalDefault(t *testing.T) {
	if got := New(Options{}).PollInterval(); got != DefaultPollInterval {
		t.Fatalf("expected default poll interval, got %v", got)
	}
	if got := New(Options{PollInterval: 5 * time.Millisecond}).PollInterval(); got != 5*time.Millisecond {
		t.Fatalf("expected 5ms, got %v", got)
	}
}

func TestReplySettlesOnce(t *testing.T) {
	r := NewReply()
	r.Send(nil)
	r.Send(errors.New("late"))
	r.Drop()
	if err := r.Wait(); err != nil {
		t.Fatalf("expected first send to win, got %v", err)
	}
}

func TestReplyDropYieldsNoResult(t *testing.T) {
	r := NewReply()
	r.Drop()
	r.Send(nil)
	if err := r.Wait(); !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestReplyWaitBlocksUntilSend(t *testing.T) {
	r := NewReply()
	done := make(chan error, 1)
	go func() { done <- r.Wait() }()
	select {
	case <-done:
		t.Fatalf("wait returned before send")
	case <-time.After(20 * time.Millisecond):
	}
	r.Send(Backendf("engine %s unavailable", "webkit"))
	select {
	case err := <-done:
		var be *BackendError
		if !errors.As(err, &be) {
			t.Fatalf("expected BackendError, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("wait did not return after send")
	}
}

func TestAsBackendErrorWraps(t *testing.T) {
	if AsBackendError(nil) != nil {
		t.Fatalf("expected nil passthrough")
	}
	err := AsBackendError(errors.New("no display"))
	var be *BackendError
	if !errors.As(err, &be) || be.Reason != "no display" {
		t.Fatalf("expected BackendError with reason, got %v", err)
	}
	orig := Backendf("x")
	if AsBackendError(orig) != error(orig) {
		t.Fatalf("expected existing BackendError to pass through")
	}
}

func TestReplyOfAndName(t *testing.T) {
	r := NewReply()
	if ReplyOf(NewWebviewEval(1, "1+1", r)) != r {
		t.Fatalf("expected reply from WebviewEval")
	}
	if ReplyOf(NewSetProgressValue(1, 1)) != nil {
		t.Fatalf("expected no reply on progress value")
	}
	if Name(NewExitEventLoop()) != "ExitEventLoop" {
		t.Fatalf("unexpected name %q", Name(NewExitEventLoop()))
	}
}
