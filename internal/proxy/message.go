// Package proxy is the caller-facing API. Every function is safe to call from
// any goroutine except the one running the dispatcher, and each translates
// into bus commands.
//
// Message dialogs are poll-style: the call returns once the result store
// holds a result for the dialog. Progress and webview construction, plus
// every webview mutation, are reply-style and block until the UI goroutine
// has answered.
package proxy

import (
	"time"

	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
	"github.com/atomicstack/xdialog/internal/logging/events"
)

// ShowMessage opens a message dialog and blocks until it is resolved.
func ShowMessage(b *bus.Bus, opts dialog.Options) (dialog.Result, error) {
	return showMessage(b, opts, 0)
}

// ShowMessageTimeout is ShowMessage with a wall-clock budget. When the budget
// runs out the dialog is closed and TimeoutElapsed is returned without
// waiting for the UI goroutine.
func ShowMessageTimeout(b *bus.Bus, opts dialog.Options, timeout time.Duration) (dialog.Result, error) {
	return showMessage(b, opts, timeout)
}

func ShowMessageInfoOK(b *bus.Bus, title, instruction, message string) error {
	_, err := showButtons(b, dialog.IconInformation, title, instruction, message, "OK")
	return err
}

func ShowMessageWarnOK(b *bus.Bus, title, instruction, message string) error {
	_, err := showButtons(b, dialog.IconWarning, title, instruction, message, "OK")
	return err
}

func ShowMessageErrorOK(b *bus.Bus, title, instruction, message string) error {
	_, err := showButtons(b, dialog.IconError, title, instruction, message, "OK")
	return err
}

// ShowMessageOKCancel reports true only when OK was pressed. Cancel, closing
// the window and silent mode all yield false.
func ShowMessageOKCancel(b *bus.Bus, title, instruction, message string, icon dialog.Icon) (bool, error) {
	return showChoice(b, icon, title, instruction, message, "Cancel", "OK")
}

func ShowMessageYesNo(b *bus.Bus, title, instruction, message string, icon dialog.Icon) (bool, error) {
	return showChoice(b, icon, title, instruction, message, "No", "Yes")
}

func ShowMessageRetryCancel(b *bus.Bus, title, instruction, message string, icon dialog.Icon) (bool, error) {
	return showChoice(b, icon, title, instruction, message, "Cancel", "Retry")
}

// showChoice lays buttons out as [negative, positive]; only index 1 counts.
func showChoice(b *bus.Bus, icon dialog.Icon, title, instruction, message, negative, positive string) (bool, error) {
	result, err := showButtons(b, icon, title, instruction, message, negative, positive)
	if err != nil {
		return false, err
	}
	return result.IsButton(1), nil
}

func showButtons(b *bus.Bus, icon dialog.Icon, title, instruction, message string, buttons ...string) (dialog.Result, error) {
	return ShowMessage(b, dialog.Options{
		Title:           title,
		MainInstruction: instruction,
		Message:         message,
		Icon:            icon,
		Buttons:         buttons,
	})
}

func showMessage(b *bus.Bus, opts dialog.Options, timeout time.Duration) (dialog.Result, error) {
	if b.SilentMode() {
		events.Bus.Silent(uint64(dialog.NoID), "message")
		return dialog.Silent(), nil
	}
	id, err := b.NextID()
	if err != nil {
		return dialog.Result{}, err
	}
	if err := b.Send(bus.NewShowMessageWindow(id, opts, nil)); err != nil {
		return dialog.Result{}, err
	}
	return awaitResult(b, id, timeout)
}

// awaitResult polls the store until id resolves. A non-positive timeout
// waits forever.
func awaitResult(b *bus.Bus, id dialog.ID, timeout time.Duration) (dialog.Result, error) {
	start := time.Now()
	ticker := time.NewTicker(b.PollInterval())
	defer ticker.Stop()
	for {
		if result, ok := b.Result(id); ok {
			return result, nil
		}
		if timeout > 0 && time.Since(start) >= timeout {
			return expire(b, id, time.Since(start))
		}
		<-ticker.C
	}
}

// expire claims the result slot with TimeoutElapsed and asks the UI to close
// the dialog. If a real result got there first, that result is returned and
// nothing is sent.
func expire(b *bus.Bus, id dialog.ID, waited time.Duration) (dialog.Result, error) {
	if !b.InsertResult(id, dialog.Timeout()) {
		if result, ok := b.Result(id); ok {
			return result, nil
		}
	}
	events.Bus.Timeout(uint64(id), waited.Milliseconds())
	if err := b.Send(bus.NewCloseWindow(id)); err != nil {
		return dialog.Timeout(), err
	}
	return dialog.Timeout(), nil
}
