package main

import (
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/atomicstack/xdialog/internal/app"
	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
	"github.com/atomicstack/xdialog/internal/logging"
	"github.com/atomicstack/xdialog/internal/proxy"
)

type demo func(b *bus.Bus) error

var (
	demoOrder = []string{"message", "progress", "webview"}
	demos     = map[string]demo{
		"message":  messageDemo,
		"progress": progressDemo,
		"webview":  webviewDemo,
	}

	// progressStep is the pause between progress updates.
	progressStep = 150 * time.Millisecond
	// selfCloseAfter is how long the self-closing message stays up.
	selfCloseAfter = 3 * time.Second
)

// demoMain runs the named demo, or all of them, as the user program.
func demoMain(name string) app.Main {
	return func(b *bus.Bus) int {
		names := []string{name}
		if name == "" || name == "all" {
			names = demoOrder
		}
		for _, n := range names {
			run, ok := demos[n]
			if !ok {
				logging.Error(fmt.Errorf("unknown demo %q", n))
				return 2
			}
			if err := run(b); err != nil {
				logging.Error(fmt.Errorf("demo %s: %w", n, err))
				return 1
			}
		}
		return 0
	}
}

func messageDemo(b *bus.Bus) error {
	if err := proxy.ShowMessageInfoOK(b, "xdialog", "Welcome to xdialog",
		"Dialogs are drawn by the UI loop while this program keeps running."); err != nil {
		return err
	}
	liked, err := proxy.ShowMessageYesNo(b, "xdialog", "Do you like it?",
		"Answer with the buttons below.", dialog.IconInformation)
	if err != nil {
		return err
	}
	if liked {
		err = proxy.ShowMessageInfoOK(b, "xdialog", "Glad to hear it", "")
	} else {
		err = proxy.ShowMessageWarnOK(b, "xdialog", "Sorry to hear that", "")
	}
	if err != nil {
		return err
	}
	_, err = proxy.ShowMessageTimeout(b, dialog.Options{
		Title:           "xdialog",
		MainInstruction: "This message closes itself",
		Message:         fmt.Sprintf("It times out after %s.", selfCloseAfter),
		Icon:            dialog.IconWarning,
		Buttons:         []string{"Close now"},
	}, selfCloseAfter)
	if err != nil {
		return err
	}
	return proxy.ShowMessageErrorOK(b, "xdialog", "Something went wrong",
		"This is what an error looks like.")
}

func progressDemo(b *bus.Bus) error {
	p, err := proxy.ShowProgress(b, "xdialog", "Copying files", "Preparing", dialog.IconInformation)
	if err != nil {
		return err
	}
	const steps = 10
	for i := 0; i <= steps; i++ {
		// The user may close the dialog early.
		if _, done := p.Result(); done {
			return nil
		}
		if err := p.SetValue(float32(i) / steps); err != nil {
			return err
		}
		if err := p.SetText(fmt.Sprintf("Step %d of %d", i, steps)); err != nil {
			return err
		}
		time.Sleep(progressStep)
	}
	if err := p.SetIndeterminate(); err != nil {
		return err
	}
	if err := p.SetText("Finishing up"); err != nil {
		return err
	}
	time.Sleep(3 * progressStep)
	return p.Close()
}

const demoPage = `<h1>xdialog webview</h1>
<p>Type your name and press the button.</p>
<input id="name" value="world">
<button onclick="window.external.invoke(document.getElementById('name').value)">Greet</button>`

func webviewDemo(b *bus.Bus) error {
	opts := dialog.DefaultWebviewOptions()
	opts.Title = "xdialog webview"
	opts.HTML = demoPage
	opts.Size = &dialog.Size{Width: 480, Height: 320}
	opts.MinSize = &dialog.Size{Width: 320, Height: 200}
	opts.OnInvoke = proxy.Invoker(b, func(w *proxy.Webview, arg string) {
		greeting := fmt.Sprintf("<h1>Hello, %s!</h1>", html.EscapeString(arg))
		if err := w.SetHTML(greeting); err != nil {
			logging.Error(fmt.Errorf("webview %d: %w", w.ID(), err))
		}
	})

	w, err := proxy.ShowWebview(b, opts)
	var be *bus.BackendError
	if errors.As(err, &be) {
		return proxy.ShowMessageWarnOK(b, "xdialog", "Webviews are unavailable", be.Reason)
	}
	if err != nil {
		return err
	}
	if err := w.Eval(`document.getElementById("name").focus()`); err != nil {
		return err
	}
	if err := proxy.ShowMessageInfoOK(b, "xdialog", "A webview is open",
		"Use the page, then press OK to close it."); err != nil {
		return err
	}
	return w.Close()
}
