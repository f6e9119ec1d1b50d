package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/atomicstack/xdialog/internal/dialog"
)

// Webview selects the webview manager.
type Webview int

const (
	WebviewAuto Webview = iota
	WebviewBrowser
	WebviewHeadless
	WebviewNone
)

func (w Webview) String() string {
	switch w {
	case WebviewBrowser:
		return "browser"
	case WebviewHeadless:
		return "headless"
	case WebviewNone:
		return "none"
	default:
		return "auto"
	}
}

func ParseWebview(name string) (Webview, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return WebviewAuto, nil
	case "browser":
		return WebviewBrowser, nil
	case "headless":
		return WebviewHeadless, nil
	case "none", "off":
		return WebviewNone, nil
	}
	return WebviewAuto, fmt.Errorf("unknown webview engine %q", name)
}

// resolveBackend picks the terminal UI when both streams are a terminal and
// headless otherwise. Explicit choices are kept.
func resolveBackend(b dialog.Backend, in io.Reader, out io.Writer) dialog.Backend {
	if b != dialog.BackendAutomatic {
		return b
	}
	if isTerminal(in) && isTerminal(out) {
		return dialog.BackendTUI
	}
	return dialog.BackendHeadless
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
