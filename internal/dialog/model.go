// Package dialog holds the value types shared by callers, the bus and the
// backends: identifiers, dialog and webview options, and terminal results.
package dialog

import (
	"fmt"
	"strings"
)

// ID correlates every command and result touching one dialog, window or
// webview. Values are never reused within a process.
type ID uint64

// NoID is never issued by the allocator.
const NoID ID = 0

// Icon selects the glyph shown next to a message.
type Icon int

const (
	IconNone Icon = iota
	IconError
	IconWarning
	IconInformation
)

func (i Icon) String() string {
	switch i {
	case IconError:
		return "error"
	case IconWarning:
		return "warning"
	case IconInformation:
		return "information"
	default:
		return "none"
	}
}

// Options describes a message or progress dialog.
type Options struct {
	Title           string
	MainInstruction string
	Message         string
	Icon            Icon
	// Buttons may be empty, which collapses the button row.
	Buttons []string
}

// Clone returns a copy that shares no slices with o.
func (o Options) Clone() Options {
	dup := o
	if len(o.Buttons) > 0 {
		dup.Buttons = append([]string(nil), o.Buttons...)
	}
	return dup
}

// ResultKind enumerates the terminal outcomes of a dialog.
type ResultKind int

const (
	WindowClosed ResultKind = iota
	SilentMode
	TimeoutElapsed
	ButtonPressed
)

// Result is the terminal outcome of a message or progress dialog. Button is
// only meaningful when Kind is ButtonPressed.
type Result struct {
	Kind   ResultKind
	Button int
}

func Closed() Result         { return Result{Kind: WindowClosed} }
func Silent() Result         { return Result{Kind: SilentMode} }
func Timeout() Result        { return Result{Kind: TimeoutElapsed} }
func Pressed(idx int) Result { return Result{Kind: ButtonPressed, Button: idx} }

// IsButton reports whether r is ButtonPressed(idx).
func (r Result) IsButton(idx int) bool {
	return r.Kind == ButtonPressed && r.Button == idx
}

func (r Result) String() string {
	switch r.Kind {
	case WindowClosed:
		return "WindowClosed"
	case SilentMode:
		return "SilentMode"
	case TimeoutElapsed:
		return "TimeoutElapsed"
	case ButtonPressed:
		return fmt.Sprintf("ButtonPressed(%d)", r.Button)
	default:
		return fmt.Sprintf("Result(%d)", int(r.Kind))
	}
}

// WindowState is the presentation state of a webview window.
type WindowState int

const (
	StateNormal WindowState = iota
	StateHidden
	StateMinimized
	StateMaximized
	StateFullscreenBorderless
)

func (s WindowState) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateMinimized:
		return "minimized"
	case StateMaximized:
		return "maximized"
	case StateFullscreenBorderless:
		return "fullscreen"
	default:
		return "normal"
	}
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int
	Height int
}

// Point is a screen position in pixels.
type Point struct {
	X int
	Y int
}

// InvokeFunc receives messages posted by page script. It is never called on
// the UI goroutine.
type InvokeFunc func(id ID, arg string)

// WebviewOptions describes a webview window. Nil pointers mean "let the
// backend decide".
type WebviewOptions struct {
	Title      string
	HTML       string
	Size       *Size
	MinSize    *Size
	Position   *Point
	Resizable  bool
	Borderless bool
	State      WindowState
	OnInvoke   InvokeFunc
}

// DefaultWebviewOptions returns a visible, resizable, bordered window.
func DefaultWebviewOptions() WebviewOptions {
	return WebviewOptions{Resizable: true, State: StateNormal}
}

// Backend names the UI implementation chosen at startup.
type Backend int

const (
	BackendAutomatic Backend = iota
	BackendTUI
	BackendHeadless
)

func (b Backend) String() string {
	switch b {
	case BackendTUI:
		return "tui"
	case BackendHeadless:
		return "headless"
	default:
		return "auto"
	}
}

// ParseBackend accepts the names produced by Backend.String.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto", "automatic":
		return BackendAutomatic, nil
	case "tui", "terminal":
		return BackendTUI, nil
	case "headless", "none":
		return BackendHeadless, nil
	}
	return BackendAutomatic, fmt.Errorf("unknown backend %q", name)
}

// Theme selects the palette handed to the backend at startup.
type Theme int

const (
	ThemeSystemDefault Theme = iota
	ThemeWindows
	ThemeUbuntu
	ThemeMacOSLight
	ThemeMacOSDark
)

func (t Theme) String() string {
	switch t {
	case ThemeWindows:
		return "windows"
	case ThemeUbuntu:
		return "ubuntu"
	case ThemeMacOSLight:
		return "macos-light"
	case ThemeMacOSDark:
		return "macos-dark"
	default:
		return "system"
	}
}

// ParseTheme accepts the names produced by Theme.String.
func ParseTheme(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "system", "default":
		return ThemeSystemDefault, nil
	case "windows":
		return ThemeWindows, nil
	case "ubuntu":
		return ThemeUbuntu, nil
	case "macos-light", "macos":
		return ThemeMacOSLight, nil
	case "macos-dark":
		return ThemeMacOSDark, nil
	}
	return ThemeSystemDefault, fmt.Errorf("unknown theme %q", name)
}
