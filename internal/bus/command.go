package bus

import (
	"fmt"
	"strings"

	"github.com/atomicstack/xdialog/internal/dialog"
)

// Command is one request for the UI goroutine. The set is closed: only the
// types declared in this file implement it.
type Command interface {
	// Target is the dialog the command touches, or dialog.NoID.
	Target() dialog.ID
	command()
}

type target dialog.ID

func (t target) Target() dialog.ID { return dialog.ID(t) }
func (target) command()            {}

// None is a no-op; the dispatcher skips it.
type None struct{ target }

// ExitEventLoop closes every window and stops the dispatcher.
type ExitEventLoop struct{ target }

// CloseWindow closes whichever dialog or webview owns the id.
type CloseWindow struct{ target }

type ShowMessageWindow struct {
	target
	Options dialog.Options
	// Reply is optional; poll-style callers leave it nil.
	Reply *Reply
}

type ShowProgressWindow struct {
	target
	Options dialog.Options
	Reply   *Reply
}

type SetProgressIndeterminate struct{ target }

type SetProgressValue struct {
	target
	Value float32
}

type SetProgressText struct {
	target
	Text string
}

type WebviewWindowShow struct {
	target
	Options dialog.WebviewOptions
	Reply   *Reply
}

type WebviewSetTitle struct {
	target
	Title string
	Reply *Reply
}

type WebviewSetHTML struct {
	target
	HTML  string
	Reply *Reply
}

type WebviewSetPosition struct {
	target
	X, Y  int
	Reply *Reply
}

type WebviewSetSize struct {
	target
	Width, Height int
	Reply         *Reply
}

type WebviewSetZoomLevel struct {
	target
	Zoom  float64
	Reply *Reply
}

type WebviewSetWindowState struct {
	target
	State dialog.WindowState
	Reply *Reply
}

type WebviewEval struct {
	target
	Script string
	Reply  *Reply
}

func NewNone() None                           { return None{} }
func NewExitEventLoop() ExitEventLoop         { return ExitEventLoop{} }
func NewCloseWindow(id dialog.ID) CloseWindow { return CloseWindow{target(id)} }

func NewShowMessageWindow(id dialog.ID, opts dialog.Options, reply *Reply) ShowMessageWindow {
	return ShowMessageWindow{target: target(id), Options: opts.Clone(), Reply: reply}
}

func NewShowProgressWindow(id dialog.ID, opts dialog.Options, reply *Reply) ShowProgressWindow {
	return ShowProgressWindow{target: target(id), Options: opts.Clone(), Reply: reply}
}

func NewSetProgressIndeterminate(id dialog.ID) SetProgressIndeterminate {
	return SetProgressIndeterminate{target(id)}
}

func NewSetProgressValue(id dialog.ID, value float32) SetProgressValue {
	return SetProgressValue{target: target(id), Value: value}
}

func NewSetProgressText(id dialog.ID, text string) SetProgressText {
	return SetProgressText{target: target(id), Text: text}
}

func NewWebviewWindowShow(id dialog.ID, opts dialog.WebviewOptions, reply *Reply) WebviewWindowShow {
	return WebviewWindowShow{target: target(id), Options: opts, Reply: reply}
}

func NewWebviewSetTitle(id dialog.ID, title string, reply *Reply) WebviewSetTitle {
	return WebviewSetTitle{target: target(id), Title: title, Reply: reply}
}

func NewWebviewSetHTML(id dialog.ID, html string, reply *Reply) WebviewSetHTML {
	return WebviewSetHTML{target: target(id), HTML: html, Reply: reply}
}

func NewWebviewSetPosition(id dialog.ID, x, y int, reply *Reply) WebviewSetPosition {
	return WebviewSetPosition{target: target(id), X: x, Y: y, Reply: reply}
}

func NewWebviewSetSize(id dialog.ID, width, height int, reply *Reply) WebviewSetSize {
	return WebviewSetSize{target: target(id), Width: width, Height: height, Reply: reply}
}

func NewWebviewSetZoomLevel(id dialog.ID, zoom float64, reply *Reply) WebviewSetZoomLevel {
	return WebviewSetZoomLevel{target: target(id), Zoom: zoom, Reply: reply}
}

func NewWebviewSetWindowState(id dialog.ID, state dialog.WindowState, reply *Reply) WebviewSetWindowState {
	return WebviewSetWindowState{target: target(id), State: state, Reply: reply}
}

func NewWebviewEval(id dialog.ID, script string, reply *Reply) WebviewEval {
	return WebviewEval{target: target(id), Script: script, Reply: reply}
}

// ReplyOf returns the reply slot carried by cmd, or nil.
func ReplyOf(cmd Command) *Reply {
	switch c := cmd.(type) {
	case ShowMessageWindow:
		return c.Reply
	case ShowProgressWindow:
		return c.Reply
	case WebviewWindowShow:
		return c.Reply
	case WebviewSetTitle:
		return c.Reply
	case WebviewSetHTML:
		return c.Reply
	case WebviewSetPosition:
		return c.Reply
	case WebviewSetSize:
		return c.Reply
	case WebviewSetZoomLevel:
		return c.Reply
	case WebviewSetWindowState:
		return c.Reply
	case WebviewEval:
		return c.Reply
	}
	return nil
}

// Name is the unqualified type name of cmd, used in traces.
func Name(cmd Command) string {
	if cmd == nil {
		return "<nil>"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", cmd), "bus.")
}
