package browser

import (
	"encoding/json"

	"github.com/atomicstack/xdialog/internal/dialog"
)

// Ops pushed to the page.
const (
	opSync     = "sync"
	opTitle    = "title"
	opHTML     = "set_html"
	opPosition = "position"
	opSize     = "size"
	opZoom     = "zoom"
	opState    = "state"
	opEval     = "eval"
	opClose    = "close"
)

// frame is one message pushed to a page. A sync frame carries the whole
// window state; other ops carry only their own fields.
type frame struct {
	Op         string  `json:"op"`
	Title      string  `json:"title,omitempty"`
	HTML       string  `json:"html,omitempty"`
	Script     string  `json:"script,omitempty"`
	X          int     `json:"x,omitempty"`
	Y          int     `json:"y,omitempty"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	MinWidth   int     `json:"min_width,omitempty"`
	MinHeight  int     `json:"min_height,omitempty"`
	Zoom       float64 `json:"zoom,omitempty"`
	State      string  `json:"state,omitempty"`
	Resizable  bool    `json:"resizable,omitempty"`
	Borderless bool    `json:"borderless,omitempty"`
}

// pageMessage is what page script posts back.
type pageMessage struct {
	Type string `json:"type"`
	Arg  string `json:"arg"`
}

func syncFrame(opts dialog.WebviewOptions) frame {
	f := frame{
		Op:         opSync,
		Title:      opts.Title,
		HTML:       opts.HTML,
		Zoom:       1,
		State:      opts.State.String(),
		Resizable:  opts.Resizable,
		Borderless: opts.Borderless,
	}
	if opts.Size != nil {
		f.Width, f.Height = opts.Size.Width, opts.Size.Height
	}
	if opts.MinSize != nil {
		f.MinWidth, f.MinHeight = opts.MinSize.Width, opts.MinSize.Height
	}
	if opts.Position != nil {
		f.X, f.Y = opts.Position.X, opts.Position.Y
	}
	return f
}

func encode(f frame) []byte {
	data, err := json.Marshal(f)
	if err != nil {
		return nil
	}
	return data
}
