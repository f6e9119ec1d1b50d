package theme

import (
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/atomicstack/xdialog/internal/dialog"
)

// Palette holds the hex colours of one dialog theme. The terminal styles and
// the browser stylesheet are both derived from it.
type Palette struct {
	Name         string
	Background   string
	Panel        string
	Foreground   string
	Muted        string
	Accent       string
	ButtonFill   string
	ButtonBorder string
	Error        string
	Warning      string
	Info         string
	// ButtonGap is the number of cells between buttons.
	ButtonGap int
	// Margin is the inner padding of the dialog frame, in cells.
	Margin int
}

var palettes = map[dialog.Theme]Palette{
	dialog.ThemeWindows: {
		Name:         "windows",
		Background:   "#FFFFFF",
		Panel:        "#F0F0F0",
		Foreground:   "#1A1A1A",
		Muted:        "#5F5F5F",
		Accent:       "#0078D4",
		ButtonFill:   "#FDFDFD",
		ButtonBorder: "#D0D0D0",
		Error:        "#C42B1C",
		Warning:      "#9D5D00",
		Info:         "#003399",
		ButtonGap:    2,
		Margin:       1,
	},
	dialog.ThemeUbuntu: {
		Name:         "ubuntu",
		Background:   "#FAFAFA",
		Panel:        "#FAFAFA",
		Foreground:   "#3D3D3D",
		Muted:        "#7A7A7A",
		Accent:       "#E95420",
		ButtonFill:   "#FFFFFF",
		ButtonBorder: "#C7C7C7",
		Error:        "#C7162B",
		Warning:      "#F99B11",
		Info:         "#335280",
		ButtonGap:    1,
		Margin:       2,
	},
	dialog.ThemeMacOSLight: {
		Name:         "macos-light",
		Background:   "#FFFFFF",
		Panel:        "#ECECEC",
		Foreground:   "#1D1D1F",
		Muted:        "#6E6E73",
		Accent:       "#007AFF",
		ButtonFill:   "#FFFFFF",
		ButtonBorder: "#C8C8C8",
		Error:        "#FF3B30",
		Warning:      "#FF9500",
		Info:         "#007AFF",
		ButtonGap:    2,
		Margin:       2,
	},
	dialog.ThemeMacOSDark: {
		Name:         "macos-dark",
		Background:   "#1E1E1E",
		Panel:        "#2A2A2A",
		Foreground:   "#F5F5F7",
		Muted:        "#98989D",
		Accent:       "#0A84FF",
		ButtonFill:   "#3A3A3C",
		ButtonBorder: "#545458",
		Error:        "#FF453A",
		Warning:      "#FF9F0A",
		Info:         "#0A84FF",
		ButtonGap:    2,
		Margin:       2,
	},
}

// Resolve maps SystemDefault onto the concrete theme for this platform.
func Resolve(t dialog.Theme) dialog.Theme {
	if _, ok := palettes[t]; ok {
		return t
	}
	switch runtime.GOOS {
	case "windows":
		return dialog.ThemeWindows
	case "darwin":
		return dialog.ThemeMacOSLight
	default:
		return dialog.ThemeUbuntu
	}
}

func PaletteFor(t dialog.Theme) Palette {
	return palettes[Resolve(t)]
}

// Styles describes the Lip Gloss styles of a terminal dialog.
type Styles struct {
	Frame         *lipgloss.Style
	Title         *lipgloss.Style
	Instruction   *lipgloss.Style
	Body          *lipgloss.Style
	Button        *lipgloss.Style
	FocusedButton *lipgloss.Style
	ProgressText  *lipgloss.Style
	Footer        *lipgloss.Style
	Error         *lipgloss.Style
	Warning       *lipgloss.Style
	Info          *lipgloss.Style

	Palette Palette
}

// For builds the style set of t.
func For(t dialog.Theme) *Styles {
	p := PaletteFor(t)
	fg := lipgloss.Color(p.Foreground)
	return &Styles{
		Frame: ptr(
			lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(p.ButtonBorder)).Padding(0, p.Margin),
		),
		Title: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).Bold(true),
		),
		Instruction: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)).Bold(true),
		),
		Body: ptr(
			lipgloss.NewStyle().Foreground(fg),
		),
		Button: ptr(
			lipgloss.NewStyle().Foreground(fg).Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(p.ButtonBorder)).Padding(0, 2),
		),
		FocusedButton: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)).Bold(true).Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color(p.Accent)).Padding(0, 2),
		),
		ProgressText: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).Italic(true),
		),
		Footer: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		),
		Error: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)).Bold(true),
		),
		Warning: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning)).Bold(true),
		),
		Info: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.Info)).Bold(true),
		),
		Palette: p,
	}
}

// Icon renders the glyph for icon, or "" for IconNone.
func (s *Styles) Icon(icon dialog.Icon) string {
	switch icon {
	case dialog.IconError:
		return s.Error.Render("✖")
	case dialog.IconWarning:
		return s.Warning.Render("⚠")
	case dialog.IconInformation:
		return s.Info.Render("ℹ")
	default:
		return ""
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
