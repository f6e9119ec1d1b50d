package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	reflowtruncate "github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

// View implements tea.Model. Only the newest dialog is drawn.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	e := m.top()
	if e == nil {
		return ""
	}
	width := m.dialogWidth()
	inner := m.innerWidth(width)
	s := m.styles

	lines := make([]string, 0, 8)
	if title := strings.TrimSpace(e.opts.Title); title != "" {
		lines = append(lines, s.Title.Render(ansi.Truncate(title, inner, "…")))
	}
	if instruction := strings.TrimSpace(e.opts.MainInstruction); instruction != "" {
		prefix := ""
		avail := inner
		if glyph := s.Icon(e.opts.Icon); glyph != "" {
			prefix = glyph + " "
			avail -= 2
		}
		lines = append(lines, prefix+s.Instruction.Render(wordwrap.String(instruction, avail)))
	} else if glyph := s.Icon(e.opts.Icon); glyph != "" {
		lines = append(lines, glyph)
	}
	if body := strings.TrimSpace(e.text); body != "" {
		lines = append(lines, "", s.Body.Render(wordwrap.String(body, inner)))
	}
	if e.progress {
		lines = append(lines, "", m.progressLine(e, inner))
	}
	if row := m.buttonRow(e, inner); row != "" {
		lines = append(lines, "", row)
	}

	frame := s.Frame.Width(inner + 2*s.Palette.Margin).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, frame, m.footer(e, width))
}

func (m *Model) progressLine(e *entry, inner int) string {
	if e.indeterminate {
		return m.spin.View() + " " + m.styles.ProgressText.Render("working…")
	}
	m.bar.Width = inner
	return m.bar.ViewAs(float64(e.value))
}

func (m *Model) buttonRow(e *entry, inner int) string {
	if e.progress || len(e.opts.Buttons) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(e.opts.Buttons)*2)
	gap := strings.Repeat(" ", m.styles.Palette.ButtonGap)
	for i, label := range e.opts.Buttons {
		style := m.styles.Button
		if i == e.focus {
			style = m.styles.FocusedButton
		}
		if i > 0 {
			rendered = append(rendered, gap)
		}
		rendered = append(rendered, style.Render(label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, rendered...)
	return lipgloss.PlaceHorizontal(inner, lipgloss.Right, row)
}

func (m *Model) footer(e *entry, width int) string {
	hints := "esc close"
	if !e.progress && len(e.opts.Buttons) > 0 {
		hints = "←/→ select · enter confirm · esc close"
	}
	if more := len(m.dialogs) - 1; more > 0 {
		hints = fmt.Sprintf("+%d more · %s", more, hints)
	}
	return m.styles.Footer.Render(reflowtruncate.StringWithTail(hints, uint(width), "…"))
}

func (m *Model) dialogWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	if w > maxDialogWidth {
		w = maxDialogWidth
	}
	if w < minDialogWidth {
		w = minDialogWidth
	}
	return w
}

// innerWidth is the text width inside the frame border and padding.
func (m *Model) innerWidth(width int) int {
	inner := width - 2 - 2*m.styles.Palette.Margin
	if inner < 8 {
		inner = 8
	}
	return inner
}
