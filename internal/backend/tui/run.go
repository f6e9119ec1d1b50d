package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/xdialog/internal/dispatcher"
)

// Options configure the terminal program.
type Options struct {
	Input     io.Reader
	Output    io.Writer
	AltScreen bool
}

// Run hosts loop inside a Bubble Tea program on the calling goroutine and
// returns once the dispatcher has terminated.
func Run(ctx context.Context, m *Model, loop *dispatcher.Loop, opts Options) error {
	m.Attach(loop)
	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(m, programOpts...).Run()
	// The program can end before the loop does (killed, context, input
	// error); settle everything still queued.
	loop.Shutdown()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
