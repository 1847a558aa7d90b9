package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jward/arbor/internal/ui"
)

// errNotTerminal is returned when the explorer is started without a TTY.
var errNotTerminal = errors.New("stdout is not a terminal; use 'arbor dump' for non-interactive output")

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) runExplore(ctx context.Context, path string) error {
	s, err := a.open(ctx, path)
	if err != nil {
		return err
	}
	defer s.Close()

	if !isTerminal(a.stdout) {
		return errNotTerminal
	}

	m := ui.New(s,
		ui.WithTheme(ui.DefaultTheme(a.cfg.UI.Colors)),
		ui.WithDetailsRatio(a.cfg.UI.DetailsRatio),
	)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(a.stdin),
		tea.WithOutput(a.stdout),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running explorer: %w", err)
	}
	return nil
}
