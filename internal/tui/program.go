package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mietradar/mietradar/internal/config"
	"github.com/mietradar/mietradar/internal/refdata"
)

// Run starts the interactive session and blocks until the user quits.
func Run(settings *config.Settings, table *refdata.Table) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("not running in a terminal")
	}

	p := tea.NewProgram(NewAppModel(settings, table), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive session: %w", err)
	}
	return nil
}
