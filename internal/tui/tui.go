package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the viewer and blocks until it exits.
func Run(opts Options) error {
	applyThemePreference()
	profile := applyColorProfilePreference()

	state, err := opts.Store.LoadViewerState()
	if err != nil {
		return err
	}
	m := newAppModel(opts, state)
	m.profile = profile
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
