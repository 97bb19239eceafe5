package tui

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"fotoroute/internal/gesture"
	"fotoroute/internal/nav"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.modal == modalPickFiles {
			m.picker.Height = filePickerHeight(m.height)
		}
		return m, nil

	case routeLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			m.log.WithError(msg.err).Warn("route load failed")
			return m, m.showMinibuffer("Could not load route: " + msg.err.Error())
		}
		m.loadErr = nil
		m.stale = msg.stale
		m.fetchedAt = msg.fetchedAt
		m.applyRoute(msg.route)
		return m, m.syncPosition()

	case transitionMsg:
		// Older transitions are superseded by the latest position.
		if msg.gen != m.sync.gen {
			return m, nil
		}
		m.displayed = m.sync.pos
		m.hasDisplayed = m.sync.pos.Index >= 0 && m.nav.Seq.Len() > 0
		m.fading = false
		return m, m.ensureThumb()

	case thumbLoadedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).WithField("thumb", msg.key).Debug("thumbnail failed")
		}
		m.thumbs.put(msg.key, msg.img, msg.err)
		return m, nil

	case clickExpiredMsg:
		// The arbiter resolves either way; stats only opens over the photo.
		if m.clicks.Expire(msg.ticket) == gesture.ClickPrimary && (m.modal == modalNone || m.modal == modalStats) {
			return m, m.openStats()
		}
		return m, nil

	case statsFrameMsg:
		if msg.seq != m.statsSeq || m.modal != modalStats {
			return m, nil
		}
		m.statsNow = time.Now()
		if m.statsNow.Sub(m.statsStart) >= statsCountUp {
			return m, nil
		}
		return m, m.statsFrameCmd()

	case tutorialDueMsg:
		if m.state.TutorialSeen || m.tutorialShownOnce || m.modal != modalNone {
			return m, nil
		}
		m.openTutorial()
		return m, nil

	case uploadDoneMsg:
		m.modal = modalNone
		m.pickedFiles = nil
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("upload failed")
			return m, m.showMinibuffer("Upload failed: " + msg.err.Error())
		}
		text := fmt.Sprintf("Uploaded %s of %s photos",
			humanize.Comma(int64(msg.res.Succeeded)), humanize.Comma(int64(msg.res.Total)))
		if n := len(msg.res.Failed); n > 0 {
			text += fmt.Sprintf(" (%d failed)", n)
		}
		m.loading = true
		return m, tea.Batch(m.showMinibuffer(text), m.loadRouteCmd())

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.minibufferText = ""
		}
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	// Directory listings arrive as the picker's own messages.
	if m.modal == modalPickFiles {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.persistState()
		return m, tea.Quit
	}

	switch m.modal {
	case modalPassword:
		return m.updatePassword(msg)
	case modalSearch:
		return m.updateSearch(msg)
	case modalPickFiles:
		return m.updateFilePicker(msg)
	case modalUploading:
		return m, nil
	case modalTutorial:
		switch msg.String() {
		case "esc", "enter", "q", "?", " ":
			m.closeTutorial()
		}
		return m, nil
	case modalStats:
		switch {
		case key.Matches(msg, m.keys.Stats):
			return m, m.handleStatsClick()
		case key.Matches(msg, m.keys.Help):
			m.openTutorial()
		case msg.String() == "esc", msg.String() == "enter", key.Matches(msg, m.keys.Quit):
			m.modal = modalNone
		}
		return m, nil
	}

	if k := m.keys.directionalKey(msg); k != gesture.KeyNone {
		m.router.Key(k)
		return m, m.syncPosition()
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.persistState()
		return m, tea.Quit
	case msg.String() == "esc":
		if m.fullscreen {
			m.fullscreen = false
		}
		return m, nil
	case key.Matches(msg, m.keys.First):
		m.nav.SetIndex(0)
		return m, m.syncPosition()
	case key.Matches(msg, m.keys.Last):
		m.nav.SetIndex(m.nav.Seq.Len() - 1)
		return m, m.syncPosition()
	case key.Matches(msg, m.keys.Fullscreen):
		return m, m.toggleFullscreen()
	case key.Matches(msg, m.keys.Stats):
		return m, m.handleStatsClick()
	case key.Matches(msg, m.keys.Search):
		return m, m.openSearch()
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, tea.Batch(m.showMinibuffer("Reloading route…"), m.loadRouteCmd())
	case key.Matches(msg, m.keys.Help):
		m.openTutorial()
		return m, nil
	}
	return m, nil
}

// updateMouse converts cell coordinates to pixels before handing drags to the
// router, so the swipe threshold keeps its pointer-distance meaning.
func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalNone {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
			(m.modal == modalStats || m.modal == modalTutorial) {
			if m.modal == modalTutorial {
				m.closeTutorial()
			} else {
				m.modal = modalNone
			}
		}
		return m, nil
	}

	l := m.layout()
	px := float64(msg.X * m.cellWidth())
	py := float64(msg.Y * m.cellHeight())

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.nav.Advance(nav.Backward)
			return m, m.syncPosition()
		case tea.MouseButtonWheelDown:
			m.nav.Advance(nav.Forward)
			return m, m.syncPosition()
		case tea.MouseButtonLeft:
		default:
			return m, nil
		}
		if l.statsBtn.contains(msg.X, msg.Y) {
			return m, m.handleStatsClick()
		}
		if i, ok := l.markerAt(msg.X, msg.Y, m.nav.Seq.Len()); ok {
			m.nav.SetIndex(i)
			return m, m.syncPosition()
		}
		if l.photo.contains(msg.X, msg.Y) {
			m.router.Press(px, py)
		}
		return m, nil

	case tea.MouseActionRelease:
		if !m.router.Pressed() {
			return m, nil
		}
		g := m.router.Release(px, py)
		switch g.Kind {
		case gesture.GestureTap:
			return m, m.toggleFullscreen()
		case gesture.GestureSwipe:
			return m, m.syncPosition()
		}
	}
	return m, nil
}

func (m appModel) updatePassword(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.latch.Clear()
		m.passwordInput.Reset()
		m.passwordInput.Blur()
		m.modal = modalNone
		return m, nil
	case "enter":
		secret := m.passwordInput.Value()
		m.passwordInput.Reset()
		m.passwordInput.Blur()
		if !m.latch.Arm(secret) {
			m.modal = modalNone
			return m, nil
		}
		return m, m.openFilePicker()
	}
	var cmd tea.Cmd
	m.passwordInput, cmd = m.passwordInput.Update(msg)
	return m, cmd
}

func (m appModel) updateFilePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.latch.Clear()
		m.pickedFiles = nil
		m.modal = modalNone
		return m, nil
	case "u":
		files := m.pickedFiles
		credential, ok := m.latch.Release(files)
		if !ok {
			m.pickedFiles = nil
			m.modal = modalNone
			return m, m.showMinibuffer("No photos selected")
		}
		m.modal = modalUploading
		m.log.WithField("files", len(files)).Info("upload started")
		return m, m.uploadCmd(files, credential)
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok && !slices.Contains(m.pickedFiles, path) {
		m.pickedFiles = append(m.pickedFiles, path)
	}
	return m, cmd
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.closeSearch()
		return m, nil
	case "enter":
		q := strings.TrimSpace(m.searchInput.Value())
		m.closeSearch()
		if q == "" {
			return m, nil
		}
		i, ok := nav.FindGroup(m.nav.Seq.Items(), q)
		if !ok {
			return m, m.showMinibuffer("No place matches " + strconv.Quote(q))
		}
		m.nav.SetIndex(i)
		return m, m.syncPosition()
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleStatsClick runs the stats control through the click arbiter: one
// click opens the stats once the window closes, two open the upload flow.
func (m *appModel) handleStatsClick() tea.Cmd {
	out, ticket := m.clicks.Click()
	switch out {
	case gesture.ClickPending:
		return tea.Tick(m.clicks.Window, func(time.Time) tea.Msg { return clickExpiredMsg{ticket: ticket} })
	case gesture.ClickSecondary:
		if m.modal == modalStats {
			m.modal = modalNone
		}
		return m.openPassword()
	}
	return nil
}

func (m *appModel) openStats() tea.Cmd {
	if m.route == nil {
		return m.showMinibuffer("Route not loaded yet")
	}
	m.modal = modalStats
	m.statsStart = time.Now()
	m.statsNow = m.statsStart
	m.statsSeq++
	return m.statsFrameCmd()
}

func (m *appModel) statsFrameCmd() tea.Cmd {
	seq := m.statsSeq
	return tea.Tick(statsFrameEvery, func(time.Time) tea.Msg { return statsFrameMsg{seq: seq} })
}

func (m *appModel) openPassword() tea.Cmd {
	if m.opts.Uploader == nil {
		return m.showMinibuffer("Uploads are not available for this source")
	}
	m.latch.Clear()
	m.passwordInput.Reset()
	m.modal = modalPassword
	return m.passwordInput.Focus()
}

func (m *appModel) openFilePicker() tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".jpg", ".jpeg", ".png", ".webp", ".JPG", ".JPEG", ".PNG", ".WEBP"}
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.ShowHidden = false
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = false
	fp.Height = filePickerHeight(m.height)
	fp.Cursor = "›"
	fp.KeyMap.Back = key.NewBinding(
		key.WithKeys("h", "backspace", "left"),
		key.WithHelp("h", "up"),
	)

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.DisabledFile = styleMuted()
	fp.Styles.DisabledSelected = styleMuted()
	fp.Styles.Permission = styleMuted()
	fp.Styles.FileSize = styleMuted().Width(fp.Styles.FileSize.GetWidth()).Align(lipgloss.Right)

	startDir := "."
	if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
		startDir = home
	}
	fp.CurrentDirectory = startDir

	m.picker = fp
	m.pickedFiles = nil
	m.modal = modalPickFiles
	return fp.Init()
}

func filePickerHeight(termHeight int) int {
	h := termHeight - 12
	if h < 5 {
		h = 5
	}
	return h
}

func (m *appModel) openSearch() tea.Cmd {
	if m.nav.Seq.Len() == 0 {
		return nil
	}
	m.searchInput.Reset()
	m.modal = modalSearch
	return m.searchInput.Focus()
}

func (m *appModel) closeSearch() {
	m.searchInput.Reset()
	m.searchInput.Blur()
	m.modal = modalNone
}

func (m *appModel) openTutorial() {
	m.modal = modalTutorial
	m.tutorialShownOnce = true
}

func (m *appModel) closeTutorial() {
	m.modal = modalNone
	if !m.state.TutorialSeen {
		m.state.TutorialSeen = true
		m.persistState()
	}
}

func (m *appModel) toggleFullscreen() tea.Cmd {
	if !m.hasDisplayed {
		return nil
	}
	m.fullscreen = !m.fullscreen
	return m.ensureThumb()
}

func (m *appModel) cellWidth() int {
	if m.opts.Viewer.CellWidthPx > 0 {
		return m.opts.Viewer.CellWidthPx
	}
	return 8
}

func (m *appModel) cellHeight() int {
	if m.opts.Viewer.CellHeightPx > 0 {
		return m.opts.Viewer.CellHeightPx
	}
	return 16
}
