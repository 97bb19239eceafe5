package tui

import (
	"fmt"
	"math"
	"strings"

	"fotoroute/internal/feed"
	"fotoroute/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

const (
	appTitle          = "fotoroute"
	statsButtonLabel  = "[ Stats ]"
	markerPanelWidth  = 34
	minMarkerLayoutW  = 80
	captionLines      = 2
	defaultTermWidth  = 80
	defaultTermHeight = 24
)

type box struct{ x, y, w, h int }

func (b box) contains(x, y int) bool {
	return b.w > 0 && b.h > 0 && x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h
}

// viewLayout places every region on screen. View renders from it and mouse
// handling hit-tests against it, so both always agree.
type viewLayout struct {
	width, height int

	header   box
	statsBtn box
	status   box
	photo    box
	markers  box
	strip    box
	footer   box

	// markerTop is the index of the photo on the first marker row.
	markerTop int
}

func (m *appModel) layout() viewLayout {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultTermWidth
	}
	if h <= 0 {
		h = defaultTermHeight
	}
	l := viewLayout{width: w, height: h}
	if m.fullscreen {
		l.photo = box{0, 0, w, h}
		return l
	}

	btnW := lipgloss.Width(statsButtonLabel)
	l.header = box{0, 0, w, 1}
	l.statsBtn = box{w - btnW, 0, btnW, 1}
	l.status = box{0, 1, w, 1}
	bodyH := h - 4
	if bodyH < captionLines+1 {
		bodyH = captionLines + 1
	}
	l.strip = box{0, 2 + bodyH, w, 1}
	l.footer = box{0, 3 + bodyH, w, 1}

	photoW := w
	if w >= minMarkerLayoutW {
		photoW = w - markerPanelWidth
		l.markers = box{photoW, 2, markerPanelWidth, bodyH}
		l.markerTop = markerWindowTop(m.nav.Seq.Index(), m.nav.Seq.Len(), bodyH)
	}
	l.photo = box{0, 2, photoW, bodyH}
	return l
}

// markerWindowTop keeps the cursor roughly centred in the marker list.
func markerWindowTop(cur, n, rows int) int {
	if rows <= 0 || n <= rows || cur < 0 {
		return 0
	}
	top := cur - rows/2
	if top < 0 {
		top = 0
	}
	if top > n-rows {
		top = n - rows
	}
	return top
}

func (l viewLayout) markerAt(x, y, n int) (int, bool) {
	if !l.markers.contains(x, y) {
		return 0, false
	}
	i := l.markerTop + (y - l.markers.y)
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

func (m appModel) View() string {
	l := m.layout()
	if m.modal != modalNone {
		return lipgloss.Place(l.width, l.height, lipgloss.Center, lipgloss.Center, m.viewModal(l.width))
	}
	if m.fullscreen {
		return m.viewPhoto(l.photo, 1)
	}

	body := m.viewPhoto(l.photo, captionLines)
	if l.markers.w > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.viewMarkers(l))
	}
	return strings.Join([]string{
		m.viewHeader(l),
		m.viewStatus(l.status.w),
		body,
		m.viewRouteStrip(l.strip.w),
		m.viewFooter(l.footer.w),
	}, "\n")
}

func (m appModel) viewHeader(l viewLayout) string {
	title := styleTitle().Render(appTitle)
	if src := m.opts.Source; src != nil {
		title += "  " + styleMuted().Render(src.Key())
	}
	btn := styleButton().Render(statsButtonLabel)
	room := l.header.w - l.statsBtn.w - 1
	title = ansi.Truncate(title, room, "…")
	gap := l.header.w - lipgloss.Width(title) - l.statsBtn.w
	if gap < 0 {
		gap = 0
	}
	return title + strings.Repeat(" ", gap) + btn
}

func (m appModel) viewStatus(w int) string {
	var s string
	switch {
	case m.loading && m.route == nil:
		s = styleMuted().Render("Loading route…")
	case m.route == nil && m.loadErr != nil:
		s = lipgloss.NewStyle().Foreground(colorWarn).Render("Could not load route: " + m.loadErr.Error())
	case m.stale:
		s = lipgloss.NewStyle().Foreground(colorWarn).
			Render("Offline: showing the route cached " + humanize.Time(m.fetchedAt))
	case m.route != nil:
		st := m.routeStats()
		s = styleMuted().Render(fmt.Sprintf("%s photos · %s countries · %s days",
			humanize.Comma(int64(st.PhotoCount)), humanize.Comma(int64(st.Countries)), humanize.Comma(int64(st.Days))))
	}
	return ansi.Truncate(s, w, "…")
}

func (m appModel) viewPhoto(b box, caption int) string {
	imgH := b.h - caption
	if imgH < 1 {
		imgH = 1
	}

	var img string
	switch {
	case !m.hasDisplayed && m.loading:
		img = styleMuted().Render("Loading…")
	case !m.hasDisplayed:
		img = styleMuted().Render("No photos yet")
	case !m.opts.Viewer.Thumbnails:
		img = ""
	default:
		key, e := m.currentThumb()
		switch {
		case e == nil || e.pending:
			img = styleMuted().Render("loading photo…")
		case e.err != nil:
			img = styleMuted().Render("photo unavailable")
		default:
			img = m.thumbs.render(key, e.img, b.w, imgH, m.profile)
		}
	}
	block := lipgloss.Place(b.w, imgH, lipgloss.Center, lipgloss.Center, img)
	if caption <= 0 {
		return block
	}
	return block + "\n" + m.viewCaption(b.w, caption)
}

func (m appModel) viewCaption(w, lines int) string {
	if !m.hasDisplayed {
		return strings.Repeat("\n", lines-1)
	}
	p := m.displayed.Item.Photo
	place := styleTitle().Render(p.DisplayLocation())
	if m.fading {
		place = styleMuted().Render(p.DisplayLocation())
	}
	first := place + "  " + styleMuted().Render(p.DisplayDate())
	second := styleMuted().Render(fmt.Sprintf("%d / %d  ·  %s",
		m.displayed.Index+1, m.nav.Seq.Len(), m.displayed.Item.Group))
	if lines == 1 {
		return ansi.Truncate(first+"  "+second, w, "…")
	}
	out := []string{ansi.Truncate(first, w, "…"), ansi.Truncate(second, w, "…")}
	for len(out) < lines {
		out = append(out, "")
	}
	return strings.Join(out[:lines], "\n")
}

func (m appModel) viewMarkers(l viewLayout) string {
	b := l.markers
	items := m.nav.Seq.Items()
	cur := m.nav.Seq.Index()

	rows := make([]string, 0, b.h)
	for i := l.markerTop; i < len(items) && len(rows) < b.h; i++ {
		p := items[i].Photo
		glyph := lipgloss.NewStyle().Foreground(colorMarker).Render("·")
		if i == cur {
			glyph = "●"
		}
		line := fmt.Sprintf(" %s %7.2f %8.2f  %s", glyph, p.Lat, p.Lon, p.DisplayLocation())
		line = ansi.Truncate(line, b.w, "…")
		if i == cur {
			line = styleActiveRow().Width(b.w).Render(line)
		}
		rows = append(rows, line)
	}
	return lipgloss.NewStyle().Width(b.w).Height(b.h).Render(strings.Join(rows, "\n"))
}

// viewRouteStrip lists the group runs in order with the current one
// highlighted.
func (m appModel) viewRouteStrip(w int) string {
	items := m.nav.Seq.Items()
	if len(items) == 0 {
		return ""
	}
	cur := m.nav.Seq.Index()
	starts := m.nav.Runs()
	active := 0
	for i, s := range starts {
		if s <= cur {
			active = i
		}
	}
	parts := make([]string, 0, len(starts))
	for i, s := range starts {
		g := items[s].Group
		if i == active {
			parts = append(parts, styleButton().Render(" "+g+" "))
			continue
		}
		parts = append(parts, styleMuted().Render(g))
	}
	return ansi.Truncate(strings.Join(parts, styleMuted().Render(" › ")), w, "…")
}

func (m appModel) viewFooter(w int) string {
	if m.minibufferText != "" {
		return ansi.Truncate(m.minibufferText, w, "…")
	}
	return ansi.Truncate(m.help.ShortHelpView(m.keys.ShortHelp()), w, "…")
}

func (m appModel) routeStats() model.Stats {
	if m.route == nil {
		return model.Stats{}
	}
	if m.route.Stats != nil {
		return *m.route.Stats
	}
	return feed.ComputeStats(m.route.Photos)
}

func (m appModel) viewModal(termW int) string {
	w := termW - 4
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	inner := w - 6

	var title, body, help string
	switch m.modal {
	case modalStats:
		title = "Trip stats"
		body = m.viewStatsBody()
		help = "esc: close   ss: upload photos"
	case modalTutorial:
		title = "Welcome"
		body = renderMarkdown(tutorialMarkdown, inner)
		help = "esc/enter: got it"
	case modalPassword:
		title = "Upload photos"
		body = "Admin password\n\n" + m.passwordInput.View()
		help = "enter: continue   esc: cancel"
	case modalPickFiles:
		title = "Upload photos: choose files"
		body = m.picker.View() + "\n" + styleMuted().Render(fmt.Sprintf("Selected: %d", len(m.pickedFiles)))
		help = "enter: add   u: upload   esc: cancel   h/backspace: up"
	case modalUploading:
		title = "Uploading"
		body = fmt.Sprintf("Uploading %d photos…", len(m.pickedFiles))
	case modalSearch:
		title = "Find place"
		body = m.searchInput.View()
		help = "enter: jump   esc: cancel"
	}

	content := styleTitle().Render(title) + "\n\n" + body
	if help != "" {
		content += "\n\n" + styleMuted().Render(help)
	}
	return styleModal().Width(w).Render(content)
}

// viewStatsBody counts the distance up over statsCountUp.
func (m appModel) viewStatsBody() string {
	st := m.routeStats()
	frac := 1.0
	if elapsed := m.statsNow.Sub(m.statsStart); elapsed < statsCountUp {
		frac = float64(elapsed) / float64(statsCountUp)
	}
	km := int64(math.Round(st.TotalKm * frac))

	label := styleMuted()
	rows := []string{
		lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(humanize.Comma(km)+" km") + label.Render("  travelled"),
		humanize.Comma(int64(st.Countries)) + label.Render("  countries"),
		humanize.Comma(int64(st.Days)) + label.Render("  days"),
		humanize.Comma(int64(st.PhotoCount)) + label.Render("  photos"),
	}
	return strings.Join(rows, "\n")
}
