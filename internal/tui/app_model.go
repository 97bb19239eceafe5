package tui

import (
	"bytes"
	"context"
	"strings"
	"time"

	"fotoroute/internal/config"
	"fotoroute/internal/feed"
	"fotoroute/internal/gesture"
	"fotoroute/internal/imaging"
	"fotoroute/internal/logging"
	"fotoroute/internal/model"
	"fotoroute/internal/nav"
	"fotoroute/internal/store"
	"fotoroute/internal/upload"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
)

// Options wires the viewer to its collaborators.
type Options struct {
	Source feed.Source
	Store  store.Store
	Viewer config.ViewerConfig
	Log    logrus.FieldLogger
	// Uploader is nil when the source cannot accept uploads.
	Uploader *upload.Uploader
}

type appModel struct {
	opts Options
	log  logrus.FieldLogger
	keys keyMap
	help help.Model

	nav    *nav.Navigator
	router *gesture.Router
	clicks *gesture.ClickArbiter
	latch  *gesture.CredentialLatch
	sync   *viewSync

	width  int
	height int

	state *store.ViewerState

	route     *model.Route
	loading   bool
	loadErr   error
	stale     bool
	fetchedAt time.Time
	loadedAt  int

	// displayed lags the cursor by the transition delay.
	displayed    nav.Position
	hasDisplayed bool
	shownGen     int
	fading       bool

	fullscreen bool
	thumbs     *thumbCache
	profile    termenv.Profile

	modal modalKind

	statsStart time.Time
	statsNow   time.Time
	statsSeq   int

	tutorialShownOnce bool

	passwordInput textinput.Model
	searchInput   textinput.Model
	picker        filepicker.Model
	pickedFiles   []string

	minibufferText string
	flashSeq       int
}

func newAppModel(opts Options, state *store.ViewerState) appModel {
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	if state == nil {
		state = &store.ViewerState{Version: 1}
	}
	n := nav.NewNavigator()
	sync := &viewSync{}
	n.Seq.Subscribe(func(p nav.Position) {
		sync.pos = p
		sync.gen++
	})

	pw := textinput.New()
	pw.Placeholder = "admin password"
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	pw.CharLimit = 256

	search := textinput.New()
	search.Placeholder = "country or place"
	search.CharLimit = 80

	return appModel{
		opts:          opts,
		log:           opts.Log,
		keys:          defaultKeyMap(),
		help:          help.New(),
		nav:           n,
		router:        gesture.NewRouter(n, opts.Viewer.SwipeThreshold),
		clicks:        gesture.NewClickArbiter(opts.Viewer.ClickWindow),
		latch:         &gesture.CredentialLatch{},
		sync:          sync,
		state:         state,
		thumbs:        newThumbCache(),
		profile:       termenv.Ascii,
		loading:       true,
		passwordInput: pw,
		searchInput:   search,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		m.loadRouteCmd(),
		tea.Tick(tutorialDelay, func(time.Time) tea.Msg { return tutorialDueMsg{} }),
	)
}

func (m appModel) loadRouteCmd() tea.Cmd {
	src := m.opts.Source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		f, err := feed.Load(ctx, src)
		if err != nil {
			return routeLoadedMsg{err: err}
		}
		return routeLoadedMsg{route: f.Route, stale: f.Stale, fetchedAt: f.FetchedAt}
	}
}

func (m appModel) loadThumbCmd(filename string, original bool) tea.Cmd {
	src := m.opts.Source
	key := thumbKey(filename, original)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		b, err := src.Thumb(ctx, filename, original)
		if err != nil {
			return thumbLoadedMsg{key: key, err: err}
		}
		img, err := imaging.Decode(bytes.NewReader(b))
		return thumbLoadedMsg{key: key, img: img, err: err}
	}
}

func (m appModel) uploadCmd(files []string, credential string) tea.Cmd {
	u := m.opts.Uploader
	return func() tea.Msg {
		res, err := u.UploadAll(context.Background(), files, credential)
		return uploadDoneMsg{res: res, err: err}
	}
}

func (m *appModel) showMinibuffer(text string) tea.Cmd {
	m.minibufferText = strings.TrimSpace(text)
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(minibufferTimeout, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

// applyRoute replaces the sequence, keeping the photo on screen when it is
// still present, else resuming the last viewed photo on first load.
func (m *appModel) applyRoute(r *model.Route) {
	keep := ""
	if m.hasDisplayed {
		keep = m.displayed.Item.Photo.Filename
	} else if m.loadedAt == 0 {
		keep = m.state.ResumeFilename(m.opts.Source.Key())
	}
	m.route = r
	m.loadedAt++
	m.nav.Seq.Load(nav.ItemsFromPhotos(r.Photos))
	if keep != "" {
		if i, ok := m.nav.IndexOf(keep); ok && i != 0 {
			m.nav.SetIndex(i)
		}
	}
	m.log.WithFields(logrus.Fields{"photos": len(r.Photos), "stale": m.stale}).Info("route loaded")
}

// syncPosition schedules the display swap when the cursor moved since the
// last call. Leaving fullscreen on navigation mirrors closing the overlay.
func (m *appModel) syncPosition() tea.Cmd {
	if m.sync.gen == m.shownGen {
		return nil
	}
	m.shownGen = m.sync.gen
	m.fullscreen = false
	m.fading = true
	gen := m.sync.gen
	m.log.WithFields(logrus.Fields{
		"index":    m.sync.pos.Index,
		"filename": m.sync.pos.Item.Photo.Filename,
	}).Debug("position changed")

	delay := m.opts.Viewer.TransitionDelay
	if delay <= 0 {
		return func() tea.Msg { return transitionMsg{gen: gen} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return transitionMsg{gen: gen} })
}

func (m *appModel) ensureThumb() tea.Cmd {
	if !m.hasDisplayed || !m.opts.Viewer.Thumbnails {
		return nil
	}
	name := m.displayed.Item.Photo.Filename
	key := thumbKey(name, m.fullscreen)
	if m.thumbs.has(key) {
		return nil
	}
	m.thumbs.markPending(key)
	return m.loadThumbCmd(name, m.fullscreen)
}

// currentThumb prefers the full-size image in fullscreen once it has arrived.
func (m *appModel) currentThumb() (string, *thumbEntry) {
	if !m.hasDisplayed {
		return "", nil
	}
	name := m.displayed.Item.Photo.Filename
	if m.fullscreen {
		key := thumbKey(name, true)
		if e := m.thumbs.get(key); e != nil && !e.pending {
			return key, e
		}
	}
	key := thumbKey(name, false)
	return key, m.thumbs.get(key)
}

// persistState records the photo on screen and the tutorial flag.
func (m *appModel) persistState() {
	if m.hasDisplayed {
		m.state.LastFilename = m.displayed.Item.Photo.Filename
		m.state.LastSource = m.opts.Source.Key()
	}
	if err := m.opts.Store.SaveViewerState(m.state); err != nil {
		m.log.WithError(err).Warn("save viewer state")
	}
}
