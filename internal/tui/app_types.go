package tui

import (
	"image"
	"time"

	"fotoroute/internal/gesture"
	"fotoroute/internal/model"
	"fotoroute/internal/nav"
	"fotoroute/internal/upload"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalStats
	modalTutorial
	modalPassword
	modalPickFiles
	modalUploading
	modalSearch
)

func (k modalKind) String() string {
	switch k {
	case modalStats:
		return "stats"
	case modalTutorial:
		return "tutorial"
	case modalPassword:
		return "password"
	case modalPickFiles:
		return "pick-files"
	case modalUploading:
		return "uploading"
	case modalSearch:
		return "search"
	default:
		return "none"
	}
}

type routeLoadedMsg struct {
	route     *model.Route
	stale     bool
	fetchedAt time.Time
	err       error
}

// transitionMsg swaps the displayed photo once the fade delay has passed.
// Only the latest generation is applied.
type transitionMsg struct{ gen int }

type thumbLoadedMsg struct {
	key string
	img image.Image
	err error
}

// clickExpiredMsg fires when the stats button's double-click window closes.
type clickExpiredMsg struct{ ticket gesture.Ticket }

type statsFrameMsg struct{ seq int }

type tutorialDueMsg struct{}

type uploadDoneMsg struct {
	res upload.Result
	err error
}

type flashDoneMsg struct{ seq int }

// viewSync receives position notifications from the sequence. It is shared by
// pointer because appModel is copied on every Update.
type viewSync struct {
	pos nav.Position
	gen int
}

const (
	tutorialDelay     = time.Second
	statsCountUp      = 1500 * time.Millisecond
	statsFrameEvery   = 50 * time.Millisecond
	minibufferTimeout = 4 * time.Second
)
