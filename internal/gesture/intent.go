// Package gesture turns raw input into navigation commands.
//
// Directional input (arrow keys, drags) maps to exactly one of four intents.
// A separate click arbiter tells single from double clicks on the dual-purpose
// stats control. Nothing here knows about terminals or widgets: callers pass
// primitive keys, coordinates and ticks.
package gesture

import "fotoroute/internal/nav"

// Commands is the navigation surface the router drives.
type Commands interface {
	Advance(dir nav.Direction) (nav.Item, bool)
	JumpGroup(dir nav.Direction) (nav.Item, bool)
}

type Intent int

const (
	IntentNone Intent = iota
	IntentNext
	IntentPrev
	IntentNextGroup
	IntentPrevGroup
)

func (i Intent) String() string {
	switch i {
	case IntentNext:
		return "next"
	case IntentPrev:
		return "prev"
	case IntentNextGroup:
		return "next-group"
	case IntentPrevGroup:
		return "prev-group"
	default:
		return "none"
	}
}

// Apply runs the intent against cmds. It reports whether the cursor moved.
func (i Intent) Apply(cmds Commands) bool {
	var ok bool
	switch i {
	case IntentNext:
		_, ok = cmds.Advance(nav.Forward)
	case IntentPrev:
		_, ok = cmds.Advance(nav.Backward)
	case IntentNextGroup:
		_, ok = cmds.JumpGroup(nav.Forward)
	case IntentPrevGroup:
		_, ok = cmds.JumpGroup(nav.Backward)
	}
	return ok
}

// Key is a directional key, independent of any terminal library.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// KeyIntent maps arrow keys: horizontal steps photos, vertical jumps groups.
func KeyIntent(k Key) Intent {
	switch k {
	case KeyLeft:
		return IntentPrev
	case KeyRight:
		return IntentNext
	case KeyUp:
		return IntentPrevGroup
	case KeyDown:
		return IntentNextGroup
	default:
		return IntentNone
	}
}
