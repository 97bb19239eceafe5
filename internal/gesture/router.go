package gesture

import "math"

type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureTap
	GestureSwipe
)

// Gesture is the outcome of a press/release pair.
type Gesture struct {
	Kind   GestureKind
	Intent Intent
	X, Y   float64
}

// Router feeds keys and pointer drags into Commands.
type Router struct {
	cmds  Commands
	swipe SwipeClassifier

	pressed        bool
	startX, startY float64
}

func NewRouter(cmds Commands, threshold float64) *Router {
	return &Router{cmds: cmds, swipe: SwipeClassifier{Threshold: threshold}}
}

// Key applies the intent for k and returns it.
func (r *Router) Key(k Key) Intent {
	in := KeyIntent(k)
	in.Apply(r.cmds)
	return in
}

// Press records the start of a drag.
func (r *Router) Press(x, y float64) {
	r.pressed = true
	r.startX, r.startY = x, y
}

// Pressed reports whether a drag is in progress.
func (r *Router) Pressed() bool { return r.pressed }

// Cancel drops an in-progress drag without emitting anything.
func (r *Router) Cancel() { r.pressed = false }

// Release ends the drag at (x, y). Small movements are taps and leave
// navigation to the caller; larger ones are classified and applied.
func (r *Router) Release(x, y float64) Gesture {
	if !r.pressed {
		return Gesture{}
	}
	r.pressed = false

	dx, dy := x-r.startX, y-r.startY
	if math.Abs(dx) <= TapSlop && math.Abs(dy) <= TapSlop {
		return Gesture{Kind: GestureTap, X: x, Y: y}
	}
	in := r.swipe.Classify(dx, dy)
	if in == IntentNone {
		return Gesture{X: x, Y: y}
	}
	in.Apply(r.cmds)
	return Gesture{Kind: GestureSwipe, Intent: in, X: x, Y: y}
}
