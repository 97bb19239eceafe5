package gesture

import "math"

const (
	// DefaultSwipeThreshold is the minimum travel, in pixels, along the
	// dominant axis for a drag to count as a swipe.
	DefaultSwipeThreshold = 50.0

	// TapSlop is how far a pointer may wander and still count as a tap.
	TapSlop = 4.0
)

// SwipeClassifier maps a completed drag to an intent.
type SwipeClassifier struct {
	Threshold float64
}

func (c SwipeClassifier) threshold() float64 {
	if c.Threshold <= 0 {
		return DefaultSwipeThreshold
	}
	return c.Threshold
}

// Classify takes the drag delta (end minus start). Swiping left shows the
// next photo and swiping up the next group, as on a touch screen.
func (c SwipeClassifier) Classify(dx, dy float64) Intent {
	th := c.threshold()
	ax, ay := math.Abs(dx), math.Abs(dy)
	if ax > ay {
		if ax <= th {
			return IntentNone
		}
		if dx < 0 {
			return IntentNext
		}
		return IntentPrev
	}
	if ay <= th {
		return IntentNone
	}
	if dy < 0 {
		return IntentNextGroup
	}
	return IntentPrevGroup
}
