// Package nav is the navigation core of the viewer: an ordered, immutable photo
// sequence with a single cursor, cyclic stepping, and jumps across location groups.
//
// Everything here is synchronous and single-owner. Callers drive it from one
// event loop; nothing in the package starts goroutines or takes locks.
package nav

import (
	"slices"

	"fotoroute/internal/model"
)

// Direction is +1 (forward) or -1 (backward).
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

func (d Direction) normalize() Direction {
	switch {
	case d > 0:
		return Forward
	case d < 0:
		return Backward
	default:
		return 0
	}
}

// Item is one navigable photo with its precomputed group key.
type Item struct {
	Group string
	Photo model.Photo
}

// ItemsFromPhotos derives group keys once so navigation never reparses locations.
func ItemsFromPhotos(photos []model.Photo) []Item {
	out := make([]Item, 0, len(photos))
	for _, p := range photos {
		out = append(out, Item{Group: model.GroupKey(p.Location), Photo: p})
	}
	return out
}

// Position is delivered to subscribers after every cursor change.
type Position struct {
	Index int
	Item  Item
}

// Sequence owns the loaded items and the cursor.
type Sequence struct {
	items []Item
	cur   int

	subs   []*subscriber
	nextID int
}

type subscriber struct {
	id        int
	fn        func(Position)
	cancelled bool
}

// Subscription removes its observer on Cancel. Cancelling twice is harmless.
type Subscription struct {
	id  int
	seq *Sequence
}

func NewSequence() *Sequence {
	return &Sequence{}
}

// Load replaces the whole sequence and resets the cursor to 0.
func (s *Sequence) Load(items []Item) {
	s.items = append([]Item(nil), items...)
	s.cur = 0
	if len(s.items) > 0 {
		s.notify()
	}
}

func (s *Sequence) Len() int { return len(s.items) }

// Index returns the cursor, or -1 when the sequence is empty.
func (s *Sequence) Index() int {
	if len(s.items) == 0 {
		return -1
	}
	return s.cur
}

func (s *Sequence) Current() (Item, bool) {
	if len(s.items) == 0 {
		return Item{}, false
	}
	return s.items[s.cur], true
}

func (s *Sequence) At(i int) (Item, bool) {
	if i < 0 || i >= len(s.items) {
		return Item{}, false
	}
	return s.items[i], true
}

// Items returns a copy of the loaded items.
func (s *Sequence) Items() []Item {
	return append([]Item(nil), s.items...)
}

// Advance moves the cursor one step with wrap-around in both directions.
func (s *Sequence) Advance(dir Direction) (Item, bool) {
	n := len(s.items)
	dir = dir.normalize()
	if n == 0 || dir == 0 {
		return Item{}, false
	}
	return s.commit((s.cur + int(dir) + n) % n)
}

// SetIndex jumps directly to i. Out-of-range indices are ignored.
func (s *Sequence) SetIndex(i int) (Item, bool) {
	if i < 0 || i >= len(s.items) {
		return Item{}, false
	}
	return s.commit(i)
}

func (s *Sequence) commit(i int) (Item, bool) {
	s.cur = i
	s.notify()
	return s.items[i], true
}

// Subscribe registers fn for position changes. Observers run synchronously,
// in subscription order, on the caller's goroutine.
func (s *Sequence) Subscribe(fn func(Position)) Subscription {
	s.nextID++
	s.subs = append(s.subs, &subscriber{id: s.nextID, fn: fn})
	return Subscription{id: s.nextID, seq: s}
}

// Cancel may be called from inside an observer. Observers cancelled during a
// notification that have not run yet are skipped; observers added during one
// first hear about the next change.
func (sub Subscription) Cancel() {
	if sub.seq == nil {
		return
	}
	s := sub.seq
	i := slices.IndexFunc(s.subs, func(e *subscriber) bool { return e.id == sub.id })
	if i < 0 {
		return
	}
	s.subs[i].cancelled = true
	// Build a new slice: notify may still be ranging over the old one.
	s.subs = slices.Delete(slices.Clone(s.subs), i, i+1)
}

func (s *Sequence) notify() {
	pos := Position{Index: s.cur, Item: s.items[s.cur]}
	for _, sub := range s.subs {
		if sub.cancelled {
			continue
		}
		sub.fn(pos)
	}
}
