package nav

// GroupNavigator jumps between runs of consecutive items that share a group key.
//
// Only local adjacency matters: a key that reappears later in the sequence
// starts a new run, it is not merged with the earlier one.
type GroupNavigator struct {
	seq *Sequence
}

func NewGroupNavigator(seq *Sequence) *GroupNavigator {
	return &GroupNavigator{seq: seq}
}

// Jump dispatches to JumpForward or JumpBackward.
func (g *GroupNavigator) Jump(dir Direction) (Item, bool) {
	switch dir.normalize() {
	case Forward:
		return g.JumpForward()
	case Backward:
		return g.JumpBackward()
	}
	return Item{}, false
}

// JumpForward moves to the first item after the cursor whose group differs.
// When the whole sequence is one group the cursor stays put and no
// notification is sent.
func (g *GroupNavigator) JumpForward() (Item, bool) {
	if g.seq.Len() == 0 {
		return Item{}, false
	}
	idx, ok := nextGroupStart(g.seq.items, g.seq.cur)
	if !ok {
		return Item{}, false
	}
	return g.seq.commit(idx)
}

// JumpBackward moves to the first item of the run preceding the cursor's run.
//
// With a single group it lands one item back: both walks exhaust their bound
// and only the step between them moves the cursor.
func (g *GroupNavigator) JumpBackward() (Item, bool) {
	if g.seq.Len() == 0 {
		return Item{}, false
	}
	return g.seq.commit(prevGroupStart(g.seq.items, g.seq.cur))
}

func nextGroupStart(items []Item, from int) (int, bool) {
	n := len(items)
	g := items[from].Group
	idx := from
	for steps := 0; steps < n; steps++ {
		idx = (idx + 1) % n
		if items[idx].Group != g {
			return idx, true
		}
	}
	return from, false
}

func prevGroupStart(items []Item, from int) int {
	n := len(items)
	idx := runStart(items, from, items[from].Group)
	idx = (idx - 1 + n) % n
	return runStart(items, idx, items[idx].Group)
}

// runStart walks backward from idx while the predecessor is still in group,
// for at most len(items) steps.
func runStart(items []Item, idx int, group string) int {
	n := len(items)
	for steps := 0; steps < n; steps++ {
		prev := (idx - 1 + n) % n
		if items[prev].Group != group {
			break
		}
		idx = prev
	}
	return idx
}
