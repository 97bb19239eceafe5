package nav

// Navigator is the command surface handed to input handling: one object
// owning the sequence and its group navigator.
type Navigator struct {
	Seq    *Sequence
	Groups *GroupNavigator
}

func NewNavigator() *Navigator {
	seq := NewSequence()
	return &Navigator{Seq: seq, Groups: NewGroupNavigator(seq)}
}

func (n *Navigator) Advance(dir Direction) (Item, bool) {
	return n.Seq.Advance(dir)
}

func (n *Navigator) JumpGroup(dir Direction) (Item, bool) {
	return n.Groups.Jump(dir)
}

func (n *Navigator) SetIndex(i int) (Item, bool) {
	return n.Seq.SetIndex(i)
}

// IndexOf returns the first index holding filename.
func (n *Navigator) IndexOf(filename string) (int, bool) {
	for i, it := range n.Seq.items {
		if it.Photo.Filename == filename {
			return i, true
		}
	}
	return -1, false
}

// Runs returns the start index of every group run in sequence order.
func (n *Navigator) Runs() []int {
	return runStarts(n.Seq.items)
}

// Run is a maximal stretch of consecutive items sharing a group.
type Run struct {
	Group string `json:"group" yaml:"group"`
	Start int    `json:"start" yaml:"start"`
	Len   int    `json:"count" yaml:"count"`
}

// GroupRuns splits items into runs in sequence order. Runs are not merged
// across the wrap from the last item to the first.
func GroupRuns(items []Item) []Run {
	starts := runStarts(items)
	out := make([]Run, 0, len(starts))
	for i, s := range starts {
		end := len(items)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		out = append(out, Run{Group: items[s].Group, Start: s, Len: end - s})
	}
	return out
}
