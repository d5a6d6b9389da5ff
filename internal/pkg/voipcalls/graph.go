package voipcalls

import (
	"sort"
	"time"
)

// Line weights used by renderers to tell signalling from bearer arrows.
const (
	LineSignalling = 1
	LineBearer     = 2
)

// GraphItem is one row of the call-flow diagram. Frame, Time, Src, Dst and
// Protocol are fixed at creation; CallNum, Label and Comment may change.
type GraphItem struct {
	Frame      uint32
	Time       time.Time
	TimeStr    string
	Src        Endpoint
	Dst        Endpoint
	Protocol   string
	Label      string
	Comment    string
	CallNum    int
	LineWeight int
}

// Graph keeps items in frame order with an index from frame number to the
// first item created for that frame.
type Graph struct {
	items   []*GraphItem
	byFrame map[uint32]*GraphItem
}

func NewGraph() *Graph {
	return &Graph{byFrame: make(map[uint32]*GraphItem)}
}

// Append adds item at the tail.
func (g *Graph) Append(item *GraphItem) *GraphItem {
	g.items = append(g.items, item)
	g.index(item)
	return item
}

// InsertSorted places item before the first existing item with a larger
// frame number, or at the tail when there is none.
func (g *Graph) InsertSorted(item *GraphItem) *GraphItem {
	i := len(g.items)
	for i > 0 && g.items[i-1].Frame > item.Frame {
		i--
	}
	g.items = append(g.items, nil)
	copy(g.items[i+1:], g.items[i:])
	g.items[i] = item
	g.index(item)
	return item
}

func (g *Graph) index(item *GraphItem) {
	if _, ok := g.byFrame[item.Frame]; !ok {
		g.byFrame[item.Frame] = item
	}
}

// Lookup returns the item indexed for frame.
func (g *Graph) Lookup(frame uint32) (*GraphItem, bool) {
	item, ok := g.byFrame[frame]
	return item, ok
}

// AppendToLabel concatenates label and comment onto the item of frame.
// Empty strings leave the field alone. It reports whether the frame had an item.
func (g *Graph) AppendToLabel(frame uint32, label, comment string) bool {
	item, ok := g.byFrame[frame]
	if !ok {
		return false
	}
	item.Label = joinNonEmpty(item.Label, label)
	item.Comment = joinNonEmpty(item.Comment, comment)
	return true
}

// ChangeLabel replaces label and comment of the item of frame. Empty
// strings leave the field alone.
func (g *Graph) ChangeLabel(frame uint32, label, comment string) bool {
	item, ok := g.byFrame[frame]
	if !ok {
		return false
	}
	if label != "" {
		item.Label = label
	}
	if comment != "" {
		item.Comment = comment
	}
	return true
}

// Retag moves every item of call from to call to and returns how many moved.
func (g *Graph) Retag(from, to int) int {
	n := 0
	for _, item := range g.items {
		if item.CallNum == from {
			item.CallNum = to
			n++
		}
	}
	return n
}

// Items returns the frame ordered item list. Callers must not modify it.
func (g *Graph) Items() []*GraphItem {
	return g.items
}

// ItemsForCalls returns the items belonging to any of callNums, in order.
// An empty selection returns every item.
func (g *Graph) ItemsForCalls(callNums []int) []*GraphItem {
	if len(callNums) == 0 {
		return g.items
	}
	want := make(map[int]struct{}, len(callNums))
	for _, n := range callNums {
		want[n] = struct{}{}
	}
	var out []*GraphItem
	for _, item := range g.items {
		if _, ok := want[item.CallNum]; ok {
			out = append(out, item)
		}
	}
	return out
}

// Sorted reports whether frame numbers never decrease along the list.
func (g *Graph) Sorted() bool {
	return sort.SliceIsSorted(g.items, func(i, j int) bool {
		return g.items[i].Frame < g.items[j].Frame
	})
}

func (g *Graph) Len() int {
	return len(g.items)
}

// Reset drops every item and the frame index.
func (g *Graph) Reset() {
	for i := range g.items {
		g.items[i] = nil
	}
	g.items = nil
	g.byFrame = make(map[uint32]*GraphItem)
}

func joinNonEmpty(old, extra string) string {
	switch {
	case extra == "":
		return old
	case old == "":
		return extra
	default:
		return old + " " + extra
	}
}
