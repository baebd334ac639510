package search

import (
	"container/heap"

	"github.com/beka-birhanu/vinom-nav/game"
)

// entry is a frontier item. seq records insertion order so that entries of
// equal priority leave the frontier first-in first-out.
type entry struct {
	pos      game.Position
	priority int
	seq      int
}

// entryHeap implements heap.Interface ordered by (priority, seq).
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(entry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// frontier is a min-priority queue of positions. A position may be pushed
// more than once; callers skip entries of already finalized positions.
type frontier struct {
	items entryHeap
	seq   int
}

func newFrontier() *frontier {
	f := &frontier{}
	heap.Init(&f.items)
	return f
}

func (f *frontier) push(pos game.Position, priority int) {
	heap.Push(&f.items, entry{pos: pos, priority: priority, seq: f.seq})
	f.seq++
}

func (f *frontier) pop() entry {
	return heap.Pop(&f.items).(entry)
}

func (f *frontier) len() int {
	return f.items.Len()
}
