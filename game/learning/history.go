package learning

import "github.com/beka-birhanu/vinom-nav/game"

// history keeps the most recent positions, oldest first.
type history struct {
	size  int
	items []game.Position
}

func newHistory(size int) *history {
	return &history{size: size, items: make([]game.Position, 0, size)}
}

func (h *history) push(p game.Position) {
	if len(h.items) >= h.size {
		copy(h.items, h.items[1:])
		h.items = h.items[:len(h.items)-1]
	}
	h.items = append(h.items, p)
}

func (h *history) contains(p game.Position) bool {
	return h.count(p) > 0
}

func (h *history) count(p game.Position) int {
	n := 0
	for _, item := range h.items {
		if item == p {
			n++
		}
	}
	return n
}

func (h *history) reset() {
	h.items = h.items[:0]
}
