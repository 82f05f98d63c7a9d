package sched

// minHeap is a binary min-heap over a comparison function.
//
// Peek and Pop return the zero value on an empty heap with no side
// effects; there are no error conditions.
type minHeap[T any] struct {
	less  func(a, b T) bool
	items []T
}

func newMinHeap[T any](less func(a, b T) bool) *minHeap[T] {
	return &minHeap[T]{less: less}
}

// Len returns the number of held items.
func (h *minHeap[T]) Len() int { return len(h.items) }

// Push inserts x and sifts it up. O(log n).
func (h *minHeap[T]) Push(x T) {
	h.items = append(h.items, x)
	h.up(len(h.items) - 1)
}

// Peek returns the minimum without removing it. O(1).
func (h *minHeap[T]) Peek() T {
	if len(h.items) == 0 {
		var zero T
		return zero
	}
	return h.items[0]
}

// Pop removes and returns the minimum: the root is replaced with the last
// leaf, which sifts down toward the smaller child. O(log n).
func (h *minHeap[T]) Pop() T {
	if len(h.items) == 0 {
		var zero T
		return zero
	}
	n := len(h.items) - 1
	top := h.items[0]
	h.items[0] = h.items[n]
	var zero T
	h.items[n] = zero // release the reference
	h.items = h.items[:n]
	if n > 0 {
		h.down(0)
	}
	return top
}

func (h *minHeap[T]) up(j int) {
	for {
		i := (j - 1) / 2 // parent
		if i == j || !h.less(h.items[j], h.items[i]) {
			break
		}
		h.items[i], h.items[j] = h.items[j], h.items[i]
		j = i
	}
}

func (h *minHeap[T]) down(i int) {
	n := len(h.items)
	for {
		j := 2*i + 1 // left child
		if j >= n || j < 0 {
			break
		}
		if r := j + 1; r < n && h.less(h.items[r], h.items[j]) {
			j = r
		}
		if !h.less(h.items[j], h.items[i]) {
			break
		}
		h.items[i], h.items[j] = h.items[j], h.items[i]
		i = j
	}
}
