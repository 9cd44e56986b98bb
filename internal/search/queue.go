package search

import "container/heap"

// Compile-time check that Queue satisfies container/heap's Interface.
var _ heap.Interface = (*Queue)(nil)

// Item is an entry in a Queue: a candidate row-key and its distance to
// the active query vector.
type Item struct {
	RowKey   int64   // RowKey is the candidate's identifier.
	Distance float64 // Distance is the priority of the item in the queue.
	index    int     // index is maintained by the heap.Interface methods.
}

// Queue implements heap.Interface and holds search candidates. It can
// be ordered as a min-heap (nearest on top, used for the open candidate
// set) or a max-heap (farthest on top, used to track the best-seen set
// of bounded size ef) depending on Order.
type Queue struct {
	Order bool // false: min-heap (ascending); true: max-heap (descending)
	items []*Item
}

// NewMin returns an empty min-heap queue (nearest distance on top).
func NewMin() *Queue {
	q := &Queue{Order: false}
	heap.Init(q)
	return q
}

// NewMax returns an empty max-heap queue (farthest distance on top).
func NewMax() *Queue {
	q := &Queue{Order: true}
	heap.Init(q)
	return q
}

// Len returns the number of elements in the queue.
func (q *Queue) Len() int { return len(q.items) }

// Less reports whether the element with index i should sort before j.
func (q *Queue) Less(i, j int) bool {
	if !q.Order {
		return q.items[i].Distance < q.items[j].Distance
	}
	return q.items[i].Distance > q.items[j].Distance
}

// Swap swaps the elements with indexes i and j.
func (q *Queue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index, q.items[j].index = i, j
}

// Push adds x (an *Item) to the queue. Part of heap.Interface; prefer
// PushItem for normal use.
func (q *Queue) Push(x any) {
	item := x.(*Item)
	item.index = len(q.items)
	q.items = append(q.items, item)
}

// Pop removes and returns the top element. Part of heap.Interface;
// prefer PopItem for normal use.
func (q *Queue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	q.items = old[:n-1]
	return item
}

// PushItem pushes a (rowKey, distance) candidate onto the queue.
func (q *Queue) PushItem(rowKey int64, distance float64) {
	heap.Push(q, &Item{RowKey: rowKey, Distance: distance})
}

// PopItem removes and returns the top item.
func (q *Queue) PopItem() Item {
	return *heap.Pop(q).(*Item)
}

// Top returns the top item without removing it. Callers must check
// Len() > 0 first.
func (q *Queue) Top() Item {
	return *q.items[0]
}

// Items returns the queue's current items in heap order (not sorted),
// for inspecting the queue without popping.
func (q *Queue) Items() []*Item {
	return q.items
}

// Drain pops every item off the queue in heap-priority order (nearest
// first for a min-heap, farthest first for a max-heap) and returns
// them.
func (q *Queue) Drain() []Item {
	out := make([]Item, 0, q.Len())
	for q.Len() > 0 {
		out = append(out, q.PopItem())
	}
	return out
}
