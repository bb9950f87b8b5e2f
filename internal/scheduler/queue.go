package scheduler

import (
	"container/heap"

	"github.com/PetWolowitz/HodeWay/internal/domain"
)

// entry is one armed reminder in the queue. Cancellation is lazy: a cancelled
// entry stays in the heap until it reaches the head and is discarded.
type entry struct {
	rem       domain.Reminder
	seq       uint64 // tie-breaker for equal fire times, keeps order stable
	cancelled bool
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if !h[i].rem.FireAt.Equal(h[j].rem.FireAt) {
		return h[i].rem.FireAt.Before(h[j].rem.FireAt)
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(*entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

func (h entryHeap) peek() *entry { return h[0] }

func pushEntry(h *entryHeap, e *entry) { heap.Push(h, e) }

func popEntry(h *entryHeap) *entry { return heap.Pop(h).(*entry) }
