package crawl

import (
	"container/heap"
	"sync"

	"github.com/fwojciec/deepcrawl"
)

// Compile-time interface verification.
var _ deepcrawl.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory min-priority queue of frontier entries.
// Entries with equal priority are popped in insertion order.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	queue *entryHeap
	seq   uint64
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	h := &entryHeap{}
	heap.Init(h)
	return &Frontier{queue: h}
}

// Push adds an entry to the frontier. Duplicate URLs are kept; callers
// discard already visited URLs when popping.
func (f *Frontier) Push(entry deepcrawl.FrontierEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	heap.Push(f.queue, queuedEntry{FrontierEntry: entry, seq: f.seq})
}

// PopBatch removes and returns up to n entries, lowest priority value first.
func (f *Frontier) PopBatch(n int) []deepcrawl.FrontierEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n <= 0 {
		return nil
	}
	batch := make([]deepcrawl.FrontierEntry, 0, min(n, f.queue.Len()))
	for len(batch) < n && f.queue.Len() > 0 {
		e, _ := heap.Pop(f.queue).(queuedEntry)
		batch = append(batch, e.FrontierEntry)
	}
	return batch
}

// Pop removes and returns the next entry.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (deepcrawl.FrontierEntry, bool) {
	batch := f.PopBatch(1)
	if len(batch) == 0 {
		return deepcrawl.FrontierEntry{}, false
	}
	return batch[0], true
}

// Len returns the number of entries in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// IsEmpty reports whether the queue has no entries.
func (f *Frontier) IsEmpty() bool {
	return f.Len() == 0
}

// queuedEntry pairs an entry with its arrival sequence for stable ordering.
type queuedEntry struct {
	deepcrawl.FrontierEntry
	seq uint64
}

// entryHeap implements heap.Interface ordered by (Priority, seq) ascending.
type entryHeap []queuedEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	e, _ := x.(queuedEntry)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
