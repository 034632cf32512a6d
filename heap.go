package quartzcron

import (
	"container/heap"
	"time"
)

// entryHeap orders entries by next activation. It implements heap.Interface.
type entryHeap []*Entry

// nextBefore orders activation times with the zero time (never) last.
func nextBefore(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	if b.IsZero() {
		return true
	}
	return a.Before(b)
}

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool { return nextBefore(h[i].Next, h[j].Next) }

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *entryHeap) Push(x any) {
	entry := x.(*Entry) //nolint:errcheck // container/heap only pushes what we give it
	entry.heapIndex = len(*h)
	*h = append(*h, entry)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.heapIndex = -1
	*h = old[:n-1]
	return entry
}

// Peek returns the earliest entry without removing it, or nil.
func (h entryHeap) Peek() *Entry {
	if len(h) == 0 {
		return nil
	}
	return h[0]
}

// Update restores the ordering after entry.Next changed.
func (h *entryHeap) Update(entry *Entry) {
	if entry.heapIndex >= 0 && entry.heapIndex < len(*h) && (*h)[entry.heapIndex] == entry {
		heap.Fix(h, entry.heapIndex)
	}
}

// RemoveAt removes entry if it is still at its recorded index.
func (h *entryHeap) RemoveAt(entry *Entry) bool {
	idx := entry.heapIndex
	if idx < 0 || idx >= len(*h) || (*h)[idx] != entry {
		return false
	}
	heap.Remove(h, idx)
	return true
}
