package blockstm

import (
	"container/heap"
	"sync"
)

// ExecutionQueueManager is the external "ready to execute" worklist this
// coordinator drives as a side effect of stall and scheduling transitions.
// Implementations own their own synchronization; calls are fire-and-forget
// from the coordinator's point of view.
type ExecutionQueueManager interface {
	// AddToSchedule enqueues idx. firstIncarnation is true exactly when
	// the transaction's incarnation is becoming 1 — i.e. this is the very
	// first re-scheduling after its initial (incarnation-0) attempt —
	// which some queue implementations use to pick a priority lane.
	AddToSchedule(firstIncarnation bool, idx int)
	// RemoveFromSchedule removes idx from the worklist, if present.
	RemoveFromSchedule(idx int)
}

// indexHeap is a container/heap of transaction indices, lower index first —
// the engine's only fairness rule (spec.md §1: "lower index = higher
// priority"). Adapted from the teacher's IntHeap
// (core/blockstm/executor.go).
type indexHeap []int

func (h indexHeap) Len() int            { return len(h) }
func (h indexHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// PriorityQueueManager is a reference ExecutionQueueManager: a mutex-guarded
// binary heap, split into two priority lanes selected by firstIncarnation,
// adapted from the teacher's SafePriorityQueue
// (core/blockstm/executor.go). Removal is a lazy tombstone — the idiomatic
// way to support delete-by-key on a container/heap without rebuilding it —
// rather than a heap-internal delete.
type PriorityQueueManager struct {
	mu sync.Mutex

	firstLane  indexHeap
	otherLane  indexHeap
	pending    map[int]bool // idx -> still wanted (absent means popped or tombstoned)
	firstLaneM map[int]bool // idx -> which lane it was pushed on
}

// NewPriorityQueueManager returns an empty reference queue manager sized for
// numTxns entries.
func NewPriorityQueueManager(numTxns int) *PriorityQueueManager {
	return &PriorityQueueManager{
		firstLane:  make(indexHeap, 0, numTxns),
		otherLane:  make(indexHeap, 0, numTxns),
		pending:    make(map[int]bool, numTxns),
		firstLaneM: make(map[int]bool, numTxns),
	}
}

func (q *PriorityQueueManager) AddToSchedule(firstIncarnation bool, idx int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending[idx] = true
	q.firstLaneM[idx] = firstIncarnation

	if firstIncarnation {
		heap.Push(&q.firstLane, idx)
	} else {
		heap.Push(&q.otherLane, idx)
	}
}

func (q *PriorityQueueManager) RemoveFromSchedule(idx int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.pending, idx)
}

// Pop removes and returns the lowest-index pending transaction, preferring
// the first-incarnation lane, or (-1, false) if the queue is empty. It
// drains tombstoned entries lazily.
func (q *PriorityQueueManager) Pop() (idx int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if idx, ok := q.popLane(&q.firstLane); ok {
		return idx, true
	}
	return q.popLane(&q.otherLane)
}

func (q *PriorityQueueManager) popLane(lane *indexHeap) (int, bool) {
	for lane.Len() > 0 {
		idx := heap.Pop(lane).(int)
		if !q.pending[idx] {
			continue
		}
		delete(q.pending, idx)
		return idx, true
	}
	return -1, false
}

// Len reports the number of entries still live (not yet popped or
// tombstoned). It is O(1) and does not drain tombstones.
func (q *PriorityQueueManager) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
