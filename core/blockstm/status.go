package blockstm

import (
	"sync"
	"sync/atomic"
)

// Incarnation is an execution attempt counter for one transaction. It is
// strictly monotone per transaction and starts at 0.
type Incarnation uint64

// SchedulingPhase is the scheduling state of one transaction's current
// incarnation.
type SchedulingPhase uint8

const (
	// PendingScheduling is the zero value: ready to be picked up for its
	// current incarnation. Every executionStatus starts here.
	PendingScheduling SchedulingPhase = iota
	// Executing means a worker has picked the transaction up and is
	// computing it.
	Executing
	// Executed means computation finished without being aborted.
	Executed
	// Aborted means the transaction was marked stale while still
	// Executing; the in-flight computation may still be running and must
	// later be reported via FinishExecution.
	Aborted
)

func (p SchedulingPhase) String() string {
	switch p {
	case PendingScheduling:
		return "PendingScheduling"
	case Executing:
		return "Executing"
	case Executed:
		return "Executed"
	case Aborted:
		return "Aborted"
	default:
		return "SchedulingPhase(?)"
	}
}

// executionStatus is the authoritative per-transaction state: the
// lock-protected (phase, incarnation) pair, plus the three atomics that
// sit beside it (dependency shortcut, stall counter, abort arbiter). The
// dual representation — a short mutex for phase/incarnation transitions,
// and a relaxed atomic shortcut readable without the lock — is load-bearing:
// it is what lets a dependent transaction make a scheduling decision
// without contending on another transaction's mutex.
type executionStatus struct {
	mu sync.Mutex

	phase       SchedulingPhase
	incarnation Incarnation

	shortcut     atomicShortcut
	stalls       atomic.Uint64
	abortArbiter atomic.Uint64

	// pad keeps distinct transactions' statuses from sharing a cache line
	// under concurrent access from different worker threads. Sized for
	// the field layout above; not measured with unsafe.Sizeof.
	_ [16]byte
}

// startExecuting implements §4.1 start_executing. idx is used only to
// annotate an invariant-violation error.
func (s *executionStatus) startExecuting(idx int) (inc Incarnation, started bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PendingScheduling {
		return 0, false, nil
	}

	prior := s.shortcut.Load()
	s.phase = Executing
	s.shortcut.Store(WaitForExecution)

	if prior != ShouldDefer {
		return s.incarnation, true, invariantError(idx, "start_executing",
			"shortcut was %s, expected ShouldDefer before Executing", prior)
	}

	return s.incarnation, true, nil
}

// finishExecution implements §4.1 finish_execution. Unlike finish_abort,
// finish_execution takes no add_to_schedule flag: the Aborted branch always
// re-enqueues the transaction (modulo the stall gate), matching the
// two-argument signature spec.md §6 documents.
func (s *executionStatus) finishExecution(idx int, finishedInc Incarnation, queue ExecutionQueueManager) (stillValid bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if finishedInc != s.incarnation {
		return false, invariantError(idx, "finish_execution",
			"finished incarnation %d does not match current incarnation %d", finishedInc, s.incarnation)
	}

	switch s.phase {
	case Executing:
		prior := s.shortcut.Load()
		s.phase = Executed
		if s.stalls.Load() == 0 {
			s.shortcut.Store(IsSafe)
		} else {
			s.shortcut.Store(ShouldDefer)
		}

		if prior != WaitForExecution {
			return true, invariantError(idx, "finish_execution",
				"shortcut was %s, expected WaitForExecution", prior)
		}

		return true, nil
	case Aborted:
		s.toPendingSchedulingLocked(idx, s.incarnation+1, true, queue)
		return false, nil
	default:
		return false, invariantError(idx, "finish_execution", "called while phase=%s", s.phase)
	}
}

// everExecutedLocked reports whether this status has ever reached Executed,
// or has moved past incarnation 0 (which implies some earlier incarnation
// finished executing, either before its abort or, when aborted while
// Executing, afterwards via finish_execution). Must be called with s.mu
// held.
func (s *executionStatus) everExecutedLocked() bool {
	return s.incarnation > 0 || s.phase == Executed
}

// toPendingSchedulingLocked must be called with s.mu held. It implements the
// internal to_pending_scheduling helper of §4.1.
func (s *executionStatus) toPendingSchedulingLocked(idx int, newInc Incarnation, addToSchedule bool, queue ExecutionQueueManager) {
	s.phase = PendingScheduling
	s.incarnation = newInc
	s.shortcut.Store(ShouldDefer)

	if addToSchedule && s.stalls.Load() == 0 {
		queue.AddToSchedule(newInc == 1, idx)
	}
}
