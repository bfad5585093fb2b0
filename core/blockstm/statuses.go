// Package blockstm implements the per-transaction execution status
// coordinator for a parallel, optimistic block-execution engine: the
// scheduling state machine, abort arbitration, dependency shortcut, and
// stall back-pressure protocol described for each transaction index.
//
// The block-STM engine itself (worker loop, MVHashMap reads/writes) and the
// execution queue's internal data structure are external collaborators;
// this package only names the ExecutionQueueManager interface it drives as
// a side effect of its own transitions.
package blockstm

// ExecutionStatuses is a fixed-size, arena-allocated collection of
// per-transaction statuses, created once at block start and indexed by
// transaction index. It owns the single ExecutionQueueManager all
// transitions notify.
type ExecutionStatuses struct {
	statuses []executionStatus
	queue    ExecutionQueueManager
}

// NewExecutionStatuses allocates a fresh collection for numTxns
// transactions, each starting at (PendingScheduling, incarnation 0, no
// stalls, shortcut ShouldDefer) — the zero value of executionStatus already
// satisfies this, so no per-entry initialization is needed.
func NewExecutionStatuses(numTxns int, queue ExecutionQueueManager) *ExecutionStatuses {
	return &ExecutionStatuses{
		statuses: make([]executionStatus, numTxns),
		queue:    queue,
	}
}

// NumTxns returns the size this collection was constructed with.
func (es *ExecutionStatuses) NumTxns() int {
	return len(es.statuses)
}

func (es *ExecutionStatuses) get(idx int) (*executionStatus, error) {
	if idx < 0 || idx >= len(es.statuses) {
		return nil, &ErrIndexOutOfRange{Idx: idx, NumTxns: len(es.statuses)}
	}
	return &es.statuses[idx], nil
}

// StartExecuting implements §4.1 start_executing. started is false when the
// transaction wasn't in PendingScheduling (the "None" case); it carries no
// error in that case.
func (es *ExecutionStatuses) StartExecuting(idx int) (inc Incarnation, started bool, err error) {
	s, err := es.get(idx)
	if err != nil {
		return 0, false, err
	}
	return s.startExecuting(idx)
}

// FinishExecution implements §4.1 finish_execution.
func (es *ExecutionStatuses) FinishExecution(idx int, finishedInc Incarnation) (stillValid bool, err error) {
	s, err := es.get(idx)
	if err != nil {
		return false, err
	}
	return s.finishExecution(idx, finishedInc, es.queue)
}

// StartAbort implements §4.1 start_abort.
func (es *ExecutionStatuses) StartAbort(idx int, inc Incarnation) (won bool, err error) {
	s, err := es.get(idx)
	if err != nil {
		return false, err
	}
	return s.startAbort(idx, inc)
}

// FinishAbort implements §4.1 finish_abort.
func (es *ExecutionStatuses) FinishAbort(idx int, abortedInc Incarnation, addToSchedule bool) error {
	s, err := es.get(idx)
	if err != nil {
		return err
	}
	return s.finishAbort(idx, abortedInc, addToSchedule, es.queue)
}

// AddStall implements §4.2 add_stall.
func (es *ExecutionStatuses) AddStall(idx int) (newlyStalled bool, err error) {
	s, err := es.get(idx)
	if err != nil {
		return false, err
	}
	return s.addStall(idx, es.queue)
}

// RemoveStall implements §4.2 remove_stall.
func (es *ExecutionStatuses) RemoveStall(idx int) (nowUnstalled bool, err error) {
	s, err := es.get(idx)
	if err != nil {
		return false, err
	}
	return s.removeStall(idx, es.queue)
}

// AlreadyStartedAbort implements §4.3 already_started_abort. Like
// ShortcutExecutedAndNotStalled, this is a racy, lock-free read by design;
// an out-of-range idx panics rather than returning an error, matching the
// teacher's own accessor style and the narrower signature §6 specifies for
// this predicate.
func (es *ExecutionStatuses) AlreadyStartedAbort(idx int, inc Incarnation) bool {
	return es.statuses[idx].alreadyStartedAbort(inc)
}

// ShortcutExecutedAndNotStalled implements §4.3
// shortcut_executed_and_not_stalled: a best-effort, lock-free hint that the
// caller should treat as racy by contract.
func (es *ExecutionStatuses) ShortcutExecutedAndNotStalled(idx int) bool {
	return es.statuses[idx].shortcut.Load() == IsSafe
}

// PendingSchedulingAndNotStalled implements §4.3
// pending_scheduling_and_not_stalled, which requires the status lock to be
// always-consistent (unlike the shortcut-based predicates above).
func (es *ExecutionStatuses) PendingSchedulingAndNotStalled(idx int) bool {
	s := &es.statuses[idx]
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == PendingScheduling && s.stalls.Load() == 0
}

// RequiresModuleValidation implements §4.3 requires_module_validation. ok is
// false when the phase is neither Executing nor Executed (Go's idiom for
// Option<(Incarnation, bool)>). Per the open question in spec.md §9, the
// coordinator stops at reporting this shape; recording an actual validation
// requirement is left entirely to the caller.
func (es *ExecutionStatuses) RequiresModuleValidation(idx int) (inc Incarnation, isExecuting bool, ok bool) {
	s := &es.statuses[idx]
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case Executing:
		return s.incarnation, true, true
	case Executed:
		return s.incarnation, false, true
	default:
		return 0, false, false
	}
}

// IsExecuted reports whether idx's current phase is Executed.
func (es *ExecutionStatuses) IsExecuted(idx int) bool {
	s := &es.statuses[idx]
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == Executed
}

// EverExecuted reports whether idx has ever completed an execution.
// Computed, not stored: true once incarnation has advanced past 0 (some
// earlier incarnation finished executing, before or after being aborted) or
// the current phase is Executed.
func (es *ExecutionStatuses) EverExecuted(idx int) bool {
	s := &es.statuses[idx]
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.everExecutedLocked()
}

// Incarnation returns idx's current incarnation.
func (es *ExecutionStatuses) Incarnation(idx int) Incarnation {
	s := &es.statuses[idx]
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incarnation
}
