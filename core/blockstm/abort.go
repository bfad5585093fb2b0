package blockstm

// fetchMaxArbiter atomically sets s.abortArbiter to max(s.abortArbiter, v)
// and returns the value observed before the update — the Go stdlib has no
// native fetch-max, so this is a small CAS loop, matching the "Relaxed"
// ordering spec.md calls for (plain atomic load/CAS; no lock involved).
func (s *executionStatus) fetchMaxArbiter(v Incarnation) Incarnation {
	for {
		old := Incarnation(s.abortArbiter.Load())
		if v <= old {
			return old
		}
		if s.abortArbiter.CompareAndSwap(uint64(old), uint64(v)) {
			return old
		}
	}
}

// startAbort implements §4.1 start_abort. It is lock-free: many callers may
// race here, but the fetch-max test-and-set guarantees exactly one of them
// observes prev == inc and wins.
func (s *executionStatus) startAbort(idx int, inc Incarnation) (won bool, err error) {
	prev := s.fetchMaxArbiter(inc + 1)

	switch {
	case inc < prev:
		return false, nil
	case inc == prev:
		return true, nil
	default: // inc > prev: caller skipped incarnations that never started.
		return false, invariantError(idx, "start_abort",
			"incarnation %d is ahead of abort arbiter %d", inc, prev)
	}
}

// alreadyStartedAbort implements §4.3 already_started_abort. Like the
// dependency shortcut, this is deliberately racy: an executing worker polls
// it at safe points to discover it has been superseded.
func (s *executionStatus) alreadyStartedAbort(inc Incarnation) bool {
	return Incarnation(s.abortArbiter.Load()) > inc
}

// finishAbort implements §4.1 finish_abort. The precondition — a prior
// start_abort(idx, abortedInc) returned true — is the caller's
// responsibility; here we only check that the arbiter still reflects that
// win and that the status hasn't moved past abortedInc.
func (s *executionStatus) finishAbort(idx int, abortedInc Incarnation, addToSchedule bool, queue ExecutionQueueManager) error {
	if Incarnation(s.abortArbiter.Load()) != abortedInc+1 {
		return invariantError(idx, "finish_abort",
			"abort arbiter does not reflect a winning start_abort(%d)", abortedInc)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.incarnation != abortedInc {
		return invariantError(idx, "finish_abort",
			"incarnation %d never started or is no longer current (current=%d)", abortedInc, s.incarnation)
	}

	switch s.phase {
	case Executing:
		prior := s.shortcut.Load()
		s.phase = Aborted
		s.shortcut.Store(ShouldDefer)

		if prior != WaitForExecution {
			return invariantError(idx, "finish_abort",
				"shortcut was %s, expected WaitForExecution", prior)
		}

		return nil
	case Executed:
		s.toPendingSchedulingLocked(idx, abortedInc+1, addToSchedule, queue)
		return nil
	default:
		return invariantError(idx, "finish_abort", "called while phase=%s", s.phase)
	}
}
