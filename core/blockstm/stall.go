package blockstm

// addStall implements §4.2 add_stall. The 0→1 transition is the only one
// that touches the status lock; once a transaction is already stalled,
// further add_stall calls are a single atomic increment.
func (s *executionStatus) addStall(idx int, queue ExecutionQueueManager) (newlyStalled bool, err error) {
	prev := s.stalls.Add(1) - 1
	if prev != 0 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shortcut := s.shortcut.Load()

	switch s.phase {
	case PendingScheduling:
		if s.incarnation == 0 {
			return false, invariantError(idx, "add_stall", "cannot stall incarnation 0 while PendingScheduling")
		}
		if shortcut != ShouldDefer {
			return false, invariantError(idx, "add_stall",
				"shortcut %s inconsistent with PendingScheduling(%d)", shortcut, s.incarnation)
		}
		queue.RemoveFromSchedule(idx)
	case Executing:
		if shortcut != WaitForExecution {
			return false, invariantError(idx, "add_stall", "shortcut %s inconsistent with Executing", shortcut)
		}
	case Aborted:
		if shortcut != ShouldDefer {
			return false, invariantError(idx, "add_stall", "shortcut %s inconsistent with Aborted", shortcut)
		}
	case Executed:
		if shortcut != IsSafe {
			return false, invariantError(idx, "add_stall",
				"stalls was 0 yet shortcut was %s, expected IsSafe", shortcut)
		}
		s.shortcut.Store(ShouldDefer)
	}

	return true, nil
}

// removeStall implements §4.2 remove_stall.
func (s *executionStatus) removeStall(idx int, queue ExecutionQueueManager) (nowUnstalled bool, err error) {
	newVal := s.stalls.Add(^uint64(0)) // -1
	old := newVal + 1

	if old == 0 {
		return false, invariantError(idx, "remove_stall", "stall counter underflowed")
	}
	if old > 1 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A concurrent add_stall may have incremented again between our
	// decrement and taking the lock; re-check before acting.
	if s.stalls.Load() != 0 {
		return false, nil
	}

	switch s.phase {
	case PendingScheduling:
		if s.incarnation == 0 {
			return false, invariantError(idx, "remove_stall", "cannot unstall incarnation 0 while PendingScheduling")
		}
		queue.AddToSchedule(s.incarnation == 1, idx)
	case Executed:
		shortcut := s.shortcut.Load()
		if shortcut != ShouldDefer && shortcut != IsSafe {
			return false, invariantError(idx, "remove_stall",
				"shortcut %s inconsistent with Executed", shortcut)
		}
		s.shortcut.Store(IsSafe)
	case Executing, Aborted:
		// no queue action, shortcut unchanged.
	}

	return true, nil
}
