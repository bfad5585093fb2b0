package blockstm

import "sync/atomic"

// DependencyShortcut is a denormalized, atomically-readable hint of
// (phase, stalls > 0), letting a dependent transaction decide whether to
// use idx's output without taking idx's status lock.
type DependencyShortcut uint32

const (
	// ShouldDefer is the zero value: phase is PendingScheduling or Aborted,
	// or phase is Executed but stalls > 0. A reader should not rely on
	// this transaction's output yet.
	ShouldDefer DependencyShortcut = iota
	// WaitForExecution means phase is Executing: a reader should wait for
	// the in-flight execution rather than racing a stale snapshot.
	WaitForExecution
	// IsSafe means phase is Executed and stalls == 0: a reader may use
	// this transaction's output.
	IsSafe
)

func (d DependencyShortcut) String() string {
	switch d {
	case ShouldDefer:
		return "ShouldDefer"
	case WaitForExecution:
		return "WaitForExecution"
	case IsSafe:
		return "IsSafe"
	default:
		return "DependencyShortcut(?)"
	}
}

// atomicShortcut is a thin typed wrapper over atomic.Uint32. Both load and
// store use the default (relaxed-equivalent, in Go's memory model: plain
// atomic) ordering — consistency is provided by the status mutex that
// brackets every store, not by the atomic operation itself.
type atomicShortcut struct {
	v atomic.Uint32
}

func (a *atomicShortcut) Load() DependencyShortcut {
	return DependencyShortcut(a.v.Load())
}

func (a *atomicShortcut) Store(d DependencyShortcut) {
	a.v.Store(uint32(d))
}
