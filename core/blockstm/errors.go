package blockstm

import (
	"fmt"

	"github.com/0xPolygon/txstatus/log"
)

// InvariantViolationError is the one error kind this package raises: a bug
// in the calling engine or in the coordinator itself. There is no local
// recovery from it — per the error-handling design, the caller must abort
// the whole in-flight block and surface the fault.
type InvariantViolationError struct {
	Idx    int
	Op     string
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("blockstm: invariant violation in %s(idx=%d): %s", e.Op, e.Idx, e.Reason)
}

func invariantError(idx int, op, format string, args ...any) error {
	e := &InvariantViolationError{Idx: idx, Op: op, Reason: fmt.Sprintf(format, args...)}
	log.Error("invariant violation", "op", op, "idx", idx, "reason", e.Reason)
	return e
}

// ErrIndexOutOfRange is raised by every mutating entry point when idx falls
// outside [0, NumTxns). The Rust original this package was modeled on lets
// an out-of-range index panic via a slice index; we give callers a named
// error instead since it is a detectable caller-usage bug that never
// touches a status lock.
type ErrIndexOutOfRange struct {
	Idx     int
	NumTxns int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("blockstm: index %d out of range [0, %d)", e.Idx, e.NumTxns)
}
