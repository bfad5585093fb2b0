package blockstm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// TestScenarioB is spec.md §8 "Scenario B — abort while executing".
func TestScenarioB(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	q := NewMockExecutionQueueManager(ctrl)

	es := NewExecutionStatuses(1, q)

	// Drive the status to Executing(5) by forcing five prior incarnations.
	for i := 0; i < 5; i++ {
		_, _, err := es.StartExecuting(0)
		require.NoError(t, err)
		_, err = es.FinishExecution(0, Incarnation(i))
		require.NoError(t, err)

		won, err := es.StartAbort(0, Incarnation(i))
		require.NoError(t, err)
		require.True(t, won)

		// Aborting from Executed re-enqueues at incarnation i+1, which is
		// the first incarnation only when i == 0.
		q.EXPECT().AddToSchedule(i == 0, 0)
		require.NoError(t, es.FinishAbort(0, Incarnation(i), true))
	}

	_, started, err := es.StartExecuting(0)
	require.NoError(t, err)
	require.True(t, started)
	require.Equal(t, Incarnation(5), es.Incarnation(0))

	won, err := es.StartAbort(0, 5)
	require.NoError(t, err)
	require.True(t, won)

	wonAgain, err := es.StartAbort(0, 5)
	require.NoError(t, err)
	require.False(t, wonAgain)

	require.NoError(t, es.FinishAbort(0, 5, true))
	require.True(t, es.AlreadyStartedAbort(0, 5))

	q.EXPECT().AddToSchedule(false, 0)
	stillValid, err := es.FinishExecution(0, 5)
	require.NoError(t, err)
	require.False(t, stillValid)
	require.Equal(t, Incarnation(6), es.Incarnation(0))
}

func TestStartAbortFutureIncarnationIsInvariantViolation(t *testing.T) {
	t.Parallel()

	es := NewExecutionStatuses(1, noopQueueManager{})

	_, err := es.StartAbort(0, 3)
	require.Error(t, err)
	require.ErrorAs(t, err, new(*InvariantViolationError))
}

// TestScenarioF is spec.md §8 "Scenario F — concurrent abort fan-out":
// many goroutines race start_abort(0, inc); exactly one must win, under any
// interleaving.
func TestScenarioF(t *testing.T) {
	es := NewExecutionStatuses(1, noopQueueManager{})
	_, _, err := es.StartExecuting(0)
	require.NoError(t, err)

	const fanOut = 64

	wins := make(chan bool, fanOut)
	start := make(chan struct{})

	for i := 0; i < fanOut; i++ {
		go func() {
			<-start
			won, err := es.StartAbort(0, 0)
			require.NoError(t, err)
			wins <- won
		}()
	}

	close(start)

	winners := 0
	for i := 0; i < fanOut; i++ {
		if <-wins {
			winners++
		}
	}

	require.Equal(t, 1, winners, "exactly one start_abort(i, inc) call must return true")
}

func TestFinishAbortRequiresWinningStart(t *testing.T) {
	t.Parallel()

	es := NewExecutionStatuses(1, noopQueueManager{})
	_, _, err := es.StartExecuting(0)
	require.NoError(t, err)

	// No start_abort(0, 0) has happened, so the arbiter is still 0: this
	// must not be mistaken for a winning fetch_max(1).
	err = es.FinishAbort(0, 0, false)
	require.Error(t, err)
	require.ErrorAs(t, err, new(*InvariantViolationError))
}
