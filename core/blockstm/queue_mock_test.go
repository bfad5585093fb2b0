package blockstm

import (
	"reflect"

	"go.uber.org/mock/gomock"
)

// MockExecutionQueueManager is a hand-written, mockgen-shaped mock of
// ExecutionQueueManager. It isn't toolchain-generated (this exercise never
// invokes `go generate`/`mockgen`), but follows the same generated-code
// layout go.uber.org/mock produces, so it slots into the usual
// EXPECT().Call(...) idiom.
type MockExecutionQueueManager struct {
	ctrl     *gomock.Controller
	recorder *MockExecutionQueueManagerMockRecorder
}

type MockExecutionQueueManagerMockRecorder struct {
	mock *MockExecutionQueueManager
}

var (
	_ ExecutionQueueManager = (*MockExecutionQueueManager)(nil)
	_ ExecutionQueueManager = noopQueueManager{}
)

func NewMockExecutionQueueManager(ctrl *gomock.Controller) *MockExecutionQueueManager {
	m := &MockExecutionQueueManager{ctrl: ctrl}
	m.recorder = &MockExecutionQueueManagerMockRecorder{mock: m}
	return m
}

func (m *MockExecutionQueueManager) EXPECT() *MockExecutionQueueManagerMockRecorder {
	return m.recorder
}

func (m *MockExecutionQueueManager) AddToSchedule(firstIncarnation bool, idx int) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "AddToSchedule", firstIncarnation, idx)
}

func (mr *MockExecutionQueueManagerMockRecorder) AddToSchedule(firstIncarnation, idx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddToSchedule",
		reflect.TypeOf((*MockExecutionQueueManager)(nil).AddToSchedule), firstIncarnation, idx)
}

func (m *MockExecutionQueueManager) RemoveFromSchedule(idx int) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "RemoveFromSchedule", idx)
}

func (mr *MockExecutionQueueManagerMockRecorder) RemoveFromSchedule(idx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveFromSchedule",
		reflect.TypeOf((*MockExecutionQueueManager)(nil).RemoveFromSchedule), idx)
}

// noopQueueManager is used in tests that don't care about queue
// interactions, so assertions stay focused on the status transition being
// tested.
type noopQueueManager struct{}

func (noopQueueManager) AddToSchedule(bool, int) {}
func (noopQueueManager) RemoveFromSchedule(int)  {}
