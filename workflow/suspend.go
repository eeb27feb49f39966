package workflow

import (
	"context"
	"errors"
)

// SuspendState is the serialized progress of a paused run.
type SuspendState struct {
	WorkflowID string      `json:"workflow_id"`
	Cursor     string      `json:"cursor"` // implementation-defined pointer to a step
	Data       interface{} `json:"data"`   // input/output accumulated so far
}

// Suspender persists and loads suspended workflow states.
type Suspender interface {
	Save(ctx context.Context, state *SuspendState) error
	Load(ctx context.Context, id string) (*SuspendState, error)
}

// MemorySuspender keeps suspended states in memory. Development only.
type MemorySuspender struct{ store map[string]*SuspendState }

func NewMemorySuspender() *MemorySuspender {
	return &MemorySuspender{store: map[string]*SuspendState{}}
}

func (m *MemorySuspender) Save(ctx context.Context, state *SuspendState) error {
	if state == nil || state.WorkflowID == "" {
		return errors.New("invalid state")
	}
	m.store[state.WorkflowID] = state
	return nil
}

func (m *MemorySuspender) Load(ctx context.Context, id string) (*SuspendState, error) {
	if s, ok := m.store[id]; ok {
		return s, nil
	}
	return nil, errors.New("not found")
}

type suspendError struct{ state SuspendState }

func (e *suspendError) Error() string { return "workflow suspended" }

// RequestSuspend is returned by a step to pause the run. The caller recovers
// the state with AsSuspend and persists it through a Suspender.
func RequestSuspend(id string, cursor string, data any) error {
	return &suspendError{state: SuspendState{WorkflowID: id, Cursor: cursor, Data: data}}
}

// AsSuspend reports whether an error from Run is a suspension request and
// returns the captured state.
func AsSuspend(err error) (SuspendState, bool) {
	var se *suspendError
	if errors.As(err, &se) {
		return se.state, true
	}
	return SuspendState{}, false
}
