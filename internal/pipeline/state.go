package pipeline

import (
	"sync"
	"time"

	"storecli/internal/cleaning"
	"storecli/internal/metrics"
	"storecli/internal/report"
	"storecli/pkg/contracts/domain"
)

// RunStatus represents the overall status of a report run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// State is the shared state of one report run. Steps hand their output to
// later steps through it.
type State struct {
	mu sync.RWMutex

	ID        string
	Input     string
	Status    RunStatus
	StartTime time.Time
	EndTime   *time.Time
	Error     error

	Records    []domain.RawRecord
	Lines      []domain.OrderLine
	Rejections cleaning.RejectionReport
	Dataset    *metrics.Dataset
	Report     *report.Report
	Files      []string

	steps map[string]*StepState
	order []string
}

// NewState creates the state of a run over the given input file
func NewState(id, input string) *State {
	return &State{
		ID:        id,
		Input:     input,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState),
	}
}

// Start marks the run as running
func (s *State) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Status = RunStatusRunning
	s.StartTime = time.Now()
}

// Complete marks the run as completed
func (s *State) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (s *State) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusFailed
	s.Error = err
}

// GetStep returns the state of a step, or nil when the step is unknown
func (s *State) GetStep(id string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.steps[id]
}

// SetStep registers the state of a step
func (s *State) SetStep(id string, st *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.steps[id]; !ok {
		s.order = append(s.order, id)
	}
	s.steps[id] = st
}

// Steps returns the step states in execution order
func (s *State) Steps() []*StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*StepState, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.steps[id])
	}
	return out
}

func (s *State) annotate(stepID, key string, value interface{}) {
	if st := s.GetStep(stepID); st != nil {
		st.SetMetadata(key, value)
	}
}

// Duration returns the duration of the run
func (s *State) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}
