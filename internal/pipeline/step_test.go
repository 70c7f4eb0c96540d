package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStepState(t *testing.T) {
	state := NewStepState("load", "Load Input")

	assert.Equal(t, "load", state.ID)
	assert.Equal(t, "Load Input", state.Name)
	assert.Equal(t, StepStatusPending, state.GetStatus())
	assert.NotNil(t, state.Metadata)
	assert.Nil(t, state.StartTime)
	assert.Nil(t, state.EndTime)
	assert.Nil(t, state.Error)
	assert.Zero(t, state.Duration())
}

func TestStepStateTransitions(t *testing.T) {
	tests := []struct {
		name       string
		transition func(*StepState)
		wantStatus StepStatus
		checkTime  func(*StepState) bool
	}{
		{
			name:       "Start",
			transition: func(s *StepState) { s.Start() },
			wantStatus: StepStatusActive,
			checkTime: func(s *StepState) bool {
				return s.StartTime != nil && s.EndTime == nil
			},
		},
		{
			name: "Complete",
			transition: func(s *StepState) {
				s.Start()
				s.Complete()
			},
			wantStatus: StepStatusCompleted,
			checkTime: func(s *StepState) bool {
				return s.EndTime != nil && !s.EndTime.Before(*s.StartTime)
			},
		},
		{
			name:       "Fail",
			transition: func(s *StepState) { s.Fail(errors.New("boom")) },
			wantStatus: StepStatusFailed,
			checkTime: func(s *StepState) bool {
				return s.EndTime != nil && s.Error != nil
			},
		},
		{
			name:       "Skip",
			transition: func(s *StepState) { s.Skip("previous step load not completed") },
			wantStatus: StepStatusSkipped,
			checkTime: func(s *StepState) bool {
				return s.StartTime == nil && s.Message != ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewStepState("clean", "Clean Rows")
			tt.transition(state)

			assert.Equal(t, tt.wantStatus, state.GetStatus())
			assert.True(t, tt.checkTime(state))
		})
	}
}

func TestStepStateDuration(t *testing.T) {
	state := NewStepState("aggregate", "Metric Aggregation")
	start := time.Now().Add(-2 * time.Second)
	end := start.Add(1500 * time.Millisecond)
	state.StartTime = &start
	state.EndTime = &end

	assert.Equal(t, 1500*time.Millisecond, state.Duration())
}

func TestStateSteps(t *testing.T) {
	state := NewState("run-1", "orders.csv")
	assert.Equal(t, RunStatusPending, state.Status)

	state.SetStep("load", NewStepState("load", "Load Input"))
	state.SetStep("clean", NewStepState("clean", "Clean Rows"))
	state.SetStep("load", NewStepState("load", "Load Input"))

	steps := state.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, "load", steps[0].ID)
	assert.Equal(t, "clean", steps[1].ID)
	assert.Nil(t, state.GetStep("export"))

	state.annotate("clean", "accepted", 3)
	state.annotate("export", "files", 1)
	assert.Equal(t, 3, state.GetStep("clean").Metadata["accepted"])
	assert.Equal(t, map[string]interface{}{"step.accepted": 3}, state.GetStep("clean").SpanAttributes())

	state.Start()
	assert.Equal(t, RunStatusRunning, state.Status)
	state.Fail(errors.New("disk full"))
	assert.Equal(t, RunStatusFailed, state.Status)
	assert.NotNil(t, state.EndTime)
}

type stubStep struct {
	baseStep
}

func (s stubStep) Validate(*State) error { return nil }

func (s stubStep) Execute(context.Context, *State) error { return nil }

func newStub(id string) Step {
	return stubStep{baseStep{id: id, name: id}}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newStub("load")))
	require.NoError(t, r.Register(newStub("clean")))

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(newStub("")))
	err := r.Register(newStub("load"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	assert.Equal(t, 2, r.Count())
	assert.True(t, r.Has("clean"))
	assert.False(t, r.Has("export"))

	step, err := r.Get("clean")
	require.NoError(t, err)
	assert.Equal(t, "clean", step.ID())
	_, err = r.Get("export")
	assert.Error(t, err)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "load", list[0].ID())
	assert.Equal(t, "clean", list[1].ID())
}

func TestStepErrors(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name     string
		err      error
		wantType ErrorType
		wantStep string
		contains string
	}{
		{"validation", NewValidationError("aggregate", "dataset not built"), ErrorTypeValidation, "aggregate", "[validation] aggregate: dataset not built"},
		{"execution", NewExecutionError("export", cause), ErrorTypeExecution, "export", "disk full"},
		{"cancellation", NewCancellationError("clean", context.Canceled), ErrorTypeCancellation, "clean", "run was cancelled"},
		{"plain error", cause, ErrorTypeExecution, "", "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, GetErrorType(tt.err))
			assert.Equal(t, tt.wantStep, FailedStep(tt.err))
			assert.Contains(t, tt.err.Error(), tt.contains)
		})
	}

	assert.ErrorIs(t, NewExecutionError("export", cause), cause)
	assert.Equal(t, ErrorType(""), GetErrorType(nil))
}
