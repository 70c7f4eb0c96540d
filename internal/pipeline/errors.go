package pipeline

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of run error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeCancellation ErrorType = "cancellation"
)

// StepError is a failure of one step of a run
type StepError struct {
	Type    ErrorType
	Step    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *StepError) Error() string {
	if e == nil {
		return "unknown step error"
	}
	msg := fmt.Sprintf("[%s] %s: %s", e.Type, e.Step, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *StepError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewValidationError creates a step validation error
func NewValidationError(step, message string) *StepError {
	return &StepError{Type: ErrorTypeValidation, Step: step, Message: message}
}

// NewExecutionError creates a step execution error
func NewExecutionError(step string, cause error) *StepError {
	return &StepError{Type: ErrorTypeExecution, Step: step, Message: "step execution failed", Cause: cause}
}

// NewCancellationError creates an error for a run cancelled before step
func NewCancellationError(step string, cause error) *StepError {
	return &StepError{Type: ErrorTypeCancellation, Step: step, Message: "run was cancelled", Cause: cause}
}

// GetErrorType returns the type of the first StepError in err's chain
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Type
	}
	return ErrorTypeExecution
}

// FailedStep returns the step a run failed at, or "" for other errors
func FailedStep(err error) string {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step
	}
	return ""
}
