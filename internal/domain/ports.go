// Package domain contains the port interfaces for the micrograd trainer.
package domain

import (
	"context"

	autograd "github.com/tektwister/ai_engineering/micrograd"
)

// Model is a trainable network over scalar values.
type Model interface {
	// Inputs returns the number of inputs per sample.
	Inputs() int

	// Call runs a forward pass and returns the output values.
	Call(x []*autograd.Value) ([]*autograd.Value, error)

	// Parameters returns the trainable values.
	Parameters() []*autograd.Value
}

// Trainer defines the training loop.
type Trainer interface {
	// Step runs a single forward/backward/update iteration.
	Step(ctx context.Context, ds Dataset) (*StepResult, error)

	// Train runs the configured number of iterations.
	Train(ctx context.Context, ds Dataset) (*TrainResult, error)

	// Predict runs a forward pass over every sample without updating parameters.
	Predict(ds Dataset) ([]float64, error)
}

// Logger defines the logging interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsRecorder defines the interface for recording training metrics.
type MetricsRecorder interface {
	// RecordStep records the loss, graph size and duration of one iteration.
	RecordStep(loss float64, graphNodes int, duration float64)

	// RecordError counts a training failure under reason; the error itself
	// goes to the Logger.
	RecordError(reason string)
}
