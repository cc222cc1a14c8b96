// Package domain contains the training models for the micrograd trainer.
package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidConfig  = errors.New("invalid training config")
	ErrInvalidDataset = errors.New("invalid dataset")
	ErrEmptyDataset   = errors.New("empty dataset")
)

// TrainConfig defines the parameters of a gradient-descent run.
type TrainConfig struct {
	LearningRate float64 `json:"learning_rate"`
	Iterations   int     `json:"iterations"`
	LogEvery     int     `json:"log_every,omitempty"`   // Log every N steps, 0 disables
	TargetLoss   float64 `json:"target_loss,omitempty"` // Stop once loss <= TargetLoss, 0 disables
}

// NewTrainConfig creates the default training configuration.
func NewTrainConfig() TrainConfig {
	return TrainConfig{
		LearningRate: 0.05,
		Iterations:   100,
		LogEvery:     10,
	}
}

// Validate checks if the training configuration is valid.
func (c TrainConfig) Validate() error {
	// Written negated so NaN is rejected too.
	if !(c.LearningRate > 0) {
		return NewValidationError("learning_rate must be positive")
	}
	if c.Iterations < 1 {
		return NewValidationError("iterations must be at least 1")
	}
	if c.LogEvery < 0 {
		return NewValidationError("log_every must be non-negative")
	}
	if c.TargetLoss < 0 {
		return NewValidationError("target_loss must be non-negative")
	}
	return nil
}

// Dataset is a set of input rows and their scalar targets.
type Dataset struct {
	Inputs  [][]float64 `json:"inputs"`
	Targets []float64   `json:"targets"`
}

// Len returns the number of samples.
func (d Dataset) Len() int {
	return len(d.Targets)
}

// Validate checks that every row has a target and all rows have width inputs.
func (d Dataset) Validate(width int) error {
	if len(d.Inputs) == 0 {
		return ErrEmptyDataset
	}
	if len(d.Inputs) != len(d.Targets) {
		return newDatasetError(fmt.Sprintf("dataset has %d inputs but %d targets", len(d.Inputs), len(d.Targets)))
	}
	for i, row := range d.Inputs {
		if len(row) != width {
			return newDatasetError(fmt.Sprintf("dataset row %d has %d values, model expects %d", i, len(row), width))
		}
	}
	return nil
}

// StepResult is the outcome of one forward/backward/update iteration.
type StepResult struct {
	Step        int           `json:"step"`
	Loss        float64       `json:"loss"`
	Predictions []float64     `json:"predictions"`
	GraphNodes  int           `json:"graph_nodes"`
	Duration    time.Duration `json:"duration"`
}

// TrainResult summarises a full training run.
type TrainResult struct {
	RunID       string        `json:"run_id"`
	Steps       int           `json:"steps"`
	InitialLoss float64       `json:"initial_loss"`
	FinalLoss   float64       `json:"final_loss"`
	Predictions []float64     `json:"predictions"`
	Converged   bool          `json:"converged"`
	Duration    time.Duration `json:"duration"`
}

// NewValidationError creates a configuration validation error.
func NewValidationError(message string) error {
	return &ValidationError{Kind: ErrInvalidConfig, Message: message}
}

func newDatasetError(message string) error {
	return &ValidationError{Kind: ErrInvalidDataset, Message: message}
}

// ValidationError represents a configuration or dataset validation error.
// Kind is ErrInvalidConfig or ErrInvalidDataset.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Kind }
