package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	autograd "github.com/tektwister/ai_engineering/micrograd"
	"github.com/tektwister/ai_engineering/micrograd/internal/domain"
)

var _ domain.Trainer = (*Trainer)(nil)

// Trainer implements the Trainer interface with plain gradient descent.
type Trainer struct {
	model   domain.Model
	params  autograd.Parameters
	config  domain.TrainConfig
	logger  domain.Logger
	metrics domain.MetricsRecorder
	step    int // lifetime count across Train calls, reported as StepResult.Step
}

// NewTrainer creates a new trainer for model.
func NewTrainer(model domain.Model, cfg domain.TrainConfig) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Trainer{
		model:  model,
		params: autograd.Parameters(model.Parameters()),
		config: cfg,
	}, nil
}

// SetLogger sets the logger for the trainer.
func (t *Trainer) SetLogger(logger domain.Logger) {
	t.logger = logger
}

// SetMetricsRecorder sets the metrics recorder for the trainer.
func (t *Trainer) SetMetricsRecorder(metrics domain.MetricsRecorder) {
	t.metrics = metrics
}

// Model returns the model being trained.
func (t *Trainer) Model() domain.Model {
	return t.model
}

// Step runs one iteration: forward, loss, zero grad, backward, adjust.
func (t *Trainer) Step(ctx context.Context, ds domain.Dataset) (*domain.StepResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ds.Validate(t.model.Inputs()); err != nil {
		t.recordError("dataset", err)
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	startTime := time.Now()

	preds, err := t.forward(ds)
	if err != nil {
		t.recordError("forward", err)
		return nil, fmt.Errorf("forward pass failed: %w", err)
	}

	loss, err := SquaredError(preds, ds.Targets)
	if err != nil {
		t.recordError("loss", err)
		return nil, err
	}

	t.params.ZeroGrad()
	loss.Backward()
	t.params.Adjust(-t.config.LearningRate)

	t.step++
	duration := time.Since(startTime)
	result := &domain.StepResult{
		Step:        t.step,
		Loss:        loss.Data(),
		Predictions: data(preds),
		GraphNodes:  len(autograd.TopologicalOrder(loss)),
		Duration:    duration,
	}

	if t.metrics != nil {
		t.metrics.RecordStep(result.Loss, result.GraphNodes, duration.Seconds())
	}

	return result, nil
}

// Train runs the configured number of iterations, stopping early once the
// target loss is reached or ctx is cancelled.
func (t *Trainer) Train(ctx context.Context, ds domain.Dataset) (*domain.TrainResult, error) {
	startTime := time.Now()
	runID := uuid.NewString()

	t.logInfo("Starting training",
		"run_id", runID,
		"samples", ds.Len(),
		"parameters", len(t.params),
		"iterations", t.config.Iterations,
		"learning_rate", t.config.LearningRate)

	result := &domain.TrainResult{RunID: runID}
	for k := 0; k < t.config.Iterations; k++ {
		step, err := t.Step(ctx, ds)
		if err != nil {
			return nil, fmt.Errorf("run %s step %d: %w", runID, k, err)
		}
		if k == 0 {
			result.InitialLoss = step.Loss
		}
		result.Steps = k + 1
		result.FinalLoss = step.Loss

		if t.config.LogEvery > 0 && k%t.config.LogEvery == 0 {
			t.logInfo("Step",
				"run_id", runID,
				"step", k,
				"loss", step.Loss,
				"graph_nodes", step.GraphNodes)
		}
		if t.logger != nil {
			t.logger.Debug("Step complete",
				"run_id", runID,
				"step", k,
				"predictions", step.Predictions,
				"duration", step.Duration)
		}

		if t.config.TargetLoss > 0 && step.Loss <= t.config.TargetLoss {
			result.Converged = true
			break
		}
	}

	preds, err := t.Predict(ds)
	if err != nil {
		return nil, err
	}
	result.Predictions = preds
	result.Duration = time.Since(startTime)

	t.logInfo("Training finished",
		"run_id", runID,
		"steps", result.Steps,
		"final_loss", result.FinalLoss,
		"converged", result.Converged,
		"duration", result.Duration)

	return result, nil
}

// Predict runs a forward pass over every sample.
func (t *Trainer) Predict(ds domain.Dataset) ([]float64, error) {
	if err := ds.Validate(t.model.Inputs()); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}
	preds, err := t.forward(ds)
	if err != nil {
		return nil, fmt.Errorf("forward pass failed: %w", err)
	}
	return data(preds), nil
}

// forward builds a fresh graph for every sample and returns the first output.
func (t *Trainer) forward(ds domain.Dataset) ([]*autograd.Value, error) {
	preds := make([]*autograd.Value, len(ds.Inputs))
	for i, row := range ds.Inputs {
		x := make([]*autograd.Value, len(row))
		for j, f := range row {
			x[j] = autograd.NewValue(f)
		}
		out, err := t.model.Call(x)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("sample %d: model produced no outputs", i)
		}
		preds[i] = out[0]
	}
	return preds, nil
}

func (t *Trainer) recordError(reason string, err error) {
	if t.metrics != nil {
		t.metrics.RecordError(reason)
	}
	if t.logger != nil {
		t.logger.Error("Training step failed", "reason", reason, "error", err)
	}
}

func (t *Trainer) logInfo(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Info(msg, args...)
	}
}

func data(vs []*autograd.Value) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Data()
	}
	return out
}
