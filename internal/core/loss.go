package core

import (
	"fmt"

	autograd "github.com/tektwister/ai_engineering/micrograd"
)

// SquaredError returns sum((pred - target)^2) as a graph node.
func SquaredError(preds []*autograd.Value, targets []float64) (*autograd.Value, error) {
	if len(preds) != len(targets) {
		return nil, fmt.Errorf("squared error: %d predictions for %d targets", len(preds), len(targets))
	}

	terms := make([]*autograd.Value, len(preds))
	for i, yp := range preds {
		yg := autograd.NewValue(targets[i])
		terms[i] = yp.Sub(yg).PowScalar(2)
	}
	return autograd.Sum(terms...), nil
}
