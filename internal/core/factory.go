package core

import (
	"fmt"
	"math/rand"

	autograd "github.com/tektwister/ai_engineering/micrograd"
	"github.com/tektwister/ai_engineering/micrograd/internal/domain"
)

// NewModel creates an MLP with nin inputs and the given layer sizes,
// initialised from seed.
func NewModel(nin int, layers []int, seed int64) (domain.Model, error) {
	rng := rand.New(rand.NewSource(seed))
	mlp, err := autograd.NewMLP(nin, layers, rng)
	if err != nil {
		return nil, fmt.Errorf("create model: %w", err)
	}
	return mlp, nil
}

// CreateTrainer creates a trainer for a freshly initialised MLP.
func CreateTrainer(nin int, layers []int, seed int64, cfg domain.TrainConfig) (*Trainer, error) {
	model, err := NewModel(nin, layers, seed)
	if err != nil {
		return nil, err
	}
	return NewTrainer(model, cfg)
}
