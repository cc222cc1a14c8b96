package autograd

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrShapeMismatch is returned when an input does not fit a network's shape.
var ErrShapeMismatch = errors.New("shape mismatch")

// ShapeError describes a mismatched or invalid size.
type ShapeError struct {
	What string
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: want %d, got %d", ErrShapeMismatch, e.What, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// Module is the interface for all neural network modules.
type Module interface {
	Parameters() []*Value
	ZeroGrad()
}

// Neuron represents a single neuron with weights and a bias.
type Neuron struct {
	w []*Value
	b *Value
}

// NewNeuron creates a new Neuron with nin inputs. Weights and bias are drawn
// uniformly from [-1, 1).
func NewNeuron(nin int, rng *rand.Rand) *Neuron {
	w := make([]*Value, nin)
	for i := range w {
		w[i] = NewValue(rng.Float64()*2 - 1)
	}
	b := NewValue(rng.Float64()*2 - 1).WithLabel("b")
	return &Neuron{w: w, b: b}
}

// NewNeuronWithWeights creates a Neuron with fixed weights and bias.
func NewNeuronWithWeights(w []float64, b float64) *Neuron {
	ws := make([]*Value, len(w))
	for i, x := range w {
		ws[i] = NewValue(x)
	}
	return &Neuron{w: ws, b: NewValue(b).WithLabel("b")}
}

// Call computes tanh(b + sum(w_i * x_i)).
func (n *Neuron) Call(x []*Value) (*Value, error) {
	if len(x) != len(n.w) {
		return nil, &ShapeError{What: "neuron inputs", Want: len(n.w), Got: len(x)}
	}

	products := make([]*Value, len(n.w))
	for i, wi := range n.w {
		products[i] = wi.Mul(x[i])
	}
	act := n.b.Add(Sum(products...))
	return act.Tanh(), nil
}

// Parameters returns the bias followed by the weights.
func (n *Neuron) Parameters() []*Value {
	params := make([]*Value, 0, len(n.w)+1)
	params = append(params, n.b)
	return append(params, n.w...)
}

// ZeroGrad resets gradients of all parameters in the neuron.
func (n *Neuron) ZeroGrad() {
	Parameters(n.Parameters()).ZeroGrad()
}

// Layer represents a layer of neurons.
type Layer struct {
	neurons []*Neuron
}

// NewLayer creates a new Layer with nin inputs and nout outputs.
func NewLayer(nin, nout int, rng *rand.Rand) *Layer {
	neurons := make([]*Neuron, nout)
	for i := range neurons {
		neurons[i] = NewNeuron(nin, rng)
	}
	return &Layer{neurons: neurons}
}

// Call computes the output of every neuron for input x.
func (l *Layer) Call(x []*Value) ([]*Value, error) {
	outs := make([]*Value, len(l.neurons))
	for i, n := range l.neurons {
		out, err := n.Call(x)
		if err != nil {
			return nil, fmt.Errorf("neuron %d: %w", i, err)
		}
		outs[i] = out
	}
	return outs, nil
}

// Parameters returns the parameters of all neurons in the layer.
func (l *Layer) Parameters() []*Value {
	var params []*Value
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}

// ZeroGrad resets gradients of all parameters in the layer.
func (l *Layer) ZeroGrad() {
	Parameters(l.Parameters()).ZeroGrad()
}

// MLP represents a Multi-Layer Perceptron.
type MLP struct {
	nin    int
	layers []*Layer
}

// NewMLP creates a new MLP.
// nin is the number of inputs.
// nouts is a list of the number of neurons in each layer.
func NewMLP(nin int, nouts []int, rng *rand.Rand) (*MLP, error) {
	if nin < 1 {
		return nil, &ShapeError{What: "mlp inputs", Want: 1, Got: nin}
	}
	if len(nouts) == 0 {
		return nil, &ShapeError{What: "mlp layers", Want: 1, Got: 0}
	}

	layers := make([]*Layer, len(nouts))
	sz := append([]int{nin}, nouts...)
	for i := range nouts {
		if sz[i+1] < 1 {
			return nil, &ShapeError{What: fmt.Sprintf("layer %d size", i), Want: 1, Got: sz[i+1]}
		}
		layers[i] = NewLayer(sz[i], sz[i+1], rng)
	}
	return &MLP{nin: nin, layers: layers}, nil
}

// Inputs returns the number of inputs the MLP expects.
func (m *MLP) Inputs() int {
	return m.nin
}

// Call computes the output of the MLP for input x.
func (m *MLP) Call(x []*Value) ([]*Value, error) {
	for i, l := range m.layers {
		out, err := l.Call(x)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		x = out
	}
	return x, nil
}

// Parameters returns the parameters of all layers in the MLP.
func (m *MLP) Parameters() []*Value {
	var params []*Value
	for _, l := range m.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

// ZeroGrad resets gradients of all parameters in the MLP.
func (m *MLP) ZeroGrad() {
	Parameters(m.Parameters()).ZeroGrad()
}
