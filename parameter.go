package autograd

// SetData sets the underlying data of the Value.
func (v *Value) SetData(d float64) {
	v.data = d
}

// ZeroGrad resets the gradient to 0.
func (v *Value) ZeroGrad() {
	v.grad = 0.0
}

// Adjust moves the value along its gradient: data += factor * grad.
// A gradient-descent step passes the negative learning rate.
func (v *Value) Adjust(factor float64) {
	v.data += factor * v.grad
}

// Parameters is a flat list of trainable values.
type Parameters []*Value

// ZeroGrad resets the gradient of every parameter.
func (ps Parameters) ZeroGrad() {
	for _, p := range ps {
		p.ZeroGrad()
	}
}

// Adjust applies Adjust(factor) to every parameter.
func (ps Parameters) Adjust(factor float64) {
	for _, p := range ps {
		p.Adjust(factor)
	}
}

// Data returns a snapshot of the parameter values.
func (ps Parameters) Data() []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.data
	}
	return out
}
