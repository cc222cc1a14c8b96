// Package autograd is a scalar reverse-mode automatic differentiation engine
// with a small multi-layer perceptron built on top of it.
package autograd

import (
	"fmt"
	"math"
)

// Op identifies the operation that produced a Value.
type Op uint8

const (
	OpLeaf Op = iota
	OpAdd
	OpMul
	OpPow
	OpTanh
)

// String returns the operator symbol, or "" for leaves.
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpMul:
		return "*"
	case OpPow:
		return "^"
	case OpTanh:
		return "tanh"
	default:
		return ""
	}
}

// Arity returns how many dependencies a Value produced by o must have.
func (o Op) Arity() int {
	switch o {
	case OpAdd, OpMul, OpPow:
		return 2
	case OpTanh:
		return 1
	default:
		return 0
	}
}

// Real is the set of numeric types a leaf can be built from.
type Real interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Value represents a scalar value with support for automatic differentiation.
//
// Values are shared by pointer: every holder of the same *Value observes the
// same data and gradient.
type Value struct {
	data  float64
	grad  float64
	label string
	op    Op
	prev  []*Value
}

// NewValue creates a new leaf Value.
func NewValue(data float64) *Value {
	return &Value{data: data}
}

// From creates a leaf Value from any real number.
func From[T Real](x T) *Value {
	return NewValue(float64(x))
}

func newResult(data float64, op Op, prev ...*Value) *Value {
	return &Value{data: data, op: op, prev: prev}
}

// Data returns the underlying data of the Value.
func (v *Value) Data() float64 {
	return v.data
}

// Grad returns the gradient of the Value.
func (v *Value) Grad() float64 {
	return v.grad
}

// Label returns the diagnostic label, if any.
func (v *Value) Label() string {
	return v.label
}

// WithLabel sets the diagnostic label and returns v.
func (v *Value) WithLabel(label string) *Value {
	v.label = label
	return v
}

// Op returns the operation that produced v.
func (v *Value) Op() Op {
	return v.op
}

// Prev returns the dependencies of v in argument order.
func (v *Value) Prev() []*Value {
	out := make([]*Value, len(v.prev))
	copy(out, v.prev)
	return out
}

// IsLeaf reports whether v has no dependencies.
func (v *Value) IsLeaf() bool {
	return len(v.prev) == 0
}

// Add performs addition: v + other
func (v *Value) Add(other *Value) *Value {
	return newResult(v.data+other.data, OpAdd, v, other)
}

// AddScalar performs addition with a float64: v + scalar
func (v *Value) AddScalar(scalar float64) *Value {
	return v.Add(NewValue(scalar))
}

// Mul performs multiplication: v * other
func (v *Value) Mul(other *Value) *Value {
	return newResult(v.data*other.data, OpMul, v, other)
}

// MulScalar performs multiplication with a float64: v * scalar
func (v *Value) MulScalar(scalar float64) *Value {
	return v.Mul(NewValue(scalar))
}

// Pow performs power operation: v ^ other.
// Only the base receives a gradient; the exponent is treated as a constant.
func (v *Value) Pow(other *Value) *Value {
	return newResult(math.Pow(v.data, other.data), OpPow, v, other)
}

// PowScalar performs power operation with a float64 exponent.
func (v *Value) PowScalar(exp float64) *Value {
	return v.Pow(NewValue(exp))
}

// Neg computes -v
func (v *Value) Neg() *Value {
	return v.MulScalar(-1)
}

// Sub computes v - other
func (v *Value) Sub(other *Value) *Value {
	return v.Add(other.Neg())
}

// Tanh performs hyperbolic tangent activation
func (v *Value) Tanh() *Value {
	return newResult(math.Tanh(v.data), OpTanh, v)
}

// Add returns a + b.
func Add(a, b *Value) *Value { return a.Add(b) }

// Sub returns a - b.
func Sub(a, b *Value) *Value { return a.Sub(b) }

// Mul returns a * b.
func Mul(a, b *Value) *Value { return a.Mul(b) }

// Neg returns -a.
func Neg(a *Value) *Value { return a.Neg() }

// Pow returns a ^ b.
func Pow(a, b *Value) *Value { return a.Pow(b) }

// Tanh returns tanh(a).
func Tanh(a *Value) *Value { return a.Tanh() }

// Sum folds values with Add, starting from a zero leaf.
func Sum(values ...*Value) *Value {
	acc := NewValue(0)
	for _, v := range values {
		acc = acc.Add(v)
	}
	return acc
}

// step pushes v.grad into v's dependencies using the local rule for v.op.
// Leaves have no rule.
func (v *Value) step() {
	if len(v.prev) != v.op.Arity() {
		panic(&ArityError{Op: v.op, Want: v.op.Arity(), Got: len(v.prev)})
	}

	switch v.op {
	case OpAdd:
		a, b := v.prev[0], v.prev[1]
		a.grad += v.grad
		b.grad += v.grad
	case OpMul:
		a, b := v.prev[0], v.prev[1]
		a.grad += b.data * v.grad
		b.grad += a.data * v.grad
	case OpPow:
		base, exp := v.prev[0], v.prev[1]
		base.grad += exp.data * math.Pow(base.data, exp.data-1) * v.grad
	case OpTanh:
		a := v.prev[0]
		a.grad += (1 - v.data*v.data) * v.grad
	}
}

// ArityError reports a Value whose dependency count does not match its Op.
type ArityError struct {
	Op   Op
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("autograd: op %q expects %d dependencies, got %d", e.Op, e.Want, e.Got)
}

// String implements the Stringer interface for pretty printing.
func (v *Value) String() string {
	if v.label == "" {
		return fmt.Sprintf("Value(data=%f, grad=%f, op=%s)", v.data, v.grad, v.op)
	}
	return fmt.Sprintf("Value(data=%f, grad=%f, op=%s, label=%s)", v.data, v.grad, v.op, v.label)
}
