package autograd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTo(x float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}

func TestLeaf(t *testing.T) {
	t.Run("NewValue", func(t *testing.T) {
		for _, x := range []float64{0, 1.5, -3, math.Inf(1)} {
			v := NewValue(x)
			assert.Equal(t, x, v.Data())
			assert.Zero(t, v.Grad())
			assert.True(t, v.IsLeaf())
			assert.Equal(t, OpLeaf, v.Op())
			assert.Empty(t, v.Prev())
		}
	})

	t.Run("From", func(t *testing.T) {
		assert.Equal(t, 3.0, From(3).Data())
		assert.Equal(t, 255.0, From(uint8(255)).Data())
		assert.InDelta(t, 0.25, From(float32(0.25)).Data(), 1e-9)
		assert.Equal(t, -7.0, From(int64(-7)).Data())
	})

	t.Run("WithLabel", func(t *testing.T) {
		v := NewValue(2)
		got := v.WithLabel("x1")
		assert.Same(t, v, got)
		assert.Equal(t, "x1", v.Label())
		assert.Equal(t, 2.0, v.Data())
	})
}

func TestOpMetadata(t *testing.T) {
	a, b := NewValue(2), NewValue(3)

	cases := []struct {
		name string
		v    *Value
		op   Op
		sym  string
	}{
		{"add", a.Add(b), OpAdd, "+"},
		{"mul", a.Mul(b), OpMul, "*"},
		{"pow", a.Pow(b), OpPow, "^"},
		{"tanh", a.Tanh(), OpTanh, "tanh"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.op, tc.v.Op())
			assert.Equal(t, tc.sym, tc.v.Op().String())
			assert.Len(t, tc.v.Prev(), tc.op.Arity())
			assert.Same(t, a, tc.v.Prev()[0])
		})
	}

	assert.Equal(t, "", OpLeaf.String())
	assert.Equal(t, 0, OpLeaf.Arity())
}

func TestForwardValues(t *testing.T) {
	a, b := NewValue(2), NewValue(-3)

	assert.Equal(t, -1.0, Add(a, b).Data())
	assert.Equal(t, 5.0, Sub(a, b).Data())
	assert.Equal(t, -6.0, Mul(a, b).Data())
	assert.Equal(t, -2.0, Neg(a).Data())
	assert.Equal(t, 0.125, Pow(a, b).Data())
	assert.Equal(t, math.Tanh(2), Tanh(a).Data())
	assert.Equal(t, 4.0, a.PowScalar(2).Data())
	assert.Equal(t, 2.5, a.AddScalar(0.5).Data())
	assert.Equal(t, 6.0, a.MulScalar(3).Data())
	assert.Equal(t, -1.0, Sum(a, b).Data())
	assert.Equal(t, 0.0, Sum().Data())
}

func TestCompositeStructure(t *testing.T) {
	a, b := NewValue(5), NewValue(3)

	t.Run("Neg is mul by -1", func(t *testing.T) {
		n := a.Neg()
		require.Equal(t, OpMul, n.Op())
		assert.Same(t, a, n.Prev()[0])
		assert.Equal(t, -1.0, n.Prev()[1].Data())
	})

	t.Run("Sub is add of negation", func(t *testing.T) {
		s := a.Sub(b)
		require.Equal(t, OpAdd, s.Op())
		assert.Same(t, a, s.Prev()[0])
		assert.Equal(t, OpMul, s.Prev()[1].Op())
	})

	t.Run("Sum folds from zero", func(t *testing.T) {
		s := Sum(a, b)
		require.Equal(t, OpAdd, s.Op())
		inner := s.Prev()[0]
		require.Equal(t, OpAdd, inner.Op())
		assert.Equal(t, 0.0, inner.Prev()[0].Data())
		assert.True(t, inner.Prev()[0].IsLeaf())
	})
}

func TestDegenerateInputsPassThrough(t *testing.T) {
	assert.True(t, math.IsNaN(NewValue(-8).PowScalar(0.5).Data()))
	assert.True(t, math.IsInf(NewValue(0).PowScalar(-1).Data(), 1))
}

// finiteDiff returns (f(x+eps) - f(x-eps)) / 2eps for the forward value.
func finiteDiff(x *Value, eps float64, f func() *Value) float64 {
	orig := x.Data()
	x.SetData(orig + eps)
	hi := f().Data()
	x.SetData(orig - eps)
	lo := f().Data()
	x.SetData(orig)
	return (hi - lo) / (2 * eps)
}

func TestLocalRulesMatchFiniteDifferences(t *testing.T) {
	const eps = 1e-6

	type binary func(a, b *Value) *Value
	cases := []struct {
		name string
		a, b float64
		f    binary
		// gradB is false where the rule intentionally ignores the second operand.
		gradB bool
	}{
		{"add", 1.3, -0.7, Add, true},
		{"sub", 1.3, -0.7, Sub, true},
		{"mul", 1.3, -0.7, Mul, true},
		{"pow", 1.7, 3.0, Pow, false},
		{"pow fractional", 2.2, 0.5, Pow, false},
		{"neg", 0.4, 0, func(a, _ *Value) *Value { return Neg(a) }, true},
		{"tanh", 0.4, 0, func(a, _ *Value) *Value { return Tanh(a) }, true},
		{"sum", 0.4, 2.5, func(a, b *Value) *Value { return Sum(a, b, a.Mul(b)) }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, b := NewValue(tc.a), NewValue(tc.b)
			out := tc.f(a, b)
			Backward(out)

			wantA := finiteDiff(a, eps, func() *Value { return tc.f(a, b) })
			assert.InDelta(t, wantA, a.Grad(), 1e-5, "d/da")

			if tc.gradB {
				wantB := finiteDiff(b, eps, func() *Value { return tc.f(a, b) })
				assert.InDelta(t, wantB, b.Grad(), 1e-5, "d/db")
			} else {
				assert.Zero(t, b.Grad(), "exponent receives no gradient")
			}
		})
	}
}

func TestStepPanicsOnArityMismatch(t *testing.T) {
	broken := &Value{data: 1, op: OpAdd, prev: []*Value{NewValue(1)}}

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*ArityError)
		require.True(t, ok, "panic value should be *ArityError, got %T", r)
		assert.Equal(t, 2, err.Want)
		assert.Equal(t, 1, err.Got)
		assert.Contains(t, err.Error(), `"+"`)
	}()
	Backward(broken)
}

func TestString(t *testing.T) {
	v := NewValue(1).Add(NewValue(2))
	assert.Equal(t, "Value(data=3.000000, grad=0.000000, op=+)", v.String())

	v.WithLabel("c")
	assert.Equal(t, "Value(data=3.000000, grad=0.000000, op=+, label=c)", v.String())
}

func TestStepPanicsOnUnaryWithoutDependency(t *testing.T) {
	broken := &Value{data: 0.5, op: OpTanh}
	assert.PanicsWithError(t, `autograd: op "tanh" expects 1 dependencies, got 0`, func() {
		Backward(broken)
	})
}
