package dynamo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var sampleVectors = []Vec3{
	{0, 0, 0},
	{1, 2, 3},
	{-4.5, 0.25, 7},
	{1e-3, -1e3, 42},
	{0.1, 0.2, 0.3},
}

func assertVecInDelta(t *testing.T, want, got Vec3, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}

func TestVec3_AdditionLaws(t *testing.T) {
	for _, a := range sampleVectors {
		for _, b := range sampleVectors {
			assertVecInDelta(t, a.Add(b), b.Add(a), 1e-12)
			for _, c := range sampleVectors {
				assertVecInDelta(t, a.Add(b).Add(c), a.Add(b.Add(c)), 1e-9)
			}
		}
	}
}

func TestVec3_ScaleIdentity(t *testing.T) {
	for _, a := range sampleVectors {
		assert.Equal(t, a, a.Scale(1.0))
	}
}

func TestVec3_CrossIsOrthogonal(t *testing.T) {
	for _, a := range sampleVectors {
		for _, b := range sampleVectors {
			c := a.Cross(b)
			tol := 1e-9 * (1 + a.LenSq()*b.Len())
			assert.InDelta(t, 0, c.Dot(a), tol)
			assert.InDelta(t, 0, c.Dot(b), tol)
		}
	}
}

func TestVec3_CrossBasis(t *testing.T) {
	x, y, z := V(1, 0, 0), V(0, 1, 0), V(0, 0, 1)
	assert.Equal(t, z, x.Cross(y))
	assert.Equal(t, x, y.Cross(z))
	assert.Equal(t, y, z.Cross(x))
}

func TestVec3_Norms(t *testing.T) {
	v := V(3, 4, 12)
	assert.Equal(t, 169.0, v.LenSq())
	assert.Equal(t, 13.0, v.Len())
	for _, a := range sampleVectors {
		assert.GreaterOrEqual(t, a.LenSq(), 0.0)
	}
}

func TestVec3_Componentwise(t *testing.T) {
	a := V(2, 6, -8)
	b := V(1, 3, 4)
	assert.Equal(t, V(2, 18, -32), a.Mul(b))
	assert.Equal(t, V(2, 2, -2), a.DivVec(b))
	assert.Equal(t, V(1, 3, -4), a.Div(2))
	assert.Equal(t, V(1, -3, -12), a.Sub(b).Sub(V(0, 0, 0)).Add(V(0, -6, 0)))
	assert.Equal(t, 2+18-32.0, a.Dot(b))
}

func TestVec3_Lerp(t *testing.T) {
	a := V(0, 0, 0)
	b := V(2, -4, 6)
	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
	assert.Equal(t, V(1, -2, 3), a.Lerp(b, 0.5))
}

func TestVec3_IsFinite(t *testing.T) {
	assert.True(t, V(1, 2, 3).IsFinite())
	assert.False(t, V(math.NaN(), 0, 0).IsFinite())
	assert.False(t, V(0, math.Inf(1), 0).IsFinite())
	assert.False(t, V(0, 0, math.Inf(-1)).IsFinite())
}
