package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	assert.Equal(t, Vec3{0, 0, 1}, x.Cross(y))
	assert.Equal(t, Vec3{0, 0, -1}, y.Cross(x))
	assert.Equal(t, Vec3{}, x.Cross(x))
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}.Normalize()
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[2], 1e-6)
	assert.InDelta(t, 1, v.Len(), 1e-6)

	// Degenerate input collapses to zero instead of producing NaN.
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
}

func TestMat4FromSlice(t *testing.T) {
	_, ok := Mat4FromSlice(make([]float32, 15))
	assert.False(t, ok)

	m, ok := Mat4FromSlice([]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	require.True(t, ok)
	assert.True(t, m.IsIdentity())
}

func TestMat4Mul(t *testing.T) {
	id := Mat4Identity()
	scale := Mat4{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 1,
	}
	assert.Equal(t, scale, Mat4Mul(id, scale))
	assert.Equal(t, scale, Mat4Mul(scale, id))

	translate := Mat4{
		1, 0, 0, 5,
		0, 1, 0, -1,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	p := Mat4Mul(translate, scale).MulPoint(Vec3{1, 1, 1})
	assert.Equal(t, Vec3{7, 1, 2}, p)
}

func TestMat4Transpose(t *testing.T) {
	m := Mat4{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	tr := m.Transpose()
	assert.Equal(t, float32(5), tr[1])
	assert.Equal(t, m, tr.Transpose())
}

func TestEulerToQuat(t *testing.T) {
	q := EulerToQuat(0, 0, 0)
	assert.Equal(t, Quat{0, 0, 0, 1}, q)

	// 90 degrees around Y.
	q = EulerToQuat(0, Deg2Rad(90), 0)
	assert.InDelta(t, 0, q[0], 1e-6)
	assert.InDelta(t, 0.70710678, q[1], 1e-5)
	assert.InDelta(t, 0, q[2], 1e-6)
	assert.InDelta(t, 0.70710678, q[3], 1e-5)
}
