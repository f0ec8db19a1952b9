package math

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTranslation(t *testing.T) {
	m := Translation(mgl32.Vec3{5, 10, 15})

	// Translation lives in column 4 (indices 12, 13, 14)
	assert.Equal(t, float32(5), m[12])
	assert.Equal(t, float32(10), m[13])
	assert.Equal(t, float32(15), m[14])
}

func TestTransformPoint(t *testing.T) {
	m := Translation(mgl32.Vec3{10, 20, 30})
	got := TransformPoint(m, mgl32.Vec3{1, 2, 3})
	assert.Equal(t, mgl32.Vec3{11, 22, 33}, got)
}

func TestPose(t *testing.T) {
	m := Pose(mgl32.Vec3{1, 0, 0}, 2)
	got := TransformPoint(m, mgl32.Vec3{1, 1, 1})
	assert.Equal(t, mgl32.Vec3{3, 2, 2}, got)
}

func TestRotationY90(t *testing.T) {
	m := RotationY(float32(gomath.Pi / 2))
	got := TransformPoint(m, mgl32.Vec3{1, 0, 0})

	// (1,0,0) rotated 90 degrees about Y lands on (0,0,-1)
	assert.True(t, got.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5), "got %v", got)
}

func TestUnhomog(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, Unhomog(mgl32.Vec4{2, 4, 6, 2}))
	assert.Equal(t, mgl32.Vec3{2, 4, 6}, Unhomog(mgl32.Vec4{2, 4, 6, 0}))
}

func TestNormalMatrixOfUniformScale(t *testing.T) {
	n := NormalMatrix(mgl32.Scale3D(2, 2, 2))
	assert.True(t, n.ApproxEqualThreshold(mgl32.Ident3().Mul(0.5), 1e-6), "got %v", n)
}

func TestNormalMatrixIgnoresTranslation(t *testing.T) {
	n := NormalMatrix(Translation(mgl32.Vec3{4, 5, 6}))
	assert.True(t, n.ApproxEqualThreshold(mgl32.Ident3(), 1e-6))
}

func TestViewTransposeInvertsRotation(t *testing.T) {
	v := RotationX(0.3).Mul4(RotationY(1.2))
	back := ViewTranspose(v).Mul3(v.Mat3())
	assert.True(t, back.ApproxEqualThreshold(mgl32.Ident3(), 1e-5))
}

func TestWithoutTranslation(t *testing.T) {
	m := Translation(mgl32.Vec3{1, 2, 3}).Mul4(RotationZ(0.5))
	stripped := WithoutTranslation(m)
	assert.Equal(t, float32(0), stripped[12])
	assert.Equal(t, float32(0), stripped[13])
	assert.Equal(t, float32(0), stripped[14])
	assert.Equal(t, m.Mat3(), stripped.Mat3())
}

func TestSafeNormalize(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{}, SafeNormalize(mgl32.Vec3{}))
	assert.InDelta(t, 1.0, SafeNormalize(mgl32.Vec3{3, 4, 0}).Len(), 1e-6)
}

func TestFrustumMapsNearPlaneToMinusOne(t *testing.T) {
	p := Frustum(-1, 1, -1, 1, 1, 20)
	got := TransformPoint(p, mgl32.Vec3{0, 0, -1})
	assert.InDelta(t, -1.0, got[2], 1e-5)
}
