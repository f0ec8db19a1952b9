// Package math provides the transform helpers used by the renderer.
// Matrices are mgl32 values in column-major order (OpenGL compatible).
package math

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Translation returns a matrix translating by v.
func Translation(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(v[0], v[1], v[2])
}

// Scale returns a non-uniform scale matrix.
func Scale(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Scale3D(v[0], v[1], v[2])
}

// RotationX returns a rotation around the X axis. angle is in radians.
func RotationX(angle float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(angle)
}

// RotationY returns a rotation around the Y axis. angle is in radians.
func RotationY(angle float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(angle)
}

// RotationZ returns a rotation around the Z axis. angle is in radians.
func RotationZ(angle float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(angle)
}

// Pose returns translate(position) * scale(s) with a uniform scale.
func Pose(position mgl32.Vec3, s float32) mgl32.Mat4 {
	return Translation(position).Mul4(mgl32.Scale3D(s, s, s))
}

// PoseScaled is Pose with a per-axis scale.
func PoseScaled(position, s mgl32.Vec3) mgl32.Mat4 {
	return Translation(position).Mul4(Scale(s))
}

// Frustum returns a perspective projection from clip-plane extents.
func Frustum(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	return mgl32.Frustum(left, right, bottom, top, near, far)
}

// Homog lifts a point to homogeneous coordinates (w = 1).
func Homog(p mgl32.Vec3) mgl32.Vec4 {
	return p.Vec4(1)
}

// Unhomog divides by w. Points at infinity (w == 0) are returned as-is.
func Unhomog(v mgl32.Vec4) mgl32.Vec3 {
	if v[3] == 0 || v[3] == 1 {
		return v.Vec3()
	}
	return mgl32.Vec3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
}

// TransformPoint applies m to the point p and dehomogenizes the result.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return Unhomog(m.Mul4x1(Homog(p)))
}

// NormalMatrix returns the inverse-transpose of the upper 3x3 of m.
// Singular matrices yield a zero matrix (mgl32 Inv semantics).
func NormalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	return m.Inv().Mat3().Transpose()
}

// ViewTranspose returns the transposed rotation part of a view matrix,
// which maps view-space directions back to world space.
func ViewTranspose(v mgl32.Mat4) mgl32.Mat3 {
	return v.Mat3().Transpose()
}

// WithoutTranslation drops the translation column of m.
func WithoutTranslation(m mgl32.Mat4) mgl32.Mat4 {
	return m.Mat3().Mat4()
}

// SafeNormalize returns a unit vector, or the zero vector when v has no length.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
