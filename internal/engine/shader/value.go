package shader

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/logger"
)

// ErrUnsupportedShape is returned for vectors or matrices that have no
// matching GLSL uniform type.
var ErrUnsupportedShape = errors.New("shader: unsupported uniform shape")

// Kind tags the variant stored in a Value.
type Kind int

const (
	KindNone Kind = iota
	KindInt
	KindFloat
	KindVec2
	KindVec3
	KindVec4
	KindMat3
	KindMat4
)

var kindNames = [...]string{"none", "int", "float", "vec2", "vec3", "vec4", "mat3", "mat4"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a uniform value. The upload call is selected by its kind.
type Value struct {
	kind Kind
	i    int32
	f    float32
	v    mgl32.Vec4
	m3   mgl32.Mat3
	m4   mgl32.Mat4
}

// Int returns an int (or sampler unit) value.
func Int(i int32) Value { return Value{kind: KindInt, i: i} }

// Float returns a float value.
func Float(f float32) Value { return Value{kind: KindFloat, f: f} }

// Vec2 returns a vec2 value.
func Vec2(v mgl32.Vec2) Value { return Value{kind: KindVec2, v: mgl32.Vec4{v[0], v[1]}} }

// Vec3 returns a vec3 value.
func Vec3(v mgl32.Vec3) Value { return Value{kind: KindVec3, v: v.Vec4(0)} }

// Vec4 returns a vec4 value.
func Vec4(v mgl32.Vec4) Value { return Value{kind: KindVec4, v: v} }

// Mat3 returns a mat3 value.
func Mat3(m mgl32.Mat3) Value { return Value{kind: KindMat3, m3: m} }

// Mat4 returns a mat4 value.
func Mat4(m mgl32.Mat4) Value { return Value{kind: KindMat4, m4: m} }

// Kind returns the stored variant.
func (v Value) Kind() Kind { return v.kind }

// IsMatrix reports whether v is a mat3 or mat4.
func (v Value) IsMatrix() bool { return v.kind == KindMat3 || v.kind == KindMat4 }

// VectorOf builds a vec2, vec3 or vec4 value from a slice.
func VectorOf(data []float32) (Value, error) {
	switch len(data) {
	case 2:
		return Vec2(mgl32.Vec2{data[0], data[1]}), nil
	case 3:
		return Vec3(mgl32.Vec3{data[0], data[1], data[2]}), nil
	case 4:
		return Vec4(mgl32.Vec4{data[0], data[1], data[2], data[3]}), nil
	}
	logger.Warn("vector uniform must have 2, 3 or 4 components", zap.Int("components", len(data)))
	return Value{}, fmt.Errorf("vector of %d components: %w", len(data), ErrUnsupportedShape)
}

// MatrixOf builds a mat3 or mat4 value from column-major data.
func MatrixOf(rows, cols int, data []float32) (Value, error) {
	if rows == cols && len(data) == rows*cols {
		switch rows {
		case 3:
			var m mgl32.Mat3
			copy(m[:], data)
			return Mat3(m), nil
		case 4:
			var m mgl32.Mat4
			copy(m[:], data)
			return Mat4(m), nil
		}
	}
	logger.Warn("matrix uniform must be 3x3 or 4x4",
		zap.Int("rows", rows),
		zap.Int("cols", cols),
		zap.Int("len", len(data)),
	)
	return Value{}, fmt.Errorf("%dx%d matrix: %w", rows, cols, ErrUnsupportedShape)
}

func (v Value) upload(dev gfx.Device, loc int32, transpose bool) {
	switch v.kind {
	case KindInt:
		dev.Uniform1i(loc, v.i)
	case KindFloat:
		dev.Uniform1f(loc, v.f)
	case KindVec2:
		dev.Uniform2f(loc, v.v.Vec2())
	case KindVec3:
		dev.Uniform3f(loc, v.v.Vec3())
	case KindVec4:
		dev.Uniform4f(loc, v.v)
	case KindMat3:
		dev.UniformMatrix3(loc, transpose, v.m3)
	case KindMat4:
		dev.UniformMatrix4(loc, transpose, v.m4)
	}
}

// Uniform is a named program input and the last value bound to it.
type Uniform struct {
	Name     string
	Location int32
	Value    Value
}

func (u *Uniform) link(dev gfx.Device, prog gfx.Handle, program string) {
	u.Location = dev.UniformLocation(prog, u.Name)
	if u.Location < 0 {
		logger.Warn("uniform not found in program",
			zap.String("program", program),
			zap.String("uniform", u.Name),
		)
	}
}

// bind stores v and uploads it, transposing matrices when asked.
// Unresolved uniforms only store.
func (u *Uniform) bind(dev gfx.Device, v Value, transpose bool) {
	u.Value = v
	if u.Location < 0 || v.kind == KindNone {
		return
	}
	v.upload(dev, u.Location, transpose)
}
