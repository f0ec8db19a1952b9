package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestViewPositionAppliesView(t *testing.T) {
	l := New(mgl32.Vec3{3, 4, -3})
	v := mgl32.Translate3D(0, 0, -5).Mul4(mgl32.HomogRotate3DY(0.4))

	want := v.Mul4x1(mgl32.Vec4{3, 4, -3, 1}).Vec3()
	assert.True(t, l.ViewPosition(v).ApproxEqualThreshold(want, 1e-5))
}

func TestScaleMovesAlongOriginRay(t *testing.T) {
	l := New(mgl32.Vec3{3, 4, -3})
	l.Scale(1.1)
	assert.True(t, l.Position.ApproxEqualThreshold(mgl32.Vec3{3.3, 4.4, -3.3}, 1e-5))
	l.Scale(0.9)
	assert.True(t, l.Position.ApproxEqualThreshold(mgl32.Vec3{2.97, 3.96, -2.97}, 1e-5))
}
