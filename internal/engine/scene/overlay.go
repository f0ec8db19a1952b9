package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/engine/model"
	"github.com/Faultbox/glscene/internal/engine/shader"
	"github.com/Faultbox/glscene/internal/logger"
	"github.com/Faultbox/glscene/pkg/math"
)

// Overlay names a screen-space debug view.
type Overlay int

const (
	OverlayCube Overlay = iota
	OverlayShadow
)

func (o Overlay) String() string {
	switch o {
	case OverlayCube:
		return "cube map"
	case OverlayShadow:
		return "shadow map"
	default:
		return "unknown"
	}
}

// Screen-space placement of the overlays, just in front of the near plane.
var (
	CubeOverlayPose   = math.Translation(mgl32.Vec3{-0.5, 0.45, -0.99}).Mul4(mgl32.Scale3D(0.45, 0.45, 0.45))
	ShadowOverlayPose = math.Translation(mgl32.Vec3{0.7, -0.7, -0.99}).Mul4(mgl32.Scale3D(0.25, 0.25, 0.25))
)

func (s *Scene) overlay(o Overlay) *model.Model {
	switch o {
	case OverlayCube:
		return s.CubeOverlay
	case OverlayShadow:
		return s.ShadowOverlay
	default:
		return nil
	}
}

// ToggleOverlay flips an overlay's visibility and returns the new state.
// A missing overlay stays hidden.
func (s *Scene) ToggleOverlay(o Overlay) bool {
	m := s.overlay(o)
	if m == nil {
		return false
	}
	m.Visible = !m.Visible
	if m.Visible {
		logger.Info("showing overlay", zap.Stringer("overlay", o))
	}
	return m.Visible
}

// OverlayVisible reports whether an overlay is shown.
func (s *Scene) OverlayVisible(o Overlay) bool {
	m := s.overlay(o)
	return m != nil && m.Visible
}

// drawOverlays draws the screen-space views with identity projection and
// view so their model matrices place them directly in clip space.
func (s *Scene) drawOverlays() error {
	dc := shader.DrawContext{
		P:     mgl32.Ident4(),
		V:     mgl32.Ident4(),
		Light: s.Light,
		Mode:  s.Mode,
		Pass:  shader.PassOverlay,
	}
	var err error
	for _, m := range []*model.Model{s.CubeOverlay, s.ShadowOverlay} {
		if m != nil {
			err = multierr.Append(err, m.Draw(dc, mgl32.Ident4()))
		}
	}
	return err
}
