// Package jungle assembles the demo scene: an island under a skybox with a
// shadow-casting tree, a mirrored ball and the debug overlays.
package jungle

import (
	"fmt"
	"image/color"
	"path"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/config"
	"github.com/Faultbox/glscene/internal/engine/envmap"
	"github.com/Faultbox/glscene/internal/engine/input"
	"github.com/Faultbox/glscene/internal/engine/mesh"
	"github.com/Faultbox/glscene/internal/engine/model"
	"github.com/Faultbox/glscene/internal/engine/scene"
	"github.com/Faultbox/glscene/internal/engine/shader"
	"github.com/Faultbox/glscene/internal/engine/shadow"
	"github.com/Faultbox/glscene/internal/engine/texture"
	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/logger"
	"github.com/Faultbox/glscene/pkg/math"
)

// Assets supplies the files the scene is built from.
type Assets interface {
	texture.ImageLoader
	shader.SourceProvider
	LoadMeshes(name string) ([]*mesh.Mesh, error)
}

// Sky colours for the generated skybox used when no cube faces are found.
var (
	skyTop     = color.RGBA{R: 90, G: 140, B: 230, A: 255}
	skyHorizon = color.RGBA{R: 200, G: 220, B: 255, A: 255}
	skyGround  = color.RGBA{R: 60, G: 90, B: 60, A: 255}
)

const skyFaceSize = 64

// SceneConfig derives the scene settings from cfg.
func SceneConfig(cfg *config.Config) scene.Config {
	return scene.Config{
		Width:            int32(cfg.Graphics.Width),
		Height:           int32(cfg.Graphics.Height),
		ClearColor:       mgl32.Vec4(cfg.Graphics.ClearColor),
		Mode:             int32(cfg.Graphics.Mode),
		LightMarkerScale: cfg.Light.MarkerScale,
	}
}

type builder struct {
	s      *scene.Scene
	ctx    *gfx.Context
	assets Assets
	cfg    *config.Config
}

// Build fills s from cfg. On error the models built so far are already
// owned by s and are released by s.Destroy.
func Build(s *scene.Scene, cfg *config.Config, assets Assets) (*model.Model, error) {
	b := &builder{s: s, ctx: s.Context(), assets: assets, cfg: cfg}

	s.Light.Position = mgl32.Vec3(cfg.Light.Position)
	s.Camera.Distance = cfg.Camera.Distance
	s.Camera.Azimuth = cfg.Camera.Azimuth
	s.Camera.Zenith = cfg.Camera.Zenith
	s.Camera.Center = mgl32.Vec3(cfg.Camera.Center)
	s.Camera.Update()

	if err := b.passes(); err != nil {
		return nil, err
	}
	if err := b.skybox(); err != nil {
		return nil, err
	}
	if err := b.island(); err != nil {
		return nil, err
	}
	for _, mc := range cfg.Assets.Models {
		if err := b.gltf(mc); err != nil {
			return nil, err
		}
	}
	ball, err := b.mirrorBall()
	if err != nil {
		return nil, err
	}
	if err := b.overlays(); err != nil {
		return nil, err
	}
	if err := b.lightMarker(); err != nil {
		return nil, err
	}

	logger.Info("jungle scene built",
		zap.Int("models", len(s.Models())),
		zap.Int("reflective", len(s.Reflective())),
		zap.Bool("shadows", s.Shadows != nil),
		zap.Bool("environment", s.Environment != nil),
	)
	return ball, nil
}

func (b *builder) passes() error {
	var err error
	if b.cfg.Shadows.Enabled {
		bounds := shadow.Bounds{Radius: b.cfg.Shadows.Radius}
		b.s.Shadows, err = shadow.New(b.ctx, b.s.Light, bounds, int32(b.cfg.Shadows.Resolution), b.assets)
		if err != nil {
			return fmt.Errorf("shadow map: %w", err)
		}
	}
	if b.cfg.Environment.Enabled {
		b.s.Environment, err = envmap.New(b.ctx, int32(b.cfg.Environment.Size), b.cfg.Environment.Static)
		if err != nil {
			return fmt.Errorf("environment map: %w", err)
		}
	}
	return nil
}

func (b *builder) program(m shader.ShadingModel) (*shader.Program, error) {
	p, err := shader.New(m, b.assets)
	if err != nil {
		return nil, err
	}
	b.s.Own(p)
	return p, nil
}

// receiver returns a program for models that show shadows, falling back to
// plain Phong when the shadow pass is off.
func (b *builder) receiver() (*shader.Program, error) {
	if b.s.Shadows == nil {
		return b.program(shader.Phong)
	}
	p, err := b.program(shader.ShadowMapping)
	if err != nil {
		return nil, err
	}
	b.s.Shadows.Attach(p)
	return p, nil
}

func (b *builder) build(name string, m *mesh.Mesh, M mgl32.Mat4, prog *shader.Program) (*model.Model, error) {
	mdl, err := model.Build(b.ctx, name, m, M, prog)
	if err != nil {
		m.ReleaseTextures()
		return nil, err
	}
	return mdl, nil
}

func (b *builder) add(name string, m *mesh.Mesh, M mgl32.Mat4, prog *shader.Program, castsShadow bool) error {
	mdl, err := b.build(name, m, M, prog)
	if err != nil {
		return err
	}
	mdl.CastsShadow = castsShadow
	return b.s.AddModel(mdl)
}

func (b *builder) skyCube() (*texture.Texture, error) {
	if dir := b.cfg.Assets.Skybox; dir != "" {
		cube, err := texture.LoadCube(b.ctx, b.assets, dir)
		if err == nil {
			return cube, nil
		}
		logger.Warn("skybox not loaded, using gradient", zap.String("dir", dir), zap.Error(err))
	}

	side := texture.Gradient(skyFaceSize, skyFaceSize, skyTop, skyHorizon)
	faces := make(map[gfx.CubeFace]*texture.Image, len(gfx.CubeFaces))
	for _, face := range gfx.CubeFaces {
		faces[face] = side
	}
	faces[gfx.FacePositiveY] = texture.Solid(skyFaceSize, skyFaceSize, skyTop)
	faces[gfx.FaceNegativeY] = texture.Solid(skyFaceSize, skyFaceSize, skyGround)
	return texture.NewCube(b.ctx, "gradient sky", faces)
}

func (b *builder) skybox() error {
	cube, err := b.skyCube()
	if err != nil {
		return err
	}
	m := mesh.Cube(true)
	m.AddTexture(cube)
	cube.Release()

	prog, err := b.program(shader.Skybox)
	if err != nil {
		m.ReleaseTextures()
		return err
	}
	b.s.Skybox, err = b.build("skybox", m, math.Pose(mgl32.Vec3{}, 10), prog)
	return err
}

func (b *builder) island() error {
	sand, err := b.receiver()
	if err != nil {
		return err
	}
	ground := mesh.Plane(4)
	ground.Material = &mesh.Material{
		Name:  "sand",
		Ka:    mgl32.Vec3{0.4, 0.35, 0.2},
		Kd:    mgl32.Vec3{0.8, 0.7, 0.45},
		Ks:    mgl32.Vec3{0.1, 0.1, 0.1},
		Ns:    4,
		Alpha: 1,
	}
	M := math.Translation(mgl32.Vec3{0, -1, 0}).Mul4(math.Scale(mgl32.Vec3{5, 1, 5}))
	if err := b.add("island", ground, M, sand, true); err != nil {
		return err
	}

	bark, err := b.program(shader.Phong)
	if err != nil {
		return err
	}
	trunk := mesh.Cube(false)
	trunk.Material = &mesh.Material{
		Name:  "bark",
		Ka:    mgl32.Vec3{0.25, 0.15, 0.05},
		Kd:    mgl32.Vec3{0.45, 0.3, 0.1},
		Ks:    mgl32.Vec3{0.05, 0.05, 0.05},
		Ns:    2,
		Alpha: 1,
	}
	M = math.PoseScaled(mgl32.Vec3{1.5, 0, 0}, mgl32.Vec3{0.1, 1, 0.1})
	if err := b.add("trunk", trunk, M, bark, true); err != nil {
		return err
	}

	leaves, err := b.program(shader.Phong)
	if err != nil {
		return err
	}
	canopy := mesh.Sphere(16, 16)
	canopy.Material = &mesh.Material{
		Name:  "leaves",
		Ka:    mgl32.Vec3{0.05, 0.25, 0.05},
		Kd:    mgl32.Vec3{0.15, 0.6, 0.15},
		Ks:    mgl32.Vec3{0.2, 0.2, 0.2},
		Ns:    8,
		Alpha: 1,
	}
	return b.add("canopy", canopy, math.Pose(mgl32.Vec3{1.5, 1.2, 0}, 0.7), leaves, true)
}

func (b *builder) gltf(mc config.ModelConfig) error {
	meshes, err := b.assets.LoadMeshes(mc.File)
	if err != nil {
		return fmt.Errorf("model %s: %w", mc.File, err)
	}
	scale := mc.Scale
	if scale == 0 {
		scale = 1
	}
	M := math.Pose(mgl32.Vec3(mc.Position), scale)

	for _, m := range meshes {
		b.attachDiffuse(mc.File, m)

		// One program per model: glTF primitives differ in attribute layout.
		var prog *shader.Program
		if mc.Shader == "" {
			prog, err = b.receiver()
		} else {
			var sm shader.ShadingModel
			if sm, err = shader.ParseShadingModel(mc.Shader); err == nil {
				prog, err = b.program(sm)
			}
		}
		if err != nil {
			m.ReleaseTextures()
			return fmt.Errorf("model %s: %w", mc.File, err)
		}
		if err := b.add(m.Name, m, M, prog, mc.CastsShadow); err != nil {
			return err
		}
	}
	return nil
}

// attachDiffuse loads the material's diffuse map, resolved next to file.
func (b *builder) attachDiffuse(file string, m *mesh.Mesh) {
	if m.Material == nil || m.Material.Texture == "" || m.TexCoords == nil {
		return
	}
	name := path.Join(path.Dir(file), m.Material.Texture)
	img, err := b.assets.LoadImage(name)
	if err == nil {
		var tex *texture.Texture
		if tex, err = texture.New2D(b.ctx, name, img, texture.DefaultSampling); err == nil {
			m.AddTexture(tex)
			tex.Release()
			return
		}
	}
	logger.Warn("diffuse map not loaded", zap.String("mesh", m.Name), zap.String("file", name), zap.Error(err))
}

func (b *builder) mirrorBall() (*model.Model, error) {
	if b.s.Environment == nil {
		return nil, nil
	}
	prog, err := b.program(shader.Environment)
	if err != nil {
		return nil, err
	}
	b.s.Environment.Attach(prog)

	ball, err := b.build("mirror ball", mesh.Sphere(32, 32), math.Pose(mgl32.Vec3{0, -0.5, 0}, 0.5), prog)
	if err != nil {
		return nil, err
	}
	if err := b.s.AddReflective(ball); err != nil {
		ball.Destroy()
		return nil, err
	}

	b.s.KeyHandlers[input.Key1] = func() {
		ball.M = math.Translation(mgl32.Vec3{0, 1, 0}).Mul4(ball.M)
	}
	b.s.KeyHandlers[input.Key2] = func() {
		ball.M = math.RotationX(1).Mul4(ball.M)
	}
	return ball, nil
}

func (b *builder) overlays() error {
	var cube *texture.Texture
	switch {
	case b.s.Environment != nil:
		cube = b.s.Environment.Texture()
	case b.s.Skybox != nil:
		cube = b.s.Skybox.Mesh.Textures[0]
	}
	if cube != nil {
		prog, err := b.program(shader.FlattenedCube)
		if err != nil {
			return err
		}
		flat := mesh.FlattenedCube()
		flat.AddTexture(cube)
		if b.s.CubeOverlay, err = b.build("cube overlay", flat, scene.CubeOverlayPose, prog); err != nil {
			return err
		}
		b.s.CubeOverlay.Visible = b.cfg.Debug.CubeOverlay
	}

	if b.s.Shadows != nil {
		prog, err := b.program(shader.ShowTexture)
		if err != nil {
			return err
		}
		quad := mesh.Quad()
		quad.AddTexture(b.s.Shadows.Texture())
		if b.s.ShadowOverlay, err = b.build("shadow overlay", quad, scene.ShadowOverlayPose, prog); err != nil {
			return err
		}
		b.s.ShadowOverlay.Visible = b.cfg.Debug.ShadowOverlay
	}
	return nil
}

func (b *builder) lightMarker() error {
	prog, err := b.program(shader.Flat)
	if err != nil {
		return err
	}
	sphere := mesh.Sphere(12, 12)
	mat := mesh.DefaultMaterial()
	mat.Name = "light"
	mat.Ka = mgl32.Vec3{10, 10, 10}
	sphere.Material = &mat
	b.s.LightMarker, err = b.build("light marker", sphere, mgl32.Ident4(), prog)
	return err
}
