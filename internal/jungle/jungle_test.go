package jungle

import (
	"errors"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glscene/internal/config"
	"github.com/Faultbox/glscene/internal/engine/input"
	"github.com/Faultbox/glscene/internal/engine/mesh"
	"github.com/Faultbox/glscene/internal/engine/scene"
	"github.com/Faultbox/glscene/internal/engine/shader"
	"github.com/Faultbox/glscene/internal/engine/texture"
	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/gfx/gfxtest"
	"github.com/Faultbox/glscene/pkg/math"
)

var errMissing = errors.New("missing")

type fakeAssets struct {
	shader.FSSource
	images map[string]*texture.Image
	meshes map[string]func() []*mesh.Mesh
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{
		FSSource: shader.Embedded(),
		images:   make(map[string]*texture.Image),
		meshes:   make(map[string]func() []*mesh.Mesh),
	}
}

func (f *fakeAssets) LoadImage(name string) (*texture.Image, error) {
	if img, ok := f.images[name]; ok {
		return img, nil
	}
	return nil, errMissing
}

func (f *fakeAssets) LoadMeshes(name string) ([]*mesh.Mesh, error) {
	if build, ok := f.meshes[name]; ok {
		return build(), nil
	}
	return nil, errMissing
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Shadows.Resolution = 32
	cfg.Environment.Size = 8
	cfg.Assets.Skybox = "sky"
	return cfg
}

func newScene(cfg *config.Config) (*scene.Scene, *gfxtest.Recorder) {
	rec := gfxtest.New()
	return scene.New(gfx.NewContext(rec), SceneConfig(cfg), nil), rec
}

func TestBuildWithGeneratedSky(t *testing.T) {
	cfg := testConfig()
	s, rec := newScene(cfg)

	ball, err := Build(s, cfg, newFakeAssets())
	require.NoError(t, err)

	require.NotNil(t, ball)
	assert.Equal(t, []string{"island", "trunk", "canopy"}, modelNames(s))
	assert.Equal(t, ball, s.Reflective()[0])
	require.NotNil(t, s.Skybox)
	assert.Equal(t, "gradient sky", s.Skybox.Mesh.Textures[0].Name)
	assert.NotNil(t, s.Shadows)
	assert.NotNil(t, s.Environment)
	assert.False(t, s.OverlayVisible(scene.OverlayCube))
	assert.False(t, s.OverlayVisible(scene.OverlayShadow))
	assert.Equal(t, mgl32.Vec3{10, 10, 10}, s.LightMarker.Mesh.Material.Ka)
	assert.Equal(t, mgl32.Vec3{3, 4, -3}, s.Light.Position)

	require.NoError(t, s.Draw())
	assert.NotZero(t, rec.Count("DrawElements"))

	require.NoError(t, s.Destroy())
	assert.Equal(t, rec.Count("CreateTexture"), rec.Count("DeleteTexture"))
	assert.Equal(t, rec.Count("CreateProgram"), rec.Count("DeleteProgram"))
}

func TestBuildLoadsSkyboxFaces(t *testing.T) {
	cfg := testConfig()
	s, _ := newScene(cfg)
	assets := newFakeAssets()
	for _, file := range texture.CubeFaceFiles {
		assets.images["sky/"+file] = texture.Solid(4, 4, color.RGBA{B: 255, A: 255})
	}

	_, err := Build(s, cfg, assets)
	require.NoError(t, err)
	assert.Equal(t, "sky", s.Skybox.Mesh.Textures[0].Name)
	require.NoError(t, s.Destroy())
}

func TestKeyHandlersMoveBall(t *testing.T) {
	cfg := testConfig()
	s, _ := newScene(cfg)
	ball, err := Build(s, cfg, newFakeAssets())
	require.NoError(t, err)
	start := ball.M

	s.HandleEvent(input.Event{Type: input.EventKeyDown, Key: input.Key1})
	assert.Equal(t, math.Translation(mgl32.Vec3{0, 1, 0}).Mul4(start), ball.M)

	s.HandleEvent(input.Event{Type: input.EventKeyDown, Key: input.Key2})
	want := math.RotationX(1).Mul4(math.Translation(mgl32.Vec3{0, 1, 0})).Mul4(start)
	assert.True(t, want.ApproxEqualThreshold(ball.M, 1e-5))
}

func TestBuildWithoutPasses(t *testing.T) {
	cfg := testConfig()
	cfg.Shadows.Enabled = false
	cfg.Environment.Enabled = false
	cfg.Debug.CubeOverlay = true
	s, _ := newScene(cfg)

	ball, err := Build(s, cfg, newFakeAssets())
	require.NoError(t, err)

	assert.Nil(t, ball)
	assert.Empty(t, s.Reflective())
	assert.Nil(t, s.ShadowOverlay)
	require.NotNil(t, s.CubeOverlay)
	assert.True(t, s.OverlayVisible(scene.OverlayCube))
	assert.Equal(t, shader.Phong, s.Models()[0].Program.Model)
	assert.Empty(t, s.KeyHandlers)
	require.NoError(t, s.Draw())
}

func TestBuildAddsGLTFModels(t *testing.T) {
	cfg := testConfig()
	cfg.Assets.Models = []config.ModelConfig{{
		File:        "models/palm.glb",
		Position:    [3]float32{-3, -1, 0},
		Scale:       2,
		CastsShadow: true,
	}}
	s, rec := newScene(cfg)
	assets := newFakeAssets()
	assets.images["models/bark.png"] = texture.Solid(2, 2, color.RGBA{R: 120, A: 255})
	assets.meshes["models/palm.glb"] = func() []*mesh.Mesh {
		m := mesh.Quad()
		m.Name = "palm"
		m.Material.Texture = "bark.png"
		return []*mesh.Mesh{m}
	}

	_, err := Build(s, cfg, assets)
	require.NoError(t, err)

	palm := s.Models()[len(s.Models())-1]
	assert.Equal(t, "palm", palm.Name)
	assert.True(t, palm.CastsShadow)
	assert.Equal(t, math.Pose(mgl32.Vec3{-3, -1, 0}, 2), palm.M)
	assert.Equal(t, shader.ShadowMapping, palm.Program.Model)
	require.Len(t, palm.Mesh.Textures, 1)
	assert.Equal(t, 1, palm.Mesh.Textures[0].Refs())

	require.NoError(t, s.Destroy())
	assert.Equal(t, rec.Count("CreateTexture"), rec.Count("DeleteTexture"))
}

func TestBuildMissingGLTFFails(t *testing.T) {
	cfg := testConfig()
	cfg.Assets.Models = []config.ModelConfig{{File: "gone.glb"}}
	s, rec := newScene(cfg)

	_, err := Build(s, cfg, newFakeAssets())
	assert.ErrorIs(t, err, errMissing)

	require.NoError(t, s.Destroy())
	assert.Equal(t, rec.Count("CreateTexture"), rec.Count("DeleteTexture"))
}

func TestSceneConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Graphics.Width = 1024
	cfg.Graphics.Mode = 3

	sc := SceneConfig(cfg)
	assert.Equal(t, int32(1024), sc.Width)
	assert.Equal(t, int32(600), sc.Height)
	assert.Equal(t, int32(3), sc.Mode)
	assert.Equal(t, mgl32.Vec4{0.7, 0.7, 1, 1}, sc.ClearColor)
	assert.Equal(t, float32(0.2), sc.LightMarkerScale)
}

func modelNames(s *scene.Scene) []string {
	var names []string
	for _, m := range s.Models() {
		names = append(names, m.Name)
	}
	return names
}
