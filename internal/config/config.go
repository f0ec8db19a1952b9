// Package config handles renderer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/glscene/internal/engine/shader"
)

// Config holds all renderer settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Camera      CameraConfig      `yaml:"camera"`
	Light       LightConfig       `yaml:"light"`
	Shadows     ShadowConfig      `yaml:"shadows"`
	Environment EnvironmentConfig `yaml:"environment"`
	Assets      AssetsConfig      `yaml:"assets"`
	Debug       DebugConfig       `yaml:"debug"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	FPSLimit   int        `yaml:"fps_limit"`
	ClearColor [4]float32 `yaml:"clear_color"`
	// Mode selects the lighting term shown: 0 normals, 1 full, 2 diffuse,
	// 3 specular.
	Mode int `yaml:"mode"`
}

// CameraConfig holds the initial orbit camera.
type CameraConfig struct {
	Distance float32    `yaml:"distance"`
	Azimuth  float32    `yaml:"azimuth"`
	Zenith   float32    `yaml:"zenith"`
	Center   [3]float32 `yaml:"center"`
}

// LightConfig holds the point light.
type LightConfig struct {
	Position    [3]float32 `yaml:"position"`
	MarkerScale float32    `yaml:"marker_scale"`
}

// ShadowConfig holds shadow map settings.
type ShadowConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Resolution int     `yaml:"resolution"`
	Radius     float32 `yaml:"radius"` // radius of the shadowed region around the origin
}

// EnvironmentConfig holds environment map settings.
type EnvironmentConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	Static  bool `yaml:"static"` // capture once instead of every frame
}

// AssetsConfig holds asset locations.
type AssetsConfig struct {
	Roots  []string      `yaml:"roots"`
	Skybox string        `yaml:"skybox"` // directory holding the six cube faces
	Models []ModelConfig `yaml:"models,omitempty"`
}

// ModelConfig places a glTF file in the scene.
type ModelConfig struct {
	File        string     `yaml:"file"`
	Position    [3]float32 `yaml:"position"`
	Scale       float32    `yaml:"scale"`
	Shader      string     `yaml:"shader"`
	CastsShadow bool       `yaml:"casts_shadow"`
}

// DebugConfig holds debug view settings.
type DebugConfig struct {
	CubeOverlay   bool   `yaml:"cube_overlay"`
	ShadowOverlay bool   `yaml:"shadow_overlay"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      800,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			ClearColor: [4]float32{0.7, 0.7, 1.0, 1.0},
			Mode:       1,
		},
		Camera: CameraConfig{
			Distance: 5,
		},
		Light: LightConfig{
			Position:    [3]float32{3, 4, -3},
			MarkerScale: 0.2,
		},
		Shadows: ShadowConfig{
			Enabled:    true,
			Resolution: 1024,
			Radius:     6,
		},
		Environment: EnvironmentConfig{
			Enabled: true,
			Size:    400,
		},
		Assets: AssetsConfig{
			Roots:  []string{"assets"},
			Skybox: "skybox/ame_ash",
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

var (
	errSize   = errors.New("must be positive")
	errRange  = errors.New("out of range")
	errFormat = errors.New("invalid value")
)

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, field string, cause error, v any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf("%s %v: %w", field, v, cause))
		}
	}

	check(c.Graphics.Width > 0, "graphics.width", errSize, c.Graphics.Width)
	check(c.Graphics.Height > 0, "graphics.height", errSize, c.Graphics.Height)
	check(c.Graphics.FPSLimit >= 0, "graphics.fps_limit", errRange, c.Graphics.FPSLimit)
	check(c.Graphics.Mode >= 0 && c.Graphics.Mode <= 3, "graphics.mode", errRange, c.Graphics.Mode)
	check(c.Camera.Distance > 0, "camera.distance", errSize, c.Camera.Distance)
	check(c.Light.MarkerScale >= 0, "light.marker_scale", errRange, c.Light.MarkerScale)
	if c.Shadows.Enabled {
		check(c.Shadows.Resolution > 0, "shadows.resolution", errSize, c.Shadows.Resolution)
		check(c.Shadows.Radius > 0, "shadows.radius", errSize, c.Shadows.Radius)
	}
	if c.Environment.Enabled {
		check(c.Environment.Size > 0, "environment.size", errSize, c.Environment.Size)
	}
	for i, m := range c.Assets.Models {
		field := fmt.Sprintf("assets.models[%d]", i)
		check(m.File != "", field+".file", errFormat, `""`)
		check(m.Scale >= 0, field+".scale", errRange, m.Scale)
		if m.Shader != "" {
			_, perr := shader.ParseShadingModel(m.Shader)
			check(perr == nil, field+".shader", errFormat, m.Shader)
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		check(false, "logging.level", errFormat, c.Logging.Level)
	}
	return err
}
