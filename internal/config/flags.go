package config

// Overrides holds command-line settings that take priority over the file.
type Overrides struct {
	ConfigPath string
	Debug      bool
	Windowed   bool
	Fullscreen bool
	Width      int
	Height     int
}

// apply applies CLI overrides to the config.
func (o Overrides) apply(cfg *Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.Windowed {
		cfg.Graphics.Fullscreen = false
	}
	if o.Fullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if o.Width > 0 {
		cfg.Graphics.Width = o.Width
	}
	if o.Height > 0 {
		cfg.Graphics.Height = o.Height
	}
}
