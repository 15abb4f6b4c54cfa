// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen   ScreenConfig    `yaml:"screen"`
	Petals   PetalsConfig    `yaml:"petals"`
	Volume   VolumeConfig    `yaml:"volume"`
	Motion   MotionConfig    `yaml:"motion"`
	Camera   CameraConfig    `yaml:"camera"`
	Export   ExportConfig    `yaml:"export"`
	Textures []TextureConfig `yaml:"textures"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// EnableFrameRateLimit caps the live rendering frame rate. It does
	// not affect the frame rate of an exported video.
	EnableFrameRateLimit bool `yaml:"enable_frame_rate_limit"`
	FrameRateLimit       int  `yaml:"frame_rate_limit"`
}

// PetalsConfig holds per-petal creation parameters.
type PetalsConfig struct {
	Count    int     `yaml:"count"`
	MinScale float64 `yaml:"min_scale"`
	MaxScale float64 `yaml:"max_scale"`
	// FallSpeed is subtracted from each petal's vertical coordinate
	// every tick, on top of the motion field displacement.
	FallSpeed float64 `yaml:"fall_speed"`
	// Rotation speed is drawn per petal between these bounds, in
	// degrees per tick, about a random fixed axis.
	MinRotationSpeed float64 `yaml:"min_rotation_speed"`
	MaxRotationSpeed float64 `yaml:"max_rotation_speed"`
}

// VolumeConfig holds the simulation volume half-extents. Valid petal
// coordinates lie in [-max, +max] on each axis; petals leaving one face
// reappear at the opposite face.
type VolumeConfig struct {
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
	MaxZ float64 `yaml:"max_z"`
}

// MotionConfig holds the shared motion field parameters.
type MotionConfig struct {
	// PeriodSeconds is the repeat period of the motion pattern in
	// seconds of exported video (period in frames = this * export fps).
	PeriodSeconds int `yaml:"period_seconds"`
	// NFrequencies is how many sinusoids are mixed per axis.
	NFrequencies int `yaml:"n_frequencies"`
	// Per-frequency amplitude caps. Caps for intermediate frequencies
	// are linearly interpolated between these two.
	LowFreqMaxAmplitude  float64 `yaml:"low_freq_max_amplitude"`
	HighFreqMaxAmplitude float64 `yaml:"high_freq_max_amplitude"`
}

// CameraConfig holds camera and movement settings.
type CameraConfig struct {
	FovYDegrees float64 `yaml:"fov_y_degrees"`
	Near        float64 `yaml:"near"`
	// Far clipping plane distance. 0 = place it at the far edge of the
	// simulation volume (2 * max_z).
	Far float64 `yaml:"far"`
	// MovementSpeed is the camera translation per tick under keyboard
	// control; TurnSpeedDegrees is pan/tilt per pixel of mouse motion.
	MovementSpeed    float64 `yaml:"movement_speed"`
	TurnSpeedDegrees float64 `yaml:"turn_speed_degrees"`
}

// ExportConfig holds video export settings. When enabled, every frame
// is rendered a second time off-screen and the pixels are piped to an
// ffmpeg process, which must be resolvable on PATH.
type ExportConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
	// Width must be a multiple of 64 so that rows need no alignment
	// padding before being handed to the encoder.
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	FrameRate int `yaml:"frame_rate"`
}

// TextureConfig describes one texture atlas and the petal sub-rectangles
// within it. Each rect is [u, v, width, height] in normalized UV space.
type TextureConfig struct {
	File string `yaml:"file"`
	// Scale multiplies the random per-petal scale for variants from
	// this texture, so atlases with differently sized petals blend in.
	Scale float64      `yaml:"scale"`
	Rects [][4]float64 `yaml:"rects"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	// MotionPeriod is the motion field length in frames.
	MotionPeriod int
	// FrameBytes is the size of one export frame (BGRA8, no padding).
	FrameBytes int
	// CameraFar is the effective far plane after applying the default.
	CameraFar float64
	// MinRotationRad / MaxRotationRad are the rotation speed bounds in
	// radians per tick.
	MinRotationRad float64
	MaxRotationRad float64
	// VariantCount is the total number of petal rects across textures.
	VariantCount int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// WriteDefault writes the embedded default configuration, comments
// included, to the given path for the user to edit and rerun.
func WriteDefault(path string) error {
	if err := os.WriteFile(path, defaultsYAML, 0644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// validate rejects values the simulation cannot run with. The motion
// field generator and petal store assume these hold and do not re-check
// them.
func (c *Config) validate() error {
	switch {
	case c.Petals.Count <= 0:
		return fmt.Errorf("petals.count must be positive, got %d", c.Petals.Count)
	case c.Petals.MinScale <= 0 || c.Petals.MaxScale < c.Petals.MinScale:
		return fmt.Errorf("petal scale bounds invalid: min %g, max %g", c.Petals.MinScale, c.Petals.MaxScale)
	case c.Petals.MinRotationSpeed < 0 || c.Petals.MaxRotationSpeed < c.Petals.MinRotationSpeed:
		return fmt.Errorf("rotation speed bounds invalid: min %g, max %g", c.Petals.MinRotationSpeed, c.Petals.MaxRotationSpeed)
	case c.Volume.MaxX <= 0 || c.Volume.MaxY <= 0 || c.Volume.MaxZ <= 0:
		return fmt.Errorf("volume bounds must be positive: %g, %g, %g", c.Volume.MaxX, c.Volume.MaxY, c.Volume.MaxZ)
	case c.Motion.PeriodSeconds <= 0:
		return fmt.Errorf("motion.period_seconds must be positive, got %d", c.Motion.PeriodSeconds)
	case c.Motion.NFrequencies < 1:
		return fmt.Errorf("motion.n_frequencies must be at least 1, got %d", c.Motion.NFrequencies)
	case c.Export.FrameRate <= 0:
		return fmt.Errorf("export.frame_rate must be positive, got %d", c.Export.FrameRate)
	case c.Export.Width <= 0 || c.Export.Height <= 0:
		return fmt.Errorf("export resolution invalid: %dx%d", c.Export.Width, c.Export.Height)
	case len(c.Textures) == 0:
		return fmt.Errorf("at least one texture with petal rects is required")
	}
	for _, tex := range c.Textures {
		if len(tex.Rects) == 0 {
			return fmt.Errorf("texture %q has no petal rects", tex.File)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// The motion period is defined in exported-video time even when
	// export is disabled, so the same config animates identically in
	// both modes.
	c.Derived.MotionPeriod = c.Motion.PeriodSeconds * c.Export.FrameRate
	c.Derived.FrameBytes = c.Export.Width * c.Export.Height * 4
	c.Derived.CameraFar = c.Camera.Far
	if c.Derived.CameraFar == 0 {
		c.Derived.CameraFar = 2 * c.Volume.MaxZ
	}
	c.Derived.MinRotationRad = c.Petals.MinRotationSpeed * math.Pi / 180
	c.Derived.MaxRotationRad = c.Petals.MaxRotationSpeed * math.Pi / 180
	for _, tex := range c.Textures {
		c.Derived.VariantCount += len(tex.Rects)
	}
}
