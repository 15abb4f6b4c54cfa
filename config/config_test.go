package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults failed: %v", err)
	}

	if cfg.Screen.Width != 1280 || cfg.Screen.Height != 720 {
		t.Errorf("default screen %dx%d, want 1280x720", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Petals.Count != 3000 {
		t.Errorf("default petal count %d, want 3000", cfg.Petals.Count)
	}
	if cfg.Motion.NFrequencies != 30 {
		t.Errorf("default n_frequencies %d, want 30", cfg.Motion.NFrequencies)
	}
	if cfg.Export.Enabled {
		t.Error("export must be disabled by default")
	}
	if len(cfg.Textures) == 0 {
		t.Fatal("defaults carry no textures")
	}
}

func TestLoadDerivedValues(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults failed: %v", err)
	}

	// period_seconds 60 at 60 fps
	if cfg.Derived.MotionPeriod != 3600 {
		t.Errorf("motion period %d frames, want 3600", cfg.Derived.MotionPeriod)
	}
	// 1920x1080 BGRA
	if cfg.Derived.FrameBytes != 1920*1080*4 {
		t.Errorf("frame bytes %d, want %d", cfg.Derived.FrameBytes, 1920*1080*4)
	}
	// far 0 defaults to the far edge of the volume
	if cfg.Derived.CameraFar != 2*cfg.Volume.MaxZ {
		t.Errorf("camera far %g, want %g", cfg.Derived.CameraFar, 2*cfg.Volume.MaxZ)
	}
	wantMin := cfg.Petals.MinRotationSpeed * math.Pi / 180
	if math.Abs(cfg.Derived.MinRotationRad-wantMin) > 1e-12 {
		t.Errorf("min rotation %g rad, want %g", cfg.Derived.MinRotationRad, wantMin)
	}
	var rects int
	for _, tex := range cfg.Textures {
		rects += len(tex.Rects)
	}
	if cfg.Derived.VariantCount != rects {
		t.Errorf("variant count %d, want %d", cfg.Derived.VariantCount, rects)
	}
}

func TestLoadExplicitFarPlane(t *testing.T) {
	path := writeConfig(t, "camera:\n  far: 123.0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading config failed: %v", err)
	}
	if cfg.Derived.CameraFar != 123.0 {
		t.Errorf("camera far %g, want the configured 123", cfg.Derived.CameraFar)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "petals:\n  count: 42\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading config failed: %v", err)
	}
	if cfg.Petals.Count != 42 {
		t.Errorf("petal count %d, want the override 42", cfg.Petals.Count)
	}
	// Untouched sections keep their defaults.
	if cfg.Screen.Width != 1280 {
		t.Errorf("screen width %d, want default 1280", cfg.Screen.Width)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "petals: [not a map\n")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"zero petals", "petals:\n  count: 0\n"},
		{"negative petals", "petals:\n  count: -5\n"},
		{"inverted scale bounds", "petals:\n  min_scale: 2.0\n  max_scale: 1.0\n"},
		{"inverted rotation bounds", "petals:\n  min_rotation_speed: 5.0\n  max_rotation_speed: 1.0\n"},
		{"zero volume", "volume:\n  max_x: 0\n"},
		{"zero period", "motion:\n  period_seconds: 0\n"},
		{"zero frequencies", "motion:\n  n_frequencies: 0\n"},
		{"zero frame rate", "export:\n  frame_rate: 0\n"},
		{"zero export width", "export:\n  width: 0\n"},
		{"no textures", "textures: []\n"},
		{"texture without rects", "textures:\n  - file: a.png\n    scale: 1.0\n    rects: []\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.yaml)
			if _, err := Load(path); err == nil {
				t.Errorf("expected %s to be rejected", tc.name)
			}
		})
	}
}

func TestWriteDefaultRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("writing default config failed: %v", err)
	}

	// The written file must load back cleanly.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("written defaults do not load: %v", err)
	}
	if cfg.Petals.Count != 3000 {
		t.Errorf("roundtripped petal count %d, want 3000", cfg.Petals.Count)
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults failed: %v", err)
	}
	cfg.Petals.Count = 777

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing snapshot failed: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("loading snapshot failed: %v", err)
	}
	if back.Petals.Count != 777 {
		t.Errorf("snapshot petal count %d, want 777", back.Petals.Count)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}
