package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Export.Width != 128 {
		t.Errorf("expected width 128, got %d", cfg.Export.Width)
	}
	if cfg.Export.Height != 128 {
		t.Errorf("expected height 128, got %d", cfg.Export.Height)
	}
	if cfg.Export.SettleDelay != 80*time.Millisecond {
		t.Errorf("expected settle delay 80ms, got %v", cfg.Export.SettleDelay)
	}
	if cfg.Export.SheetFormat != "png" {
		t.Errorf("expected sheet format 'png', got %s", cfg.Export.SheetFormat)
	}
	if len(cfg.Export.Angles) != 6 {
		t.Errorf("expected 6 default angles, got %d", len(cfg.Export.Angles))
	}
	if cfg.Export.Angles[0] != "face" {
		t.Errorf("expected first angle 'face', got %s", cfg.Export.Angles[0])
	}

	if cfg.Playback.FPS != 12 {
		t.Errorf("expected playback fps 12, got %d", cfg.Playback.FPS)
	}

	if cfg.Render.SurfaceWidth != 512 || cfg.Render.SurfaceHeight != 512 {
		t.Errorf("expected 512x512 render surface, got %dx%d",
			cfg.Render.SurfaceWidth, cfg.Render.SurfaceHeight)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
export:
  width: 64
  height: 96
  render_steps: 8
  settle_delay: 120ms
  sheet_format: webp
  angles: [face, dos]

playback:
  fps: 24

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Export.Width != 64 {
		t.Errorf("expected width 64, got %d", cfg.Export.Width)
	}
	if cfg.Export.Height != 96 {
		t.Errorf("expected height 96, got %d", cfg.Export.Height)
	}
	if cfg.Export.RenderSteps != 8 {
		t.Errorf("expected render_steps 8, got %d", cfg.Export.RenderSteps)
	}
	if cfg.Export.SettleDelay != 120*time.Millisecond {
		t.Errorf("expected settle delay 120ms, got %v", cfg.Export.SettleDelay)
	}
	if cfg.Export.SheetFormat != "webp" {
		t.Errorf("expected sheet format 'webp', got %s", cfg.Export.SheetFormat)
	}
	if len(cfg.Export.Angles) != 2 {
		t.Errorf("expected 2 angles, got %d", len(cfg.Export.Angles))
	}

	if cfg.Playback.FPS != 24 {
		t.Errorf("expected playback fps 24, got %d", cfg.Playback.FPS)
	}

	// Unset sections keep defaults
	if cfg.Render.SurfaceWidth != 512 {
		t.Errorf("expected default surface width 512, got %d", cfg.Render.SurfaceWidth)
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Export.Width = 256

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Export.Width != 256 {
		t.Errorf("expected reloaded width 256, got %d", loaded.Export.Width)
	}
}
