// Package config handles tool configuration loading and management.
package config

import "time"

// Config holds all exporter settings.
type Config struct {
	Export   ExportConfig   `yaml:"export"`
	Playback PlaybackConfig `yaml:"playback"`
	Render   RenderConfig   `yaml:"render"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ExportConfig holds sprite export settings.
type ExportConfig struct {
	Width       int           `yaml:"width"`
	Height      int           `yaml:"height"`
	RenderSteps int           `yaml:"render_steps"`
	SettleDelay time.Duration `yaml:"settle_delay"`
	SheetFormat string        `yaml:"sheet_format"` // "png" or "webp"
	Angles      []string      `yaml:"angles"`
	OutputRoot  string        `yaml:"output_root"`
}

// PlaybackConfig holds preview playback settings.
type PlaybackConfig struct {
	FPS int `yaml:"fps"`
}

// RenderConfig holds offscreen render surface settings.
type RenderConfig struct {
	SurfaceWidth  int `yaml:"surface_width"`
	SurfaceHeight int `yaml:"surface_height"`
	Supersample   int `yaml:"supersample"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DefaultAngles is the standard six-view angle set, in export order.
var DefaultAngles = []string{
	"face",
	"dos",
	"profil_droit",
	"profil_gauche",
	"trois_quart_droite",
	"trois_quart_gauche",
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Width:       128,
			Height:      128,
			RenderSteps: 0,
			SettleDelay: 80 * time.Millisecond,
			SheetFormat: "png",
			Angles:      append([]string(nil), DefaultAngles...),
		},
		Playback: PlaybackConfig{
			FPS: 12,
		},
		Render: RenderConfig{
			SurfaceWidth:  512,
			SurfaceHeight: 512,
			Supersample:   1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
