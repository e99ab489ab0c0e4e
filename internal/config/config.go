// Package config handles loading and validating shapeup settings.
package config

import (
	"fmt"

	"github.com/chazu/shapeup/internal/logger"
	"github.com/chazu/shapeup/pkg/mesh"
)

// Config holds all settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds isosurface export settings.
type ExportConfig struct {
	Resolution      float32 `yaml:"resolution"`       // cell edge length in world units
	Margin          float32 `yaml:"margin"`           // padding around the scene bounds
	Format          string  `yaml:"format"`           // soup, stl or glb
	Compress        bool    `yaml:"compress"`         // zstd-compress soup and stl output
	Workers         int     `yaml:"workers"`          // goroutines per slab
	InitialCapacity int     `yaml:"initial_capacity"` // initial mesh capacity, in vertices
	MaxVertices     int     `yaml:"max_vertices"`     // 0 for no limit
	Sampler         string  `yaml:"sampler"`          // analytic or sdfx
	Output          string  `yaml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Sampler names.
const (
	SamplerAnalytic = "analytic"
	SamplerSDFX     = "sdfx"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Resolution:      0.03,
			Margin:          1.0,
			Format:          "soup",
			Compress:        false,
			Workers:         1,
			InitialCapacity: mesh.DefaultCapacity,
			MaxVertices:     0,
			Sampler:         SamplerAnalytic,
			Output:          "output.obj",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	e := c.Export
	if !(e.Resolution > 0) {
		return fmt.Errorf("export.resolution must be positive, got %g", e.Resolution)
	}
	if e.Margin < 0 {
		return fmt.Errorf("export.margin must not be negative, got %g", e.Margin)
	}
	opts, err := e.WriteOptions()
	if err != nil {
		return err
	}
	if opts.Compress && opts.Format == mesh.FormatGLB {
		return fmt.Errorf("export.compress is not supported for glb output")
	}
	if e.Workers < 1 {
		return fmt.Errorf("export.workers must be at least 1, got %d", e.Workers)
	}
	if e.InitialCapacity < 0 || e.MaxVertices < 0 {
		return fmt.Errorf("export capacities must not be negative")
	}
	if e.MaxVertices > 0 && e.InitialCapacity > e.MaxVertices {
		return fmt.Errorf("export.initial_capacity %d exceeds max_vertices %d", e.InitialCapacity, e.MaxVertices)
	}
	switch e.Sampler {
	case SamplerAnalytic, SamplerSDFX:
	default:
		return fmt.Errorf("export.sampler must be %q or %q, got %q", SamplerAnalytic, SamplerSDFX, e.Sampler)
	}
	if e.Output == "" {
		return fmt.Errorf("export.output must not be empty")
	}
	if !logger.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// WriteOptions returns the mesh writer settings for e.
func (e ExportConfig) WriteOptions() (mesh.WriteOptions, error) {
	f, err := mesh.ParseFormat(e.Format)
	if err != nil {
		return mesh.WriteOptions{}, fmt.Errorf("export.format: %w", err)
	}
	return mesh.WriteOptions{Format: f, Compress: e.Compress}, nil
}
