package config

import "flag"

// Flags holds the command-line overrides registered on a FlagSet. Zero
// values leave the loaded setting alone.
type Flags struct {
	config      *string
	debug       *bool
	resolution  *float64
	margin      *float64
	format      *string
	compress    *bool
	workers     *int
	maxVertices *int
	sampler     *string
	output      *string
	logFile     *string
}

// RegisterFlags defines the config flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		config:      fs.String("config", "", "Path to config file"),
		debug:       fs.Bool("debug", false, "Enable debug logging"),
		resolution:  fs.Float64("resolution", 0, "Cell edge length in world units"),
		margin:      fs.Float64("margin", -1, "Padding around the scene bounds"),
		format:      fs.String("format", "", "Output format: soup, stl or glb"),
		compress:    fs.Bool("compress", false, "zstd-compress the output"),
		workers:     fs.Int("workers", 0, "Goroutines per slab"),
		maxVertices: fs.Int("max-vertices", 0, "Mesh capacity limit in vertices"),
		sampler:     fs.String("sampler", "", "Field evaluator: analytic or sdfx"),
		output:      fs.String("o", "", "Output path"),
		logFile:     fs.String("log-file", "", "Also write logs to this file"),
	}
}

// ConfigPath returns the explicit config path if provided via --config flag.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.resolution > 0 {
		cfg.Export.Resolution = float32(*f.resolution)
	}
	if *f.margin >= 0 {
		cfg.Export.Margin = float32(*f.margin)
	}
	if *f.format != "" {
		cfg.Export.Format = *f.format
	}
	if *f.compress {
		cfg.Export.Compress = true
	}
	if *f.workers > 0 {
		cfg.Export.Workers = *f.workers
	}
	if *f.maxVertices > 0 {
		cfg.Export.MaxVertices = *f.maxVertices
	}
	if *f.sampler != "" {
		cfg.Export.Sampler = *f.sampler
	}
	if *f.output != "" {
		cfg.Export.Output = *f.output
	}
	if *f.logFile != "" {
		cfg.Logging.LogFile = *f.logFile
	}
}
