// shapeup exports scenes of blended rounded boxes as triangle meshes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/chazu/shapeup/internal/config"
	"github.com/chazu/shapeup/internal/logger"
	"github.com/chazu/shapeup/pkg/kernel/sdfx"
	"github.com/chazu/shapeup/pkg/tessellate"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "export", "x":
		cmdExport(args)
	case "info":
		cmdInfo(args)
	case "pack":
		cmdPack(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`shapeup - isosurface mesh export for rounded-box scenes

Usage:
  shapeup <command> [options]

Commands:
  export [flags] <scene>           Tessellate a scene and write the mesh
  info [flags] <scene>             Show scene, bounds and grid information
  pack <scene.lisp> <dir> <name>   Save a Lisp scene as <dir>/<name>_<hash>.ocad
  config [flags]                   Print the effective config, or save it

Scenes are .ocad files or Lisp sources (.lisp, .zy).
Run "shapeup export -h" for export flags.

Examples:
  shapeup export -resolution 0.05 -o part.raw part.ocad
  shapeup export -format stl -workers 8 -o part.stl part.lisp
  shapeup pack part.lisp ./scenes part
  shapeup config -resolution 0.05 -save-user`)
}

func fatal(err error) {
	logger.Log.Error("command failed", zap.Error(err))
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// setup parses flags and config for a command that takes one scene path.
func setup(name string, args []string) (*config.Config, string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: shapeup %s [flags] <scene>\n", name)
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	return cfg, fs.Arg(0)
}

func cmdExport(args []string) {
	cfg, path := setup("export", args)
	defer logger.Sync()

	s, err := loadScene(path)
	if err != nil {
		fatal(err)
	}
	logger.Sugar.Debugf("loaded %d primitives from %s", s.Len(), path)
	sampler, err := newSampler(s, cfg.Export)
	if err != nil {
		fatal(err)
	}
	opts, err := exportOptions(cfg)
	if err != nil {
		fatal(err)
	}

	exp := tessellate.New(opts)
	res, err := exp.Export(s.Snapshot(), sampler, cfg.Export.Output)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Wrote %s\n", res.Path)
	fmt.Printf("  Triangles: %d\n", res.Triangles)
	fmt.Printf("  Grid:      %s (%d slabs)\n", res.Grid, res.Grid.Slabs())
	if res.SkippedSlabs > 0 {
		fmt.Printf("  Skipped:   %d slabs\n", res.SkippedSlabs)
	}
	fmt.Printf("  Time:      %s\n", res.Duration)
}

func cmdInfo(args []string) {
	cfg, path := setup("info", args)
	defer logger.Sync()

	s, err := loadScene(path)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Scene: %s\n", path)
	fmt.Printf("  Primitives: %d\n", s.Len())
	if s.Selected >= 0 {
		fmt.Printf("  Selected:   %d\n", s.Selected)
	} else {
		fmt.Printf("  Selected:   none\n")
	}
	fmt.Printf("  Hash:       %d\n", s.ContentHash())

	for i, p := range s.Primitives {
		kind := "add"
		if p.Subtract {
			kind = "sub"
		}
		fmt.Printf("  [%2d] %s pos=%v size=%v angle=%v r=%g blob=%g\n",
			i, kind, p.Position, p.HalfSize, p.Rotation, p.CornerRadius, p.BlobAmount)
	}
	if s.IsEmpty() {
		return
	}

	if err := s.Validate(); err != nil {
		fmt.Printf("  Invalid:    %v\n", err)
		return
	}
	bounds, err := tessellate.ComputeBounds(s, cfg.Export.Margin)
	if err != nil {
		fatal(err)
	}
	grid, err := tessellate.PlanGrid(bounds, cfg.Export.Resolution)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("  Bounds:     %s\n", bounds)
	fmt.Printf("  Grid:       %s at resolution %g\n", grid, cfg.Export.Resolution)

	f, err := sdfx.New(s)
	if err != nil {
		fatal(err)
	}
	if lo, hi, ok := f.BoundingBox(); ok {
		fmt.Printf("  Solid:      (%.3g, %.3g, %.3g)..(%.3g, %.3g, %.3g)\n", lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
	} else {
		fmt.Printf("  Solid:      empty\n")
	}
}

func cmdPack(args []string) {
	if len(args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: shapeup pack <scene.lisp> <dir> <name>")
		os.Exit(1)
	}
	src, dir, name := args[0], args[1], args[2]

	if ext := filepath.Ext(src); ext == ".ocad" {
		fatal(fmt.Errorf("%s is already a saved scene", src))
	}
	s, err := loadScene(src)
	if err != nil {
		fatal(err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fatal(err)
	}
	path, err := s.SaveNamed(dir, name)
	if err != nil {
		fatal(err)
	}
	fmt.Println(path)
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	savePath := fs.String("save", "", "Write the effective config to this path")
	saveUser := fs.Bool("save-user", false, "Write the effective config to the user config directory")
	_ = fs.Parse(args)
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "Usage: shapeup config [flags]")
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	defer logger.Sync()

	path, err := writeConfig(cfg, *savePath, *saveUser, os.Stdout)
	if err != nil {
		fatal(err)
	}
	if path != "" {
		fmt.Printf("Saved %s\n", path)
	}
}
