package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/shapeup/internal/config"
	"github.com/chazu/shapeup/internal/logger"
	"github.com/chazu/shapeup/pkg/engine"
	"github.com/chazu/shapeup/pkg/kernel"
	"github.com/chazu/shapeup/pkg/kernel/analytic"
	"github.com/chazu/shapeup/pkg/kernel/sdfx"
	"github.com/chazu/shapeup/pkg/scene"
	"github.com/chazu/shapeup/pkg/tessellate"
)

// loadScene reads a saved .ocad scene or evaluates a Lisp scene source.
func loadScene(path string) (*scene.Scene, error) {
	if strings.EqualFold(filepath.Ext(path), scene.Ext) {
		return scene.Load(path)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, evalErrs, err := engine.NewEngine().Evaluate(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, 0, len(evalErrs))
		for _, e := range evalErrs {
			errs = append(errs, fmt.Errorf("%s: %w", path, e))
		}
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// newSampler builds the lattice sampler named by cfg.Sampler.
func newSampler(s *scene.Scene, cfg config.ExportConfig) (kernel.Sampler, error) {
	var field kernel.Field
	switch cfg.Sampler {
	case config.SamplerSDFX:
		f, err := sdfx.New(s)
		if err != nil {
			return nil, err
		}
		field = f
	default:
		field = analytic.New(s)
	}
	return &kernel.PlaneSampler{Field: field, Workers: cfg.Workers}, nil
}

func exportOptions(cfg *config.Config) (tessellate.Options, error) {
	w, err := cfg.Export.WriteOptions()
	if err != nil {
		return tessellate.Options{}, err
	}
	margin := cfg.Export.Margin
	if margin == 0 {
		margin = -1 // no padding
	}
	return tessellate.Options{
		Resolution:      cfg.Export.Resolution,
		Margin:          margin,
		Workers:         cfg.Export.Workers,
		InitialCapacity: cfg.Export.InitialCapacity,
		MaxVertices:     cfg.Export.MaxVertices,
		Write:           w,
		Logger:          logger.Log,
	}, nil
}

// writeConfig saves cfg to path, or to the user config directory when user
// is set, and returns where it went. With neither it prints cfg to w.
func writeConfig(cfg *config.Config, path string, user bool, w io.Writer) (string, error) {
	switch {
	case path != "":
		return path, cfg.SaveTo(path)
	case user:
		return filepath.Join(config.ConfigDir(), "config.yaml"), cfg.Save()
	}
	data, err := cfg.Marshal()
	if err != nil {
		return "", err
	}
	_, err = w.Write(data)
	return "", err
}
