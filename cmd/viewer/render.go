package main

import (
	"context"
	"os"
	"path/filepath"

	mandel "github.com/marben/mpi_mandel"
	"github.com/marben/mpi_mandel/grid"
	"github.com/marben/mpi_mandel/launch"
)

// renderer runs one pass either through rank processes or in-process
type renderer struct {
	ranks     int
	inProcess bool
	opts      launch.Options
}

func (r *renderer) render(ctx context.Context, rc mandel.RenderContext) (*grid.Grid, error) {
	if r.inProcess {
		return launch.InProcess(ctx, r.ranks, rc)
	}

	dir, err := os.MkdirTemp("", "mandel-viewer-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	opts := r.opts
	opts.Out = filepath.Join(dir, grid.FileName)
	if err := launch.Run(ctx, opts, rc); err != nil {
		return nil, err
	}
	return grid.ReadFile(opts.Out)
}
