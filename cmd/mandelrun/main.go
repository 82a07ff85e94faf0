// mandelrun starts a group of mandelworker processes rendering one Mandelbrot image,
// much like mpiexec would.
//
//	mandelrun -n 4 -region seahorse -width 1920 -height 1080
//	mandelrun -n 4 -transport ws 640 480 -2 1 -1.2 1.2
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	mandel "github.com/marben/mpi_mandel"
	"github.com/marben/mpi_mandel/config"
	"github.com/marben/mpi_mandel/grid"
	"github.com/marben/mpi_mandel/launch"
)

var (
	ranksFlag     = flag.Int("n", 4, "number of ranks")
	transportFlag = flag.String("transport", config.TransportTCP, "transport between ranks: tcp or ws")
	addrFlag      = flag.String("addr", "", "root listen address (default: a free loopback port)")
	workerFlag    = flag.String("worker", "", "path to the "+launch.WorkerName+" binary (default: next to this binary or in PATH)")
	outFlag       = flag.String("out", grid.DefaultPath(), "output bitmap path")

	// The image, unless given as positional arguments
	regionFlag = flag.String("region", "classic", "named region: "+strings.Join(mandel.RegionNames(), ", "))
	widthFlag  = flag.Int("width", 1920, "image width in pixels")
	heightFlag = flag.Int("height", 1080, "image height in pixels")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [%s]\n", os.Args[0], config.Usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run() error {
	rc, err := renderContext()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := launch.Options{
		Ranks:     *ranksFlag,
		Transport: *transportFlag,
		Addr:      *addrFlag,
		Worker:    *workerFlag,
		Out:       *outFlag,
	}
	if err := launch.Run(ctx, opts, rc); err != nil {
		return err
	}
	log.Printf("%dx%d of %v rendered by %d ranks into %s", rc.Width, rc.Height, rc.Viewport, opts.Ranks, opts.Out)
	return nil
}

func renderContext() (mandel.RenderContext, error) {
	if flag.NArg() > 0 {
		return config.ParseArgs(flag.Args())
	}

	v, found := mandel.Regions[*regionFlag]
	if !found {
		return mandel.RenderContext{}, fmt.Errorf("%w: unknown region %q, known: %s",
			config.ErrInvalidArgument, *regionFlag, strings.Join(mandel.RegionNames(), ", "))
	}
	rc := mandel.RenderContext{Viewport: v, Width: *widthFlag, Height: *heightFlag}
	if err := rc.Validate(); err != nil {
		return mandel.RenderContext{}, fmt.Errorf("%w: %v", config.ErrInvalidArgument, err)
	}
	return rc, nil
}
