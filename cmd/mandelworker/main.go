// mandelworker is one rank of a distributed Mandelbrot render.
// It is normally started by mandelrun, which sets the group environment for every rank.
// Started by hand without that environment it renders alone.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/marben/mpi_mandel/config"
	"github.com/marben/mpi_mandel/grid"
	"github.com/marben/mpi_mandel/launch"
)

var (
	// outFlag is where rank 0 saves the bitmap.
	outFlag = flag.String("out", grid.DefaultPath(), "output bitmap path")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-out path] %s\n", os.Args[0], config.Usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run() error {
	p, err := config.ProcessFromEnv()
	if err != nil {
		return err
	}
	log.SetPrefix(fmt.Sprintf("[rank %d] ", p.Rank))

	rc, err := config.ParseArgs(flag.Args())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if p.IsRoot() {
		log.Printf("rendering %dx%d of %v on %d ranks", rc.Width, rc.Height, rc.Viewport, p.Size)
	}
	return launch.Rank(ctx, p, rc, *outFlag)
}
