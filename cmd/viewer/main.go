// viewer shows distributed Mandelbrot renders in a window.
// Drag with the left mouse button to zoom into a rectangle, right click to go back to the start.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	mandel "github.com/marben/mpi_mandel"
	"github.com/marben/mpi_mandel/config"
	"github.com/marben/mpi_mandel/launch"
)

var (
	ranksFlag     = flag.Int("n", 4, "number of ranks per pass")
	inProcessFlag = flag.Bool("in-process", false, "run the ranks as goroutines instead of "+launch.WorkerName+" processes")
	transportFlag = flag.String("transport", config.TransportTCP, "transport between rank processes: tcp or ws")
	workerFlag    = flag.String("worker", "", "path to the "+launch.WorkerName+" binary")

	regionFlag = flag.String("region", "classic", "starting region: "+strings.Join(mandel.RegionNames(), ", "))
	widthFlag  = flag.Int("width", 960, "window and image width")
	heightFlag = flag.Int("height", 720, "window and image height")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run() error {
	v, found := mandel.Regions[*regionFlag]
	if !found {
		return fmt.Errorf("%w: unknown region %q", config.ErrInvalidArgument, *regionFlag)
	}
	rc := mandel.RenderContext{Viewport: v, Width: *widthFlag, Height: *heightFlag}
	if err := rc.Validate(); err != nil {
		return err
	}

	r := &renderer{
		ranks:     *ranksFlag,
		inProcess: *inProcessFlag,
		opts: launch.Options{
			Ranks:     *ranksFlag,
			Transport: *transportFlag,
			Worker:    *workerFlag,
		},
	}
	g := NewGame(rc, r)
	defer g.Close()

	ebiten.SetWindowSize(rc.Width, rc.Height)
	ebiten.SetWindowTitle("Mandelbrot - drag: zoom | right click: reset")
	return ebiten.RunGame(g)
}
