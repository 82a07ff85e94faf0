package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	mandel "github.com/marben/mpi_mandel"
)

var selectionColor = color.RGBA{R: 0xff, G: 0x40, B: 0x40, A: 0xff}

type passResult struct {
	rc   mandel.RenderContext
	img  *image.RGBA
	err  error
	took time.Duration
}

// Game implements ebiten.Game. Passes render on their own goroutine,
// Update picks up the finished image.
type Game struct {
	initial mandel.Viewport
	shown   mandel.RenderContext // what frame currently displays
	r       *renderer

	ctx     context.Context
	cancel  context.CancelFunc
	results chan passResult

	rendering bool
	frame     *ebiten.Image
	status    string

	dragging  bool
	dragStart image.Point
}

func NewGame(rc mandel.RenderContext, r *renderer) *Game {
	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		initial: rc.Viewport,
		shown:   rc,
		r:       r,
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan passResult, 1),
	}
	g.start(rc.Viewport)
	return g
}

// Close stops a pass that is still running
func (g *Game) Close() {
	g.cancel()
}

func (g *Game) start(v mandel.Viewport) {
	rc := mandel.RenderContext{Viewport: v, Width: g.shown.Width, Height: g.shown.Height}
	g.rendering = true
	g.status = fmt.Sprintf("rendering %v ...", v)

	go func() {
		begin := time.Now()
		res := passResult{rc: rc}
		grid, err := g.r.render(g.ctx, rc)
		if err != nil {
			res.err = err
		} else {
			res.img = grid.Image()
		}
		res.took = time.Since(begin)
		g.results <- res
	}()
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	select {
	case res := <-g.results:
		g.rendering = false
		if res.err != nil {
			log.Printf("pass %v failed: %v", res.rc.Viewport, res.err)
			g.status = fmt.Sprintf("pass failed: %v", res.err)
			break
		}
		g.frame = ebiten.NewImageFromImage(res.img)
		g.shown = res.rc
		g.status = fmt.Sprintf("%v in %v", res.rc.Viewport, res.took.Round(time.Millisecond))
	default:
	}

	if g.rendering {
		g.dragging = false
		return nil
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.start(g.initial)
		return nil
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragStart.X, g.dragStart.Y = ebiten.CursorPosition()
		g.dragging = true
	} else if g.dragging && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragging = false
		x, y := ebiten.CursorPosition()
		v, err := g.shown.Zoom(g.dragStart, image.Pt(x, y), g.shown.Width, g.shown.Height)
		if err != nil {
			g.status = err.Error()
			return nil
		}
		g.start(v)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.frame != nil {
		screen.DrawImage(g.frame, nil)
	}

	if g.dragging {
		x, y := ebiten.CursorPosition()
		sel := image.Rectangle{Min: g.dragStart, Max: image.Pt(x, y)}.Canon()
		vector.StrokeRect(screen, float32(sel.Min.X), float32(sel.Min.Y), float32(sel.Dx()), float32(sel.Dy()), 1, selectionColor, false)
	}

	ebitenutil.DebugPrint(screen, g.status)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.shown.Width, g.shown.Height
}
