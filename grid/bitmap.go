package grid

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	mandel "github.com/marben/mpi_mandel"
	"golang.org/x/image/bmp"
)

// FileName is the name of the bitmap the display layer picks up
const FileName = "Mandelbrot.bmp"

// DefaultPath returns the well-known output location inside the OS temporary directory
func DefaultPath() string {
	return filepath.Join(os.TempDir(), FileName)
}

// Encode writes the fully populated grid as a bottom-up 24-bit bitmap.
func Encode(w io.Writer, g *Grid) error {
	if !g.Complete() {
		return fmt.Errorf("encode: %w (%.1f%%)", ErrIncomplete, 100*g.Progress())
	}
	if err := bmp.Encode(w, g.Image()); err != nil {
		return fmt.Errorf("bmp.Encode: %w", err)
	}
	return nil
}

// Decode reads a bitmap back into a complete grid.
func Decode(r io.Reader) (*Grid, error) {
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("bmp.Decode: %w", err)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("decode %dx%d: %w", b.Dx(), b.Dy(), ErrEmptyBitmap)
	}
	g := New(b.Dx(), b.Dy())
	pix, err := g.Claim(0, len(g.pix))
	if err != nil {
		return nil, err
	}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			pix[y*g.width+x] = mandel.Color{R: c.R, G: c.G, B: c.B}
		}
	}
	return g, nil
}

// WriteFile encodes g into a temporary file next to path and renames it into place,
// so a reader never observes a partially written bitmap.
func WriteFile(path string, g *Grid) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, g); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write %q: %w", f.Name(), err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %q: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", f.Name(), err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("rename to %q: %w", path, err)
	}
	return nil
}

// ReadFile decodes the bitmap at path.
func ReadFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bitmap: %w", err)
	}
	defer f.Close()

	g, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return g, nil
}
