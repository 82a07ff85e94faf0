package grid

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	mandel "github.com/marben/mpi_mandel"
	"golang.org/x/image/bmp"
)

// blocks splits a w*h grid into n blocks filled with a position-dependent gray
func blocks(w, h, n int) []mandel.Block {
	total := w * h
	base := total / n
	var out []mandel.Block
	for rank := 0; rank < n; rank++ {
		count := base
		if rank == n-1 {
			count += total % n
		}
		b := mandel.Block{Rank: rank, Start: rank * base, Pixels: make([]mandel.Color, count)}
		for j := range b.Pixels {
			b.Pixels[j] = mandel.Gray(uint8((b.Start + j) * 7 % 256))
		}
		out = append(out, b)
	}
	return out
}

func filledGrid(t *testing.T, w, h, n int) *Grid {
	t.Helper()
	g := New(w, h)
	// place out of order, the grid does not care about arrival order
	bs := blocks(w, h, n)
	for i := len(bs) - 1; i >= 0; i-- {
		if err := g.Place(bs[i]); err != nil {
			t.Fatalf("Place(rank %d): %v", bs[i].Rank, err)
		}
	}
	if !g.Complete() {
		t.Fatalf("grid incomplete after placing all blocks, progress %f", g.Progress())
	}
	return g
}

func TestClaimRejectsOverlapAndOutOfBounds(t *testing.T) {
	g := New(10, 10)
	if _, err := g.Claim(20, 30); err != nil {
		t.Fatalf("Claim(20, 30): %v", err)
	}
	if _, err := g.Claim(60, 10); err != nil {
		t.Fatalf("Claim(60, 10): %v", err)
	}

	tests := []struct {
		name         string
		start, count int
		want         error
	}{
		{"overlaps start", 10, 11, ErrOverlap},
		{"inside", 25, 5, ErrOverlap},
		{"overlaps end", 49, 2, ErrOverlap},
		{"spans two", 40, 30, ErrOverlap},
		{"past end", 95, 6, ErrOutOfBounds},
		{"negative start", -1, 1, ErrOutOfBounds},
		{"negative count", 0, -1, ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Claim(tt.start, tt.count); !errors.Is(err, tt.want) {
				t.Errorf("Claim(%d, %d) = %v, want %v", tt.start, tt.count, err, tt.want)
			}
		})
	}

	// gaps stay claimable
	if _, err := g.Claim(0, 20); err != nil {
		t.Errorf("Claim(0, 20): %v", err)
	}
	if _, err := g.Claim(50, 10); err != nil {
		t.Errorf("Claim(50, 10): %v", err)
	}
	if g.Complete() {
		t.Error("grid complete with [70, 100) unclaimed")
	}
	if p := g.Progress(); p != 0.7 {
		t.Errorf("Progress() = %f, want 0.7", p)
	}
}

func TestClaimWritesThroughToGrid(t *testing.T) {
	g := New(4, 3)
	dst, err := g.Claim(5, 3)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	dst[0] = mandel.Gray(9)
	dst[2] = mandel.Gray(11)
	if got := g.At(1, 1); got != mandel.Gray(9) {
		t.Errorf("At(1, 1) = %v, want gray 9", got)
	}
	if got := g.At(3, 1); got != mandel.Gray(11) {
		t.Errorf("At(3, 1) = %v, want gray 11", got)
	}
}

func TestImageBlackBackground(t *testing.T) {
	g := New(3, 2)
	if err := g.Place(mandel.Block{Pixels: []mandel.Color{{}, mandel.Gray(200), {}, {}, {}, {R: 1}}}); err != nil {
		t.Fatalf("Place: %v", err)
	}
	img := g.Image()
	if !img.Opaque() {
		t.Error("image is not opaque")
	}
	if c := img.RGBAAt(0, 0); c.R != 0 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("background pixel = %v, want opaque black", c)
	}
	if c := img.RGBAAt(1, 0); c.R != 200 || c.G != 200 || c.B != 200 {
		t.Errorf("pixel (1, 0) = %v, want gray 200", c)
	}
	if c := img.RGBAAt(2, 1); c.R != 1 || c.G != 0 || c.B != 0 {
		t.Errorf("pixel (2, 1) = %v, want {1 0 0}", c)
	}
}

func TestBitmapRoundTrip(t *testing.T) {
	for _, n := range []int{1, 3, 8} {
		g := filledGrid(t, 37, 23, n)

		var buf bytes.Buffer
		if err := Encode(&buf, g); err != nil {
			t.Fatalf("Encode: %v", err)
		}

		raw := buf.Bytes()
		if string(raw[:2]) != "BM" {
			t.Fatalf("signature = %q, want BM", raw[:2])
		}
		if bpp := binary.LittleEndian.Uint16(raw[28:30]); bpp != 24 {
			t.Errorf("bits per pixel = %d, want 24", bpp)
		}
		if h := int32(binary.LittleEndian.Uint32(raw[22:26])); h != 23 {
			t.Errorf("header height = %d, want 23 (bottom-up)", h)
		}

		back, err := Decode(&buf)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if back.Width() != 37 || back.Height() != 23 {
			t.Fatalf("decoded %dx%d, want 37x23", back.Width(), back.Height())
		}
		for y := 0; y < 23; y++ {
			for x := 0; x < 37; x++ {
				if back.At(x, y) != g.At(x, y) {
					t.Fatalf("n=%d: pixel (%d, %d) = %v after round-trip, want %v", n, x, y, back.At(x, y), g.At(x, y))
				}
			}
		}
	}
}

func TestEncodeRefusesIncompleteGrid(t *testing.T) {
	g := New(4, 4)
	if _, err := g.Claim(0, 15); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&bytes.Buffer{}, g); !errors.Is(err, ErrIncomplete) {
		t.Errorf("Encode = %v, want ErrIncomplete", err)
	}
}

func TestWriteFileReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	g := filledGrid(t, 16, 9, 4)

	if err := WriteFile(path, g); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != FileName {
		t.Errorf("directory holds %v, want only %s", entries, FileName)
	}

	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for y := 0; y < 9; y++ {
		for x := 0; x < 16; x++ {
			if back.At(x, y) != g.At(x, y) {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, back.At(x, y), g.At(x, y))
			}
		}
	}
}

func TestWriteFileLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	if err := WriteFile(path, New(2, 2)); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("WriteFile = %v, want ErrIncomplete", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("directory holds %v after failed write", entries)
	}
}

func TestDecodeRejectsEmptyBitmap(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 0, 5))); err != nil {
		t.Fatalf("bmp.Encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); !errors.Is(err, ErrEmptyBitmap) {
		t.Errorf("ReadFile of a 0x5 bitmap = %v, want ErrEmptyBitmap", err)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.bmp")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile = %v, want os.ErrNotExist", err)
	}
}

func TestDefaultPath(t *testing.T) {
	if got, want := DefaultPath(), filepath.Join(os.TempDir(), "Mandelbrot.bmp"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
