package image

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/errors"
)

// writePNG writes a w×h PNG whose pixels are produced by fill.
func writePNG(t *testing.T, w, h int, fill func(x, y int) color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill(x, y))
		}
	}

	path := filepath.Join(t.TempDir(), "source.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("os.Create() error = %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return path
}

func solid(c color.Color) func(x, y int) color.Color {
	return func(int, int) color.Color { return c }
}

func TestFileLoaderLoad(t *testing.T) {
	path := writePNG(t, 4, 3, solid(color.RGBA{R: 10, G: 20, B: 30, A: 255}))

	img, err := NewFileLoader().Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(4, 3) {
		t.Errorf("Load() size = %v, want (4,3)", got)
	}
}

func TestFileLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing file", filepath.Join(dir, "missing.png")},
		{"directory", dir},
		{"undecodable", garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileLoader().Load(tt.path)
			if !errors.Is(err, errors.ErrImageDecode) {
				t.Errorf("Load() error = %v, want ErrImageDecode", err)
			}
			if _, err := Inspect(tt.path); !errors.Is(err, errors.ErrImageDecode) {
				t.Errorf("Inspect() error = %v, want ErrImageDecode", err)
			}
			if _, err := LoadResized(tt.path, 10, AutoInterpolation); !errors.Is(err, errors.ErrImageDecode) {
				t.Errorf("LoadResized() error = %v, want ErrImageDecode", err)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	path := writePNG(t, 7, 5, solid(color.White))
	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	want := Info{Format: "png", Width: 7, Height: 5}
	if info != want {
		t.Errorf("Inspect() = %+v, want %+v", info, want)
	}
}

func TestInspectHintsAtFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	if err := os.WriteFile(path, []byte("plain text"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Inspect(path)
	if hint := errors.FlattenHints(err); !strings.Contains(hint, ".webp") {
		t.Errorf("Inspect() hint = %q, want the supported formats", hint)
	}
}

func TestPixelsRowMajor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	pixels := Pixels(img)
	if len(pixels) != 6 {
		t.Fatalf("Pixels() len = %d, want 6", len(pixels))
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			want := colour.RGB{R: uint8(x), G: uint8(y)}
			if got := pixels[y*3+x]; got != want {
				t.Errorf("Pixels()[%d] = %v, want %v", y*3+x, got, want)
			}
		}
	}
}
