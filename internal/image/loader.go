// Package image loads source images and samples them onto the stitch grid.
package image

import (
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/xstitch/internal/errors"
)

// Loader decodes source images.
type Loader interface {
	Load(path string) (image.Image, error)
}

// FileLoader decodes images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load decodes the image at path. Every failure is classified as
// errors.ErrImageDecode.
func (l *FileLoader) Load(path string) (image.Image, error) {
	file, err := openImage(path)
	if err != nil {
		return nil, decodeError(err, path)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, decodeError(errors.Wrap(err, "failed to decode image"), path)
	}
	return img, nil
}

// Info describes an image without decoding its pixels.
type Info struct {
	Format string
	Width  int
	Height int
}

// Inspect reads just enough of the file at path to report its format and
// size. Failures are classified as errors.ErrImageDecode.
func Inspect(path string) (Info, error) {
	file, err := openImage(path)
	if err != nil {
		return Info{}, decodeError(err, path)
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return Info{}, errors.WithHintf(
			decodeError(errors.Wrap(err, "unsupported or invalid image format"), path),
			"supported formats: %s", strings.Join(SupportedImageExtensions(), ", "),
		)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// SupportedImageExtensions returns the extensions of the registered formats.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}
}

// openImage opens path after checking it names a regular file.
func openImage(path string) (*os.File, error) {
	if path == "" {
		return nil, errors.New("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf("image file not found: %s", path)
		}
		return nil, errors.Wrap(err, "failed to stat image file")
	}
	if info.IsDir() {
		return nil, errors.Newf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image file")
	}
	return file, nil
}

func decodeError(err error, path string) error {
	return errors.WithDetailf(errors.Classify(err, errors.ErrImageDecode), "image: %s", path)
}
