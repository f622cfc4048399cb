// Package compression provides transparent decompression of data files.
package compression

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/xstitch/internal/errors"
)

// MaxDecompressedSize bounds how much data a single file may expand to.
const MaxDecompressedSize = 64 * 1024 * 1024

// Format identifies a compression container.
type Format string

const (
	FormatNone  Format = ""
	FormatGzip  Format = "gzip"
	FormatXz    Format = "xz"
	FormatBzip2 Format = "bzip2"
	FormatZstd  Format = "zstd"
)

var suffixes = map[string]Format{
	".gz":  FormatGzip,
	".xz":  FormatXz,
	".bz2": FormatBzip2,
	".zst": FormatZstd,
}

// DetectFormat returns the compression format implied by a filename and the
// filename with the compression suffix removed ("dmc.json.xz" -> "dmc.json").
func DetectFormat(name string) (Format, string) {
	ext := strings.ToLower(filepath.Ext(name))
	if f, ok := suffixes[ext]; ok {
		return f, strings.TrimSuffix(name, filepath.Ext(name))
	}
	return FormatNone, name
}

// Decompress returns the decompressed contents of data, choosing the codec
// from the filename suffix. Uncompressed data is returned as-is.
func Decompress(name string, data []byte) ([]byte, string, error) {
	format, inner := DetectFormat(name)

	var r io.Reader
	switch format {
	case FormatNone:
		return data, inner, nil
	case FormatGzip:
		gzr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to create gzip reader")
		}
		defer gzr.Close()
		r = gzr
	case FormatXz:
		xzr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to create xz reader")
		}
		r = xzr
	case FormatBzip2:
		r = bzip2.NewReader(bytes.NewReader(data))
	case FormatZstd:
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to create zstd reader")
		}
		defer zr.Close()
		r = zr
	}

	out, err := io.ReadAll(NewLimitedReader(r, MaxDecompressedSize))
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to decompress %s data", format)
	}
	return out, inner, nil
}

// LimitedReader wraps an io.Reader and limits the total bytes that can be read.
// This prevents decompression bombs from exhausting memory.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		// Distinguish "exactly at the limit" from "over it".
		var next [1]byte
		if n, _ := l.R.Read(next[:]); n > 0 {
			return 0, errors.New("decompression size limit exceeded")
		}
		return 0, io.EOF
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}
