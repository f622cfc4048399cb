// Package cli_test provides tests for the CLI package.
package cli_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/xstitch/internal/cli"
	"github.com/jmylchreest/xstitch/internal/errors"
)

// setupTests isolates the command from any user config and returns the
// path of a 10x5 image: three red rows over two blue rows.
func setupTests(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "")
	require.NoError(t, os.Unsetenv("NO_COLOR"))

	img := image.NewRGBA(image.Rect(0, 0, 10, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 10; x++ {
			c := color.RGBA{R: 220, A: 255}
			if y >= 3 {
				c = color.RGBA{B: 220, A: 255}
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "stripes.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	rootCmd := cli.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestGenerateCommand(t *testing.T) {
	source := setupTests(t)

	stdout, _, err := execute(t, "generate", source, "-s", "10", "-c", "2", "--console-width", "50")
	require.NoError(t, err)

	lines := strings.Split(stdout, "\n")
	assert.Equal(t, "CROSS-STITCH PATTERN - 10x5 STITCHES", lines[0])
	assert.Contains(t, stdout, "LEGEND:")
	assert.Contains(t, stdout, " - 30 stitches")
	assert.Contains(t, stdout, " - 20 stitches")
	assert.NotContains(t, stdout, "Saved", "a pattern that fits the console is not written")

	// The red rows get the first glyph, the blue rows the second.
	assert.True(t, strings.HasPrefix(lines[2], " 0 ■ ■ ■"), "row 0 = %q", lines[2])
	assert.True(t, strings.HasPrefix(lines[5], " 3 □ □ □"), "row 3 = %q", lines[5])
}

func TestGenerateDeterministic(t *testing.T) {
	source := setupTests(t)

	first, _, err := execute(t, "generate", source, "-s", "10", "-c", "2", "--seed", "7")
	require.NoError(t, err)
	second, _, err := execute(t, "generate", source, "-s", "10", "-c", "2", "--seed", "7")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateWritesFiles(t *testing.T) {
	source := setupTests(t)
	outDir := filepath.Join(t.TempDir(), "out")

	t.Run("BothFormatsIntoDirectory", func(t *testing.T) {
		stdout, _, err := execute(t, "generate", source, "-s", "10", "-c", "2", "-f", "both", "-o", outDir+string(os.PathSeparator))
		require.NoError(t, err)

		text := filepath.Join(outDir, "scheme_10x5_2colors.txt")
		chart := filepath.Join(outDir, "scheme_10x5_2colors.png")
		assert.FileExists(t, text)
		assert.FileExists(t, chart)
		assert.Contains(t, stdout, "Saved "+text)
		assert.Contains(t, stdout, "Saved "+chart)

		f, err := os.Open(chart)
		require.NoError(t, err)
		defer f.Close()
		_, err = png.Decode(f)
		require.NoError(t, err)
	})

	t.Run("TextToFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stripes.txt")
		_, _, err := execute(t, "generate", source, "-s", "10", "-c", "2", "-o", path)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "CROSS-STITCH PATTERN - 10x5 STITCHES\n"))
		assert.Contains(t, string(data), "Colours: 2")
	})

	t.Run("BothFormatsSwapExtension", func(t *testing.T) {
		dir := t.TempDir()
		_, _, err := execute(t, "generate", source, "-s", "10", "-c", "2", "-f", "both", "-o", filepath.Join(dir, "chart.txt"))
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "chart.txt"))
		assert.FileExists(t, filepath.Join(dir, "chart.png"))
	})

	t.Run("TooWideForConsole", func(t *testing.T) {
		t.Chdir(t.TempDir())
		stdout, _, err := execute(t, "generate", source, "-s", "10", "-c", "2", "--console-width", "5")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Pattern is too wide for the console (10x5)")
		assert.FileExists(t, "scheme_10x5_2colors.txt")
	})
}

func TestGenerateQuiet(t *testing.T) {
	source := setupTests(t)

	t.Run("ConsoleOnly", func(t *testing.T) {
		stdout, stderr, err := execute(t, "generate", source, "-s", "10", "-c", "2", "-q")
		require.NoError(t, err)
		assert.Empty(t, stdout)
		assert.Empty(t, stderr)
	})

	t.Run("StillWritesFiles", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stripes.txt")
		stdout, _, err := execute(t, "generate", source, "-s", "10", "-c", "2", "-q", "-o", path)
		require.NoError(t, err)
		assert.Empty(t, stdout)
		assert.FileExists(t, path)
	})
}

func TestGenerateResampleFlag(t *testing.T) {
	source := setupTests(t)

	stdout, _, err := execute(t, "generate", source, "-s", "4", "-c", "2", "--resample", "nearest")
	require.NoError(t, err)
	assert.Contains(t, stdout, "CROSS-STITCH PATTERN - 4x2 STITCHES")
}

func TestGenerateConfigPrecedence(t *testing.T) {
	source := setupTests(t)

	t.Run("Environment", func(t *testing.T) {
		t.Setenv("XSTITCH_COLOURS", "1")
		stdout, _, err := execute(t, "generate", source, "-s", "10")
		require.NoError(t, err)
		assert.Contains(t, stdout, " - 50 stitches")
	})

	t.Run("FlagBeatsEnvironment", func(t *testing.T) {
		t.Setenv("XSTITCH_COLOURS", "1")
		stdout, _, err := execute(t, "generate", source, "-s", "10", "-c", "2")
		require.NoError(t, err)
		assert.Contains(t, stdout, " - 30 stitches")
	})

	t.Run("ConfigFile", func(t *testing.T) {
		cfg := filepath.Join(t.TempDir(), "xstitch.toml")
		require.NoError(t, os.WriteFile(cfg, []byte("stitches = 4\ncolours = 1\n"), 0o600))
		stdout, _, err := execute(t, "--config", cfg, "generate", source)
		require.NoError(t, err)
		assert.Contains(t, stdout, "CROSS-STITCH PATTERN - 4x2 STITCHES")
		assert.Contains(t, stdout, " - 8 stitches")
	})
}

func TestGenerateErrors(t *testing.T) {
	source := setupTests(t)

	badPalette := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(badPalette, []byte(`[{"code": "X"}]`), 0o600))

	tests := []struct {
		name  string
		args  []string
		class error
	}{
		{name: "MissingImage", args: []string{"generate", filepath.Join(t.TempDir(), "nope.png")}, class: errors.ErrImageDecode},
		{name: "MissingPalette", args: []string{"generate", source, "-p", filepath.Join(t.TempDir(), "nope.json")}, class: errors.ErrPaletteLoad},
		{name: "MalformedPalette", args: []string{"generate", source, "-p", badPalette}, class: errors.ErrPaletteLoad},
		{name: "ZeroColours", args: []string{"generate", source, "-c", "0"}},
		{name: "UnknownAlgorithm", args: []string{"generate", source, "-a", "octree"}},
		{name: "UnknownFormat", args: []string{"generate", source, "-f", "pdf"}},
		{name: "UnknownResample", args: []string{"generate", source, "--resample", "lanczos"}},
		{name: "NoImage", args: []string{"generate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Empty(t, stdout)
			if tt.class != nil {
				assert.True(t, errors.Is(err, tt.class), "error %v is not %v", err, tt.class)
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	err := errors.WithHint(errors.New("reference palette is empty"), "add some colours")
	cli.PrintError(&buf, err)
	assert.Equal(t, "Error: reference palette is empty\nHint: add some colours\n", buf.String())
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "xstitch "))
}
