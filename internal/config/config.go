// Package config loads xstitch settings from defaults, an optional config
// file, XSTITCH_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/errors"
	imageio "github.com/jmylchreest/xstitch/internal/image"
	"github.com/jmylchreest/xstitch/internal/pattern"
	"github.com/jmylchreest/xstitch/internal/render"
)

// EnvPrefix prefixes every environment variable, e.g. XSTITCH_COLOURS.
const EnvPrefix = "XSTITCH"

// Output formats.
const (
	FormatText = "text"
	FormatPNG  = "png"
	FormatBoth = "both"
)

// MaxColours caps the colour count.
const MaxColours = 256

// Config holds every setting of the generate pipeline.
type Config struct {
	Stitches     int    `mapstructure:"stitches"`
	Colours      int    `mapstructure:"colours"`
	Algorithm    string `mapstructure:"algorithm"`
	Seed         int64  `mapstructure:"seed"`
	Palette      string `mapstructure:"palette"`
	Format       string `mapstructure:"format"`
	Output       string `mapstructure:"output"`
	CellSize     int    `mapstructure:"cell_size"`
	Font         string `mapstructure:"font"`
	ConsoleWidth int    `mapstructure:"console_width"` // 0 = size from the terminal
	Alphabet     string `mapstructure:"alphabet"`      // empty = built-in glyphs
	Direct       bool   `mapstructure:"direct"`
	Resample     string `mapstructure:"resample"` // auto = nearest in direct mode, else catmullrom
	ANSI         bool   `mapstructure:"ansi"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("stitches", pattern.DefaultStitches)
	v.SetDefault("colours", pattern.DefaultColours)
	v.SetDefault("algorithm", string(colour.AlgorithmKMeans))
	v.SetDefault("seed", 0)
	v.SetDefault("palette", "")
	v.SetDefault("format", FormatText)
	v.SetDefault("output", "")
	v.SetDefault("cell_size", render.DefaultCellSize)
	v.SetDefault("font", "")
	v.SetDefault("console_width", render.DefaultConsoleWidth)
	v.SetDefault("alphabet", "")
	v.SetDefault("direct", false)
	v.SetDefault("resample", imageio.AutoInterpolation.String())
	v.SetDefault("ansi", false)
}

// Formats returns the valid output formats.
func Formats() []string {
	return []string{FormatText, FormatPNG, FormatBoth}
}

// Load resolves the configuration. path names a config file to read; when
// empty, config.{yaml,toml,json} in the user config directory is read if
// present. flags may be nil; only flags the user actually set override the
// file and environment.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	file, err := readConfigFile(v, path)
	if err != nil {
		return nil, err
	}

	if flags != nil {
		known := v.AllKeys()
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if bindErr == nil && slices.Contains(known, key) {
				bindErr = v.BindPFlag(key, f)
			}
		})
		if bindErr != nil {
			return nil, errors.Wrap(bindErr, "failed to bind flags")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.File = file
	return &cfg, nil
}

// readConfigFile merges the config file into v and returns its path, or ""
// when no file was found at the default location.
func readConfigFile(v *viper.Viper, path string) (string, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return "", errors.Wrapf(err, "failed to read config file %s", path)
		}
		return path, nil
	}

	dir := DefaultDir()
	if dir == "" {
		return "", nil
	}
	v.SetConfigName("config")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", errors.Wrapf(err, "failed to read config file in %s", dir)
	}
	return v.ConfigFileUsed(), nil
}

// DefaultDir returns the directory searched for config.{yaml,toml,json}:
// $XDG_CONFIG_HOME/xstitch or its platform equivalent.
func DefaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "xstitch")
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.Stitches < 1:
		return errors.Newf("stitches must be at least 1, got %d", c.Stitches)
	case c.Colours < 1 || c.Colours > MaxColours:
		return errors.Newf("colours must be between 1 and %d, got %d", MaxColours, c.Colours)
	case c.CellSize < render.MinCellSize:
		return errors.Newf("cell size must be at least %d, got %d", render.MinCellSize, c.CellSize)
	case c.ConsoleWidth < 0:
		return errors.Newf("console width cannot be negative, got %d", c.ConsoleWidth)
	case !colour.IsValidAlgorithm(colour.Algorithm(c.Algorithm)):
		return errors.WithHintf(errors.Newf("unknown algorithm %q", c.Algorithm),
			"valid algorithms: %v", colour.ValidAlgorithms())
	case !slices.Contains(Formats(), c.Format):
		return errors.WithHintf(errors.Newf("unknown format %q", c.Format),
			"valid formats: %s", strings.Join(Formats(), ", "))
	}
	if _, err := imageio.ParseInterpolation(c.Resample); err != nil {
		return err
	}
	return nil
}

// PatternOptions returns the pipeline options described by c.
func (c *Config) PatternOptions() pattern.Options {
	opts := pattern.Options{
		Stitches:  c.Stitches,
		Colours:   c.Colours,
		Algorithm: colour.Algorithm(c.Algorithm),
		Seed:      c.Seed,
		Direct:    c.Direct,
	}
	// Validate has rejected unknown names.
	opts.Resample, _ = imageio.ParseInterpolation(c.Resample)
	if c.Alphabet != "" {
		opts.Alphabet = []rune(c.Alphabet)
	}
	return opts
}

// WantsText reports whether a text file should be written.
func (c *Config) WantsText() bool {
	return c.Format == FormatText || c.Format == FormatBoth
}

// WantsPNG reports whether a PNG chart should be written.
func (c *Config) WantsPNG() bool {
	return c.Format == FormatPNG || c.Format == FormatBoth
}
