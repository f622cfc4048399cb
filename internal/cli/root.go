// Package cli provides the command-line interface for xstitch.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/config"
	"github.com/jmylchreest/xstitch/internal/errors"
	"github.com/jmylchreest/xstitch/internal/logging"
	"github.com/jmylchreest/xstitch/internal/version"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbose    bool
	quiet      bool
	noColour   bool
	configPath string
}

// logger returns the logger for cmd, writing to its error stream.
func (g *globalFlags) logger(cmd *cobra.Command) hclog.Logger {
	return logging.NewWithOutput("xstitch", cmd.ErrOrStderr(), g.verbose, g.quiet)
}

// loadConfig resolves and validates the configuration for cmd.
func (g *globalFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(g.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewRootCmd builds the xstitch command tree. Each call returns a fresh
// tree with its own flag state.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "xstitch",
		Short: "Turn images into cross-stitch patterns",
		Long: `xstitch converts an image into a cross-stitch pattern: a grid of symbols,
one per stitch, and a legend mapping every symbol to an embroidery thread.

The image is resized to the requested number of stitches, its colours are
reduced with k-means or median cut and each colour is matched to the nearest
thread of a reference palette (DMC by default).`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_, noColorEnv := os.LookupEnv("NO_COLOR")
			colour.DisableColourOutput = g.noColour || noColorEnv
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&g.noColour, "no-colour", false, "disable ANSI colour swatches (also NO_COLOR)")
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "",
		fmt.Sprintf("config file (default %s/config.{yaml,toml,json})", config.DefaultDir()))

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateCmd(g))
	rootCmd.AddCommand(newPaletteCmd(g))

	return rootCmd
}

// PrintError writes err and any hints attached to it.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
