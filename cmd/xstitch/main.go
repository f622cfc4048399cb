// xstitch - A cross-stitch pattern generator
//
// xstitch turns images into cross-stitch patterns: a grid of symbols and a
// legend of embroidery threads, printed as text or rendered as a chart.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/jmylchreest/xstitch/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cli.PrintError(rootCmd.ErrOrStderr(), err)
		stop()
		os.Exit(1)
	}
}
