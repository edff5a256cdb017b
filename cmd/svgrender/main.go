// Command svgrender converts SVG files to PNG images or PDF documents.
//
//	svgrender [flags] input.svg
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/benoitkugler/svgpaint/cmd/svgrender/config"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/spf13/cobra"
)

type flags struct {
	output     string
	format     string
	scale      float64
	background string
	configFile string
	watch      bool
	verbose    bool
}

func newCommand() *cobra.Command {
	var fl flags
	cmd := &cobra.Command{
		Use:   "svgrender [flags] input.svg",
		Short: "Render SVG files to PNG or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(fl.verbose)

			cfg, err := loadConfig(cmd, fl)
			if err != nil {
				return err
			}
			job, err := newJob(args[0], fl.output, cfg)
			if err != nil {
				return err
			}
			if err := job.run(); err != nil {
				return err
			}
			if !fl.watch {
				return nil
			}
			return watch(cmd.Context(), job)
		},
		SilenceUsage: true,
	}
	f := cmd.Flags()
	f.StringVarP(&fl.output, "output", "o", "", "output file (default: input with the format extension)")
	f.StringVarP(&fl.format, "format", "f", "", "output format: png or pdf (default: from the output extension)")
	f.Float64VarP(&fl.scale, "scale", "s", 1, "scale factor for PNG output")
	f.StringVar(&fl.background, "background", "", "background color for PNG output")
	f.StringVarP(&fl.configFile, "config", "c", "", "TOML or YAML config file")
	f.BoolVarP(&fl.watch, "watch", "w", false, "render again when the input changes")
	f.BoolVarP(&fl.verbose, "verbose", "v", false, "log debug messages")
	return cmd
}

func setupLogger(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	svgdom.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig reads the config file, if any, and
// overrides it with the flags set on the command line.
func loadConfig(cmd *cobra.Command, fl flags) (config.Config, error) {
	cfg := config.Default()
	if fl.configFile != "" {
		var err error
		cfg, err = config.Load(fl.configFile)
		if err != nil {
			return cfg, err
		}
	}
	f := cmd.Flags()
	if f.Changed("format") {
		cfg.Format = fl.format
	}
	if f.Changed("scale") {
		cfg.Scale = fl.scale
	}
	if f.Changed("background") {
		cfg.Background = fl.background
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
