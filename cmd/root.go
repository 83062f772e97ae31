// Package cmd implements the spectragraph command line.
package cmd

import (
	"log"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/TFMV/spectragraph/config"
)

var version = "0.3.0"

// Output styles
var (
	brand  = color.New(color.FgHiBlue, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	warn   = color.New(color.FgYellow)
)

type rootOptions struct {
	configPath string
	debug      bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "spectragraph",
		Short: "Interactive graph editor with Laplacian eigenvector colouring",
		Long: brand.Sprint("spectragraph") + " draws graphs with a force-directed layout and colours\n" +
			"nodes by the eigenvectors of the graph Laplacian.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = opts.debug
			}
			opts.cfg = cfg

			if cfg.Debug {
				log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds)
				log.Println("Debug mode enabled")
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return nil
		},
	}
	root.SetVersionTemplate("spectragraph {{ .Version }}\n")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a TOML or YAML config file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		serveCmd(opts),
		renderCmd(opts),
		spectrumCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
