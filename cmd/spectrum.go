package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/TFMV/spectragraph/models"
	"github.com/TFMV/spectragraph/render"
	"github.com/TFMV/spectragraph/spectral"
)

func spectrumCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "spectrum",
		Short:   "Print the Laplacian spectrum of the start graph",
		Aliases: []string{"eigen"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			g, _ := layoutGraph(cfg, 0)

			a := spectral.NewAnalyzer()
			if err := a.Recompute(g); err != nil {
				return err
			}
			sp := a.Spectrum(g)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sp)
			}

			frameOpts, err := cfg.FrameOptions()
			if err != nil {
				return err
			}
			printSpectrum(out, g, sp, frameOpts.Scale)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the spectrum as JSON")
	return cmd
}

func printSpectrum(w io.Writer, g *models.Graph, sp spectral.Spectrum, scale render.ColorScale) {
	brand.Fprintf(w, "  %s  ", "Laplacian spectrum")
	subtle.Fprintf(w, "%d nodes, %d edges\n\n", g.NodeCount(), g.EdgeCount())

	if len(sp.Values) == 0 {
		warn.Fprintln(w, "  Empty graph, nothing to decompose.")
		return
	}

	var header strings.Builder
	header.WriteString("   k   eigenvalue  ")
	for _, id := range sp.IDs {
		fmt.Fprintf(&header, "%7d ", id)
	}
	subtle.Fprintln(w, header.String())

	for k, v := range sp.Values {
		fmt.Fprintf(w, "  %2d  %11.6f  ", k, v)
		for _, x := range sp.Vectors[k] {
			c := scale.At(x)
			color.RGB(int(c.R), int(c.G), int(c.B)).Fprint(w, "●")
			fmt.Fprintf(w, "%6.3f ", x)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	if sp.Components == 1 {
		good.Fprintln(w, "  connected")
	} else {
		warn.Fprintf(w, "  %d connected components\n", sp.Components)
	}
}
