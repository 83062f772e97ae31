// Package render turns graph snapshots into frames and frames into output
// formats for an external renderer.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
)

// Sentinel errors returned by this package.
var (
	ErrUnsupportedFormat = errors.New("render: unsupported output format")
	ErrBadColor          = errors.New("render: invalid colour")
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Width       float64 // Width of the output
	Height      float64 // Height of the output
	Background  string  // Background color
	NodeRadius  float64 // Radius of node circles
	ShowLabels  bool    // Show node ids
	ShowValues  bool    // Append eigenvector components to text output
	SelectColor string  // Stroke of the selected edge
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render creates a visualization of the frame using the provided options
	Render(frame Frame, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions() *OutputOptions {
	return &OutputOptions{
		Width:       800,
		Height:      500,
		Background:  "#ffffff",
		NodeRadius:  12,
		ShowLabels:  true,
		ShowValues:  true,
		SelectColor: "#ff7f0e",
	}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "text", "ascii":
		return &TextRenderer{}, nil
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
}

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Render creates an SVG representation of the frame
func (r *SVGRenderer) Render(frame Frame, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, options.Width, options.Height, options.Width, options.Height, options.Background)

	buf.WriteString("<g class=\"links\">\n")
	for _, e := range frame.Edges {
		stroke, width := "#000000", 4.0
		if e.Selected {
			stroke = options.SelectColor
		}
		fmt.Fprintf(&buf, `<path class="link" d="M%.2f,%.2fL%.2f,%.2f" stroke="%s" stroke-width="%g" fill="none"/>
`, e.X1, e.Y1, e.X2, e.Y2, stroke, width)
	}
	buf.WriteString("</g>\n<g class=\"nodes\">\n")

	for _, n := range frame.Nodes {
		radius := options.NodeRadius
		transform := ""
		if n.Hovered {
			transform = ` transform="scale(1.1)"`
		}
		fmt.Fprintf(&buf, `<g transform="translate(%.2f,%.2f)"><circle class="node" r="%g" fill="%s" stroke="black"%s/>`,
			n.X, n.Y, radius, n.Color, transform)
		if options.ShowLabels {
			fmt.Fprintf(&buf, `<text x="0" y="4" font-family="sans-serif" font-size="10" text-anchor="middle">%d</text>`, n.ID)
		}
		buf.WriteString("</g>\n")
	}
	buf.WriteString("</g>\n</svg>\n")

	return buf.Bytes(), nil
}

// JSONRenderer outputs the frame as JSON
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Render marshals the frame
func (r *JSONRenderer) Render(frame Frame, options *OutputOptions) ([]byte, error) {
	return json.MarshalIndent(frame, "", "  ")
}

// TextRenderer lists nodes with a coloured swatch for terminals
type TextRenderer struct{}

// Name returns the name of the renderer
func (r *TextRenderer) Name() string {
	return "Text Renderer"
}

// Render writes one line per node and one per edge
func (r *TextRenderer) Render(frame Frame, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %s  rev %d  nodes %d  edges %d\n",
		frame.GraphID, frame.Revision, len(frame.Nodes), len(frame.Edges))

	for _, n := range frame.Nodes {
		c, err := ParseColor(n.Color)
		if err != nil {
			return nil, err
		}
		swatch := color.RGB(int(c.R), int(c.G), int(c.B)).Sprint("●")
		marker := " "
		if n.Selected {
			marker = "*"
		}
		fmt.Fprintf(&buf, "%s%s node %-3d (%7.1f, %7.1f)", marker, swatch, n.ID, n.X, n.Y)
		if options.ShowValues {
			fmt.Fprintf(&buf, "  %s", formatValue(n.Value))
		}
		buf.WriteString("\n")
	}
	for _, e := range frame.Edges {
		marker := " "
		if e.Selected {
			marker = "*"
		}
		fmt.Fprintf(&buf, "%s  edge %d-%d\n", marker, e.Source, e.Target)
	}
	return buf.Bytes(), nil
}

func formatValue(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return "    -"
	}
	return fmt.Sprintf("%+.4f", *v)
}
