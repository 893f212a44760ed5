// Package plot defines the contract between the view builder and a plotting
// engine.
//
// The builder decides what to draw and with what data; an Engine turns that
// into Graphic objects.  Engines are injectable: tests use a stub that
// records its inputs, binaries use the built-in SVG engine from plot/svg.
package plot

import (
	"context"
	"io"

	"github.com/genomeview/cnview/genomics"
)

// Graphic is an opaque drawable produced by an Engine.
type Graphic interface {
	// Render draws the graphic to w.
	Render(w io.Writer) error
}

// Layer is an opaque decoration payload passed through to the engine.  Each
// engine defines which layer values it understands.
type Layer interface{}

// Spec describes one main data panel.
type Spec struct {
	// Calls are the data points to plot.
	Calls []genomics.CopyNumberCall
	// Boundaries force the horizontal axis to span full chromosome
	// extents even where no calls exist.
	Boundaries []genomics.BoundaryPoint
	// Segments, when present, overlay segment-mean lines.
	Segments []genomics.SegmentCall
	// Scale selects the copy-neutral reference (0 or 2) for coloring and
	// reference-line placement.
	Scale genomics.CNScale
	// Faceted requests one panel per chromosome instead of a single panel.
	Faceted bool
	// SegmentColor overrides the segment-line color.  Empty means the
	// engine default.
	SegmentColor string
	// Layer is an optional caller-supplied decoration.
	Layer Layer
}

// IdeogramSpec describes a chromosome ideogram panel.
type IdeogramSpec struct {
	// Bands is the band set to draw; the engine restricts it to
	// Chromosome.
	Bands []genomics.CytogeneticBand
	// Chromosome names the chromosome to draw.
	Chromosome string
	// TextAngle and TextSize control band label rendering.
	TextAngle float64
	TextSize  float64
	// Layer is an optional caller-supplied decoration.
	Layer Layer
}

// Engine builds graphics from structured data and layering directives.
type Engine interface {
	// Plot builds the main data panel.
	Plot(ctx context.Context, spec Spec) (Graphic, error)
	// Ideogram builds a schematic band diagram for one chromosome.
	Ideogram(ctx context.Context, spec IdeogramSpec) (Graphic, error)
	// Align stacks the ideogram above the main panel into one composite
	// sharing the horizontal coordinate axis.
	Align(ideogram, main Graphic) (Graphic, error)
}
