// Package view builds copy-number views: it decides what to draw and with
// what data, delegating the drawing itself to a plot.Engine.
//
// A view invocation is stateless and synchronous: inputs are validated and
// normalized, band data is resolved, boundary points are synthesized, the
// genome-wide or single-chromosome branch is taken, and the requested output
// representation is returned.  The only cross-invocation state is the
// read-only preloaded band cache in package bands.
package view

import (
	"context"
	"fmt"
	"io"

	"github.com/genomeview/cnview/bands"
	"github.com/genomeview/cnview/genomics"
	"github.com/genomeview/cnview/internal/notices"
	"github.com/genomeview/cnview/internal/tabular"
	"github.com/genomeview/cnview/plot"
)

// Mode selects the output representation of a view invocation.
type Mode string

const (
	// ModeData returns the packaged data bundle; nothing is drawn.
	ModeData Mode = "data"
	// ModeGraphic returns the composed graphic object without rendering
	// it.
	ModeGraphic Mode = "graphic"
	// ModeRendered renders the graphic to the request destination and
	// also returns the graphic object.  This is the default.
	ModeRendered Mode = "rendered"
)

// Defaults for unset request fields.
const (
	DefaultGenome            = "hg19"
	DefaultChromosome        = "chr1"
	DefaultIdeogramTextAngle = 45
	DefaultIdeogramTextSize  = 5
)

// Request configures one view invocation.
type Request struct {
	// Calls is the required raw per-position copy-number table.
	Calls *tabular.Table
	// Bands optionally supplies cytogenetic bands, overriding genome
	// lookup entirely.
	Bands *tabular.Table
	// Segments optionally supplies a segment-level summary overlay.
	Segments *tabular.Table

	// Genome selects the preloaded cache entry or remote lookup key.
	// Empty means DefaultGenome.
	Genome string
	// Chr is "chrN" for the single-chromosome view with an aligned
	// ideogram, or genomics.AllChromosomes for the genome-wide facet.
	// Empty means DefaultChromosome.
	Chr string
	// Scale selects relative (0-neutral) or absolute (2-neutral)
	// copy-number centering.  Empty means absolute.
	Scale genomics.CNScale

	// IdeogramTextAngle and IdeogramTextSize are cosmetic ideogram label
	// parameters.  Zero means the default.
	IdeogramTextAngle float64
	IdeogramTextSize  float64

	// PlotLayer and IdeogramLayer are opaque decoration layers passed
	// through to the engine.
	PlotLayer     plot.Layer
	IdeogramLayer plot.Layer

	// SegmentColor overrides the segment-line color.  Only used when
	// Segments is supplied.
	SegmentColor string

	// Output selects the return representation.  Empty means
	// ModeRendered.
	Output Mode
	// RenderTo is the destination for ModeRendered.
	RenderTo io.Writer
}

// InvalidParameterError reports a parameter value outside its allowed set.
type InvalidParameterError struct {
	Parameter string
	Value     string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid value %q for parameter %q", e.Value, e.Parameter)
}

// ChromosomeNotFoundError reports a requested chromosome absent from the
// resolved band collection.
type ChromosomeNotFoundError struct {
	Chromosome string
	Genome     string
}

func (e *ChromosomeNotFoundError) Error() string {
	return fmt.Sprintf("chromosome %q not present in the band data for genome %q",
		e.Chromosome, e.Genome)
}

// Result is the outcome of one view invocation.  Exactly one representation
// is populated, per the request's output mode: Data for ModeData, Graphic
// for ModeGraphic and ModeRendered.
type Result struct {
	Mode    Mode
	Data    *Data
	Graphic plot.Graphic
}

// Builder builds views with a fixed engine and band-source configuration.
type Builder struct {
	// Engine draws the graphics.  Required except for ModeData-only use.
	Engine plot.Engine
	// Sources optionally replaces the cache and remote band sources.  A
	// user-supplied band table still takes precedence over them.
	Sources []bands.Source
}

// Build runs one view invocation.
func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	applyDefaults(&req)

	if !req.Scale.Valid() {
		return nil, &InvalidParameterError{Parameter: "CNscale", Value: string(req.Scale)}
	}
	switch req.Output {
	case ModeData, ModeGraphic, ModeRendered:
	default:
		return nil, &InvalidParameterError{Parameter: "out", Value: string(req.Output)}
	}

	// Normalize all inputs before any band resolution happens: schema
	// problems must surface without touching the cache or the network.
	calls, err := normalizeCalls(req.Calls)
	if err != nil {
		return nil, err
	}
	segments, err := normalizeSegments(req.Segments)
	if err != nil {
		return nil, err
	}
	var user bands.Set
	if req.Bands != nil {
		if user, err = bands.FromTable(req.Bands); err != nil {
			return nil, err
		}
	}

	sources := b.Sources
	if sources == nil {
		sources = bands.DefaultSources(user)
	} else if user != nil {
		sources = append([]bands.Source{bands.Static(user)}, sources...)
	}
	if user != nil {
		notices.Emitf(ctx, "using user-supplied band data")
	}
	bandSet, err := bands.Resolve(ctx, req.Genome, sources...)
	if err != nil {
		return nil, err
	}

	if req.Chr != genomics.AllChromosomes && !bandSet.Has(req.Chr) {
		return nil, &ChromosomeNotFoundError{Chromosome: req.Chr, Genome: req.Genome}
	}

	boundaries, err := genomics.Boundaries(bandSet, req.Chr)
	if err != nil {
		return nil, err
	}

	viewCalls := genomics.Subset(calls, req.Chr)
	viewSegments := genomics.Subset(segments, req.Chr)

	data := &Data{
		Main:      viewCalls,
		DummyData: boundaries,
		Segments:  viewSegments,
		Cytobands: bandSet,
		Summary:   summarize(viewCalls),
	}
	if req.Output == ModeData {
		return &Result{Mode: ModeData, Data: data}, nil
	}

	graphic, err := b.compose(ctx, req, data)
	if err != nil {
		return nil, err
	}

	if req.Output == ModeRendered {
		if req.RenderTo == nil {
			return nil, &InvalidParameterError{Parameter: "RenderTo", Value: "<nil>"}
		}
		notices.Emitf(ctx, "rendering %s view", req.Chr)
		if err := graphic.Render(req.RenderTo); err != nil {
			return nil, fmt.Errorf("rendering view: %v", err)
		}
	}
	return &Result{Mode: req.Output, Graphic: graphic}, nil
}

// compose takes the genome-wide or single-chromosome branch and returns the
// one graphic that represents the view.
func (b *Builder) compose(ctx context.Context, req Request, data *Data) (plot.Graphic, error) {
	if b.Engine == nil {
		return nil, fmt.Errorf("view: no plotting engine configured")
	}

	spec := plot.Spec{
		Calls:        data.Main,
		Boundaries:   data.DummyData,
		Segments:     data.Segments,
		Scale:        req.Scale,
		SegmentColor: req.SegmentColor,
		Layer:        req.PlotLayer,
	}

	if req.Chr == genomics.AllChromosomes {
		spec.Faceted = true
		main, err := b.Engine.Plot(ctx, spec)
		if err != nil {
			return nil, fmt.Errorf("building faceted plot: %v", err)
		}
		return main, nil
	}

	ideogram, err := b.Engine.Ideogram(ctx, plot.IdeogramSpec{
		Bands:      data.Cytobands,
		Chromosome: req.Chr,
		TextAngle:  req.IdeogramTextAngle,
		TextSize:   req.IdeogramTextSize,
		Layer:      req.IdeogramLayer,
	})
	if err != nil {
		return nil, fmt.Errorf("building ideogram: %v", err)
	}
	main, err := b.Engine.Plot(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("building plot: %v", err)
	}
	composite, err := b.Engine.Align(ideogram, main)
	if err != nil {
		return nil, fmt.Errorf("aligning ideogram and plot: %v", err)
	}
	return composite, nil
}

func applyDefaults(req *Request) {
	if req.Genome == "" {
		req.Genome = DefaultGenome
	}
	if req.Chr == "" {
		req.Chr = DefaultChromosome
	}
	if req.Scale == "" {
		req.Scale = genomics.CNScaleAbsolute
	}
	if req.Output == "" {
		req.Output = ModeRendered
	}
	if req.IdeogramTextAngle == 0 {
		req.IdeogramTextAngle = DefaultIdeogramTextAngle
	}
	if req.IdeogramTextSize == 0 {
		req.IdeogramTextSize = DefaultIdeogramTextSize
	}
}
