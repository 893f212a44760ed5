// Package svg provides the built-in SVG plotting engine.
//
// The engine draws deliberately simple graphics: points for copy-number
// calls, horizontal lines for segment means, a dashed copy-neutral
// reference, and stain-colored band glyphs for ideograms.  Anything fancier
// belongs in an external engine implementing plot.Engine.
package svg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/genomeview/cnview/genomics"
	"github.com/genomeview/cnview/plot"
)

const (
	defaultWidth          = 960
	defaultPanelHeight    = 260
	defaultIdeogramHeight = 64

	marginLeft   = 48
	marginRight  = 16
	marginTop    = 12
	marginBottom = 28

	defaultSegmentColor = "#2e7d32"
	gainColor           = "#b2182b"
	lossColor           = "#2166ac"
	neutralColor        = "#636363"
)

// stainFills maps Giemsa stain names to fill colors, following the usual
// genome-browser scheme.
var stainFills = map[string]string{
	"gneg":    "#ffffff",
	"gpos25":  "#c8c8c8",
	"gpos50":  "#969696",
	"gpos66":  "#7d7d7d",
	"gpos75":  "#646464",
	"gpos33":  "#afafaf",
	"gpos100": "#000000",
	"acen":    "#d92f27",
	"gvar":    "#dcdcdc",
	"stalk":   "#647fa4",
}

// Engine renders plot specs to standalone SVG documents.  The zero value is
// ready to use.
type Engine struct {
	// Width is the total graphic width in pixels.  Zero means a default.
	Width int
	// PanelHeight is the main panel height in pixels.
	PanelHeight int
	// IdeogramHeight is the ideogram panel height in pixels.
	IdeogramHeight int
}

type graphic struct {
	width, height int
	body          []byte
}

func (g *graphic) Render(w io.Writer) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		g.width, g.height, g.width, g.height)
	b.Write(g.body)
	b.WriteString("</svg>\n")
	_, err := w.Write(b.Bytes())
	return err
}

func (e *Engine) width() int {
	if e.Width > 0 {
		return e.Width
	}
	return defaultWidth
}

func (e *Engine) panelHeight() int {
	if e.PanelHeight > 0 {
		return e.PanelHeight
	}
	return defaultPanelHeight
}

func (e *Engine) ideogramHeight() int {
	if e.IdeogramHeight > 0 {
		return e.IdeogramHeight
	}
	return defaultIdeogramHeight
}

// extent is the coordinate span of one chromosome, in first-seen order.
type extent struct {
	chromosome string
	min, max   int64
}

func extentsOf(boundaries []genomics.BoundaryPoint) []extent {
	index := make(map[string]int)
	var extents []extent
	for _, p := range boundaries {
		i, ok := index[p.Chromosome]
		if !ok {
			index[p.Chromosome] = len(extents)
			extents = append(extents, extent{chromosome: p.Chromosome, min: p.Coordinate, max: p.Coordinate})
			continue
		}
		if p.Coordinate < extents[i].min {
			extents[i].min = p.Coordinate
		}
		if p.Coordinate > extents[i].max {
			extents[i].max = p.Coordinate
		}
	}
	return extents
}

// Plot builds the main data panel: one facet per chromosome when spec.
// Faceted is set, a single panel otherwise.
func (e *Engine) Plot(_ context.Context, spec plot.Spec) (plot.Graphic, error) {
	extents := extentsOf(spec.Boundaries)
	if len(extents) == 0 {
		return nil, fmt.Errorf("svg: plot spec has no boundary points")
	}
	if !spec.Faceted && len(extents) > 1 {
		return nil, fmt.Errorf("svg: %d chromosomes in a non-faceted plot", len(extents))
	}

	width, height := e.width(), e.panelHeight()
	lo, hi := cnRange(spec)

	var b bytes.Buffer
	fmt.Fprintf(&b, `<g class="cn-plot" font-family="sans-serif">`+"\n")

	panelWidth := (width - marginLeft - marginRight) / len(extents)
	for i, ext := range extents {
		x0 := marginLeft + i*panelWidth
		e.panel(&b, spec, ext, x0, panelWidth-8, height, lo, hi)
	}

	// Vertical axis with the copy-neutral reference labelled.
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="10" text-anchor="end">%s</text>`+"\n",
		marginLeft-6, yFor(spec.Scale.Neutral(), lo, hi, height)+3, trimFloat(spec.Scale.Neutral()))

	if layer := rawLayer(spec.Layer); layer != "" {
		b.WriteString(layer)
		b.WriteByte('\n')
	}
	b.WriteString("</g>\n")

	return &graphic{width: width, height: height, body: b.Bytes()}, nil
}

func (e *Engine) panel(b *bytes.Buffer, spec plot.Spec, ext extent, x0, width, height int, lo, hi float64) {
	xFor := func(coord int64) float64 {
		span := ext.max - ext.min
		if span == 0 {
			span = 1
		}
		return float64(x0) + float64(coord-ext.min)/float64(span)*float64(width)
	}

	fmt.Fprintf(b, `<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="#bdbdbd"/>`+"\n",
		x0, marginTop, width, height-marginTop-marginBottom)
	fmt.Fprintf(b, `<text x="%d" y="%d" font-size="11" text-anchor="middle">%s</text>`+"\n",
		x0+width/2, height-marginBottom+16, escape(ext.chromosome))

	neutralY := yFor(spec.Scale.Neutral(), lo, hi, height)
	fmt.Fprintf(b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="4,3"/>`+"\n",
		x0, neutralY, x0+width, neutralY, neutralColor)

	for _, call := range spec.Calls {
		if call.Chromosome != ext.chromosome {
			continue
		}
		color := neutralColor
		if call.CN > spec.Scale.Neutral() {
			color = gainColor
		} else if call.CN < spec.Scale.Neutral() {
			color = lossColor
		}
		opacity := 1.0
		if call.PValue != nil {
			// Fainter points for weaker evidence.
			opacity = 1 - *call.PValue
			if opacity < 0.15 {
				opacity = 0.15
			}
		}
		fmt.Fprintf(b, `<circle cx="%.1f" cy="%d" r="2.5" fill="%s" fill-opacity="%.2f"/>`+"\n",
			xFor(call.Coordinate), yFor(call.CN, lo, hi, height), color, opacity)
	}

	segmentColor := spec.SegmentColor
	if segmentColor == "" {
		segmentColor = defaultSegmentColor
	}
	for _, segment := range spec.Segments {
		if segment.Chromosome != ext.chromosome {
			continue
		}
		y := yFor(segment.SegMean, lo, hi, height)
		fmt.Fprintf(b, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="%s" stroke-width="2.5"/>`+"\n",
			xFor(segment.Start), y, xFor(segment.End), y, segmentColor)
	}
}

// Ideogram builds a schematic band diagram for one chromosome.
func (e *Engine) Ideogram(_ context.Context, spec plot.IdeogramSpec) (plot.Graphic, error) {
	bands := genomics.Subset(spec.Bands, spec.Chromosome)
	if len(bands) == 0 {
		return nil, fmt.Errorf("svg: no bands for chromosome %q", spec.Chromosome)
	}

	min, max := bands[0].ChromStart, bands[0].ChromEnd
	for _, band := range bands {
		if band.ChromStart < min {
			min = band.ChromStart
		}
		if band.ChromEnd > max {
			max = band.ChromEnd
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	width, height := e.width(), e.ideogramHeight()
	panelWidth := width - marginLeft - marginRight - 8
	glyphTop, glyphHeight := 8, height-30
	xFor := func(coord int64) float64 {
		return marginLeft + float64(coord-min)/float64(span)*float64(panelWidth)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, `<g class="ideogram" font-family="sans-serif">`+"\n")
	for _, band := range bands {
		fill, ok := stainFills[band.GieStain]
		if !ok {
			fill = "#eeeeee"
		}
		x := xFor(band.ChromStart)
		w := xFor(band.ChromEnd) - x
		fmt.Fprintf(&b, `<rect x="%.1f" y="%d" width="%.1f" height="%d" fill="%s" stroke="#333333" stroke-width="0.5"/>`+"\n",
			x, glyphTop, w, glyphHeight, fill)

		labelX := x + w/2
		labelY := glyphTop + glyphHeight + 10
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="%s" text-anchor="start" transform="rotate(%s %.1f %d)">%s</text>`+"\n",
			labelX, labelY, trimFloat(spec.TextSize), trimFloat(spec.TextAngle), labelX, labelY, escape(band.Name))
	}
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" text-anchor="end">%s</text>`+"\n",
		marginLeft-6, glyphTop+glyphHeight/2+4, escape(spec.Chromosome))

	if layer := rawLayer(spec.Layer); layer != "" {
		b.WriteString(layer)
		b.WriteByte('\n')
	}
	b.WriteString("</g>\n")

	return &graphic{width: width, height: height, body: b.Bytes()}, nil
}

// Align stacks the ideogram above the main panel.  Both graphics use the
// same horizontal margins and chromosome extent, so their coordinate axes
// register.
func (e *Engine) Align(ideogram, main plot.Graphic) (plot.Graphic, error) {
	top, ok := ideogram.(*graphic)
	if !ok {
		return nil, fmt.Errorf("svg: cannot align foreign ideogram graphic %T", ideogram)
	}
	bottom, ok := main.(*graphic)
	if !ok {
		return nil, fmt.Errorf("svg: cannot align foreign main graphic %T", main)
	}

	width := top.width
	if bottom.width > width {
		width = bottom.width
	}

	var b bytes.Buffer
	b.Write(top.body)
	fmt.Fprintf(&b, `<g transform="translate(0,%d)">`+"\n", top.height)
	b.Write(bottom.body)
	b.WriteString("</g>\n")

	return &graphic{width: width, height: top.height + bottom.height, body: b.Bytes()}, nil
}

func cnRange(spec plot.Spec) (lo, hi float64) {
	lo, hi = spec.Scale.Neutral(), spec.Scale.Neutral()
	for _, call := range spec.Calls {
		lo = math.Min(lo, call.CN)
		hi = math.Max(hi, call.CN)
	}
	for _, segment := range spec.Segments {
		lo = math.Min(lo, segment.SegMean)
		hi = math.Max(hi, segment.SegMean)
	}
	return lo - 0.5, hi + 0.5
}

func yFor(value, lo, hi float64, height int) int {
	usable := float64(height - marginTop - marginBottom)
	return marginTop + int((hi-value)/(hi-lo)*usable)
}

// rawLayer interprets a decoration layer as a raw SVG fragment.  This engine
// understands string and []byte layers; anything else is ignored.
func rawLayer(layer plot.Layer) string {
	switch v := layer.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string { return textEscaper.Replace(s) }

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
