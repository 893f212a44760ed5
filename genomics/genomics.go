// Package genomics contains definitions related to copy-number data.
package genomics

import "fmt"

// AllChromosomes is the chromosome selector that matches every chromosome
// present in the data.
const AllChromosomes = "all"

// CNScale describes how copy-number values are centered.
type CNScale string

const (
	// CNScaleRelative treats 0 as copy neutral.
	CNScaleRelative CNScale = "relative"
	// CNScaleAbsolute treats 2 as copy neutral.
	CNScaleAbsolute CNScale = "absolute"
)

// Valid reports whether scale is one of the supported scales.
func (scale CNScale) Valid() bool {
	return scale == CNScaleRelative || scale == CNScaleAbsolute
}

// Neutral returns the copy-neutral value for scale.
func (scale CNScale) Neutral() float64 {
	if scale == CNScaleRelative {
		return 0
	}
	return 2
}

// CopyNumberCall is one observed copy-number value at a genomic position for
// one sample.
type CopyNumberCall struct {
	Chromosome string   `json:"chromosome"`
	Coordinate int64    `json:"coordinate"`
	CN         float64  `json:"cn"`
	PValue     *float64 `json:"p_value,omitempty"`
}

// Chrom returns the chromosome the call is placed on.
func (c CopyNumberCall) Chrom() string { return c.Chromosome }

// SegmentCall is one called segment with a mean copy-number estimate.
type SegmentCall struct {
	Chromosome string  `json:"chromosome"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	SegMean    float64 `json:"segmean"`
}

// Chrom returns the chromosome the segment is placed on.
func (s SegmentCall) Chrom() string { return s.Chromosome }

// CytogeneticBand is one cytogenetic band region.  The full set for a
// chromosome, ordered by ChromStart, tiles that chromosome; gaps are
// permitted.
type CytogeneticBand struct {
	Chromosome string `json:"chrom"`
	ChromStart int64  `json:"chromStart"`
	ChromEnd   int64  `json:"chromEnd"`
	Name       string `json:"name"`
	GieStain   string `json:"gieStain"`
}

// Chrom returns the chromosome the band belongs to.
func (b CytogeneticBand) Chrom() string { return b.Chromosome }

// BoundaryPoint is a synthetic data point that exists only to force plot
// axes to span the full chromosome extent.  It carries no copy-number value.
type BoundaryPoint struct {
	Chromosome string `json:"chromosome"`
	Coordinate int64  `json:"coordinate"`
}

// Chrom returns the chromosome the point is placed on.
func (p BoundaryPoint) Chrom() string { return p.Chromosome }

// Placed is any row type positioned on a chromosome.
type Placed interface {
	Chrom() string
}

// Subset returns the rows placed on the named chromosome.  The selector
// AllChromosomes returns rows unchanged.  An empty result is valid and means
// no data for that chromosome.
func Subset[T Placed](rows []T, chromosome string) []T {
	if chromosome == AllChromosomes {
		return rows
	}
	var out []T
	for _, row := range rows {
		if row.Chrom() == chromosome {
			out = append(out, row)
		}
	}
	return out
}

// EmptyInputError reports a band collection with no rows for a chromosome
// that the requested view needs.
type EmptyInputError struct {
	Chromosome string
}

func (e *EmptyInputError) Error() string {
	if e.Chromosome == AllChromosomes {
		return "empty band collection"
	}
	return fmt.Sprintf("no band rows for chromosome %q", e.Chromosome)
}

// Boundaries computes, for each distinct chromosome in bands, the minimum
// ChromStart and maximum ChromEnd and emits one BoundaryPoint per extremum.
// The result is restricted to the named chromosome unless it is
// AllChromosomes.  It fails with EmptyInputError when no band rows exist for
// a requested chromosome.
func Boundaries(bands []CytogeneticBand, chromosome string) ([]BoundaryPoint, error) {
	type extent struct {
		min, max int64
	}
	extents := make(map[string]extent)
	var order []string
	for _, band := range bands {
		if chromosome != AllChromosomes && band.Chromosome != chromosome {
			continue
		}
		ext, ok := extents[band.Chromosome]
		if !ok {
			order = append(order, band.Chromosome)
			ext = extent{min: band.ChromStart, max: band.ChromEnd}
		} else {
			if band.ChromStart < ext.min {
				ext.min = band.ChromStart
			}
			if band.ChromEnd > ext.max {
				ext.max = band.ChromEnd
			}
		}
		extents[band.Chromosome] = ext
	}
	if len(order) == 0 {
		return nil, &EmptyInputError{Chromosome: chromosome}
	}

	points := make([]BoundaryPoint, 0, 2*len(order))
	for _, chrom := range order {
		ext := extents[chrom]
		points = append(points,
			BoundaryPoint{Chromosome: chrom, Coordinate: ext.min},
			BoundaryPoint{Chromosome: chrom, Coordinate: ext.max},
		)
	}
	return points, nil
}
