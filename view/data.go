package view

import (
	"github.com/montanaflynn/stats"

	"github.com/genomeview/cnview/bands"
	"github.com/genomeview/cnview/genomics"
)

// Data is the packaged data bundle returned by ModeData: the normalized
// inputs exactly as the view would plot them.
type Data struct {
	// Main holds the calls included in the view (the full table for the
	// genome-wide view, the chromosome subset otherwise).
	Main []genomics.CopyNumberCall `json:"main"`
	// DummyData holds the synthetic boundary points that force axis
	// extents.
	DummyData []genomics.BoundaryPoint `json:"dummyData"`
	// Segments holds the segment overlay included in the view, if any.
	Segments []genomics.SegmentCall `json:"segments"`
	// Cytobands holds the resolved band collection.
	Cytobands bands.Set `json:"cytobands"`
	// Summary holds per-chromosome QC statistics over Main.
	Summary []ChromosomeSummary `json:"summary"`
}

// ChromosomeSummary is a per-chromosome QC digest of the calls in a view.
type ChromosomeSummary struct {
	Chromosome string  `json:"chromosome"`
	Calls      int     `json:"calls"`
	MeanCN     float64 `json:"meanCN"`
	MedianCN   float64 `json:"medianCN"`
}

func summarize(calls []genomics.CopyNumberCall) []ChromosomeSummary {
	byChrom := make(map[string][]float64)
	var order []string
	for _, call := range calls {
		if _, seen := byChrom[call.Chromosome]; !seen {
			order = append(order, call.Chromosome)
		}
		byChrom[call.Chromosome] = append(byChrom[call.Chromosome], call.CN)
	}

	summaries := make([]ChromosomeSummary, 0, len(order))
	for _, chrom := range order {
		values := stats.Float64Data(byChrom[chrom])
		mean, err := stats.Mean(values)
		if err != nil {
			continue
		}
		median, err := stats.Median(values)
		if err != nil {
			continue
		}
		summaries = append(summaries, ChromosomeSummary{
			Chromosome: chrom,
			Calls:      len(values),
			MeanCN:     mean,
			MedianCN:   median,
		})
	}
	return summaries
}
