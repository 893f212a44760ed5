package view

import (
	"fmt"
	"strings"

	"github.com/genomeview/cnview/genomics"
	"github.com/genomeview/cnview/internal/tabular"
)

// normalizeCalls enforces the call column contract (chromosome, coordinate,
// cn, optional p_value) and coerces the table into typed rows.  The input
// table is never mutated.
func normalizeCalls(t *tabular.Table) ([]genomics.CopyNumberCall, error) {
	if t == nil {
		return nil, fmt.Errorf("view: calls table is required")
	}
	if err := t.Require("chromosome", "coordinate", "cn"); err != nil {
		return nil, err
	}
	hasP := t.Has("p_value")

	calls := make([]genomics.CopyNumberCall, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		coordinate, err := t.Int(i, "coordinate")
		if err != nil {
			return nil, err
		}
		cn, err := t.Float(i, "cn")
		if err != nil {
			return nil, err
		}
		call := genomics.CopyNumberCall{
			Chromosome: t.Cell(i, "chromosome"),
			Coordinate: coordinate,
			CN:         cn,
		}
		// An empty p_value cell means the row carries no p-value, which
		// happens when only some records of a JSON table have the column.
		if hasP && strings.TrimSpace(t.Cell(i, "p_value")) != "" {
			p, err := t.Float(i, "p_value")
			if err != nil {
				return nil, err
			}
			call.PValue = &p
		}
		calls = append(calls, call)
	}
	return calls, nil
}

// normalizeSegments enforces the segment column contract (chromosome, start,
// end, segmean).  A nil table means no segment overlay and is valid.
func normalizeSegments(t *tabular.Table) ([]genomics.SegmentCall, error) {
	if t == nil {
		return nil, nil
	}
	if err := t.Require("chromosome", "start", "end", "segmean"); err != nil {
		return nil, err
	}

	segments := make([]genomics.SegmentCall, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		start, err := t.Int(i, "start")
		if err != nil {
			return nil, err
		}
		end, err := t.Int(i, "end")
		if err != nil {
			return nil, err
		}
		mean, err := t.Float(i, "segmean")
		if err != nil {
			return nil, err
		}
		segments = append(segments, genomics.SegmentCall{
			Chromosome: t.Cell(i, "chromosome"),
			Start:      start,
			End:        end,
			SegMean:    mean,
		})
	}
	return segments, nil
}
