// Package bands resolves cytogenetic band data for a genome assembly.
//
// Band data comes from one of three sources, tried in order of precedence:
// a user-supplied table, the bundled per-genome cache, and a remote lookup
// against the UCSC genome-annotation service.  The first source that applies
// wins.
package bands

import (
	"context"
	"fmt"

	"github.com/genomeview/cnview/genomics"
	"github.com/genomeview/cnview/internal/tabular"
)

// Set is a collection of cytogenetic bands, usually covering one or more
// whole chromosomes.
type Set []genomics.CytogeneticBand

// Chromosomes returns the distinct chromosomes in the set, in first-seen
// order.
func (s Set) Chromosomes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, band := range s {
		if !seen[band.Chromosome] {
			seen[band.Chromosome] = true
			out = append(out, band.Chromosome)
		}
	}
	return out
}

// Has reports whether the set contains any band on the named chromosome.
func (s Set) Has(chromosome string) bool {
	for _, band := range s {
		if band.Chromosome == chromosome {
			return true
		}
	}
	return false
}

// Restrict returns the bands on the named chromosome.  The selector
// genomics.AllChromosomes returns the set unchanged.
func (s Set) Restrict(chromosome string) Set {
	return Set(genomics.Subset([]genomics.CytogeneticBand(s), chromosome))
}

// FromTable normalizes a raw band table into a Set, enforcing the band
// column contract (chrom, chromStart, chromEnd, name, gieStain).
func FromTable(t *tabular.Table) (Set, error) {
	if err := t.Require("chrom", "chromStart", "chromEnd", "name", "gieStain"); err != nil {
		return nil, err
	}
	set := make(Set, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		start, err := t.Int(i, "chromStart")
		if err != nil {
			return nil, err
		}
		end, err := t.Int(i, "chromEnd")
		if err != nil {
			return nil, err
		}
		set = append(set, genomics.CytogeneticBand{
			Chromosome: t.Cell(i, "chrom"),
			ChromStart: start,
			ChromEnd:   end,
			Name:       t.Cell(i, "name"),
			GieStain:   t.Cell(i, "gieStain"),
		})
	}
	return set, nil
}

// Source is one way of obtaining band data for a genome.
type Source interface {
	// Resolve attempts to produce the band set for the named genome.  The
	// second return value reports whether this source applies to the genome
	// at all; when it is false the next source in precedence order is tried.
	Resolve(ctx context.Context, genome string) (Set, bool, error)
}

// Resolve returns the band set for genome from the first source that
// applies.  Errors from an applicable source are not recovered by trying
// later sources.
func Resolve(ctx context.Context, genome string, sources ...Source) (Set, error) {
	for _, source := range sources {
		set, ok, err := source.Resolve(ctx, genome)
		if err != nil {
			return nil, err
		}
		if ok {
			return set, nil
		}
	}
	return nil, fmt.Errorf("no band source applies to genome %q", genome)
}

// DefaultSources returns the standard precedence order: the user-supplied
// set if non-nil, then the bundled cache, then the UCSC remote lookup.
func DefaultSources(user Set) []Source {
	var sources []Source
	if user != nil {
		sources = append(sources, Static(user))
	}
	return append(sources, Preloaded(), NewUCSCSource())
}

// Static is a Source that always resolves to a fixed band set, regardless of
// genome.  It implements the precedence rule that user input wins.
type Static Set

// Resolve returns the fixed set.
func (s Static) Resolve(_ context.Context, _ string) (Set, bool, error) {
	return Set(s), true, nil
}
