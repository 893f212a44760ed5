package bands

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/genomeview/cnview/genomics"
	"github.com/genomeview/cnview/internal/notices"
)

// The bundled cache is a condensed, arm-level band table: it carries the
// extents and arm boundaries of every chromosome for the preloaded
// assemblies, which is all the view builder needs to size axes and draw a
// schematic ideogram.  Full-resolution banding comes from the remote service
// or a user-supplied table.
//
//go:embed cytobands.tsv
var cachedBandData string

// preloadedGenomes lists the assemblies carried in the bundled cache.
var preloadedGenomes = []string{"hg38", "hg19", "mm10", "mm9", "rn5"}

// PreloadedGenomes returns the genome identifiers resolvable without a
// remote lookup.
func PreloadedGenomes() []string {
	out := make([]string, len(preloadedGenomes))
	copy(out, preloadedGenomes)
	return out
}

// cache holds the parsed bundled table, keyed by genome.  It is built once
// at load time and never mutated, so it is safe for concurrent reads.
var cache = func() map[string]Set {
	byGenome := make(map[string]Set)
	lines := strings.Split(strings.TrimSpace(cachedBandData), "\n")
	for i, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		if len(fields) != 6 {
			panic(fmt.Sprintf("bands: malformed bundled cache line %d: %q", i+2, line))
		}
		start, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			panic(fmt.Sprintf("bands: malformed bundled cache line %d: %v", i+2, err))
		}
		end, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			panic(fmt.Sprintf("bands: malformed bundled cache line %d: %v", i+2, err))
		}
		genome := fields[0]
		byGenome[genome] = append(byGenome[genome], genomics.CytogeneticBand{
			Chromosome: fields[1],
			ChromStart: start,
			ChromEnd:   end,
			Name:       fields[4],
			GieStain:   fields[5],
		})
	}
	return byGenome
}()

type preloadedSource struct{}

// Preloaded returns the Source backed by the bundled per-genome band cache.
// It applies only to the assemblies listed by PreloadedGenomes.
func Preloaded() Source {
	return preloadedSource{}
}

func (preloadedSource) Resolve(ctx context.Context, genome string) (Set, bool, error) {
	set, ok := cache[genome]
	if !ok {
		return nil, false, nil
	}
	notices.Emitf(ctx, "retrieving cached band data for genome %q", genome)
	// Copy so callers can never reach the process-wide cache.
	out := make(Set, len(set))
	copy(out, set)
	return out, true, nil
}
