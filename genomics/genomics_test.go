package genomics

import (
	"errors"
	"reflect"
	"testing"
)

func TestCNScale(t *testing.T) {
	testCases := []struct {
		scale   CNScale
		valid   bool
		neutral float64
	}{
		{CNScaleRelative, true, 0},
		{CNScaleAbsolute, true, 2},
		{CNScale("log2"), false, 2},
		{CNScale(""), false, 2},
	}
	for _, tc := range testCases {
		if got := tc.scale.Valid(); got != tc.valid {
			t.Errorf("Valid(%q): got %v, want %v", tc.scale, got, tc.valid)
		}
		if tc.valid {
			if got := tc.scale.Neutral(); got != tc.neutral {
				t.Errorf("Neutral(%q): got %v, want %v", tc.scale, got, tc.neutral)
			}
		}
	}
}

func testCalls() []CopyNumberCall {
	return []CopyNumberCall{
		{Chromosome: "chr1", Coordinate: 100, CN: 1.5},
		{Chromosome: "chr1", Coordinate: 200, CN: 2.5},
		{Chromosome: "chr1", Coordinate: 300, CN: 3},
		{Chromosome: "chr2", Coordinate: 150, CN: 1},
		{Chromosome: "chr2", Coordinate: 250, CN: 0.5},
	}
}

func TestSubset(t *testing.T) {
	calls := testCalls()

	chr1 := Subset(calls, "chr1")
	if got, want := len(chr1), 3; got != want {
		t.Fatalf("Wrong subset size: got %d, want %d", got, want)
	}
	for _, call := range chr1 {
		if call.Chromosome != "chr1" {
			t.Errorf("Unexpected chromosome in subset: %q", call.Chromosome)
		}
	}

	// Subsetting is idempotent.
	if got := Subset(chr1, "chr1"); !reflect.DeepEqual(got, chr1) {
		t.Errorf("Subset not idempotent: got %v, want %v", got, chr1)
	}

	// Selecting all chromosomes is the identity transform.
	if got := Subset(calls, AllChromosomes); !reflect.DeepEqual(got, calls) {
		t.Errorf("Subset(all) changed the table: got %v, want %v", got, calls)
	}

	if got := Subset(calls, "chr99"); len(got) != 0 {
		t.Errorf("Subset of absent chromosome: got %d rows, want 0", len(got))
	}
}

func testBands() []CytogeneticBand {
	return []CytogeneticBand{
		{Chromosome: "chr1", ChromStart: 0, ChromEnd: 1000, Name: "p2", GieStain: "gneg"},
		{Chromosome: "chr1", ChromStart: 1000, ChromEnd: 2500, Name: "p1", GieStain: "gpos50"},
		{Chromosome: "chr1", ChromStart: 2500, ChromEnd: 4000, Name: "q1", GieStain: "gneg"},
		{Chromosome: "chr2", ChromStart: 0, ChromEnd: 3000, Name: "q", GieStain: "gneg"},
	}
}

func TestBoundaries(t *testing.T) {
	points, err := Boundaries(testBands(), AllChromosomes)
	if err != nil {
		t.Fatalf("Boundaries failed: %v", err)
	}
	want := []BoundaryPoint{
		{Chromosome: "chr1", Coordinate: 0},
		{Chromosome: "chr1", Coordinate: 4000},
		{Chromosome: "chr2", Coordinate: 0},
		{Chromosome: "chr2", Coordinate: 3000},
	}
	if !reflect.DeepEqual(points, want) {
		t.Errorf("Wrong boundary points: got %v, want %v", points, want)
	}
}

func TestBoundariesSingleChromosome(t *testing.T) {
	points, err := Boundaries(testBands(), "chr1")
	if err != nil {
		t.Fatalf("Boundaries failed: %v", err)
	}
	want := []BoundaryPoint{
		{Chromosome: "chr1", Coordinate: 0},
		{Chromosome: "chr1", Coordinate: 4000},
	}
	if !reflect.DeepEqual(points, want) {
		t.Errorf("Wrong boundary points: got %v, want %v", points, want)
	}
}

func TestBoundariesUnorderedBands(t *testing.T) {
	bands := []CytogeneticBand{
		{Chromosome: "chr3", ChromStart: 500, ChromEnd: 900},
		{Chromosome: "chr3", ChromStart: 0, ChromEnd: 500},
		{Chromosome: "chr3", ChromStart: 900, ChromEnd: 1200},
	}
	points, err := Boundaries(bands, "chr3")
	if err != nil {
		t.Fatalf("Boundaries failed: %v", err)
	}
	want := []BoundaryPoint{
		{Chromosome: "chr3", Coordinate: 0},
		{Chromosome: "chr3", Coordinate: 1200},
	}
	if !reflect.DeepEqual(points, want) {
		t.Errorf("Wrong boundary points: got %v, want %v", points, want)
	}
}

func TestBoundariesEmptyInput(t *testing.T) {
	testCases := []struct {
		name       string
		bands      []CytogeneticBand
		chromosome string
	}{
		{"no bands at all", nil, AllChromosomes},
		{"no bands for requested chromosome", testBands(), "chr99"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Boundaries(tc.bands, tc.chromosome)
			var empty *EmptyInputError
			if !errors.As(err, &empty) {
				t.Fatalf("Wrong error: got %v, want EmptyInputError", err)
			}
		})
	}
}
