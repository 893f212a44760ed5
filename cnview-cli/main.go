// This binary builds a single copy-number view from delimited tables and
// writes the result to a file or stdout.
//
// Tables are tab-separated with a header row, optionally gzip-compressed,
// and may live on local disk or in Google Cloud Storage (gs://bucket/object).
package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jgbaldwinbrown/csvh"
	"github.com/pkg/profile"
	"golang.org/x/sync/errgroup"

	"github.com/genomeview/cnview/genomics"
	"github.com/genomeview/cnview/internal/notices"
	"github.com/genomeview/cnview/internal/tabular"
	"github.com/genomeview/cnview/plot/svg"
	"github.com/genomeview/cnview/source"
	"github.com/genomeview/cnview/view"
)

var (
	callsPath    = flag.String("calls", "", "copy-number calls table (required)")
	bandsPath    = flag.String("bands", "", "user-supplied cytogenetic band table")
	segmentsPath = flag.String("segments", "", "segment calls table")

	genome   = flag.String("genome", view.DefaultGenome, "genome assembly identifier")
	chr      = flag.String("chr", view.DefaultChromosome, `chromosome to view, or "all" for the genome-wide facet`)
	scale    = flag.String("scale", string(genomics.CNScaleAbsolute), "copy-number scale: relative or absolute")
	outMode  = flag.String("out", string(view.ModeRendered), "output representation: data, graphic or rendered")
	output   = flag.String("o", "", "output filename (default stdout)")
	width    = flag.Int("width", 0, "rendered graphic width in pixels (0 uses the engine default)")
	angle    = flag.Float64("ideogram_angle", view.DefaultIdeogramTextAngle, "ideogram label angle in degrees")
	size     = flag.Float64("ideogram_size", view.DefaultIdeogramTextSize, "ideogram label size")
	segColor = flag.String("seg_color", "", "segment line color override")

	profileCPU = flag.Bool("profile", false, "write a CPU profile to the working directory")
)

func main() {
	flag.Parse()

	if *callsPath == "" {
		flag.Usage()
		log.Fatalf("The -calls table is required.")
	}
	if *profileCPU {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	w := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("Failed to open output file: %v", err)
		}
		defer f.Close()
		w = f
	}

	ctx := notices.WithSink(context.Background(), func(message string) {
		log.Print(message)
	})

	tables, err := loadTables(ctx, *callsPath, *bandsPath, *segmentsPath)
	if err != nil {
		log.Fatalf("Failed to load input tables: %v", err)
	}

	builder := &view.Builder{Engine: &svg.Engine{Width: *width}}
	req := view.Request{
		Calls:             tables[0],
		Bands:             tables[1],
		Segments:          tables[2],
		Genome:            *genome,
		Chr:               *chr,
		Scale:             genomics.CNScale(*scale),
		IdeogramTextAngle: *angle,
		IdeogramTextSize:  *size,
		SegmentColor:      *segColor,
		Output:            view.Mode(*outMode),
	}
	if req.Output == view.ModeRendered {
		req.RenderTo = w
	}

	result, err := builder.Build(ctx, req)
	if err != nil {
		log.Fatalf("Failed to build view: %v", err)
	}

	switch result.Mode {
	case view.ModeData:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result.Data); err != nil {
			log.Fatalf("Failed to write data bundle: %v", err)
		}
	case view.ModeGraphic:
		// Nothing was drawn during the build; write the graphic now.
		if err := result.Graphic.Render(w); err != nil {
			log.Fatalf("Failed to write graphic: %v", err)
		}
	}
}

// loadTables reads the calls, bands and segments tables concurrently.  The
// bands and segments entries are nil when no path was given.
func loadTables(ctx context.Context, paths ...string) ([]*tabular.Table, error) {
	names := []string{"calls", "bands", "segments"}
	tables := make([]*tabular.Table, len(paths))

	var g errgroup.Group
	for i, path := range paths {
		if path == "" {
			continue
		}
		i, path := i, path
		g.Go(func() error {
			// One opener per table keeps the loaders independent; the
			// underlying storage client is shared and cached anyway.
			table, err := loadTable(ctx, &source.Auto{}, names[i], path)
			tables[i] = table
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func loadTable(ctx context.Context, opener source.Opener, name, path string) (*tabular.Table, error) {
	r, err := openTable(ctx, opener, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	records, err := csvh.CsvIn(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	return tabular.New(name, records[0], records[1:]), nil
}

// openTable opens a table location for reading.  Local paths go through
// csvh, which handles the .gz case itself; remote objects are served as raw
// bytes, so a .gz object gets decompressed here.
func openTable(ctx context.Context, opener source.Opener, path string) (io.ReadCloser, error) {
	if !strings.HasPrefix(path, "gs://") {
		return csvh.OpenMaybeGz(path)
	}
	obj, err := opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return obj, nil
	}
	zr, err := gzip.NewReader(obj)
	if err != nil {
		obj.Close()
		return nil, err
	}
	return &gzObject{Reader: zr, obj: obj}, nil
}

// gzObject closes both the gzip stream and the object underneath it.
type gzObject struct {
	*gzip.Reader
	obj io.Closer
}

func (g *gzObject) Close() error {
	err := g.Reader.Close()
	if cerr := g.obj.Close(); err == nil {
		err = cerr
	}
	return err
}
