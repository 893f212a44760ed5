// Package views provides the gin handlers for the view-builder API.
package views

import (
	"bytes"
	"log"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/genomeview/cnview/bands"
	"github.com/genomeview/cnview/genomics"
	"github.com/genomeview/cnview/internal/notices"
	"github.com/genomeview/cnview/internal/tabular"
	"github.com/genomeview/cnview/view"
)

// Table is a JSON table: an array of records sharing column names.
type Table []map[string]interface{}

// ViewRequest is the POST /views request body.  Tables travel as arrays of
// records; everything else mirrors the view.Request parameters.
type ViewRequest struct {
	Calls    Table `json:"calls"`
	Bands    Table `json:"bands,omitempty"`
	Segments Table `json:"segments,omitempty"`

	Genome            string  `json:"genome,omitempty"`
	Chr               string  `json:"chr,omitempty"`
	CNScale           string  `json:"CNscale,omitempty"`
	IdeogramTextAngle float64 `json:"ideogramTextAngle,omitempty"`
	IdeogramTextSize  float64 `json:"ideogramTextSize,omitempty"`
	PlotLayer         string  `json:"plotLayer,omitempty"`
	IdeogramLayer     string  `json:"ideogramLayer,omitempty"`
	SegmentColor      string  `json:"segmentColor,omitempty"`
	Out               string  `json:"out,omitempty"`
}

// NewViewsHandler builds the POST /views handler around builder.
func NewViewsHandler(builder *view.Builder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body ViewRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			writeError(c, newInvalidInputError("parsing request body", err))
			return
		}
		if len(body.Calls) == 0 {
			writeError(c, newInvalidInputError("parsing request body",
				errMissingCallsTable))
			return
		}

		id := uuid.New().String()
		ctx := notices.WithSink(c.Request.Context(), func(message string) {
			log.Printf("views %s: %s", id, message)
		})

		req := view.Request{
			Calls:             body.Calls.toTable("calls"),
			Genome:            body.Genome,
			Chr:               body.Chr,
			Scale:             genomics.CNScale(body.CNScale),
			IdeogramTextAngle: body.IdeogramTextAngle,
			IdeogramTextSize:  body.IdeogramTextSize,
			SegmentColor:      body.SegmentColor,
			Output:            view.Mode(body.Out),
		}
		if body.Bands != nil {
			req.Bands = body.Bands.toTable("bands")
		}
		if body.Segments != nil {
			req.Segments = body.Segments.toTable("segments")
		}
		if body.PlotLayer != "" {
			req.PlotLayer = body.PlotLayer
		}
		if body.IdeogramLayer != "" {
			req.IdeogramLayer = body.IdeogramLayer
		}

		var rendered bytes.Buffer
		if req.Output == "" || req.Output == view.ModeRendered {
			req.RenderTo = &rendered
		}

		result, err := builder.Build(ctx, req)
		if err != nil {
			writeError(c, err)
			return
		}

		switch result.Mode {
		case view.ModeData:
			c.JSON(200, result.Data)
		case view.ModeGraphic:
			// The graphic is returned without being drawn to an
			// output surface: it travels inside a JSON envelope.
			var b bytes.Buffer
			if err := result.Graphic.Render(&b); err != nil {
				writeError(c, err)
				return
			}
			c.JSON(200, gin.H{"graphic": b.String()})
		default:
			c.Data(200, "image/svg+xml", rendered.Bytes())
		}
	}
}

// NewGenomesHandler builds the GET /genomes handler listing the assemblies
// resolvable without a remote lookup.
func NewGenomesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"genomes": bands.PreloadedGenomes()})
	}
}

// toTable converts a JSON record table to a positional one.  Columns are the
// union over all records, sorted by name.  A cell absent from its record is
// an empty string: optional columns treat that as no value, required ones
// fail coercion.
func (t Table) toTable(name string) *tabular.Table {
	var columns []string
	index := make(map[string]int)
	for _, record := range t {
		for column := range record {
			if _, ok := index[column]; !ok {
				index[column] = len(columns)
				columns = append(columns, column)
			}
		}
	}
	// Map iteration order is random; fix the column order.
	sortColumns(columns, index)

	rows := make([][]string, 0, len(t))
	for _, record := range t {
		row := make([]string, len(columns))
		for column, value := range record {
			row[index[column]] = formatCell(value)
		}
		rows = append(rows, row)
	}
	return tabular.New(name, columns, rows)
}

func sortColumns(columns []string, index map[string]int) {
	sort.Strings(columns)
	for i, column := range columns {
		index[column] = i
	}
}

func formatCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
