package views

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/genomeview/cnview/bands"
	"github.com/genomeview/cnview/plot/svg"
	"github.com/genomeview/cnview/view"
)

type staticSource struct {
	set bands.Set
}

func (s staticSource) Resolve(_ context.Context, _ string) (bands.Set, bool, error) {
	return s.set, true, nil
}

func testBandSet() bands.Set {
	return bands.Set{
		{Chromosome: "chr1", ChromStart: 0, ChromEnd: 1000, Name: "p", GieStain: "gneg"},
		{Chromosome: "chr1", ChromStart: 1000, ChromEnd: 2000, Name: "q", GieStain: "gpos50"},
		{Chromosome: "chr2", ChromStart: 0, ChromEnd: 1500, Name: "q", GieStain: "gneg"},
	}
}

func setupRouter(builder *view.Builder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	r.POST("/views", NewViewsHandler(builder))
	r.GET("/genomes", NewGenomesHandler())
	return r
}

func testBuilder() *view.Builder {
	return &view.Builder{
		Engine:  &svg.Engine{},
		Sources: []bands.Source{staticSource{set: testBandSet()}},
	}
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/views", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

const callsJSON = `[
	{"chromosome": "chr1", "coordinate": 100, "cn": 3.0},
	{"chromosome": "chr1", "coordinate": 500, "cn": 1.2},
	{"chromosome": "chr1", "coordinate": 900, "cn": 2.0},
	{"chromosome": "chr2", "coordinate": 200, "cn": 2.4},
	{"chromosome": "chr2", "coordinate": 700, "cn": 1.8}
]`

func TestViewsDataMode(t *testing.T) {
	r := setupRouter(testBuilder())
	w := post(r, `{"calls": `+callsJSON+`, "chr": "all", "out": "data"}`)
	assert.Equal(t, 200, w.Code)

	var body map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	for _, key := range []string{"main", "dummyData", "segments", "cytobands", "summary"} {
		assert.Contains(t, body, key)
	}

	var main []map[string]interface{}
	assert.NoError(t, json.Unmarshal(body["main"], &main))
	assert.Len(t, main, 5)
}

func TestViewsRenderedMode(t *testing.T) {
	r := setupRouter(testBuilder())
	w := post(r, `{"calls": `+callsJSON+`, "chr": "chr1"}`)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg")
	assert.Contains(t, w.Body.String(), `class="ideogram"`)
}

func TestViewsGraphicMode(t *testing.T) {
	r := setupRouter(testBuilder())
	w := post(r, `{"calls": `+callsJSON+`, "chr": "chr1", "out": "graphic"}`)
	assert.Equal(t, 200, w.Code)

	var body struct {
		Graphic string `json:"graphic"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Graphic, "<svg")
}

func TestViewsSchemaError(t *testing.T) {
	r := setupRouter(testBuilder())
	w := post(r, `{"calls": [{"chromosome": "chr1", "coordinate": 100}]}`)
	assert.Equal(t, 400, w.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "SchemaError", body["error"])
	assert.Contains(t, body["message"], "cn")
}

func TestViewsInvalidScale(t *testing.T) {
	r := setupRouter(testBuilder())
	w := post(r, `{"calls": `+callsJSON+`, "CNscale": "log2"}`)
	assert.Equal(t, 400, w.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "InvalidParameter", body["error"])
}

func TestViewsChromosomeNotFound(t *testing.T) {
	r := setupRouter(testBuilder())
	w := post(r, `{"calls": `+callsJSON+`, "chr": "chr99"}`)
	assert.Equal(t, 404, w.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ChromosomeNotFound", body["error"])
}

func TestViewsLookupFailure(t *testing.T) {
	builder := &view.Builder{
		Engine: &svg.Engine{},
		// Nothing preloaded, so resolution falls through to a remote
		// endpoint that is unreachable.
		Sources: []bands.Source{&bands.UCSCSource{Endpoint: "http://127.0.0.1:1"}},
	}
	r := setupRouter(builder)
	w := post(r, `{"calls": `+callsJSON+`, "chr": "chr1"}`)
	assert.Equal(t, 502, w.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "LookupFailed", body["error"])
}

func TestViewsEmptyBandData(t *testing.T) {
	builder := &view.Builder{
		Engine: &svg.Engine{},
		// Band resolution succeeds but yields no bands, so the
		// genome-wide view has nothing to synthesize boundaries from.
		Sources: []bands.Source{staticSource{set: bands.Set{}}},
	}
	r := setupRouter(builder)
	w := post(r, `{"calls": `+callsJSON+`, "chr": "all", "out": "data"}`)
	assert.Equal(t, 422, w.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "EmptyInput", body["error"])
}

func TestViewsMissingCalls(t *testing.T) {
	r := setupRouter(testBuilder())
	w := post(r, `{"chr": "chr1"}`)
	assert.Equal(t, 400, w.Code)
}

func TestViewsMalformedBody(t *testing.T) {
	r := setupRouter(testBuilder())
	w := post(r, `{"calls": "not a table"`)
	assert.Equal(t, 400, w.Code)
}

func TestGenomes(t *testing.T) {
	r := setupRouter(testBuilder())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/genomes", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)

	var body struct {
		Genomes []string `json:"genomes"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.ElementsMatch(t, []string{"hg38", "hg19", "mm10", "mm9", "rn5"}, body.Genomes)
}

func TestTableConversion(t *testing.T) {
	table := Table{
		{"chromosome": "chr1", "coordinate": float64(100), "cn": 2.5},
		{"chromosome": "chr2", "coordinate": float64(200), "cn": 1.0, "p_value": 0.05},
	}.toTable("calls")

	assert.NoError(t, table.Require("chromosome", "coordinate", "cn", "p_value"))
	// Record iteration order is random; columns come out sorted.
	assert.Equal(t, []string{"chromosome", "cn", "coordinate", "p_value"}, table.Columns)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "100", table.Cell(0, "coordinate"))
	assert.Equal(t, "2.5", table.Cell(0, "cn"))
	assert.Equal(t, "1", table.Cell(1, "cn"))
	// Absent cells read as empty strings.
	assert.Equal(t, "", table.Cell(0, "p_value"))
	assert.Equal(t, "0.05", table.Cell(1, "p_value"))
}
