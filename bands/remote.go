package bands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/genomeview/cnview/genomics"
	"github.com/genomeview/cnview/internal/notices"
)

const defaultUCSCEndpoint = "https://api.genome.ucsc.edu"

// LookupError reports a failed remote band-data retrieval.  Remote failures
// are never recovered locally and no retry is attempted.
type LookupError struct {
	Genome string
	Cause  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("looking up band data for genome %q: %v", e.Genome, e.Cause)
}

func (e *LookupError) Unwrap() error { return e.Cause }

// UCSCSource queries the public UCSC genome-annotation REST service for the
// cytoBand track of a genome.  The lookup is a single blocking round-trip
// with no in-process timeout; callers needing resilience must wrap the
// invocation themselves.
type UCSCSource struct {
	// Endpoint is the service base URL.  Defaults to the public UCSC API.
	Endpoint string
	// Client is the HTTP client used for the lookup.  Defaults to
	// http.DefaultClient.
	Client *http.Client
}

// NewUCSCSource returns a UCSCSource against the public UCSC service.
func NewUCSCSource() *UCSCSource {
	return &UCSCSource{}
}

// Resolve fetches the cytoBand track for genome.  It applies to every
// genome, so it must be the last source in precedence order.
func (s *UCSCSource) Resolve(ctx context.Context, genome string) (Set, bool, error) {
	set, err := s.lookup(ctx, genome)
	if err != nil {
		return nil, true, &LookupError{Genome: genome, Cause: err}
	}
	return set, true, nil
}

func (s *UCSCSource) lookup(ctx context.Context, genome string) (Set, error) {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = defaultUCSCEndpoint
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	query := url.Values{
		"genome": []string{genome},
		"track":  []string{"cytoBand"},
	}
	notices.Emitf(ctx, "querying remote annotation service for genome %q", genome)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint+"/getData/track?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %v", err)
	}
	// Close errors on a fully-read response are not actionable; drop them.
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response status: %v", resp.Status)
	}

	var body struct {
		Error    string `json:"error"`
		CytoBand []struct {
			Chrom      string `json:"chrom"`
			ChromStart int64  `json:"chromStart"`
			ChromEnd   int64  `json:"chromEnd"`
			Name       string `json:"name"`
			GieStain   string `json:"gieStain"`
		} `json:"cytoBand"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %v", err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("service error: %s", body.Error)
	}
	if len(body.CytoBand) == 0 {
		return nil, fmt.Errorf("no band records for genome %q", genome)
	}

	set := make(Set, 0, len(body.CytoBand))
	for _, band := range body.CytoBand {
		set = append(set, genomics.CytogeneticBand{
			Chromosome: band.Chrom,
			ChromStart: band.ChromStart,
			ChromEnd:   band.ChromEnd,
			Name:       band.Name,
			GieStain:   band.GieStain,
		})
	}
	return set, nil
}
