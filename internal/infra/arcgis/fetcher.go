// Package arcgis implements ports.FeatureSource against an ArcGIS REST
// query endpoint, paging through the server's per-request record cap.
package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/corykiser/ohio-parcel-extractor/internal/domain"
	"github.com/corykiser/ohio-parcel-extractor/internal/ports"
)

// Fetcher queries one feature layer's query endpoint.
type Fetcher struct {
	client   *http.Client
	queryURL string
	pageSize int
	maxPages int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithPageSize sets the per-request record cap (resultRecordCount). The
// service may enforce a smaller cap; paging handles either.
func WithPageSize(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.pageSize = n
		}
	}
}

// WithMaxPages bounds the paging loop so a misbehaving service cannot spin
// the client forever.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxPages = n
		}
	}
}

// New builds a Fetcher for the given query endpoint.
func New(client *http.Client, queryURL string, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   client,
		queryURL: queryURL,
		pageSize: 1000,
		maxPages: 100,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ ports.FeatureSource = (*Fetcher)(nil)

// queryResponse is the ArcGIS feature query envelope.
type queryResponse struct {
	Features              []featureJSON `json:"features"`
	ExceededTransferLimit bool          `json:"exceededTransferLimit"`
	Error                 *serviceError `json:"error"`
}

type featureJSON struct {
	Attributes map[string]any `json:"attributes"`
	Geometry   *geometryJSON  `json:"geometry"`
}

type geometryJSON struct {
	Rings [][][2]float64 `json:"rings"`
}

type serviceError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func (e *serviceError) String() string {
	msg := e.Message
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, "; ")
	}
	return fmt.Sprintf("code %d: %s", e.Code, msg)
}

// Fetch retrieves every feature whose geometry intersects the box,
// concatenating pages until a page comes back below the cap. A zero-feature
// result is success, not an error.
func (f *Fetcher) Fetch(ctx context.Context, bbox domain.BoundingBox, fields []string) ([]domain.RawFeature, error) {
	if bbox.SR != domain.SRWebMercator {
		return nil, &domain.OpError{
			Op:   "arcgis.fetch",
			Kind: domain.KindInvalidInput,
			Err:  fmt.Errorf("bounding box must be in %s, got %s", domain.SRWebMercator, bbox.SR),
		}
	}

	var features []domain.RawFeature
	offset := 0

	for page := 0; ; page++ {
		if page >= f.maxPages {
			return nil, &domain.OpError{
				Op:   "arcgis.fetch",
				Kind: domain.KindService,
				Path: f.queryURL,
				Err:  fmt.Errorf("page ceiling reached after %d pages (%d features); service may be ignoring resultOffset", f.maxPages, len(features)),
			}
		}

		resp, err := f.fetchPage(ctx, bbox, fields, offset)
		if err != nil {
			return nil, err
		}

		for _, feat := range resp.Features {
			features = append(features, toRawFeature(feat))
		}

		// Termination: a short page means the result set is exhausted. The
		// explicit flag covers servers that cap below the requested count.
		if len(resp.Features) < f.pageSize && !resp.ExceededTransferLimit {
			return features, nil
		}
		offset += len(resp.Features)
	}
}

func (f *Fetcher) fetchPage(ctx context.Context, bbox domain.BoundingBox, fields []string, offset int) (*queryResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.queryURL, nil)
	if err != nil {
		return nil, &domain.OpError{Op: "arcgis.request", Kind: domain.KindInvalidInput, Path: f.queryURL, Err: err}
	}
	req.URL.RawQuery = f.queryParams(bbox, fields, offset).Encode()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.OpError{Op: "arcgis.request", Kind: domain.KindNetwork, Path: f.queryURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.OpError{
			Op:   "arcgis.request",
			Kind: domain.KindService,
			Path: f.queryURL,
			Err:  fmt.Errorf("unexpected HTTP status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.OpError{Op: "arcgis.request", Kind: domain.KindNetwork, Path: f.queryURL, Err: err}
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, &domain.OpError{Op: "arcgis.decode", Kind: domain.KindService, Path: f.queryURL, Err: err}
	}
	if qr.Error != nil {
		return nil, &domain.OpError{
			Op:   "arcgis.query",
			Kind: domain.KindService,
			Path: f.queryURL,
			Err:  fmt.Errorf("service error %s", qr.Error),
		}
	}

	return &qr, nil
}

func (f *Fetcher) queryParams(bbox domain.BoundingBox, fields []string, offset int) url.Values {
	outFields := "*"
	if len(fields) > 0 {
		outFields = strings.Join(fields, ",")
	}
	epsg := strconv.Itoa(bbox.SR.EPSG())

	q := url.Values{}
	q.Set("f", "json")
	q.Set("where", "1=1")
	q.Set("geometry", fmt.Sprintf("%s,%s,%s,%s",
		formatCoord(bbox.MinX), formatCoord(bbox.MinY),
		formatCoord(bbox.MaxX), formatCoord(bbox.MaxY)))
	q.Set("geometryType", "esriGeometryEnvelope")
	q.Set("spatialRel", "esriSpatialRelIntersects")
	q.Set("inSR", epsg)
	q.Set("outSR", epsg)
	q.Set("outFields", outFields)
	q.Set("returnGeometry", "true")
	q.Set("resultOffset", strconv.Itoa(offset))
	q.Set("resultRecordCount", strconv.Itoa(f.pageSize))
	return q
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func toRawFeature(feat featureJSON) domain.RawFeature {
	raw := domain.RawFeature{Attributes: domain.Attributes(feat.Attributes)}
	if raw.Attributes == nil {
		raw.Attributes = domain.Attributes{}
	}
	if feat.Geometry == nil {
		return raw
	}
	raw.Rings = make([]domain.Ring, 0, len(feat.Geometry.Rings))
	for _, ring := range feat.Geometry.Rings {
		r := make(domain.Ring, 0, len(ring))
		for _, pt := range ring {
			r = append(r, domain.Point{X: pt[0], Y: pt[1]})
		}
		raw.Rings = append(raw.Rings, r)
	}
	return raw
}
