package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/corykiser/ohio-parcel-extractor/internal/domain"
	"github.com/corykiser/ohio-parcel-extractor/internal/infra/dxf"
)

// --- fakes ---

type fakeSource struct {
	features []domain.RawFeature
	err      error

	gotBBox   domain.BoundingBox
	gotFields []string
	calls     int
}

func (f *fakeSource) Fetch(_ context.Context, bbox domain.BoundingBox, fields []string) ([]domain.RawFeature, error) {
	f.calls++
	f.gotBBox = bbox
	f.gotFields = fields
	return f.features, f.err
}

type fakeDrawing struct {
	err error

	gotParcels []domain.ParcelPolygon
	gotLabels  bool
	gotPath    string
	calls      int
}

func (f *fakeDrawing) Export(parcels []domain.ParcelPolygon, includeLabels bool, path string) error {
	f.calls++
	f.gotParcels = parcels
	f.gotLabels = includeLabels
	f.gotPath = path
	return f.err
}

type fakeMetadata struct {
	err error

	gotParcels []domain.ParcelPolygon
	gotPath    string
	calls      int
}

func (f *fakeMetadata) Export(parcels []domain.ParcelPolygon, path string) error {
	f.calls++
	f.gotParcels = parcels
	f.gotPath = path
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// webFeature builds a raw feature whose ring is the given State Plane points
// reprojected into the service's coordinate system.
func webFeature(t *testing.T, sr domain.SpatialReference, attrs domain.Attributes, pts ...domain.Point) domain.RawFeature {
	t.Helper()
	ring := make(domain.Ring, 0, len(pts))
	for _, p := range pts {
		wp, err := domain.Transform(p, sr, domain.SRWebMercator)
		if err != nil {
			t.Fatalf("Transform: %v", err)
		}
		ring = append(ring, wp)
	}
	return domain.RawFeature{Rings: []domain.Ring{ring}, Attributes: attrs}
}

func northRequest(t *testing.T) Request {
	t.Helper()
	bbox, err := domain.NewBoundingBox(1968000, -500, 1969000, 500, domain.SROhioNorth)
	if err != nil {
		t.Fatalf("NewBoundingBox: %v", err)
	}
	return Request{
		BBox:          bbox,
		Zone:          domain.ZoneNorth,
		Fields:        []string{"PIN", "OWNER1"},
		IncludeLabels: true,
		OutputPath:    "parcels.dxf",
	}
}

// --- tests ---

func TestExtractParcels_HappyPath(t *testing.T) {
	feat := webFeature(t, domain.SROhioNorth,
		domain.Attributes{"PIN": "100-2", "OWNER1": "Doe"},
		domain.Point{X: 1968500, Y: 0},
		domain.Point{X: 1968500, Y: 100},
		domain.Point{X: 1968600, Y: 100},
		domain.Point{X: 1968600, Y: 0},
	)

	src := &fakeSource{features: []domain.RawFeature{feat}}
	draw := &fakeDrawing{}
	meta := &fakeMetadata{}
	uc := NewExtractParcels(src, draw, meta, discardLogger())

	req := northRequest(t)
	req.MetadataPath = "parcels.json"

	sum, err := uc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if sum.ParcelCount != 1 || sum.SkippedCount != 0 {
		t.Fatalf("summary = %+v, want 1 parcel, 0 skipped", sum)
	}
	if sum.OutputPath != "parcels.dxf" || sum.MetadataPath != "parcels.json" {
		t.Fatalf("summary paths = %+v", sum)
	}

	if src.gotBBox.SR != domain.SRWebMercator {
		t.Errorf("fetch bbox SR = %q, want %q", src.gotBBox.SR, domain.SRWebMercator)
	}
	if len(src.gotFields) != 2 || src.gotFields[0] != "PIN" {
		t.Errorf("fetch fields = %v", src.gotFields)
	}

	if draw.calls != 1 || !draw.gotLabels || draw.gotPath != "parcels.dxf" {
		t.Fatalf("drawing export calls=%d labels=%v path=%q", draw.calls, draw.gotLabels, draw.gotPath)
	}
	if len(draw.gotParcels) != 1 {
		t.Fatalf("exported %d parcels, want 1", len(draw.gotParcels))
	}

	// Geometry handed to the exporter must be back in State Plane feet.
	ring := draw.gotParcels[0].Rings[0]
	if !ring.Closed() {
		t.Errorf("exported ring is not closed")
	}
	first := ring[0]
	if d := abs(first.X-1968500) + abs(first.Y-0); d > 0.01 {
		t.Errorf("first vertex = %+v, want (1968500, 0)", first)
	}

	if meta.calls != 1 || meta.gotPath != "parcels.json" {
		t.Fatalf("metadata export calls=%d path=%q", meta.calls, meta.gotPath)
	}
}

func TestExtractParcels_MetadataOptional(t *testing.T) {
	src := &fakeSource{}
	draw := &fakeDrawing{}
	meta := &fakeMetadata{}
	uc := NewExtractParcels(src, draw, meta, discardLogger())

	sum, err := uc.Execute(context.Background(), northRequest(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if meta.calls != 0 {
		t.Errorf("metadata exporter called %d times without a metadata path", meta.calls)
	}
	if sum.MetadataPath != "" {
		t.Errorf("summary metadata path = %q, want empty", sum.MetadataPath)
	}
}

func TestExtractParcels_EmptyResultStillWritesDrawing(t *testing.T) {
	src := &fakeSource{}
	draw := &fakeDrawing{}
	uc := NewExtractParcels(src, draw, &fakeMetadata{}, discardLogger())

	sum, err := uc.Execute(context.Background(), northRequest(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if sum.ParcelCount != 0 {
		t.Fatalf("parcel count = %d, want 0", sum.ParcelCount)
	}
	if draw.calls != 1 {
		t.Fatalf("drawing export calls = %d, want 1 (empty drawing is still written)", draw.calls)
	}
	if len(draw.gotParcels) != 0 {
		t.Fatalf("exported %d parcels, want 0", len(draw.gotParcels))
	}
}

func TestExtractParcels_SkippedFeaturesCounted(t *testing.T) {
	good := webFeature(t, domain.SROhioNorth,
		domain.Attributes{"PIN": "1"},
		domain.Point{X: 1968500, Y: 0},
		domain.Point{X: 1968500, Y: 100},
		domain.Point{X: 1968600, Y: 0},
	)
	degenerate := webFeature(t, domain.SROhioNorth,
		domain.Attributes{"PIN": "2"},
		domain.Point{X: 1968500, Y: 0},
		domain.Point{X: 1968500, Y: 100},
	)

	src := &fakeSource{features: []domain.RawFeature{good, degenerate}}
	draw := &fakeDrawing{}
	uc := NewExtractParcels(src, draw, &fakeMetadata{}, discardLogger())

	sum, err := uc.Execute(context.Background(), northRequest(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if sum.ParcelCount != 1 || sum.SkippedCount != 1 {
		t.Fatalf("summary = %+v, want 1 parcel, 1 skipped", sum)
	}
}

func TestExtractParcels_BBoxZoneMismatch(t *testing.T) {
	bbox, err := domain.NewBoundingBox(1968000, -500, 1969000, 500, domain.SROhioSouth)
	if err != nil {
		t.Fatalf("NewBoundingBox: %v", err)
	}

	src := &fakeSource{}
	uc := NewExtractParcels(src, &fakeDrawing{}, &fakeMetadata{}, discardLogger())

	_, err = uc.Execute(context.Background(), Request{
		BBox:       bbox,
		Zone:       domain.ZoneNorth,
		OutputPath: "parcels.dxf",
	})
	if !domain.IsKind(err, domain.KindInvalidInput) {
		t.Fatalf("err = %v, want kind %q", err, domain.KindInvalidInput)
	}
	if src.calls != 0 {
		t.Errorf("source fetched %d times despite invalid input", src.calls)
	}
}

func TestExtractParcels_FetchErrorPropagates(t *testing.T) {
	wantErr := &domain.OpError{Op: "arcgis.Fetch", Kind: domain.KindNetwork, Err: errors.New("dial refused")}
	src := &fakeSource{err: wantErr}
	draw := &fakeDrawing{}
	uc := NewExtractParcels(src, draw, &fakeMetadata{}, discardLogger())

	_, err := uc.Execute(context.Background(), northRequest(t))
	if !domain.IsKind(err, domain.KindNetwork) {
		t.Fatalf("err = %v, want kind %q", err, domain.KindNetwork)
	}
	if draw.calls != 0 {
		t.Errorf("drawing exported despite fetch failure")
	}
}

func TestExtractParcels_DrawingErrorPropagates(t *testing.T) {
	src := &fakeSource{}
	draw := &fakeDrawing{err: &domain.OpError{Op: "dxf.Export", Kind: domain.KindIO, Err: errors.New("disk full")}}
	meta := &fakeMetadata{}
	uc := NewExtractParcels(src, draw, meta, discardLogger())

	req := northRequest(t)
	req.MetadataPath = "parcels.json"

	_, err := uc.Execute(context.Background(), req)
	if !domain.IsKind(err, domain.KindIO) {
		t.Fatalf("err = %v, want kind %q", err, domain.KindIO)
	}
	if meta.calls != 0 {
		t.Errorf("metadata exported despite drawing failure")
	}
}

func TestExtractParcels_MetadataErrorPropagates(t *testing.T) {
	src := &fakeSource{}
	uc := NewExtractParcels(src, &fakeDrawing{}, &fakeMetadata{err: &domain.OpError{Op: "jsonmeta.Export", Kind: domain.KindIO, Err: errors.New("read-only")}}, discardLogger())

	req := northRequest(t)
	req.MetadataPath = "parcels.json"

	_, err := uc.Execute(context.Background(), req)
	if !domain.IsKind(err, domain.KindIO) {
		t.Fatalf("err = %v, want kind %q", err, domain.KindIO)
	}
}

// Two runs over the same remote data must produce byte-identical drawings.
func TestExtractParcels_DeterministicDrawing(t *testing.T) {
	feat := webFeature(t, domain.SROhioNorth,
		domain.Attributes{"PIN": "100-2", "OWNER1": "Doe"},
		domain.Point{X: 1968500, Y: 0},
		domain.Point{X: 1968500, Y: 100},
		domain.Point{X: 1968600, Y: 100},
		domain.Point{X: 1968600, Y: 0},
	)
	src := &fakeSource{features: []domain.RawFeature{feat}}
	uc := NewExtractParcels(src, dxf.NewWriter(), &fakeMetadata{}, discardLogger())

	tmp := t.TempDir()
	req := northRequest(t)

	var outputs [2][]byte
	for i := range outputs {
		req.OutputPath = filepath.Join(tmp, "run.dxf")
		if _, err := uc.Execute(context.Background(), req); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		b, err := os.ReadFile(req.OutputPath)
		if err != nil {
			t.Fatalf("run %d: read: %v", i, err)
		}
		outputs[i] = b
	}

	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Fatalf("repeated runs produced different drawings (%d vs %d bytes)", len(outputs[0]), len(outputs[1]))
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
