package ports

import "github.com/corykiser/ohio-parcel-extractor/internal/domain"

// MetadataExporter writes the per-parcel attribute sidecar. Not required for
// drawing correctness; callers invoke it only when metadata export is
// requested.
type MetadataExporter interface {
	Export(parcels []domain.ParcelPolygon, path string) error
}
