package ports

import "github.com/corykiser/ohio-parcel-extractor/internal/domain"

// DrawingExporter serializes assembled parcels to a CAD drawing file.
type DrawingExporter interface {
	Export(parcels []domain.ParcelPolygon, includeLabels bool, path string) error
}
