package ports

import (
	"context"

	"github.com/corykiser/ohio-parcel-extractor/internal/domain"
)

// FeatureSource fetches all features intersecting a bounding box expressed in
// the service's spatial reference. An empty slice with a nil error means no
// features fall in range.
type FeatureSource interface {
	Fetch(ctx context.Context, bbox domain.BoundingBox, fields []string) ([]domain.RawFeature, error)
}
