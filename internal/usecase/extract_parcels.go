package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/corykiser/ohio-parcel-extractor/internal/domain"
	"github.com/corykiser/ohio-parcel-extractor/internal/ports"
)

var errBBoxZoneMismatch = errors.New("bounding box spatial reference does not match the requested zone")

// ExtractParcels drives the full pipeline: reproject the search box to the
// service's coordinate system, fetch the features that intersect it, rebuild
// their geometry in State Plane coordinates, and write the drawing (plus the
// optional attribute sidecar).
type ExtractParcels struct {
	source   ports.FeatureSource
	drawing  ports.DrawingExporter
	metadata ports.MetadataExporter
	log      *slog.Logger
}

func NewExtractParcels(src ports.FeatureSource, de ports.DrawingExporter, me ports.MetadataExporter, log *slog.Logger) *ExtractParcels {
	if log == nil {
		log = slog.Default()
	}
	return &ExtractParcels{
		source:   src,
		drawing:  de,
		metadata: me,
		log:      log,
	}
}

type Request struct {
	// BBox is the search window, expressed in the State Plane system of Zone.
	BBox domain.BoundingBox
	Zone domain.Zone
	// Fields lists the attribute fields to request; empty means all fields.
	Fields        []string
	IncludeLabels bool
	OutputPath    string
	// MetadataPath, when non-empty, enables the JSON attribute export.
	MetadataPath string
}

type Summary struct {
	ParcelCount  int
	SkippedCount int
	OutputPath   string
	MetadataPath string
}

func (uc *ExtractParcels) Execute(ctx context.Context, req Request) (Summary, error) {
	regional := req.Zone.SpatialReference()
	if req.BBox.SR != regional {
		return Summary{}, &domain.OpError{
			Op:   "usecase.ExtractParcels",
			Kind: domain.KindInvalidInput,
			Err:  errBBoxZoneMismatch,
		}
	}

	serviceBox, err := domain.TransformBoundingBox(req.BBox, domain.SRWebMercator)
	if err != nil {
		return Summary{}, err
	}

	uc.log.Info("querying feature service",
		"zone", string(req.Zone),
		"bbox", serviceBox,
	)

	features, err := uc.source.Fetch(ctx, serviceBox, req.Fields)
	if err != nil {
		return Summary{}, err
	}
	if len(features) == 0 {
		uc.log.Warn("no parcels intersect the search window")
	}

	parcels, skipped, err := domain.Assemble(features, domain.SRWebMercator, regional)
	if err != nil {
		return Summary{}, err
	}
	for _, s := range skipped {
		uc.log.Warn("skipping degenerate feature", "index", s.Index, "error", s.Err)
	}

	if err := uc.drawing.Export(parcels, req.IncludeLabels, req.OutputPath); err != nil {
		return Summary{}, err
	}

	sum := Summary{
		ParcelCount:  len(parcels),
		SkippedCount: len(skipped),
		OutputPath:   req.OutputPath,
	}

	if req.MetadataPath != "" {
		if err := uc.metadata.Export(parcels, req.MetadataPath); err != nil {
			return sum, err
		}
		sum.MetadataPath = req.MetadataPath
	}

	uc.log.Info("extraction complete",
		"parcels", sum.ParcelCount,
		"skipped", sum.SkippedCount,
		"output", sum.OutputPath,
	)
	return sum, nil
}
