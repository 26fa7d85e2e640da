// Package jsonmeta writes the optional parcel attribute sidecar next to the
// drawing output.
package jsonmeta

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/corykiser/ohio-parcel-extractor/internal/domain"
	"github.com/corykiser/ohio-parcel-extractor/internal/ports"
)

// Exporter serializes per-parcel attributes to a JSON document.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

var _ ports.MetadataExporter = (*Exporter)(nil)

type metadataDoc struct {
	TotalParcels int                 `json:"total_parcels"`
	Parcels      []domain.Attributes `json:"parcels"`
}

// Export writes {"total_parcels": N, "parcels": [...]} to path. The write is
// atomic-ish: tmp file then rename, so a crash never leaves a torn sidecar.
func (e *Exporter) Export(parcels []domain.ParcelPolygon, path string) error {
	doc := metadataDoc{
		TotalParcels: len(parcels),
		Parcels:      make([]domain.Attributes, 0, len(parcels)),
	}
	for _, p := range parcels {
		doc.Parcels = append(doc.Parcels, p.Attributes)
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &domain.OpError{Op: "jsonmeta.marshal", Kind: domain.KindIO, Path: path, Err: err}
	}
	b = append(b, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return &domain.OpError{Op: "jsonmeta.write", Kind: domain.KindIO, Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{Op: "jsonmeta.rename", Kind: domain.KindIO, Path: path, Err: err}
	}
	return nil
}

// SidecarPath derives the sidecar location from the drawing path by swapping
// the extension for .json.
func SidecarPath(drawingPath string) string {
	ext := filepath.Ext(drawingPath)
	return strings.TrimSuffix(drawingPath, ext) + ".json"
}
