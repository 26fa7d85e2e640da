package dxf

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/corykiser/ohio-parcel-extractor/internal/domain"
	"github.com/corykiser/ohio-parcel-extractor/internal/ports"
)

// Layer names of the output drawing.
const (
	LayerParcels = "PARCELS"
	LayerLabels  = "LABELS"
)

const defaultTextHeight = 10.0

// Writer exports assembled parcels to a DXF file: one closed polyline per
// ring on PARCELS, and optionally one label per parcel on LABELS.
type Writer struct {
	textHeight float64
}

// Option configures a Writer.
type Option func(*Writer)

// WithTextHeight sets the label text height in drawing units (feet).
func WithTextHeight(h float64) Option {
	return func(w *Writer) {
		if h > 0 {
			w.textHeight = h
		}
	}
}

// NewWriter builds a Writer with default label sizing.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{textHeight: defaultTextHeight}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var _ ports.DrawingExporter = (*Writer)(nil)

// Export builds the drawing document and serializes it to path. Zero parcels
// still produce a valid drawing with an empty entity list.
func (w *Writer) Export(parcels []domain.ParcelPolygon, includeLabels bool, path string) error {
	doc := NewDocument()
	if err := doc.AddLayer(LayerParcels, ColorCyan); err != nil {
		return err
	}
	if includeLabels {
		if err := doc.AddLayer(LayerLabels, ColorYellow); err != nil {
			return err
		}
	}

	for _, parcel := range parcels {
		for _, ring := range parcel.Rings {
			if err := doc.AddPolyline(LayerParcels, ring); err != nil {
				return err
			}
		}
		if includeLabels && len(parcel.Rings) > 0 {
			anchor := parcel.Rings[0].Centroid()
			if err := doc.AddText(LayerLabels, anchor, w.textHeight, LabelText(parcel.Attributes)); err != nil {
				return err
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &domain.OpError{Op: "dxf.create", Kind: domain.KindIO, Path: path, Err: err}
	}

	bw := bufio.NewWriter(f)
	if err := doc.Finalize(bw); err != nil {
		f.Close()
		return &domain.OpError{Op: "dxf.write", Kind: domain.KindIO, Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return &domain.OpError{Op: "dxf.write", Kind: domain.KindIO, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &domain.OpError{Op: "dxf.close", Kind: domain.KindIO, Path: path, Err: err}
	}
	return nil
}

// LabelText composes the label from the PIN and primary owner attributes.
// Missing attributes render as empty strings, never a failure. TEXT entities
// are single-line, so any embedded newlines collapse to spaces.
func LabelText(attrs domain.Attributes) string {
	label := fmt.Sprintf("PIN: %s Owner: %s", attrs.String("PIN"), attrs.String("OWNER1"))
	return strings.ReplaceAll(strings.ReplaceAll(label, "\r", " "), "\n", " ")
}
