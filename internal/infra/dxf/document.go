// Package dxf emits parcel drawings as DXF R12 (AC1009) documents. R12
// needs no entity handles or object dictionaries, which keeps the encoding
// a flat sequence of group-code/value pairs that every CAD consumer reads.
package dxf

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/corykiser/ohio-parcel-extractor/internal/domain"
)

// AutoCAD color index values used for the parcel layers.
const (
	ColorYellow = 2
	ColorCyan   = 4
)

// Document accumulates layers and entities and serializes them exactly once.
// It has two states: open (accepting additions) and finalized (terminal).
type Document struct {
	layers    []layerDef
	layerSet  map[string]bool
	polylines []polylineEntity
	texts     []textEntity

	minX, minY float64
	maxX, maxY float64
	hasExtent  bool

	finalized bool
}

type layerDef struct {
	name  string
	color int
}

type polylineEntity struct {
	layer string
	ring  domain.Ring
}

type textEntity struct {
	layer  string
	at     domain.Point
	height float64
	value  string
}

// NewDocument returns an empty open document.
func NewDocument() *Document {
	return &Document{layerSet: map[string]bool{}}
}

func (d *Document) closedErr(op string) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindInvalidInput,
		Err:  errors.New("document already finalized"),
	}
}

// AddLayer registers a named layer with an AutoCAD color index. Adding the
// same layer twice is a no-op.
func (d *Document) AddLayer(name string, color int) error {
	if d.finalized {
		return d.closedErr("dxf.add_layer")
	}
	if d.layerSet[name] {
		return nil
	}
	d.layerSet[name] = true
	d.layers = append(d.layers, layerDef{name: name, color: color})
	return nil
}

// AddPolyline appends a closed polyline with the ring's vertices verbatim.
func (d *Document) AddPolyline(layer string, ring domain.Ring) error {
	if d.finalized {
		return d.closedErr("dxf.add_polyline")
	}
	if !d.layerSet[layer] {
		return unknownLayer("dxf.add_polyline", layer)
	}
	d.polylines = append(d.polylines, polylineEntity{layer: layer, ring: ring})
	for _, p := range ring {
		d.grow(p)
	}
	return nil
}

// AddText appends a single-line text entity anchored at the given point.
func (d *Document) AddText(layer string, at domain.Point, height float64, value string) error {
	if d.finalized {
		return d.closedErr("dxf.add_text")
	}
	if !d.layerSet[layer] {
		return unknownLayer("dxf.add_text", layer)
	}
	d.texts = append(d.texts, textEntity{layer: layer, at: at, height: height, value: value})
	d.grow(at)
	return nil
}

func unknownLayer(op, layer string) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindInvalidInput,
		Err:  fmt.Errorf("layer %q not registered", layer),
	}
}

func (d *Document) grow(p domain.Point) {
	if !d.hasExtent {
		d.minX, d.maxX = p.X, p.X
		d.minY, d.maxY = p.Y, p.Y
		d.hasExtent = true
		return
	}
	d.minX = math.Min(d.minX, p.X)
	d.minY = math.Min(d.minY, p.Y)
	d.maxX = math.Max(d.maxX, p.X)
	d.maxY = math.Max(d.maxY, p.Y)
}

// Finalize serializes the document and transitions it to the terminal
// state. It can succeed at most once; later additions or finalizations fail.
func (d *Document) Finalize(w io.Writer) error {
	if d.finalized {
		return d.closedErr("dxf.finalize")
	}
	d.finalized = true

	enc := &encoder{w: w}
	d.encodeHeader(enc)
	d.encodeTables(enc)
	d.encodeEntities(enc)
	enc.tag(0, "EOF")
	return enc.err
}

// encoder writes DXF group-code/value pairs, capturing the first write error.
type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) tag(code int, value string) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, "%d\n%s\n", code, value)
}

func (e *encoder) coord(x, y float64) {
	e.tag(10, formatFloat(x))
	e.tag(20, formatFloat(y))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (d *Document) encodeHeader(e *encoder) {
	e.tag(0, "SECTION")
	e.tag(2, "HEADER")
	e.tag(9, "$ACADVER")
	e.tag(1, "AC1009")
	// 2 = engineering units, feet.
	e.tag(9, "$INSUNITS")
	e.tag(70, "2")
	e.tag(9, "$EXTMIN")
	e.coord(d.minX, d.minY)
	e.tag(30, "0")
	e.tag(9, "$EXTMAX")
	e.coord(d.maxX, d.maxY)
	e.tag(30, "0")
	e.tag(0, "ENDSEC")
}

func (d *Document) encodeTables(e *encoder) {
	e.tag(0, "SECTION")
	e.tag(2, "TABLES")
	e.tag(0, "TABLE")
	e.tag(2, "LAYER")
	e.tag(70, strconv.Itoa(len(d.layers)+1))

	// Layer 0 is mandatory.
	e.tag(0, "LAYER")
	e.tag(2, "0")
	e.tag(70, "0")
	e.tag(62, "7")
	e.tag(6, "CONTINUOUS")

	for _, l := range d.layers {
		e.tag(0, "LAYER")
		e.tag(2, l.name)
		e.tag(70, "0")
		e.tag(62, strconv.Itoa(l.color))
		e.tag(6, "CONTINUOUS")
	}

	e.tag(0, "ENDTAB")
	e.tag(0, "ENDSEC")
}

func (d *Document) encodeEntities(e *encoder) {
	e.tag(0, "SECTION")
	e.tag(2, "ENTITIES")

	for _, pl := range d.polylines {
		e.tag(0, "POLYLINE")
		e.tag(8, pl.layer)
		e.tag(66, "1") // vertices follow
		e.tag(70, "1") // closed polyline
		for _, p := range pl.ring {
			e.tag(0, "VERTEX")
			e.tag(8, pl.layer)
			e.coord(p.X, p.Y)
		}
		e.tag(0, "SEQEND")
		e.tag(8, pl.layer)
	}

	for _, tx := range d.texts {
		e.tag(0, "TEXT")
		e.tag(8, tx.layer)
		e.coord(tx.at.X, tx.at.Y)
		e.tag(40, formatFloat(tx.height))
		e.tag(1, tx.value)
	}

	e.tag(0, "ENDSEC")
}
