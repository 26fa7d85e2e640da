package domain

import (
	"fmt"
	"math"
)

// SpatialReference identifies one of the three coordinate systems this tool
// understands. The set is closed: two Ohio State Plane zones (NAD83, US
// survey feet, Lambert Conformal Conic) and the spherical Web Mercator
// system used by the parcel service.
type SpatialReference string

const (
	SROhioNorth   SpatialReference = "ohio-north"   // EPSG:3734
	SROhioSouth   SpatialReference = "ohio-south"   // EPSG:3735
	SRWebMercator SpatialReference = "web-mercator" // EPSG:3857
)

// EPSG returns the EPSG code of the spatial reference, or 0 if unknown.
func (sr SpatialReference) EPSG() int {
	switch sr {
	case SROhioNorth:
		return 3734
	case SROhioSouth:
		return 3735
	case SRWebMercator:
		return 3857
	default:
		return 0
	}
}

// SpatialReference returns the State Plane system of the zone.
func (z Zone) SpatialReference() SpatialReference {
	if z == ZoneNorth {
		return SROhioNorth
	}
	return SROhioSouth
}

// GRS80 ellipsoid and unit constants.
const (
	semiMajorMeters = 6378137.0
	inverseFlat     = 298.257222101
	usFootMeters    = 1200.0 / 3937.0 // US survey foot, exact
	sphereRadius    = 6378137.0       // Web Mercator sphere
)

var (
	flattening   = 1.0 / inverseFlat
	eccSquared   = 2*flattening - flattening*flattening
	eccentricity = math.Sqrt(eccSquared)
)

// geodetic is an intermediate latitude/longitude pair in radians.
type geodetic struct {
	lat float64
	lon float64
}

// lcc holds the derived constants of one Lambert Conformal Conic (2SP) zone,
// working in US survey feet.
type lcc struct {
	n    float64
	aF   float64 // semi-major (ft) * F
	rho0 float64
	lon0 float64
	fe   float64
	fn   float64
}

func lccM(lat float64) float64 {
	s := math.Sin(lat)
	return math.Cos(lat) / math.Sqrt(1-eccSquared*s*s)
}

func lccT(lat float64) float64 {
	s := math.Sin(lat)
	return math.Tan(math.Pi/4-lat/2) / math.Pow((1-eccentricity*s)/(1+eccentricity*s), eccentricity/2)
}

// newLCC derives zone constants from the EPSG 2SP parameters (degrees, feet).
func newLCC(lat0, lon0, lat1, lat2, falseEasting, falseNorthing float64) lcc {
	rad := math.Pi / 180
	phi0, phi1, phi2 := lat0*rad, lat1*rad, lat2*rad

	m1, m2 := lccM(phi1), lccM(phi2)
	t0, t1, t2 := lccT(phi0), lccT(phi1), lccT(phi2)

	n := (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	f := m1 / (n * math.Pow(t1, n))
	aF := (semiMajorMeters / usFootMeters) * f

	return lcc{
		n:    n,
		aF:   aF,
		rho0: aF * math.Pow(t0, n),
		lon0: lon0 * rad,
		fe:   falseEasting,
		fn:   falseNorthing,
	}
}

// Zone parameters from the EPSG registry (3734 / 3735): latitude and
// longitude of false origin, two standard parallels, false easting in ftUS.
var stateplane = map[SpatialReference]lcc{
	SROhioNorth: newLCC(39+40.0/60, -82.5, 40+26.0/60, 41+42.0/60, 1968500, 0),
	SROhioSouth: newLCC(38, -82.5, 38+44.0/60, 40+2.0/60, 1968500, 0),
}

func (z lcc) forward(g geodetic) Point {
	rho := z.aF * math.Pow(lccT(g.lat), z.n)
	theta := z.n * (g.lon - z.lon0)
	return Point{
		X: z.fe + rho*math.Sin(theta),
		Y: z.fn + z.rho0 - rho*math.Cos(theta),
	}
}

func (z lcc) inverse(p Point) geodetic {
	de := p.X - z.fe
	dn := z.rho0 - (p.Y - z.fn)
	rho := math.Copysign(math.Hypot(de, dn), z.n)
	t := math.Pow(rho/z.aF, 1/z.n)
	theta := math.Atan2(de, dn)

	lat := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 15; i++ {
		s := eccentricity * math.Sin(lat)
		next := math.Pi/2 - 2*math.Atan(t*math.Pow((1-s)/(1+s), eccentricity/2))
		if math.Abs(next-lat) < 1e-12 {
			lat = next
			break
		}
		lat = next
	}

	return geodetic{lat: lat, lon: theta/z.n + z.lon0}
}

func webForward(g geodetic) Point {
	return Point{
		X: sphereRadius * g.lon,
		Y: sphereRadius * math.Log(math.Tan(math.Pi/4+g.lat/2)),
	}
}

func webInverse(p Point) geodetic {
	return geodetic{
		lat: math.Pi/2 - 2*math.Atan(math.Exp(-p.Y/sphereRadius)),
		lon: p.X / sphereRadius,
	}
}

func toGeodetic(p Point, sr SpatialReference) (geodetic, error) {
	if sr == SRWebMercator {
		return webInverse(p), nil
	}
	z, ok := stateplane[sr]
	if !ok {
		return geodetic{}, unsupportedSystem(sr)
	}
	return z.inverse(p), nil
}

func fromGeodetic(g geodetic, sr SpatialReference) (Point, error) {
	if sr == SRWebMercator {
		return webForward(g), nil
	}
	z, ok := stateplane[sr]
	if !ok {
		return Point{}, unsupportedSystem(sr)
	}
	return z.forward(g), nil
}

func unsupportedSystem(sr SpatialReference) error {
	return &OpError{
		Op:   "domain.transform",
		Kind: KindUnsupportedSystem,
		Err:  fmt.Errorf("spatial reference %q is not one of %s, %s, %s", sr, SROhioNorth, SROhioSouth, SRWebMercator),
	}
}

// Transform converts a point between any two of the recognized spatial
// reference systems, via a geodetic intermediate. Pure function; round trips
// reproduce the input to well under 0.01 ft at Ohio coordinates.
func Transform(p Point, from, to SpatialReference) (Point, error) {
	if from == to {
		// Still reject unknown tags for identity transforms.
		if _, ok := stateplane[from]; !ok && from != SRWebMercator {
			return Point{}, unsupportedSystem(from)
		}
		return p, nil
	}
	g, err := toGeodetic(p, from)
	if err != nil {
		return Point{}, err
	}
	return fromGeodetic(g, to)
}

// TransformBoundingBox reprojects a box by transforming its two defining
// corners and re-normalizing min/max, preserving the rectangle invariant.
func TransformBoundingBox(b BoundingBox, to SpatialReference) (BoundingBox, error) {
	lo, err := Transform(Point{X: b.MinX, Y: b.MinY}, b.SR, to)
	if err != nil {
		return BoundingBox{}, err
	}
	hi, err := Transform(Point{X: b.MaxX, Y: b.MaxY}, b.SR, to)
	if err != nil {
		return BoundingBox{}, err
	}
	return BoundingBox{
		MinX: math.Min(lo.X, hi.X),
		MinY: math.Min(lo.Y, hi.Y),
		MaxX: math.Max(lo.X, hi.X),
		MaxY: math.Max(lo.Y, hi.Y),
		SR:   to,
	}, nil
}
