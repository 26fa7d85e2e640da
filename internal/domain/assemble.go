package domain

import "fmt"

// SkippedFeature records a feature the assembler rejected, so the caller can
// report it instead of aborting the run.
type SkippedFeature struct {
	Index int
	Err   error
}

// Assemble reprojects every ring vertex of every raw feature from the source
// system to the target system and closes each ring. One raw feature yields
// exactly one ParcelPolygon; ring order and winding are preserved as
// received. Features whose rings cannot form a valid polygon (fewer than 3
// distinct vertices after closing) are skipped and reported. A transform
// failure (unknown spatial reference) aborts the whole assembly.
func Assemble(features []RawFeature, from, to SpatialReference) ([]ParcelPolygon, []SkippedFeature, error) {
	parcels := make([]ParcelPolygon, 0, len(features))
	var skipped []SkippedFeature

	for i, feat := range features {
		rings := make([]Ring, 0, len(feat.Rings))
		var featErr error

		for ri, ring := range feat.Rings {
			out := make(Ring, 0, len(ring)+1)
			for _, v := range ring {
				p, err := Transform(v, from, to)
				if err != nil {
					return nil, nil, err
				}
				out = append(out, p)
			}
			out = out.Close()
			if out.DistinctVertices() < 3 {
				featErr = &OpError{
					Op:   "domain.assemble",
					Kind: KindMalformedGeometry,
					Err:  fmt.Errorf("feature %d ring %d has %d distinct vertices, need at least 3", i, ri, out.DistinctVertices()),
				}
				break
			}
			rings = append(rings, out)
		}

		if featErr != nil {
			skipped = append(skipped, SkippedFeature{Index: i, Err: featErr})
			continue
		}
		if len(rings) == 0 {
			skipped = append(skipped, SkippedFeature{Index: i, Err: &OpError{
				Op:   "domain.assemble",
				Kind: KindMalformedGeometry,
				Err:  fmt.Errorf("feature %d has no rings", i),
			}})
			continue
		}

		parcels = append(parcels, ParcelPolygon{
			Rings:      rings,
			Attributes: feat.Attributes,
		})
	}

	return parcels, skipped, nil
}
