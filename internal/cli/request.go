package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corykiser/ohio-parcel-extractor/internal/domain"
	"github.com/corykiser/ohio-parcel-extractor/internal/infra/jsonmeta"
	"github.com/corykiser/ohio-parcel-extractor/internal/usecase"
)

type requestArgs struct {
	bbox           string
	zone           string
	out            string
	fields         string
	includeLabels  bool
	exportMetadata bool
}

func buildRequest(cfg domain.Config, args requestArgs) (usecase.Request, error) {
	zone, err := domain.ParseZone(args.zone)
	if err != nil {
		return usecase.Request{}, err
	}

	bbox, err := parseBBox(args.bbox, zone.SpatialReference())
	if err != nil {
		return usecase.Request{}, err
	}

	fields := cfg.Service.Fields
	if args.fields != "" {
		fields = parseFields(args.fields)
	}

	req := usecase.Request{
		BBox:          bbox,
		Zone:          zone,
		Fields:        fields,
		IncludeLabels: args.includeLabels,
		OutputPath:    args.out,
	}
	if args.exportMetadata {
		req.MetadataPath = jsonmeta.SidecarPath(args.out)
	}
	return req, nil
}

// parseBBox accepts "xmin,ymin,xmax,ymax". Swapped corners are tolerated;
// surveyors often quote the box from the northwest corner.
func parseBBox(s string, sr domain.SpatialReference) (domain.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return domain.BoundingBox{}, &domain.OpError{
			Op:   "cli.parseBBox",
			Kind: domain.KindInvalidInput,
			Err:  fmt.Errorf("expected 4 comma-separated values, got %d", len(parts)),
		}
	}

	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.BoundingBox{}, &domain.OpError{
				Op:   "cli.parseBBox",
				Kind: domain.KindInvalidInput,
				Err:  fmt.Errorf("value %d: %w", i+1, err),
			}
		}
		vals[i] = v
	}

	minX, maxX := order(vals[0], vals[2])
	minY, maxY := order(vals[1], vals[3])
	return domain.NewBoundingBox(minX, minY, maxX, maxY, sr)
}

func order(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}

func parseFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
