package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/corykiser/ohio-parcel-extractor/internal/domain"
	"github.com/corykiser/ohio-parcel-extractor/internal/infra/arcgis"
	"github.com/corykiser/ohio-parcel-extractor/internal/infra/config"
	"github.com/corykiser/ohio-parcel-extractor/internal/infra/dxf"
	"github.com/corykiser/ohio-parcel-extractor/internal/infra/httpclient"
	"github.com/corykiser/ohio-parcel-extractor/internal/infra/jsonmeta"
	"github.com/corykiser/ohio-parcel-extractor/internal/infra/logger"
	"github.com/corykiser/ohio-parcel-extractor/internal/usecase"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		bboxArg        string
		zoneArg        string
		outPath        string
		fieldsArg      string
		includeLabels  bool
		exportMetadata bool
		configPath     string
		verbose        bool
	)

	cmd := &cobra.Command{
		Use:          "parcel-extractor",
		Short:        "Extract Ohio parcel polygons into a DXF drawing",
		Long:         "Queries the ODNR statewide parcel service for every parcel intersecting a State Plane bounding box and writes the footprints (and optional labels) to a DXF file.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.Setup(logger.Config{Verbose: verbose})

			cfg, err := loadConfig(cmd, configPath)
			if err != nil {
				return err
			}

			req, err := buildRequest(cfg, requestArgs{
				bbox:           bboxArg,
				zone:           zoneArg,
				out:            outPath,
				fields:         fieldsArg,
				includeLabels:  includeLabels,
				exportMetadata: exportMetadata,
			})
			if err != nil {
				return err
			}

			uc := newExtractor(cfg)
			sum, err := uc.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}

	cmd.Flags().StringVar(&bboxArg, "bbox", "", "Bounding box as xmin,ymin,xmax,ymax in State Plane feet (required)")
	cmd.Flags().StringVar(&zoneArg, "zone", "north", "Ohio State Plane zone: north|south")
	cmd.Flags().StringVarP(&outPath, "out", "o", "parcels.dxf", "Output DXF path")
	cmd.Flags().StringVar(&fieldsArg, "fields", "", "Comma-separated attribute fields to fetch (defaults to the configured set)")
	cmd.Flags().BoolVar(&includeLabels, "include-labels", false, "Add a PIN/owner text label at each parcel centroid")
	cmd.Flags().BoolVar(&exportMetadata, "export-metadata", false, "Write parcel attributes to a JSON sidecar next to the DXF")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default parcel-extractor.yaml if present)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	_ = cmd.MarkFlagRequired("bbox")

	cmd.AddCommand(versionCmd())
	return cmd
}

// loadConfig is lenient about the default config file but strict about an
// explicitly requested one.
func loadConfig(cmd *cobra.Command, path string) (domain.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.Load(path)
	}
	return config.LoadIfPresent(config.DefaultPath)
}

func newExtractor(cfg domain.Config) *usecase.ExtractParcels {
	httpCfg := httpclient.DefaultConfig()
	if cfg.Service.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.Service.TimeoutSeconds) * time.Second
	}

	source := arcgis.New(httpclient.New(httpCfg), cfg.Service.URL,
		arcgis.WithPageSize(cfg.Service.PageSize),
		arcgis.WithMaxPages(cfg.Service.MaxPages),
	)
	drawing := dxf.NewWriter(dxf.WithTextHeight(cfg.Drawing.TextHeight))
	metadata := jsonmeta.NewExporter()

	return usecase.NewExtractParcels(source, drawing, metadata, logger.L())
}

func printSummary(w io.Writer, sum usecase.Summary) {
	if sum.ParcelCount == 0 {
		fmt.Fprintln(w, "No parcels found in the requested area; wrote an empty drawing.")
	} else {
		fmt.Fprintf(w, "Extracted %d parcel(s)", sum.ParcelCount)
		if sum.SkippedCount > 0 {
			fmt.Fprintf(w, " (%d skipped)", sum.SkippedCount)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Drawing:  %s\n", sum.OutputPath)
	if sum.MetadataPath != "" {
		fmt.Fprintf(w, "Metadata: %s\n", sum.MetadataPath)
	}
}
