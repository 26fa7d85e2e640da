package domain

// DefaultServiceURL is the ODNR statewide parcel layer query endpoint.
const DefaultServiceURL = "https://gis.ohiodnr.gov/arcgis_site2/rest/services/OIT_Services/odnr_landbase_v2/MapServer/4/query"

// DefaultFields is the attribute set fetched when the user does not override it.
var DefaultFields = []string{"PIN", "OWNER1", "OWNER2", "ADDRESS", "CITY", "STATE", "ZIP", "ACRES"}

// Config represents the tool configuration loaded from parcel-extractor.yaml,
// with compiled defaults when the file is absent or partial.
type Config struct {
	Service ServiceConfig
	Drawing DrawingConfig
}

// ServiceConfig controls the feature service client.
type ServiceConfig struct {
	URL            string
	Fields         []string
	PageSize       int
	MaxPages       int
	TimeoutSeconds int
}

// DrawingConfig controls DXF output.
type DrawingConfig struct {
	TextHeight float64
}

// DefaultConfig provides sane defaults if parcel-extractor.yaml is missing.
func DefaultConfig() Config {
	return Config{
		Service: ServiceConfig{
			URL:            DefaultServiceURL,
			Fields:         append([]string(nil), DefaultFields...),
			PageSize:       1000,
			MaxPages:       100,
			TimeoutSeconds: 60,
		},
		Drawing: DrawingConfig{
			TextHeight: 10,
		},
	}
}
