package config

// yamlConfig mirrors the parcel-extractor.yaml layout. All sections are
// optional; zero values fall back to compiled defaults during mapping.
type yamlConfig struct {
	Service yamlService `yaml:"service"`
	Drawing yamlDrawing `yaml:"drawing"`
}

type yamlService struct {
	URL            string   `yaml:"url"`
	Fields         []string `yaml:"fields"`
	PageSize       int      `yaml:"page_size"`
	MaxPages       int      `yaml:"max_pages"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

type yamlDrawing struct {
	TextHeight float64 `yaml:"text_height"`
}
