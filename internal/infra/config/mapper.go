package config

import (
	"fmt"
	"strings"

	"github.com/corykiser/ohio-parcel-extractor/internal/domain"
)

func mapConfig(path string, dto yamlConfig) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	if s := strings.TrimSpace(dto.Service.URL); s != "" {
		cfg.Service.URL = s
	}
	if len(dto.Service.Fields) > 0 {
		fields := make([]string, 0, len(dto.Service.Fields))
		for i, f := range dto.Service.Fields {
			f = strings.TrimSpace(f)
			if f == "" {
				return domain.Config{}, invalidField(path, fmt.Sprintf("service.fields[%d]", i), "field name is empty")
			}
			fields = append(fields, f)
		}
		cfg.Service.Fields = fields
	}
	if dto.Service.PageSize != 0 {
		if dto.Service.PageSize < 0 {
			return domain.Config{}, invalidField(path, "service.page_size", "must be positive")
		}
		cfg.Service.PageSize = dto.Service.PageSize
	}
	if dto.Service.MaxPages != 0 {
		if dto.Service.MaxPages < 0 {
			return domain.Config{}, invalidField(path, "service.max_pages", "must be positive")
		}
		cfg.Service.MaxPages = dto.Service.MaxPages
	}
	if dto.Service.TimeoutSeconds != 0 {
		if dto.Service.TimeoutSeconds < 0 {
			return domain.Config{}, invalidField(path, "service.timeout_seconds", "must be positive")
		}
		cfg.Service.TimeoutSeconds = dto.Service.TimeoutSeconds
	}
	if dto.Drawing.TextHeight != 0 {
		if dto.Drawing.TextHeight < 0 {
			return domain.Config{}, invalidField(path, "drawing.text_height", "must be positive")
		}
		cfg.Drawing.TextHeight = dto.Drawing.TextHeight
	}

	return cfg, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.validate",
		Kind: domain.KindInvalidInput,
		Path: path,
		Err:  fmt.Errorf("%s: %s", field, msg),
	}
}
