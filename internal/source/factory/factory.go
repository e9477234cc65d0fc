// Package factory builds the configured source.Reader so the commands do
// not each repeat the backend switch.
package factory

import (
	"context"
	"fmt"

	"masasalarial/internal/config"
	"masasalarial/internal/log"
	"masasalarial/internal/source"
	"masasalarial/internal/source/memory"
	"masasalarial/internal/source/sheets"
	"masasalarial/internal/source/xlsx"
)

// New returns the reader selected by DATA_BACKEND. The configuration is
// expected to be validated; an unknown backend still errors rather than
// silently defaulting.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (source.Reader, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendXLSX:
		if cfg.SourceFile != "" {
			return xlsx.NewFromFile(cfg.SourceFile, cfg.DetailSheet, cfg.AnnualSheet, logger), nil
		}
		return xlsx.NewFromURL(cfg.SourceURL, cfg.DetailSheet, cfg.AnnualSheet, cfg.FetchTimeout, logger), nil
	case config.BackendSheets:
		return sheets.New(ctx, sheets.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			DetailSheet:     cfg.DetailSheet,
			AnnualSheet:     cfg.AnnualSheet,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}
