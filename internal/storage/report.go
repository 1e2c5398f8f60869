package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akilli/monitorx/internal/config"
	"github.com/akilli/monitorx/internal/models"
)

// ReportPrefix is the name prefix under which digest reports are archived
const ReportPrefix = "reports/"

// ReportName returns the archive name of a report,
// e.g. reports/daily/2024-03-01_2024-03-02.json
func ReportName(report *models.Report) string {
	return fmt.Sprintf("%s%s/%s_%s.json", ReportPrefix, report.Period, report.DateFrom, report.DateTo)
}

// SaveReport archives a report as JSON and returns its name
func SaveReport(ctx context.Context, archive Archive, report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	name := ReportName(report)
	if err := archive.Store(ctx, name, data); err != nil {
		return "", err
	}
	return name, nil
}

// LoadReport reads an archived report
func LoadReport(ctx context.Context, archive Archive, name string) (*models.Report, error) {
	data, err := archive.Retrieve(ctx, name)
	if err != nil {
		return nil, err
	}

	var report models.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", name, err)
	}
	return &report, nil
}

// Open returns the archive selected by the configuration
func Open(ctx context.Context, cfg *config.Config) (Archive, error) {
	switch cfg.StorageBackend {
	case "azure":
		archive, err := NewAzureArchive(ctx, cfg.StorageAccount, cfg.StorageContainer)
		if err != nil {
			return nil, err
		}
		return archive, nil
	case "sqlite", "":
		archive, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return archive, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
