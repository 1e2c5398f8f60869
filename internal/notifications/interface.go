package notifications

import (
	"context"

	"github.com/akilli/monitorx/internal/models"
)

// Notifier defines the contract for digest notification channels
type Notifier interface {
	SendReport(ctx context.Context, report *models.Report) error
	SendAlert(ctx context.Context, alert *models.Alert) error
}
