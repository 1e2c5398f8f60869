package api

import (
	"context"

	"github.com/akilli/monitorx/internal/models"
	"github.com/akilli/monitorx/internal/query"
)

// Backend defines the contract of the mention monitoring backend
type Backend interface {
	ListMentions(ctx context.Context, criteria query.Criteria, page int) (*models.MentionPage, error)
	RunSearch(ctx context.Context, req query.SearchRequest) (*models.SearchResult, error)
	UpdateTags(ctx context.Context, id int64, update models.TagUpdate) (*models.TagState, error)
	DeleteMention(ctx context.Context, id int64) (int, error)
	BulkDelete(ctx context.Context, ids []int64) (*models.BulkDeleteResult, error)
	GetAnalytics(ctx context.Context, criteria query.Criteria) (*models.Analytics, error)
	EnrichDates(ctx context.Context, limit int, onlyMissing bool) (*models.EnrichResult, error)
	Health(ctx context.Context) (*models.HealthStatus, error)
}
