// Package apitest provides a testify mock of the backend for package tests.
package apitest

import (
	"context"

	"github.com/akilli/monitorx/internal/api"
	"github.com/akilli/monitorx/internal/models"
	"github.com/akilli/monitorx/internal/query"
	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock implementation of api.Backend
type MockBackend struct {
	mock.Mock
}

var _ api.Backend = (*MockBackend)(nil)

func (m *MockBackend) ListMentions(ctx context.Context, criteria query.Criteria, page int) (*models.MentionPage, error) {
	args := m.Called(ctx, criteria, page)
	if p, ok := args.Get(0).(*models.MentionPage); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) RunSearch(ctx context.Context, req query.SearchRequest) (*models.SearchResult, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*models.SearchResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) UpdateTags(ctx context.Context, id int64, update models.TagUpdate) (*models.TagState, error) {
	args := m.Called(ctx, id, update)
	if s, ok := args.Get(0).(*models.TagState); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) DeleteMention(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockBackend) BulkDelete(ctx context.Context, ids []int64) (*models.BulkDeleteResult, error) {
	args := m.Called(ctx, ids)
	if r, ok := args.Get(0).(*models.BulkDeleteResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) GetAnalytics(ctx context.Context, criteria query.Criteria) (*models.Analytics, error) {
	args := m.Called(ctx, criteria)
	if a, ok := args.Get(0).(*models.Analytics); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) EnrichDates(ctx context.Context, limit int, onlyMissing bool) (*models.EnrichResult, error) {
	args := m.Called(ctx, limit, onlyMissing)
	if r, ok := args.Get(0).(*models.EnrichResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) Health(ctx context.Context) (*models.HealthStatus, error) {
	args := m.Called(ctx)
	if h, ok := args.Get(0).(*models.HealthStatus); ok {
		return h, args.Error(1)
	}
	return nil, args.Error(1)
}

// Page builds a mention page holding the given ids
func Page(total, pageCount int, ids ...int64) *models.MentionPage {
	items := make([]models.Mention, len(ids))
	for i, id := range ids {
		items[i] = models.Mention{ID: id, Title: "mention", Channel: models.ChannelSite}
	}
	return &models.MentionPage{Items: items, Total: total, PageCount: pageCount}
}
