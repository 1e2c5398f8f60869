package listview

import (
	"errors"
	"testing"

	"github.com/akilli/monitorx/internal/api/apitest"
	"github.com/akilli/monitorx/internal/models"
	"github.com/akilli/monitorx/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loaded returns a state displaying the given page of ids
func loaded(page, pageCount int, ids ...int64) State {
	s := New()
	s.PageCount = pageCount
	s = s.GoToPage(page)
	s, req := s.BeginFetch()
	s, _ = s.ReceivePage(req.Token, apitest.Page(len(ids), pageCount, ids...))
	return s
}

func TestState_New(t *testing.T) {
	s := New()
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 1, s.PageCount)
	assert.Equal(t, 0, s.Selection.Len())
	assert.Equal(t, models.DateFieldPublished, s.Applied.DateField)
	assert.False(t, s.Loading)
}

func TestState_EditFiltersDoesNotApply(t *testing.T) {
	s := loaded(3, 5, 1, 2)
	s = s.EditFilters(query.Criteria{Text: "crise"})

	assert.Equal(t, "crise", s.Draft.Text)
	assert.Empty(t, s.Applied.Text)
	assert.Equal(t, 3, s.Page)

	_, req := s.BeginFetch()
	assert.Empty(t, req.Criteria.Text, "fetch must use the applied criteria")
}

func TestState_ApplyFiltersResetsPage(t *testing.T) {
	s := loaded(4, 5, 1, 2)
	s = s.EditFilters(query.Criteria{Sentiment: models.SentimentNegative}).ApplyFilters()

	assert.Equal(t, 1, s.Page)
	assert.Equal(t, models.SentimentNegative, s.Applied.Sentiment)

	_, req := s.BeginFetch()
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, models.SentimentNegative, req.Criteria.Sentiment)
}

func TestState_GoToPageClamps(t *testing.T) {
	s := loaded(1, 3, 1)

	assert.Equal(t, 3, s.GoToPage(10).Page)
	assert.Equal(t, 1, s.GoToPage(0).Page)
	assert.Equal(t, 2, s.NextPage().Page)
	assert.Equal(t, 1, s.PrevPage().Page)
	assert.False(t, s.CanPrev())
	assert.True(t, s.CanNext())

	empty := New()
	assert.Equal(t, 1, empty.GoToPage(5).Page)
}

func TestState_ToggleOne(t *testing.T) {
	s := loaded(1, 1, 1, 2, 3)

	s = s.ToggleOne(2)
	assert.True(t, s.Selection.Has(2))

	s = s.ToggleOne(2)
	assert.False(t, s.Selection.Has(2))
}

func TestState_ToggleOneDoesNotMutatePrevious(t *testing.T) {
	before := loaded(1, 1, 1, 2, 3)
	after := before.ToggleOne(1)

	assert.False(t, before.Selection.Has(1))
	assert.True(t, after.Selection.Has(1))
}

func TestState_ToggleAllOnPage(t *testing.T) {
	s := loaded(1, 1, 1, 2, 3).ToggleOne(2)

	s = s.ToggleAllOnPage()
	assert.Equal(t, []int64{1, 2, 3}, s.Selection.IDs())

	s = s.ToggleAllOnPage()
	assert.Empty(t, s.Selection.IDs())
}

func TestState_ToggleAllOnPageKeepsOtherPages(t *testing.T) {
	s := loaded(1, 2, 1, 2, 3).Select(99)

	s = s.ToggleAllOnPage().ToggleAllOnPage()
	assert.Equal(t, []int64{99}, s.Selection.IDs())
}

func TestState_PageSelection(t *testing.T) {
	tests := []struct {
		name     string
		selected []int64
		expected PageSelection
	}{
		{name: "None", selected: nil, expected: PageSelectionNone},
		{name: "Partial", selected: []int64{1, 2}, expected: PageSelectionPartial},
		{name: "All", selected: []int64{1, 2, 3}, expected: PageSelectionAll},
		{name: "Only off-page ids", selected: []int64{7, 8}, expected: PageSelectionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loaded(1, 1, 1, 2, 3).Select(tt.selected...)
			assert.Equal(t, tt.expected, s.PageSelection())
		})
	}

	assert.Equal(t, PageSelectionNone, New().Select(1).PageSelection())
	assert.Equal(t, "partial", PageSelectionPartial.String())
}

func TestState_SelectionSurvivesNavigation(t *testing.T) {
	s := loaded(1, 2, 5, 6).ToggleOne(5)

	s = s.NextPage()
	s, req := s.BeginFetch()
	s, _ = s.ReceivePage(req.Token, apitest.Page(4, 2, 7, 8))

	assert.Equal(t, 2, s.Page)
	assert.True(t, s.Selection.Has(5))
	assert.Equal(t, PageSelectionNone, s.PageSelection())
}

func TestState_SelectionSurvivesFilterRefetch(t *testing.T) {
	s := loaded(1, 1, 5).ToggleOne(5)

	s = s.EditFilters(query.Criteria{Tag: "x"}).ApplyFilters()
	s, req := s.BeginFetch()
	s, _ = s.ReceivePage(req.Token, apitest.Page(0, 0))

	assert.True(t, s.Selection.Has(5))
}

func TestState_ClearSelection(t *testing.T) {
	s := loaded(1, 1, 1, 2).Select(1, 2, 50)
	assert.Equal(t, 0, s.ClearSelection().Selection.Len())
}

func TestState_ReceivePage(t *testing.T) {
	s := New()
	s, req := s.BeginFetch()
	assert.True(t, s.Loading)

	s, applied := s.ReceivePage(req.Token, apitest.Page(250, 3, 1, 2))
	require.True(t, applied)
	assert.False(t, s.Loading)
	assert.Equal(t, 250, s.Total)
	assert.Equal(t, 3, s.PageCount)
	assert.Equal(t, []int64{1, 2}, s.PageIDs())
}

func TestState_ReceivePageZeroPageCount(t *testing.T) {
	s, req := New().BeginFetch()
	s, _ = s.ReceivePage(req.Token, &models.MentionPage{})

	assert.Equal(t, 1, s.PageCount)
	assert.NotNil(t, s.Items)
}

func TestState_StaleResultsDiscarded(t *testing.T) {
	s := loaded(1, 3, 1)

	s = s.GoToPage(2)
	s, first := s.BeginFetch()
	s = s.GoToPage(3)
	s, second := s.BeginFetch()

	s, applied := s.ReceivePage(second.Token, apitest.Page(300, 3, 30))
	require.True(t, applied)

	s, applied = s.ReceivePage(first.Token, apitest.Page(300, 3, 20))
	assert.False(t, applied)
	assert.Equal(t, []int64{30}, s.PageIDs())
	assert.Equal(t, 3, s.Page)

	s, applied = s.FailFetch(first.Token, errors.New("late failure"))
	assert.False(t, applied)
	assert.NoError(t, s.Err)
}

func TestState_FailFetchKeepsData(t *testing.T) {
	s := loaded(1, 1, 1, 2)
	s, req := s.BeginFetch()

	s, applied := s.FailFetch(req.Token, errors.New("boom"))
	require.True(t, applied)
	assert.False(t, s.Loading)
	assert.EqualError(t, s.Err, "boom")
	assert.Equal(t, []int64{1, 2}, s.PageIDs())
}

func TestState_AfterDelete(t *testing.T) {
	tests := []struct {
		name         string
		state        State
		deleted      []int64
		expectedPage int
		expectedMove bool
	}{
		{
			name:         "Only item on page 2 of 2",
			state:        loaded(2, 2, 9),
			deleted:      []int64{9},
			expectedPage: 1,
			expectedMove: true,
		},
		{
			name:         "One of three items on page 1",
			state:        loaded(1, 1, 1, 2, 3),
			deleted:      []int64{2},
			expectedPage: 1,
		},
		{
			name:         "Last item on page 1",
			state:        loaded(1, 1, 4),
			deleted:      []int64{4},
			expectedPage: 1,
		},
		{
			name:         "Whole page deleted in bulk with off-page ids",
			state:        loaded(3, 3, 7, 8),
			deleted:      []int64{1, 7, 8},
			expectedPage: 2,
			expectedMove: true,
		},
		{
			name:         "Empty page 2 never moves",
			state:        loaded(2, 2),
			deleted:      []int64{5},
			expectedPage: 2,
		},
		{
			name:         "Part of page deleted in bulk",
			state:        loaded(3, 3, 7, 8),
			deleted:      []int64{1, 7},
			expectedPage: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.state.Select(tt.deleted...)
			s, moved := s.AfterDelete(tt.deleted)

			assert.Equal(t, tt.expectedPage, s.Page)
			assert.Equal(t, tt.expectedMove, moved)
			for _, id := range tt.deleted {
				assert.False(t, s.Selection.Has(id))
			}
		})
	}
}
