package listview

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/akilli/monitorx/internal/api/apitest"
	"github.com/akilli/monitorx/internal/models"
	"github.com/akilli/monitorx/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakePrompter answers every confirmation with a fixed value and records notices
type fakePrompter struct {
	answer  bool
	prompts []string
	notices []string
	mu      sync.Mutex
}

func (p *fakePrompter) Confirm(message string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, message)
	return p.answer, nil
}

func (p *fakePrompter) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, message)
}

var defaultCriteria = query.Criteria{DateField: models.DateFieldPublished}

func newTestController(answer bool) (*Controller, *apitest.MockBackend, *fakePrompter) {
	backend := &apitest.MockBackend{}
	prompter := &fakePrompter{answer: answer}
	return NewController(backend, prompter), backend, prompter
}

func TestController_FetchAndNavigate(t *testing.T) {
	ctrl, backend, _ := newTestController(true)
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(150, 2, 1, 2, 3), nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 2).Return(apitest.Page(150, 2, 4), nil).Once()

	require.NoError(t, ctrl.Fetch(context.Background()))
	ctrl.ToggleOne(1)

	require.NoError(t, ctrl.Next(context.Background()))
	s := ctrl.State()
	assert.Equal(t, 2, s.Page)
	assert.Equal(t, []int64{4}, s.PageIDs())
	assert.True(t, s.Selection.Has(1))

	// Already on the last page: nothing is fetched
	require.NoError(t, ctrl.Next(context.Background()))
	backend.AssertExpectations(t)
}

func TestController_ApplyResetsPage(t *testing.T) {
	ctrl, backend, _ := newTestController(true)
	filtered := query.Criteria{Text: "akilli", DateField: models.DateFieldPublished}

	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(300, 3, 1), nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 3).Return(apitest.Page(300, 3, 3), nil).Once()
	backend.On("ListMentions", mock.Anything, filtered, 1).Return(apitest.Page(1, 1, 5), nil).Once()

	require.NoError(t, ctrl.Fetch(context.Background()))
	require.NoError(t, ctrl.GoTo(context.Background(), 3))

	ctrl.EditFilters(filtered)
	require.NoError(t, ctrl.Apply(context.Background()))

	assert.Equal(t, 1, ctrl.State().Page)
	backend.AssertExpectations(t)
}

func TestController_ApplyRejectsInvalidCriteria(t *testing.T) {
	ctrl, backend, _ := newTestController(true)

	ctrl.EditFilters(query.Criteria{DateFrom: "31/12/2024"})
	err := ctrl.Apply(context.Background())

	assert.ErrorIs(t, err, query.ErrInvalidDate)
	backend.AssertNotCalled(t, "ListMentions", mock.Anything, mock.Anything, mock.Anything)
}

func TestController_FetchFailureKeepsData(t *testing.T) {
	ctrl, backend, _ := newTestController(true)
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(2, 1, 1, 2), nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(nil, errors.New("connection refused")).Once()

	require.NoError(t, ctrl.Fetch(context.Background()))
	err := ctrl.Fetch(context.Background())

	require.Error(t, err)
	s := ctrl.State()
	assert.False(t, s.Loading)
	assert.Error(t, s.Err)
	assert.Equal(t, []int64{1, 2}, s.PageIDs())
}

func TestController_FetchPastLastPageReloads(t *testing.T) {
	ctrl, backend, _ := newTestController(true)
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(300, 3, 1), nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 3).Return(apitest.Page(150, 2), nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 2).Return(apitest.Page(150, 2, 200), nil).Once()

	require.NoError(t, ctrl.Fetch(context.Background()))
	require.NoError(t, ctrl.GoTo(context.Background(), 3))

	s := ctrl.State()
	assert.Equal(t, 2, s.Page)
	assert.Equal(t, []int64{200}, s.PageIDs())
	backend.AssertExpectations(t)
}

func TestController_DeleteOnlyItemOnLastPage(t *testing.T) {
	ctrl, backend, prompter := newTestController(true)
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(101, 2, 1), nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 2).Return(apitest.Page(101, 2, 101), nil).Once()
	backend.On("DeleteMention", mock.Anything, int64(101)).Return(http.StatusNoContent, nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(100, 1, 1), nil).Once()

	require.NoError(t, ctrl.Fetch(context.Background()))
	require.NoError(t, ctrl.GoTo(context.Background(), 2))
	ctrl.ToggleOne(101)

	deleted, err := ctrl.DeleteOne(context.Background(), 101)
	require.NoError(t, err)
	assert.True(t, deleted)

	s := ctrl.State()
	assert.Equal(t, 1, s.Page)
	assert.False(t, s.Selection.Has(101))
	assert.Equal(t, []string{"Tem certeza que deseja excluir a menção #101?"}, prompter.prompts)
	backend.AssertExpectations(t)
}

func TestController_DeleteOneOfThreeStaysOnPage(t *testing.T) {
	ctrl, backend, _ := newTestController(true)
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(3, 1, 1, 2, 3), nil).Once()
	backend.On("DeleteMention", mock.Anything, int64(2)).Return(http.StatusNoContent, nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(2, 1, 1, 3), nil).Once()

	require.NoError(t, ctrl.Fetch(context.Background()))
	_, err := ctrl.DeleteOne(context.Background(), 2)
	require.NoError(t, err)

	s := ctrl.State()
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, []int64{1, 3}, s.PageIDs())
	backend.AssertExpectations(t)
}

func TestController_DeleteSucceedsRefetchFails(t *testing.T) {
	ctrl, backend, _ := newTestController(true)
	backend.On("DeleteMention", mock.Anything, int64(7)).Return(http.StatusNoContent, nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(nil, errors.New("boom")).Once()
	ctrl.ToggleOne(7)

	deleted, err := ctrl.DeleteOne(context.Background(), 7)
	assert.True(t, deleted)
	assert.EqualError(t, err, "failed to fetch page 1: boom")
	assert.False(t, ctrl.State().Selection.Has(7))
	backend.AssertExpectations(t)
}

func TestController_DeleteDeclined(t *testing.T) {
	ctrl, backend, _ := newTestController(false)

	deleted, err := ctrl.DeleteOne(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, deleted)
	backend.AssertNotCalled(t, "DeleteMention", mock.Anything, mock.Anything)
}

func TestController_DeleteFailureLeavesSelection(t *testing.T) {
	ctrl, backend, _ := newTestController(true)
	backend.On("DeleteMention", mock.Anything, int64(2)).Return(0, errors.New("timeout")).Once()
	ctrl.ToggleOne(2)

	_, err := ctrl.DeleteOne(context.Background(), 2)
	require.Error(t, err)
	assert.True(t, ctrl.State().Selection.Has(2))
}

func TestController_BulkDeleteEmptySelection(t *testing.T) {
	ctrl, backend, prompter := newTestController(true)

	deleted, err := ctrl.BulkDelete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, []string{"Nenhuma menção selecionada."}, prompter.notices)
	assert.Empty(t, prompter.prompts)
	backend.AssertNotCalled(t, "BulkDelete", mock.Anything, mock.Anything)
}

func TestController_BulkDeleteReportsBackendCount(t *testing.T) {
	ctrl, backend, prompter := newTestController(true)
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(5, 1, 1, 2, 3, 4, 5), nil).Once()
	backend.On("BulkDelete", mock.Anything, []int64{1, 2, 3}).Return(&models.BulkDeleteResult{Deleted: 2}, nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(2, 1, 4, 5), nil).Once()

	require.NoError(t, ctrl.Fetch(context.Background()))
	ctrl.Select(1, 2, 3)

	deleted, err := ctrl.BulkDelete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.Equal(t, 0, ctrl.State().Selection.Len())
	assert.Equal(t, []string{"Excluir 3 menção(ões)? Esta ação não pode ser desfeita."}, prompter.prompts)
	assert.Equal(t, []string{"Excluídas: 2"}, prompter.notices)
	backend.AssertExpectations(t)
}

func TestController_BulkDeleteWholePageStepsBack(t *testing.T) {
	ctrl, backend, _ := newTestController(true)
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(102, 2, 1), nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 2).Return(apitest.Page(102, 2, 101, 102), nil).Once()
	backend.On("BulkDelete", mock.Anything, []int64{101, 102}).Return(&models.BulkDeleteResult{Deleted: 2}, nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(100, 1, 1), nil).Once()

	require.NoError(t, ctrl.Fetch(context.Background()))
	require.NoError(t, ctrl.Next(context.Background()))
	ctrl.ToggleAllOnPage()

	_, err := ctrl.BulkDelete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ctrl.State().Page)
	backend.AssertExpectations(t)
}

func TestController_AddTag(t *testing.T) {
	ctrl, backend, _ := newTestController(true)
	backend.On("UpdateTags", mock.Anything, int64(3), models.TagUpdate{Add: []string{"crise"}}).
		Return(&models.TagState{ID: 3, Tags: []string{"crise"}}, nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(1, 1, 3), nil).Once()

	require.NoError(t, ctrl.AddTag(context.Background(), 3, " crise "))
	require.NoError(t, ctrl.AddTag(context.Background(), 3, "  "))
	backend.AssertExpectations(t)
}

func TestController_RemoveTag(t *testing.T) {
	ctrl, backend, _ := newTestController(true)
	backend.On("UpdateTags", mock.Anything, int64(3), models.TagUpdate{Remove: []string{"crise"}}).
		Return(&models.TagState{ID: 3}, nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(1, 1, 3), nil).Once()

	require.NoError(t, ctrl.RemoveTag(context.Background(), 3, "crise"))
	backend.AssertExpectations(t)
}

func TestController_OverlappingFetchesKeepLatest(t *testing.T) {
	ctrl, backend, _ := newTestController(true)
	backend.On("ListMentions", mock.Anything, defaultCriteria, 1).Return(apitest.Page(300, 3, 1), nil).Once()
	require.NoError(t, ctrl.Fetch(context.Background()))

	release := make(chan struct{})
	started := make(chan struct{})
	backend.On("ListMentions", mock.Anything, defaultCriteria, 2).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(apitest.Page(300, 3, 20), nil).Once()
	backend.On("ListMentions", mock.Anything, defaultCriteria, 3).Return(apitest.Page(300, 3, 30), nil).Once()

	done := make(chan error)
	go func() { done <- ctrl.GoTo(context.Background(), 2) }()
	<-started

	require.NoError(t, ctrl.GoTo(context.Background(), 3))
	close(release)
	require.NoError(t, <-done)

	s := ctrl.State()
	assert.Equal(t, 3, s.Page)
	assert.Equal(t, []int64{30}, s.PageIDs())
	assert.False(t, s.Loading)
}
