// Package tui provides the terminal dashboard for browsing and curating mentions.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/akilli/monitorx/internal/analytics"
	"github.com/akilli/monitorx/internal/api"
	"github.com/akilli/monitorx/internal/listview"
	"github.com/akilli/monitorx/internal/models"
	"github.com/akilli/monitorx/internal/query"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// requestTimeout bounds every backend call issued from the TUI.
const requestTimeout = 30 * time.Second

// flashDuration is how long flash messages are displayed.
const flashDuration = 4 * time.Second

// viewKind is the dashboard view currently shown.
type viewKind int

const (
	viewList viewKind = iota
	viewAnalytics
)

// modalType represents the type of modal dialog.
type modalType int

const (
	modalNone modalType = iota
	modalDeleteConfirm
	modalBulkConfirm
	modalTag
	modalFilter
	modalSearch
	modalHelp
)

// Model is the main TUI model following the Elm architecture.
type Model struct {
	backend api.Backend

	view      viewKind
	list      listview.State
	analytics analytics.State

	// analyticsLoaded is set once the analytics view fetched at least once
	analyticsLoaded bool

	cursor int

	// Modal state
	modal         modalType
	pendingDelete int64
	tagRemove     bool
	tagInput      textinput.Model
	form          *form

	// A search/ingest run in flight
	searching bool

	spinner spinner.Model

	flashMessage   string
	flashExpiresAt time.Time

	width  int
	height int

	quitting bool
}

// New creates a new TUI model for the given backend.
func New(backend api.Backend) Model {
	ti := textinput.New()
	ti.Placeholder = "tag"
	ti.CharLimit = 100
	ti.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		backend:   backend,
		view:      viewList,
		list:      listview.New(),
		analytics: analytics.New(),
		tagInput:  ti,
		spinner:   sp,
		width:     100,
		height:    30,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(refresh, m.spinner.Tick)
}

// refreshMsg asks Update to reload the active view.
type refreshMsg struct{}

func refresh() tea.Msg {
	return refreshMsg{}
}

// pageLoadedMsg is sent when a mentions page is loaded.
type pageLoadedMsg struct {
	token uint64
	page  *models.MentionPage
	err   error
}

// analyticsLoadedMsg is sent when aggregates are loaded.
type analyticsLoadedMsg struct {
	token uint64
	data  *models.Analytics
	err   error
}

// deletedMsg is sent when a single or bulk delete finished.
type deletedMsg struct {
	ids     []int64
	deleted int
	bulk    bool
	err     error
}

// taggedMsg is sent when a tag update finished.
type taggedMsg struct {
	id  int64
	tag string
	err error
}

// searchDoneMsg is sent when a search/ingest run finished.
type searchDoneMsg struct {
	result *models.SearchResult
	err    error
}

// fetchList starts loading the current page. The returned model must replace
// the receiver so the new request token is recorded.
func (m Model) fetchList() (Model, tea.Cmd) {
	var req listview.FetchRequest
	m.list, req = m.list.BeginFetch()
	backend := m.backend
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		page, err := backend.ListMentions(ctx, req.Criteria, req.Page)
		return pageLoadedMsg{token: req.Token, page: page, err: err}
	}
}

// fetchAnalytics starts loading aggregates for the applied analytics criteria.
func (m Model) fetchAnalytics() (Model, tea.Cmd) {
	var token uint64
	var criteria query.Criteria
	m.analytics, token, criteria = m.analytics.BeginFetch()
	m.analyticsLoaded = true
	backend := m.backend
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		data, err := backend.GetAnalytics(ctx, criteria)
		return analyticsLoadedMsg{token: token, data: data, err: err}
	}
}

func deleteOne(backend api.Backend, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := backend.DeleteMention(ctx, id); err != nil {
			return deletedMsg{ids: []int64{id}, err: err}
		}
		return deletedMsg{ids: []int64{id}, deleted: 1}
	}
}

func bulkDelete(backend api.Backend, ids []int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := backend.BulkDelete(ctx, ids)
		if err != nil {
			return deletedMsg{ids: ids, bulk: true, err: err}
		}
		return deletedMsg{ids: ids, bulk: true, deleted: res.Deleted}
	}
}

func updateTags(backend api.Backend, id int64, tag string, remove bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		update := models.TagUpdate{Add: []string{tag}}
		if remove {
			update = models.TagUpdate{Remove: []string{tag}}
		}
		_, err := backend.UpdateTags(ctx, id, update)
		return taggedMsg{id: id, tag: tag, err: err}
	}
}

func runSearch(backend api.Backend, req query.SearchRequest) tea.Cmd {
	return func() tea.Msg {
		// Ingest runs can take far longer than a page load
		ctx, cancel := context.WithTimeout(context.Background(), 10*requestTimeout)
		defer cancel()
		res, err := backend.RunSearch(ctx, req)
		return searchDoneMsg{result: res, err: err}
	}
}

// flash shows a temporary notice in the footer.
func (m Model) flash(format string, args ...interface{}) Model {
	m.flashMessage = fmt.Sprintf(format, args...)
	m.flashExpiresAt = time.Now().Add(flashDuration)
	return m
}

// currentMention returns the mention under the cursor.
func (m Model) currentMention() (models.Mention, bool) {
	if m.cursor < 0 || m.cursor >= len(m.list.Items) {
		return models.Mention{}, false
	}
	return m.list.Items[m.cursor], true
}

func (m Model) loading() bool {
	if m.view == viewAnalytics {
		return m.analytics.Loading
	}
	return m.list.Loading || m.searching
}
