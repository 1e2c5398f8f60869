package tui

import (
	"errors"
	"strings"

	"github.com/akilli/monitorx/internal/api"
	"github.com/akilli/monitorx/internal/query"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshMsg:
		if m.view == viewAnalytics {
			return m.fetchAnalytics()
		}
		return m.fetchList()

	case pageLoadedMsg:
		return m.handlePageLoaded(msg)

	case analyticsLoadedMsg:
		return m.handleAnalyticsLoaded(msg), nil

	case deletedMsg:
		return m.handleDeleted(msg)

	case taggedMsg:
		return m.handleTagged(msg)

	case searchDoneMsg:
		return m.handleSearchDone(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.modal != modalNone {
			return m.handleModalKey(msg)
		}
		if m.view == viewAnalytics {
			return m.handleAnalyticsKey(msg)
		}
		return m.handleListKey(msg)
	}

	return m, nil
}

func (m Model) handlePageLoaded(msg pageLoadedMsg) (Model, tea.Cmd) {
	var applied bool
	if msg.err != nil {
		m.list, applied = m.list.FailFetch(msg.token, msg.err)
		if applied {
			m = m.flash("Erro ao carregar menções: %s", errorText(msg.err))
		}
		return m, nil
	}

	m.list, applied = m.list.ReceivePage(msg.token, msg.page)
	if !applied {
		return m, nil
	}

	// The collection shrank below the current page
	if m.list.OutOfRange() {
		m.list = m.list.GoToPage(m.list.PageCount)
		return m.fetchList()
	}

	if m.cursor >= len(m.list.Items) {
		m.cursor = len(m.list.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m, nil
}

func (m Model) handleAnalyticsLoaded(msg analyticsLoadedMsg) Model {
	if msg.err != nil {
		var applied bool
		if m.analytics, applied = m.analytics.Fail(msg.token, msg.err); applied {
			m = m.flash("Erro ao carregar análises: %s", errorText(msg.err))
		}
		return m
	}
	m.analytics, _ = m.analytics.Receive(msg.token, msg.data)
	return m
}

func (m Model) handleDeleted(msg deletedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		return m.flash("Erro ao excluir: %s", errorText(msg.err)), nil
	}

	m.list, _ = m.list.AfterDelete(msg.ids)
	m.analyticsLoaded = false
	if msg.bulk {
		m = m.flash("Excluídas: %d", msg.deleted)
	} else {
		m = m.flash("Menção #%d excluída.", msg.ids[0])
	}
	return m.fetchList()
}

func (m Model) handleTagged(msg taggedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		return m.flash("Erro ao atualizar tags: %s", errorText(msg.err)), nil
	}
	m = m.flash("Tags de #%d atualizadas.", msg.id)
	m.analyticsLoaded = false
	return m.fetchList()
}

func (m Model) handleSearchDone(msg searchDoneMsg) (Model, tea.Cmd) {
	m.searching = false
	if msg.err != nil {
		return m.flash("Erro na busca: %s", errorText(msg.err)), nil
	}

	m = m.flash("Busca concluída: %d menções para %q.", msg.result.Total, msg.result.Term)
	m.analyticsLoaded = false
	if m.view == viewAnalytics {
		return m.fetchAnalytics()
	}
	return m.fetchList()
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.modal = modalHelp

	case "tab":
		return m.switchView()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.list.Items)-1 {
			m.cursor++
		}

	case " ":
		if mention, ok := m.currentMention(); ok {
			m.list = m.list.ToggleOne(mention.ID)
		}

	case "a":
		m.list = m.list.ToggleAllOnPage()

	case "c":
		m.list = m.list.ClearSelection()

	case "n", "right":
		if m.list.CanNext() {
			m.list = m.list.NextPage()
			m.cursor = 0
			return m.fetchList()
		}

	case "p", "left":
		if m.list.CanPrev() {
			m.list = m.list.PrevPage()
			m.cursor = 0
			return m.fetchList()
		}

	case "home":
		if m.list.Page != 1 {
			m.list = m.list.GoToPage(1)
			m.cursor = 0
			return m.fetchList()
		}

	case "end":
		if m.list.Page != m.list.PageCount {
			m.list = m.list.GoToPage(m.list.PageCount)
			m.cursor = 0
			return m.fetchList()
		}

	case "d":
		if mention, ok := m.currentMention(); ok {
			m.pendingDelete = mention.ID
			m.modal = modalDeleteConfirm
		}

	case "D":
		if m.list.Selection.Len() == 0 {
			return m.flash("Nenhuma menção selecionada."), nil
		}
		m.modal = modalBulkConfirm

	case "t", "T":
		if _, ok := m.currentMention(); ok {
			m.tagRemove = msg.String() == "T"
			m.tagInput.SetValue("")
			m.modal = modalTag
			return m, m.tagInput.Focus()
		}

	case "f":
		m.form = newFilterForm("Filtros", m.list.Draft)
		m.modal = modalFilter
		return m, textinput.Blink

	case "s":
		return m.openSearch()

	case "r":
		return m.fetchList()
	}

	return m, nil
}

func (m Model) handleAnalyticsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "?":
		m.modal = modalHelp
	case "tab":
		return m.switchView()
	case "f":
		m.form = newFilterForm("Filtros de análise", m.analytics.Draft)
		m.modal = modalFilter
		return m, textinput.Blink
	case "s":
		return m.openSearch()
	case "r":
		return m.fetchAnalytics()
	}
	return m, nil
}

func (m Model) switchView() (tea.Model, tea.Cmd) {
	if m.view == viewList {
		m.view = viewAnalytics
		if !m.analyticsLoaded {
			return m.fetchAnalytics()
		}
		return m, nil
	}
	m.view = viewList
	return m, nil
}

func (m Model) openSearch() (tea.Model, tea.Cmd) {
	if m.searching {
		return m.flash("Uma busca já está em andamento."), nil
	}
	m.form = newSearchForm()
	m.modal = modalSearch
	return m, textinput.Blink
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalDeleteConfirm:
		switch msg.String() {
		case "y", "Y":
			m.modal = modalNone
			return m, deleteOne(m.backend, m.pendingDelete)
		case "n", "N", "esc":
			m.modal = modalNone
		}
		return m, nil

	case modalBulkConfirm:
		switch msg.String() {
		case "y", "Y":
			m.modal = modalNone
			return m, bulkDelete(m.backend, m.list.Selection.IDs())
		case "n", "N", "esc":
			m.modal = modalNone
		}
		return m, nil

	case modalTag:
		switch msg.Type {
		case tea.KeyEsc:
			m.modal = modalNone
			m.tagInput.Blur()
			return m, nil
		case tea.KeyEnter:
			m.modal = modalNone
			m.tagInput.Blur()
			tag := strings.TrimSpace(m.tagInput.Value())
			mention, ok := m.currentMention()
			if tag == "" || !ok {
				return m, nil
			}
			return m, updateTags(m.backend, mention.ID, tag, m.tagRemove)
		}
		var cmd tea.Cmd
		m.tagInput, cmd = m.tagInput.Update(msg)
		return m, cmd

	case modalFilter:
		switch msg.Type {
		case tea.KeyEsc:
			m.modal = modalNone
			m.form = nil
			return m, nil
		case tea.KeyEnter:
			return m.applyFilterForm()
		}
		return m, m.form.update(msg)

	case modalSearch:
		switch msg.Type {
		case tea.KeyEsc:
			m.modal = modalNone
			m.form = nil
			return m, nil
		case tea.KeyEnter:
			req, err := m.form.searchRequest()
			if err != nil {
				m.form.err = validationText(err)
				return m, nil
			}
			m.modal = modalNone
			m.form = nil
			m.searching = true
			return m, runSearch(m.backend, req)
		}
		return m, m.form.update(msg)

	case modalHelp:
		m.modal = modalNone
		return m, nil
	}

	return m, nil
}

// applyFilterForm validates the form and makes it the active view's applied criteria.
func (m Model) applyFilterForm() (tea.Model, tea.Cmd) {
	criteria := m.form.criteria()
	if err := criteria.Validate(); err != nil {
		m.form.err = validationText(err)
		return m, nil
	}

	m.modal = modalNone
	m.form = nil
	if m.view == viewAnalytics {
		m.analytics = m.analytics.EditFilters(criteria).ApplyFilters()
		return m.fetchAnalytics()
	}
	m.list = m.list.EditFilters(criteria).ApplyFilters()
	m.cursor = 0
	return m.fetchList()
}

// validationText renders a validation error for the user.
func validationText(err error) string {
	switch {
	case errors.Is(err, query.ErrMissingTerm):
		return "Informe um termo de busca."
	case errors.Is(err, query.ErrInvalidQty):
		return "Quantidade deve estar entre 1 e 100."
	case errors.Is(err, query.ErrInvalidDate):
		return "Datas devem usar o formato AAAA-MM-DD."
	case errors.Is(err, query.ErrInvalidRange):
		return "A data inicial não pode ser posterior à final."
	case errors.Is(err, query.ErrInvalidDateField):
		return "Campo de data inválido."
	default:
		return err.Error()
	}
}

// errorText prefers the backend's detail message when there is one.
func errorText(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
