package listview

import (
	"github.com/akilli/monitorx/internal/models"
	"github.com/akilli/monitorx/internal/query"
)

// State is the complete List View state. It is a value: every transition
// returns a new State and leaves the receiver untouched.
type State struct {
	// Draft holds what the user typed; Applied is what fetches use.
	Draft   query.Criteria
	Applied query.Criteria

	Page      int
	Total     int
	PageCount int
	Items     []models.Mention

	Selection Selection

	Loading bool
	Err     error

	// token of the latest fetch issued; results carrying an older token are stale
	token uint64
}

// FetchRequest describes one page fetch issued by BeginFetch
type FetchRequest struct {
	Token    uint64
	Criteria query.Criteria
	Page     int
}

// New returns the state of a freshly mounted list view
func New() State {
	defaults := query.Criteria{DateField: models.DateFieldPublished}
	return State{
		Draft:     defaults,
		Applied:   defaults,
		Page:      1,
		PageCount: 1,
		Selection: NewSelection(),
	}
}

// EditFilters replaces the draft criteria. Nothing is fetched until ApplyFilters.
func (s State) EditFilters(c query.Criteria) State {
	s.Draft = c
	return s
}

// ApplyFilters makes the draft criteria effective and returns to the first page
func (s State) ApplyFilters() State {
	s.Applied = s.Draft
	s.Page = 1
	return s
}

// GoToPage moves to page n, clamped to the known page range
func (s State) GoToPage(n int) State {
	s.Page = clamp(n, 1, s.lastPage())
	return s
}

// NextPage moves forward one page if possible
func (s State) NextPage() State {
	return s.GoToPage(s.Page + 1)
}

// PrevPage moves back one page if possible
func (s State) PrevPage() State {
	return s.GoToPage(s.Page - 1)
}

// CanPrev reports whether a previous page exists
func (s State) CanPrev() bool {
	return s.Page > 1
}

// CanNext reports whether a next page exists
func (s State) CanNext() bool {
	return s.Page < s.PageCount
}

// OutOfRange reports whether the current page lies beyond the reported page count
func (s State) OutOfRange() bool {
	return s.Page > s.lastPage()
}

func (s State) lastPage() int {
	if s.PageCount < 1 {
		return 1
	}
	return s.PageCount
}

// PageIDs returns the ids displayed on the current page
func (s State) PageIDs() []int64 {
	ids := make([]int64, len(s.Items))
	for i, m := range s.Items {
		ids[i] = m.ID
	}
	return ids
}

// ToggleOne flips the selection of id
func (s State) ToggleOne(id int64) State {
	s.Selection = s.Selection.Toggle(id)
	return s
}

// Select adds ids to the selection
func (s State) Select(ids ...int64) State {
	s.Selection = s.Selection.With(ids...)
	return s
}

// ToggleAllOnPage deselects every id of the page when all of them are
// selected, and selects them all otherwise
func (s State) ToggleAllOnPage() State {
	if s.PageSelection() == PageSelectionAll {
		s.Selection = s.Selection.Without(s.PageIDs()...)
	} else {
		s.Selection = s.Selection.With(s.PageIDs()...)
	}
	return s
}

// ClearSelection empties the selection
func (s State) ClearSelection() State {
	s.Selection = NewSelection()
	return s
}

// PageSelection derives the tri-state of the select-all-on-page control
func (s State) PageSelection() PageSelection {
	if len(s.Items) == 0 {
		return PageSelectionNone
	}
	selected := 0
	for _, m := range s.Items {
		if s.Selection.Has(m.ID) {
			selected++
		}
	}
	switch {
	case selected == len(s.Items):
		return PageSelectionAll
	case selected > 0:
		return PageSelectionPartial
	default:
		return PageSelectionNone
	}
}

// BeginFetch marks the view as loading and issues a new request token
func (s State) BeginFetch() (State, FetchRequest) {
	s.token++
	s.Loading = true
	return s, FetchRequest{Token: s.token, Criteria: s.Applied, Page: s.Page}
}

// ReceivePage applies a fetched page. Results for a superseded request are
// discarded and reported as not applied.
func (s State) ReceivePage(token uint64, page *models.MentionPage) (State, bool) {
	if token != s.token {
		return s, false
	}
	s.Loading = false
	s.Err = nil
	s.Items = page.Items
	if s.Items == nil {
		s.Items = []models.Mention{}
	}
	s.Total = page.Total
	s.PageCount = page.PageCount
	if s.PageCount < 1 {
		s.PageCount = 1
	}
	return s, true
}

// FailFetch records a failed fetch, leaving the displayed data unchanged
func (s State) FailFetch(token uint64, err error) (State, bool) {
	if token != s.token {
		return s, false
	}
	s.Loading = false
	s.Err = err
	return s, true
}

// AfterDelete drops deleted ids from the selection and applies the page
// boundary rule: when every row of the displayed page was deleted and this
// is not the first page, step back one page. An empty page never moves.
// It reports whether the page changed.
func (s State) AfterDelete(ids []int64) (State, bool) {
	deleted := NewSelection(ids...)
	onPage := 0
	for _, m := range s.Items {
		if deleted.Has(m.ID) {
			onPage++
		}
	}

	s.Selection = s.Selection.Without(ids...)

	if len(s.Items) > 0 && onPage == len(s.Items) && s.Page > 1 {
		s.Page--
		return s, true
	}
	return s, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
