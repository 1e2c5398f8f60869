package listview

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/akilli/monitorx/internal/api"
	"github.com/akilli/monitorx/internal/models"
	"github.com/akilli/monitorx/internal/query"
	"github.com/sirupsen/logrus"
)

// Prompter asks the user to confirm destructive actions and shows notices
type Prompter interface {
	Confirm(message string) (bool, error)
	Notify(message string)
}

// Controller drives a List View against the backend. State transitions are
// pure; the controller adds the network calls around them.
type Controller struct {
	backend  api.Backend
	prompter Prompter

	mu    sync.Mutex
	state State
}

// NewController creates a controller with a freshly mounted state
func NewController(backend api.Backend, prompter Prompter) *Controller {
	return &Controller{
		backend:  backend,
		prompter: prompter,
		state:    New(),
	}
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) update(fn func(State) State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = fn(c.state)
	return c.state
}

// EditFilters changes the draft criteria without fetching
func (c *Controller) EditFilters(criteria query.Criteria) {
	c.update(func(s State) State { return s.EditFilters(criteria) })
}

// Apply validates the draft criteria, resets to page 1 and fetches
func (c *Controller) Apply(ctx context.Context) error {
	if err := c.State().Draft.Validate(); err != nil {
		return err
	}
	c.update(State.ApplyFilters)
	return c.Fetch(ctx)
}

// Fetch loads the current page for the applied criteria. A response that
// arrives after a newer fetch was issued is dropped.
func (c *Controller) Fetch(ctx context.Context) error {
	c.mu.Lock()
	var req FetchRequest
	c.state, req = c.state.BeginFetch()
	c.mu.Unlock()

	page, err := c.backend.ListMentions(ctx, req.Criteria, req.Page)

	c.mu.Lock()
	if err != nil {
		c.state, _ = c.state.FailFetch(req.Token, err)
		c.mu.Unlock()
		return fmt.Errorf("failed to fetch page %d: %w", req.Page, err)
	}

	var applied bool
	c.state, applied = c.state.ReceivePage(req.Token, page)
	if !applied {
		c.mu.Unlock()
		logrus.Debugf("Discarded stale page %d (request %d)", req.Page, req.Token)
		return nil
	}

	outOfRange := c.state.OutOfRange()
	if outOfRange {
		c.state = c.state.GoToPage(c.state.PageCount)
	}
	c.mu.Unlock()

	if outOfRange {
		logrus.Debugf("Page %d is past the last page, reloading page %d", req.Page, c.State().Page)
		return c.Fetch(ctx)
	}
	return nil
}

// GoTo moves to page n and fetches it. Nothing is fetched if the page does not change.
func (c *Controller) GoTo(ctx context.Context, n int) error {
	before := c.State().Page
	after := c.update(func(s State) State { return s.GoToPage(n) }).Page
	if after == before {
		return nil
	}
	return c.Fetch(ctx)
}

// Next fetches the following page
func (c *Controller) Next(ctx context.Context) error {
	return c.GoTo(ctx, c.State().Page+1)
}

// Prev fetches the previous page
func (c *Controller) Prev(ctx context.Context) error {
	return c.GoTo(ctx, c.State().Page-1)
}

// ToggleOne flips the selection of id
func (c *Controller) ToggleOne(id int64) {
	c.update(func(s State) State { return s.ToggleOne(id) })
}

// Select adds ids to the selection
func (c *Controller) Select(ids ...int64) {
	c.update(func(s State) State { return s.Select(ids...) })
}

// ToggleAllOnPage selects or deselects every id of the current page
func (c *Controller) ToggleAllOnPage() {
	c.update(State.ToggleAllOnPage)
}

// ClearSelection empties the selection
func (c *Controller) ClearSelection() {
	c.update(State.ClearSelection)
}

// DeleteOne deletes a single mention after confirmation. It reports whether
// the deletion was issued; when it was, a returned error comes from the
// refetch and the mention is already gone.
func (c *Controller) DeleteOne(ctx context.Context, id int64) (bool, error) {
	ok, err := c.prompter.Confirm(fmt.Sprintf("Tem certeza que deseja excluir a menção #%d?", id))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if _, err := c.backend.DeleteMention(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete mention %d: %w", id, err)
	}
	logrus.Infof("Deleted mention %d", id)

	c.update(func(s State) State {
		s, _ = s.AfterDelete([]int64{id})
		return s
	})
	return true, c.Fetch(ctx)
}

// BulkDelete deletes every selected mention after confirmation and returns
// the number the backend reports as deleted.
func (c *Controller) BulkDelete(ctx context.Context) (int, error) {
	ids := c.State().Selection.IDs()
	if len(ids) == 0 {
		c.prompter.Notify("Nenhuma menção selecionada.")
		return 0, nil
	}

	ok, err := c.prompter.Confirm(fmt.Sprintf("Excluir %d menção(ões)? Esta ação não pode ser desfeita.", len(ids)))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	result, err := c.backend.BulkDelete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %d mentions: %w", len(ids), err)
	}
	logrus.Infof("Bulk delete requested %d, backend deleted %d", len(ids), result.Deleted)

	c.update(func(s State) State {
		s, _ = s.AfterDelete(ids)
		return s
	})

	fetchErr := c.Fetch(ctx)
	c.prompter.Notify(fmt.Sprintf("Excluídas: %d", result.Deleted))
	return result.Deleted, fetchErr
}

// AddTag adds a tag to a mention and reloads the page. An empty tag is ignored.
func (c *Controller) AddTag(ctx context.Context, id int64, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil
	}
	if _, err := c.backend.UpdateTags(ctx, id, models.TagUpdate{Add: []string{tag}}); err != nil {
		return fmt.Errorf("failed to tag mention %d: %w", id, err)
	}
	return c.Fetch(ctx)
}

// RemoveTag removes a tag from a mention and reloads the page. An empty tag is ignored.
func (c *Controller) RemoveTag(ctx context.Context, id int64, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil
	}
	if _, err := c.backend.UpdateTags(ctx, id, models.TagUpdate{Remove: []string{tag}}); err != nil {
		return fmt.Errorf("failed to untag mention %d: %w", id, err)
	}
	return c.Fetch(ctx)
}
