package analytics

import (
	"context"
	"fmt"
	"sync"

	"github.com/akilli/monitorx/internal/api"
	"github.com/akilli/monitorx/internal/models"
	"github.com/akilli/monitorx/internal/query"
	"github.com/sirupsen/logrus"
)

// State is the read-only analytics view state. Like the list view it is a
// value and transitions return a new State.
type State struct {
	Draft   query.Criteria
	Applied query.Criteria

	Data    models.Analytics
	Loading bool
	Err     error

	token uint64
}

// New returns the state of a freshly mounted analytics view
func New() State {
	defaults := query.Criteria{DateField: models.DateFieldMined}
	return State{Draft: defaults, Applied: defaults}
}

// EditFilters replaces the draft criteria without fetching
func (s State) EditFilters(c query.Criteria) State {
	s.Draft = c
	return s
}

// ApplyFilters makes the draft criteria effective
func (s State) ApplyFilters() State {
	s.Applied = s.Draft
	return s
}

// BeginFetch marks the view as loading and returns the token and criteria to fetch with
func (s State) BeginFetch() (State, uint64, query.Criteria) {
	s.token++
	s.Loading = true
	return s, s.token, s.Applied
}

// Receive replaces the aggregates unless the result is stale
func (s State) Receive(token uint64, data *models.Analytics) (State, bool) {
	if token != s.token {
		return s, false
	}
	s.Loading = false
	s.Err = nil
	s.Data = *data
	return s, true
}

// Fail records a failed fetch, keeping the previous aggregates
func (s State) Fail(token uint64, err error) (State, bool) {
	if token != s.token {
		return s, false
	}
	s.Loading = false
	s.Err = err
	return s, true
}

// Charts returns the chart shapes of the current aggregates
func (s State) Charts() Charts {
	return BuildCharts(s.Data)
}

// Controller fetches aggregates for an analytics view
type Controller struct {
	backend api.Backend

	mu    sync.Mutex
	state State
}

// NewController creates a controller with a freshly mounted state
func NewController(backend api.Backend) *Controller {
	return &Controller{backend: backend, state: New()}
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// EditFilters changes the draft criteria without fetching
func (c *Controller) EditFilters(criteria query.Criteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.EditFilters(criteria)
}

// Apply validates and applies the draft criteria, then fetches
func (c *Controller) Apply(ctx context.Context) error {
	c.mu.Lock()
	if err := c.state.Draft.Validate(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = c.state.ApplyFilters()
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// Fetch loads aggregates for the applied criteria
func (c *Controller) Fetch(ctx context.Context) error {
	c.mu.Lock()
	var token uint64
	var criteria query.Criteria
	c.state, token, criteria = c.state.BeginFetch()
	c.mu.Unlock()

	data, err := c.backend.GetAnalytics(ctx, criteria)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state, _ = c.state.Fail(token, err)
		return fmt.Errorf("failed to fetch analytics: %w", err)
	}
	var applied bool
	if c.state, applied = c.state.Receive(token, data); !applied {
		logrus.Debugf("Discarded stale analytics response (request %d)", token)
	}
	return nil
}
