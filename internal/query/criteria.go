package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akilli/monitorx/internal/models"
)

// DateLayout is the format of date range bounds sent to the backend
const DateLayout = "2006-01-02"

var (
	// ErrInvalidDate is returned when a date bound is not YYYY-MM-DD
	ErrInvalidDate = errors.New("date must use the YYYY-MM-DD format")
	// ErrInvalidRange is returned when date_from is after date_to
	ErrInvalidRange = errors.New("date_from must not be after date_to")
	// ErrInvalidDateField is returned for a date field other than published or mined
	ErrInvalidDateField = errors.New("date_field must be 'published' or 'mined'")
)

// Criteria holds the user's filter selection. Every field is optional.
type Criteria struct {
	Text      string
	Channel   models.Channel
	Sentiment models.Sentiment
	Tag       string
	DateFrom  string
	DateTo    string
	DateField models.DateField
}

// Params returns the canonical outgoing parameters: only non-empty fields are included
func (c Criteria) Params() map[string]string {
	params := make(map[string]string)
	setIfPresent(params, "q", c.Text)
	setIfPresent(params, "canal", string(c.Channel))
	setIfPresent(params, "sentimento", string(c.Sentiment))
	setIfPresent(params, "tag", c.Tag)
	setIfPresent(params, "date_from", c.DateFrom)
	setIfPresent(params, "date_to", c.DateTo)
	setIfPresent(params, "date_field", string(c.DateField))
	return params
}

// ListParams returns the parameters of a GET /mentions request for the given page
func ListParams(c Criteria, page int) map[string]string {
	params := c.Params()
	if page < 1 {
		page = 1
	}
	params["limit"] = strconv.Itoa(models.PageSize)
	params["page"] = strconv.Itoa(page)
	params["date_field"] = string(c.EffectiveDateField())
	return params
}

// EffectiveDateField returns the date field, defaulting to published
func (c Criteria) EffectiveDateField() models.DateField {
	if c.DateField == "" {
		return models.DateFieldPublished
	}
	return c.DateField
}

// IsEmpty reports whether no filter is set
func (c Criteria) IsEmpty() bool {
	params := c.Params()
	delete(params, "date_field")
	return len(params) == 0
}

// Validate checks the date bounds before any request is issued
func (c Criteria) Validate() error {
	if c.DateField != "" && !c.DateField.IsValid() {
		return ErrInvalidDateField
	}
	return validateRange(c.DateFrom, c.DateTo)
}

func validateRange(from, to string) error {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)

	var fromDate, toDate time.Time
	var err error
	if from != "" {
		if fromDate, err = time.Parse(DateLayout, from); err != nil {
			return fmt.Errorf("date_from %q: %w", from, ErrInvalidDate)
		}
	}
	if to != "" {
		if toDate, err = time.Parse(DateLayout, to); err != nil {
			return fmt.Errorf("date_to %q: %w", to, ErrInvalidDate)
		}
	}
	if from != "" && to != "" && fromDate.After(toDate) {
		return ErrInvalidRange
	}
	return nil
}

func setIfPresent(params map[string]string, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		params[key] = v
	}
}
