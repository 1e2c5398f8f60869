package tui

import (
	"strconv"
	"strings"

	"github.com/akilli/monitorx/internal/models"
	"github.com/akilli/monitorx/internal/query"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formField is either a free text input or a choice cycled with left/right.
type formField struct {
	label   string
	input   textinput.Model
	options []string // nil for text fields; "" is the "all" option
	choice  int
}

func textField(label, placeholder, value string, limit int) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 30
	ti.SetValue(value)
	return formField{label: label, input: ti}
}

func choiceField(label string, options []string, value string) formField {
	f := formField{label: label, options: options}
	for i, o := range options {
		if o == value {
			f.choice = i
		}
	}
	return f
}

func (f formField) value() string {
	if f.options != nil {
		return f.options[f.choice]
	}
	return strings.TrimSpace(f.input.Value())
}

func (f formField) display() string {
	if f.options == nil {
		return f.input.View()
	}
	v := f.options[f.choice]
	if v == "" {
		v = "(todos)"
	}
	return "< " + v + " >"
}

// form is a small modal form: one focused field at a time, tab to move.
type form struct {
	title  string
	fields []formField
	focus  int
	err    string
}

func (f *form) focusField(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	i = (i + len(f.fields)) % len(f.fields)
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
	f.focus = i
	if f.fields[i].options == nil {
		return f.fields[i].input.Focus()
	}
	return nil
}

// update routes a key to the focused field. Enter and Esc are handled by the caller.
func (f *form) update(msg tea.KeyMsg) tea.Cmd {
	field := &f.fields[f.focus]
	switch msg.String() {
	case "tab", "down":
		return f.focusField(f.focus + 1)
	case "shift+tab", "up":
		return f.focusField(f.focus - 1)
	}

	if field.options != nil {
		switch msg.String() {
		case "left", "h":
			field.choice = (field.choice - 1 + len(field.options)) % len(field.options)
		case "right", "l", " ":
			field.choice = (field.choice + 1) % len(field.options)
		}
		return nil
	}

	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	return cmd
}

// Filter form field order
const (
	filterText = iota
	filterChannel
	filterSentiment
	filterTag
	filterDateFrom
	filterDateTo
	filterDateField
)

func newFilterForm(title string, c query.Criteria) *form {
	channels := []string{""}
	for _, ch := range models.Channels() {
		channels = append(channels, ch.String())
	}
	sentiments := []string{""}
	for _, s := range models.Sentiments() {
		sentiments = append(sentiments, s.String())
	}
	dateFields := []string{string(models.DateFieldPublished), string(models.DateFieldMined)}

	dateField := c.DateField
	if dateField == "" {
		dateField = models.DateFieldPublished
	}

	f := &form{
		title: title,
		fields: []formField{
			filterText:      textField("Busca", "texto livre", c.Text, 200),
			filterChannel:   choiceField("Canal", channels, c.Channel.String()),
			filterSentiment: choiceField("Sentimento", sentiments, c.Sentiment.String()),
			filterTag:       textField("Tag", "tag", c.Tag, 100),
			filterDateFrom:  textField("De", query.DateLayout, c.DateFrom, 10),
			filterDateTo:    textField("Até", query.DateLayout, c.DateTo, 10),
			filterDateField: choiceField("Campo de data", dateFields, string(dateField)),
		},
	}
	f.focusField(0)
	return f
}

func (f *form) criteria() query.Criteria {
	return query.Criteria{
		Text:      f.fields[filterText].value(),
		Channel:   models.Channel(f.fields[filterChannel].value()),
		Sentiment: models.Sentiment(f.fields[filterSentiment].value()),
		Tag:       f.fields[filterTag].value(),
		DateFrom:  f.fields[filterDateFrom].value(),
		DateTo:    f.fields[filterDateTo].value(),
		DateField: models.DateField(f.fields[filterDateField].value()),
	}
}

// Search form field order
const (
	searchTerm = iota
	searchQty
	searchDateFrom
	searchDateTo
	searchEnrich
)

func newSearchForm() *form {
	f := &form{
		title: "Executar busca",
		fields: []formField{
			searchTerm:     textField("Termo", "obrigatório", "", 200),
			searchQty:      textField("Quantidade", "1-100", "", 3),
			searchDateFrom: textField("De", query.DateLayout, "", 10),
			searchDateTo:   textField("Até", query.DateLayout, "", 10),
			searchEnrich:   choiceField("Enriquecer datas", []string{"não", "sim"}, "não"),
		},
	}
	f.focusField(0)
	return f
}

func (f *form) searchRequest() (query.SearchRequest, error) {
	req := query.SearchRequest{
		Term:        f.fields[searchTerm].value(),
		DateFrom:    f.fields[searchDateFrom].value(),
		DateTo:      f.fields[searchDateTo].value(),
		EnrichDates: f.fields[searchEnrich].value() == "sim",
	}
	if qty := f.fields[searchQty].value(); qty != "" {
		n, err := strconv.Atoi(qty)
		if err != nil {
			return req, query.ErrInvalidQty
		}
		req.Qty = n
	}
	return req, req.Validate()
}
