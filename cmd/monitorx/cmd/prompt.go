package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/akilli/monitorx/internal/listview"
	"github.com/charmbracelet/huh"
)

// huhPrompter confirms destructive actions with an interactive huh form.
type huhPrompter struct {
	out       io.Writer
	assumeYes bool
}

var _ listview.Prompter = (*huhPrompter)(nil)

// newPrompter is replaced in tests so no terminal is needed.
var newPrompter = func(out io.Writer, yes bool) listview.Prompter {
	return &huhPrompter{out: out, assumeYes: yes}
}

func (p *huhPrompter) Confirm(message string) (bool, error) {
	if p.assumeYes {
		return true, nil
	}

	var ok bool
	err := huh.NewConfirm().
		Title(message).
		Affirmative("Sim").
		Negative("Não").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return ok, nil
}

func (p *huhPrompter) Notify(message string) {
	fmt.Fprintln(p.out, message)
}
