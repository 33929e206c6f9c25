package ui

import (
	"github.com/manifoldco/promptui"
)

// Prompter is the input seam between the interactive loop and the
// terminal. The router and operations depend on this interface so tests
// can script a session without a TTY.
type Prompter interface {
	// Select shows a menu and returns the chosen item's index.
	Select(label string, items []string) (int, error)
	// Input reads one free-form line.
	Input(label string) (string, error)
}

type terminalPrompter struct{}

// NewPrompter returns a Prompter backed by promptui.
func NewPrompter() Prompter {
	return terminalPrompter{}
}

func (terminalPrompter) Select(label string, items []string) (int, error) {
	sel := promptui.Select{
		Label: label,
		Items: items,
		Size:  len(items),
	}
	idx, _, err := sel.Run()
	if err != nil {
		return 0, err
	}
	return idx, nil
}

func (terminalPrompter) Input(label string) (string, error) {
	prompt := promptui.Prompt{Label: label}
	return prompt.Run()
}
