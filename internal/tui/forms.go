package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// AddInput collects the fields of a new to-do from the interactive form.
// Empty names and descriptions are accepted.
type AddInput struct {
	Name        string
	Description string
	// AttachPhoto is the answer to "Attach a photo?". The photo itself is
	// chosen afterwards through the picker.
	AttachPhoto bool
}

// NewAddForm builds the add form. askPhoto adds the attach confirmation.
func NewAddForm(in *AddInput, askPhoto bool) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Placeholder("What needs doing?").
			Value(&in.Name),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details (Markdown)").
			Value(&in.Description),
	}
	if askPhoto {
		fields = append(fields, huh.NewConfirm().
			Title("Attach a photo?").
			Affirmative("Yes").
			Negative("No").
			Value(&in.AttachPhoto))
	}
	return huh.NewForm(huh.NewGroup(fields...).Title("New todo"))
}

// RunAddForm shows the add form. It returns huh.ErrUserAborted when the
// user backs out.
func RunAddForm(ctx context.Context, in *AddInput, askPhoto bool) error {
	return NewAddForm(in, askPhoto).RunWithContext(ctx)
}

// PromptToken asks for an access token without echoing it.
func PromptToken(ctx context.Context) (string, error) {
	var token string
	input := huh.NewInput().
		Title("Access token").
		Description("Paste a Basecamp access token.").
		EchoMode(huh.EchoModePassword).
		Value(&token).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("this field is required")
			}
			return nil
		})
	err := huh.NewForm(huh.NewGroup(input)).RunWithContext(ctx)
	return strings.TrimSpace(token), err
}

// Confirm shows a yes/no confirmation prompt.
func Confirm(ctx context.Context, message string, defaultValue bool) (bool, error) {
	result := defaultValue
	confirm := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&result)
	err := huh.NewForm(huh.NewGroup(confirm)).RunWithContext(ctx)
	if err != nil {
		return defaultValue, err
	}
	return result, nil
}

// IsAborted reports whether err came from the user leaving a form.
func IsAborted(err error) bool {
	return errors.Is(err, huh.ErrUserAborted)
}
