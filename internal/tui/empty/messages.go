// Package empty provides the empty and loading state messages for list views.
package empty

import "strings"

// Message represents an empty state message with optional hints.
type Message struct {
	Title   string
	Body    string
	Hints   []string
	Command string // suggested command to run
}

// String joins the message into plain lines.
func (m Message) String() string {
	lines := []string{m.Title}
	if m.Body != "" {
		lines = append(lines, m.Body)
	}
	for _, h := range m.Hints {
		lines = append(lines, "  "+h)
	}
	return strings.Join(lines, "\n")
}

// NoTodos is shown when the fetched list is empty.
func NoTodos() Message {
	return Message{
		Title: "Your Todos",
		Body:  "You have no todos yet.",
		Hints: []string{"Press n to add one"},
	}
}

// NoTodosCLI is the non-interactive variant of NoTodos.
func NoTodosCLI() Message {
	return Message{
		Title:   "Your Todos",
		Body:    "You have no todos yet.",
		Hints:   []string{"Add one with: pocketlist add --name <text>"},
		Command: "pocketlist add",
	}
}

// Loading is shown before the first fetch completes.
func Loading() Message {
	return Message{
		Title: "Your Todos",
		Body:  "Loading…",
	}
}
