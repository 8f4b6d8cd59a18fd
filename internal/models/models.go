// Package models provides the canonical to-do types shared by the state
// holders, the sync controller, and the gateway backends.
package models

// Draft is the in-progress, not-yet-persisted to-do item.
// Image holds the storage key of an attached photo, or "" when none.
type Draft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// IsEmpty reports whether the draft equals the initial empty draft.
func (d Draft) IsEmpty() bool {
	return d == Draft{}
}

// Item converts the draft into an unsaved to-do item.
// The image field keeps the raw storage key.
func (d Draft) Item() Item {
	return Item{
		Name:        d.Name,
		Description: d.Description,
		Image:       d.Image,
	}
}

// Item is a to-do item as held in the list.
//
// Image is a storage key on optimistic copies and a resolved, time-limited
// display URI on copies produced by a fetch. Do not assume it is displayable.
type Item struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image" yaml:"image"`
}

// HasImage reports whether the item carries an image reference.
func (i Item) HasImage() bool {
	return i.Image != ""
}

// Saved reports whether the item carries a gateway-assigned identity.
func (i Item) Saved() bool {
	return i.ID != ""
}

// UIState holds presentation flags for the creation flow.
// ImageURI is the local picker locator, distinct from the remote storage key.
type UIState struct {
	ShowForm bool   `json:"show_form"`
	ImageURI string `json:"image_uri,omitempty"`
}
