// Package state holds the on-device state of the to-do app: the draft being
// edited with its form flags, and the in-memory copy of the fetched list.
//
// Holders are mutated from bubbletea command goroutines as well as from
// Update, so every accessor takes the holder's lock. Each mutation bumps a
// version counter that views use as their redraw signal.
package state

import (
	"sync"

	"github.com/pocketlist/pocketlist/internal/models"
)

// Field names a draft field for UpdateField.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldImage       Field = "image"
)

// Phase is the creation-flow state derived from the form holder.
type Phase int

const (
	PhaseHidden        Phase = iota // form not shown
	PhaseFormOpen                   // form shown, no photo
	PhaseImageAttached              // form shown with a photo preview
	PhaseSubmitting                 // submit in flight
)

func (p Phase) String() string {
	switch p {
	case PhaseHidden:
		return "hidden"
	case PhaseFormOpen:
		return "form-open"
	case PhaseImageAttached:
		return "image-attached"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Form owns the draft of a new to-do item and the creation form's UI state.
type Form struct {
	mu         sync.RWMutex
	draft      models.Draft
	ui         models.UIState
	submitting int
	version    uint64
}

// NewForm returns a holder with an empty draft and the form hidden.
func NewForm() *Form {
	return &Form{}
}

// Draft returns a copy of the current draft.
func (f *Form) Draft() models.Draft {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.draft
}

// UI returns a copy of the current UI state.
func (f *Form) UI() models.UIState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ui
}

// Version returns a counter incremented on every change.
func (f *Form) Version() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.version
}

// UpdateField merges one field into the draft, leaving the others intact.
// Values are not validated. Unknown fields are ignored.
func (f *Form) UpdateField(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch field {
	case FieldName:
		f.draft.Name = value
	case FieldDescription:
		f.draft.Description = value
	case FieldImage:
		f.draft.Image = value
	default:
		return
	}
	f.version++
}

// Reset restores the empty draft. UI state is untouched.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	f.version++
}

// reset clears the draft. Callers hold f.mu.
func (f *Form) reset() {
	f.draft = models.Draft{}
}

// Open shows the creation form.
func (f *Form) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ui.ShowForm = true
	f.version++
}

// Cancel hides the form and discards the draft and any attached photo
// without persisting anything.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	f.ui = models.UIState{}
	f.version++
}

// AttachImage records a picked photo: the local locator for upload and the
// generated storage key on the draft.
func (f *Form) AttachImage(localURI, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ui.ImageURI = localURI
	f.draft.Image = key
	f.version++
}

// Close resets both the draft and the UI state after a successful submit.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	f.ui = models.UIState{}
	if f.submitting > 0 {
		f.submitting--
	}
	f.version++
}

// BeginSubmit marks a submit as in flight. It never refuses: overlapping
// submits are counted, not rejected.
func (f *Form) BeginSubmit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting++
	f.version++
}

// EndSubmit clears one in-flight submit without touching the draft.
func (f *Form) EndSubmit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting > 0 {
		f.submitting--
	}
	f.version++
}

// Phase reports where the creation flow currently is.
func (f *Form) Phase() Phase {
	f.mu.RLock()
	defer f.mu.RUnlock()
	switch {
	case f.submitting > 0:
		return PhaseSubmitting
	case !f.ui.ShowForm:
		return PhaseHidden
	case f.ui.ImageURI != "":
		return PhaseImageAttached
	default:
		return PhaseFormOpen
	}
}
