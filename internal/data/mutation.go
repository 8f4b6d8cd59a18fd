package data

import (
	"context"
	"fmt"
	"sync"

	"github.com/pocketlist/pocketlist/internal/gateway"
	"github.com/pocketlist/pocketlist/internal/models"
)

// Mutation describes an optimistic mutation lifecycle.
type Mutation[T any] interface {
	// ApplyLocally modifies the current state optimistically.
	ApplyLocally(current T) T

	// ApplyRemotely performs the gateway operation.
	ApplyRemotely(ctx context.Context) error

	// IsReflectedIn returns true when the remote data already contains
	// this mutation's effect.
	IsReflectedIn(remote T) bool
}

// AddMutation appends a new item to the list and creates it remotely.
// It has no rollback: a failed create leaves the optimistic entry in place
// until the next fetch replaces the list.
type AddMutation struct {
	Item models.Item
	data gateway.Data

	mu      sync.Mutex
	created models.Item
	failed  bool
}

var _ Mutation[[]models.Item] = (*AddMutation)(nil)

// NewAddMutation creates the mutation for item against d.
func NewAddMutation(d gateway.Data, item models.Item) *AddMutation {
	return &AddMutation{Item: item, data: d}
}

// ApplyLocally appends the unsaved item. The image field still holds the
// raw storage key.
func (m *AddMutation) ApplyLocally(current []models.Item) []models.Item {
	return append(current, m.Item)
}

// ApplyRemotely creates the item through the data facility.
func (m *AddMutation) ApplyRemotely(ctx context.Context) error {
	created, err := m.data.Create(ctx, m.Item)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.failed = true
		return fmt.Errorf("create todo: %w", err)
	}
	m.created = created
	return nil
}

// Created returns the item as persisted, valid after ApplyRemotely succeeds.
func (m *AddMutation) Created() models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}

// Failed reports whether ApplyRemotely returned an error.
func (m *AddMutation) Failed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed
}

// IsReflectedIn reports whether remote contains the created item.
// Before ApplyRemotely succeeds there is no ID to match, so it matches on
// content instead.
func (m *AddMutation) IsReflectedIn(remote []models.Item) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range remote {
		if m.created.ID != "" {
			if it.ID == m.created.ID {
				return true
			}
			continue
		}
		if it.Name == m.Item.Name && it.Description == m.Item.Description {
			return true
		}
	}
	return false
}
