// Package gateway defines the remote gateway the app talks to: a data
// facility for listing and creating to-do items and a storage facility for
// photo attachments. Backends live in subpackages.
package gateway

//go:generate mockgen -source=gateway.go -destination=gatewaymock/gateway.go -package=gatewaymock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pocketlist/pocketlist/internal/models"
)

// Sentinel errors returned by backends.
var (
	ErrNotFound               = errors.New("not found")
	ErrUnsupportedAccessLevel = errors.New("unsupported access level")
	ErrInvalidKey             = errors.New("invalid storage key")
)

// AccessLevel scopes a stored object.
type AccessLevel string

const (
	Public    AccessLevel = "public"    // readable by everyone
	Protected AccessLevel = "protected" // readable by everyone, writable by owner
	Private   AccessLevel = "private"   // owner only
)

// ParseAccessLevel validates an access level name.
func ParseAccessLevel(s string) (AccessLevel, error) {
	switch AccessLevel(s) {
	case Public, Protected, Private:
		return AccessLevel(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAccessLevel, s)
	}
}

// ReadOptions controls StorageRead.
type ReadOptions struct {
	AccessLevel AccessLevel
	// Expires is how long the resolved URI stays valid. Zero lets the
	// backend pick its default.
	Expires time.Duration
}

// WriteOptions controls StorageWrite.
type WriteOptions struct {
	AccessLevel AccessLevel
	ContentType string
}

// Data is the gateway's data facility, scoped to the current principal.
type Data interface {
	// List fetches all items. Order is backend-defined.
	List(ctx context.Context) ([]models.Item, error)
	// Create persists one item and returns it with its assigned ID.
	Create(ctx context.Context, item models.Item) (models.Item, error)
}

// Storage is the gateway's file storage facility.
type Storage interface {
	// StorageRead resolves a key to a time-limited, fetchable URI.
	StorageRead(ctx context.Context, key string, opts ReadOptions) (string, error)
	// StorageWrite uploads body under key.
	StorageWrite(ctx context.Context, key string, body io.Reader, opts WriteOptions) error
}

// Gateway combines both facilities.
type Gateway interface {
	Data
	Storage
}

// Notifier is implemented by backends that can report remote changes.
// The channel is closed when ctx is done.
type Notifier interface {
	Changes(ctx context.Context) (<-chan struct{}, error)
}
