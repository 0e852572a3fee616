package garden

import (
	"errors"
	"fmt"
)

// Repository error categories. Adapters classify backend failures into these
// sentinels (usually wrapped with context via fmt.Errorf and %w) so the
// Service and transport layers can react without knowing the backend.
var (
	// ErrNotFound reports that a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate reports a uniqueness violation, e.g. a second connection
	// for the same (block, channel) pair losing the race at insert time.
	ErrDuplicate = errors.New("duplicate record")

	// ErrDatabase wraps opaque backend failures such as lost connectivity.
	ErrDatabase = errors.New("database error")

	// ErrSerialization reports that a content payload could not be encoded
	// or decoded.
	ErrSerialization = errors.New("serialization error")

	// ErrInvalidDatetime reports a malformed stored timestamp. Surfaced as a
	// distinct error instead of silently coercing the value.
	ErrInvalidDatetime = errors.New("invalid stored datetime")
)

// ChannelNotFoundError reports a lookup of a channel that does not exist.
type ChannelNotFoundError struct {
	ID ChannelID
}

func (e *ChannelNotFoundError) Error() string {
	return fmt.Sprintf("channel not found: %s", e.ID)
}

// BlockNotFoundError reports a lookup of a block that does not exist.
type BlockNotFoundError struct {
	ID BlockID
}

func (e *BlockNotFoundError) Error() string {
	return fmt.Sprintf("block not found: %s", e.ID)
}

// ConnectionNotFoundError reports a lookup of a block-channel connection that
// does not exist.
type ConnectionNotFoundError struct {
	BlockID   BlockID
	ChannelID ChannelID
}

func (e *ConnectionNotFoundError) Error() string {
	return fmt.Sprintf("connection not found: block %s in channel %s", e.BlockID, e.ChannelID)
}

// InvalidInputError reports a validation failure at the domain boundary.
// Caller input problem; never retried automatically.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func invalidInputf(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
