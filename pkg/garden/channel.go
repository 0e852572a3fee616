package garden

import (
	"time"

	"github.com/google/uuid"
)

// ChannelID uniquely identifies a channel. Generated at creation, immutable.
type ChannelID string

// NewChannelID generates a random channel ID.
func NewChannelID() ChannelID {
	return ChannelID(uuid.NewString())
}

// Channel is a named collection that blocks can be connected to.
type Channel struct {
	ID          ChannelID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewChannelEntity constructs a channel with a fresh ID and timestamps.
// Title validation is the Service's responsibility.
func NewChannelEntity(title string, description *string) Channel {
	now := time.Now().UTC()
	return Channel{
		ID:          NewChannelID(),
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewChannel is the payload for creating a channel.
type NewChannel struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ChannelUpdate is the payload for updating a channel. A nil Title keeps the
// current title; Description follows the FieldUpdate protocol, with the zero
// value meaning Keep.
type ChannelUpdate struct {
	Title       *string             `json:"title,omitempty"`
	Description FieldUpdate[string] `json:"description,omitzero"`
}
