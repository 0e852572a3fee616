package garden

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BlockID uniquely identifies a block. Generated at creation, immutable.
type BlockID string

// NewBlockID generates a random block ID.
func NewBlockID() BlockID {
	return BlockID(uuid.NewString())
}

// Block is a unit of curated content together with archival metadata about
// where it came from.
type Block struct {
	ID        BlockID      `json:"id"`
	Content   BlockContent `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	// Archival metadata, all optional.
	SourceURL    *string `json:"source_url,omitempty"`
	SourceTitle  *string `json:"source_title,omitempty"`
	Creator      *string `json:"creator,omitempty"`
	OriginalDate *string `json:"original_date,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// NewBlockEntity constructs a block from a creation payload with a fresh ID
// and timestamps. Content validation is the Service's responsibility.
func NewBlockEntity(nb NewBlock) Block {
	now := time.Now().UTC()
	return Block{
		ID:           NewBlockID(),
		Content:      nb.Content,
		CreatedAt:    now,
		UpdatedAt:    now,
		SourceURL:    nb.SourceURL,
		SourceTitle:  nb.SourceTitle,
		Creator:      nb.Creator,
		OriginalDate: nb.OriginalDate,
		Notes:        nb.Notes,
	}
}

// DisplayTitle derives a human-readable label for this block.
func (b Block) DisplayTitle() string {
	return b.Content.DisplayTitle()
}

// IsMedia reports whether this block holds media content.
func (b Block) IsMedia() bool {
	return IsMedia(b.Content)
}

// blockJSON is the wire shape of Block; Content travels as a tagged object.
type blockJSON struct {
	ID           BlockID         `json:"id"`
	Content      json.RawMessage `json:"content"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	SourceURL    *string         `json:"source_url,omitempty"`
	SourceTitle  *string         `json:"source_title,omitempty"`
	Creator      *string         `json:"creator,omitempty"`
	OriginalDate *string         `json:"original_date,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (b Block) MarshalJSON() ([]byte, error) {
	content, err := MarshalContent(b.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(blockJSON{
		ID:           b.ID,
		Content:      content,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
		SourceURL:    b.SourceURL,
		SourceTitle:  b.SourceTitle,
		Creator:      b.Creator,
		OriginalDate: b.OriginalDate,
		Notes:        b.Notes,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw blockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	content, err := UnmarshalContent(raw.Content)
	if err != nil {
		return err
	}
	*b = Block{
		ID:           raw.ID,
		Content:      content,
		CreatedAt:    raw.CreatedAt,
		UpdatedAt:    raw.UpdatedAt,
		SourceURL:    raw.SourceURL,
		SourceTitle:  raw.SourceTitle,
		Creator:      raw.Creator,
		OriginalDate: raw.OriginalDate,
		Notes:        raw.Notes,
	}
	return nil
}

// NewBlock is the payload for creating a block.
type NewBlock struct {
	Content      BlockContent
	SourceURL    *string
	SourceTitle  *string
	Creator      *string
	OriginalDate *string
	Notes        *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (nb *NewBlock) UnmarshalJSON(data []byte) error {
	var raw struct {
		Content      json.RawMessage `json:"content"`
		SourceURL    *string         `json:"source_url"`
		SourceTitle  *string         `json:"source_title"`
		Creator      *string         `json:"creator"`
		OriginalDate *string         `json:"original_date"`
		Notes        *string         `json:"notes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Content) == 0 {
		return fmt.Errorf("new block: missing content")
	}
	content, err := UnmarshalContent(raw.Content)
	if err != nil {
		return err
	}
	*nb = NewBlock{
		Content:      content,
		SourceURL:    raw.SourceURL,
		SourceTitle:  raw.SourceTitle,
		Creator:      raw.Creator,
		OriginalDate: raw.OriginalDate,
		Notes:        raw.Notes,
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (nb NewBlock) MarshalJSON() ([]byte, error) {
	content, err := MarshalContent(nb.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Content      json.RawMessage `json:"content"`
		SourceURL    *string         `json:"source_url,omitempty"`
		SourceTitle  *string         `json:"source_title,omitempty"`
		Creator      *string         `json:"creator,omitempty"`
		OriginalDate *string         `json:"original_date,omitempty"`
		Notes        *string         `json:"notes,omitempty"`
	}{content, nb.SourceURL, nb.SourceTitle, nb.Creator, nb.OriginalDate, nb.Notes})
}

// BlockUpdate is the payload for updating a block. A nil Content keeps the
// current content; the metadata fields follow the FieldUpdate protocol, with
// the zero value meaning Keep.
type BlockUpdate struct {
	Content      BlockContent
	SourceURL    FieldUpdate[string]
	SourceTitle  FieldUpdate[string]
	Creator      FieldUpdate[string]
	OriginalDate FieldUpdate[string]
	Notes        FieldUpdate[string]
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *BlockUpdate) UnmarshalJSON(data []byte) error {
	var raw struct {
		Content      json.RawMessage     `json:"content"`
		SourceURL    FieldUpdate[string] `json:"source_url"`
		SourceTitle  FieldUpdate[string] `json:"source_title"`
		Creator      FieldUpdate[string] `json:"creator"`
		OriginalDate FieldUpdate[string] `json:"original_date"`
		Notes        FieldUpdate[string] `json:"notes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var content BlockContent
	if len(raw.Content) > 0 && string(raw.Content) != "null" {
		c, err := UnmarshalContent(raw.Content)
		if err != nil {
			return err
		}
		content = c
	}
	*u = BlockUpdate{
		Content:      content,
		SourceURL:    raw.SourceURL,
		SourceTitle:  raw.SourceTitle,
		Creator:      raw.Creator,
		OriginalDate: raw.OriginalDate,
		Notes:        raw.Notes,
	}
	return nil
}
