package garden

import "time"

// Connection joins one block to one channel at an ordering position. The
// (BlockID, ChannelID) pair is unique; a block connects to a channel at most
// once.
type Connection struct {
	BlockID   BlockID   `json:"block_id"`
	ChannelID ChannelID `json:"channel_id"`
	// Position orders blocks within a channel. Monotonically assigned on
	// append; not required to stay contiguous after reordering.
	Position    int       `json:"position"`
	ConnectedAt time.Time `json:"connected_at"`
}

// NewConnectionEntity constructs a connection stamped with the current time.
func NewConnectionEntity(blockID BlockID, channelID ChannelID, position int) Connection {
	return Connection{
		BlockID:     blockID,
		ChannelID:   channelID,
		Position:    position,
		ConnectedAt: time.Now().UTC(),
	}
}

// BlockWithPosition pairs a block with its position inside a channel.
type BlockWithPosition struct {
	Block    Block `json:"block"`
	Position int   `json:"position"`
}
