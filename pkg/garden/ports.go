package garden

import "context"

// Repository ports. Any storage adapter satisfying these contracts plugs into
// the Service unchanged; repositories know nothing about each other, and
// cross-aggregate invariants live in the Service (backed by the adapter's
// unique and foreign-key constraints).

// ChannelRepository persists channels.
type ChannelRepository interface {
	// Create persists a new channel. Returns ErrDuplicate if the ID exists.
	Create(ctx context.Context, channel Channel) error

	// Get returns the channel, or nil if the ID is unknown.
	Get(ctx context.Context, id ChannelID) (*Channel, error)

	// List returns a page of channels ordered by creation time descending.
	List(ctx context.Context, limit, offset int) (Page[Channel], error)

	// Update overwrites an existing channel. Returns ErrNotFound if absent.
	Update(ctx context.Context, channel Channel) error

	// Delete removes a channel and cascades to its connections. Returns
	// ErrNotFound if absent. Blocks are never removed.
	Delete(ctx context.Context, id ChannelID) error

	// Count returns the total number of channels.
	Count(ctx context.Context) (int, error)
}

// BlockRepository persists blocks.
type BlockRepository interface {
	// Create persists a new block. Returns ErrDuplicate if the ID exists.
	Create(ctx context.Context, block Block) error

	// CreateBatch persists all blocks atomically: either every block in the
	// batch is written or none is.
	CreateBatch(ctx context.Context, blocks []Block) error

	// Get returns the block, or nil if the ID is unknown.
	Get(ctx context.Context, id BlockID) (*Block, error)

	// Update overwrites an existing block. Returns ErrNotFound if absent.
	Update(ctx context.Context, block Block) error

	// Delete removes a block and cascades to its connections. Returns
	// ErrNotFound if absent. Channels are never removed.
	Delete(ctx context.Context, id BlockID) error
}

// ConnectionRepository persists block-channel connections.
type ConnectionRepository interface {
	// Connect links a block to a channel at the given position. Returns
	// ErrDuplicate if the pair is already connected.
	Connect(ctx context.Context, blockID BlockID, channelID ChannelID, position int) error

	// ConnectBatch links all pairs atomically. Returns ErrDuplicate if any
	// pair already exists; in that case nothing is written.
	ConnectBatch(ctx context.Context, connections []Connection) error

	// Disconnect removes the connection. Returns ErrNotFound if absent.
	Disconnect(ctx context.Context, blockID BlockID, channelID ChannelID) error

	// GetBlocksInChannel returns the channel's blocks with their positions,
	// ordered ascending by position (stable tie-break on equal positions).
	GetBlocksInChannel(ctx context.Context, channelID ChannelID) ([]BlockWithPosition, error)

	// GetChannelsForBlock returns every channel the block is connected to.
	GetChannelsForBlock(ctx context.Context, blockID BlockID) ([]Channel, error)

	// GetConnection returns the connection, or nil if the pair is not
	// connected.
	GetConnection(ctx context.Context, blockID BlockID, channelID ChannelID) (*Connection, error)

	// Reorder overwrites the pair's position unconditionally; positions
	// colliding with other connections in the channel are permitted. Returns
	// ErrNotFound if the pair is absent.
	Reorder(ctx context.Context, channelID ChannelID, blockID BlockID, newPosition int) error

	// NextPosition returns max(position)+1 within the channel, or 0 when the
	// channel has no connections.
	NextPosition(ctx context.Context, channelID ChannelID) (int, error)
}
