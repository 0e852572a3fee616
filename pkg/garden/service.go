package garden

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Service orchestrates cross-aggregate operations over the three
// repositories. It is the sole holder of invariants no single repository can
// enforce alone: a block connects to a channel at most once, connections
// reference existing endpoints, and batch operations are checked in full
// before anything is written.
//
// Service holds no in-process locks and no per-request state; it is safe to
// share across concurrent callers. The duplicate-connection pre-check is a
// fast path for a domain-specific error message; the storage layer's unique
// constraint remains the ultimate arbiter under races.
type Service struct {
	channels    ChannelRepository
	blocks      BlockRepository
	connections ConnectionRepository
	log         *zap.SugaredLogger
}

// NewService creates a Service over the given repositories. A nil logger
// disables logging.
func NewService(channels ChannelRepository, blocks BlockRepository, connections ConnectionRepository, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		channels:    channels,
		blocks:      blocks,
		connections: connections,
		log:         log,
	}
}

// CreateChannel validates the title and persists a new channel.
func (s *Service) CreateChannel(ctx context.Context, nc NewChannel) (Channel, error) {
	if err := ValidateChannelTitle(nc.Title); err != nil {
		return Channel{}, err
	}
	channel := NewChannelEntity(nc.Title, nc.Description)
	if err := s.channels.Create(ctx, channel); err != nil {
		return Channel{}, err
	}
	s.log.Infow("channel created", "channel_id", channel.ID, "title", channel.Title)
	return channel, nil
}

// GetChannel returns the channel or a ChannelNotFoundError.
func (s *Service) GetChannel(ctx context.Context, id ChannelID) (Channel, error) {
	channel, err := s.channels.Get(ctx, id)
	if err != nil {
		return Channel{}, err
	}
	if channel == nil {
		return Channel{}, &ChannelNotFoundError{ID: id}
	}
	return *channel, nil
}

// ListChannels returns a page of channels, newest first.
func (s *Service) ListChannels(ctx context.Context, limit, offset int) (Page[Channel], error) {
	return s.channels.List(ctx, limit, offset)
}

// UpdateChannel applies a partial update to an existing channel.
func (s *Service) UpdateChannel(ctx context.Context, id ChannelID, update ChannelUpdate) (Channel, error) {
	channel, err := s.GetChannel(ctx, id)
	if err != nil {
		return Channel{}, err
	}

	if update.Title != nil {
		if err := ValidateChannelTitle(*update.Title); err != nil {
			return Channel{}, err
		}
		channel.Title = *update.Title
	}
	channel.Description = update.Description.Apply(channel.Description)
	channel.UpdatedAt = time.Now().UTC()

	if err := s.channels.Update(ctx, channel); err != nil {
		return Channel{}, err
	}
	s.log.Infow("channel updated", "channel_id", channel.ID)
	return channel, nil
}

// DeleteChannel removes a channel. Its connections cascade away at the
// storage layer; blocks stay.
func (s *Service) DeleteChannel(ctx context.Context, id ChannelID) error {
	if _, err := s.GetChannel(ctx, id); err != nil {
		return err
	}
	if err := s.channels.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Infow("channel deleted", "channel_id", id)
	return nil
}

// CountChannels returns the total number of channels.
func (s *Service) CountChannels(ctx context.Context) (int, error) {
	return s.channels.Count(ctx)
}

// CreateBlock validates content and persists a new block.
func (s *Service) CreateBlock(ctx context.Context, nb NewBlock) (Block, error) {
	if err := ValidateBlockContent(nb.Content); err != nil {
		return Block{}, err
	}
	block := NewBlockEntity(nb)
	if err := s.blocks.Create(ctx, block); err != nil {
		return Block{}, err
	}
	s.log.Infow("block created", "block_id", block.ID, "content_type", block.Content.Type())
	return block, nil
}

// CreateBlocks validates every payload before persisting any, then writes the
// whole batch atomically. One invalid item rejects the entire batch.
func (s *Service) CreateBlocks(ctx context.Context, payloads []NewBlock) ([]Block, error) {
	for i, nb := range payloads {
		if err := ValidateBlockContent(nb.Content); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
	}

	blocks := make([]Block, 0, len(payloads))
	for _, nb := range payloads {
		blocks = append(blocks, NewBlockEntity(nb))
	}
	if err := s.blocks.CreateBatch(ctx, blocks); err != nil {
		return nil, err
	}
	s.log.Infow("blocks created", "count", len(blocks))
	return blocks, nil
}

// GetBlock returns the block or a BlockNotFoundError.
func (s *Service) GetBlock(ctx context.Context, id BlockID) (Block, error) {
	block, err := s.blocks.Get(ctx, id)
	if err != nil {
		return Block{}, err
	}
	if block == nil {
		return Block{}, &BlockNotFoundError{ID: id}
	}
	return *block, nil
}

// UpdateBlock applies a partial update to an existing block. Each metadata
// field resolves independently through its FieldUpdate.
func (s *Service) UpdateBlock(ctx context.Context, id BlockID, update BlockUpdate) (Block, error) {
	block, err := s.GetBlock(ctx, id)
	if err != nil {
		return Block{}, err
	}

	if update.Content != nil {
		if err := ValidateBlockContent(update.Content); err != nil {
			return Block{}, err
		}
		block.Content = update.Content
	}

	block.SourceURL = update.SourceURL.Apply(block.SourceURL)
	block.SourceTitle = update.SourceTitle.Apply(block.SourceTitle)
	block.Creator = update.Creator.Apply(block.Creator)
	block.OriginalDate = update.OriginalDate.Apply(block.OriginalDate)
	block.Notes = update.Notes.Apply(block.Notes)
	block.UpdatedAt = time.Now().UTC()

	if err := s.blocks.Update(ctx, block); err != nil {
		return Block{}, err
	}
	s.log.Infow("block updated", "block_id", block.ID)
	return block, nil
}

// DeleteBlock removes a block. Its connections cascade away at the storage
// layer; channels stay.
func (s *Service) DeleteBlock(ctx context.Context, id BlockID) error {
	if _, err := s.GetBlock(ctx, id); err != nil {
		return err
	}
	if err := s.blocks.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Infow("block deleted", "block_id", id)
	return nil
}

// ConnectBlock links a block to a channel. A nil position appends: the
// connection lands at the channel's next free position.
func (s *Service) ConnectBlock(ctx context.Context, blockID BlockID, channelID ChannelID, position *int) (Connection, error) {
	if _, err := s.GetBlock(ctx, blockID); err != nil {
		return Connection{}, err
	}
	if _, err := s.GetChannel(ctx, channelID); err != nil {
		return Connection{}, err
	}

	existing, err := s.connections.GetConnection(ctx, blockID, channelID)
	if err != nil {
		return Connection{}, err
	}
	if existing != nil {
		return Connection{}, invalidInputf("block is already connected to this channel")
	}

	pos := 0
	if position != nil {
		pos = *position
	} else {
		pos, err = s.connections.NextPosition(ctx, channelID)
		if err != nil {
			return Connection{}, err
		}
	}

	if err := s.connections.Connect(ctx, blockID, channelID, pos); err != nil {
		return Connection{}, err
	}
	s.log.Infow("block connected", "block_id", blockID, "channel_id", channelID, "position", pos)

	// Re-fetch so the caller gets exactly what was persisted.
	conn, err := s.connections.GetConnection(ctx, blockID, channelID)
	if err != nil {
		return Connection{}, err
	}
	if conn == nil {
		return Connection{}, &ConnectionNotFoundError{BlockID: blockID, ChannelID: channelID}
	}
	return *conn, nil
}

// ConnectBlocks links several blocks to one channel, assigning contiguous
// positions starting at startingPosition (or the channel's next free position
// when nil) in input order. Every precondition is checked before any write;
// the batch insert itself is atomic at the storage layer.
func (s *Service) ConnectBlocks(ctx context.Context, blockIDs []BlockID, channelID ChannelID, startingPosition *int) ([]Connection, error) {
	if _, err := s.GetChannel(ctx, channelID); err != nil {
		return nil, err
	}

	for _, blockID := range blockIDs {
		if _, err := s.GetBlock(ctx, blockID); err != nil {
			return nil, err
		}
		existing, err := s.connections.GetConnection(ctx, blockID, channelID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, invalidInputf("block %s is already connected to this channel", blockID)
		}
	}

	start := 0
	if startingPosition != nil {
		start = *startingPosition
	} else {
		var err error
		start, err = s.connections.NextPosition(ctx, channelID)
		if err != nil {
			return nil, err
		}
	}

	conns := make([]Connection, 0, len(blockIDs))
	for i, blockID := range blockIDs {
		conns = append(conns, NewConnectionEntity(blockID, channelID, start+i))
	}
	if err := s.connections.ConnectBatch(ctx, conns); err != nil {
		return nil, err
	}
	s.log.Infow("blocks connected", "channel_id", channelID, "count", len(conns), "start", start)

	result := make([]Connection, 0, len(blockIDs))
	for _, blockID := range blockIDs {
		conn, err := s.connections.GetConnection(ctx, blockID, channelID)
		if err != nil {
			return nil, err
		}
		if conn != nil {
			result = append(result, *conn)
		}
	}
	return result, nil
}

// DisconnectBlock removes the connection between a block and a channel.
func (s *Service) DisconnectBlock(ctx context.Context, blockID BlockID, channelID ChannelID) error {
	if _, err := s.GetConnection(ctx, blockID, channelID); err != nil {
		return err
	}
	if err := s.connections.Disconnect(ctx, blockID, channelID); err != nil {
		return err
	}
	s.log.Infow("block disconnected", "block_id", blockID, "channel_id", channelID)
	return nil
}

// GetBlocksInChannel returns the channel's blocks ordered by position.
func (s *Service) GetBlocksInChannel(ctx context.Context, channelID ChannelID) ([]Block, error) {
	withPos, err := s.connections.GetBlocksInChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	blocks := make([]Block, 0, len(withPos))
	for _, bp := range withPos {
		blocks = append(blocks, bp.Block)
	}
	return blocks, nil
}

// GetBlocksInChannelWithPositions returns the channel's blocks paired with
// their positions, ordered by position.
func (s *Service) GetBlocksInChannelWithPositions(ctx context.Context, channelID ChannelID) ([]BlockWithPosition, error) {
	return s.connections.GetBlocksInChannel(ctx, channelID)
}

// GetChannelsForBlock returns every channel the block is connected to.
func (s *Service) GetChannelsForBlock(ctx context.Context, blockID BlockID) ([]Channel, error) {
	return s.connections.GetChannelsForBlock(ctx, blockID)
}

// ReorderBlock moves a block to a new position within a channel. Position
// collisions with other blocks in the channel are permitted; ordering ties
// resolve by the adapter's stable secondary sort.
func (s *Service) ReorderBlock(ctx context.Context, channelID ChannelID, blockID BlockID, newPosition int) error {
	if _, err := s.GetConnection(ctx, blockID, channelID); err != nil {
		return err
	}
	if err := s.connections.Reorder(ctx, channelID, blockID, newPosition); err != nil {
		return err
	}
	s.log.Infow("block reordered", "block_id", blockID, "channel_id", channelID, "position", newPosition)
	return nil
}

// GetConnection returns the connection or a ConnectionNotFoundError.
func (s *Service) GetConnection(ctx context.Context, blockID BlockID, channelID ChannelID) (Connection, error) {
	conn, err := s.connections.GetConnection(ctx, blockID, channelID)
	if err != nil {
		return Connection{}, err
	}
	if conn == nil {
		return Connection{}, &ConnectionNotFoundError{BlockID: blockID, ChannelID: channelID}
	}
	return *conn, nil
}
