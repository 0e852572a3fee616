package garden

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory implementation of all three repository ports,
// sharing one mutex-guarded state so cross-aggregate reads (blocks in a
// channel, channels for a block) and cascade deletes behave like a real
// backend. Useful as a test double and for ephemeral runs.
type MemoryStore struct {
	mu          sync.RWMutex
	channels    map[ChannelID]Channel
	channelSeq  []ChannelID // creation order, oldest first
	blocks      map[BlockID]Block
	connections []memConnection
	connSeq     int
}

// memConnection tracks insertion order so equal positions sort stably.
type memConnection struct {
	conn Connection
	seq  int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		channels: make(map[ChannelID]Channel),
		blocks:   make(map[BlockID]Block),
	}
}

// Channels returns the store's ChannelRepository view.
func (m *MemoryStore) Channels() ChannelRepository { return (*memChannelRepo)(m) }

// Blocks returns the store's BlockRepository view.
func (m *MemoryStore) Blocks() BlockRepository { return (*memBlockRepo)(m) }

// Connections returns the store's ConnectionRepository view.
func (m *MemoryStore) Connections() ConnectionRepository { return (*memConnectionRepo)(m) }

type memChannelRepo MemoryStore

func (r *memChannelRepo) Create(_ context.Context, channel Channel) error {
	m := (*MemoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.channels[channel.ID]; ok {
		return ErrDuplicate
	}
	m.channels[channel.ID] = channel
	m.channelSeq = append(m.channelSeq, channel.ID)
	return nil
}

func (r *memChannelRepo) Get(_ context.Context, id ChannelID) (*Channel, error) {
	m := (*MemoryStore)(r)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if channel, ok := m.channels[id]; ok {
		return &channel, nil
	}
	return nil, nil
}

func (r *memChannelRepo) List(_ context.Context, limit, offset int) (Page[Channel], error) {
	m := (*MemoryStore)(r)
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Newest first: reverse creation order.
	all := make([]Channel, 0, len(m.channelSeq))
	for i := len(m.channelSeq) - 1; i >= 0; i-- {
		all = append(all, m.channels[m.channelSeq[i]])
	}

	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	items := append([]Channel(nil), all[offset:end]...)
	return NewPage(items, total, offset, limit), nil
}

func (r *memChannelRepo) Update(_ context.Context, channel Channel) error {
	m := (*MemoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.channels[channel.ID]; !ok {
		return ErrNotFound
	}
	m.channels[channel.ID] = channel
	return nil
}

func (r *memChannelRepo) Delete(_ context.Context, id ChannelID) error {
	m := (*MemoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.channels[id]; !ok {
		return ErrNotFound
	}
	delete(m.channels, id)
	for i, cid := range m.channelSeq {
		if cid == id {
			m.channelSeq = append(m.channelSeq[:i], m.channelSeq[i+1:]...)
			break
		}
	}
	// Cascade: drop connections referencing the channel; blocks stay.
	kept := m.connections[:0]
	for _, mc := range m.connections {
		if mc.conn.ChannelID != id {
			kept = append(kept, mc)
		}
	}
	m.connections = kept
	return nil
}

func (r *memChannelRepo) Count(_ context.Context) (int, error) {
	m := (*MemoryStore)(r)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.channels), nil
}

type memBlockRepo MemoryStore

func (r *memBlockRepo) Create(_ context.Context, block Block) error {
	m := (*MemoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blocks[block.ID]; ok {
		return ErrDuplicate
	}
	m.blocks[block.ID] = block
	return nil
}

func (r *memBlockRepo) CreateBatch(_ context.Context, blocks []Block) error {
	m := (*MemoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, block := range blocks {
		if _, ok := m.blocks[block.ID]; ok {
			return ErrDuplicate
		}
	}
	for _, block := range blocks {
		m.blocks[block.ID] = block
	}
	return nil
}

func (r *memBlockRepo) Get(_ context.Context, id BlockID) (*Block, error) {
	m := (*MemoryStore)(r)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if block, ok := m.blocks[id]; ok {
		return &block, nil
	}
	return nil, nil
}

func (r *memBlockRepo) Update(_ context.Context, block Block) error {
	m := (*MemoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blocks[block.ID]; !ok {
		return ErrNotFound
	}
	m.blocks[block.ID] = block
	return nil
}

func (r *memBlockRepo) Delete(_ context.Context, id BlockID) error {
	m := (*MemoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blocks[id]; !ok {
		return ErrNotFound
	}
	delete(m.blocks, id)
	// Cascade: drop connections referencing the block; channels stay.
	kept := m.connections[:0]
	for _, mc := range m.connections {
		if mc.conn.BlockID != id {
			kept = append(kept, mc)
		}
	}
	m.connections = kept
	return nil
}

type memConnectionRepo MemoryStore

func (r *memConnectionRepo) Connect(_ context.Context, blockID BlockID, channelID ChannelID, position int) error {
	m := (*MemoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertConnection(NewConnectionEntity(blockID, channelID, position))
}

func (r *memConnectionRepo) ConnectBatch(_ context.Context, connections []Connection) error {
	m := (*MemoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, conn := range connections {
		if m.findConnection(conn.BlockID, conn.ChannelID) != nil {
			return ErrDuplicate
		}
	}
	for _, conn := range connections {
		if err := m.insertConnection(conn); err != nil {
			return err
		}
	}
	return nil
}

func (r *memConnectionRepo) Disconnect(_ context.Context, blockID BlockID, channelID ChannelID) error {
	m := (*MemoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, mc := range m.connections {
		if mc.conn.BlockID == blockID && mc.conn.ChannelID == channelID {
			m.connections = append(m.connections[:i], m.connections[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *memConnectionRepo) GetBlocksInChannel(_ context.Context, channelID ChannelID) ([]BlockWithPosition, error) {
	m := (*MemoryStore)(r)
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []memConnection
	for _, mc := range m.connections {
		if mc.conn.ChannelID == channelID {
			matched = append(matched, mc)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].conn.Position != matched[j].conn.Position {
			return matched[i].conn.Position < matched[j].conn.Position
		}
		return matched[i].seq < matched[j].seq
	})

	result := make([]BlockWithPosition, 0, len(matched))
	for _, mc := range matched {
		if block, ok := m.blocks[mc.conn.BlockID]; ok {
			result = append(result, BlockWithPosition{Block: block, Position: mc.conn.Position})
		}
	}
	return result, nil
}

func (r *memConnectionRepo) GetChannelsForBlock(_ context.Context, blockID BlockID) ([]Channel, error) {
	m := (*MemoryStore)(r)
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []memConnection
	for _, mc := range m.connections {
		if mc.conn.BlockID == blockID {
			matched = append(matched, mc)
		}
	}
	// Most recently connected first.
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })

	result := make([]Channel, 0, len(matched))
	for _, mc := range matched {
		if channel, ok := m.channels[mc.conn.ChannelID]; ok {
			result = append(result, channel)
		}
	}
	return result, nil
}

func (r *memConnectionRepo) GetConnection(_ context.Context, blockID BlockID, channelID ChannelID) (*Connection, error) {
	m := (*MemoryStore)(r)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mc := m.findConnection(blockID, channelID); mc != nil {
		conn := mc.conn
		return &conn, nil
	}
	return nil, nil
}

func (r *memConnectionRepo) Reorder(_ context.Context, channelID ChannelID, blockID BlockID, newPosition int) error {
	m := (*MemoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, mc := range m.connections {
		if mc.conn.BlockID == blockID && mc.conn.ChannelID == channelID {
			m.connections[i].conn.Position = newPosition
			return nil
		}
	}
	return ErrNotFound
}

func (r *memConnectionRepo) NextPosition(_ context.Context, channelID ChannelID) (int, error) {
	m := (*MemoryStore)(r)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var max int
	found := false
	for _, mc := range m.connections {
		if mc.conn.ChannelID != channelID {
			continue
		}
		if !found || mc.conn.Position > max {
			max = mc.conn.Position
			found = true
		}
	}
	if !found {
		return 0, nil
	}
	return max + 1, nil
}

// findConnection and insertConnection require m.mu held.

func (m *MemoryStore) findConnection(blockID BlockID, channelID ChannelID) *memConnection {
	for i := range m.connections {
		mc := &m.connections[i]
		if mc.conn.BlockID == blockID && mc.conn.ChannelID == channelID {
			return mc
		}
	}
	return nil
}

func (m *MemoryStore) insertConnection(conn Connection) error {
	if m.findConnection(conn.BlockID, conn.ChannelID) != nil {
		return ErrDuplicate
	}
	m.connSeq++
	m.connections = append(m.connections, memConnection{conn: conn, seq: m.connSeq})
	return nil
}
