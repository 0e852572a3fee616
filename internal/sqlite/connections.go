package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mesh-intelligence/garden/pkg/garden"
)

type connectionRepo struct {
	db *sql.DB
}

const insertConnectionSQL = "INSERT INTO connections (block_id, channel_id, position, connected_at) VALUES (?, ?, ?, ?)"

func (r *connectionRepo) Connect(ctx context.Context, blockID garden.BlockID, channelID garden.ChannelID, position int) error {
	conn := garden.NewConnectionEntity(blockID, channelID, position)
	_, err := r.db.ExecContext(ctx, insertConnectionSQL,
		string(conn.BlockID),
		string(conn.ChannelID),
		conn.Position,
		formatTime(conn.ConnectedAt),
	)
	return mapError("connect block", err)
}

func (r *connectionRepo) ConnectBatch(ctx context.Context, connections []garden.Connection) error {
	if len(connections) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("connect blocks", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertConnectionSQL)
	if err != nil {
		return mapError("connect blocks", err)
	}
	defer stmt.Close()

	for _, conn := range connections {
		_, err := stmt.ExecContext(ctx,
			string(conn.BlockID),
			string(conn.ChannelID),
			conn.Position,
			formatTime(conn.ConnectedAt),
		)
		if err != nil {
			return mapError("connect blocks", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return mapError("connect blocks", err)
	}
	return nil
}

func (r *connectionRepo) Disconnect(ctx context.Context, blockID garden.BlockID, channelID garden.ChannelID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM connections WHERE block_id = ? AND channel_id = ?",
		string(blockID), string(channelID))
	if err != nil {
		return mapError("disconnect block", err)
	}
	return requireAffected(res, "disconnect block")
}

func (r *connectionRepo) GetBlocksInChannel(ctx context.Context, channelID garden.ChannelID) ([]garden.BlockWithPosition, error) {
	// connected_at breaks position ties so equal positions keep a stable,
	// insertion-ordered rendering.
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.content_type, b.content_json, b.created_at, b.updated_at,
		        b.source_url, b.source_title, b.creator, b.original_date, b.notes,
		        c.position
		 FROM connections c
		 JOIN blocks b ON b.id = c.block_id
		 WHERE c.channel_id = ?
		 ORDER BY c.position ASC, c.connected_at ASC, b.id ASC`,
		string(channelID))
	if err != nil {
		return nil, mapError("get blocks in channel", err)
	}
	defer rows.Close()

	var result []garden.BlockWithPosition
	for rows.Next() {
		var (
			id, contentType, contentJSON, createdAt, updatedAt string
			sourceURL, sourceTitle, creator                    sql.NullString
			originalDate, notes                                sql.NullString
			position                                           int
		)
		err := rows.Scan(&id, &contentType, &contentJSON, &createdAt, &updatedAt,
			&sourceURL, &sourceTitle, &creator, &originalDate, &notes, &position)
		if err != nil {
			return nil, mapError("get blocks in channel", err)
		}

		content, err := decodeContent(contentJSON)
		if err != nil {
			return nil, err
		}
		block := garden.Block{
			ID:           garden.BlockID(id),
			Content:      content,
			SourceURL:    nullable(sourceURL),
			SourceTitle:  nullable(sourceTitle),
			Creator:      nullable(creator),
			OriginalDate: nullable(originalDate),
			Notes:        nullable(notes),
		}
		if block.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		if block.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
			return nil, err
		}
		result = append(result, garden.BlockWithPosition{Block: block, Position: position})
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("get blocks in channel", err)
	}
	return result, nil
}

func (r *connectionRepo) GetChannelsForBlock(ctx context.Context, blockID garden.BlockID) ([]garden.Channel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ch.id, ch.title, ch.description, ch.created_at, ch.updated_at
		 FROM connections c
		 JOIN channels ch ON ch.id = c.channel_id
		 WHERE c.block_id = ?
		 ORDER BY c.connected_at DESC, ch.id ASC`,
		string(blockID))
	if err != nil {
		return nil, mapError("get channels for block", err)
	}
	defer rows.Close()

	var result []garden.Channel
	for rows.Next() {
		channel, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *channel)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("get channels for block", err)
	}
	return result, nil
}

func (r *connectionRepo) GetConnection(ctx context.Context, blockID garden.BlockID, channelID garden.ChannelID) (*garden.Connection, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT block_id, channel_id, position, connected_at FROM connections WHERE block_id = ? AND channel_id = ?",
		string(blockID), string(channelID))

	var (
		bID, cID, connectedAt string
		position              int
	)
	err := row.Scan(&bID, &cID, &position, &connectedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get connection", err)
	}

	conn := garden.Connection{
		BlockID:   garden.BlockID(bID),
		ChannelID: garden.ChannelID(cID),
		Position:  position,
	}
	if conn.ConnectedAt, err = parseTime("connected_at", connectedAt); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepo) Reorder(ctx context.Context, channelID garden.ChannelID, blockID garden.BlockID, newPosition int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE connections SET position = ? WHERE block_id = ? AND channel_id = ?",
		newPosition, string(blockID), string(channelID))
	if err != nil {
		return mapError("reorder block", err)
	}
	return requireAffected(res, "reorder block")
}

func (r *connectionRepo) NextPosition(ctx context.Context, channelID garden.ChannelID) (int, error) {
	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT MAX(position) FROM connections WHERE channel_id = ?",
		string(channelID)).Scan(&max)
	if err != nil {
		return 0, mapError("next position", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}
