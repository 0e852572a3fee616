package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/garden/pkg/garden"
)

type channelRepo struct {
	db *sql.DB
}

const channelColumns = "id, title, description, created_at, updated_at"

func (r *channelRepo) Create(ctx context.Context, channel garden.Channel) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO channels (id, title, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		string(channel.ID),
		channel.Title,
		channel.Description,
		formatTime(channel.CreatedAt),
		formatTime(channel.UpdatedAt),
	)
	return mapError("create channel", err)
}

func (r *channelRepo) Get(ctx context.Context, id garden.ChannelID) (*garden.Channel, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+channelColumns+" FROM channels WHERE id = ?", string(id))
	channel, err := scanChannel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return channel, nil
}

func (r *channelRepo) List(ctx context.Context, limit, offset int) (garden.Page[garden.Channel], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM channels").Scan(&total); err != nil {
		return garden.Page[garden.Channel]{}, mapError("count channels", err)
	}

	// A non-positive limit means no cap; SQLite treats LIMIT -1 as unbounded.
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+channelColumns+" FROM channels ORDER BY created_at DESC, id LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return garden.Page[garden.Channel]{}, mapError("list channels", err)
	}
	defer rows.Close()

	var items []garden.Channel
	for rows.Next() {
		channel, err := scanChannel(rows)
		if err != nil {
			return garden.Page[garden.Channel]{}, err
		}
		items = append(items, *channel)
	}
	if err := rows.Err(); err != nil {
		return garden.Page[garden.Channel]{}, mapError("list channels", err)
	}
	if limit == -1 {
		limit = 0
	}
	return garden.NewPage(items, total, offset, limit), nil
}

func (r *channelRepo) Update(ctx context.Context, channel garden.Channel) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE channels SET title = ?, description = ?, updated_at = ? WHERE id = ?",
		channel.Title,
		channel.Description,
		formatTime(channel.UpdatedAt),
		string(channel.ID),
	)
	if err != nil {
		return mapError("update channel", err)
	}
	return requireAffected(res, "update channel")
}

func (r *channelRepo) Delete(ctx context.Context, id garden.ChannelID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM channels WHERE id = ?", string(id))
	if err != nil {
		return mapError("delete channel", err)
	}
	return requireAffected(res, "delete channel")
}

func (r *channelRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM channels").Scan(&n); err != nil {
		return 0, mapError("count channels", err)
	}
	return n, nil
}

// rowScanner lets scanChannel work for both QueryRow and Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanChannel(row rowScanner) (*garden.Channel, error) {
	var (
		id, title, createdAt, updatedAt string
		description                     sql.NullString
	)
	if err := row.Scan(&id, &title, &description, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, mapError("scan channel", err)
	}

	channel := garden.Channel{
		ID:    garden.ChannelID(id),
		Title: title,
	}
	if description.Valid {
		channel.Description = &description.String
	}
	var err error
	if channel.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if channel.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &channel, nil
}

// requireAffected converts a zero-row write into ErrNotFound.
func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, garden.ErrNotFound)
	}
	return nil
}
