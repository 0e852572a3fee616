package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mesh-intelligence/garden/pkg/garden"
)

type blockRepo struct {
	db *sql.DB
}

const blockColumns = "id, content_type, content_json, created_at, updated_at, source_url, source_title, creator, original_date, notes"

const insertBlockSQL = "INSERT INTO blocks (" + blockColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

func (r *blockRepo) Create(ctx context.Context, block garden.Block) error {
	args, err := blockArgs(block)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, insertBlockSQL, args...)
	return mapError("create block", err)
}

func (r *blockRepo) CreateBatch(ctx context.Context, blocks []garden.Block) error {
	if len(blocks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("create blocks", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertBlockSQL)
	if err != nil {
		return mapError("create blocks", err)
	}
	defer stmt.Close()

	for _, block := range blocks {
		args, err := blockArgs(block)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return mapError("create blocks", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return mapError("create blocks", err)
	}
	return nil
}

func (r *blockRepo) Get(ctx context.Context, id garden.BlockID) (*garden.Block, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+blockColumns+" FROM blocks WHERE id = ?", string(id))
	block, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return block, nil
}

func (r *blockRepo) Update(ctx context.Context, block garden.Block) error {
	contentJSON, err := encodeContent(block.Content)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE blocks SET content_type = ?, content_json = ?, updated_at = ?,
		 source_url = ?, source_title = ?, creator = ?, original_date = ?, notes = ?
		 WHERE id = ?`,
		string(block.Content.Type()),
		contentJSON,
		formatTime(block.UpdatedAt),
		block.SourceURL,
		block.SourceTitle,
		block.Creator,
		block.OriginalDate,
		block.Notes,
		string(block.ID),
	)
	if err != nil {
		return mapError("update block", err)
	}
	return requireAffected(res, "update block")
}

func (r *blockRepo) Delete(ctx context.Context, id garden.BlockID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM blocks WHERE id = ?", string(id))
	if err != nil {
		return mapError("delete block", err)
	}
	return requireAffected(res, "delete block")
}

func blockArgs(block garden.Block) ([]any, error) {
	contentJSON, err := encodeContent(block.Content)
	if err != nil {
		return nil, err
	}
	return []any{
		string(block.ID),
		string(block.Content.Type()),
		contentJSON,
		formatTime(block.CreatedAt),
		formatTime(block.UpdatedAt),
		block.SourceURL,
		block.SourceTitle,
		block.Creator,
		block.OriginalDate,
		block.Notes,
	}, nil
}

func scanBlock(row rowScanner) (*garden.Block, error) {
	var (
		id, contentType, contentJSON, createdAt, updatedAt string
		sourceURL, sourceTitle, creator                    sql.NullString
		originalDate, notes                                sql.NullString
	)
	err := row.Scan(&id, &contentType, &contentJSON, &createdAt, &updatedAt,
		&sourceURL, &sourceTitle, &creator, &originalDate, &notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, mapError("scan block", err)
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
	return &block, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
