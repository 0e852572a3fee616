package sqlite

import (
	"errors"
	"fmt"
	"time"

	sqlite3 "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/mesh-intelligence/garden/pkg/garden"
)

// timeLayout is RFC3339 with fixed-width nanoseconds, always UTC. Fixed width
// keeps stored timestamps lexically sortable, which ORDER BY relies on.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s=%q", garden.ErrInvalidDatetime, column, value)
	}
	return t.UTC(), nil
}

// mapError classifies driver errors into the domain's repository sentinels.
// Uniqueness violations (including composite primary keys) become
// ErrDuplicate; everything else is wrapped under ErrDatabase with the failing
// operation named.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%s: %w", op, garden.ErrDuplicate)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, garden.ErrDatabase, err)
}

func encodeContent(content garden.BlockContent) (string, error) {
	data, err := garden.MarshalContent(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", garden.ErrSerialization, err)
	}
	return string(data), nil
}

func decodeContent(data string) (garden.BlockContent, error) {
	content, err := garden.UnmarshalContent([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", garden.ErrSerialization, err)
	}
	return content, nil
}
