package sqlite

import (
	"database/sql"
	"encoding/json"

	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
)

// Scanner is satisfied by *sql.Row and *sql.Rows
type Scanner interface {
	Scan(dest ...any) error
}

// NullID converts an optional id into a nullable column value
func NullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// IDPtr converts a nullable column value back into an optional id
func IDPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// Bool converts a 0/1 column into a bool
func Bool(v int) bool {
	return v != 0
}

// Int converts a bool into a 0/1 column
func Int(b bool) int {
	if b {
		return 1
	}
	return 0
}

// EncodeJSON renders v for a TEXT column
func EncodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode json column")
	}
	return string(data), nil
}

// DecodeJSON parses a TEXT column into dst. Empty columns leave dst untouched.
func DecodeJSON(raw string, dst any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return errors.Wrap(err, "failed to decode json column")
	}
	return nil
}
