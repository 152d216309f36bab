package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoData indicates that a session has no stored samples matching the
// reader filters.
var ErrNoData = errors.New("no samples stored for session")

// sessionData mirrors a sessions table row with nullable columns.
type sessionData struct {
	ID         int64
	ImportedAt time.Time
	LogPath    string
	Vehicle    sql.NullString
	Config     sql.NullString
}

func (d *sessionData) toSession() *Session {
	session := Session{
		ID:         d.ID,
		ImportedAt: d.ImportedAt,
		LogPath:    d.LogPath,
		Vehicle:    d.Vehicle.String,
	}
	if d.Config.Valid {
		session.Config = &d.Config.String
	}
	return &session
}

func scanSession(row *sql.Row) (*Session, error) {
	var data sessionData
	if err := row.Scan(&data.ID, &data.ImportedAt, &data.LogPath, &data.Vehicle, &data.Config); err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return data.toSession(), nil
}
