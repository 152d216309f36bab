// Package storage persists imported flight logs in SQLite so repeated
// analyses can reuse a log without re-parsing the CSV export.
package storage

import (
	"context"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/avionics-tools/flightlog/internal/flightlog"
)

// Session describes one imported flight log.
type Session struct {
	ID         int64     `json:"ID"`               // Unique identifier for the session
	ImportedAt time.Time `json:"importedAt"`       // When the log was imported
	LogPath    string    `json:"logPath"`          // Source log file path
	Vehicle    string    `json:"vehicle"`          // Vehicle name or airframe, free text
	Config     *string   `json:"config,omitempty"` // Optional import configuration in JSON format
}

// Sample is a single stored signal value. Value is nil where the log cell
// was NaN.
type Sample struct {
	Signal string   // Signal (column) name
	Row    int      // Zero-based row index within the log
	Time   float64  // Time index in seconds since log start
	Value  *float64 // Logged value, nil when the cell was not a number
}

// Store provides an interface for managing imported flight-log storage.
// All operations that write to the database should be considered atomic.
type Store interface {
	// CreateSession registers an imported log and returns its unique
	// identifier.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - logPath: Path of the source log file
	//   - vehicle: Vehicle name or airframe, free text
	//   - config: Optional import configuration. Can be string, []byte, or JSON-serializable object
	//
	// Returns:
	//   - sessionID: Unique identifier for the created session
	//   - error: If session creation fails or context is cancelled
	CreateSession(ctx context.Context, logPath, vehicle string, config any) (sessionID int64, err error)

	// Session retrieves a specific import session by its ID.
	Session(ctx context.Context, id int64) (session *Session, err error)

	// Sessions returns all import sessions stored in the database, ordered
	// by import time in ascending order.
	Sessions(ctx context.Context) (sessions []*Session, err error)

	// StoreFrame saves every column of a processed frame for a session in
	// a single transaction.
	StoreFrame(ctx context.Context, sessionID int64, f *flightlog.Frame) error

	// ReadSamples returns an iterator over the stored samples of a
	// session, ordered by signal and row, with optional signal and
	// time-range filtering.
	ReadSamples(ctx context.Context, sessionID int64, opts ...ReaderOption) (SampleReader, error)

	// ReadFrame reconstructs a frame from the stored samples of a session,
	// applying the same filters as ReadSamples.
	ReadFrame(ctx context.Context, sessionID int64, opts ...ReaderOption) (*flightlog.Frame, error)

	// Close releases all database connections and resources. After Close
	// is called, the store instance cannot be reused. It is safe to call
	// Close multiple times.
	Close() error
}

// SampleReader provides an iterator-based interface for reading stored
// samples.
type SampleReader interface {
	// Session returns metadata about the import session this reader is
	// accessing.
	Session() *Session

	// Next advances the iterator and returns true if there is another
	// sample to read, false when the iteration is complete or if an error
	// occurred.
	Next(ctx context.Context) bool

	// Current returns the current sample in the iteration. If called
	// after Next() returns false, the behavior is undefined.
	Current() Sample

	// Error returns any error that occurred during iteration. If Next()
	// returns false, Error() should be checked to distinguish between end
	// of data and an error condition.
	Error() error

	// Close releases any resources associated with the reader. After
	// Close is called, the reader should not be used.
	Close() error
}
