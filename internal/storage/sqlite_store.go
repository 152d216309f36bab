package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/avionics-tools/flightlog/internal/flightlog"
)

// SqliteStore implements Store backed by a SQLite database file. Writes go
// through a WAL connection, reads through a separate read-only connection;
// both are opened lazily.
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a store for the given database file. The file and
// schema are created on first write.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = err
			return
		}

		if err = initSchema(db); err != nil {
			_ = db.Close()
			s.writeDBErr = err
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = err
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// CreateSession registers an imported log and returns its ID.
func (s *SqliteStore) CreateSession(ctx context.Context, logPath, vehicle string, config any) (sessionID int64, err error) {
	var configData sql.NullString

	if config != nil {
		switch v := config.(type) {
		case string:
			configData.Valid = true
			configData.String = v

		case []byte:
			configData.Valid = true
			configData.String = string(v)

		default:
			var p []byte
			if p, err = json.Marshal(config); err != nil {
				err = fmt.Errorf("marshaling config: %w", err)
				return
			}

			configData.Valid = true
			configData.String = string(p)
		}
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, logPath, vehicle, configData)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	return result.LastInsertId()
}

// Session returns a session by its ID.
func (s *SqliteStore) Session(ctx context.Context, id int64) (session *Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	return scanSession(stmt.QueryRowContext(ctx, id))
}

// Sessions returns every import session ordered by import time.
func (s *SqliteStore) Sessions(ctx context.Context) (sessions []*Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		err = fmt.Errorf("querying sessions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var data sessionData
		if err = rows.Scan(&data.ID, &data.ImportedAt, &data.LogPath, &data.Vehicle, &data.Config); err != nil {
			err = fmt.Errorf("scanning session: %w", err)
			return
		}
		sessions = append(sessions, data.toSession())
	}
	err = rows.Err()
	return
}

// StoreFrame saves every column of a frame in a single transaction. NaN
// cells are stored as NULL.
func (s *SqliteStore) StoreFrame(ctx context.Context, sessionID int64, f *flightlog.Frame) (err error) {
	if f.NumRows() == 0 {
		return nil
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if cErr := tx.Rollback(); cErr != nil && !errors.Is(cErr, sql.ErrTxDone) && err == nil {
			err = fmt.Errorf("rolling back transaction: %w", cErr)
		}
	}()

	signalStmt, err := tx.PrepareContext(ctx, insertSignalSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(signalStmt, &err)

	sampleStmt, err := tx.PrepareContext(ctx, insertSampleSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(sampleStmt, &err)

	for _, name := range f.Columns() {
		values, cErr := f.Column(name)
		if cErr != nil {
			return cErr
		}

		result, sErr := signalStmt.ExecContext(ctx, sessionID, name)
		if sErr != nil {
			return fmt.Errorf("inserting signal %s: %w", name, sErr)
		}
		signalID, sErr := result.LastInsertId()
		if sErr != nil {
			return fmt.Errorf("resolving signal %s: %w", name, sErr)
		}

		for i, v := range values {
			var value sql.NullFloat64
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				value.Valid = true
				value.Float64 = v
			}
			if _, sErr = sampleStmt.ExecContext(ctx, signalID, i, f.Times[i], value); sErr != nil {
				return fmt.Errorf("inserting sample %s[%d]: %w", name, i, sErr)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ReadSamples returns an iterator over the stored samples of a session.
func (s *SqliteStore) ReadSamples(ctx context.Context, sessionID int64, opts ...ReaderOption) (SampleReader, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}
	return newSqliteSampleReader(ctx, db, sessionID, opts...)
}

// ReadFrame reconstructs a frame from the stored samples of a session.
// Rows excluded by a time-range filter are dropped; signals excluded by a
// signal filter are absent from the result.
func (s *SqliteStore) ReadFrame(ctx context.Context, sessionID int64, opts ...ReaderOption) (frame *flightlog.Frame, err error) {
	reader, err := s.ReadSamples(ctx, sessionID, opts...)
	if err != nil {
		return nil, err
	}
	defer closeWithError(reader, &err)

	type column struct {
		name   string
		values map[int]float64
	}
	var columns []*column
	byName := make(map[string]*column)
	times := make(map[int]float64)

	for reader.Next(ctx) {
		sample := reader.Current()

		c, ok := byName[sample.Signal]
		if !ok {
			c = &column{name: sample.Signal, values: make(map[int]float64)}
			byName[sample.Signal] = c
			columns = append(columns, c)
		}
		if sample.Value != nil {
			c.values[sample.Row] = *sample.Value
		}
		times[sample.Row] = sample.Time
	}
	if err = reader.Error(); err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return nil, ErrNoData
	}

	// Stored row indices survive filtering, so compact them into a dense
	// frame in index order.
	rowIDs := make([]int, 0, len(times))
	for row := range times {
		rowIDs = append(rowIDs, row)
	}
	sort.Ints(rowIDs)

	timeIndex := make([]float64, len(rowIDs))
	for i, row := range rowIDs {
		timeIndex[i] = times[row]
	}

	frame = flightlog.NewFrame(timeIndex)
	for _, c := range columns {
		values := make([]float64, len(rowIDs))
		for i, row := range rowIDs {
			if v, ok := c.values[row]; ok {
				values[i] = v
			} else {
				values[i] = math.NaN()
			}
		}
		if err = frame.AddColumn(c.name, values); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// Close closes the database connections.
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
