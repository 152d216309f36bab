package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
)

// ReaderOption configures a SampleReader.
type ReaderOption func(*readerConfig)

type readerConfig struct {
	signals   []string
	startTime *float64
	endTime   *float64
}

// WithSignals restricts the reader to the named signals. Without this option
// every stored signal is read.
func WithSignals(names ...string) ReaderOption {
	return func(c *readerConfig) {
		c.signals = append(c.signals, names...)
	}
}

// WithStartTime restricts the reader to samples at or after t seconds.
func WithStartTime(t float64) ReaderOption {
	return func(c *readerConfig) {
		c.startTime = &t
	}
}

// WithEndTime restricts the reader to samples at or before t seconds.
func WithEndTime(t float64) ReaderOption {
	return func(c *readerConfig) {
		c.endTime = &t
	}
}

// WithTimeRange restricts the reader to samples within [start, end] seconds.
func WithTimeRange(start, end float64) ReaderOption {
	return func(c *readerConfig) {
		c.startTime = &start
		c.endTime = &end
	}
}

// sqliteSampleReader iterates over stored samples ordered by signal and row.
type sqliteSampleReader struct {
	db      *sql.DB
	session *Session
	config  readerConfig

	rows    *sql.Rows
	current Sample
	err     error
}

func newSqliteSampleReader(ctx context.Context, db *sql.DB, sessionID int64, opts ...ReaderOption) (*sqliteSampleReader, error) {
	r := sqliteSampleReader{db: db}
	for _, opt := range opts {
		opt(&r.config)
	}

	if err := r.loadSession(ctx, sessionID); err != nil {
		return nil, err
	}
	if err := r.initFilters(ctx); err != nil {
		return nil, err
	}
	if err := r.initQuery(ctx); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *sqliteSampleReader) loadSession(ctx context.Context, sessionID int64) (err error) {
	stmt, err := r.db.PrepareContext(ctx, selectSessionSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	r.session, err = scanSession(stmt.QueryRowContext(ctx, sessionID))
	return
}

// initFilters fills in the missing end of a time-range filter from the
// stored time bounds of the session.
func (r *sqliteSampleReader) initFilters(ctx context.Context) (err error) {
	if r.config.startTime != nil && r.config.endTime != nil {
		return nil
	}

	stmt, err := r.db.PrepareContext(ctx, selectTimeBoundsSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	var minTime, maxTime sql.NullFloat64
	if err = stmt.QueryRowContext(ctx, r.session.ID).Scan(&minTime, &maxTime); err != nil {
		return fmt.Errorf("querying time bounds: %w", err)
	}
	if !minTime.Valid || !maxTime.Valid {
		return ErrNoData
	}

	if r.config.startTime == nil {
		r.config.startTime = &minTime.Float64
	}
	if r.config.endTime == nil {
		r.config.endTime = &maxTime.Float64
	}
	return nil
}

func (r *sqliteSampleReader) initQuery(ctx context.Context) error {
	var sb strings.Builder
	sb.WriteString(selectSamplesSQL)

	args := []any{r.session.ID, *r.config.startTime, *r.config.endTime}
	if len(r.config.signals) > 0 {
		sb.WriteString("\n  AND sig.name IN (?")
		sb.WriteString(strings.Repeat(", ?", len(r.config.signals)-1))
		sb.WriteString(")")
		for _, name := range r.config.signals {
			args = append(args, name)
		}
	}
	sb.WriteString(orderSamplesSQL)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return fmt.Errorf("querying samples: %w", err)
	}
	r.rows = rows
	return nil
}

func (r *sqliteSampleReader) Session() *Session {
	return &Session{
		ID:         r.session.ID,
		ImportedAt: r.session.ImportedAt,
		LogPath:    r.session.LogPath,
		Vehicle:    r.session.Vehicle,
		Config:     r.session.Config,
	}
}

func (r *sqliteSampleReader) Next(ctx context.Context) bool {
	if r.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		r.err = err
		return false
	}
	if !r.rows.Next() {
		r.err = r.rows.Err()
		return false
	}

	var value sql.NullFloat64
	if err := r.rows.Scan(&r.current.Signal, &r.current.Row, &r.current.Time, &value); err != nil {
		r.err = fmt.Errorf("scanning sample: %w", err)
		return false
	}
	if value.Valid && !math.IsNaN(value.Float64) {
		v := value.Float64
		r.current.Value = &v
	} else {
		r.current.Value = nil
	}
	return true
}

func (r *sqliteSampleReader) Current() Sample {
	return r.current
}

func (r *sqliteSampleReader) Error() error {
	return r.err
}

func (r *sqliteSampleReader) Close() error {
	if r.rows == nil {
		return nil
	}
	return r.rows.Close()
}
