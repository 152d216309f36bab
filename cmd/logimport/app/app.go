package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/avionics-tools/flightlog/internal/export"
	"github.com/avionics-tools/flightlog/internal/flightlog"
	"github.com/avionics-tools/flightlog/internal/storage"
)

// importConfig is persisted with the session so a later read shows how the
// log was imported.
type importConfig struct {
	Source      string `json:"source"`
	FlightStart string `json:"flightStart,omitempty"`
}

func Run(ctx context.Context, config *Config, logger *slog.Logger) (err error) {
	frame, err := flightlog.ReadCSVFile(config.LogPath)
	if err != nil {
		return err
	}
	if frame, err = flightlog.Process(frame); err != nil {
		return err
	}

	logger.Info("log loaded",
		slog.String("source", config.LogPath),
		slog.String("rows", humanize.Comma(int64(frame.NumRows()))),
		slog.Int("signals", len(frame.Columns())))

	store := storage.NewSqliteStore(config.DBPath)
	defer closeWithError(store, &err)

	meta := importConfig{Source: config.LogPath}
	if config.FlightStart != nil {
		meta.FlightStart = config.FlightStart.UTC().Format("2006-01-02T15:04:05Z")
	}

	sessionID, err := store.CreateSession(ctx, config.LogPath, config.Vehicle, meta)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	if err = store.StoreFrame(ctx, sessionID, frame); err != nil {
		return fmt.Errorf("storing log: %w", err)
	}

	logger.Info("log imported",
		slog.Int64("session", sessionID),
		slog.String("database", config.DBPath))

	if config.GPXFile == "" && config.GeoJSONFile == "" {
		return nil
	}
	return exportTrack(frame, config, logger)
}

func exportTrack(frame *flightlog.Frame, config *Config, logger *slog.Logger) error {
	name := config.TrackName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(config.LogPath), filepath.Ext(config.LogPath))
	}

	track, err := export.NewTrack(frame, name)
	if err != nil {
		if errors.Is(err, export.ErrNoTrack) || errors.Is(err, flightlog.ErrNoColumn) {
			logger.Warn("skipping track export", slog.String("reason", err.Error()))
			return nil
		}
		return err
	}
	if config.FlightStart != nil {
		track.Start = *config.FlightStart
	}

	write := func(dest string, render func(*os.File, *export.Track) error) (err error) {
		out, err := os.Create(dest)
		if err != nil {
			return err
		}
		defer closeWithError(out, &err)

		if err = render(out, track); err != nil {
			return err
		}

		logger.Info("track exported",
			slog.String("destination", dest),
			slog.Int("fixes", len(track.Fixes)))
		return nil
	}

	if config.GPXFile != "" {
		if err = write(config.GPXFile, func(w *os.File, t *export.Track) error {
			return export.WriteGPX(w, t)
		}); err != nil {
			return err
		}
	}
	if config.GeoJSONFile != "" {
		if err = write(config.GeoJSONFile, func(w *os.File, t *export.Track) error {
			return export.WriteGeoJSON(w, t)
		}); err != nil {
			return err
		}
	}
	return nil
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
