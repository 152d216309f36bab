package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/avionics-tools/flightlog/internal/chart"
	"github.com/avionics-tools/flightlog/internal/flightlog"
	"github.com/avionics-tools/flightlog/internal/geotrack"
	"github.com/avionics-tools/flightlog/internal/stats"
)

type report struct {
	Signals map[string]stats.Summary `json:"signals"`
	Gains   map[string]float64       `json:"gains,omitempty"`
}

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	frame, err := flightlog.ReadCSVFile(config.LogPath)
	if err != nil {
		return err
	}
	if frame, err = flightlog.Process(frame); err != nil {
		return err
	}
	if config.AutoOnly {
		if frame, err = flightlog.AutoData(frame); err != nil {
			return err
		}
	}
	// GPS noise statistics work on locally projected coordinates. Logs
	// without a GPS fix still get IMU and baro statistics.
	if err = geotrack.AddLocalCoordinates(frame); err != nil {
		logger.Warn("skipping GPS projection", slog.String("reason", err.Error()))
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	logger.Info("log loaded",
		slog.String("source", config.LogPath),
		slog.String("rows", humanize.Comma(int64(frame.NumRows()))),
		slog.Int("signals", len(frame.Columns())))

	keys := config.Signals
	if len(keys) == 0 {
		keys = stats.LPEKeys
	}

	r := report{Signals: stats.Describe(frame, keys)}
	if config.Gains {
		r.Gains = stats.FindLPEGains(frame)
	}

	if config.PlotsDir != "" {
		if err = renderPlots(frame, config.PlotsDir, r.Signals, logger); err != nil {
			return err
		}
	}

	if config.Format == FormatJSON {
		return writeJSON(os.Stdout, &r)
	}
	return writeTable(os.Stdout, &r)
}

func renderPlots(frame *flightlog.Frame, dir string, signals map[string]stats.Summary, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating plots directory: %w", err)
	}

	for key, summary := range signals {
		if summary.Samples == 0 {
			continue
		}

		fig, err := chart.StatisticsBand(frame, key, summary)
		if err != nil {
			logger.Warn("skipping plot", slog.String("signal", key), slog.String("reason", err.Error()))
			continue
		}

		dest := filepath.Join(dir, key+".png")
		if err = fig.Save(dest); err != nil {
			return fmt.Errorf("rendering %s: %w", key, err)
		}
		logger.Info("plot rendered", slog.String("signal", key), slog.String("destination", dest))
	}
	return nil
}

func writeJSON(w *os.File, r *report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

func writeTable(w *os.File, r *report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	keys := make([]string, 0, len(r.Signals))
	for key := range r.Signals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintln(tw, "SIGNAL\tMEAN\tSTDDEV\tVARIANCE\tPERIOD\tNOISE POWER\tSAMPLES")
	for _, key := range keys {
		s := r.Signals[key]
		fmt.Fprintf(tw, "%s\t%.4g\t%.4g\t%.4g\t%.4gs\t%.4g\t%s\n",
			key, s.Mean, s.StdDev, s.Variance, s.MeasPeriod, s.NoisePower,
			humanize.Comma(int64(s.Samples)))
	}

	if len(r.Gains) > 0 {
		fmt.Fprintln(tw, "\nPARAMETER\tVALUE")
		for _, name := range stats.GainOrder {
			if v, ok := r.Gains[name]; ok {
				fmt.Fprintf(tw, "%s\t%.4g\n", name, v)
			}
		}
	}
	return tw.Flush()
}
