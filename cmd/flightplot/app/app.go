package app

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/avionics-tools/flightlog/internal/chart"
	"github.com/avionics-tools/flightlog/internal/estimator"
	"github.com/avionics-tools/flightlog/internal/flightlog"
	"github.com/avionics-tools/flightlog/internal/modes"
	"github.com/avionics-tools/flightlog/internal/ribbon"
	"github.com/avionics-tools/flightlog/internal/storage"
)

// defaultCharts is the chart set rendered when the profile does not name
// one. Sonar and optical flow charts are opt-in since most airframes do not
// carry those sensors.
var defaultCharts = []string{
	"attitude",
	"attitude-rates",
	"attitude-controls",
	"velocity",
	"position",
	"altitude",
	"ground-track",
	"flight-modes",
	"rc-inputs",
	"raw-acceleration",
	"raw-angular-speed",
	"raw-magnetic-field",
	"gps-stats",
	"distance-sensor",
	"actuators-io",
	"actuators-aux",
	"estimator-faults",
}

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	frame, err := loadFrame(ctx, config, logger)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	builders := map[string]func(*flightlog.Frame) (*chart.Figure, error){
		"attitude":           chart.AttitudeLoops,
		"attitude-rates":     chart.AttitudeRateLoops,
		"attitude-controls":  chart.AttitudeControlLoops,
		"velocity":           chart.VelocityLoops,
		"position":           chart.PositionLoops,
		"ground-track":       chart.GroundTrack,
		"flight-modes":       chart.FlightModes,
		"raw-acceleration":   chart.RawAcceleration,
		"raw-angular-speed":  chart.RawAngularSpeed,
		"raw-magnetic-field": chart.RawMagneticField,
		"gps-stats":          chart.GPSStats,
		"distance-sensor":    chart.DistanceSensor,
		"sonar":              chart.SonarRaw,
		"optical-flow":       chart.OpticalFlowRaw,
		"flow-quality":       chart.OpticalFlowQuality,
		"altitude": func(f *flightlog.Frame) (*chart.Figure, error) {
			return chart.Altitude(f, chart.AltitudeOptions{
				MinAlt: config.Profile.Altitude.Min,
				MaxAlt: config.Profile.Altitude.Max,
			})
		},
		"rc-inputs": func(f *flightlog.Frame) (*chart.Figure, error) {
			return chart.RCInputs(f, config.Profile.RCLabels)
		},
		"actuators-io": func(f *flightlog.Frame) (*chart.Figure, error) {
			return chart.ActuatorOutputs(f, 0)
		},
		"actuators-aux": func(f *flightlog.Frame) (*chart.Figure, error) {
			return chart.ActuatorOutputs(f, 1)
		},
		"estimator-faults": func(f *flightlog.Frame) (*chart.Figure, error) {
			if err := estimator.DecodeHealth(f); err != nil {
				return nil, err
			}
			return chart.EstimatorFaults(f)
		},
	}

	selected := config.Profile.Charts
	if len(selected) == 0 {
		selected = defaultCharts
	}

	var rendered int
	for _, name := range selected {
		if err = ctx.Err(); err != nil {
			return err
		}

		builder, ok := builders[name]
		if !ok {
			return fmt.Errorf("unknown chart: %s", name)
		}

		fig, bErr := builder(frame)
		if bErr != nil {
			// Logs routinely lack whole sensor groups, skip those charts.
			logger.Warn("skipping chart", slog.String("chart", name), slog.String("reason", bErr.Error()))
			continue
		}

		dest := filepath.Join(config.OutputDir, name+".png")
		if err = fig.Save(dest); err != nil {
			return fmt.Errorf("rendering %s: %w", name, err)
		}

		logger.Info("chart rendered", slog.String("chart", name), slog.String("destination", dest))
		rendered++
	}

	if config.Profile.Ribbon {
		if err = renderRibbon(frame, config, logger); err != nil {
			return err
		}
	}
	if config.Profile.HTML {
		if err = renderHTML(frame, config, logger); err != nil {
			return err
		}
	}

	logger.Info("done", slog.Int("charts", rendered))
	return nil
}

func loadFrame(ctx context.Context, config *Config, logger *slog.Logger) (*flightlog.Frame, error) {
	var frame *flightlog.Frame
	var err error

	if config.LogPath != "" {
		if frame, err = flightlog.ReadCSVFile(config.LogPath); err != nil {
			return nil, err
		}
		if frame, err = flightlog.Process(frame); err != nil {
			return nil, err
		}

		logger.Info("log loaded",
			slog.String("source", config.LogPath),
			slog.String("rows", humanize.Comma(int64(frame.NumRows()))),
			slog.Int("signals", len(frame.Columns())))
		return frame, nil
	}

	if _, err = os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return nil, fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	if frame, err = store.ReadFrame(ctx, config.SessionID); err != nil {
		return nil, err
	}

	logger.Info("session loaded",
		slog.String("source", config.DBPath),
		slog.Int64("session", config.SessionID),
		slog.String("rows", humanize.Comma(int64(frame.NumRows()))),
		slog.Int("signals", len(frame.Columns())))
	return frame, nil
}

func renderRibbon(frame *flightlog.Frame, config *Config, logger *slog.Logger) (err error) {
	states, err := frame.Column("STAT_MainState")
	if err != nil {
		if errors.Is(err, flightlog.ErrNoColumn) {
			logger.Warn("skipping ribbon", slog.String("reason", "log has no flight mode signal"))
			return nil
		}
		return err
	}

	renderer, err := ribbon.New(ribbon.Config{Title: config.Profile.Title})
	if err != nil {
		return fmt.Errorf("creating ribbon renderer: %w", err)
	}
	defer func() {
		if cErr := renderer.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	img, err := renderer.Render(modes.Segments(frame.Times, states))
	if err != nil {
		return fmt.Errorf("rendering ribbon: %w", err)
	}

	dest := filepath.Join(config.OutputDir, "modes-ribbon.png")
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer closeWithError(out, &err)

	if err = png.Encode(out, img); err != nil {
		return fmt.Errorf("encoding ribbon: %w", err)
	}

	logger.Info("ribbon rendered", slog.String("destination", dest))
	return nil
}

func renderHTML(frame *flightlog.Frame, config *Config, logger *slog.Logger) error {
	for name, render := range map[string]func(*os.File, *flightlog.Frame) error{
		"ground-track.html": func(w *os.File, f *flightlog.Frame) error { return chart.GroundTrackHTML(w, f) },
		"altitude.html":     func(w *os.File, f *flightlog.Frame) error { return chart.AltitudeHTML(w, f) },
	} {
		dest := filepath.Join(config.OutputDir, name)

		out, err := os.Create(dest)
		if err != nil {
			return err
		}
		if err = render(out, frame); err != nil {
			_ = out.Close()

			logger.Warn("skipping HTML chart", slog.String("chart", name), slog.String("reason", err.Error()))
			_ = os.Remove(dest)
			continue
		}
		if err = out.Close(); err != nil {
			return err
		}

		logger.Info("HTML chart rendered", slog.String("chart", name), slog.String("destination", dest))
	}
	return nil
}
