package app

import (
	"errors"
	"flag"
	"strings"
)

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

type OutputFormat string

type Config struct {
	LogPath  string
	Signals  []string
	Format   OutputFormat
	Gains    bool
	AutoOnly bool
	PlotsDir string
}

var validFormats = map[OutputFormat]struct{}{
	FormatTable: {},
	FormatJSON:  {},
}

func NewConfig() *Config {
	return &Config{
		Format: FormatTable,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var format, signals string
	flag.StringVar(&c.LogPath, "log", "", "Path to the CSV log export")
	flag.StringVar(&signals, "signals", "", "Comma-separated signal names, defaults to the estimator inputs")
	flag.StringVar(&format, "f", string(FormatTable), "Output format. [table, json]")
	flag.BoolVar(&c.Gains, "gains", false, "Also estimate local position estimator gains")
	flag.BoolVar(&c.AutoOnly, "auto", false, "Restrict statistics to the auto mission portion of the log")
	flag.StringVar(&c.PlotsDir, "plots", "", "Also render a chart per signal with mean and deviation bands into this directory")
	flag.Parse()

	format = strings.ToLower(format)

	var err error
	if c.LogPath == "" {
		err = errors.New("log file is required")
	} else if _, ok := validFormats[OutputFormat(format)]; !ok {
		err = errors.New("invalid output format: " + format)
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = OutputFormat(format)
	if signals != "" {
		for _, name := range strings.Split(signals, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Signals = append(c.Signals, name)
			}
		}
	}
	return c, nil
}
