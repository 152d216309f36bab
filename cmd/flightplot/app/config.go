package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile selects which charts to render and how. It is loaded from a YAML
// file so a chart set can be reused across logs.
type Profile struct {
	// Charts lists chart names to render. Empty means the default set.
	Charts []string `yaml:"charts"`

	// RCLabels names the RC input channels in channel order.
	RCLabels []string `yaml:"rcLabels"`

	// Altitude clamps the altitude chart Y axis when both bounds are set.
	Altitude struct {
		Min *float64 `yaml:"min"`
		Max *float64 `yaml:"max"`
	} `yaml:"altitude"`

	// HTML additionally renders interactive ground-track and altitude
	// charts.
	HTML bool `yaml:"html"`

	// Ribbon additionally renders the flight-mode timeline ribbon.
	Ribbon bool `yaml:"ribbon"`

	// Title overrides the ribbon title.
	Title string `yaml:"title"`
}

type Config struct {
	LogPath   string
	DBPath    string
	SessionID int64
	OutputDir string
	Profile   Profile
	Verbose   bool
}

func NewConfig() *Config {
	return &Config{
		OutputDir: ".",
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var profilePath string
	flag.StringVar(&c.LogPath, "log", "", "Path to the CSV log export")
	flag.StringVar(&c.DBPath, "db", "", "Path to the database file with imported logs")
	flag.Int64Var(&c.SessionID, "s", 1, "Session ID, used with -db")
	flag.StringVar(&c.OutputDir, "o", ".", "Output directory for rendered charts")
	flag.StringVar(&profilePath, "profile", "", "Path to a YAML chart profile")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	var err error
	switch {
	case c.LogPath == "" && c.DBPath == "":
		err = errors.New("either a log file or a database is required")
	case c.LogPath != "" && c.DBPath != "":
		err = errors.New("log file and database are mutually exclusive")
	case c.DBPath != "" && c.SessionID <= 0:
		err = errors.New("session id is required")
	case c.OutputDir == "":
		err = errors.New("output directory is required")
	}
	if err != nil {
		flag.Usage()
		return nil, err
	}

	if profilePath != "" {
		if err = loadProfile(profilePath, &c.Profile); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func loadProfile(path string, profile *Profile) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading profile: %w", err)
	}
	if err = yaml.Unmarshal(data, profile); err != nil {
		return fmt.Errorf("parsing profile: %w", err)
	}
	return nil
}
