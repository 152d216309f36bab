package app

import (
	"errors"
	"flag"
	"fmt"
	"time"
)

type Config struct {
	LogPath     string
	DBPath      string
	Vehicle     string
	TrackName   string
	GPXFile     string
	GeoJSONFile string
	FlightStart *time.Time
}

func NewConfig() *Config {
	return &Config{}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var flightStart string
	flag.StringVar(&c.LogPath, "log", "", "Path to the CSV log export")
	flag.StringVar(&c.DBPath, "db", "", "Path to the database file")
	flag.StringVar(&c.Vehicle, "vehicle", "", "Vehicle name or airframe")
	flag.StringVar(&c.TrackName, "name", "", "Track name for GPX and GeoJSON export, defaults to the log file name")
	flag.StringVar(&c.GPXFile, "gpx", "", "Also export the GPS track to this GPX file")
	flag.StringVar(&c.GeoJSONFile, "geojson", "", "Also export the GPS track to this GeoJSON file")
	flag.StringVar(&flightStart, "start", "", "Flight start time in RFC3339 format, used for track timestamps")
	flag.Parse()

	var err error
	if c.LogPath == "" {
		err = errors.New("log file is required")
	} else if c.DBPath == "" {
		err = errors.New("db path is required")
	}
	if err != nil {
		flag.Usage()
		return nil, err
	}

	if flightStart != "" {
		t, pErr := time.Parse(time.RFC3339, flightStart)
		if pErr != nil {
			return nil, fmt.Errorf("invalid flight start time: %w", pErr)
		}
		c.FlightStart = &t
	}
	return c, nil
}
