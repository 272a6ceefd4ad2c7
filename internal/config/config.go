// Package config loads the demo program's settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("config: invalid")

// identPattern restricts names that end up inside SQL text.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Handbook names one lookup table and the title printed for it.
type Handbook struct {
	Title string `toml:"title"`
	Table string `toml:"table"`
}

// Student is one row of demo data. Country and Course are handbook names.
type Student struct {
	FirstName string `toml:"first_name"`
	LastName  string `toml:"last_name"`
	Country   string `toml:"country"`
	Course    string `toml:"course"`
}

// Config holds everything the demo needs.
type Config struct {
	Database  string
	Width     int
	Verbose   bool
	Handbooks []Handbook
	Students  []Student
}

// Default returns the built-in demo configuration.
func Default() Config {
	return Config{
		Database: ":memory:",
		Width:    20,
		Handbooks: []Handbook{
			{Title: "Handbook of countries", Table: "country"},
			{Title: "Handbook of courses", Table: "course"},
		},
		Students: []Student{
			{FirstName: "Jon", LastName: "Snow", Country: "The North", Course: "Data Science"},
			{FirstName: "Tyrion", LastName: "Lannister", Country: "The Westerlands", Course: "Deep Learning"},
			{FirstName: "Daenerys", LastName: "Targaryen", Country: "The Crownlands", Course: "Machine Learning"},
		},
	}
}

// Load reads path and overlays it on Default. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// file mirrors Config with optional fields, so keys absent from the TOML
// document leave the defaults untouched.
type file struct {
	Database  *string    `toml:"database"`
	Width     *int       `toml:"width"`
	Verbose   *bool      `toml:"verbose"`
	Handbooks []Handbook `toml:"handbooks"`
	Students  []Student  `toml:"students"`
}

// Parse decodes TOML data over cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if f.Database != nil {
		cfg.Database = *f.Database
	}
	if f.Width != nil {
		cfg.Width = *f.Width
	}
	if f.Verbose != nil {
		cfg.Verbose = *f.Verbose
	}
	if f.Handbooks != nil {
		cfg.Handbooks = f.Handbooks
	}
	if f.Students != nil {
		cfg.Students = f.Students
	}
	return cfg.Validate()
}

// Validate checks ranges and that every table name is a plain identifier,
// since table names are formatted into SQL unescaped.
func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("%w: database is empty", ErrInvalid)
	}
	if c.Width < 1 {
		return fmt.Errorf("%w: width %d", ErrInvalid, c.Width)
	}
	for _, h := range c.Handbooks {
		if !identPattern.MatchString(h.Table) {
			return fmt.Errorf("%w: handbook table %q is not an identifier", ErrInvalid, h.Table)
		}
	}
	return nil
}
