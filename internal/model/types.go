// Package model defines shared data structures.
package model

// Config defines play settings resolved from flags and the config file.
type Config struct {
	Points    int
	Seed      int64
	AltScreen bool
	LogFile   string
}

// LayoutConfig defines options for the layout command.
type LayoutConfig struct {
	Points int
	Seed   int64
	Format string
}

// Position is a token location in percentage units of the grid.
type Position struct {
	Top  int `json:"top" yaml:"top"`
	Left int `json:"left" yaml:"left"`
}

// Token is a numbered, clickable mark placed on the grid.
type Token struct {
	Value    int `json:"value" yaml:"value"`
	Position `yaml:",inline"`
}
