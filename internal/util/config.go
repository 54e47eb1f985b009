package util

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Configuration carries the settings the front-end resolves before any
// script runs. Fields with toml tags may come from an optional config file;
// command-line flags override whatever the file set.
type Configuration struct {
	Version   string
	BuildDate string
	Commit    string

	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`
	HistoryFile string `toml:"history_file"`
}

// DefaultConfigFile is picked up from the working directory when no -config
// flag is given.
const DefaultConfigFile = "jabroni.toml"

// LoadConfiguration reads a TOML config file into cfg. A missing default
// file is not an error; an explicitly requested file must exist.
func LoadConfiguration(path string, explicit bool, cfg *Configuration) error {
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return err
		}
		return nil
	}
	_, err := toml.DecodeFile(path, cfg)
	return err
}
