// Package config defines the CLI structure and configuration for procon.
package config

import (
	"github.com/alecthomas/kong"

	"github.com/procon-emu/procon/internal/cmd"
)

type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"PROCON_LOG_LEVEL"`
	File    string `help:"Log file path (default: none; logs only to console)" env:"PROCON_LOG_FILE"`
	RawFile string `help:"Raw byte dump file path (default: none)" env:"PROCON_LOG_RAW_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log `embed:"" prefix:"log."`

	Config  string           `help:"Config file (JSON, YAML or TOML)" env:"PROCON_CONFIG" placeholder:"PATH"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Flash cmd.Flash `cmd:"" help:"Create, inspect and patch emulated SPI flash images"`
	IMU   cmd.IMU   `cmd:"" name:"imu" help:"Encode 6-axis motion records"`
}
