package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/procon-emu/procon/device/switchpro"
	"github.com/procon-emu/procon/internal/configpaths"
	"github.com/procon-emu/procon/internal/log"
)

// Flash groups the SPI flash image commands.
type Flash struct {
	Init         FlashInit         `cmd:"" help:"Create a blank flash image with factory calibration"`
	Show         FlashShow         `cmd:"" help:"Print the calibration stored in a flash image"`
	SetUserStick FlashSetUserStick `cmd:"" help:"Write or clear a user stick calibration"`
}

// FlashInit creates a blank, defaulted flash image.
type FlashInit struct {
	Out        string `help:"Output file (default: <data dir>/spi_flash.bin)" type:"path" env:"PROCON_FLASH_OUT"`
	NoStickCal bool   `help:"Request no default stick calibration (ignored: blank images always get defaults)"`
	NoIMUCal   bool   `help:"Request no default IMU calibration (ignored: blank images always get defaults)"`
}

// Run is called by Kong when the flash init command is executed.
func (c *FlashInit) Run(logger *slog.Logger) error {
	out := c.Out
	if out == "" {
		p, err := configpaths.DefaultImagePath()
		if err != nil {
			return fmt.Errorf("resolve default image path: %w", err)
		}
		out = p
	}

	f, err := switchpro.New(switchpro.Blank(), &switchpro.Options{
		DefaultStickCal: !c.NoStickCal,
		DefaultIMUCal:   !c.NoIMUCal,
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	if d := f.Defaults(); (c.NoStickCal && d.StickCal) || (c.NoIMUCal && d.IMUCal) {
		logger.Warn("blank flash images always carry factory calibration; --no-*-cal ignored")
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	if err := f.SaveFile(out); err != nil {
		return err
	}
	logger.Info("flash image written", "path", out, "size", f.Size())
	return nil
}

// FlashShow prints the calibration regions of an image.
type FlashShow struct {
	Path            string `arg:"" help:"Flash image file" type:"existingfile"`
	Format          string `help:"Output format: text, json, yaml, toml" default:"text" enum:"text,json,yaml,toml" short:"f"`
	Size            int    `help:"Expected image size in bytes" default:"524288"`
	DefaultStickCal bool   `help:"Overwrite factory stick calibration with defaults before printing"`
	DefaultIMUCal   bool   `help:"Overwrite IMU calibration with defaults before printing"`

	out io.Writer `kong:"-"`
}

// Run is called by Kong when the flash show command is executed.
func (c *FlashShow) Run(logger *slog.Logger, raw log.RawLogger) error {
	src, err := switchpro.LoadFile(c.Path)
	if err != nil {
		return err
	}
	f, err := switchpro.New(src, &switchpro.Options{
		Size:            c.Size,
		DefaultStickCal: c.DefaultStickCal,
		DefaultIMUCal:   c.DefaultIMUCal,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	imu, _ := f.IMUCalibration().MarshalBinary()
	raw.Log("imu calibration", imu)

	return renderCalibration(outOrStdout(c.out), c.Format, newCalibrationReport(f))
}

// FlashSetUserStick patches a user stick calibration into an image in place.
type FlashSetUserStick struct {
	Path  string `arg:"" help:"Flash image file" type:"existingfile"`
	Side  string `help:"Stick side: left or right" required:"" enum:"left,right"`
	Cal   string `help:"9 calibration bytes as hex, e.g. '00 07 70 00 08 80 00 07 70'" xor:"action"`
	Clear bool   `help:"Remove the user calibration instead of writing one" xor:"action"`
}

// Run is called by Kong when the flash set-user-stick command is executed.
func (c *FlashSetUserStick) Run(logger *slog.Logger) error {
	if !c.Clear && c.Cal == "" {
		return fmt.Errorf("either --cal or --clear is required")
	}

	src, err := switchpro.LoadFile(c.Path)
	if err != nil {
		return err
	}
	f, err := switchpro.New(src, &switchpro.Options{Logger: logger})
	if err != nil {
		return err
	}

	if c.Clear {
		if c.Side == "left" {
			f.ClearUserLeftStick()
		} else {
			f.ClearUserRightStick()
		}
		logger.Info("user stick calibration cleared", "side", c.Side)
	} else {
		cal, err := ParseStickCalibration(c.Cal)
		if err != nil {
			return err
		}
		if c.Side == "left" {
			f.SetUserLeftStick(cal)
		} else {
			f.SetUserRightStick(cal)
		}
		logger.Info("user stick calibration written", "side", c.Side, "cal", formatHex(cal[:]))
	}
	return f.SaveFile(c.Path)
}

// ParseStickCalibration parses 9 hex bytes. Spaces, colons and dashes
// between bytes are ignored.
func ParseStickCalibration(s string) (switchpro.StickCalibration, error) {
	var cal switchpro.StickCalibration
	clean := strings.NewReplacer(" ", "", ":", "", "-", "", "0x", "", "0X", "").Replace(s)
	b, err := hex.DecodeString(clean)
	if err != nil {
		return cal, fmt.Errorf("invalid stick calibration %q: %w", s, err)
	}
	if len(b) != len(cal) {
		return cal, fmt.Errorf("invalid stick calibration %q: want %d bytes, got %d", s, len(cal), len(b))
	}
	copy(cal[:], b)
	return cal, nil
}

func formatHex(b []byte) string {
	return fmt.Sprintf("% X", b)
}

func outOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
