package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	toml "github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/procon-emu/procon/device/switchpro"
)

type imuReport struct {
	AccelOrigin      string `json:"accelOrigin" yaml:"accelOrigin" toml:"accelOrigin"`
	AccelSensitivity string `json:"accelSensitivity" yaml:"accelSensitivity" toml:"accelSensitivity"`
	GyroOrigin       string `json:"gyroOrigin" yaml:"gyroOrigin" toml:"gyroOrigin"`
	GyroSensitivity  string `json:"gyroSensitivity" yaml:"gyroSensitivity" toml:"gyroSensitivity"`
}

// calibrationReport is the printable view of a flash image. User stick
// fields are empty when the region is absent.
type calibrationReport struct {
	Size              int       `json:"size" yaml:"size" toml:"size"`
	FactoryLeftStick  string    `json:"factoryLeftStick" yaml:"factoryLeftStick" toml:"factoryLeftStick"`
	FactoryRightStick string    `json:"factoryRightStick" yaml:"factoryRightStick" toml:"factoryRightStick"`
	UserLeftStick     string    `json:"userLeftStick,omitempty" yaml:"userLeftStick,omitempty" toml:"userLeftStick,omitempty"`
	UserRightStick    string    `json:"userRightStick,omitempty" yaml:"userRightStick,omitempty" toml:"userRightStick,omitempty"`
	IMU               imuReport `json:"imu" yaml:"imu" toml:"imu"`
}

func newCalibrationReport(f *switchpro.Flash) calibrationReport {
	fl := f.FactoryLeftStick()
	fr := f.FactoryRightStick()
	imu := f.IMUCalibration()
	r := calibrationReport{
		Size:              f.Size(),
		FactoryLeftStick:  formatHex(fl[:]),
		FactoryRightStick: formatHex(fr[:]),
		IMU: imuReport{
			AccelOrigin:      formatHex(imu.AccelOrigin[:]),
			AccelSensitivity: formatHex(imu.AccelSensitivity[:]),
			GyroOrigin:       formatHex(imu.GyroOrigin[:]),
			GyroSensitivity:  formatHex(imu.GyroSensitivity[:]),
		},
	}
	if c, ok := f.UserLeftStick(); ok {
		r.UserLeftStick = formatHex(c[:])
	}
	if c, ok := f.UserRightStick(); ok {
		r.UserRightStick = formatHex(c[:])
	}
	return r
}

func renderCalibration(w io.Writer, format string, r calibrationReport) error {
	var (
		b   []byte
		err error
	)
	switch format {
	case "json":
		b, err = json.MarshalIndent(r, "", "  ")
		b = append(b, '\n')
	case "yaml":
		b, err = yaml.Marshal(r)
	case "toml":
		b, err = toml.Marshal(r)
	case "text", "":
		return renderText(w, r)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	_, err = w.Write(b)
	return err
}

func renderText(w io.Writer, r calibrationReport) error {
	bold := color.New(color.Bold).SprintFunc()
	user := func(v string) string {
		if v == "" {
			return color.YellowString("absent (factory used)")
		}
		return color.GreenString(v)
	}

	_, err := fmt.Fprintf(w,
		"%s 0x%X bytes\n"+
			"%s\n  factory left:  %s\n  factory right: %s\n  user left:     %s\n  user right:    %s\n"+
			"%s\n  accel origin:      %s\n  accel sensitivity: %s\n  gyro origin:       %s\n  gyro sensitivity:  %s\n",
		bold("flash"), r.Size,
		bold("sticks"), r.FactoryLeftStick, r.FactoryRightStick, user(r.UserLeftStick), user(r.UserRightStick),
		bold("imu"), r.IMU.AccelOrigin, r.IMU.AccelSensitivity, r.IMU.GyroOrigin, r.IMU.GyroSensitivity,
	)
	return err
}
