package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/procon-emu/procon/device/switchpro"
	"github.com/procon-emu/procon/internal/log"
)

// IMU groups the motion record commands.
type IMU struct {
	Encode IMUEncode `cmd:"" help:"Encode one motion sample (milli-g, dps) into a 12-byte record"`
}

// IMUEncode encodes a single sample.
type IMUEncode struct {
	Values    []float64 `arg:"" help:"accelX accelY accelZ (milli-g) gyroRoll gyroPitch gyroYaw (dps); put '--' before negative values"`
	GyroOrder string    `help:"Order of the gyro axes in the record" default:"roll,pitch,yaw" env:"PROCON_IMU_GYRO_ORDER"`
	Invert    []string  `help:"Record fields to negate: accel-x, accel-y, accel-z, gyro-0, gyro-1, gyro-2" sep:"," env:"PROCON_IMU_INVERT"`
	Block     bool      `help:"Repeat the record three times, as sent in one input report"`

	out io.Writer `kong:"-"`
}

// Run is called by Kong when the imu encode command is executed.
func (c *IMUEncode) Run(logger *slog.Logger, raw log.RawLogger) error {
	if len(c.Values) != 6 {
		return fmt.Errorf("expected 6 values (3 accel, 3 gyro), got %d", len(c.Values))
	}
	m, err := c.axisMap()
	if err != nil {
		return err
	}

	s := m.Apply(switchpro.Sample{
		AccelX: c.Values[0], AccelY: c.Values[1], AccelZ: c.Values[2],
		GyroRoll: c.Values[3], GyroPitch: c.Values[4], GyroYaw: c.Values[5],
	})
	n := 1
	if c.Block {
		n = switchpro.FramesPerReport
	}
	var b []byte
	for i := 0; i < n; i++ {
		b = switchpro.AppendFrame(b, s)
	}

	logger.Debug("motion sample encoded", "gyroOrder", m.GyroOrder, "invert", c.Invert, "raw", fmt.Sprintf("%+v", s.Raw()))
	raw.Log("motion record", b)

	_, err = fmt.Fprintln(outOrStdout(c.out), formatHex(b))
	return err
}

func (c *IMUEncode) axisMap() (switchpro.AxisMap, error) {
	var m switchpro.AxisMap
	if c.GyroOrder != "" {
		o, err := switchpro.ParseGyroOrder(c.GyroOrder)
		if err != nil {
			return m, err
		}
		m.GyroOrder = o
	}
	for _, name := range c.Invert {
		f, err := switchpro.ParseField(name)
		if err != nil {
			return m, err
		}
		m.Invert = m.Invert.With(f)
	}
	return m, nil
}
