package switchpro

import (
	"encoding/binary"
	"io"
	"math"

	"golang.org/x/exp/constraints"
)

// Sizes of the motion records in an input report.
const (
	MotionFrameSize = 12
	FramesPerReport = 3
	MotionBlockSize = MotionFrameSize * FramesPerReport
)

// Sensor resolution.
//
// The gyro is rated for ±4000 dps over 16 bits (0.061 dps/LSB); the data
// sheet recommends adding 15%, which gives 0.070.
var (
	accelLSB = 0.244 // milli-g per LSB
	gyroLSB  = 0.070 // dps per LSB

	accelScale = 1 / accelLSB
	gyroScale  = 1 / gyroLSB
)

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// toRaw rounds half to even and saturates to int16. NaN maps to 0.
func toRaw(v float64) int16 {
	if math.IsNaN(v) {
		return 0
	}
	return int16(clamp(math.RoundToEven(v), math.MinInt16, math.MaxInt16))
}

// AccelToRaw converts an acceleration in milli-g to the raw sensor value.
func AccelToRaw(milliG float64) int16 {
	return toRaw(milliG * accelScale)
}

// AngularRateToRaw converts an angular rate in degrees per second to the raw
// sensor value.
func AngularRateToRaw(dps float64) int16 {
	return toRaw(dps * gyroScale)
}

// Sample is one motion sensor reading.
type Sample struct {
	AccelX, AccelY, AccelZ float64 // milli-g
	GyroRoll               float64 // dps
	GyroPitch              float64 // dps
	GyroYaw                float64 // dps
}

// Raw converts the sample to raw sensor values.
func (s Sample) Raw() RawFrame {
	return RawFrame{
		AccelX:    AccelToRaw(s.AccelX),
		AccelY:    AccelToRaw(s.AccelY),
		AccelZ:    AccelToRaw(s.AccelZ),
		GyroRoll:  AngularRateToRaw(s.GyroRoll),
		GyroPitch: AngularRateToRaw(s.GyroPitch),
		GyroYaw:   AngularRateToRaw(s.GyroYaw),
	}
}

// MarshalBinary encodes the sample to the 12-byte motion record.
func (s Sample) MarshalBinary() ([]byte, error) {
	return s.Raw().MarshalBinary()
}

// RawFrame is a decoded motion record.
//
// Wire format: 12 bytes, little-endian.
//
//	0-1:   accel X (i16)
//	2-3:   accel Y (i16)
//	4-5:   accel Z (i16)
//	6-7:   gyro roll (i16)
//	8-9:   gyro pitch (i16)
//	10-11: gyro yaw (i16)
type RawFrame struct {
	AccelX, AccelY, AccelZ       int16
	GyroRoll, GyroPitch, GyroYaw int16
}

// MarshalBinary encodes the frame to 12 bytes.
func (f RawFrame) MarshalBinary() ([]byte, error) {
	return f.appendTo(make([]byte, 0, MotionFrameSize)), nil
}

func (f RawFrame) appendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint16(b, uint16(f.AccelX))
	b = binary.LittleEndian.AppendUint16(b, uint16(f.AccelY))
	b = binary.LittleEndian.AppendUint16(b, uint16(f.AccelZ))
	b = binary.LittleEndian.AppendUint16(b, uint16(f.GyroRoll))
	b = binary.LittleEndian.AppendUint16(b, uint16(f.GyroPitch))
	b = binary.LittleEndian.AppendUint16(b, uint16(f.GyroYaw))
	return b
}

// UnmarshalBinary decodes a 12-byte motion record.
func (f *RawFrame) UnmarshalBinary(data []byte) error {
	if len(data) < MotionFrameSize {
		return io.ErrUnexpectedEOF
	}
	f.AccelX = int16(binary.LittleEndian.Uint16(data[0:2]))
	f.AccelY = int16(binary.LittleEndian.Uint16(data[2:4]))
	f.AccelZ = int16(binary.LittleEndian.Uint16(data[4:6]))
	f.GyroRoll = int16(binary.LittleEndian.Uint16(data[6:8]))
	f.GyroPitch = int16(binary.LittleEndian.Uint16(data[8:10]))
	f.GyroYaw = int16(binary.LittleEndian.Uint16(data[10:12]))
	return nil
}

// DecodeFrame decodes the first motion record in data.
func DecodeFrame(data []byte) (RawFrame, error) {
	var f RawFrame
	err := f.UnmarshalBinary(data)
	return f, err
}

// EncodeFrame builds one 12-byte motion record from accelerations in milli-g
// and angular rates in dps. The gyro axes are written as given; use
// EncodeFrameWith to reorder or invert them.
func EncodeFrame(ax, ay, az, gx, gy, gz float64) []byte {
	return Sample{
		AccelX: ax, AccelY: ay, AccelZ: az,
		GyroRoll: gx, GyroPitch: gy, GyroYaw: gz,
	}.Raw().appendTo(make([]byte, 0, MotionFrameSize))
}

// EncodeFrameWith encodes s after applying m.
func EncodeFrameWith(m AxisMap, s Sample) []byte {
	return m.Apply(s).Raw().appendTo(make([]byte, 0, MotionFrameSize))
}

// AppendFrame appends the 12-byte record for s to dst.
func AppendFrame(dst []byte, s Sample) []byte {
	return s.Raw().appendTo(dst)
}
