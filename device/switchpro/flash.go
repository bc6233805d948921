// Package switchpro emulates the parts of a Nintendo Switch Pro Controller
// that must be reproduced byte-exactly for a host to accept the emulated
// device: the SPI flash calibration memory and the 6-axis motion records.
package switchpro

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
)

// FlashSize is the size of the controller's SPI flash (512 KiB).
const FlashSize = 0x80000

var (
	// ErrSizeMismatch is returned when a supplied image does not match the flash size.
	ErrSizeMismatch = errors.New("flash image size mismatch")
	// ErrInvalidSize is returned when the flash size cannot hold the calibration regions.
	ErrInvalidSize = errors.New("invalid flash size")
	// ErrOutOfRange is returned for reads or writes outside the flash.
	ErrOutOfRange = errors.New("flash address out of range")
)

// Region is a fixed byte range inside the flash.
type Region struct {
	Offset int
	Length int
}

// End returns the first offset past the region.
func (r Region) End() int { return r.Offset + r.Length }

// Calibration regions.
var (
	RegionIMUCalibration    = Region{Offset: 0x6020, Length: 24}
	RegionFactoryLeftStick  = Region{Offset: 0x603D, Length: StickCalibrationSize}
	RegionFactoryRightStick = Region{Offset: 0x6046, Length: StickCalibrationSize}
	RegionUserLeftMarker    = Region{Offset: 0x8010, Length: 2}
	RegionUserLeftStick     = Region{Offset: 0x8012, Length: StickCalibrationSize}
	RegionUserRightMarker   = Region{Offset: 0x801B, Length: 2}
	RegionUserRightStick    = Region{Offset: 0x801D, Length: StickCalibrationSize}
)

// minFlashSize is the end of the highest calibration region.
var minFlashSize = RegionUserRightStick.End()

// UserCalibrationMarker flags a user calibration region as present.
var UserCalibrationMarker = [2]byte{0xB2, 0xA1}

// StickCalibrationSize is the size of one stick calibration record.
const StickCalibrationSize = 9

// StickCalibration is one packed stick calibration record.
type StickCalibration [StickCalibrationSize]byte

// Factory defaults written into blank images.
var (
	DefaultFactoryLeftStick  = StickCalibration{0x00, 0x07, 0x70, 0x00, 0x08, 0x80, 0x00, 0x07, 0x70}
	DefaultFactoryRightStick = StickCalibration{0x00, 0x08, 0x80, 0x00, 0x07, 0x70, 0x00, 0x07, 0x70}
	DefaultIMUCalibration    = IMUCalibration{
		AccelOrigin:      [6]byte{0x76, 0x00, 0xA6, 0xFE, 0xEA, 0x02},
		AccelSensitivity: [6]byte{0x00, 0x40, 0x00, 0x40, 0x00, 0x40},
		GyroOrigin:       [6]byte{0x0E, 0x00, 0xFC, 0xFF, 0xE0, 0xFF},
		GyroSensitivity:  [6]byte{0x3B, 0x34, 0x3B, 0x34, 0x3B, 0x34},
	}
)

// IMUCalibration is the 6-axis factory calibration block.
//
// Layout (24 bytes):
//
//	 0-5:  accel origin
//	 6-11: accel sensitivity
//	12-17: gyro origin
//	18-23: gyro sensitivity
//
// The fields are kept as raw bytes.
type IMUCalibration struct {
	AccelOrigin      [6]byte
	AccelSensitivity [6]byte
	GyroOrigin       [6]byte
	GyroSensitivity  [6]byte
}

// MarshalBinary encodes the block to its 24-byte flash layout.
func (c IMUCalibration) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, RegionIMUCalibration.Length)
	b = append(b, c.AccelOrigin[:]...)
	b = append(b, c.AccelSensitivity[:]...)
	b = append(b, c.GyroOrigin[:]...)
	b = append(b, c.GyroSensitivity[:]...)
	return b, nil
}

// UnmarshalBinary decodes a 24-byte flash block.
func (c *IMUCalibration) UnmarshalBinary(data []byte) error {
	if len(data) < RegionIMUCalibration.Length {
		return fmt.Errorf("%w: imu calibration needs %d bytes, got %d", ErrOutOfRange, RegionIMUCalibration.Length, len(data))
	}
	copy(c.AccelOrigin[:], data[0:6])
	copy(c.AccelSensitivity[:], data[6:12])
	copy(c.GyroOrigin[:], data[12:18])
	copy(c.GyroSensitivity[:], data[18:24])
	return nil
}

// Options configures New. A nil *Options is the zero value.
type Options struct {
	// Size of the flash. Zero means FlashSize.
	Size int
	// DefaultStickCal overwrites both factory stick regions with defaults.
	DefaultStickCal bool
	// DefaultIMUCal overwrites the imu region with defaults.
	DefaultIMUCal bool

	Logger *slog.Logger
}

// Flash is the emulated SPI flash of one controller session.
//
// Flash does no locking. It assumes a single writer; callers sharing it
// between goroutines must synchronize access themselves.
type Flash struct {
	data     []byte
	defaults Defaults
}

// Defaults reports which factory defaults were written at construction.
type Defaults struct {
	StickCal bool
	IMUCal   bool
}

// New creates the flash from src.
//
// Blank sources always get both factory defaults written, whatever o asks
// for; see sourcePolicies.
//
// The size is validated before the image: a size below the end of the
// calibration regions returns ErrInvalidSize even for a supplied image of a
// different length. Otherwise a supplied image whose length differs from
// the size returns ErrSizeMismatch.
func New(src Source, o *Options) (*Flash, error) {
	var opts Options
	if o != nil {
		opts = *o
	}
	size := opts.Size
	if size == 0 {
		size = FlashSize
	}
	if size < minFlashSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrInvalidSize, size, minFlashSize)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var data []byte
	switch src.kind {
	case SourceSupplied:
		if len(src.image) != size {
			return nil, fmt.Errorf("%w: given data size %d does not match size %d", ErrSizeMismatch, len(src.image), size)
		}
		data = bytes.Clone(src.image)
	case SourceBlank:
		data = bytes.Repeat([]byte{0xFF}, size)
	default:
		return nil, fmt.Errorf("unknown flash source kind %d", src.kind)
	}

	requested := Defaults{StickCal: opts.DefaultStickCal, IMUCal: opts.DefaultIMUCal}
	effective := sourcePolicies[src.kind].apply(requested)
	if effective != requested {
		logger.Debug("flash defaults overridden by source policy",
			"source", src.kind, "requestedStick", requested.StickCal, "requestedIMU", requested.IMUCal)
	}

	f := &Flash{data: data, defaults: effective}
	if effective.StickCal {
		f.putStick(RegionFactoryLeftStick, DefaultFactoryLeftStick)
		f.putStick(RegionFactoryRightStick, DefaultFactoryRightStick)
	}
	if effective.IMUCal {
		b, _ := DefaultIMUCalibration.MarshalBinary()
		copy(f.data[RegionIMUCalibration.Offset:], b)
	}
	logger.Debug("flash created", "source", src.kind, "size", size,
		"defaultStickCal", effective.StickCal, "defaultIMUCal", effective.IMUCal)
	return f, nil
}

// Size returns the flash size in bytes.
func (f *Flash) Size() int { return len(f.data) }

// Defaults returns the factory defaults that were written by New.
func (f *Flash) Defaults() Defaults { return f.defaults }

// Image returns a copy of the whole flash.
func (f *Flash) Image() []byte { return bytes.Clone(f.data) }

// Read returns the byte at offset.
func (f *Flash) Read(offset int) (byte, error) {
	if err := f.check(offset, 1); err != nil {
		return 0, err
	}
	return f.data[offset], nil
}

// ReadRange returns a copy of length bytes starting at offset.
func (f *Flash) ReadRange(offset, length int) ([]byte, error) {
	if err := f.check(offset, length); err != nil {
		return nil, err
	}
	return bytes.Clone(f.data[offset : offset+length]), nil
}

// Write copies data into the flash at offset. Nothing is written if any
// part of the range falls outside the flash.
func (f *Flash) Write(offset int, data []byte) error {
	if err := f.check(offset, len(data)); err != nil {
		return err
	}
	copy(f.data[offset:], data)
	return nil
}

func (f *Flash) check(offset, length int) error {
	if offset < 0 || length < 0 || offset > len(f.data)-length {
		return fmt.Errorf("%w: offset 0x%X length %d (size 0x%X)", ErrOutOfRange, offset, length, len(f.data))
	}
	return nil
}

func (f *Flash) stick(r Region) StickCalibration {
	var c StickCalibration
	copy(c[:], f.data[r.Offset:r.End()])
	return c
}

func (f *Flash) putStick(r Region, c StickCalibration) {
	copy(f.data[r.Offset:r.End()], c[:])
}

// FactoryLeftStick returns the factory left stick calibration.
func (f *Flash) FactoryLeftStick() StickCalibration { return f.stick(RegionFactoryLeftStick) }

// FactoryRightStick returns the factory right stick calibration.
func (f *Flash) FactoryRightStick() StickCalibration { return f.stick(RegionFactoryRightStick) }

// IMUCalibration returns the 6-axis calibration block.
func (f *Flash) IMUCalibration() IMUCalibration {
	var c IMUCalibration
	_ = c.UnmarshalBinary(f.data[RegionIMUCalibration.Offset:RegionIMUCalibration.End()])
	return c
}

func (f *Flash) userStick(marker, r Region) (StickCalibration, bool) {
	if f.data[marker.Offset] != UserCalibrationMarker[0] || f.data[marker.Offset+1] != UserCalibrationMarker[1] {
		return StickCalibration{}, false
	}
	return f.stick(r), true
}

// UserLeftStick returns the user left stick calibration. ok is false when
// no user calibration is stored; use the factory calibration then.
func (f *Flash) UserLeftStick() (cal StickCalibration, ok bool) {
	return f.userStick(RegionUserLeftMarker, RegionUserLeftStick)
}

// UserRightStick returns the user right stick calibration. ok is false when
// no user calibration is stored; use the factory calibration then.
func (f *Flash) UserRightStick() (cal StickCalibration, ok bool) {
	return f.userStick(RegionUserRightMarker, RegionUserRightStick)
}

func (f *Flash) setUserStick(marker, r Region, c StickCalibration) {
	copy(f.data[marker.Offset:marker.End()], UserCalibrationMarker[:])
	f.putStick(r, c)
}

// SetUserLeftStick stores a user left stick calibration and marks it present.
func (f *Flash) SetUserLeftStick(c StickCalibration) {
	f.setUserStick(RegionUserLeftMarker, RegionUserLeftStick, c)
}

// SetUserRightStick stores a user right stick calibration and marks it present.
func (f *Flash) SetUserRightStick(c StickCalibration) {
	f.setUserStick(RegionUserRightMarker, RegionUserRightStick, c)
}

// ClearUserLeftStick erases the left marker. The calibration bytes are left in place.
func (f *Flash) ClearUserLeftStick() {
	f.data[RegionUserLeftMarker.Offset] = 0xFF
	f.data[RegionUserLeftMarker.Offset+1] = 0xFF
}

// ClearUserRightStick erases the right marker. The calibration bytes are left in place.
func (f *Flash) ClearUserRightStick() {
	f.data[RegionUserRightMarker.Offset] = 0xFF
	f.data[RegionUserRightMarker.Offset+1] = 0xFF
}

// Origin tells where an effective stick calibration came from.
type Origin uint8

const (
	OriginFactory Origin = iota
	OriginUser
)

func (o Origin) String() string {
	switch o {
	case OriginFactory:
		return "factory"
	case OriginUser:
		return "user"
	default:
		return fmt.Sprintf("Origin(%d)", uint8(o))
	}
}

// LeftStick returns the user left stick calibration if present, otherwise
// the factory one.
func (f *Flash) LeftStick() (StickCalibration, Origin) {
	if c, ok := f.UserLeftStick(); ok {
		return c, OriginUser
	}
	return f.FactoryLeftStick(), OriginFactory
}

// RightStick returns the user right stick calibration if present, otherwise
// the factory one.
func (f *Flash) RightStick() (StickCalibration, Origin) {
	if c, ok := f.UserRightStick(); ok {
		return c, OriginUser
	}
	return f.FactoryRightStick(), OriginFactory
}
