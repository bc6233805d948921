package switchpro

import (
	"fmt"
	"strings"
)

// GyroAxis names one of the three gyro inputs.
type GyroAxis uint8

const (
	GyroRoll GyroAxis = iota
	GyroPitch
	GyroYaw
)

var gyroAxisNames = [...]string{"roll", "pitch", "yaw"}

func (a GyroAxis) String() string {
	if int(a) < len(gyroAxisNames) {
		return gyroAxisNames[a]
	}
	return fmt.Sprintf("GyroAxis(%d)", uint8(a))
}

// GyroOrder is a permutation of the gyro axes, giving the input axis written
// to each of the three gyro slots of a motion record. The zero value is
// roll, pitch, yaw.
//
// The order a real controller uses has not been confirmed, which is why it
// is configurable.
type GyroOrder uint8

const (
	OrderRollPitchYaw GyroOrder = iota
	OrderRollYawPitch
	OrderPitchRollYaw
	OrderPitchYawRoll
	OrderYawRollPitch
	OrderYawPitchRoll
)

var gyroOrders = [...][3]GyroAxis{
	OrderRollPitchYaw: {GyroRoll, GyroPitch, GyroYaw},
	OrderRollYawPitch: {GyroRoll, GyroYaw, GyroPitch},
	OrderPitchRollYaw: {GyroPitch, GyroRoll, GyroYaw},
	OrderPitchYawRoll: {GyroPitch, GyroYaw, GyroRoll},
	OrderYawRollPitch: {GyroYaw, GyroRoll, GyroPitch},
	OrderYawPitchRoll: {GyroYaw, GyroPitch, GyroRoll},
}

// Axes returns the input axis for each gyro slot.
func (o GyroOrder) Axes() [3]GyroAxis {
	if int(o) < len(gyroOrders) {
		return gyroOrders[o]
	}
	return gyroOrders[OrderRollPitchYaw]
}

func (o GyroOrder) String() string {
	a := o.Axes()
	return a[0].String() + "," + a[1].String() + "," + a[2].String()
}

// ParseGyroOrder parses a comma separated order such as "roll,yaw,pitch".
func ParseGyroOrder(s string) (GyroOrder, error) {
	parts := strings.Split(strings.ToLower(strings.ReplaceAll(s, " ", "")), ",")
	for i, axes := range gyroOrders {
		if len(parts) == 3 &&
			parts[0] == axes[0].String() && parts[1] == axes[1].String() && parts[2] == axes[2].String() {
			return GyroOrder(i), nil
		}
	}
	return 0, fmt.Errorf("invalid gyro order %q: want a permutation of roll,pitch,yaw", s)
}

// Field is one of the six values of a motion record, in wire order.
type Field uint8

const (
	FieldAccelX Field = iota
	FieldAccelY
	FieldAccelZ
	FieldGyro0
	FieldGyro1
	FieldGyro2
)

var fieldNames = [...]string{"accel-x", "accel-y", "accel-z", "gyro-0", "gyro-1", "gyro-2"}

func (f Field) String() string {
	if int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return fmt.Sprintf("Field(%d)", uint8(f))
}

// ParseField parses a field name as returned by Field.String.
func ParseField(s string) (Field, error) {
	for i, n := range fieldNames {
		if strings.EqualFold(s, n) {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("invalid motion field %q", s)
}

// FieldMask is a set of fields.
type FieldMask uint8

// Has reports whether f is in the mask.
func (m FieldMask) Has(f Field) bool { return m&(1<<f) != 0 }

// With returns the mask with f added.
func (m FieldMask) With(f Field) FieldMask { return m | 1<<f }

// AxisMap rearranges a sample before encoding. The zero value changes
// nothing.
//
// Whether the axes of the mirrored (left/right) controller variant need sign
// flips is unconfirmed; Invert lets the caller decide.
type AxisMap struct {
	GyroOrder GyroOrder
	// Invert negates the given output fields.
	Invert FieldMask
}

// Apply returns s reordered and inverted according to m.
func (m AxisMap) Apply(s Sample) Sample {
	gyro := [3]float64{GyroRoll: s.GyroRoll, GyroPitch: s.GyroPitch, GyroYaw: s.GyroYaw}
	axes := m.GyroOrder.Axes()
	out := [6]float64{
		s.AccelX, s.AccelY, s.AccelZ,
		gyro[axes[0]], gyro[axes[1]], gyro[axes[2]],
	}
	for i := range out {
		if m.Invert.Has(Field(i)) {
			out[i] = -out[i]
		}
	}
	return Sample{
		AccelX: out[FieldAccelX], AccelY: out[FieldAccelY], AccelZ: out[FieldAccelZ],
		GyroRoll: out[FieldGyro0], GyroPitch: out[FieldGyro1], GyroYaw: out[FieldGyro2],
	}
}
