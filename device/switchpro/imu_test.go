package switchpro_test

import (
	"io"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procon-emu/procon/device/switchpro"
)

func TestAngularRateToRaw(t *testing.T) {
	tests := []struct {
		name string
		dps  float64
		want int16
	}{
		{name: "zero", dps: 0, want: 0},
		{name: "one lsb", dps: 0.070, want: 1},
		{name: "100 dps", dps: 100, want: 1429},
		{name: "-100 dps", dps: -100, want: -1429},
		{name: "saturates high", dps: 2300, want: 32767},
		{name: "saturates low", dps: -2300, want: -32768},
		{name: "positive infinity", dps: math.Inf(1), want: 32767},
		{name: "negative infinity", dps: math.Inf(-1), want: -32768},
		{name: "nan", dps: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, switchpro.AngularRateToRaw(tt.dps))
		})
	}
}

func TestAccelToRaw(t *testing.T) {
	tests := []struct {
		name   string
		milliG float64
		want   int16
	}{
		{name: "zero", milliG: 0, want: 0},
		{name: "1g", milliG: 1000, want: 4098},
		{name: "-1g", milliG: -1000, want: -4098},
		{name: "saturates low", milliG: -8000, want: -32768},
		{name: "saturates high", milliG: 8000, want: 32767},
		{name: "just inside", milliG: 7995, want: 32766},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, switchpro.AccelToRaw(tt.milliG))
		})
	}
}

func TestEncodeFrame(t *testing.T) {
	tests := []struct {
		name     string
		in       [6]float64
		expected []byte
	}{
		{
			name:     "at rest",
			in:       [6]float64{0, 0, 0, 0, 0, 0},
			expected: make([]byte, 12),
		},
		{
			name: "1g on x",
			in:   [6]float64{1000, 0, 0, 0, 0, 0},
			expected: []byte{
				0x02, 0x10, 0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
		},
		{
			name: "saturated",
			in:   [6]float64{-8000, 8000, 0, 2300, -2300, 0},
			expected: []byte{
				0x00, 0x80, 0xFF, 0x7F, 0x00, 0x00,
				0xFF, 0x7F, 0x00, 0x80, 0x00, 0x00,
			},
		},
		{
			name: "gyro order kept",
			in:   [6]float64{0, 0, 0, 0.070, 0.140, 0.210},
			expected: []byte{
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x01, 0x00, 0x02, 0x00, 0x03, 0x00,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := switchpro.EncodeFrame(tt.in[0], tt.in[1], tt.in[2], tt.in[3], tt.in[4], tt.in[5])
			assert.Len(t, got, switchpro.MotionFrameSize)
			assert.Equal(t, tt.expected, got)

			s := switchpro.Sample{
				AccelX: tt.in[0], AccelY: tt.in[1], AccelZ: tt.in[2],
				GyroRoll: tt.in[3], GyroPitch: tt.in[4], GyroYaw: tt.in[5],
			}
			b, err := s.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, b)
		})
	}
}

func TestEncodeFrameDeterministic(t *testing.T) {
	want := switchpro.EncodeFrame(123.4, -567.8, 999.9, 12.3, -45.6, 78.9)

	var wg sync.WaitGroup
	results := make([][]byte, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = switchpro.EncodeFrame(float64(i), 0, 0, float64(-i), 0, 0)
			results[i] = switchpro.EncodeFrame(123.4, -567.8, 999.9, 12.3, -45.6, 78.9)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}

func TestAppendFrame(t *testing.T) {
	samples := []switchpro.Sample{
		{AccelX: 1000},
		{GyroYaw: 0.070},
		{AccelZ: -1000},
	}
	var block []byte
	for _, s := range samples {
		block = switchpro.AppendFrame(block, s)
	}
	require.Len(t, block, switchpro.MotionBlockSize)

	for i, s := range samples {
		f, err := switchpro.DecodeFrame(block[i*switchpro.MotionFrameSize:])
		require.NoError(t, err)
		assert.Equal(t, s.Raw(), f)
	}

	_, err := switchpro.DecodeFrame(block[:11])
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestAxisMap(t *testing.T) {
	s := switchpro.Sample{AccelX: -8000, AccelY: 1000, AccelZ: 0, GyroRoll: 0.070, GyroPitch: 0.140, GyroYaw: 0.210}

	tests := []struct {
		name string
		m    switchpro.AxisMap
		want switchpro.RawFrame
	}{
		{
			name: "zero value is identity",
			m:    switchpro.AxisMap{},
			want: switchpro.RawFrame{AccelX: -32768, AccelY: 4098, GyroRoll: 1, GyroPitch: 2, GyroYaw: 3},
		},
		{
			name: "yaw pitch roll",
			m:    switchpro.AxisMap{GyroOrder: switchpro.OrderYawPitchRoll},
			want: switchpro.RawFrame{AccelX: -32768, AccelY: 4098, GyroRoll: 3, GyroPitch: 2, GyroYaw: 1},
		},
		{
			name: "inverted accel x saturates high",
			m:    switchpro.AxisMap{Invert: switchpro.FieldMask(0).With(switchpro.FieldAccelX)},
			want: switchpro.RawFrame{AccelX: 32767, AccelY: 4098, GyroRoll: 1, GyroPitch: 2, GyroYaw: 3},
		},
		{
			name: "invert applies after reorder",
			m: switchpro.AxisMap{
				GyroOrder: switchpro.OrderPitchRollYaw,
				Invert:    switchpro.FieldMask(0).With(switchpro.FieldGyro0).With(switchpro.FieldAccelY),
			},
			want: switchpro.RawFrame{AccelX: -32768, AccelY: -4098, GyroRoll: -2, GyroPitch: 1, GyroYaw: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := switchpro.DecodeFrame(switchpro.EncodeFrameWith(tt.m, s))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGyroOrder(t *testing.T) {
	o, err := switchpro.ParseGyroOrder("yaw, roll, pitch")
	require.NoError(t, err)
	assert.Equal(t, switchpro.OrderYawRollPitch, o)
	assert.Equal(t, "yaw,roll,pitch", o.String())

	for _, bad := range []string{"", "roll,roll,yaw", "roll,pitch", "roll,pitch,yaw,roll"} {
		_, err := switchpro.ParseGyroOrder(bad)
		assert.Errorf(t, err, "input %q", bad)
	}

	f, err := switchpro.ParseField("GYRO-2")
	require.NoError(t, err)
	assert.Equal(t, switchpro.FieldGyro2, f)
	_, err = switchpro.ParseField("gyro-3")
	assert.Error(t, err)
}
