package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	tests := map[string]Source{
		"wifi":      SourceWifi,
		"Wi-Fi":     SourceWifi,
		"Bluetooth": SourceBluetooth,
		"bt":        SourceBluetooth,
		"AUX":       SourceAux,
		"opt":       SourceOptical,
		"optical":   SourceOptical,
		"usb":       SourceUSB,
	}
	for in, want := range tests {
		got, err := ParseSource(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSource("bluetooth_paired")
	assert.True(t, errors.Is(err, ErrNotSettable))

	_, err = ParseSource("phono")
	assert.Error(t, err)
}

func TestParseSourceRoundTripsString(t *testing.T) {
	for _, s := range SettableSources() {
		got, err := ParseSource(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestStandbyPolicy(t *testing.T) {
	p, err := ParseStandby("60")
	require.NoError(t, err)
	assert.Equal(t, Standby60Min, p)

	p, err = ParseStandby("never")
	require.NoError(t, err)
	assert.Equal(t, StandbyNever, p)

	_, err = ParseStandby("30")
	assert.Error(t, err)

	minutes, ok := Standby20Min.Minutes()
	assert.True(t, ok)
	assert.Equal(t, 20, minutes)

	_, ok = StandbyNever.Minutes()
	assert.False(t, ok)

	p, err = StandbyFromMinutes(0)
	require.NoError(t, err)
	assert.Equal(t, StandbyNever, p)

	_, err = StandbyFromMinutes(45)
	assert.Error(t, err)

	assert.True(t, StandbyNever.Valid())
	assert.False(t, StandbyPolicy(3).Valid())
}

func TestStandbyZeroValueIsNever(t *testing.T) {
	var p StandbyPolicy
	assert.Equal(t, StandbyNever, p)
	assert.Equal(t, uint8(0), Standby20Min.Index())
	assert.Equal(t, uint8(1), Standby60Min.Index())
	assert.Equal(t, uint8(2), p.Index())

	code, err := SourceCode(SourceAux, p, OrientationLR)
	require.NoError(t, err)
	assert.Equal(t, uint8(42), code)
}

func TestParseOrientation(t *testing.T) {
	for _, in := range []string{"L/R", "lr", ""} {
		o, err := ParseOrientation(in)
		require.NoError(t, err)
		assert.Equal(t, OrientationLR, o)
	}
	for _, in := range []string{"R/L", "rl", "inverse"} {
		o, err := ParseOrientation(in)
		require.NoError(t, err)
		assert.Equal(t, OrientationRL, o)
	}
	_, err := ParseOrientation("up/down")
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	s := State{Source: SourceAux, IsOn: true, Standby: Standby20Min, Orientation: OrientationLR}
	assert.Equal(t, "Aux (on, standby 20min, L/R)", s.String())
}
