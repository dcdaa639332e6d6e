package wire

import (
	"fmt"
	"strings"
)

// Field selects which speaker setting a command addresses.
type Field uint8

const (
	// FieldVolume addresses the volume/mute byte.
	FieldVolume Field = '%'

	// FieldSource addresses the source/standby/orientation/power byte.
	FieldSource Field = '0'
)

// String returns the field name.
func (f Field) String() string {
	switch f {
	case FieldVolume:
		return "VOLUME"
	case FieldSource:
		return "SOURCE"
	case FieldAck:
		return "ACK"
	default:
		return fmt.Sprintf("FIELD(0x%02x)", uint8(f))
	}
}

// Source is an input source of the speaker.
type Source uint8

const (
	// SourceWifi is the network streaming input.
	SourceWifi Source = iota + 1
	// SourceBluetooth is the Bluetooth input.
	SourceBluetooth
	// SourceBluetoothPaired is reported while a Bluetooth device is connected.
	// It can be decoded from older firmware but never be set.
	SourceBluetoothPaired
	// SourceAux is the analog input.
	SourceAux
	// SourceOptical is the optical (TOSLINK) input.
	SourceOptical
	// SourceUSB is the USB audio input.
	SourceUSB
)

// baseCodes holds the source code for standby 20 minutes and L/R orientation.
var baseCodes = map[Source]uint8{
	SourceWifi:            2,
	SourceBluetooth:       9,
	SourceAux:             10,
	SourceOptical:         11,
	SourceUSB:             12,
	SourceBluetoothPaired: 15,
}

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceWifi:
		return "Wifi"
	case SourceBluetooth:
		return "Bluetooth"
	case SourceBluetoothPaired:
		return "Bluetooth_paired"
	case SourceAux:
		return "Aux"
	case SourceOptical:
		return "Opt"
	case SourceUSB:
		return "Usb"
	default:
		return "UNKNOWN"
	}
}

// Settable reports whether the source can be selected with a set command.
func (s Source) Settable() bool {
	_, known := baseCodes[s]
	return known && s != SourceBluetoothPaired
}

// SettableSources returns every source that can be selected, in code order.
func SettableSources() []Source {
	return []Source{SourceWifi, SourceBluetooth, SourceAux, SourceOptical, SourceUSB}
}

// ParseSource parses a source name (case-insensitive).
// The read-only paired alias is rejected.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wifi", "wi-fi", "network":
		return SourceWifi, nil
	case "bluetooth", "bt":
		return SourceBluetooth, nil
	case "aux", "analog":
		return SourceAux, nil
	case "opt", "optical":
		return SourceOptical, nil
	case "usb":
		return SourceUSB, nil
	case "bluetooth_paired":
		return 0, fmt.Errorf("%w: %s is read-only", ErrNotSettable, s)
	default:
		return 0, fmt.Errorf("unknown source: %s (use: wifi, bluetooth, aux, opt, usb)", s)
	}
}

// StandbyPolicy is the idle time after which the speaker enters standby.
// The zero value is StandbyNever. Use Index for the position in the
// source code.
type StandbyPolicy uint8

const (
	// StandbyNever disables automatic standby.
	StandbyNever StandbyPolicy = iota
	// Standby20Min puts the speaker in standby after 20 idle minutes.
	Standby20Min
	// Standby60Min puts the speaker in standby after 60 idle minutes.
	Standby60Min
)

// Index returns the policy index multiplied by StandbyStep in a source code:
// 0 for 20 minutes, 1 for 60 minutes and 2 for never.
func (p StandbyPolicy) Index() uint8 {
	switch p {
	case Standby20Min:
		return 0
	case Standby60Min:
		return 1
	default:
		return 2
	}
}

// String returns the standby policy name.
func (p StandbyPolicy) String() string {
	switch p {
	case Standby20Min:
		return "20min"
	case Standby60Min:
		return "60min"
	case StandbyNever:
		return "never"
	default:
		return "UNKNOWN"
	}
}

// Minutes returns the standby time in minutes, or false for StandbyNever.
func (p StandbyPolicy) Minutes() (int, bool) {
	switch p {
	case Standby20Min:
		return 20, true
	case Standby60Min:
		return 60, true
	default:
		return 0, false
	}
}

// Valid reports whether p is one of the three defined policies.
func (p StandbyPolicy) Valid() bool {
	return p <= Standby60Min
}

// ParseStandby parses a standby policy ("20", "20min", "60", "60min", "never").
func ParseStandby(s string) (StandbyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "20", "20m", "20min":
		return Standby20Min, nil
	case "60", "60m", "60min":
		return Standby60Min, nil
	case "never", "none", "0", "":
		return StandbyNever, nil
	default:
		return 0, fmt.Errorf("invalid standby time: %s (use: 20, 60, never)", s)
	}
}

// StandbyFromMinutes maps a minute count to a policy. Zero means never.
func StandbyFromMinutes(minutes int) (StandbyPolicy, error) {
	switch minutes {
	case 20:
		return Standby20Min, nil
	case 60:
		return Standby60Min, nil
	case 0:
		return StandbyNever, nil
	default:
		return 0, fmt.Errorf("invalid standby time: %d minutes (use: 20, 60, or 0 for never)", minutes)
	}
}

// Orientation is the channel assignment of the speaker pair.
type Orientation uint8

const (
	// OrientationLR is the default left/right layout.
	OrientationLR Orientation = 0
	// OrientationRL is the inverse speaker mode.
	OrientationRL Orientation = 1
)

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case OrientationLR:
		return "L/R"
	case OrientationRL:
		return "R/L"
	default:
		return "UNKNOWN"
	}
}

// ParseOrientation parses "L/R" or "R/L" (case-insensitive, slash optional).
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "/", "")) {
	case "lr", "":
		return OrientationLR, nil
	case "rl", "inverse":
		return OrientationRL, nil
	default:
		return 0, fmt.Errorf("invalid orientation: %s (use: L/R or R/L)", s)
	}
}

// State is the decoded content of the source byte.
type State struct {
	Source      Source
	IsOn        bool
	Standby     StandbyPolicy
	Orientation Orientation
}

// String returns a compact human-readable form of the state.
func (s State) String() string {
	power := "off"
	if s.IsOn {
		power = "on"
	}
	return fmt.Sprintf("%s (%s, standby %s, %s)", s.Source, power, s.Standby, s.Orientation)
}
