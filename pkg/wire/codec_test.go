package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeCommands(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"get volume", EncodeGet(FieldVolume), []byte{0x47, 0x25, 0x80}},
		{"get source", EncodeGet(FieldSource), []byte{0x47, 0x30, 0x80}},
		{"set volume", EncodeSet(FieldVolume, 42), []byte{0x53, 0x25, 0x81, 42}},
		{"set source", EncodeSet(FieldSource, 0x0A), []byte{0x53, 0x30, 0x81, 0x0A}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !bytes.Equal(tt.got, tt.want) {
				t.Errorf("got % x, want % x", tt.got, tt.want)
			}
		})
	}
}

func TestSourceCodeTable(t *testing.T) {
	tests := []struct {
		source      Source
		standby     StandbyPolicy
		orientation Orientation
		want        uint8
	}{
		{SourceAux, Standby20Min, OrientationLR, 10},
		{SourceAux, Standby60Min, OrientationLR, 26},
		{SourceAux, StandbyNever, OrientationLR, 42},
		{SourceAux, Standby20Min, OrientationRL, 74},
		{SourceWifi, StandbyNever, OrientationRL, 98},
		{SourceBluetooth, Standby20Min, OrientationLR, 9},
		{SourceOptical, Standby60Min, OrientationRL, 91},
		{SourceUSB, StandbyNever, OrientationLR, 44},
	}

	for _, tt := range tests {
		t.Run(tt.source.String(), func(t *testing.T) {
			got, err := SourceCode(tt.source, tt.standby, tt.orientation)
			if err != nil {
				t.Fatalf("SourceCode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SourceCode(%s, %s, %s) = %d, want %d",
					tt.source, tt.standby, tt.orientation, got, tt.want)
			}
		})
	}
}

func TestSourceRoundTrip(t *testing.T) {
	for _, src := range SettableSources() {
		for _, p := range []StandbyPolicy{Standby20Min, Standby60Min, StandbyNever} {
			for _, o := range []Orientation{OrientationLR, OrientationRL} {
				code, err := SourceCode(src, p, o)
				if err != nil {
					t.Fatalf("SourceCode(%s, %s, %s) error = %v", src, p, o, err)
				}

				on, err := DecodeSource(code)
				if err != nil {
					t.Fatalf("DecodeSource(%d) error = %v", code, err)
				}
				want := State{Source: src, IsOn: true, Standby: p, Orientation: o}
				if on != want {
					t.Errorf("DecodeSource(%d) = %+v, want %+v", code, on, want)
				}

				off, err := DecodeSource(code + PowerOffOffset)
				if err != nil {
					t.Fatalf("DecodeSource(%d) error = %v", code+PowerOffOffset, err)
				}
				want.IsOn = false
				if off != want {
					t.Errorf("DecodeSource(%d) = %+v, want %+v", code+PowerOffOffset, off, want)
				}
			}
		}
	}
}

func TestPairedAliasDecodesToBluetooth(t *testing.T) {
	for _, p := range []StandbyPolicy{Standby20Min, Standby60Min, StandbyNever} {
		for _, o := range []Orientation{OrientationLR, OrientationRL} {
			code := 15 + StandbyStep*p.Index() + OrientationOffset*uint8(o)
			state, err := DecodeSource(code)
			if err != nil {
				t.Fatalf("DecodeSource(%d) error = %v", code, err)
			}
			if state.Source != SourceBluetooth {
				t.Errorf("DecodeSource(%d).Source = %s, want Bluetooth", code, state.Source)
			}
			if state.Standby != p || state.Orientation != o {
				t.Errorf("DecodeSource(%d) = %+v, want standby %s orientation %s", code, state, p, o)
			}
		}
	}
}

func TestPairedAliasNotSettable(t *testing.T) {
	if SourceBluetoothPaired.Settable() {
		t.Error("SourceBluetoothPaired.Settable() = true")
	}
	_, err := SourceCode(SourceBluetoothPaired, Standby20Min, OrientationLR)
	if !errors.Is(err, ErrNotSettable) {
		t.Errorf("SourceCode(paired) error = %v, want ErrNotSettable", err)
	}
	for _, s := range SettableSources() {
		if s == SourceBluetoothPaired {
			t.Error("SettableSources() contains the paired alias")
		}
	}
}

func TestDecodeSourceUnknown(t *testing.T) {
	for _, code := range []uint8{0, 1, 3, 127, 128, 200} {
		_, err := DecodeSource(code)
		if !errors.Is(err, ErrProtocol) {
			t.Errorf("DecodeSource(%d) error = %v, want ErrProtocol", code, err)
		}
	}
}

func TestEncodeSourceCodePower(t *testing.T) {
	on, err := EncodeSourceCode(SourceAux, Standby20Min, OrientationLR, true)
	if err != nil {
		t.Fatal(err)
	}
	off, err := EncodeSourceCode(SourceAux, Standby20Min, OrientationLR, false)
	if err != nil {
		t.Fatal(err)
	}
	if on != 10 || off != 138 {
		t.Errorf("EncodeSourceCode = (%d, %d), want (10, 138)", on, off)
	}
	if !DecodePower(on) || DecodePower(off) {
		t.Errorf("DecodePower(%d)=%v DecodePower(%d)=%v", on, DecodePower(on), off, DecodePower(off))
	}
}

func TestVolumeRoundTrip(t *testing.T) {
	for level := uint8(0); level <= MaxVolumeLevel; level++ {
		raw, err := EncodeVolume(level, false)
		if err != nil {
			t.Fatalf("EncodeVolume(%d, false) error = %v", level, err)
		}
		if got, muted := DecodeVolume(raw); got != level || muted {
			t.Errorf("DecodeVolume(%d) = (%d, %v), want (%d, false)", raw, got, muted, level)
		}

		raw, err = EncodeVolume(level, true)
		if err != nil {
			t.Fatalf("EncodeVolume(%d, true) error = %v", level, err)
		}
		if raw != level+MuteOffset {
			t.Errorf("EncodeVolume(%d, true) = %d, want %d", level, raw, level+MuteOffset)
		}
		if got, muted := DecodeVolume(raw); got != level || !muted {
			t.Errorf("DecodeVolume(%d) = (%d, %v), want (%d, true)", raw, got, muted, level)
		}
	}

	if _, err := EncodeVolume(101, false); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("EncodeVolume(101) error = %v, want ErrInvalidValue", err)
	}
}

func TestSplitFrames(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want [][]byte
	}{
		{
			name: "empty",
			raw:  nil,
			want: nil,
		},
		{
			name: "single",
			raw:  []byte{0x52, 0x30, 0x0A},
			want: [][]byte{{0x52, 0x30, 0x0A}},
		},
		{
			name: "concatenated",
			raw:  []byte{0x52, 0x25, 0x1E, 0x52, 0x30, 0x0A},
			want: [][]byte{{0x52, 0x25, 0x1E}, {0x52, 0x30, 0x0A}},
		},
		{
			name: "value equals marker",
			raw:  []byte{0x52, 0x30, 0x52, 0x52, 0x11, 0xFF},
			want: [][]byte{{0x52, 0x30, 0x52}, {0x52, 0x11, 0xFF}},
		},
		{
			name: "leading garbage and truncated tail",
			raw:  []byte{0x00, 0x52, 0x25, 0x10, 0x52, 0x30},
			want: [][]byte{{0x52, 0x25, 0x10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitFrames(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitFrames() = % x, want % x", got, tt.want)
			}
			for i := range got {
				if !bytes.Equal(got[i], tt.want[i]) {
					t.Errorf("frame %d = % x, want % x", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseReply(t *testing.T) {
	getSource := EncodeGet(FieldSource)
	getVolume := EncodeGet(FieldVolume)
	setVolume := EncodeSet(FieldVolume, 30)

	tests := []struct {
		name    string
		cmd     []byte
		raw     []byte
		want    uint8
		wantErr bool
	}{
		{"query source", getSource, []byte{0x52, 0x30, 0x0A}, 0x0A, false},
		{"query picks matching frame", getVolume, []byte{0x52, 0x30, 0x0A, 0x52, 0x25, 0x9E}, 0x9E, false},
		{"query no match", getVolume, []byte{0x52, 0x30, 0x0A}, 0, true},
		{"query empty", getSource, nil, 0, true},
		{"set ack", setVolume, []byte{0x52, 0x11, 0xFF}, AckValue, false},
		{"set ack after stale frame", setVolume, []byte{0x52, 0x25, 0x1E, 0x52, 0x11, 0xFF}, AckValue, false},
		{"set without ack", setVolume, []byte{0x52, 0x25, 0x1E}, 0, true},
		{"unknown command", []byte{0x00}, []byte{0x52, 0x11, 0xFF}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReply(tt.cmd, tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrProtocol) {
					t.Fatalf("ParseReply() error = %v, want ErrProtocol", err)
				}
				var pe *ProtocolError
				if !errors.As(err, &pe) {
					t.Fatalf("ParseReply() error type = %T, want *ProtocolError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseReply() = 0x%02x, want 0x%02x", got, tt.want)
			}
		})
	}
}
