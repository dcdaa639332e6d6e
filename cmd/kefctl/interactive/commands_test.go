package interactive

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kef-protocol/kef-go/pkg/connection"
	"github.com/kef-protocol/kef-go/pkg/simulator"
	"github.com/kef-protocol/kef-go/pkg/speaker"
	"github.com/kef-protocol/kef-go/pkg/wire"
)

func newTestSpeaker(t *testing.T, simCfg simulator.Config) (*speaker.Speaker, *simulator.Simulator) {
	t.Helper()
	sim, err := simulator.New(simCfg)
	require.NoError(t, err)
	require.NoError(t, sim.Start(context.Background()))
	t.Cleanup(func() { sim.Stop() })

	host, portStr, err := net.SplitHostPort(sim.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	fast := connection.BackoffConfig{Initial: time.Millisecond, Max: time.Millisecond, Multiplier: 1}
	cfg := speaker.DefaultConfig()
	cfg.Host = host
	cfg.Port = port
	cfg.SourcePollInterval = time.Millisecond
	cfg.PowerPollInterval = 5 * time.Millisecond
	cfg.Reconnect.Backoff = fast
	cfg.Transport.Backoff = fast
	cfg.Controller.Backoff = fast

	sp, err := speaker.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { sp.Close() })
	return sp, sim
}

func run(t *testing.T, sp *speaker.Speaker, cmd string, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Execute(context.Background(), sp, &buf, cmd, args))
	return buf.String()
}

func TestExecuteStatus(t *testing.T) {
	sp, _ := newTestSpeaker(t, simulator.Config{
		Source:      wire.SourceOptical,
		On:          true,
		Standby:     wire.Standby60Min,
		Orientation: wire.OrientationRL,
		Volume:      35,
		Muted:       true,
	})

	out := run(t, sp, "status")
	assert.Contains(t, out, "Power:       on")
	assert.Contains(t, out, "Source:      Opt")
	assert.Contains(t, out, "Standby:     60 minutes")
	assert.Contains(t, out, "Orientation: R/L")
	assert.Contains(t, out, "Volume:      35% (muted)")
}

func TestExecuteVolume(t *testing.T) {
	sp, sim := newTestSpeaker(t, simulator.Config{On: true, Volume: 20})

	assert.Equal(t, "Volume: 20%\n", run(t, sp, "volume"))
	assert.Equal(t, "Volume: 45%\n", run(t, sp, "volume", "45"))
	assert.Equal(t, uint8(45), sim.VolumeByte())

	assert.Equal(t, "Volume: 30%\n", run(t, sp, "vol", "0.3"))
	assert.Equal(t, uint8(30), sim.VolumeByte())

	assert.Equal(t, "Volume: 35%\n", run(t, sp, "up"))
	assert.Equal(t, "Volume: 30%\n", run(t, sp, "down"))
}

func TestExecuteVolumeUsage(t *testing.T) {
	sp, sim := newTestSpeaker(t, simulator.Config{On: true, Volume: 30})

	for _, arg := range []string{"loud", "-5", "150", "nan", "NaN%", "inf", "-Inf"} {
		err := Execute(context.Background(), sp, &bytes.Buffer{}, "volume", []string{arg})
		assert.ErrorIs(t, err, ErrUsage, arg)
	}
	assert.Equal(t, uint8(30), sim.VolumeByte())
}

func TestExecuteMuteUnmute(t *testing.T) {
	sp, sim := newTestSpeaker(t, simulator.Config{On: true, Volume: 40})

	assert.Equal(t, "Muted\n", run(t, sp, "mute"))
	assert.Equal(t, uint8(40+wire.MuteOffset), sim.VolumeByte())
	assert.Equal(t, "Volume: 40% (muted)\n", run(t, sp, "volume"))

	assert.Equal(t, "Unmuted\n", run(t, sp, "unmute"))
	assert.Equal(t, uint8(40), sim.VolumeByte())
}

func TestExecuteSourceKeepsPower(t *testing.T) {
	sp, sim := newTestSpeaker(t, simulator.Config{Source: wire.SourceWifi, On: false})

	assert.Equal(t, "Source: Wifi\n", run(t, sp, "source"))
	assert.Equal(t, "Source: Usb\n", run(t, sp, "source", "usb"))

	state := sim.State()
	assert.Equal(t, wire.SourceUSB, state.Source)
	assert.False(t, state.IsOn)
}

func TestExecuteSourceRejectsPairedAlias(t *testing.T) {
	sp, _ := newTestSpeaker(t, simulator.Config{On: true})

	err := Execute(context.Background(), sp, &bytes.Buffer{}, "source", []string{"bluetooth_paired"})
	assert.ErrorIs(t, err, wire.ErrNotSettable)
}

func TestExecutePower(t *testing.T) {
	sp, sim := newTestSpeaker(t, simulator.Config{Source: wire.SourceAux, On: false})

	assert.Equal(t, "Speaker is on (Bluetooth)\n", run(t, sp, "on", "bt"))
	state := sim.State()
	assert.True(t, state.IsOn)
	assert.Equal(t, wire.SourceBluetooth, state.Source)

	assert.Equal(t, "Speaker is off\n", run(t, sp, "off"))
	assert.False(t, sim.State().IsOn)

	assert.Equal(t, "Speaker is on\n", run(t, sp, "on"))
	assert.Equal(t, wire.SourceBluetooth, sim.State().Source)
}

func TestExecuteOnline(t *testing.T) {
	sp, sim := newTestSpeaker(t, simulator.Config{On: true})
	assert.Equal(t, "online\n", run(t, sp, "online"))
	assert.Equal(t, 1, sim.AcceptedCount())
}

func TestExecuteOffline(t *testing.T) {
	sp, sim := newTestSpeaker(t, simulator.Config{On: true})
	require.NoError(t, sim.Stop())

	assert.Equal(t, "offline\n", run(t, sp, "online"))
}

func TestExecuteUnknownCommand(t *testing.T) {
	sp, _ := newTestSpeaker(t, simulator.Config{On: true})

	err := Execute(context.Background(), sp, &bytes.Buffer{}, "reboot", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"35", 0.35},
		{"35%", 0.35},
		{"100", 1},
		{"0.5", 0.5},
		{"1.0", 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
