package speaker

import (
	"context"
	"time"

	"github.com/kef-protocol/kef-go/pkg/wire"
)

// DefaultSyncTimeout bounds each SyncSpeaker call. It leaves room for a full
// TurnOn: 20 power polls plus the source polls and retries before them.
const DefaultSyncTimeout = 2 * time.Minute

// SyncSpeaker is a blocking facade over Speaker for callers without a
// context. Each call runs under its own timeout.
type SyncSpeaker struct {
	speaker *Speaker
	timeout time.Duration
}

// NewSyncSpeaker wraps s. A timeout <= 0 uses DefaultSyncTimeout.
func NewSyncSpeaker(s *Speaker, timeout time.Duration) *SyncSpeaker {
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}
	return &SyncSpeaker{speaker: s, timeout: timeout}
}

// Speaker returns the wrapped Speaker.
func (s *SyncSpeaker) Speaker() *Speaker {
	return s.speaker
}

func (s *SyncSpeaker) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// State calls Speaker.State.
func (s *SyncSpeaker) State() (wire.State, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.State(ctx)
}

// Source calls Speaker.Source.
func (s *SyncSpeaker) Source() (wire.Source, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.Source(ctx)
}

// SetSource calls Speaker.SetSource.
func (s *SyncSpeaker) SetSource(src wire.Source, on bool) error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.SetSource(ctx, src, on)
}

// IsOn calls Speaker.IsOn.
func (s *SyncSpeaker) IsOn() (bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.IsOn(ctx)
}

// TurnOn calls Speaker.TurnOn.
func (s *SyncSpeaker) TurnOn() error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.TurnOn(ctx)
}

// TurnOnSource calls Speaker.TurnOnSource.
func (s *SyncSpeaker) TurnOnSource(src wire.Source) error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.TurnOnSource(ctx, src)
}

// TurnOff calls Speaker.TurnOff.
func (s *SyncSpeaker) TurnOff() error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.TurnOff(ctx)
}

// IsOnline calls Speaker.IsOnline.
func (s *SyncSpeaker) IsOnline() bool {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.IsOnline(ctx)
}

// RawVolume calls Speaker.RawVolume.
func (s *SyncSpeaker) RawVolume() (uint8, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.RawVolume(ctx)
}

// VolumeAndMute calls Speaker.VolumeAndMute.
func (s *SyncSpeaker) VolumeAndMute() (float64, bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.VolumeAndMute(ctx)
}

// Volume calls Speaker.Volume.
func (s *SyncSpeaker) Volume() (float64, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.Volume(ctx)
}

// IsMuted calls Speaker.IsMuted.
func (s *SyncSpeaker) IsMuted() (bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.IsMuted(ctx)
}

// SetVolume calls Speaker.SetVolume.
func (s *SyncSpeaker) SetVolume(v float64) (float64, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.SetVolume(ctx, v)
}

// IncreaseVolume calls Speaker.IncreaseVolume.
func (s *SyncSpeaker) IncreaseVolume() (float64, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.IncreaseVolume(ctx)
}

// DecreaseVolume calls Speaker.DecreaseVolume.
func (s *SyncSpeaker) DecreaseVolume() (float64, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.DecreaseVolume(ctx)
}

// Mute calls Speaker.Mute.
func (s *SyncSpeaker) Mute() error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.Mute(ctx)
}

// Unmute calls Speaker.Unmute.
func (s *SyncSpeaker) Unmute() error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.speaker.Unmute(ctx)
}

// Close calls Speaker.Close.
func (s *SyncSpeaker) Close() error {
	return s.speaker.Close()
}
