// Package speaker is the public control surface for a KEF wireless speaker.
//
// A Speaker composes the transport and connection layers and adds the
// operations a caller actually wants: power, input source, volume and
// mute. Changing the source or power state is not instantaneous on the
// device, so SetSource, TurnOn and TurnOff poll until the speaker reports
// the requested state and return a *ConvergenceError when it does not.
//
// # Retry Layers
//
// Three named policies are stacked:
//
//	ControllerPolicy   10 attempts, exp. 1.5   protocol + exhausted transient errors
//	TransportPolicy     5 attempts, exp. 1.5   transient I/O errors
//	ReconnectPolicy    10 attempts, 0.5s fixed refused connections
//
// Offline speakers, convergence timeouts and cancellation are never retried.
//
// # Usage
//
//	cfg := speaker.DefaultConfig()
//	cfg.Host = "192.168.1.50"
//	spk, err := speaker.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer spk.Close()
//
//	if err := spk.TurnOnSource(ctx, wire.SourceAux); err != nil {
//	    return err
//	}
//	_, err = spk.SetVolume(ctx, 0.3)
package speaker
