// Package log provides structured protocol capture for speaker sessions.
//
// Operational diagnostics go through log/slog. This package is the second
// channel: a machine-readable trace of every byte sent to and received from
// the speaker, every decoded command and reply, connection state changes and
// retries scheduled by the retry policies.
//
// # Basic Usage
//
//	// Development: print events through slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// Capture to a file for later inspection with kef-log
//	fl, _ := log.NewFileLogger("/tmp/speaker.klog")
//	cfg.ProtocolLogger = log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// # Layers
//
//   - Transport: raw socket bytes (FrameEvent)
//   - Wire: decoded commands and replies (MessageEvent)
//   - Service: speaker-level state observations (StateChangeEvent)
//
// Retries and errors have dedicated payloads at any layer.
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys,
// conventionally named *.klog.
package log
