// Package transport sends single commands to a speaker and parses replies.
//
// The transport layer handles:
//   - Encoding query and set commands with pkg/wire
//   - One exchange per attempt over a connection.Manager
//   - Selecting the answering frame from multi-frame reads
//   - Retrying transient I/O failures with exponential backoff
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│   Speaker operations           │
//	├────────────────────────────────┤
//	│   Query / Set + reply parse    │  <- this package
//	├────────────────────────────────┤
//	│   Exchange (write, one read)   │
//	├────────────────────────────────┤
//	│           TCP :50001           │
//	└────────────────────────────────┘
//
// # Retries
//
// TransportPolicy retries an attempt only when it failed with
// connection.ErrTransient, which includes a read that timed out with no
// reply. Protocol errors, offline speakers and cancellation are returned to
// the caller at once.
package transport
