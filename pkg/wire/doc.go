// Package wire defines the binary wire format spoken by KEF wireless speakers.
//
// The protocol is a fixed set of single-byte fields. There are no length
// prefixes and no multi-byte integers.
//
// # Commands
//
// Two command shapes exist:
//
//	query: 'G' <field> 0x80          (3 bytes)
//	set:   'S' <field> 0x81 <value>  (4 bytes)
//
// where <field> is FieldVolume ('%') or FieldSource ('0').
//
// # Replies
//
// Every reply frame starts with 'R' and is three bytes long:
//
//	query reply:     'R' <field> <value>
//	acknowledgement: 'R' 0x11 0xFF
//
// A single read may return several frames back to back. SplitFrames and
// ParseReply pick the frame that belongs to the command that was sent.
//
// # Source Codes
//
// The source byte packs three settings and the power state:
//
//	code = base(source) + 16*standby + 64*orientation (+128 when off)
//
// The table of all reachable codes is built once at package init by
// inverting the forward mapping.
//
// # Volume
//
// The volume byte is the level 0-100, plus 128 while muted. The level is
// preserved while muted.
package wire
