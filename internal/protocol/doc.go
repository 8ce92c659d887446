// Package protocol owns the ktrace wire contract and its decoding primitives.
//
// Ownership boundary:
// - error taxonomy shared by every decoding layer
// - byte order selection
// - cursor, header, record and sequence subpackages
//
// Decoding is strictly forward and one-pass. Every failure carries the
// absolute byte offset at which it was detected.
package protocol
