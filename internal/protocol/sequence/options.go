package sequence

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/header"
	"github.com/danmuck/ktrdump/internal/protocol/record"
	"github.com/rs/zerolog"
)

// UnknownTypePolicy decides what happens to a record whose tag is invalid
// under every tried layout.
type UnknownTypePolicy uint8

const (
	UnknownAbort UnknownTypePolicy = iota
	UnknownSkip
)

func ParseUnknownTypePolicy(raw string) (UnknownTypePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "abort":
		return UnknownAbort, nil
	case "skip":
		return UnknownSkip, nil
	default:
		return UnknownAbort, fmt.Errorf("sequence: unknown on_unknown_type %q", raw)
	}
}

func (p UnknownTypePolicy) String() string {
	if p == UnknownSkip {
		return "skip"
	}
	return "abort"
}

// DefaultMaxPayload bounds the allocation for a single payload.
const DefaultMaxPayload = 16 << 20

// Observer receives decode outcomes. Implementations must be safe for
// concurrent use when shared between sequences.
type Observer interface {
	Decoded(rec *record.Record)
	Skipped(offset int64, size int64)
	Failed(err *protocol.DecodeError)
}

// Options configures one Sequence.
type Options struct {
	Layout        header.Layout
	OnUnknownType UnknownTypePolicy
	ByteOrder     binary.ByteOrder
	MaxPayload    uint32
	Logger        zerolog.Logger
	Observer      Observer
}

// DefaultOptions probes layouts, aborts on unknown types and reads native order.
func DefaultOptions() Options {
	return Options{
		Layout:        header.LayoutAuto,
		OnUnknownType: UnknownAbort,
		ByteOrder:     protocol.NativeOrder(),
		MaxPayload:    DefaultMaxPayload,
		Logger:        zerolog.Nop(),
	}
}

// ErrInvalidOptions is wrapped by errors from New for unusable Options.
var ErrInvalidOptions = errors.New("sequence: invalid options")

func (o Options) validate() error {
	switch o.Layout {
	case header.LayoutAuto, header.LayoutLegacy, header.LayoutCurrent:
	default:
		return fmt.Errorf("%w: unsupported layout %v", ErrInvalidOptions, o.Layout)
	}
	switch o.OnUnknownType {
	case UnknownAbort, UnknownSkip:
	default:
		return fmt.Errorf("%w: unsupported on_unknown_type %d", ErrInvalidOptions, uint8(o.OnUnknownType))
	}
	return nil
}

func (o Options) normalize() Options {
	if o.ByteOrder == nil {
		o.ByteOrder = protocol.NativeOrder()
	}
	if o.MaxPayload == 0 {
		o.MaxPayload = DefaultMaxPayload
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return o
}

type nopObserver struct{}

func (nopObserver) Decoded(*record.Record)       {}
func (nopObserver) Skipped(int64, int64)         {}
func (nopObserver) Failed(*protocol.DecodeError) {}
