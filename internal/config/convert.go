package config

import (
	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/header"
	"github.com/danmuck/ktrdump/internal/protocol/sequence"
	"github.com/rs/zerolog"
)

// Options converts a validated config into sequence options.
func (cfg DecoderConfig) Options(logger zerolog.Logger, observer sequence.Observer) (sequence.Options, error) {
	if err := ValidateDecoderConfig(cfg); err != nil {
		return sequence.Options{}, err
	}
	layout, _ := header.ParseLayout(cfg.Layout)
	policy, _ := sequence.ParseUnknownTypePolicy(cfg.OnUnknownType)
	order, _ := protocol.ParseByteOrder(cfg.ByteOrder)

	opts := sequence.DefaultOptions()
	opts.Layout = layout
	opts.OnUnknownType = policy
	opts.ByteOrder = order
	opts.MaxPayload = uint32(cfg.MaxPayloadBytes)
	opts.Logger = logger
	opts.Observer = observer
	return opts, nil
}
