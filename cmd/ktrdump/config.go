package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/ktrdump/internal/config"
)

// fileConfig is the ktrdump config file: the decoder keys plus output toggles.
type fileConfig struct {
	Layout          string `toml:"layout"`
	OnUnknownType   string `toml:"on_unknown_type"`
	ByteOrder       string `toml:"byte_order"`
	MaxPayloadBytes int64  `toml:"max_payload_bytes"`
	Summary         bool   `toml:"summary"`
	Metrics         bool   `toml:"metrics"`
}

type runConfig struct {
	Decoder config.DecoderConfig
	Summary bool
	Metrics bool
}

func defaultRunConfig() runConfig {
	return runConfig{Decoder: config.DefaultDecoderConfig()}
}

func loadRunConfig(path string) (runConfig, error) {
	cfg := defaultRunConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runConfig{}, fmt.Errorf("load ktrdump config: %w", err)
	}

	if meta.IsDefined("layout") {
		cfg.Decoder.Layout = strings.TrimSpace(raw.Layout)
	}
	if meta.IsDefined("on_unknown_type") {
		cfg.Decoder.OnUnknownType = strings.TrimSpace(raw.OnUnknownType)
	}
	if meta.IsDefined("byte_order") {
		cfg.Decoder.ByteOrder = strings.TrimSpace(raw.ByteOrder)
	}
	if meta.IsDefined("max_payload_bytes") {
		cfg.Decoder.MaxPayloadBytes = raw.MaxPayloadBytes
	}
	if meta.IsDefined("summary") {
		cfg.Summary = raw.Summary
	}
	if meta.IsDefined("metrics") {
		cfg.Metrics = raw.Metrics
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return runConfig{}, fmt.Errorf("load ktrdump config: unknown key %q", undecoded[0].String())
	}

	if err := config.ValidateDecoderConfig(cfg.Decoder); err != nil {
		return runConfig{}, err
	}
	return cfg, nil
}
