package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/header"
	"github.com/danmuck/ktrdump/internal/protocol/sequence"
	"github.com/pelletier/go-toml/v2"
)

// DecoderConfig is the on-disk form of the decoder options.
type DecoderConfig struct {
	Layout          string `toml:"layout"`
	OnUnknownType   string `toml:"on_unknown_type"`
	ByteOrder       string `toml:"byte_order"`
	MaxPayloadBytes int64  `toml:"max_payload_bytes"`
}

func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		Layout:          "auto",
		OnUnknownType:   "abort",
		ByteOrder:       "native",
		MaxPayloadBytes: sequence.DefaultMaxPayload,
	}
}

// LoadDecoderConfig reads path over the defaults, so omitted keys keep
// their default values.
func LoadDecoderConfig(path string) (DecoderConfig, error) {
	cfg := DefaultDecoderConfig()
	if err := loadToml(path, &cfg); err != nil {
		return DecoderConfig{}, err
	}
	if err := ValidateDecoderConfig(cfg); err != nil {
		return DecoderConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateDecoderConfig(cfg DecoderConfig) error {
	if _, err := header.ParseLayout(cfg.Layout); err != nil {
		return fmt.Errorf("decoder config layout invalid: %w", err)
	}
	if _, err := sequence.ParseUnknownTypePolicy(cfg.OnUnknownType); err != nil {
		return fmt.Errorf("decoder config on_unknown_type invalid: %w", err)
	}
	if _, err := protocol.ParseByteOrder(cfg.ByteOrder); err != nil {
		return fmt.Errorf("decoder config byte_order invalid: %w", err)
	}
	if cfg.MaxPayloadBytes < 0 || cfg.MaxPayloadBytes > int64(^uint32(0)) {
		return fmt.Errorf("decoder config max_payload_bytes out of range: %d", cfg.MaxPayloadBytes)
	}
	return nil
}

// Describe renders cfg as TOML.
func Describe(cfg DecoderConfig) (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return "", fmt.Errorf("config encode failed: %w", err)
	}
	return b.String(), nil
}
