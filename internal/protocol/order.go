package protocol

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/sys/cpu"
)

// NativeOrder returns the byte order of the host, which is what a producer
// on the same machine writes.
func NativeOrder() binary.ByteOrder {
	if cpu.IsBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ParseByteOrder maps native|little|big to a binary.ByteOrder. Empty means native.
func ParseByteOrder(raw string) (binary.ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "native":
		return NativeOrder(), nil
	case "little", "le":
		return binary.LittleEndian, nil
	case "big", "be":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("protocol: unknown byte order %q", raw)
	}
}
