package header

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Layout selects one of the historical fixed header shapes.
type Layout uint8

const (
	// LayoutAuto probes current first and falls back to legacy.
	LayoutAuto Layout = iota
	LayoutLegacy
	LayoutCurrent
)

const (
	CurrentSize = 56
	LegacySize  = 40
	CommandLen  = 20
)

func ParseLayout(raw string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "auto":
		return LayoutAuto, nil
	case "legacy":
		return LayoutLegacy, nil
	case "current":
		return LayoutCurrent, nil
	default:
		return LayoutAuto, fmt.Errorf("header: unknown layout %q", raw)
	}
}

func (l Layout) String() string {
	switch l {
	case LayoutAuto:
		return "auto"
	case LayoutLegacy:
		return "legacy"
	case LayoutCurrent:
		return "current"
	default:
		return fmt.Sprintf("layout(%d)", uint8(l))
	}
}

// Size is the fixed byte width of a concrete layout, 0 for auto.
func (l Layout) Size() int {
	switch l {
	case LayoutLegacy:
		return LegacySize
	case LayoutCurrent:
		return CurrentSize
	default:
		return 0
	}
}

// Current layout, LP64 producer:
//
//	0  len u32 | 4 type u16 | 6 version u16 | 8 pid i32 | 12 comm[20]
//	32 sec i64 | 40 usec i64 | 48 tid i64
func parseCurrent(b []byte, order binary.ByteOrder) Header {
	typ, dropped := splitType(order.Uint16(b[4:6]))
	return Header{
		Layout:  LayoutCurrent,
		Length:  order.Uint32(b[0:4]),
		Type:    typ,
		Dropped: dropped,
		Version: order.Uint16(b[6:8]),
		PID:     int32(order.Uint32(b[8:12])),
		Command: command(b[12:32]),
		Time: Timestamp{
			Sec:  int64(order.Uint64(b[32:40])),
			Usec: int64(order.Uint64(b[40:48])),
		},
		TID:    int64(order.Uint64(b[48:56])),
		HasTID: true,
	}
}

// Legacy layout, ILP32 producer without a thread id:
//
//	0  pid i32 | 4 len u32 | 8 type u16 | 10 pad | 12 comm[20]
//	32 sec i32 | 36 usec i32
func parseLegacy(b []byte, order binary.ByteOrder) Header {
	typ, dropped := splitType(order.Uint16(b[8:10]))
	return Header{
		Layout:  LayoutLegacy,
		PID:     int32(order.Uint32(b[0:4])),
		Length:  order.Uint32(b[4:8]),
		Type:    typ,
		Dropped: dropped,
		Command: command(b[12:32]),
		Time: Timestamp{
			Sec:  int64(int32(order.Uint32(b[32:36]))),
			Usec: int64(int32(order.Uint32(b[36:40]))),
		},
	}
}

// rawTag reads only the type field, which needs fewer bytes than the layout.
func rawTag(l Layout, b []byte, order binary.ByteOrder) (uint16, bool) {
	switch l {
	case LayoutCurrent:
		if len(b) < 6 {
			return 0, false
		}
		return order.Uint16(b[4:6]), true
	case LayoutLegacy:
		if len(b) < 10 {
			return 0, false
		}
		return order.Uint16(b[8:10]), true
	default:
		return 0, false
	}
}

// command truncates at the first NUL; without one the full width is used.
func command(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
