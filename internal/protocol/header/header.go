// Package header decodes the fixed-size prefix of every trace record and
// resolves which historical layout the producer used.
package header

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/cursor"
)

// Timestamp holds the two embedded clock integers as written.
type Timestamp struct {
	Sec  int64
	Usec int64
}

func (t Timestamp) String() string {
	return fmt.Sprintf("%d.%06d", t.Sec, t.Usec)
}

// Header is the common metadata of one record.
type Header struct {
	Layout  Layout
	Type    RecordType
	Dropped bool
	Version uint16
	Length  uint32
	PID     int32
	TID     int64
	HasTID  bool
	Command string
	Time    Timestamp
	Offset  int64
}

// Size is the number of header bytes on the wire.
func (h Header) Size() int {
	return h.Layout.Size()
}

// PayloadOffset is the absolute offset of the first payload byte.
func (h Header) PayloadOffset() int64 {
	return h.Offset + int64(h.Size())
}

func (h Header) String() string {
	tid := "-"
	if h.HasTID {
		tid = fmt.Sprint(h.TID)
	}
	return fmt.Sprintf("%v (pid %d, tid %s, command %q, len %d)", h.Type, h.PID, tid, h.Command, h.Length)
}

// Decoder reads headers from a cursor. The zero value probes layouts using
// the host byte order.
type Decoder struct {
	Layout Layout
	Order  binary.ByteOrder
}

func (d Decoder) order() binary.ByteOrder {
	if d.Order == nil {
		return protocol.NativeOrder()
	}
	return d.Order
}

// Decode consumes one header. Under LayoutAuto the current layout is tried
// first and the same leading bytes are re-read as legacy when the tag is
// not a known record type. Nothing is consumed on failure.
func (d Decoder) Decode(c *cursor.Cursor) (Header, error) {
	off := c.Offset()
	switch d.Layout {
	case LayoutCurrent, LayoutLegacy:
		return d.decodePinned(c, d.Layout, off)
	case LayoutAuto:
		return d.decodeAuto(c, off)
	default:
		return Header{}, fmt.Errorf("header: unsupported layout %v", d.Layout)
	}
}

func (d Decoder) decodePinned(c *cursor.Cursor, l Layout, off int64) (Header, error) {
	b, err := c.Peek(l.Size())
	if err != nil {
		return Header{}, err
	}
	h := d.parse(l, b)
	if !h.Type.Valid() {
		tag, _ := rawTag(l, b, d.order())
		return Header{}, protocol.UnknownRecordType(off, tag)
	}
	return d.commit(c, h, off)
}

func (d Decoder) decodeAuto(c *cursor.Cursor, off int64) (Header, error) {
	b, err := c.Peek(CurrentSize)
	if err != nil {
		if !errors.Is(err, protocol.ErrTruncated) || len(b) < LegacySize {
			return Header{}, err
		}
	}
	tag, _ := rawTag(LayoutCurrent, b, d.order())
	if t, _ := splitType(tag); t.Valid() {
		if err != nil {
			// The current layout matches but runs past the end.
			return Header{}, err
		}
		return d.commit(c, d.parse(LayoutCurrent, b), off)
	}
	if h := d.parse(LayoutLegacy, b[:LegacySize]); h.Type.Valid() {
		return d.commit(c, h, off)
	}
	return Header{}, protocol.UnknownRecordType(off, tag)
}

func (d Decoder) parse(l Layout, b []byte) Header {
	if l == LayoutLegacy {
		return parseLegacy(b, d.order())
	}
	return parseCurrent(b, d.order())
}

func (d Decoder) commit(c *cursor.Cursor, h Header, off int64) (Header, error) {
	h.Offset = off
	if err := c.Skip(int64(h.Size())); err != nil {
		return Header{}, err
	}
	return h, nil
}

// Extent reports the header size and declared payload length of the record
// at the cursor without validating its tag or consuming it. Under
// LayoutAuto the current layout is preferred when enough bytes remain. A
// Truncated error means no layout fits the remaining bytes; any other error
// comes from the source.
func (d Decoder) Extent(c *cursor.Cursor) (int, uint32, error) {
	layouts := []Layout{d.Layout}
	if d.Layout == LayoutAuto {
		layouts = []Layout{LayoutCurrent, LayoutLegacy}
	}
	var err error
	for _, l := range layouts {
		b, peekErr := c.Peek(l.Size())
		if peekErr != nil {
			if !errors.Is(peekErr, protocol.ErrTruncated) {
				return 0, 0, peekErr
			}
			err = peekErr
			continue
		}
		return l.Size(), d.parse(l, b).Length, nil
	}
	return 0, 0, err
}
