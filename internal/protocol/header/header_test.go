package header_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/cursor"
	"github.com/danmuck/ktrdump/internal/protocol/header"
	"github.com/danmuck/ktrdump/internal/testutil/ktrtest"
	"github.com/danmuck/ktrdump/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func decode(t *testing.T, d header.Decoder, b []byte) (header.Header, *cursor.Cursor, error) {
	t.Helper()
	c := cursor.New(bytes.NewReader(b))
	h, err := d.Decode(c)
	return h, c, err
}

func TestDecodeCurrentLayout(t *testing.T) {
	testlog.Start(t)
	head := ktrtest.Head{Type: uint16(header.TypeNamei), Version: 2, PID: 501, TID: 100501, Command: "ls", Sec: 1700000000, Usec: 42}
	b := ktrtest.Current().Header(head, 11)

	h, c, err := decode(t, header.Decoder{Order: binary.LittleEndian}, b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := header.Header{
		Layout:  header.LayoutCurrent,
		Type:    header.TypeNamei,
		Version: 2,
		Length:  11,
		PID:     501,
		TID:     100501,
		HasTID:  true,
		Command: "ls",
		Time:    header.Timestamp{Sec: 1700000000, Usec: 42},
	}
	if diff := cmp.Diff(want, h); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if c.Offset() != header.CurrentSize {
		t.Fatalf("expected %d bytes consumed, got %d", header.CurrentSize, c.Offset())
	}
}

func TestDecodeFallsBackToLegacy(t *testing.T) {
	testlog.Start(t)
	// A legacy length of 300 reads as tag 300 under the current layout.
	head := ktrtest.Head{Type: uint16(header.TypeGenIO), PID: 9, Command: "cat", Sec: 5, Usec: 6}
	b := append(ktrtest.Legacy().Header(head, 300), make([]byte, 300)...)

	h, c, err := decode(t, header.Decoder{Order: binary.LittleEndian}, b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Layout != header.LayoutLegacy || h.Type != header.TypeGenIO || h.Length != 300 || h.PID != 9 {
		t.Fatalf("unexpected legacy header: %+v", h)
	}
	if h.HasTID {
		t.Fatalf("legacy header must not report a thread id")
	}
	if c.Offset() != header.LegacySize {
		t.Fatalf("expected %d bytes consumed, got %d", header.LegacySize, c.Offset())
	}
}

func TestDecodeLegacyAtEndOfStream(t *testing.T) {
	testlog.Start(t)
	head := ktrtest.Head{Type: uint16(header.TypeProcessDestruction), PID: 3, Command: "init"}
	b := ktrtest.Legacy().Header(head, 0)

	h, _, err := decode(t, header.Decoder{Order: binary.LittleEndian}, b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Layout != header.LayoutLegacy || h.Type != header.TypeProcessDestruction {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestDecodeUnknownUnderBothLayouts(t *testing.T) {
	testlog.Start(t)
	b := ktrtest.Current().Header(ktrtest.Head{Type: 999}, 1000)

	_, c, err := decode(t, header.Decoder{Order: binary.LittleEndian}, b)
	if !errors.Is(err, protocol.ErrUnknownRecordType) {
		t.Fatalf("expected ErrUnknownRecordType, got %v", err)
	}
	if c.Offset() != 0 {
		t.Fatalf("failed decode consumed %d bytes", c.Offset())
	}
}

func TestDecodePinnedLayoutDoesNotProbe(t *testing.T) {
	testlog.Start(t)
	head := ktrtest.Head{Type: uint16(header.TypeGenIO), PID: 9}
	b := append(ktrtest.Legacy().Header(head, 300), make([]byte, 300)...)

	_, _, err := decode(t, header.Decoder{Layout: header.LayoutCurrent, Order: binary.LittleEndian}, b)
	if !errors.Is(err, protocol.ErrUnknownRecordType) {
		t.Fatalf("pinned current must reject legacy bytes, got %v", err)
	}
	h, _, err := decode(t, header.Decoder{Layout: header.LayoutLegacy, Order: binary.LittleEndian}, b)
	if err != nil || h.Type != header.TypeGenIO {
		t.Fatalf("pinned legacy: %+v %v", h, err)
	}
}

func TestDecodeShortHeaderIsTruncatedAtZero(t *testing.T) {
	testlog.Start(t)
	for _, n := range []int{1, 6, header.LegacySize - 1} {
		b := ktrtest.Current().Header(ktrtest.Head{Type: uint16(header.TypeSyscall)}, 8)[:n]
		_, _, err := decode(t, header.Decoder{Order: binary.LittleEndian}, b)
		if !errors.Is(err, protocol.ErrTruncated) {
			t.Fatalf("n=%d: expected ErrTruncated, got %v", n, err)
		}
		de, _ := protocol.AsDecodeError(err)
		if de.Offset != 0 {
			t.Fatalf("n=%d: expected offset 0, got %d", n, de.Offset)
		}
	}
}

func TestDecodeCurrentCutShortIsTruncated(t *testing.T) {
	testlog.Start(t)
	// 50 bytes is enough for legacy. A pid in 1..14 reads as a valid legacy
	// tag, which must not win over the valid current tag.
	for _, pid := range []int32{0, 1, 14} {
		head := ktrtest.Head{Type: uint16(header.TypeNamei), PID: pid, Command: "init"}
		b := ktrtest.Current().Header(head, 3)[:50]
		_, c, err := decode(t, header.Decoder{Order: binary.LittleEndian}, b)
		if !errors.Is(err, protocol.ErrTruncated) {
			t.Fatalf("pid=%d: expected ErrTruncated, got %v", pid, err)
		}
		de, _ := protocol.AsDecodeError(err)
		if de.Offset != 0 || c.Offset() != 0 {
			t.Fatalf("pid=%d: expected failure at offset 0 with nothing consumed, got %d/%d", pid, de.Offset, c.Offset())
		}
	}
}

func TestDropFlagAndCommandWidth(t *testing.T) {
	testlog.Start(t)
	head := ktrtest.Head{Type: uint16(header.TypeSysctl) | header.DropFlag, Command: "abcdefghijklmnopqrst"}
	b := ktrtest.Current().Header(head, 0)

	h, _, err := decode(t, header.Decoder{Order: binary.LittleEndian}, b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !h.Dropped || h.Type != header.TypeSysctl {
		t.Fatalf("drop flag not split from tag: %+v", h)
	}
	if h.Command != "abcdefghijklmnopqrst" {
		t.Fatalf("command without NUL must use full width, got %q", h.Command)
	}
}

func TestDecodeBigEndian(t *testing.T) {
	testlog.Start(t)
	bld := ktrtest.Builder{Layout: header.LayoutCurrent, Order: binary.BigEndian}
	b := bld.Header(ktrtest.Head{Type: uint16(header.TypeFaultEnd), PID: 7}, 4)

	h, _, err := decode(t, header.Decoder{Order: binary.BigEndian}, b)
	if err != nil || h.Type != header.TypeFaultEnd || h.Length != 4 || h.PID != 7 {
		t.Fatalf("big endian decode: %+v %v", h, err)
	}
}

func TestExtent(t *testing.T) {
	testlog.Start(t)
	b := append(ktrtest.Current().Header(ktrtest.Head{Type: 77}, 5), make([]byte, 5)...)
	c := cursor.New(bytes.NewReader(b))

	size, length, err := header.Decoder{Order: binary.LittleEndian}.Extent(c)
	if err != nil || size != header.CurrentSize || length != 5 {
		t.Fatalf("extent: size=%d length=%d err=%v", size, length, err)
	}
	if c.Offset() != 0 {
		t.Fatalf("extent consumed bytes")
	}

	c = cursor.New(bytes.NewReader(b[:10]))
	if _, _, err := (header.Decoder{}).Extent(c); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated when no layout fits, got %v", err)
	}
}

func TestExtentReportsSourceFailure(t *testing.T) {
	testlog.Start(t)
	boom := errors.New("read failed")
	b := ktrtest.Current().Header(ktrtest.Head{Type: 77}, 5)
	c := cursor.New(io.MultiReader(bytes.NewReader(b[:20]), iotest.ErrReader(boom)))

	_, _, err := header.Decoder{Order: binary.LittleEndian}.Extent(c)
	if !errors.Is(err, protocol.ErrIO) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped i/o failure, got %v", err)
	}
}

func TestZeroDecoderUsesHostOrder(t *testing.T) {
	testlog.Start(t)
	bld := ktrtest.Builder{Layout: header.LayoutCurrent, Order: protocol.NativeOrder()}
	b := bld.Header(ktrtest.Head{Type: uint16(header.TypeSysctl), PID: 300}, 0)

	h, _, err := decode(t, header.Decoder{Layout: header.LayoutCurrent}, b)
	if err != nil || h.Type != header.TypeSysctl || h.PID != 300 {
		t.Fatalf("zero-order decode: %+v %v", h, err)
	}
}

func TestParseLayoutAndTypeNames(t *testing.T) {
	testlog.Start(t)
	for raw, want := range map[string]header.Layout{"": header.LayoutAuto, "AUTO": header.LayoutAuto, "legacy": header.LayoutLegacy, " current ": header.LayoutCurrent} {
		got, err := header.ParseLayout(raw)
		if err != nil || got != want {
			t.Fatalf("ParseLayout(%q) = %v, %v", raw, got, err)
		}
	}
	if _, err := header.ParseLayout("v3"); err == nil {
		t.Fatalf("expected error for unknown layout")
	}
	if len(header.Types()) != 14 {
		t.Fatalf("expected 14 record types, got %d", len(header.Types()))
	}
	if header.TypeCapabilityFailure.String() != "CapabilityFailure" || header.RecordType(0).String() != "RecordType(0)" {
		t.Fatalf("unexpected type names")
	}
}
