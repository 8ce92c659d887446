package record

import (
	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/header"
)

const (
	signalSize   = 36
	sigsetWords  = 4
	cswSize      = 8
	cswWmesgLen  = 8
	cswWithWmesg = cswSize + cswWmesgLen
)

// Signal is a signal delivery.
type Signal struct {
	Signo  int32
	Action uint64
	Code   int32
	Mask   [sigsetWords]uint32
}

// ContextSwitch marks a thread leaving or resuming the CPU. Older producers
// omit the wait message.
type ContextSwitch struct {
	Out         bool
	User        bool
	WaitMessage string
	HasMessage  bool
}

func (*Signal) Type() header.RecordType        { return header.TypeSignal }
func (*ContextSwitch) Type() header.RecordType { return header.TypeContextSwitch }
func (*Signal) variant()                       {}
func (*ContextSwitch) variant()                {}

// signo i32 | pad 4 | action u64 | code i32 | mask 4*u32 [| pad 4]
func decodeSignal(f *fields, off int64) (Variant, error) {
	if err := expectSize(header.TypeSignal, f, off, signalSize); err != nil {
		return nil, err
	}
	s := &Signal{Signo: f.int32()}
	f.skip(4)
	s.Action = f.uint64()
	s.Code = f.int32()
	for i := range s.Mask {
		s.Mask[i] = f.uint32()
	}
	skipPadding(f)
	return s, nil
}

// out u32 | user u32 [| wmesg[8]]
func decodeContextSwitch(f *fields, off int64) (Variant, error) {
	n := f.remaining()
	if n != cswSize && n != cswWithWmesg {
		return nil, protocol.InvalidLength(off, "context switch payload must be %d or %d bytes, got %d", cswSize, cswWithWmesg, n)
	}
	c := &ContextSwitch{
		Out:  f.uint32() != 0,
		User: f.uint32() != 0,
	}
	if n == cswWithWmesg {
		c.WaitMessage = trimNUL(f.next(cswWmesgLen))
		c.HasMessage = true
	}
	return c, nil
}
