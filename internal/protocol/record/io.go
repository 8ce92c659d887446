package record

import (
	"fmt"
	"strings"

	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/header"
)

const genioPrefix = 8

// Namei is a path lookup. The kernel does not promise valid text.
type Namei struct {
	Raw []byte
}

// Path is a best-effort text view of Raw.
func (n *Namei) Path() string {
	return strings.ToValidUTF8(string(n.Raw), "�")
}

// IODirection is the transfer direction of a GenIO record.
type IODirection uint32

const (
	IORead  IODirection = 0
	IOWrite IODirection = 1
)

func (d IODirection) String() string {
	switch d {
	case IORead:
		return "read"
	case IOWrite:
		return "write"
	default:
		return fmt.Sprintf("direction(%d)", uint32(d))
	}
}

// GenIO is data moved by a read or write on a descriptor.
type GenIO struct {
	FD        int32
	Direction IODirection
	Data      []byte
}

func (*Namei) Type() header.RecordType { return header.TypeNamei }
func (*GenIO) Type() header.RecordType { return header.TypeGenIO }
func (*Namei) variant()                {}
func (*GenIO) variant()                {}

func decodeNamei(f *fields, _ int64) (Variant, error) {
	return &Namei{Raw: f.rest()}, nil
}

// fd i32 | rw u32 | data
func decodeGenIO(f *fields, off int64) (Variant, error) {
	if n := f.remaining(); n < genioPrefix {
		return nil, protocol.InvalidLength(off, "genio payload of %d bytes shorter than %d byte prefix", n, genioPrefix)
	}
	return &GenIO{
		FD:        f.int32(),
		Direction: IODirection(f.uint32()),
		Data:      f.rest(),
	}, nil
}
