// Package record decodes record payloads into a closed set of variants.
package record

import (
	"encoding/binary"

	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/header"
)

// Variant is the type-specific body of a record. The set of implementations
// is closed; consumers switch on the concrete type.
type Variant interface {
	Type() header.RecordType
	variant()
}

// Record pairs a header with its decoded payload. Records own all of their
// bytes and are never modified after decoding.
type Record struct {
	Header  header.Header
	Variant Variant
}

// Size is the number of wire bytes the record occupied.
func (r *Record) Size() int {
	return r.Header.Size() + int(r.Header.Length)
}

type decodeFunc func(f *fields, off int64) (Variant, error)

var decoders = [...]decodeFunc{
	header.TypeSyscall:            decodeSyscall,
	header.TypeSyscallReturn:      decodeSyscallReturn,
	header.TypeNamei:              decodeNamei,
	header.TypeGenIO:              decodeGenIO,
	header.TypeSignal:             decodeSignal,
	header.TypeContextSwitch:      decodeContextSwitch,
	header.TypeUser:               decodeUser,
	header.TypeStruct:             decodeStruct,
	header.TypeSysctl:             decodeSysctl,
	header.TypeProcessCreation:    decodeProcessCreation,
	header.TypeProcessDestruction: decodeProcessDestruction,
	header.TypeCapabilityFailure:  decodeCapabilityFailure,
	header.TypeFault:              decodeFault,
	header.TypeFaultEnd:           decodeFaultEnd,
}

// Decode turns exactly h.Length payload bytes into a Variant. A decoder that
// leaves bytes unread, or a payload of the wrong size, is an InvalidLength
// error at the payload offset.
func Decode(h header.Header, payload []byte, order binary.ByteOrder) (Variant, error) {
	off := h.PayloadOffset()
	if len(payload) != int(h.Length) {
		return nil, protocol.InvalidLength(off, "%v payload has %d bytes, header declares %d", h.Type, len(payload), h.Length)
	}
	if !h.Type.Valid() {
		return nil, protocol.UnknownRecordType(h.Offset, uint16(h.Type))
	}
	if order == nil {
		order = protocol.NativeOrder()
	}
	f := &fields{b: payload, order: order}
	v, err := decoders[h.Type](f, off)
	if err != nil {
		return nil, err
	}
	if f.pos != len(payload) {
		return nil, protocol.InvalidLength(off, "%v decoder consumed %d of %d bytes", h.Type, f.pos, len(payload))
	}
	return v, nil
}

func expectSize(t header.RecordType, f *fields, off int64, size int) error {
	if !padded(f.remaining(), size) {
		return protocol.InvalidLength(off, "%v payload must be %d bytes, got %d", t, size, f.remaining())
	}
	return nil
}

// skipPadding consumes alignment bytes left after a fixed-size body.
func skipPadding(f *fields) {
	f.skip(f.remaining())
}
