// Package ktrtest builds synthetic trace bytes for tests.
package ktrtest

import (
	"encoding/binary"

	"github.com/danmuck/ktrdump/internal/protocol/header"
)

// Head holds the header fields a test wants to control. Type is raw so
// tests can write tags outside the known set or set the drop flag.
type Head struct {
	Type    uint16
	Version uint16
	PID     int32
	TID     int64
	Command string
	Sec     int64
	Usec    int64
}

// Builder writes records in one layout and byte order.
type Builder struct {
	Layout header.Layout
	Order  binary.ByteOrder
}

func Current() Builder {
	return Builder{Layout: header.LayoutCurrent, Order: binary.LittleEndian}
}

func Legacy() Builder {
	return Builder{Layout: header.LayoutLegacy, Order: binary.LittleEndian}
}

// Header encodes h declaring length payload bytes.
func (b Builder) Header(h Head, length int) []byte {
	o := b.Order
	if b.Layout == header.LayoutLegacy {
		buf := make([]byte, header.LegacySize)
		o.PutUint32(buf[0:4], uint32(h.PID))
		o.PutUint32(buf[4:8], uint32(length))
		o.PutUint16(buf[8:10], h.Type)
		copy(buf[12:32], h.Command)
		o.PutUint32(buf[32:36], uint32(int32(h.Sec)))
		o.PutUint32(buf[36:40], uint32(int32(h.Usec)))
		return buf
	}
	buf := make([]byte, header.CurrentSize)
	o.PutUint32(buf[0:4], uint32(length))
	o.PutUint16(buf[4:6], h.Type)
	o.PutUint16(buf[6:8], h.Version)
	o.PutUint32(buf[8:12], uint32(h.PID))
	copy(buf[12:32], h.Command)
	o.PutUint64(buf[32:40], uint64(h.Sec))
	o.PutUint64(buf[40:48], uint64(h.Usec))
	o.PutUint64(buf[48:56], uint64(h.TID))
	return buf
}

// Record is a header declaring len(payload) followed by payload.
func (b Builder) Record(h Head, payload []byte) []byte {
	return append(b.Header(h, len(payload)), payload...)
}

// Typed is Record with a default head for t.
func (b Builder) Typed(t header.RecordType, payload []byte) []byte {
	return b.Record(Head{Type: uint16(t), PID: 42, TID: 100042, Command: "sh", Sec: 1700000000, Usec: 123456}, payload)
}

func (b Builder) Syscall(code uint16, args ...uint64) []byte {
	buf := make([]byte, 8+8*len(args))
	b.Order.PutUint16(buf[0:2], code)
	b.Order.PutUint16(buf[2:4], uint16(len(args)))
	for i, a := range args {
		b.Order.PutUint64(buf[8+8*i:], a)
	}
	return buf
}

func (b Builder) SyscallReturn(code, eosys uint16, errno int32, retval int64) []byte {
	buf := make([]byte, 16)
	b.Order.PutUint16(buf[0:2], code)
	b.Order.PutUint16(buf[2:4], eosys)
	b.Order.PutUint32(buf[4:8], uint32(errno))
	b.Order.PutUint64(buf[8:16], uint64(retval))
	return buf
}

func (b Builder) GenIO(fd int32, dir uint32, data []byte) []byte {
	buf := make([]byte, 8, 8+len(data))
	b.Order.PutUint32(buf[0:4], uint32(fd))
	b.Order.PutUint32(buf[4:8], dir)
	return append(buf, data...)
}

// Signal writes the padded 40 byte form.
func (b Builder) Signal(signo int32, action uint64, code int32, mask [4]uint32) []byte {
	buf := make([]byte, 40)
	b.Order.PutUint32(buf[0:4], uint32(signo))
	b.Order.PutUint64(buf[8:16], action)
	b.Order.PutUint32(buf[16:20], uint32(code))
	for i, m := range mask {
		b.Order.PutUint32(buf[20+4*i:], m)
	}
	return buf
}

// ContextSwitch omits the wait message when wmesg is empty.
func (b Builder) ContextSwitch(out, user bool, wmesg string) []byte {
	size := 8
	if wmesg != "" {
		size = 16
	}
	buf := make([]byte, size)
	b.Order.PutUint32(buf[0:4], boolWord(out))
	b.Order.PutUint32(buf[4:8], boolWord(user))
	if wmesg != "" {
		copy(buf[8:16], wmesg)
	}
	return buf
}

func (b Builder) Struct(name string, content []byte) []byte {
	buf := append([]byte(name), 0)
	return append(buf, content...)
}

func (b Builder) Uint32(v uint32) []byte {
	buf := make([]byte, 4)
	b.Order.PutUint32(buf, v)
	return buf
}

func (b Builder) Fault(addr uint64, typ int32) []byte {
	buf := make([]byte, 16)
	b.Order.PutUint64(buf[0:8], addr)
	b.Order.PutUint32(buf[8:12], uint32(typ))
	return buf
}

func (b Builder) CapabilityFailure(typ uint32, needed, held []uint64) []byte {
	words := append(append([]uint64(nil), needed...), held...)
	buf := make([]byte, 8+8*len(words))
	b.Order.PutUint32(buf[0:4], typ)
	for i, w := range words {
		b.Order.PutUint64(buf[8+8*i:], w)
	}
	return buf
}

// Concat joins record buffers into one stream.
func Concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func boolWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
