package record

import "encoding/binary"

// fields walks a payload front to back. Reads past the end yield zero
// values; callers validate the payload shape before reading and Decode
// checks that every byte was consumed.
type fields struct {
	b     []byte
	pos   int
	order binary.ByteOrder
}

func (f *fields) remaining() int {
	return len(f.b) - f.pos
}

func (f *fields) next(n int) []byte {
	if n > f.remaining() {
		f.pos = len(f.b)
		return make([]byte, n)
	}
	out := f.b[f.pos : f.pos+n]
	f.pos += n
	return out
}

func (f *fields) skip(n int) {
	f.next(n)
}

func (f *fields) uint16() uint16 { return f.order.Uint16(f.next(2)) }
func (f *fields) uint32() uint32 { return f.order.Uint32(f.next(4)) }
func (f *fields) uint64() uint64 { return f.order.Uint64(f.next(8)) }
func (f *fields) int32() int32   { return int32(f.uint32()) }
func (f *fields) int64() int64   { return int64(f.uint64()) }

// bytes returns an owned copy of the next n bytes.
func (f *fields) bytes(n int) []byte {
	out := make([]byte, n)
	copy(out, f.next(n))
	return out
}

// rest returns an owned copy of everything not yet read.
func (f *fields) rest() []byte {
	return f.bytes(f.remaining())
}

// cstring reads up to the first NUL and consumes the NUL. found is false
// when the remaining bytes hold no NUL, in which case they are all consumed.
func (f *fields) cstring() (s string, found bool) {
	tail := f.b[f.pos:]
	for i, c := range tail {
		if c == 0 {
			f.pos += i + 1
			return string(tail[:i]), true
		}
	}
	f.pos = len(f.b)
	return string(tail), false
}

// trimNUL reads a fixed-width NUL-padded field.
func trimNUL(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// padded reports whether n equals size or size rounded up to 8 bytes.
func padded(n, size int) bool {
	return n == size || n == (size+7)&^7
}
