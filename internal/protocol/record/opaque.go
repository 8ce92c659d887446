package record

import (
	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/header"
)

// The variants in this file carry bodies this package does not interpret.

// User is data handed to the tracer by a userland utrace call.
type User struct {
	Data []byte
}

// Struct is a named kernel structure dump.
type Struct struct {
	Name    string
	Content []byte
}

// Sysctl names the MIB being accessed.
type Sysctl struct {
	Name string
	Data []byte
}

func (*User) Type() header.RecordType   { return header.TypeUser }
func (*Struct) Type() header.RecordType { return header.TypeStruct }
func (*Sysctl) Type() header.RecordType { return header.TypeSysctl }
func (*User) variant()                  {}
func (*Struct) variant()                {}
func (*Sysctl) variant()                {}

func decodeUser(f *fields, _ int64) (Variant, error) {
	return &User{Data: f.rest()}, nil
}

// name NUL | content
func decodeStruct(f *fields, off int64) (Variant, error) {
	name, ok := f.cstring()
	if !ok {
		return nil, protocol.InvalidLength(off, "struct name is not NUL terminated within %d bytes", len(f.b))
	}
	return &Struct{Name: name, Content: f.rest()}, nil
}

// name [NUL | data]
func decodeSysctl(f *fields, off int64) (Variant, error) {
	if f.remaining() == 0 {
		return nil, protocol.InvalidLength(off, "sysctl payload is empty")
	}
	name, _ := f.cstring()
	return &Sysctl{Name: name, Data: f.rest()}, nil
}
