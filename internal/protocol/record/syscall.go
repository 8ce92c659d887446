package record

import (
	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/header"
)

const (
	syscallPrefix = 8
	argWordSize   = 8
	sysretSize    = 16
)

// Syscall is a system call entry with its raw argument words.
type Syscall struct {
	Code uint16
	Args []uint64
}

// SyscallReturn is the result of a system call.
type SyscallReturn struct {
	Code   uint16
	Eosys  uint16
	Error  int32
	Retval int64
}

func (*Syscall) Type() header.RecordType       { return header.TypeSyscall }
func (*SyscallReturn) Type() header.RecordType { return header.TypeSyscallReturn }
func (*Syscall) variant()                      {}
func (*SyscallReturn) variant()                {}

// code u16 | argc u16 | pad 4 | argc * u64
func decodeSyscall(f *fields, off int64) (Variant, error) {
	n := f.remaining()
	if n < syscallPrefix {
		return nil, protocol.InvalidLength(off, "syscall payload of %d bytes shorter than %d byte prefix", n, syscallPrefix)
	}
	code := f.uint16()
	argc := int(f.uint16())
	if want := syscallPrefix + argc*argWordSize; want != n {
		return nil, protocol.InvalidLength(off, "syscall declares %d args (%d bytes), payload is %d bytes", argc, want, n)
	}
	f.skip(4)
	args := make([]uint64, argc)
	for i := range args {
		args[i] = f.uint64()
	}
	return &Syscall{Code: code, Args: args}, nil
}

// code u16 | eosys u16 | error i32 | retval i64
func decodeSyscallReturn(f *fields, off int64) (Variant, error) {
	if err := expectSize(header.TypeSyscallReturn, f, off, sysretSize); err != nil {
		return nil, err
	}
	return &SyscallReturn{
		Code:   f.uint16(),
		Eosys:  f.uint16(),
		Error:  f.int32(),
		Retval: f.int64(),
	}, nil
}
