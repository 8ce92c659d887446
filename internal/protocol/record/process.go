package record

import (
	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/header"
)

const (
	procCtorSize = 4
	faultSize    = 12
	faultEndSize = 4
)

// ProcessCreation carries the ABI flags of a new process.
type ProcessCreation struct {
	Flags uint32
}

// ProcessDestruction has no body.
type ProcessDestruction struct{}

// Fault is the start of a page fault.
type Fault struct {
	Address   uint64
	FaultType int32
}

// FaultEnd is the outcome of the preceding Fault.
type FaultEnd struct {
	Result int32
}

func (*ProcessCreation) Type() header.RecordType    { return header.TypeProcessCreation }
func (*ProcessDestruction) Type() header.RecordType { return header.TypeProcessDestruction }
func (*Fault) Type() header.RecordType              { return header.TypeFault }
func (*FaultEnd) Type() header.RecordType           { return header.TypeFaultEnd }
func (*ProcessCreation) variant()                   {}
func (*ProcessDestruction) variant()                {}
func (*Fault) variant()                             {}
func (*FaultEnd) variant()                          {}

func decodeProcessCreation(f *fields, off int64) (Variant, error) {
	if err := expectSize(header.TypeProcessCreation, f, off, procCtorSize); err != nil {
		return nil, err
	}
	p := &ProcessCreation{Flags: f.uint32()}
	skipPadding(f)
	return p, nil
}

func decodeProcessDestruction(f *fields, off int64) (Variant, error) {
	if n := f.remaining(); n != 0 {
		return nil, protocol.InvalidLength(off, "process destruction carries no payload, got %d bytes", n)
	}
	return &ProcessDestruction{}, nil
}

// vaddr u64 | type i32 [| pad 4]
func decodeFault(f *fields, off int64) (Variant, error) {
	if err := expectSize(header.TypeFault, f, off, faultSize); err != nil {
		return nil, err
	}
	p := &Fault{Address: f.uint64(), FaultType: f.int32()}
	skipPadding(f)
	return p, nil
}

func decodeFaultEnd(f *fields, off int64) (Variant, error) {
	if err := expectSize(header.TypeFaultEnd, f, off, faultEndSize); err != nil {
		return nil, err
	}
	p := &FaultEnd{Result: f.int32()}
	skipPadding(f)
	return p, nil
}
