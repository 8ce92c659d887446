package record

import (
	"fmt"
	"strings"

	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/header"
)

const (
	capfailPrefix  = 8
	rightsWord     = 8
	minRightsWords = 2
)

// CapFailType is the reason a capability check failed.
type CapFailType uint32

const (
	CapFailNotCapable CapFailType = iota
	CapFailIncrease
	CapFailSyscall
	CapFailLookup
)

func (t CapFailType) String() string {
	switch t {
	case CapFailNotCapable:
		return "not capable"
	case CapFailIncrease:
		return "increase"
	case CapFailSyscall:
		return "syscall"
	case CapFailLookup:
		return "lookup"
	default:
		return fmt.Sprintf("capfail(%d)", uint32(t))
	}
}

// Rights is a cap_rights_t: a version-dependent run of 64-bit masks.
type Rights struct {
	Words []uint64
}

// Version is the cap_rights_t version implied by the word count.
func (r Rights) Version() int {
	return len(r.Words) - 2
}

// Missing returns the rights in r that held lacks.
func (r Rights) Missing(held Rights) Rights {
	out := Rights{Words: make([]uint64, len(r.Words))}
	for i, w := range r.Words {
		if i < len(held.Words) {
			w &^= held.Words[i]
		}
		out.Words[i] = w
	}
	return out
}

// Empty reports whether no right bit is set.
func (r Rights) Empty() bool {
	for _, w := range r.Words {
		if w != 0 {
			return false
		}
	}
	return true
}

func (r Rights) String() string {
	parts := make([]string, len(r.Words))
	for i, w := range r.Words {
		parts[i] = fmt.Sprintf("0x%x", w)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// CapabilityFailure reports an operation denied by capability mode.
type CapabilityFailure struct {
	FailType CapFailType
	Needed   Rights
	Held     Rights
}

func (*CapabilityFailure) Type() header.RecordType { return header.TypeCapabilityFailure }
func (*CapabilityFailure) variant()                {}

// type u32 | pad 4 | needed cap_rights_t | held cap_rights_t
func decodeCapabilityFailure(f *fields, off int64) (Variant, error) {
	n := f.remaining()
	body := n - capfailPrefix
	if body <= 0 || body%(2*rightsWord) != 0 || body/2/rightsWord < minRightsWords {
		return nil, protocol.InvalidLength(off, "capability failure payload of %d bytes does not hold two equal cap_rights_t", n)
	}
	c := &CapabilityFailure{FailType: CapFailType(f.uint32())}
	f.skip(4)
	words := body / 2 / rightsWord
	c.Needed = readRights(f, words)
	c.Held = readRights(f, words)
	return c, nil
}

func readRights(f *fields, words int) Rights {
	r := Rights{Words: make([]uint64, words)}
	for i := range r.Words {
		r.Words[i] = f.uint64()
	}
	return r
}
