package header

import "fmt"

// RecordType is the closed set of record kinds a header can announce.
type RecordType uint16

const (
	TypeSyscall RecordType = iota + 1
	TypeSyscallReturn
	TypeNamei
	TypeGenIO
	TypeSignal
	TypeContextSwitch
	TypeUser
	TypeStruct
	TypeSysctl
	TypeProcessCreation
	TypeProcessDestruction
	TypeCapabilityFailure
	TypeFault
	TypeFaultEnd
)

// DropFlag is set in the raw type field when the kernel dropped records
// before this one.
const DropFlag uint16 = 0x8000

var typeNames = [...]string{
	TypeSyscall:            "Syscall",
	TypeSyscallReturn:      "SyscallReturn",
	TypeNamei:              "Namei",
	TypeGenIO:              "GenIO",
	TypeSignal:             "Signal",
	TypeContextSwitch:      "ContextSwitch",
	TypeUser:               "User",
	TypeStruct:             "Struct",
	TypeSysctl:             "Sysctl",
	TypeProcessCreation:    "ProcessCreation",
	TypeProcessDestruction: "ProcessDestruction",
	TypeCapabilityFailure:  "CapabilityFailure",
	TypeFault:              "Fault",
	TypeFaultEnd:           "FaultEnd",
}

// Types lists every known record type in tag order.
func Types() []RecordType {
	out := make([]RecordType, 0, len(typeNames)-1)
	for t := TypeSyscall; t <= TypeFaultEnd; t++ {
		out = append(out, t)
	}
	return out
}

func (t RecordType) Valid() bool {
	return t >= TypeSyscall && t <= TypeFaultEnd
}

func (t RecordType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("RecordType(%d)", uint16(t))
	}
	return typeNames[t]
}

// splitType separates the drop flag from the record tag.
func splitType(raw uint16) (RecordType, bool) {
	return RecordType(raw &^ DropFlag), raw&DropFlag != 0
}
