// Package render formats decoded records as single text lines.
package render

import (
	"fmt"
	"strings"

	"github.com/danmuck/ktrdump/internal/protocol/record"
)

// previewBytes caps how much opaque data a line shows.
const previewBytes = 16

// Line renders rec as "pid tid command timestamp TAG body".
func Line(rec *record.Record) string {
	h := rec.Header
	tid := "-"
	if h.HasTID {
		tid = fmt.Sprint(h.TID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%6d %-7s %-8s %s ", h.PID, tid, h.Command, h.Time)
	if h.Dropped {
		b.WriteString("<records dropped> ")
	}
	b.WriteString(Variant(rec.Variant))
	return b.String()
}

// Variant renders the body of a record with a short kdump-style tag.
func Variant(v record.Variant) string {
	switch v := v.(type) {
	case *record.Syscall:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = fmt.Sprintf("0x%x", a)
		}
		return fmt.Sprintf("CALL  %d(%s)", v.Code, strings.Join(args, ","))
	case *record.SyscallReturn:
		if v.Error != 0 {
			return fmt.Sprintf("RET   %d -1 errno %d", v.Code, v.Error)
		}
		return fmt.Sprintf("RET   %d %d/0x%x", v.Code, v.Retval, v.Retval)
	case *record.Namei:
		return fmt.Sprintf("NAMI  %q", v.Path())
	case *record.GenIO:
		return fmt.Sprintf("GIO   fd %d %s %d bytes %s", v.FD, v.Direction, len(v.Data), preview(v.Data))
	case *record.Signal:
		return fmt.Sprintf("PSIG  sig %d caught handler=0x%x mask=0x%x code=%d", v.Signo, v.Action, v.Mask[0], v.Code)
	case *record.ContextSwitch:
		state, mode := "resume", "kernel"
		if v.Out {
			state = "stop"
		}
		if v.User {
			mode = "user"
		}
		if v.HasMessage {
			return fmt.Sprintf("CSW   %s %s %q", state, mode, v.WaitMessage)
		}
		return fmt.Sprintf("CSW   %s %s", state, mode)
	case *record.User:
		return fmt.Sprintf("USER  %d bytes %s", len(v.Data), preview(v.Data))
	case *record.Struct:
		return fmt.Sprintf("STRU  struct %s { %d bytes }", v.Name, len(v.Content))
	case *record.Sysctl:
		return fmt.Sprintf("SCTL  %q", v.Name)
	case *record.ProcessCreation:
		return fmt.Sprintf("PROCC 0x%x", v.Flags)
	case *record.ProcessDestruction:
		return "PDEST"
	case *record.CapabilityFailure:
		if v.FailType == record.CapFailNotCapable {
			return fmt.Sprintf("CAP   operation requires %s, descriptor holds %s", v.Needed, v.Held)
		}
		return fmt.Sprintf("CAP   %s", v.FailType)
	case *record.Fault:
		return fmt.Sprintf("PFLT  0x%x %d", v.Address, v.FaultType)
	case *record.FaultEnd:
		return fmt.Sprintf("PRET  %d", v.Result)
	default:
		return fmt.Sprintf("????  %T", v)
	}
}

func preview(data []byte) string {
	n := min(len(data), previewBytes)
	parts := make([]string, n)
	for i := range n {
		parts[i] = fmt.Sprintf("%02x", data[i])
	}
	out := "[" + strings.Join(parts, " ")
	if len(data) > n {
		out += " ..."
	}
	return out + "]"
}
