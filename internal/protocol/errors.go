package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated         = errors.New("protocol: truncated data")
	ErrUnknownRecordType = errors.New("protocol: unknown record type")
	ErrInvalidLength     = errors.New("protocol: invalid length")
	ErrIO                = errors.New("protocol: i/o failure")
)

// Kind classifies a DecodeError.
type Kind uint8

const (
	KindTruncated Kind = iota + 1
	KindUnknownRecordType
	KindInvalidLength
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindTruncated:
		return "truncated"
	case KindUnknownRecordType:
		return "unknown_record_type"
	case KindInvalidLength:
		return "invalid_length"
	case KindIO:
		return "io_failure"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindTruncated:
		return ErrTruncated
	case KindUnknownRecordType:
		return ErrUnknownRecordType
	case KindInvalidLength:
		return ErrInvalidLength
	case KindIO:
		return ErrIO
	default:
		return nil
	}
}

// DecodeError reports a decoding failure at an absolute stream offset.
// errors.Is matches both the kind sentinel and any wrapped source error.
type DecodeError struct {
	Kind   Kind
	Offset int64
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%v at offset %d", e.Kind.sentinel(), e.Offset)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() []error {
	out := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		out = append(out, s)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func Truncated(offset int64, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: KindTruncated, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func InvalidLength(offset int64, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: KindInvalidLength, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func UnknownRecordType(offset int64, tag uint16) *DecodeError {
	return &DecodeError{
		Kind:   KindUnknownRecordType,
		Offset: offset,
		Detail: fmt.Sprintf("tag %d not valid under any tried layout", tag),
	}
}

// IOFailure wraps err from the byte source verbatim.
func IOFailure(offset int64, err error) *DecodeError {
	return &DecodeError{Kind: KindIO, Offset: offset, Err: err}
}

// AsDecodeError extracts the DecodeError carried by err, if any.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
