// Package sequence drives header and payload decoding over a byte source
// and yields decoded records one at a time.
package sequence

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/cursor"
	"github.com/danmuck/ktrdump/internal/protocol/header"
	"github.com/danmuck/ktrdump/internal/protocol/record"
)

// ErrNotRestartable is returned by Restart when the source cannot seek.
var ErrNotRestartable = errors.New("sequence: source is not restartable")

// State is the position of a Sequence in its lifecycle.
type State uint8

const (
	Ready State = iota
	Decoding
	Exhausted
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Decoding:
		return "decoding"
	case Exhausted:
		return "exhausted"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Stats counts what a Sequence has produced so far.
type Stats struct {
	Records int
	Skipped int
	Bytes   int64
}

// Sequence is a lazy, ordered stream of records. It is not safe for
// concurrent use; decode independent streams with independent sequences.
type Sequence struct {
	src   io.Reader
	cur   *cursor.Cursor
	hdr   header.Decoder
	opts  Options
	state State
	err   error
	stats Stats
}

// New decodes records from r. Buffering, if any, is the caller's choice.
// Options naming an unsupported layout or policy are rejected with
// ErrInvalidOptions.
func New(r io.Reader, opts Options) (*Sequence, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts = opts.normalize()
	return &Sequence{
		src:  r,
		cur:  cursor.New(r),
		hdr:  header.Decoder{Layout: opts.Layout, Order: opts.ByteOrder},
		opts: opts,
	}, nil
}

// FromBytes decodes an in-memory trace. The result is restartable.
func FromBytes(b []byte, opts Options) (*Sequence, error) {
	return New(bytes.NewReader(b), opts)
}

func (s *Sequence) State() State  { return s.state }
func (s *Sequence) Offset() int64 { return s.cur.Offset() }
func (s *Sequence) Stats() Stats  { return s.stats }

// Err returns the terminal error once the sequence has failed.
func (s *Sequence) Err() error { return s.err }

// Next returns the next record. A clean end of stream, and every call after
// the sequence has exhausted or failed, returns io.EOF. A decode failure is
// returned exactly once as a *protocol.DecodeError.
func (s *Sequence) Next() (*record.Record, error) {
	if s.state == Exhausted || s.state == Failed {
		return nil, io.EOF
	}
	s.state = Decoding
	for {
		end, err := s.cur.AtEnd()
		if err != nil {
			return s.fail(err)
		}
		if end {
			s.state = Exhausted
			return nil, io.EOF
		}

		h, err := s.hdr.Decode(s.cur)
		if err != nil {
			if s.opts.OnUnknownType == UnknownSkip && errors.Is(err, protocol.ErrUnknownRecordType) {
				if skipErr := s.skip(err); skipErr != nil {
					return s.fail(skipErr)
				}
				continue
			}
			return s.fail(err)
		}

		rec, err := s.decodePayload(h)
		if err != nil {
			return s.fail(err)
		}
		s.state = Ready
		s.stats.Records++
		s.stats.Bytes += int64(rec.Size())
		s.opts.Observer.Decoded(rec)
		return rec, nil
	}
}

func (s *Sequence) decodePayload(h header.Header) (*record.Record, error) {
	if h.Length > s.opts.MaxPayload {
		return nil, protocol.InvalidLength(h.Offset, "%v declares %d payload bytes, limit is %d", h.Type, h.Length, s.opts.MaxPayload)
	}
	payload, err := s.cur.Take(int(h.Length))
	if err != nil {
		return nil, err
	}
	v, err := record.Decode(h, payload, s.opts.ByteOrder)
	if err != nil {
		return nil, err
	}
	return &record.Record{Header: h, Variant: v}, nil
}

// skip passes over a record with an unknown tag using the length declared
// under the preferred layout. cause is returned when no layout fits the
// remaining bytes; source failures are returned as they are.
func (s *Sequence) skip(cause error) error {
	off := s.cur.Offset()
	size, length, err := s.hdr.Extent(s.cur)
	if err != nil {
		if errors.Is(err, protocol.ErrTruncated) {
			return cause
		}
		return err
	}
	total := int64(size) + int64(length)
	if err := s.cur.Skip(total); err != nil {
		return err
	}
	s.stats.Skipped++
	s.opts.Observer.Skipped(off, total)
	s.opts.Logger.Debug().
		Int64("offset", off).
		Int64("bytes", total).
		Msg("sequence: skipped record with unknown type")
	return nil
}

func (s *Sequence) fail(err error) (*record.Record, error) {
	s.state = Failed
	de, ok := protocol.AsDecodeError(err)
	if !ok {
		de = protocol.IOFailure(s.cur.Offset(), err)
	}
	s.err = de
	s.opts.Observer.Failed(de)
	s.opts.Logger.Warn().
		Str("kind", de.Kind.String()).
		Int64("offset", de.Offset).
		Int("records", s.stats.Records).
		Msg("sequence: decode failed")
	return nil, de
}

// Records adapts Next to a range-over-func iterator. Iteration stops after
// the terminal error is yielded or at a clean end of stream.
func (s *Sequence) Records() iter.Seq2[*record.Record, error] {
	return func(yield func(*record.Record, error) bool) {
		for {
			rec, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Restart rewinds to the first record when the source implements io.Seeker.
func (s *Sequence) Restart() error {
	seeker, ok := s.src.(io.Seeker)
	if !ok {
		return ErrNotRestartable
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("sequence: restart: %w", err)
	}
	s.cur.Reset(s.src)
	s.state, s.err, s.stats = Ready, nil, Stats{}
	return nil
}

// ReadAll decodes r to the end. On failure the records decoded before the
// failing one are returned together with the error.
func ReadAll(r io.Reader, opts Options) ([]*record.Record, error) {
	seq, err := New(r, opts)
	if err != nil {
		return nil, err
	}
	var out []*record.Record
	for rec, err := range seq.Records() {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}
