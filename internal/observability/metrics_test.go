package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/danmuck/ktrdump/internal/protocol"
	"github.com/danmuck/ktrdump/internal/protocol/header"
	"github.com/danmuck/ktrdump/internal/protocol/record"
	"github.com/danmuck/ktrdump/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsIsIdempotent(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()
	NewDecodeObserver()
}

func TestDecodeObserverCounts(t *testing.T) {
	testlog.Start(t)
	obs := NewDecodeObserver()

	syscalls := decodeRecords.WithLabelValues(header.TypeSyscall.String())
	truncated := decodeErrors.WithLabelValues(protocol.KindTruncated.String())
	beforeRecords := testutil.ToFloat64(syscalls)
	beforeBytes := testutil.ToFloat64(decodeBytes)
	beforeSkipped := testutil.ToFloat64(decodeSkipped)
	beforeErrors := testutil.ToFloat64(truncated)

	rec := &record.Record{
		Header:  header.Header{Layout: header.LayoutCurrent, Type: header.TypeSyscall, Length: 24},
		Variant: &record.Syscall{Code: 4, Args: []uint64{1, 2}},
	}
	obs.Decoded(rec)
	obs.Skipped(80, 61)
	obs.Failed(protocol.Truncated(141, "need 56 bytes, have 3"))

	if got := testutil.ToFloat64(syscalls) - beforeRecords; got != 1 {
		t.Fatalf("expected 1 syscall record, got %v", got)
	}
	if got := testutil.ToFloat64(decodeBytes) - beforeBytes; got != 80+61 {
		t.Fatalf("expected %d bytes, got %v", 80+61, got)
	}
	if got := testutil.ToFloat64(decodeSkipped) - beforeSkipped; got != 1 {
		t.Fatalf("expected 1 skipped record, got %v", got)
	}
	if got := testutil.ToFloat64(truncated) - beforeErrors; got != 1 {
		t.Fatalf("expected 1 truncated error, got %v", got)
	}
}

func TestInitLoggerWritesToGivenWriter(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	logger := InitLogger("ktrdump-test", &buf)
	logger.Warn().Int64("offset", 56).Msg("decode failed")

	out := buf.String()
	if !strings.Contains(out, "decode failed") || !strings.Contains(out, "ktrdump-test") {
		t.Fatalf("unexpected log output %q", out)
	}
}
