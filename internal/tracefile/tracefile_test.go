package tracefile

import (
	"io"
	"strings"
	"testing"

	"github.com/danmuck/ktrdump/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func memOpener(t *testing.T, files map[string]string) *Opener {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range files {
		if err := afero.WriteFile(fs, name, []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return NewOpener(fs)
}

func TestOpenReadsFileAndReportsSize(t *testing.T) {
	testlog.Start(t)
	o := memOpener(t, map[string]string{"/traces/ktrace.out": "abcdef"})

	in, err := o.Open("/traces/ktrace.out")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer in.Close()
	if in.Name != "ktrace.out" || in.Size != 6 {
		t.Fatalf("unexpected input: name=%q size=%d", in.Name, in.Size)
	}
	data, err := io.ReadAll(in)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "abcdef" {
		t.Fatalf("unexpected data: %q", data)
	}
}

func TestOpenDashReadsStdin(t *testing.T) {
	testlog.Start(t)
	o := memOpener(t, nil)
	o.Stdin = strings.NewReader("piped")

	in, err := o.Open(Stdin)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if in.Size != -1 {
		t.Fatalf("expected unknown size, got %d", in.Size)
	}
	data, _ := io.ReadAll(in)
	if string(data) != "piped" {
		t.Fatalf("unexpected data: %q", data)
	}
	if err := in.Close(); err != nil {
		t.Fatalf("close stdin input: %v", err)
	}
}

func TestOpenMissingAndDirectory(t *testing.T) {
	testlog.Start(t)
	o := memOpener(t, map[string]string{"/traces/a.out": "x"})

	if _, err := o.Open("/traces/missing.out"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := o.Open("/traces"); err == nil || !strings.Contains(err.Error(), "directory") {
		t.Fatalf("expected directory error, got %v", err)
	}
}

func TestExpand(t *testing.T) {
	testlog.Start(t)
	o := memOpener(t, map[string]string{
		"/traces/a.out": "a",
		"/traces/b.out": "b",
		"/traces/c.txt": "c",
	})

	got, err := o.Expand([]string{"/traces/*.out", "-", "/traces/none.out"})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{"/traces/a.out", "/traces/b.out", "-", "/traces/none.out"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("expand mismatch (-want +got):\n%s", diff)
	}

	got, err = o.Expand(nil)
	if err != nil {
		t.Fatalf("expand empty: %v", err)
	}
	if diff := cmp.Diff([]string{Stdin}, got); diff != "" {
		t.Fatalf("expand empty mismatch (-want +got):\n%s", diff)
	}
}
