// Package tracefile opens trace inputs named on the command line.
package tracefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Stdin is the input name that reads standard input.
const Stdin = "-"

// Input is one opened trace source. Size is -1 when unknown.
type Input struct {
	Name string
	Size int64
	*bufio.Reader
	closer io.Closer
}

func (in *Input) Close() error {
	if in.closer == nil {
		return nil
	}
	return in.closer.Close()
}

// Opener resolves input names against a filesystem.
type Opener struct {
	Fs    afero.Fs
	Stdin io.Reader
}

func NewOpener(fs afero.Fs) *Opener {
	return &Opener{Fs: fs, Stdin: os.Stdin}
}

// OsOpener opens inputs from the host filesystem.
func OsOpener() *Opener {
	return NewOpener(afero.NewOsFs())
}

func (o *Opener) Open(name string) (*Input, error) {
	if name == Stdin {
		return &Input{Name: "stdin", Size: -1, Reader: bufio.NewReader(o.Stdin)}, nil
	}
	f, err := o.Fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("tracefile: open %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("tracefile: stat %s: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("tracefile: %s is a directory", name)
	}
	return &Input{
		Name:   filepath.Base(name),
		Size:   info.Size(),
		Reader: bufio.NewReader(f),
		closer: f,
	}, nil
}

// Expand replaces glob patterns in names with their matches. Names that
// match nothing are kept so Open reports them.
func (o *Opener) Expand(names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{Stdin}, nil
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == Stdin {
			out = append(out, name)
			continue
		}
		matches, err := afero.Glob(o.Fs, name)
		if err != nil {
			return nil, fmt.Errorf("tracefile: pattern %s: %w", name, err)
		}
		if len(matches) == 0 {
			out = append(out, name)
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}
