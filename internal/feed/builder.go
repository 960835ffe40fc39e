// internal/feed/builder.go
package feed

import (
	"fmt"
	"os"

	cfg "github.com/tamzrod/harp-expander/internal/config"
	"github.com/tamzrod/harp-expander/internal/register"
)

// Build constructs a Feed for one stream and opens its input.
// The register table is built fresh for the stream's schema revision.
// The returned closer releases the input file.
func Build(s cfg.StreamConfig) (*Feed, func() error, error) {
	rev, err := register.ParseRevision(s.Schema)
	if err != nil {
		return nil, nil, err
	}
	table, err := register.NewTable(rev)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(s.Input.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("feed: open input: %w", err)
	}

	var src Source
	switch s.Input.Format {
	case cfg.FormatHex:
		src = NewHexSource(file)
	case cfg.FormatBinary:
		src = NewBinarySource(file)
	default:
		_ = file.Close()
		return nil, nil, fmt.Errorf("feed: unsupported input format %q", s.Input.Format)
	}

	f, err := New(Config{StreamID: s.ID}, src, table)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}

	return f, file.Close, nil
}
