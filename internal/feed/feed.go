// internal/feed/feed.go
package feed

import (
	"errors"
	"io"
	"time"

	"github.com/tamzrod/harp-expander/internal/register"
)

// Config is the minimal runtime config the feed needs.
type Config struct {
	StreamID string
}

// Feed is a dumb, source-driven decoder.
// It owns no goroutines; Run is the only loop.
type Feed struct {
	cfg   Config
	src   Source
	table *register.Table
	index int
}

// New creates a feed with immutable config.
func New(cfg Config, src Source, table *register.Table) (*Feed, error) {
	if cfg.StreamID == "" {
		return nil, errors.New("feed: stream id required")
	}
	if src == nil {
		return nil, errors.New("feed: source required")
	}
	if table == nil {
		return nil, errors.New("feed: register table required")
	}
	return &Feed{cfg: cfg, src: src, table: table}, nil
}

// Next reads and decodes exactly one message.
// Frame and codec failures are reported in Result.Err and the stream goes on.
// The returned error is terminal: io.EOF at the end of input, or the
// source failure that stopped it.
func (f *Feed) Next() (Result, error) {
	m, err := f.src.Next()
	if err == io.EOF {
		return Result{}, io.EOF
	}
	if err != nil && !isFrameError(err) {
		return Result{}, err
	}

	res := Result{
		StreamID: f.cfg.StreamID,
		At:       time.Now(),
		Index:    f.index,
		Message:  m,
	}
	f.index++

	if err != nil {
		res.Err = err
		return res, nil
	}

	res.Reading, res.Err = f.table.Decode(m)
	return res, nil
}
