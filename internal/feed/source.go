// internal/feed/source.go
package feed

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tamzrod/harp-expander/internal/harp"
)

// Source yields raw messages. io.EOF ends the stream.
type Source interface {
	Next() (harp.Message, error)
}

// ErrBadLine marks a hex line that is not a valid frame encoding.
var ErrBadLine = errors.New("feed: bad hex line")

// ---- binary capture ----

type binarySource struct {
	r *harp.Reader
}

// NewBinarySource reads concatenated frames.
func NewBinarySource(r io.Reader) Source {
	return &binarySource{r: harp.NewReader(r)}
}

func (s *binarySource) Next() (harp.Message, error) {
	return s.r.ReadMessage()
}

// ---- hex lines ----

type hexSource struct {
	sc   *bufio.Scanner
	line int
}

// NewHexSource reads one hex-encoded frame per line.
// Blank lines and lines starting with '#' are skipped; spaces are ignored.
func NewHexSource(r io.Reader) Source {
	return &hexSource{sc: bufio.NewScanner(r)}
}

func (s *hexSource) Next() (harp.Message, error) {
	for s.sc.Scan() {
		s.line++
		text := strings.TrimSpace(s.sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		frame, err := hex.DecodeString(strings.ReplaceAll(text, " ", ""))
		if err != nil {
			return harp.Message{}, fmt.Errorf("%w: line %d: %v", ErrBadLine, s.line, err)
		}

		m, err := harp.Parse(frame)
		if err != nil {
			return harp.Message{}, fmt.Errorf("line %d: %w", s.line, err)
		}
		return m, nil
	}
	if err := s.sc.Err(); err != nil {
		return harp.Message{}, err
	}
	return harp.Message{}, io.EOF
}

// isFrameError reports whether err affects a single frame only.
func isFrameError(err error) bool {
	return errors.Is(err, harp.ErrChecksum) ||
		errors.Is(err, harp.ErrLengthMismatch) ||
		errors.Is(err, harp.ErrShortFrame) ||
		errors.Is(err, ErrBadLine)
}
