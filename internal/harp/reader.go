// internal/harp/reader.go
package harp

import (
	"bufio"
	"errors"
	"io"
)

// Reader splits a byte stream of concatenated frames, such as a device
// capture file, into messages.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadMessage returns the next message.
// It returns io.EOF only at a frame boundary.
// Frame-level errors (checksum, length) leave the reader aligned on the
// next frame, so the caller may keep reading.
func (r *Reader) ReadMessage() (Message, error) {
	var head [2]byte
	if _, err := io.ReadFull(r.r, head[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Message{}, io.ErrUnexpectedEOF
		}
		return Message{}, err
	}

	frame := make([]byte, 2+int(head[1]))
	frame[0], frame[1] = head[0], head[1]
	if _, err := io.ReadFull(r.r, frame[2:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Message{}, io.ErrUnexpectedEOF
		}
		return Message{}, err
	}

	return Parse(frame)
}
