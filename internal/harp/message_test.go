// internal/harp/message_test.go
package harp

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
)

func mustBytes(t *testing.T, m Message) []byte {
	t.Helper()
	b, err := m.Bytes()
	if err != nil {
		t.Fatalf("Bytes err=%v", err)
	}
	return b
}

func TestBytes_KnownFrame(t *testing.T) {
	// Write U8 value 0x03 to address 33.
	m := New(Write, 33, U8, []byte{0x03})
	got := mustBytes(t, m)

	want := []byte{0x02, 0x05, 0x21, 0xFF, 0x01, 0x03, 0x00}
	want[len(want)-1] = checksum(want[:len(want)-1])

	if !bytes.Equal(got, want) {
		t.Fatalf("frame mismatch: got=% x want=% x", got, want)
	}
}

func TestParse_RoundTripTimestamped(t *testing.T) {
	m := New(Event, 35, U16, []byte{0x03, 0x00, 0x01, 0x00}).WithTimestamp(12.5)

	got, err := Parse(mustBytes(t, m))
	if err != nil {
		t.Fatalf("Parse err=%v", err)
	}
	if got.Type != Event || got.Address != 35 || got.PayloadType != U16 {
		t.Fatalf("header mismatch: %+v", got)
	}
	if !got.HasTimestamp {
		t.Fatalf("expected timestamp")
	}
	if math.Abs(got.Seconds-12.5) > tickSeconds {
		t.Fatalf("seconds: got=%f want=12.5", got.Seconds)
	}
	if !bytes.Equal(got.Payload, m.Payload) {
		t.Fatalf("payload: got=% x want=% x", got.Payload, m.Payload)
	}
}

func TestParse_ChecksumMismatch(t *testing.T) {
	frame := mustBytes(t, New(Read, 32, U8, []byte{0x01}))
	frame[len(frame)-1]++

	if _, err := Parse(frame); !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
}

func TestParse_LengthMismatch(t *testing.T) {
	frame := mustBytes(t, New(Read, 32, U8, []byte{0x01}))
	frame[1]++

	if _, err := Parse(frame); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestParse_Short(t *testing.T) {
	if _, err := Parse([]byte{0x01, 0x02}); !errors.Is(err, ErrShortFrame) {
		t.Fatalf("expected ErrShortFrame, got %v", err)
	}
}

func TestMessageType_ErrorFlag(t *testing.T) {
	mt := Write | ErrorFlag
	if !mt.IsError() || mt.Kind() != Write {
		t.Fatalf("unexpected flag handling: %v", mt)
	}
	if mt.String() != "WriteError" {
		t.Fatalf("string: got=%q", mt.String())
	}
}

func TestReader_ConcatenatedFrames(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(mustBytes(t, New(Event, 32, U8, []byte{0x21})))

	bad := mustBytes(t, New(Event, 40, S16, []byte{0xFF, 0xFF}))
	bad[len(bad)-1]++
	buf.Write(bad)

	buf.Write(mustBytes(t, New(Event, 35, U16, []byte{0x01, 0x00, 0x01, 0x00}).WithTimestamp(1)))

	r := NewReader(&buf)

	m, err := r.ReadMessage()
	if err != nil || m.Address != 32 {
		t.Fatalf("first: m=%+v err=%v", m, err)
	}

	if _, err := r.ReadMessage(); !errors.Is(err, ErrChecksum) {
		t.Fatalf("second: expected ErrChecksum, got %v", err)
	}

	m, err = r.ReadMessage()
	if err != nil || m.Address != 35 || !m.HasTimestamp {
		t.Fatalf("third: m=%+v err=%v", m, err)
	}

	if _, err := r.ReadMessage(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReader_TruncatedFrame(t *testing.T) {
	frame := mustBytes(t, New(Event, 32, U8, []byte{0x21}))
	r := NewReader(bytes.NewReader(frame[:4]))

	if _, err := r.ReadMessage(); err != io.ErrUnexpectedEOF {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestBytes_PayloadBound(t *testing.T) {
	// 3 header + 251 payload + 1 checksum = 255, the largest length byte.
	m := New(Write, 12, U8, make([]byte, 251))
	frame := mustBytes(t, m)
	if frame[1] != 0xFF {
		t.Fatalf("length byte: got=%d want=255", frame[1])
	}
	if _, err := Parse(frame); err != nil {
		t.Fatalf("Parse err=%v", err)
	}

	m.Payload = make([]byte, 252)
	if _, err := m.Bytes(); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}

	// The timestamp takes 6 bytes of the same budget.
	ts := New(Write, 12, U8, make([]byte, 246)).WithTimestamp(1)
	if _, err := ts.Bytes(); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("timestamped: expected ErrPayloadTooLarge, got %v", err)
	}
	ts.Payload = ts.Payload[:245]
	if _, err := ts.Bytes(); err != nil {
		t.Fatalf("timestamped 245 bytes: err=%v", err)
	}
}

func TestBytes_TimestampBound(t *testing.T) {
	base := New(Event, 32, U8, []byte{0x01})

	got, err := Parse(mustBytes(t, base.WithTimestamp(math.MaxUint32)))
	if err != nil || got.Seconds != math.MaxUint32 {
		t.Fatalf("max seconds: got=%v err=%v", got.Seconds, err)
	}

	for _, s := range []float64{
		-1,
		math.NaN(),
		math.Inf(1),
		5e9,
		math.MaxUint32 + 1,
		math.MaxUint32 + 0.99999, // rounds to the next whole second
	} {
		if _, err := base.WithTimestamp(s).Bytes(); !errors.Is(err, ErrTimestampRange) {
			t.Fatalf("seconds=%v: expected ErrTimestampRange, got %v", s, err)
		}
		if err := base.WithTimestamp(s).Validate(); !errors.Is(err, ErrTimestampRange) {
			t.Fatalf("Validate seconds=%v: expected ErrTimestampRange, got %v", s, err)
		}
	}

	if got, err := Parse(mustBytes(t, base.WithTimestamp(0))); err != nil || got.Seconds != 0 {
		t.Fatalf("zero seconds: got=%v err=%v", got.Seconds, err)
	}
}
