// internal/harp/message.go
package harp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// MessageType is the command kind carried in the first frame byte.
type MessageType uint8

const (
	Read  MessageType = 1
	Write MessageType = 2
	Event MessageType = 3

	// ErrorFlag is set by the device on replies to rejected commands.
	ErrorFlag MessageType = 0x08
)

// Kind strips the error flag.
func (t MessageType) Kind() MessageType { return t &^ ErrorFlag }

// IsError reports whether the device flagged the reply as an error.
func (t MessageType) IsError() bool { return t&ErrorFlag != 0 }

func (t MessageType) String() string {
	var s string
	switch t.Kind() {
	case Read:
		s = "Read"
	case Write:
		s = "Write"
	case Event:
		s = "Event"
	default:
		s = fmt.Sprintf("MessageType(%d)", uint8(t.Kind()))
	}
	if t.IsError() {
		s += "Error"
	}
	return s
}

// PayloadType is the wire element type of a payload.
// The low nibble is the element size in bytes.
type PayloadType uint8

const (
	U8    PayloadType = 0x01
	S8    PayloadType = 0x81
	U16   PayloadType = 0x02
	S16   PayloadType = 0x82
	U32   PayloadType = 0x04
	S32   PayloadType = 0x84
	U64   PayloadType = 0x08
	S64   PayloadType = 0x88
	Float PayloadType = 0x44

	// TimestampFlag marks frames that carry a 6-byte timestamp.
	TimestampFlag PayloadType = 0x10
)

// Size returns the element size in bytes.
func (p PayloadType) Size() int { return int(p & 0x0F) }

// Base strips the timestamp flag.
func (p PayloadType) Base() PayloadType { return p &^ TimestampFlag }

func (p PayloadType) String() string {
	switch p.Base() {
	case U8:
		return "U8"
	case S8:
		return "S8"
	case U16:
		return "U16"
	case S16:
		return "S16"
	case U32:
		return "U32"
	case S32:
		return "S32"
	case U64:
		return "U64"
	case S64:
		return "S64"
	case Float:
		return "Float"
	}
	return fmt.Sprintf("PayloadType(0x%02x)", uint8(p))
}

// DefaultPort is the port byte used for messages addressed to the device itself.
const DefaultPort uint8 = 0xFF

// tickSeconds is the resolution of the timestamp sub-second field (32 µs).
const tickSeconds = 32e-6

// maxLength is the largest value the length byte can carry.
const maxLength = 0xFF

var (
	ErrShortFrame     = errors.New("harp: short frame")
	ErrLengthMismatch = errors.New("harp: length mismatch")
	ErrChecksum       = errors.New("harp: checksum mismatch")

	// Encode-side failures: the message cannot be put on the wire as is.
	ErrPayloadTooLarge = errors.New("harp: payload too large")
	ErrTimestampRange  = errors.New("harp: timestamp out of range")
)

// Message is one Harp command, reply or event.
// Payload holds the register bytes only, excluding framing and timestamp.
type Message struct {
	Type        MessageType
	Address     uint8
	Port        uint8
	PayloadType PayloadType // without TimestampFlag

	Payload []byte

	// Seconds is valid only when HasTimestamp is set.
	Seconds      float64
	HasTimestamp bool
}

// New builds an untimestamped message for the device itself.
func New(t MessageType, address uint8, pt PayloadType, payload []byte) Message {
	return Message{
		Type:        t,
		Address:     address,
		Port:        DefaultPort,
		PayloadType: pt.Base(),
		Payload:     payload,
	}
}

// WithTimestamp returns a copy of m carrying the given timestamp.
func (m Message) WithTimestamp(seconds float64) Message {
	m.Seconds = seconds
	m.HasTimestamp = true
	return m
}

// Validate reports whether m fits a frame: the length byte must hold the
// payload and the timestamp must lie in [0, 2^32) seconds.
func (m Message) Validate() error {
	if n := m.length(); n > maxLength {
		return fmt.Errorf("%w: %d payload bytes, frame length %d > %d",
			ErrPayloadTooLarge, len(m.Payload), n, maxLength)
	}
	if m.HasTimestamp {
		if _, _, err := splitSeconds(m.Seconds); err != nil {
			return err
		}
	}
	return nil
}

// length is the value of the length byte: every byte after it.
func (m Message) length() int {
	n := 3 + len(m.Payload) + 1
	if m.HasTimestamp {
		n += 6
	}
	return n
}

// Bytes encodes m into a complete frame, checksum included.
// Messages that fail Validate are rejected, never truncated.
//
// Layout:
//	Type(1) Length(1) Address(1) Port(1) PayloadType(1)
//	[Seconds(4) Ticks(2)] Payload(n) Checksum(1)
func (m Message) Bytes() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	pt := m.PayloadType.Base()
	if m.HasTimestamp {
		pt |= TimestampFlag
	}

	length := m.length()
	frame := make([]byte, 2+length)
	frame[0] = byte(m.Type)
	frame[1] = byte(length)
	frame[2] = m.Address
	frame[3] = m.Port
	frame[4] = byte(pt)

	off := 5
	if m.HasTimestamp {
		secs, ticks, _ := splitSeconds(m.Seconds)
		binary.LittleEndian.PutUint32(frame[5:9], secs)
		binary.LittleEndian.PutUint16(frame[9:11], ticks)
		off = 11
	}
	copy(frame[off:], m.Payload)
	frame[len(frame)-1] = checksum(frame[:len(frame)-1])
	return frame, nil
}

// Parse decodes a single complete frame.
func Parse(frame []byte) (Message, error) {
	if len(frame) < 6 {
		return Message{}, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(frame))
	}
	if int(frame[1]) != len(frame)-2 {
		return Message{}, fmt.Errorf("%w: header=%d frame=%d", ErrLengthMismatch, frame[1], len(frame)-2)
	}
	if sum := checksum(frame[:len(frame)-1]); sum != frame[len(frame)-1] {
		return Message{}, fmt.Errorf("%w: got=0x%02x want=0x%02x", ErrChecksum, frame[len(frame)-1], sum)
	}

	pt := PayloadType(frame[4])
	m := Message{
		Type:        MessageType(frame[0]),
		Address:     frame[2],
		Port:        frame[3],
		PayloadType: pt.Base(),
	}

	off := 5
	if pt&TimestampFlag != 0 {
		if len(frame) < 12 {
			return Message{}, fmt.Errorf("%w: timestamped frame of %d bytes", ErrShortFrame, len(frame))
		}
		secs := binary.LittleEndian.Uint32(frame[5:9])
		ticks := binary.LittleEndian.Uint16(frame[9:11])
		m.Seconds = float64(secs) + float64(ticks)*tickSeconds
		m.HasTimestamp = true
		off = 11
	}

	m.Payload = append([]byte(nil), frame[off:len(frame)-1]...)
	return m, nil
}

// splitSeconds converts seconds into whole seconds and 32 µs ticks.
// NaN, negative values and values that round to 2^32 or more are rejected.
func splitSeconds(seconds float64) (uint32, uint16, error) {
	if !(seconds >= 0 && seconds < math.MaxUint32+1) {
		return 0, 0, fmt.Errorf("%w: %v s", ErrTimestampRange, seconds)
	}
	whole := math.Floor(seconds)
	ticks := math.Round((seconds - whole) / tickSeconds)
	if ticks >= 1/tickSeconds {
		whole++
		ticks = 0
	}
	if whole > math.MaxUint32 {
		return 0, 0, fmt.Errorf("%w: %v s rounds past 2^32", ErrTimestampRange, seconds)
	}
	return uint32(whole), uint16(ticks), nil
}

func checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return sum
}
