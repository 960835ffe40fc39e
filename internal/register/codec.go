// internal/register/codec.go
package register

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tamzrod/harp-expander/internal/harp"
)

// Register is the typed codec for one register address.
// It is a plain value: no IO, no state, safe for concurrent use.
// Its shape is fixed at construction and read through accessors.
type Register[T any] struct {
	address uint8
	name    string
	typ     harp.PayloadType
	length  int // element count

	parse  func(b []byte) T
	format func(v T) ([]byte, error)
}

func (r Register[T]) Address() uint8         { return r.address }
func (r Register[T]) Name() string           { return r.name }
func (r Register[T]) Type() harp.PayloadType { return r.typ }

// Length is the element count.
func (r Register[T]) Length() int { return r.length }

// Timestamped pairs a decoded value with the device time, in seconds.
// Only produced from messages that carried a timestamp.
type Timestamped[T any] struct {
	Value   T
	Seconds float64
}

// Size is the payload size in bytes.
func (r Register[T]) Size() int { return r.length * r.typ.Size() }

// Decode maps a raw payload to its value.
// The payload must be exactly Size() bytes.
func (r Register[T]) Decode(payload []byte) (T, error) {
	var zero T
	if len(payload) != r.Size() {
		return zero, malformed(r.address, "%s: got %d bytes, want %d", r.name, len(payload), r.Size())
	}
	return r.parse(payload), nil
}

// DecodeTimestamped decodes payload and attaches the given device time.
func (r Register[T]) DecodeTimestamped(payload []byte, seconds float64) (Timestamped[T], error) {
	v, err := r.Decode(payload)
	if err != nil {
		return Timestamped[T]{}, err
	}
	return Timestamped[T]{Value: v, Seconds: seconds}, nil
}

// Encode maps a value to its raw payload. Exact inverse of Decode.
func (r Register[T]) Encode(v T) ([]byte, error) {
	b, err := r.format(v)
	if err != nil {
		return nil, unrepresentable(r.address, "%s: %v", r.name, err)
	}
	return b, nil
}

// Payload decodes the payload of a message addressed to r.
func (r Register[T]) Payload(m harp.Message) (T, error) {
	var zero T
	if err := r.check(m); err != nil {
		return zero, err
	}
	return r.Decode(m.Payload)
}

// TimestampedPayload decodes a timestamped message addressed to r.
func (r Register[T]) TimestampedPayload(m harp.Message) (Timestamped[T], error) {
	if err := r.check(m); err != nil {
		return Timestamped[T]{}, err
	}
	if !m.HasTimestamp {
		return Timestamped[T]{}, malformed(r.address, "%s: message carries no timestamp", r.name)
	}
	return r.DecodeTimestamped(m.Payload, m.Seconds)
}

// Message builds an untimestamped command for r.
func (r Register[T]) Message(t harp.MessageType, v T) (harp.Message, error) {
	b, err := r.Encode(v)
	if err != nil {
		return harp.Message{}, err
	}
	return r.frame(harp.New(t, r.address, r.typ, b))
}

// TimestampedMessage builds a command for r stamped with seconds.
func (r Register[T]) TimestampedMessage(seconds float64, t harp.MessageType, v T) (harp.Message, error) {
	m, err := r.Message(t, v)
	if err != nil {
		return harp.Message{}, err
	}
	return r.frame(m.WithTimestamp(seconds))
}

// frame rejects messages the envelope cannot carry unchanged.
func (r Register[T]) frame(m harp.Message) (harp.Message, error) {
	if err := m.Validate(); err != nil {
		return harp.Message{}, unrepresentable(r.address, "%s: %v", r.name, err)
	}
	return m, nil
}

// Descriptor erases T so r can live in a Table.
func (r Register[T]) Descriptor() Descriptor {
	return Descriptor{
		Address: r.address,
		Name:    r.name,
		Type:    r.typ,
		Length:  r.length,
		decode: func(b []byte) (any, error) {
			v, err := r.Decode(b)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		encode: func(v any) ([]byte, error) {
			t, ok := v.(T)
			if !ok {
				return nil, unrepresentable(r.address, "%s: value of type %T", r.name, v)
			}
			return r.Encode(t)
		},
	}
}

func (r Register[T]) check(m harp.Message) error {
	if m.Address != r.address {
		return malformed(r.address, "%s: message for address %d", r.name, m.Address)
	}
	if m.PayloadType.Base() != r.typ {
		return malformed(r.address, "%s: payload type %v, want %v", r.name, m.PayloadType, r.typ)
	}
	return nil
}

// ---- wire shapes (little-endian) ----

func u8Register[T ~uint8](address uint8, name string) Register[T] {
	return Register[T]{
		address: address,
		name:    name,
		typ:     harp.U8,
		length:  1,
		parse:   func(b []byte) T { return T(b[0]) },
		format:  func(v T) ([]byte, error) { return []byte{byte(v)}, nil },
	}
}

func u16Register[T ~uint16](address uint8, name string) Register[T] {
	return Register[T]{
		address: address,
		name:    name,
		typ:     harp.U16,
		length:  1,
		parse:   func(b []byte) T { return T(binary.LittleEndian.Uint16(b)) },
		format: func(v T) ([]byte, error) {
			return binary.LittleEndian.AppendUint16(nil, uint16(v)), nil
		},
	}
}

func u32Register[T ~uint32](address uint8, name string) Register[T] {
	return Register[T]{
		address: address,
		name:    name,
		typ:     harp.U32,
		length:  1,
		parse:   func(b []byte) T { return T(binary.LittleEndian.Uint32(b)) },
		format: func(v T) ([]byte, error) {
			return binary.LittleEndian.AppendUint32(nil, uint32(v)), nil
		},
	}
}

func s16Register(address uint8, name string) Register[int16] {
	return Register[int16]{
		address: address,
		name:    name,
		typ:     harp.S16,
		length:  1,
		parse:   func(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) },
		format: func(v int16) ([]byte, error) {
			return binary.LittleEndian.AppendUint16(nil, uint16(v)), nil
		},
	}
}

// digitalPortRegister is the state/changed pair: element 0 is the state,
// element 1 the changed mask.
func digitalPortRegister(address uint8, name string) Register[DigitalInPortPayload] {
	return Register[DigitalInPortPayload]{
		address: address,
		name:    name,
		typ:     harp.U16,
		length:  2,
		parse: func(b []byte) DigitalInPortPayload {
			return DigitalInPortPayload{
				State:   DigitalInput(binary.LittleEndian.Uint16(b[0:2])),
				Changed: DigitalInput(binary.LittleEndian.Uint16(b[2:4])),
			}
		},
		format: func(v DigitalInPortPayload) ([]byte, error) {
			out := binary.LittleEndian.AppendUint16(nil, uint16(v.State))
			return binary.LittleEndian.AppendUint16(out, uint16(v.Changed)), nil
		},
	}
}

// encoderModeRegister is the packed encoder byte.
// Decode narrows to bits 0-3; encode rejects sub-fields wider than their mask.
func encoderModeRegister(address uint8, name string) Register[EncoderModeConfig] {
	return Register[EncoderModeConfig]{
		address: address,
		name:    name,
		typ:     harp.U8,
		length:  1,
		parse: func(b []byte) EncoderModeConfig {
			return EncoderModeConfig{
				SampleRate: EncoderSampleRate(b[0] & sampleRateMask),
				Mode:       EncoderMode((b[0] & encoderModeMask) >> encoderModeShift),
			}
		},
		format: func(v EncoderModeConfig) ([]byte, error) {
			if v.SampleRate > sampleRateMask {
				return nil, fmt.Errorf("sample rate %d exceeds 3 bits", uint8(v.SampleRate))
			}
			if v.Mode > encoderModeMask>>encoderModeShift {
				return nil, fmt.Errorf("mode %d exceeds 1 bit", uint8(v.Mode))
			}
			raw := byte(v.SampleRate)&sampleRateMask | (byte(v.Mode)<<encoderModeShift)&encoderModeMask
			return []byte{raw}, nil
		},
	}
}

// stringRegister is a fixed-width, NUL-padded ASCII field.
func stringRegister(address uint8, name string, width int) Register[string] {
	return Register[string]{
		address: address,
		name:    name,
		typ:     harp.U8,
		length:  width,
		parse: func(b []byte) string {
			if i := bytes.IndexByte(b, 0); i >= 0 {
				b = b[:i]
			}
			return string(b)
		},
		format: func(v string) ([]byte, error) {
			if len(v) > width {
				return nil, fmt.Errorf("%d bytes exceeds width %d", len(v), width)
			}
			if bytes.IndexByte([]byte(v), 0) >= 0 {
				return nil, errors.New("embedded NUL")
			}
			out := make([]byte, width)
			copy(out, v)
			return out, nil
		},
	}
}
