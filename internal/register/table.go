// internal/register/table.go
package register

import (
	"fmt"

	"github.com/tamzrod/harp-expander/internal/harp"
)

// Descriptor is the type-erased view of a Register.
type Descriptor struct {
	Address uint8
	Name    string
	Type    harp.PayloadType
	Length  int

	decode func([]byte) (any, error)
	encode func(any) ([]byte, error)
}

// Size is the payload size in bytes.
func (d Descriptor) Size() int { return d.Length * d.Type.Size() }

// Decode maps a raw payload to the register's value type.
func (d Descriptor) Decode(payload []byte) (any, error) { return d.decode(payload) }

// Encode maps a value of the register's value type to its payload.
func (d Descriptor) Encode(v any) ([]byte, error) { return d.encode(v) }

func (d Descriptor) String() string {
	return fmt.Sprintf("%s(%d %v[%d])", d.Name, d.Address, d.Type, d.Length)
}

// Reading is one decoded message.
type Reading struct {
	Register Descriptor
	Type     harp.MessageType
	Value    any

	Seconds      float64
	HasTimestamp bool
}

// Table maps addresses to descriptors for one schema revision.
// Built once, never mutated; safe for concurrent use.
type Table struct {
	revision Revision
	byAddr   [256]*Descriptor
	count    int
}

// newTable indexes descriptors. Duplicate addresses are a programming error.
func newTable(rev Revision, ds []Descriptor) (*Table, error) {
	t := &Table{revision: rev}
	for i := range ds {
		d := ds[i]
		if t.byAddr[d.Address] != nil {
			return nil, fmt.Errorf("register table %s: duplicate address %d (%s, %s)",
				rev, d.Address, t.byAddr[d.Address].Name, d.Name)
		}
		t.byAddr[d.Address] = &d
		t.count++
	}
	return t, nil
}

// Revision reports which schema revision the table was built for.
func (t *Table) Revision() Revision { return t.revision }

// Resolve returns the descriptor at address or ErrUnknownRegister.
func (t *Table) Resolve(address uint8) (Descriptor, error) {
	d := t.byAddr[address]
	if d == nil {
		return Descriptor{}, unknown(address)
	}
	return *d, nil
}

// Descriptors returns every register in address order.
func (t *Table) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, t.count)
	for _, d := range t.byAddr {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out
}

// Decode resolves the message address and decodes its payload.
func (t *Table) Decode(m harp.Message) (Reading, error) {
	d, err := t.Resolve(m.Address)
	if err != nil {
		return Reading{}, err
	}
	if m.PayloadType.Base() != d.Type {
		return Reading{}, malformed(d.Address, "%s: payload type %v, want %v", d.Name, m.PayloadType, d.Type)
	}

	v, err := d.Decode(m.Payload)
	if err != nil {
		return Reading{}, err
	}

	return Reading{
		Register:     d,
		Type:         m.Type,
		Value:        v,
		Seconds:      m.Seconds,
		HasTimestamp: m.HasTimestamp,
	}, nil
}

// Encode resolves address and encodes v into its payload.
func (t *Table) Encode(address uint8, v any) ([]byte, Descriptor, error) {
	d, err := t.Resolve(address)
	if err != nil {
		return nil, Descriptor{}, err
	}
	b, err := d.Encode(v)
	if err != nil {
		return nil, Descriptor{}, err
	}
	return b, d, nil
}

// Message encodes v as a command of kind mt for address.
func (t *Table) Message(address uint8, mt harp.MessageType, v any) (harp.Message, error) {
	b, d, err := t.Encode(address, v)
	if err != nil {
		return harp.Message{}, err
	}
	m := harp.New(mt, d.Address, d.Type, b)
	if err := m.Validate(); err != nil {
		return harp.Message{}, unrepresentable(d.Address, "%s: %v", d.Name, err)
	}
	return m, nil
}

// TimestampedMessage is Message stamped with device time in seconds.
func (t *Table) TimestampedMessage(address uint8, mt harp.MessageType, v any, seconds float64) (harp.Message, error) {
	m, err := t.Message(address, mt, v)
	if err != nil {
		return harp.Message{}, err
	}
	m = m.WithTimestamp(seconds)
	if err := m.Validate(); err != nil {
		return harp.Message{}, unrepresentable(address, "%v", err)
	}
	return m, nil
}
