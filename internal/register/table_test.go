// internal/register/table_test.go
package register

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/tamzrod/harp-expander/internal/harp"
)

func mustTable(t *testing.T, rev Revision) *Table {
	t.Helper()
	tbl, err := NewTable(rev)
	if err != nil {
		t.Fatalf("NewTable(%s) err=%v", rev, err)
	}
	return tbl
}

func frameBytes(t *testing.T, m harp.Message) []byte {
	t.Helper()
	b, err := m.Bytes()
	if err != nil {
		t.Fatalf("Bytes err=%v", err)
	}
	return b
}

func TestNewTable_AllRevisions(t *testing.T) {
	for _, rev := range Revisions() {
		tbl := mustTable(t, rev)
		if tbl.Revision() != rev {
			t.Fatalf("revision: got=%s want=%s", tbl.Revision(), rev)
		}
		for _, d := range tbl.Descriptors() {
			got, err := tbl.Resolve(d.Address)
			if err != nil || got.Name != d.Name {
				t.Fatalf("%s: resolve %d got=%v err=%v", rev, d.Address, got, err)
			}
		}
	}
}

func TestResolve_UnknownAddress(t *testing.T) {
	tbl := mustTable(t, RevisionPackedEncoder)

	d, err := tbl.Resolve(99)
	if !errors.Is(err, ErrUnknownRegister) {
		t.Fatalf("expected ErrUnknownRegister, got %v", err)
	}
	if d.Name != "" {
		t.Fatalf("expected zero descriptor, got %v", d)
	}

	var rerr *Error
	if !errors.As(err, &rerr) || rerr.Code() != 2 {
		t.Fatalf("unexpected error detail: %#v", err)
	}
}

func TestResolve_AddressTable(t *testing.T) {
	tbl := mustTable(t, RevisionPackedEncoder)

	want := []struct {
		addr   uint8
		name   string
		typ    harp.PayloadType
		length int
	}{
		{32, "AuxInPort", harp.U8, 1},
		{33, "AuxInEnableRisingEdge", harp.U8, 1},
		{34, "AuxInEnableFallingEdge", harp.U8, 1},
		{35, "DigitalInPort", harp.U16, 2},
		{36, "DigitalInPortEnableRisingEdge", harp.U16, 1},
		{37, "DigitalInPortEnableFallingEdge", harp.U16, 1},
		{38, "InputSampling", harp.U8, 1},
		{39, "EncoderMode", harp.U8, 1},
		{40, "EncoderData", harp.S16, 1},
		{41, "ExpansionBoard", harp.U8, 1},
	}

	for _, w := range want {
		d, err := tbl.Resolve(w.addr)
		if err != nil {
			t.Fatalf("resolve %d err=%v", w.addr, err)
		}
		if d.Name != w.name || d.Type != w.typ || d.Length != w.length {
			t.Fatalf("address %d: got=%v want=%s %v[%d]", w.addr, d, w.name, w.typ, w.length)
		}
	}

	if _, err := tbl.Resolve(42); !errors.Is(err, ErrUnknownRegister) {
		t.Fatalf("address 42: expected ErrUnknownRegister, got %v", err)
	}
}

func TestRevisions_DivergentLayouts(t *testing.T) {
	sep := mustTable(t, RevisionSeparateEdge)
	comb := mustTable(t, RevisionCombinedEdge)
	packed := mustTable(t, RevisionPackedEncoder)

	d, _ := sep.Resolve(39)
	if d.Name != "EncoderSampling" {
		t.Fatalf("separate-edge 39: got=%s", d.Name)
	}
	d, _ = packed.Resolve(39)
	if d.Name != "EncoderMode" {
		t.Fatalf("packed-encoder 39: got=%s", d.Name)
	}

	d, _ = comb.Resolve(33)
	if d.Name != "AuxInEnableEdge" {
		t.Fatalf("combined-edge 33: got=%s", d.Name)
	}
	for _, addr := range []uint8{34, 37} {
		if _, err := comb.Resolve(addr); !errors.Is(err, ErrUnknownRegister) {
			t.Fatalf("combined-edge %d: expected ErrUnknownRegister, got %v", addr, err)
		}
	}

	// Same byte, different meaning per revision.
	msg := harp.New(harp.Read, 39, harp.U8, []byte{0x09})

	r, err := sep.Decode(msg)
	if err != nil || r.Value != EncoderSamplingMode(9) {
		t.Fatalf("separate-edge decode: r=%+v err=%v", r, err)
	}
	r, err = packed.Decode(msg)
	want := EncoderModeConfig{SampleRate: SampleRate250Hz, Mode: EncoderModeDisplacement}
	if err != nil || r.Value != want {
		t.Fatalf("packed-encoder decode: r=%+v err=%v", r, err)
	}
}

func TestParseRevision(t *testing.T) {
	if r, err := ParseRevision("combined-edge"); err != nil || r != RevisionCombinedEdge {
		t.Fatalf("got=%s err=%v", r, err)
	}
	if _, err := ParseRevision("v4"); err == nil {
		t.Fatalf("expected error for unknown revision")
	}
}

func TestTableDecode_Timestamped(t *testing.T) {
	tbl := mustTable(t, RevisionPackedEncoder)

	msg := harp.New(harp.Event, 35, harp.U16, []byte{0x03, 0x00, 0x01, 0x00}).WithTimestamp(7)

	r, err := tbl.Decode(msg)
	if err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if !r.HasTimestamp || r.Seconds != 7 {
		t.Fatalf("timestamp lost: %+v", r)
	}
	if r.Register.Address != 35 || r.Type != harp.Event {
		t.Fatalf("identity: %+v", r)
	}

	p, ok := r.Value.(DigitalInPortPayload)
	if !ok {
		t.Fatalf("value type %T", r.Value)
	}
	if p.State != DI0|DI1 || p.Changed != DI0 {
		t.Fatalf("got=%v", p)
	}
}

func TestTableDecode_MalformedLength(t *testing.T) {
	tbl := mustTable(t, RevisionPackedEncoder)

	_, err := tbl.Decode(harp.New(harp.Event, 35, harp.U16, []byte{0x03}))
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestTableDecode_WrongPayloadType(t *testing.T) {
	tbl := mustTable(t, RevisionPackedEncoder)

	_, err := tbl.Decode(harp.New(harp.Event, 32, harp.U16, []byte{0x01, 0x00}))
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestTableDecode_UnknownAddress(t *testing.T) {
	tbl := mustTable(t, RevisionPackedEncoder)

	_, err := tbl.Decode(harp.New(harp.Event, 99, harp.U8, []byte{0x00}))
	if !errors.Is(err, ErrUnknownRegister) {
		t.Fatalf("expected ErrUnknownRegister, got %v", err)
	}
}

func TestTableEncode(t *testing.T) {
	tbl := mustTable(t, RevisionPackedEncoder)

	b, d, err := tbl.Encode(39, EncoderModeConfig{SampleRate: SampleRate500Hz, Mode: EncoderModeDisplacement})
	if err != nil {
		t.Fatalf("encode err=%v", err)
	}
	if d.Address != 39 || !bytes.Equal(b, []byte{0x0A}) {
		t.Fatalf("got d=%v b=% x", d, b)
	}

	// Value type of another revision.
	if _, _, err := tbl.Encode(39, EncoderSamplingPolling1kHz); !errors.Is(err, ErrUnrepresentable) {
		t.Fatalf("expected ErrUnrepresentable, got %v", err)
	}

	if _, _, err := tbl.Encode(99, uint8(0)); !errors.Is(err, ErrUnknownRegister) {
		t.Fatalf("expected ErrUnknownRegister, got %v", err)
	}
}

func TestTableMessage_Frame(t *testing.T) {
	tbl := mustTable(t, RevisionSeparateEdge)

	m, err := tbl.Message(36, harp.Write, DI0|DI9)
	if err != nil {
		t.Fatalf("message err=%v", err)
	}

	parsed, err := harp.Parse(frameBytes(t, m))
	if err != nil {
		t.Fatalf("parse err=%v", err)
	}

	r, err := tbl.Decode(parsed)
	if err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if r.Value != DI0|DI9 || r.Type != harp.Write {
		t.Fatalf("got=%+v", r)
	}
}

func TestCheckWhoAmI(t *testing.T) {
	tbl := mustTable(t, RevisionPackedEncoder)

	m, _ := WhoAmI.Message(harp.Read, WhoAmIInputExpander)
	r, err := tbl.Decode(m)
	if err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if err := CheckWhoAmI(r); err != nil {
		t.Fatalf("CheckWhoAmI err=%v", err)
	}

	m, _ = WhoAmI.Message(harp.Read, 1216)
	r, _ = tbl.Decode(m)
	if err := CheckWhoAmI(r); !errors.Is(err, ErrWrongDevice) {
		t.Fatalf("expected ErrWrongDevice, got %v", err)
	}
}

func TestTable_ConcurrentDecode(t *testing.T) {
	tbl := mustTable(t, RevisionPackedEncoder)
	msg := harp.New(harp.Event, 40, harp.S16, []byte{0x10, 0x00})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				r, err := tbl.Decode(msg)
				if err != nil || r.Value != int16(16) {
					t.Errorf("decode: r=%+v err=%v", r, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
