// internal/mirror/mirror.go
package mirror

import (
	"errors"
	"fmt"

	"github.com/tamzrod/harp-expander/internal/register"
	"github.com/tamzrod/harp-expander/internal/status"
)

type dataWriter struct {
	plan Plan
	cli  endpointClient
}

// New builds the data writer for plan.
func New(plan Plan, cli endpointClient) Writer {
	return &dataWriter{plan: plan, cli: cli}
}

// Write re-encodes the reading through its register codec and writes the
// payload words into the register's slot.
func (w *dataWriter) Write(r register.Reading) (bool, error) {
	addr, ok := SlotAddress(w.plan.BaseAddress, r.Register.Address)
	if !ok {
		return false, nil
	}
	if w.cli == nil {
		return false, errors.New("mirror: missing client for endpoint " + w.plan.Endpoint)
	}

	payload, err := r.Register.Encode(r.Value)
	if err != nil {
		return false, fmt.Errorf("mirror: %w", err)
	}

	regs := PayloadWords(payload)
	if len(regs) > status.WordsPerRegister {
		return false, fmt.Errorf("mirror: %s payload of %d words exceeds slot", r.Register.Name, len(regs))
	}

	if err := w.cli.WriteRegisters(w.plan.UnitID, addr, regs); err != nil {
		return false, fmt.Errorf("mirror: %s: %w", r.Register.Name, err)
	}
	return true, nil
}

// SlotAddress maps an application register address to its first holding
// register. Addresses outside the application window have no slot.
func SlotAddress(base uint16, address uint8) (uint16, bool) {
	if address < register.AppAddressFirst || address > register.AppAddressLast {
		return 0, false
	}
	return base + uint16(address-register.AppAddressFirst)*status.WordsPerRegister, true
}

// PayloadWords packs payload bytes into words, little-endian, so a U16
// element keeps its numeric value. An odd trailing byte lands in the low half.
func PayloadWords(b []byte) []uint16 {
	out := make([]uint16, (len(b)+1)/2)
	for i, v := range b {
		if i%2 == 0 {
			out[i/2] |= uint16(v)
		} else {
			out[i/2] |= uint16(v) << 8
		}
	}
	return out
}
