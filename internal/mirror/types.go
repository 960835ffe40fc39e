// internal/mirror/types.go
package mirror

import "github.com/tamzrod/harp-expander/internal/register"

// StatusPlan places the stream status block.
type StatusPlan struct {
	Slot uint16 // block starts at Slot*status.SlotsPerStream
	Name string
}

// Plan is the fully-built mirror plan for one stream.
type Plan struct {
	StreamID    string
	Endpoint    string
	UnitID      uint8
	BaseAddress uint16
	Status      *StatusPlan // nil when status is disabled
}

// Writer mirrors decoded readings into holding registers.
type Writer interface {
	// Write reports whether the reading was mirrored; readings outside the
	// application window are skipped without error.
	Write(r register.Reading) (bool, error)
}

// endpointClient is the exact contract the mirror uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
