// internal/register/types.go
package register

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Register values are backed by the raw wire integer. Named constants cover
// the documented bit patterns; any other pattern decodes and re-encodes
// unchanged.

// AuxiliaryInput is the state of the auxiliary input lines.
type AuxiliaryInput uint8

const (
	Aux0        AuxiliaryInput = 0x01
	Aux1        AuxiliaryInput = 0x02
	Aux0Changed AuxiliaryInput = 0x20
	Aux1Changed AuxiliaryInput = 0x40
)

var auxiliaryInputNames = []flagName[AuxiliaryInput]{
	{Aux0, "Aux0"},
	{Aux1, "Aux1"},
	{Aux0Changed, "Aux0Changed"},
	{Aux1Changed, "Aux1Changed"},
}

func (v AuxiliaryInput) String() string { return formatFlags(v, auxiliaryInputNames) }

// DigitalInput is the state of the digital input lines.
type DigitalInput uint16

const (
	DI0 DigitalInput = 1 << iota
	DI1
	DI2
	DI3
	DI4
	DI5
	DI6
	DI7
	DI8
	DI9
)

var digitalInputNames = []flagName[DigitalInput]{
	{DI0, "DI0"}, {DI1, "DI1"}, {DI2, "DI2"}, {DI3, "DI3"}, {DI4, "DI4"},
	{DI5, "DI5"}, {DI6, "DI6"}, {DI7, "DI7"}, {DI8, "DI8"}, {DI9, "DI9"},
}

func (v DigitalInput) String() string { return formatFlags(v, digitalInputNames) }

// DigitalInPortPayload is the two-element digital port register.
type DigitalInPortPayload struct {
	State   DigitalInput
	Changed DigitalInput
}

func (p DigitalInPortPayload) String() string {
	return fmt.Sprintf("{State:%v Changed:%v}", p.State, p.Changed)
}

// InputSamplingMode selects how the digital inputs are sampled.
type InputSamplingMode uint8

const (
	InputSamplingOnInterrupt InputSamplingMode = 0
	InputSamplingPolling1kHz InputSamplingMode = 1
	InputSamplingPolling2kHz InputSamplingMode = 2
)

func (v InputSamplingMode) String() string {
	switch v {
	case InputSamplingOnInterrupt:
		return "OnInterrupt"
	case InputSamplingPolling1kHz:
		return "Polling1kHz"
	case InputSamplingPolling2kHz:
		return "Polling2kHz"
	}
	return fmt.Sprintf("InputSamplingMode(%d)", uint8(v))
}

// EncoderSamplingMode is the standalone encoder sampling register used by
// revisions without the packed encoder byte.
type EncoderSamplingMode uint8

const (
	EncoderSamplingDisabled     EncoderSamplingMode = 0
	EncoderSamplingPolling250Hz EncoderSamplingMode = 1
	EncoderSamplingPolling500Hz EncoderSamplingMode = 2
	EncoderSamplingPolling1kHz  EncoderSamplingMode = 3
	EncoderSamplingOnMovement   EncoderSamplingMode = 4
)

func (v EncoderSamplingMode) String() string {
	switch v {
	case EncoderSamplingDisabled:
		return "Disabled"
	case EncoderSamplingPolling250Hz:
		return "Polling250Hz"
	case EncoderSamplingPolling500Hz:
		return "Polling500Hz"
	case EncoderSamplingPolling1kHz:
		return "Polling1kHz"
	case EncoderSamplingOnMovement:
		return "OnMovement"
	}
	return fmt.Sprintf("EncoderSamplingMode(%d)", uint8(v))
}

// EncoderSampleRate is the low sub-field (bits 0-2) of the packed encoder byte.
type EncoderSampleRate uint8

const (
	SampleRateDisabled   EncoderSampleRate = 0
	SampleRate250Hz      EncoderSampleRate = 1
	SampleRate500Hz      EncoderSampleRate = 2
	SampleRate1kHz       EncoderSampleRate = 3
	SampleRateOnMovement EncoderSampleRate = 4
)

func (v EncoderSampleRate) String() string {
	switch v {
	case SampleRateDisabled:
		return "Disabled"
	case SampleRate250Hz:
		return "250Hz"
	case SampleRate500Hz:
		return "500Hz"
	case SampleRate1kHz:
		return "1kHz"
	case SampleRateOnMovement:
		return "OnMovement"
	}
	return fmt.Sprintf("EncoderSampleRate(%d)", uint8(v))
}

// EncoderMode is the high sub-field (bit 3) of the packed encoder byte.
type EncoderMode uint8

const (
	EncoderModePosition     EncoderMode = 0
	EncoderModeDisplacement EncoderMode = 1
)

func (v EncoderMode) String() string {
	switch v {
	case EncoderModePosition:
		return "Position"
	case EncoderModeDisplacement:
		return "Displacement"
	}
	return fmt.Sprintf("EncoderMode(%d)", uint8(v))
}

// Packed encoder byte geometry.
const (
	sampleRateMask   = 0x07
	encoderModeMask  = 0x08
	encoderModeShift = 3
)

// EncoderModeConfig is the packed encoder configuration byte.
// Bits above 0x0F are reserved: dropped on decode, written as zero.
type EncoderModeConfig struct {
	SampleRate EncoderSampleRate
	Mode       EncoderMode
}

func (c EncoderModeConfig) String() string {
	return fmt.Sprintf("{SampleRate:%v Mode:%v}", c.SampleRate, c.Mode)
}

// ExpansionBoardType identifies the board plugged into the expansion port.
type ExpansionBoardType uint8

const (
	ExpansionBreakout ExpansionBoardType = 0
)

func (v ExpansionBoardType) String() string {
	if v == ExpansionBreakout {
		return "Breakout"
	}
	return fmt.Sprintf("ExpansionBoardType(%d)", uint8(v))
}

// OperationControl is the core operation control register.
type OperationControl uint8

const (
	OperationModeMask      OperationControl = 0x03
	OperationDumpRegisters OperationControl = 0x08
	OperationMuteReplies   OperationControl = 0x10
	OperationVisualLEDs    OperationControl = 0x20
	OperationLED           OperationControl = 0x40
	OperationHeartbeat     OperationControl = 0x80
)

// Operation modes held in OperationModeMask.
const (
	OperationStandby OperationControl = 0
	OperationActive  OperationControl = 1
	OperationSpeed   OperationControl = 3
)

// Mode returns the operation mode sub-field.
func (v OperationControl) Mode() OperationControl { return v & OperationModeMask }

// ResetFlags is the core reset register.
type ResetFlags uint8

const (
	ResetDefault         ResetFlags = 0x01
	ResetRestoreEeprom   ResetFlags = 0x02
	ResetSave            ResetFlags = 0x04
	ResetRestoreName     ResetFlags = 0x08
	ResetBootFromDefault ResetFlags = 0x40
	ResetBootFromEeprom  ResetFlags = 0x80
)

type flagName[T constraints.Unsigned] struct {
	bit  T
	name string
}

// formatFlags joins the named bits and appends any unnamed remainder in hex.
func formatFlags[T constraints.Unsigned](v T, names []flagName[T]) string {
	if v == 0 {
		return "0"
	}
	var parts []string
	rest := v
	for _, n := range names {
		if v&n.bit == n.bit {
			parts = append(parts, n.name)
			rest &^= n.bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint64(rest)))
	}
	return strings.Join(parts, "|")
}
