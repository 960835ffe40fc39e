// internal/status/constants.go
package status

// Mirror layout constants: data image and stream status block.
// These values define the mirror layout and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerStream is the fixed number of holding registers per stream.
const SlotsPerStream = 20

// ---- DATA IMAGE ----

// WordsPerRegister is the fixed width of one mirrored register slot.
const WordsPerRegister = 2

// DataRegisters is the number of mirrored application registers (32-41).
const DataRegisters = 10

// DataSpanWords is the size of one stream's data image.
const DataSpanWords = WordsPerRegister * DataRegisters

// ---- SLOT INDICES ----

// SlotHealthCode holds the stream health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the code of the last rejected message.
const SlotLastErrorCode = 1

// SlotDecoded holds the saturating count of decoded messages.
const SlotDecoded = 2

// SlotRejected holds the saturating count of rejected messages.
const SlotRejected = 3

// ---- RESERVED RANGE ----

// Slots 4-10 are reserved.
const SlotReservedStart = 4
const SlotReservedEnd = 10

// ---- STREAM NAME ----

// SlotNameStart is the first slot used for the stream name.
// The name is always placed at the END of the status block.
const SlotNameStart = 11

// SlotNameSlots is the number of slots reserved for the stream name.
const SlotNameSlots = 8

// SlotNameEnd is the last slot used for the stream name (inclusive).
const SlotNameEnd = SlotNameStart + SlotNameSlots - 1

// ---- LIMITS ----

// NameMaxChars is the maximum number of ASCII characters stored for the name.
const NameMaxChars = 16

// CounterMax is where the counters stop.
const CounterMax = 65535

// ---- HEALTH CODES ----

// HealthUnknown: nothing decoded yet.
const HealthUnknown uint16 = 0

// HealthOK: last message decoded.
const HealthOK uint16 = 1

// HealthError: last message rejected.
const HealthError uint16 = 2

// HealthDrained: the feed reached end of input.
const HealthDrained uint16 = 3

// ---- ERROR CODES ----

// ErrorCodeGeneric is used when an error does not expose a code.
const ErrorCodeGeneric uint16 = 0xFF

// ErrorCodeFrame marks envelope (framing/checksum) failures.
const ErrorCodeFrame uint16 = 0x10
