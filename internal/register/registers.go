// internal/register/registers.go
package register

// WhoAmIInputExpander is the device identity reported at address 0.
const WhoAmIInputExpander uint16 = 1106

// ---- core registers (shared by every Harp device) ----

var (
	WhoAmI                = u16Register[uint16](0, "WhoAmI")
	HardwareVersionHigh   = u8Register[uint8](1, "HardwareVersionHigh")
	HardwareVersionLow    = u8Register[uint8](2, "HardwareVersionLow")
	AssemblyVersion       = u8Register[uint8](3, "AssemblyVersion")
	CoreVersionHigh       = u8Register[uint8](4, "CoreVersionHigh")
	CoreVersionLow        = u8Register[uint8](5, "CoreVersionLow")
	FirmwareVersionHigh   = u8Register[uint8](6, "FirmwareVersionHigh")
	FirmwareVersionLow    = u8Register[uint8](7, "FirmwareVersionLow")
	TimestampSeconds      = u32Register[uint32](8, "TimestampSeconds")
	TimestampMicroseconds = u16Register[uint16](9, "TimestampMicroseconds")
	OperationControlReg   = u8Register[OperationControl](10, "OperationControl")
	ResetDevice           = u8Register[ResetFlags](11, "ResetDevice")
	DeviceName            = stringRegister(12, "DeviceName", 25)
)

// ---- application registers ----

var (
	AuxInPort                      = u8Register[AuxiliaryInput](32, "AuxInPort")
	AuxInEnableRisingEdge          = u8Register[AuxiliaryInput](33, "AuxInEnableRisingEdge")
	AuxInEnableFallingEdge         = u8Register[AuxiliaryInput](34, "AuxInEnableFallingEdge")
	DigitalInPort                  = digitalPortRegister(35, "DigitalInPort")
	DigitalInPortEnableRisingEdge  = u16Register[DigitalInput](36, "DigitalInPortEnableRisingEdge")
	DigitalInPortEnableFallingEdge = u16Register[DigitalInput](37, "DigitalInPortEnableFallingEdge")
	InputSampling                  = u8Register[InputSamplingMode](38, "InputSampling")
	EncoderSampling                = u8Register[EncoderSamplingMode](39, "EncoderSampling")
	EncoderModeReg                 = encoderModeRegister(39, "EncoderMode")
	EncoderData                    = s16Register(40, "EncoderData")
	ExpansionBoard                 = u8Register[ExpansionBoardType](41, "ExpansionBoard")

	// combined-edge revision only
	AuxInEnableEdge         = u8Register[AuxiliaryInput](33, "AuxInEnableEdge")
	DigitalInPortEnableEdge = u16Register[DigitalInput](36, "DigitalInPortEnableEdge")
)

// AppAddressFirst and AppAddressLast bound the application register window.
const (
	AppAddressFirst uint8 = 32
	AppAddressLast  uint8 = 41
)

func coreDescriptors() []Descriptor {
	return []Descriptor{
		WhoAmI.Descriptor(),
		HardwareVersionHigh.Descriptor(),
		HardwareVersionLow.Descriptor(),
		AssemblyVersion.Descriptor(),
		CoreVersionHigh.Descriptor(),
		CoreVersionLow.Descriptor(),
		FirmwareVersionHigh.Descriptor(),
		FirmwareVersionLow.Descriptor(),
		TimestampSeconds.Descriptor(),
		TimestampMicroseconds.Descriptor(),
		OperationControlReg.Descriptor(),
		ResetDevice.Descriptor(),
		DeviceName.Descriptor(),
	}
}
