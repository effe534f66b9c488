package debugger

// Display update constants for the TUI during continuous execution.
const (
	// DisplayUpdateFrequency is a redraw interval in cycles for
	// continuous execution. The TUI does not read it: it redraws only
	// after each command completes.
	DisplayUpdateFrequency = 100
)

// Memory display constants.
const (
	MemoryDisplayRows        = 16
	MemoryDisplayColumns     = 16
	MemoryDisplayBytesPerRow = 16
)

// Stack display constants.
const (
	StackDisplayWords        = 16
	StackDisplayBytes        = 128 // 16 words * 8 bytes, sized for RV64
	StackInspectionMaxOffset = 16
)

// Register display constants, sized for the 32 integer registers of
// the base ISA.
const (
	// RegisterViewRows is the fixed height of the register view panel.
	RegisterViewRows = 10

	// RegisterGroupSize is the number of registers displayed per row.
	RegisterGroupSize = 4
)
