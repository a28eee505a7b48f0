package insts

// Format represents an operand-encoding shape.
type Format uint8

// Operand formats.
const (
	FormatUnknown Format = iota
	FormatR              // register, register, register
	FormatI              // register, register, immediate
	FormatIBranch        // register, register, branch displacement
)

// String returns the host's name for the format.
func (f Format) String() string {
	switch f {
	case FormatR:
		return "R_FORMAT"
	case FormatI:
		return "I_FORMAT"
	case FormatIBranch:
		return "I_BRANCH_FORMAT"
	default:
		return "UNKNOWN_FORMAT"
	}
}
