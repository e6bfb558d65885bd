package model

// ContractType is a faculty employment category. It is used only as a
// tiebreak in registration-priority scoring.
type ContractType string

const (
	ContractFullTime        ContractType = "FT"
	ContractPartTime3Yr     ContractType = "PT3yr"
	ContractPartTimeSpecial ContractType = "PT_special"
	ContractAdjunct         ContractType = "adjunct"
	ContractUnknown         ContractType = "Unknown"
)

// Priority returns the tiebreak weight of the contract type. The spread
// (0..4) stays below the per-student weight of 10 so that enrollment count
// always dominates the final score.
func (c ContractType) Priority() int {
	switch c {
	case ContractFullTime:
		return 4
	case ContractPartTime3Yr:
		return 3
	case ContractPartTimeSpecial:
		return 2
	case ContractAdjunct:
		return 1
	default:
		return 0
	}
}

// ParseContractType maps a roster string to a known contract type,
// defaulting to Unknown.
func ParseContractType(s string) ContractType {
	switch ContractType(s) {
	case ContractFullTime, ContractPartTime3Yr, ContractPartTimeSpecial, ContractAdjunct:
		return ContractType(s)
	default:
		return ContractUnknown
	}
}
