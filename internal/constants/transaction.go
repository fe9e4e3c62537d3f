package constants

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// BalanceTolerance is the largest absolute sum, in currency units, that a
	// same-currency transaction's entries may have and still count as balanced.
	BalanceTolerance = "0.01"

	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)
