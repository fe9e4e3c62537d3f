package constants

const (
	// SystemUserID owns the opening-balance equity accounts. It is seeded by
	// the initial migration.
	SystemUserID = "00000000-0000-0000-0000-000000000000"

	SystemAccountOpeningBalance = "Equity:OpeningBalances"
	OpeningAccountMemo          = "Opening Balance"
)

const (
	MaxEmailLen = 254
)
