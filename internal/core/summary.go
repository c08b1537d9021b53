package core

// Summary is the {inflow, outflow, balance} triple for one owner over an
// optional date range. Balance is always Inflow - Outflow exactly.
type Summary struct {
	Inflow  Money
	Outflow Money
	Balance Money
}

// CategoryAmount is an amount aggregated for one category.
type CategoryAmount struct {
	CategoryID int64
	Name       string
	Amount     Money
}
