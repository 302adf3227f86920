package models

import "github.com/shopspring/decimal"

// RosterEntry is one registered worker with their pay rates.
// Name is always stored in normalized form and is the join key
// against the attendance ledger. Duplicates are not rejected;
// lookups take the first match in table order.
type RosterEntry struct {
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	DayRate    decimal.Decimal `json:"day_rate"`
	NightRate  decimal.Decimal `json:"night_rate"`
	Type       string          `json:"type"`
	ExtraBonus decimal.Decimal `json:"extra_bonus"`
}

// RateFor returns the shift-appropriate day rate.
func (r RosterEntry) RateFor(shift Shift) decimal.Decimal {
	if shift == ShiftNight {
		return r.NightRate
	}
	return r.DayRate
}
