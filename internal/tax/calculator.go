// Package tax computes taxable salary income (給与所得金額) from gross salary
// using the year-end adjustment deduction table.
package tax

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Result is the outcome of Compute.
type Result struct {
	Income int64 `json:"income"`
	// Taxable is the exact formula value and may carry fractional yen for
	// brackets 6 to 9.
	Taxable decimal.Decimal `json:"taxable"`
	// Yen is Taxable truncated to whole yen.
	Yen     int64 `json:"yen"`
	Bracket int   `json:"bracket"`
}

// Compute maps a gross salary to its taxable income and the matching
// bracket index. Negative incomes fall into bracket 0.
func Compute(income int64) Result {
	b := Lookup(income)
	taxable := b.Apply(income)
	return Result{
		Income:  income,
		Taxable: taxable,
		Yen:     taxable.Floor().IntPart(),
		Bracket: b.Index,
	}
}

// Lookup returns the bracket that Compute would select for income.
func Lookup(income int64) Bracket {
	b, _ := lo.Find(table, func(b Bracket) bool {
		return b.Contains(income)
	})
	return b
}
