package tax

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Bracket is one row of the salary-income deduction table. Lower and Upper
// are inclusive yen bounds; Upper is ignored when Unbounded is set.
type Bracket struct {
	Index        int    `json:"index"`
	Lower        int64  `json:"lower"`
	Upper        int64  `json:"upper,omitempty"`
	Unbounded    bool   `json:"unbounded,omitempty"`
	RangeLabel   string `json:"range_label"`
	FormulaLabel string `json:"formula_label"`

	formula func(income int64) decimal.Decimal
}

// Contains reports whether income does not exceed the bracket's upper bound.
// Brackets are checked in ascending order, so the lower bound is implied by
// the previous row.
func (b Bracket) Contains(income int64) bool {
	return b.Unbounded || income <= b.Upper
}

// Apply evaluates the bracket formula for income.
func (b Bracket) Apply(income int64) decimal.Decimal {
	return b.formula(income)
}

var (
	rate24  = decimal.RequireFromString("2.4")
	rate28  = decimal.RequireFromString("2.8")
	rate32  = decimal.RequireFromString("3.2")
	rate09  = decimal.RequireFromString("0.9")
	zeroYen = decimal.Zero
)

func fixed(amount int64) func(int64) decimal.Decimal {
	v := decimal.NewFromInt(amount)
	return func(int64) decimal.Decimal { return v }
}

func minus(deduction int64) func(int64) decimal.Decimal {
	d := decimal.NewFromInt(deduction)
	return func(a int64) decimal.Decimal {
		return decimal.NewFromInt(a).Sub(d)
	}
}

// quarter computes floor(A/4)*rate - deduction. The division is integer
// division and happens before the multiply.
func quarter(rate decimal.Decimal, deduction int64) func(int64) decimal.Decimal {
	d := decimal.NewFromInt(deduction)
	return func(a int64) decimal.Decimal {
		return decimal.NewFromInt(a / 4).Mul(rate).Sub(d)
	}
}

func ninetyPercent(deduction int64) func(int64) decimal.Decimal {
	d := decimal.NewFromInt(deduction)
	return func(a int64) decimal.Decimal {
		return decimal.NewFromInt(a).Mul(rate09).Floor().Sub(d)
	}
}

// table is never mutated; Brackets hands out copies.
var table = []Bracket{
	{Index: 0, Lower: 0, Upper: 550_999,
		RangeLabel: "1円 ～ 550,999円", FormulaLabel: "0円",
		formula: func(int64) decimal.Decimal { return zeroYen }},
	{Index: 1, Lower: 551_000, Upper: 1_618_999,
		RangeLabel: "551,000円 ～ 1,618,999円", FormulaLabel: "A - 550,000円",
		formula: minus(550_000)},
	{Index: 2, Lower: 1_619_000, Upper: 1_619_999,
		RangeLabel: "1,619,000円 ～ 1,619,999円", FormulaLabel: "1,069,000円",
		formula: fixed(1_069_000)},
	{Index: 3, Lower: 1_620_000, Upper: 1_621_999,
		RangeLabel: "1,620,000円 ～ 1,621,999円", FormulaLabel: "1,070,000円",
		formula: fixed(1_070_000)},
	{Index: 4, Lower: 1_622_000, Upper: 1_623_999,
		RangeLabel: "1,622,000円 ～ 1,623,999円", FormulaLabel: "1,072,000円",
		formula: fixed(1_072_000)},
	{Index: 5, Lower: 1_624_000, Upper: 1_627_999,
		RangeLabel: "1,624,000円 ～ 1,627,999円", FormulaLabel: "1,074,000円",
		formula: fixed(1_074_000)},
	{Index: 6, Lower: 1_628_000, Upper: 1_799_999,
		RangeLabel: "1,628,000円 ～ 1,799,999円", FormulaLabel: "A ÷ 4 × 2.4 - 100,000円",
		formula: quarter(rate24, 100_000)},
	{Index: 7, Lower: 1_800_000, Upper: 3_599_999,
		RangeLabel: "1,800,000円 ～ 3,599,999円", FormulaLabel: "A ÷ 4 × 2.8 - 80,000円",
		formula: quarter(rate28, 80_000)},
	{Index: 8, Lower: 3_600_000, Upper: 6_599_999,
		RangeLabel: "3,600,000円 ～ 6,599,999円", FormulaLabel: "A ÷ 4 × 3.2 - 440,000円",
		formula: quarter(rate32, 440_000)},
	{Index: 9, Lower: 6_600_000, Upper: 8_499_999,
		RangeLabel: "6,600,000円 ～ 8,499,999円", FormulaLabel: "A × 0.9 - 1,100,000円",
		formula: ninetyPercent(1_100_000)},
	{Index: 10, Lower: 8_500_000, Unbounded: true,
		RangeLabel: "8,500,000円 ～", FormulaLabel: "A - 1,950,000円",
		formula: minus(1_950_000)},
}

// Brackets returns the deduction table in ascending order.
func Brackets() []Bracket {
	return slices.Clone(table)
}
