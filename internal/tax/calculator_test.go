package tax

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Boundaries(t *testing.T) {
	tests := []struct {
		name        string
		income      int64
		wantTaxable string
		wantYen     int64
		wantBracket int
	}{
		{"zero", 0, "0", 0, 0},
		{"top of bracket 0", 550_999, "0", 0, 0},
		{"bottom of bracket 1", 551_000, "1000", 1_000, 1},
		{"top of bracket 1", 1_618_999, "1068999", 1_068_999, 1},
		{"bottom of bracket 2", 1_619_000, "1069000", 1_069_000, 2},
		{"top of bracket 2", 1_619_999, "1069000", 1_069_000, 2},
		{"bottom of bracket 3", 1_620_000, "1070000", 1_070_000, 3},
		{"bottom of bracket 4", 1_622_000, "1072000", 1_072_000, 4},
		{"bottom of bracket 5", 1_624_000, "1074000", 1_074_000, 5},
		{"top of bracket 5", 1_627_999, "1074000", 1_074_000, 5},
		{"bottom of bracket 6", 1_628_000, "876800", 876_800, 6},
		{"bottom of bracket 7", 1_800_000, "1180000", 1_180_000, 7},
		{"bottom of bracket 8", 3_600_000, "2440000", 2_440_000, 8},
		{"bottom of bracket 9", 6_600_000, "4840000", 4_840_000, 9},
		{"top of bracket 9", 8_499_999, "6549999", 6_549_999, 9},
		{"bottom of bracket 10", 8_500_000, "6550000", 6_550_000, 10},
		{"large salary", 20_000_000, "18050000", 18_050_000, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.income)
			assert.Equal(t, tt.income, got.Income)
			assert.True(t, decimal.RequireFromString(tt.wantTaxable).Equal(got.Taxable),
				"taxable = %s, want %s", got.Taxable, tt.wantTaxable)
			assert.Equal(t, tt.wantYen, got.Yen)
			assert.Equal(t, tt.wantBracket, got.Bracket)
		})
	}
}

func TestCompute_BracketZeroRange(t *testing.T) {
	for a := int64(0); a <= 550_999; a++ {
		got := Compute(a)
		if !got.Taxable.IsZero() || got.Bracket != 0 {
			t.Fatalf("Compute(%d) = (%s, %d), want (0, 0)", a, got.Taxable, got.Bracket)
		}
	}
}

func TestCompute_QuarterTruncatesBeforeMultiply(t *testing.T) {
	// 1,628,001 to 1,628,003 share floor(A/4) = 407,000.
	for _, a := range []int64{1_628_001, 1_628_002, 1_628_003} {
		got := Compute(a)
		assert.True(t, decimal.NewFromInt(876_800).Equal(got.Taxable), "income %d", a)
	}

	got := Compute(1_628_004)
	assert.Equal(t, "876802.4", got.Taxable.String())
	assert.Equal(t, int64(876_802), got.Yen)
	assert.Equal(t, 6, got.Bracket)

	got = Compute(3_599_999)
	assert.Equal(t, "2439997.2", got.Taxable.String())
	assert.Equal(t, int64(2_439_997), got.Yen)
	assert.Equal(t, 7, got.Bracket)
}

func TestCompute_NinetyPercentFloorsProduct(t *testing.T) {
	got := Compute(6_600_001)
	assert.Equal(t, "4840000", got.Taxable.String())
	assert.Equal(t, 9, got.Bracket)

	got = Compute(6_600_009)
	assert.Equal(t, "4840008", got.Taxable.String())
}

func TestCompute_NegativeIncomeFallsIntoFirstBracket(t *testing.T) {
	got := Compute(-1)
	assert.True(t, got.Taxable.IsZero())
	assert.Equal(t, 0, got.Bracket)
}

func TestCompute_Monotonic(t *testing.T) {
	const step = 997
	prev := Compute(0)
	for a := int64(step); a <= 9_000_000; a += step {
		cur := Compute(a)
		// The table drops between brackets 5 and 6.
		crossesDip := prev.Bracket <= 5 && cur.Bracket >= 6
		if !crossesDip && cur.Taxable.LessThan(prev.Taxable) {
			t.Fatalf("Compute(%d)=%s is below Compute(%d)=%s", a, cur.Taxable, prev.Income, prev.Taxable)
		}
		prev = cur
	}
}

func TestCompute_BoundaryTransitions(t *testing.T) {
	brackets := Brackets()
	for i := 1; i < len(brackets); i++ {
		lower := brackets[i].Lower
		before := Compute(lower - 1)
		at := Compute(lower)

		assert.Equal(t, i-1, before.Bracket, "income %d", lower-1)
		assert.Equal(t, i, at.Bracket, "income %d", lower)

		if i == 6 {
			assert.True(t, at.Taxable.LessThan(before.Taxable))
			continue
		}
		assert.False(t, at.Taxable.LessThan(before.Taxable),
			"reversal between bracket %d and %d: %s > %s", i-1, i, before.Taxable, at.Taxable)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	for _, a := range []int64{0, 551_000, 1_628_004, 3_600_000, 7_777_777, 12_345_678} {
		first := Compute(a)
		for i := 0; i < 3; i++ {
			again := Compute(a)
			assert.True(t, first.Taxable.Equal(again.Taxable))
			assert.Equal(t, first.Bracket, again.Bracket)
		}
	}
}

func TestCompute_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]Result, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Compute(3_600_000)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, int64(2_440_000), r.Yen)
		require.Equal(t, 8, r.Bracket)
	}
}

func TestBrackets_Table(t *testing.T) {
	brackets := Brackets()
	require.Len(t, brackets, 11)

	for i, b := range brackets {
		assert.Equal(t, i, b.Index)
		if i > 0 {
			assert.Equal(t, brackets[i-1].Upper+1, b.Lower, "bracket %d is not contiguous", i)
		}
	}
	assert.True(t, brackets[10].Unbounded)

	// Mutating the copy leaves the table alone.
	brackets[0].Upper = 1
	assert.Equal(t, int64(550_999), Brackets()[0].Upper)
}

func TestLookup(t *testing.T) {
	assert.Equal(t, 8, Lookup(3_600_000).Index)
	assert.Equal(t, "A ÷ 4 × 3.2 - 440,000円", Lookup(3_600_000).FormulaLabel)
	assert.Equal(t, 10, Lookup(1<<62).Index)
}
