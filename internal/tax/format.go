package tax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatYenInt renders n with thousands separators and a 円 suffix.
func FormatYenInt(n int64) string {
	p := message.NewPrinter(language.Japanese)
	return p.Sprintf("%d円", n)
}

// FormatYen renders d like FormatYenInt, keeping any fractional digits.
func FormatYen(d decimal.Decimal) string {
	if d.IsInteger() {
		return FormatYenInt(d.IntPart())
	}

	p := message.NewPrinter(language.Japanese)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	frac := strings.TrimPrefix(d.Sub(whole).String(), "0")
	return sign + p.Sprintf("%d", whole.IntPart()) + frac + "円"
}

// Table renders the reference table. The row at highlight is marked; pass
// -1 for no highlight.
func Table(highlight int) string {
	var sb strings.Builder
	sb.WriteString("給与の収入金額（A） | 所得金額\n")
	for _, b := range table {
		marker := "  "
		if b.Index == highlight {
			marker = "▶ "
		}
		fmt.Fprintf(&sb, "%s[%2d] %s | %s\n", marker, b.Index, b.RangeLabel, b.FormulaLabel)
	}
	return sb.String()
}
