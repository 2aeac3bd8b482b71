package tax

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// ErrInvalidIncome is returned by ParseIncome for input that is not a
// non-negative whole number of yen.
var ErrInvalidIncome = errors.New("正しい数値を入力してください。")

// ParseIncome turns free-text salary input such as "3,600,000" or
// "¥1,628,000円" into yen. Full-width digits and commas are accepted.
func ParseIncome(input string) (int64, error) {
	s := width.Narrow.String(input)
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "¥")
	s = strings.TrimSuffix(s, "円")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")

	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidIncome)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidIncome, input)
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidIncome, input, err)
	}
	return n, nil
}
