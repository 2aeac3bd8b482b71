package forms

import (
	"encoding/hex"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/japanese"
)

// decodeName turns a PDF name into display text. #xx escapes are expanded
// and byte sequences that are not UTF-8 are read as Shift-JIS, which is how
// Japanese government forms encode checkbox export values.
func decodeName(raw string) string {
	s := unescapeName(raw)
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := japanese.ShiftJIS.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return decoded
}

func unescapeName(s string) string {
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '#' && i+2 < len(s) {
			if b, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
				buf = append(buf, byte(b))
				i += 2
				continue
			}
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}

// encodeText returns a hex string object for s. Non-ASCII text is written as
// UTF-16BE with a byte order mark.
func encodeText(s string) types.HexLiteral {
	if isASCII(s) {
		return types.HexLiteral(hex.EncodeToString([]byte(s)))
	}
	units := utf16.Encode([]rune(s))
	b := make([]byte, 2, 2+2*len(units))
	b[0], b[1] = 0xFE, 0xFF
	for _, u := range units {
		b = append(b, byte(u>>8), byte(u))
	}
	return types.HexLiteral(hex.EncodeToString(b))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
