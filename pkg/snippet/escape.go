package snippet

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/jingkaihe/stepkit/pkg/argvalue"
)

// Escape renders a scalar for use after "key: " or "- ". Structured values
// are not expected here and are rendered as quoted compact JSON.
func Escape(v argvalue.Value) string {
	switch v.Kind() {
	case argvalue.KindNull:
		return "null"
	case argvalue.KindBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case argvalue.KindNumber:
		return FormatNumber(v.Text())
	case argvalue.KindString:
		return QuoteString(v.Text())
	default:
		return QuoteString(v.DisplayText())
	}
}

// QuoteString leaves s bare unless it is empty or contains a colon, a hash or
// a newline. Quoted strings only escape embedded double quotes.
func QuoteString(s string) string {
	if s == "" || strings.ContainsAny(s, ":#\n") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}

// FormatNumber turns a JSON number literal into canonical decimal text.
// Integer literals keep their exact value; anything with a fraction or an
// exponent is treated as a float64.
func FormatNumber(literal string) string {
	if !strings.ContainsAny(literal, ".eE") {
		if i, ok := new(big.Int).SetString(literal, 10); ok {
			return i.String()
		}
		return literal
	}

	// Out-of-range literals come back as ±Inf along with ErrRange.
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil && !math.IsInf(f, 0) {
		return literal
	}
	return formatFloat(f)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
