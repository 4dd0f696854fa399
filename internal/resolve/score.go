package resolve

import (
	"strconv"
	"strings"
)

// Score is a 32-bit relevance score in [0,1].
//
// Its JSON form is the shortest decimal text that round-trips through a
// 32-bit float, with integral values forced to carry a fractional part:
// 3/4 renders as 0.75, 1/3 as 0.33333334, 0 as 0.0. This exact byte format
// is part of the output contract; fixed-precision formatting would break the
// golden outputs downstream consumers compare against.
type Score float32

// MarshalJSON implements json.Marshaler.
func (s Score) MarshalJSON() ([]byte, error) {
	text := strconv.FormatFloat(float64(float32(s)), 'g', -1, 32)
	if i := strings.IndexByte(text, 'e'); i >= 0 {
		// FormatFloat pads exponents to two digits (5e-05); the wire
		// format carries no leading zeros (5e-5).
		text = text[:i+1] + trimExponent(text[i+1:])
	} else if !strings.Contains(text, ".") {
		text += ".0"
	}
	return []byte(text), nil
}

func trimExponent(exp string) string {
	sign := ""
	if len(exp) > 0 && (exp[0] == '-' || exp[0] == '+') {
		if exp[0] == '-' {
			sign = "-"
		}
		exp = exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return sign + exp
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Score) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseFloat(string(b), 32)
	if err != nil {
		return err
	}
	*s = Score(v)
	return nil
}
