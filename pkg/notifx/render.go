package notifx

import (
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`{{([^{}]+)}}`)

// Render replaces {{KEY}} placeholders with values. AMOUNT is formatted as
// Vietnamese dong. Unknown keys are left as written.
func Render(content string, values map[string]string) string {
	return placeholder.ReplaceAllStringFunc(content, func(m string) string {
		key := strings.TrimSpace(m[2 : len(m)-2])
		v, ok := values[key]
		if !ok {
			return m
		}
		if key == KeyAmount {
			return FormatVND(v)
		}
		return v
	})
}

// FormatVND formats a numeric amount as "1.500.000 ₫". Fractions are
// rounded; non-numeric input is returned unchanged.
func FormatVND(amount string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return amount
	}

	n := int64(f + 0.5)
	if f < 0 {
		n = int64(f - 0.5)
	}
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + " ₫"
}
