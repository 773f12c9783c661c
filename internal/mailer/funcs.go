package mailer

import (
	"html/template"
	"strconv"
	"strings"
)

var templateFuncs = template.FuncMap{
	"vnd": formatVND,
}

// formatVND renders an amount of đồng with dot thousand separators, e.g. 378.000 ₫.
func formatVND(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}

	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	b.WriteString(" ₫")

	return b.String()
}
