// Package format renders yen amounts for human-readable output.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Yen returns an amount with a yen sign and thousands separators (e.g., "-¥1,234,567").
func Yen(amount int64) string {
	if amount < 0 {
		return "-¥" + grouped(magnitude(amount))
	}
	return "¥" + grouped(uint64(amount))
}

// Grouped returns an amount with thousands separators but no currency sign (e.g., "-1,234,567").
func Grouped(amount int64) string {
	if amount < 0 {
		return "-" + grouped(magnitude(amount))
	}
	return grouped(uint64(amount))
}

func magnitude(amount int64) uint64 {
	// Two's complement keeps math.MinInt64 exact.
	return uint64(-amount)
}

func grouped(value uint64) string {
	return message.NewPrinter(language.Japanese).Sprintf("%d", value)
}
