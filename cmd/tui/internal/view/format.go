package view

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

var printer = message.NewPrinter(language.Japanese)

// FormatAmount renders a yen amount with thousands separators, e.g. ¥12,800.
func FormatAmount(yen int64) string {
	if yen < 0 {
		return "-" + printer.Sprintf("¥%d", -yen)
	}

	return printer.Sprintf("¥%d", yen)
}

// FormatPercent renders a signed change, e.g. +12% or -3%.
func FormatPercent(p int64) string {
	if p > 0 {
		return fmt.Sprintf("+%d%%", p)
	}

	return fmt.Sprintf("%d%%", p)
}

// CategoryLabel prefixes the category with its icon.
func CategoryLabel(name string) string {
	return expense.CategoryIcon(name) + " " + name
}

// Bar draws a horizontal bar of width cells filled to percent.
func Bar(percent int64, width int) string {
	filled := int(percent) * width / 100
	filled = max(0, min(width, filled))

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
