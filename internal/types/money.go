// README: Common money helpers used across modules (GBP display formatting).
package types

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var gbPrinter = message.NewPrinter(language.BritishEnglish)

// FormatGBP renders an amount the way the site shows prices: whole pounds
// without decimals, anything else with exactly two.
func FormatGBP(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	pence := math.Round(amount * 100)
	if math.Mod(pence, 100) == 0 {
		return sign + "£" + gbPrinter.Sprintf("%.0f", pence/100)
	}
	return sign + "£" + gbPrinter.Sprintf("%.2f", pence/100)
}
