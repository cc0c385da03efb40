package cli

import (
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an API amount string as dollars with two decimals.
// Unparseable input is returned as-is rather than hiding the raw value.
func FormatMoney(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// FormatDate renders an API date string (YYYY-MM-DD) as "Jan 2 2006".
func FormatDate(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2 2006")
}
