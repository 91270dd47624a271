package ads

import (
	"fmt"
	"math"
)

// Cents is a currency amount in the account currency's minimum unit. The
// Marketing API reports and accepts daily budgets in cents, so all budget
// arithmetic stays integral and only display code converts to dollars.
type Cents int64

// CentsFromDollars converts a dollar amount to cents, rounding half away
// from zero.
func CentsFromDollars(d float64) Cents {
	return Cents(math.Round(d * 100))
}

// Dollars returns the amount as a floating-point dollar value.
func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

func (c Cents) String() string {
	if c < 0 {
		return fmt.Sprintf("-$%.2f", float64(-c)/100)
	}
	return fmt.Sprintf("$%.2f", float64(c)/100)
}
