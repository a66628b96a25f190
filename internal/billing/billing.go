// Package billing computes derived money amounts. All functions are pure.
package billing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ukydev/autoservice/internal/models"
)

// CurrencySuffix follows every formatted amount.
const CurrencySuffix = " ₽"

var printer = message.NewPrinter(language.Russian)

// PartTotal is the unit cost times the quantity.
func PartTotal(p models.SparePart) float64 {
	return p.Cost * float64(p.Quantity)
}

// RepairTotalWithParts is the labour cost of the repair plus the total of
// each part. Parts of other repairs are the caller's concern.
func RepairTotalWithParts(r models.Repair, parts []models.SparePart) float64 {
	total := r.Cost
	for _, p := range parts {
		total += PartTotal(p)
	}
	return total
}

// EmployeeTotalCompensation is salary plus bonus. A missing bonus counts as 0.
func EmployeeTotalCompensation(e models.Employee) float64 {
	if e.Bonus == nil {
		return e.Salary
	}
	return e.Salary + *e.Bonus
}

// FormatCurrency renders amount with Russian digit grouping, at most two
// fraction digits and the rouble suffix, e.g. "1 450,5 ₽". Nil renders as 0.
func FormatCurrency(amount *float64) string {
	var v float64
	if amount != nil {
		v = *amount
	}
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2))) + CurrencySuffix
}
