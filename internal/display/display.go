// Package display renders records as the strings shown to shop staff.
package display

import (
	"strings"
	"time"

	"github.com/ukydev/autoservice/internal/models"
)

// DateLayout is the day.month.year form used on every screen.
const DateLayout = "02.01.2006"

const (
	InProgress   = "В процессе"
	NotSpecified = "Не указана"
)

// FullName joins the non-empty name parts in last, first, middle order.
func FullName(last, first, middle string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{last, first, middle} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func OwnerName(o models.Owner) string {
	return FullName(o.LastName, o.FirstName, o.MiddleName)
}

func EmployeeName(e models.Employee) string {
	return FullName(e.LastName, e.FirstName, e.MiddleName)
}

// CarLabel is "Brand (NUMBER)".
func CarLabel(c models.Car) string {
	return c.Brand + " (" + strings.ToUpper(c.Number) + ")"
}

// Date formats t with DateLayout. The zero time renders empty.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// CompletionDate shows InProgress for an active repair.
func CompletionDate(t *time.Time) string {
	if t == nil {
		return InProgress
	}
	return Date(*t)
}

// OptionalDate shows NotSpecified when t is unset.
func OptionalDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotSpecified
	}
	return Date(*t)
}
