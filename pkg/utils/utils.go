package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CalculateDueDate returns the due date of the given 1-based installment.
// Installment 1 falls in the start month; the day is emiDate clamped to the
// last day of the target month. Time of day and location follow startDate.
func CalculateDueDate(startDate time.Time, emiDate int, month int) time.Time {
	// Day 1 avoids time.Date normalising e.g. Jan 31 + 1 month into March.
	first := time.Date(startDate.Year(), startDate.Month()+time.Month(month-1), 1,
		startDate.Hour(), startDate.Minute(), startDate.Second(), 0, startDate.Location())

	day := emiDate
	if last := DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}

	return first.AddDate(0, 0, day-1)
}

// IsDateOverdue checks if a date is strictly before now
func IsDateOverdue(dueDate, now time.Time) bool {
	return dueDate.Before(now)
}

// FormatCurrency renders an amount in rupees with Indian digit grouping and
// no fractional part, e.g. 1234567 -> ₹12,34,567.
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	digits := rounded.String()
	if len(digits) <= 3 {
		return sign + "₹" + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return sign + "₹" + strings.Join(groups, ",") + "," + tail
}

// FormatDate renders a date as "5 Jan 2024"
func FormatDate(t time.Time) string {
	return t.Format("2 Jan 2006")
}

// FormatDateTime renders a timestamp as "5 Jan 2024, 09:30"
func FormatDateTime(t time.Time) string {
	return t.Format("2 Jan 2006, 15:04")
}
