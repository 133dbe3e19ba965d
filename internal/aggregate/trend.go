package aggregate

import (
	"okane/internal/core"
)

// DefaultTrendMonths is used when Trend is asked for zero or fewer months.
const DefaultTrendMonths = 6

// Overview summarizes one calendar month.
func Overview(expenses []core.Expense, categories []core.Category, year, month int) core.MonthOverview {
	var inMonth []core.Expense
	for _, e := range expenses {
		if e.Date.Year() == year && e.Date.Month() == month {
			inMonth = append(inMonth, e)
		}
	}
	ov := core.MonthOverview{Year: year, Month: month, Total: Total(inMonth)}
	for _, s := range Breakdown(inMonth, categories) {
		ov.ByCategory = append(ov.ByCategory, core.CategoryAmount{Name: s.Name, Amount: s.Amount})
	}
	return ov
}

// Trend returns the overview of the anchor month and the months-1 months
// before it, oldest first.
func Trend(expenses []core.Expense, categories []core.Category, anchorYear, anchorMonth, months int) []core.MonthOverview {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	anchor := core.NewDate(anchorYear, anchorMonth, 1)
	out := make([]core.MonthOverview, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := anchor.AddMonths(-i)
		out = append(out, Overview(expenses, categories, m.Year(), m.Month()))
	}
	return out
}
