// Package aggregate derives read-only views from expense and category
// snapshots. Every function is pure; View adds memoization on top.
package aggregate

import (
	"cmp"
	"slices"

	"okane/internal/core"
)

// RecentMonths is the trailing window of the home list.
const RecentMonths = 3

// DayLabelLayout renders group headings such as "Monday, 2 January".
const DayLabelLayout = "Monday, 2 January"

type (
	DayGroup struct {
		Key   core.Date
		Label string
		Items []core.Expense
		Total core.Money
	}

	DayTotal struct {
		Date  core.Date
		Total core.Money
	}
)

// Filter returns the expenses inside period, newest first.
func Filter(expenses []core.Expense, period Period, today core.Date) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if period.Contains(e.Date, today) {
			out = append(out, e)
		}
	}
	sortNewestFirst(out)
	return out
}

// Recent returns the expenses dated within the last RecentMonths months.
func Recent(expenses []core.Expense, today core.Date) []core.Expense {
	from := today.AddMonths(-RecentMonths)
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !e.Date.Before(from) {
			out = append(out, e)
		}
	}
	sortNewestFirst(out)
	return out
}

// GroupByDay buckets expenses by calendar date, newest day first. Items keep
// their input order within a day.
func GroupByDay(expenses []core.Expense) []DayGroup {
	index := map[string]int{}
	var groups []DayGroup
	for _, e := range expenses {
		key := e.Date.String()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Key: e.Date, Label: e.Date.Format(DayLabelLayout)})
		}
		groups[i].Items = append(groups[i].Items, e)
		groups[i].Total = groups[i].Total.Add(e.Amount)
	}
	slices.SortStableFunc(groups, func(a, b DayGroup) int {
		return b.Key.Compare(a.Key.Time)
	})
	return groups
}

// Total sums amounts exactly in cents.
func Total(expenses []core.Expense) core.Money {
	var sum core.Money
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// CurrentMonthTotal sums the expenses dated in today's month.
func CurrentMonthTotal(expenses []core.Expense, today core.Date) core.Money {
	var sum core.Money
	for _, e := range expenses {
		if e.Date.SameMonth(today) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// DailyTrend returns one total per day that has expenses, oldest first.
func DailyTrend(expenses []core.Expense) []DayTotal {
	groups := GroupByDay(expenses)
	out := make([]DayTotal, len(groups))
	for i, g := range groups {
		out[len(groups)-1-i] = DayTotal{Date: g.Key, Total: g.Total}
	}
	return out
}

func sortNewestFirst(expenses []core.Expense) {
	slices.SortStableFunc(expenses, func(a, b core.Expense) int {
		if c := b.Date.Compare(a.Date.Time); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Timestamp, a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
