package aggregate

import (
	"slices"

	"okane/internal/core"
)

// Palette is cycled by order of first appearance so a group keeps its color
// across renders of the same data.
var Palette = []string{
	"primary",
	"secondary",
	"tertiary",
	"on-primary-container",
	"on-secondary-container",
	"on-tertiary-container",
}

// Slice is one wedge of the category chart.
type Slice struct {
	Name        string
	Emoji       string
	CategoryIDs []string
	Amount      core.Money
	Color       string
	Share       float64 // fraction of the grand total, 0..1
}

// Breakdown groups expenses by resolved category name, largest first.
// Categories sharing a name merge into one slice; unknown ids fall under
// core.OtherName.
func Breakdown(expenses []core.Expense, categories []core.Category) []Slice {
	byID := make(map[string]core.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	index := map[string]int{}
	var slicesOut []Slice
	for _, e := range expenses {
		name, emoji := core.OtherName, core.FallbackEmoji
		if c, ok := byID[e.CategoryID]; ok && c.Name != "" {
			name, emoji = c.Name, c.Emoji
		}
		i, ok := index[name]
		if !ok {
			i = len(slicesOut)
			index[name] = i
			slicesOut = append(slicesOut, Slice{
				Name:  name,
				Emoji: emoji,
				Color: Palette[i%len(Palette)],
			})
		}
		s := &slicesOut[i]
		s.Amount = s.Amount.Add(e.Amount)
		if !slices.Contains(s.CategoryIDs, e.CategoryID) {
			s.CategoryIDs = append(s.CategoryIDs, e.CategoryID)
		}
	}

	total := Total(expenses)
	for i := range slicesOut {
		if total.Cents > 0 {
			slicesOut[i].Share = float64(slicesOut[i].Amount.Cents) / float64(total.Cents)
		}
	}
	slices.SortStableFunc(slicesOut, func(a, b Slice) int {
		switch {
		case a.Amount.Cents > b.Amount.Cents:
			return -1
		case a.Amount.Cents < b.Amount.Cents:
			return 1
		}
		return 0
	})
	return slicesOut
}

// ExpensesFor returns the expenses that make up a slice, in input order.
// It backs the per-category drill-down sheet.
func ExpensesFor(expenses []core.Expense, s Slice) []core.Expense {
	var out []core.Expense
	for _, e := range expenses {
		if slices.Contains(s.CategoryIDs, e.CategoryID) {
			out = append(out, e)
		}
	}
	return out
}
