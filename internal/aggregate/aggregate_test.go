package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okane/internal/core"
)

func exp(id string, cents int64, cat string, d core.Date, ts core.Millis) core.Expense {
	return core.Expense{ID: id, Amount: core.Money{Cents: cents}, CategoryID: cat, Date: d, Timestamp: ts}
}

func ids(expenses []core.Expense) []string {
	out := make([]string, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterLastNDays(t *testing.T) {
	today := core.NewDate(2024, 3, 15)
	expenses := []core.Expense{
		exp("a", 100, "1", core.NewDate(2024, 3, 15), 1),
		exp("b", 100, "1", core.NewDate(2024, 3, 9), 1),
		exp("c", 100, "1", core.NewDate(2024, 3, 8), 1),
		exp("d", 100, "1", core.NewDate(2024, 3, 20), 1),
	}

	tests := []struct {
		name string
		days int
		want []string
	}{
		{"today only", 1, []string{"d", "a"}},
		{"seven days includes boundary", 7, []string{"d", "a", "b"}},
		{"eight days", 8, []string{"d", "a", "b", "c"}},
		{"non-positive treated as one", 0, []string{"d", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(expenses, LastNDays(tt.days), today)))
		})
	}
}

func TestFilterCurrentMonthAndRange(t *testing.T) {
	today := core.NewDate(2024, 3, 15)
	expenses := []core.Expense{
		exp("feb", 100, "1", core.NewDate(2024, 2, 29), 1),
		exp("mar1", 100, "1", core.NewDate(2024, 3, 1), 1),
		exp("mar31", 100, "1", core.NewDate(2024, 3, 31), 1),
		exp("mar-last-year", 100, "1", core.NewDate(2023, 3, 10), 1),
	}

	assert.Equal(t, []string{"mar31", "mar1"}, ids(Filter(expenses, CurrentMonth(), today)))

	rng := CustomRange(core.NewDate(2024, 2, 29), core.NewDate(2024, 3, 1))
	assert.Equal(t, []string{"mar1", "feb"}, ids(Filter(expenses, rng, today)))

	assert.Empty(t, Filter(expenses, CustomRange(core.Date{}, core.Date{}), today))
}

func TestFilterOrdering(t *testing.T) {
	day := core.NewDate(2024, 3, 10)
	expenses := []core.Expense{
		exp("b", 100, "1", day, 5),
		exp("z", 100, "1", day, 9),
		exp("a", 100, "1", day, 5),
		exp("old", 100, "1", day.AddDays(-1), 99),
	}
	got := Filter(expenses, LastNDays(30), day)
	assert.Equal(t, []string{"z", "a", "b", "old"}, ids(got))
}

func TestPeriodValidate(t *testing.T) {
	assert.NoError(t, LastNDays(7).Validate())
	assert.NoError(t, CurrentMonth().Validate())
	assert.ErrorIs(t, LastNDays(0).Validate(), ErrInvalidPeriod)
	assert.ErrorIs(t, CustomRange(core.NewDate(2024, 3, 2), core.NewDate(2024, 3, 1)).Validate(), ErrInvalidPeriod)
	assert.ErrorIs(t, Period{Kind: "weird"}.Validate(), ErrInvalidPeriod)
}

func TestRecent(t *testing.T) {
	today := core.NewDate(2024, 5, 31)
	expenses := []core.Expense{
		exp("edge", 100, "1", core.NewDate(2024, 3, 2), 1),
		exp("old", 100, "1", core.NewDate(2024, 2, 29), 1),
		exp("new", 100, "1", core.NewDate(2024, 5, 30), 1),
	}
	// AddMonths(-3) from May 31 normalizes Feb 31 to Mar 2.
	assert.Equal(t, []string{"new", "edge"}, ids(Recent(expenses, today)))
}

func TestGroupByDay(t *testing.T) {
	d1 := core.NewDate(2024, 1, 1)
	d2 := core.NewDate(2024, 1, 2)
	groups := GroupByDay([]core.Expense{
		exp("a", 150, "1", d1, 1),
		exp("b", 250, "1", d2, 2),
		exp("c", 1, "1", d1, 3),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, d2, groups[0].Key)
	assert.Equal(t, "Tuesday, 2 January", groups[0].Label)
	assert.Equal(t, []string{"a", "c"}, ids(groups[1].Items))
	assert.Equal(t, int64(151), groups[1].Total.Cents)
	assert.Equal(t, "Monday, 1 January", groups[1].Label)
}

func TestTotalIsExact(t *testing.T) {
	var expenses []core.Expense
	for i := 0; i < 10; i++ {
		expenses = append(expenses, exp("x", 10, "1", core.NewDate(2024, 1, 1), 1))
	}
	total := Total(expenses)
	assert.Equal(t, int64(100), total.Cents)
	assert.Equal(t, "1.00", total.String())
	assert.Equal(t, "0.00", Total(nil).String())
}

func TestBreakdown(t *testing.T) {
	cats := []core.Category{
		{ID: "1", Name: "Food", Emoji: "🍔"},
		{ID: "2", Name: "Transport", Emoji: "🚗"},
		{ID: "c1", Name: "Food", Emoji: "🥗", IsCustom: true},
	}
	expenses := []core.Expense{
		exp("a", 300, "2", core.NewDate(2024, 1, 1), 1),
		exp("b", 200, "1", core.NewDate(2024, 1, 1), 1),
		exp("c", 400, "c1", core.NewDate(2024, 1, 1), 1),
		exp("d", 100, "ghost", core.NewDate(2024, 1, 1), 1),
	}

	got := Breakdown(expenses, cats)
	require.Len(t, got, 3)

	assert.Equal(t, "Food", got[0].Name)
	assert.Equal(t, int64(600), got[0].Amount.Cents)
	assert.Equal(t, []string{"1", "c1"}, got[0].CategoryIDs)
	assert.Equal(t, Palette[1], got[0].Color)
	assert.InDelta(t, 0.6, got[0].Share, 1e-9)

	assert.Equal(t, "Transport", got[1].Name)
	assert.Equal(t, Palette[0], got[1].Color)

	assert.Equal(t, core.OtherName, got[2].Name)
	assert.Equal(t, Palette[2], got[2].Color)

	assert.Equal(t, got, Breakdown(expenses, cats), "breakdown must be deterministic")
	assert.Equal(t, []string{"b", "c"}, ids(ExpensesFor(expenses, got[0])))
}

func TestTrend(t *testing.T) {
	expenses := []core.Expense{
		exp("a", 100, "1", core.NewDate(2024, 1, 5), 1),
		exp("b", 200, "1", core.NewDate(2024, 3, 5), 1),
		exp("c", 300, "1", core.NewDate(2023, 12, 31), 1),
		exp("d", 999, "1", core.NewDate(2024, 4, 1), 1),
	}
	got := Trend(expenses, nil, 2024, 3, 0)
	require.Len(t, got, DefaultTrendMonths)

	assert.Equal(t, 2023, got[0].Year)
	assert.Equal(t, 10, got[0].Month)
	assert.Equal(t, 12, got[2].Month)
	assert.Equal(t, int64(300), got[2].Total.Cents)
	assert.Equal(t, int64(100), got[3].Total.Cents)
	assert.True(t, got[4].Total.IsZero())
	assert.Equal(t, 3, got[5].Month)
	assert.Equal(t, int64(200), got[5].Total.Cents)
	require.Len(t, got[5].ByCategory, 1)
	assert.Equal(t, core.OtherName, got[5].ByCategory[0].Name)
}

func TestCurrentMonthTotalAndDailyTrend(t *testing.T) {
	today := core.NewDate(2024, 3, 15)
	expenses := []core.Expense{
		exp("a", 100, "1", core.NewDate(2024, 3, 2), 1),
		exp("b", 250, "1", core.NewDate(2024, 3, 1), 1),
		exp("c", 50, "1", core.NewDate(2024, 3, 2), 1),
		exp("d", 700, "1", core.NewDate(2024, 2, 1), 1),
	}
	assert.Equal(t, int64(400), CurrentMonthTotal(expenses, today).Cents)

	daily := DailyTrend(Filter(expenses, CurrentMonth(), today))
	require.Len(t, daily, 2)
	assert.Equal(t, core.NewDate(2024, 3, 1), daily[0].Date)
	assert.Equal(t, int64(150), daily[1].Total.Cents)
}

func TestLastSevenDaysOfJanuary(t *testing.T) {
	var expenses []core.Expense
	for d := 1; d <= 31; d++ {
		expenses = append(expenses, exp(core.NewDate(2024, 1, d).String(), 100, "1", core.NewDate(2024, 1, d), core.Millis(d)))
	}
	got := Filter(expenses, LastNDays(7), core.NewDate(2024, 1, 31))
	require.Len(t, got, 7)
	assert.Equal(t, "2024-01-31", got[0].ID)
	assert.Equal(t, "2024-01-25", got[6].ID)
}

func TestGroupTotalsDescending(t *testing.T) {
	groups := GroupByDay([]core.Expense{
		exp("a", 1000, "1", core.NewDate(2024, 3, 1), 1),
		exp("b", 500, "1", core.NewDate(2024, 3, 1), 2),
		exp("c", 300, "1", core.NewDate(2024, 3, 2), 3),
	})
	require.Len(t, groups, 2)
	assert.Equal(t, "2024-03-02", groups[0].Key.String())
	assert.Equal(t, "3.00", groups[0].Total.String())
	assert.Equal(t, "15.00", groups[1].Total.String())
}
