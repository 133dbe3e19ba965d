package aggregate

import (
	"fmt"
	"time"

	"okane/internal/cache"
	"okane/internal/core"
	"okane/internal/store"
)

// Source is the read side of the store that View depends on.
type Source interface {
	Revision() uint64
	Snapshot() store.Snapshot
}

// View memoizes derived data. Entries are keyed by the store revision, the
// parameters and the current day, so any mutation or date change produces
// fresh results without explicit invalidation. Returned slices are shared
// between callers and must be treated as read-only.
type View struct {
	src   Source
	today func() core.Date
	memo  *cache.LRUCache[any]
}

// NewView builds a view over src. today supplies the reference date used by
// period filters; size bounds the number of memoized results.
func NewView(src Source, today func() core.Date, size int) *View {
	return &View{
		src:   src,
		today: today,
		memo:  cache.NewLRUCache[any](size, 0),
	}
}

// Today returns the reference date in the view's time zone.
func Today(loc *time.Location, now func() time.Time) func() core.Date {
	return func() core.Date {
		return core.DateOf(now().In(loc))
	}
}

// Cache exposes the memo so callers can register it for sweeps or read stats.
func (v *View) Cache() *cache.LRUCache[any] {
	return v.memo
}

func (v *View) Filtered(p Period) []core.Expense {
	today := v.today()
	return memo(v, "filter|"+p.String()+"|"+today.String(), func(s store.Snapshot) []core.Expense {
		return Filter(s.Expenses, p, today)
	})
}

func (v *View) Recent() []core.Expense {
	today := v.today()
	return memo(v, "recent|"+today.String(), func(s store.Snapshot) []core.Expense {
		return Recent(s.Expenses, today)
	})
}

func (v *View) RecentByDay() []DayGroup {
	today := v.today()
	return memo(v, "recent-days|"+today.String(), func(s store.Snapshot) []DayGroup {
		return GroupByDay(Recent(s.Expenses, today))
	})
}

func (v *View) Breakdown(p Period) []Slice {
	today := v.today()
	return memo(v, "breakdown|"+p.String()+"|"+today.String(), func(s store.Snapshot) []Slice {
		return Breakdown(Filter(s.Expenses, p, today), s.Categories)
	})
}

func (v *View) DailyTrend(p Period) []DayTotal {
	today := v.today()
	return memo(v, "daily|"+p.String()+"|"+today.String(), func(s store.Snapshot) []DayTotal {
		return DailyTrend(Filter(s.Expenses, p, today))
	})
}

func (v *View) Trend(months int) []core.MonthOverview {
	today := v.today()
	key := fmt.Sprintf("trend|%d|%s", months, today)
	return memo(v, key, func(s store.Snapshot) []core.MonthOverview {
		return Trend(s.Expenses, s.Categories, today.Year(), today.Month(), months)
	})
}

func (v *View) CurrentMonthTotal() core.Money {
	today := v.today()
	return memo(v, "month-total|"+today.String(), func(s store.Snapshot) core.Money {
		return CurrentMonthTotal(s.Expenses, today)
	})
}

func memo[T any](v *View, key string, compute func(store.Snapshot) T) T {
	full := fmt.Sprintf("%d|%s", v.src.Revision(), key)
	if cached, ok := v.memo.Get(full); ok {
		if out, ok := cached.(T); ok {
			return out
		}
	}
	snap := v.src.Snapshot()
	out := compute(snap)
	v.memo.Set(fmt.Sprintf("%d|%s", snap.Revision, key), out)
	return out
}
