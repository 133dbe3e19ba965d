package aggregate

import (
	"errors"
	"fmt"

	"okane/internal/core"
)

type PeriodKind string

const (
	KindLastNDays    PeriodKind = "lastNDays"
	KindCurrentMonth PeriodKind = "currentMonth"
	KindCustomRange  PeriodKind = "customRange"
)

var ErrInvalidPeriod = errors.New("invalid period")

// Period selects the time window of a filtered view.
type Period struct {
	Kind  PeriodKind
	Days  int       // KindLastNDays
	Start core.Date // KindCustomRange, inclusive
	End   core.Date // KindCustomRange, inclusive
}

// LastNDays covers today and the n-1 calendar days before it.
func LastNDays(n int) Period {
	return Period{Kind: KindLastNDays, Days: n}
}

func CurrentMonth() Period {
	return Period{Kind: KindCurrentMonth}
}

func CustomRange(start, end core.Date) Period {
	return Period{Kind: KindCustomRange, Start: start, End: end}
}

func (p Period) Validate() error {
	switch p.Kind {
	case KindLastNDays:
		if p.Days < 1 {
			return fmt.Errorf("%w: last %d days", ErrInvalidPeriod, p.Days)
		}
	case KindCurrentMonth:
	case KindCustomRange:
		if p.Start.IsZero() || p.End.IsZero() {
			return fmt.Errorf("%w: custom range needs both bounds", ErrInvalidPeriod)
		}
		if p.End.Before(p.Start) {
			return fmt.Errorf("%w: range ends before it starts", ErrInvalidPeriod)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPeriod, p.Kind)
	}
	return nil
}

// Contains reports whether d falls in the period relative to today.
func (p Period) Contains(d, today core.Date) bool {
	switch p.Kind {
	case KindLastNDays:
		n := p.Days
		if n < 1 {
			n = 1
		}
		return !d.Before(today.AddDays(-(n - 1)))
	case KindCurrentMonth:
		return d.SameMonth(today)
	case KindCustomRange:
		if p.Start.IsZero() || p.End.IsZero() {
			return false
		}
		return !d.Before(p.Start) && !d.After(p.End)
	default:
		return false
	}
}

// String is stable and used as part of memoization keys.
func (p Period) String() string {
	switch p.Kind {
	case KindLastNDays:
		return fmt.Sprintf("last%dd", p.Days)
	case KindCustomRange:
		return fmt.Sprintf("%s..%s", p.Start, p.End)
	default:
		return string(p.Kind)
	}
}
