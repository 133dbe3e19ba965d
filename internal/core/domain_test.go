package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateOfUsesCalendarDayOfLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 2024-01-31 23:30 UTC is already February 1st in UTC+9.
	instant := time.Date(2024, 1, 31, 23, 30, 0, 0, time.UTC).In(loc)
	if got := DateOf(instant).String(); got != "2024-02-01" {
		t.Fatalf("DateOf = %s, want 2024-02-01", got)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-01", "2024-03-01", true},
		{" 2024-03-01 ", "2024-03-01", true},
		{"2024-03-01T10:00:00Z", "2024-03-01", true},
		{"03/01/2024", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.want {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
		}
	}
}

func TestExpenseJSONShape(t *testing.T) {
	e := Expense{
		ID:          "e1",
		Amount:      Money{Cents: 1250},
		CategoryID:  "1",
		Description: "lunch",
		Date:        NewDate(2024, 3, 1),
		Timestamp:   Millis(1709290800000),
	}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"e1","amount":12.50,"categoryId":"1","description":"lunch","date":"2024-03-01","timestamp":1709290800000}`
	if string(b) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", b, want)
	}

	var back Expense
	if err := json.Unmarshal([]byte(`{"id":"e2","amount":3.335,"categoryId":"2","date":"2024-03-02","timestamp":1}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Amount.Cents != 334 || back.Date.String() != "2024-03-02" || back.Timestamp != 1 {
		t.Fatalf("unexpected expense: %+v", back)
	}
}

func TestValidateNewExpense(t *testing.T) {
	day := NewDate(2025, 1, 1)
	if err := ValidateNewExpense(Money{Cents: 100}, "1", day); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []struct {
		amount Money
		cat    string
		date   Date
		want   error
	}{
		{Money{Cents: 0}, "1", day, ErrInvalidAmount},
		{Money{Cents: 100}, " ", day, ErrEmptyCategory},
		{Money{Cents: 100}, "1", Date{}, ErrInvalidDate},
	}
	for i, tc := range bads {
		if err := ValidateNewExpense(tc.amount, tc.cat, tc.date); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestParseFrequency(t *testing.T) {
	for _, in := range []string{"off", "Daily", " weekly ", "MONTHLY"} {
		if _, err := ParseFrequency(in); err != nil {
			t.Fatalf("%q expected ok, got %v", in, err)
		}
	}
	if _, err := ParseFrequency("hourly"); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
}

func TestBuiltinCategoriesAreCopies(t *testing.T) {
	a := BuiltinCategories()
	a[0].Name = "changed"
	if BuiltinCategories()[0].Name != "Food" {
		t.Fatal("builtin table must not be mutable through the returned slice")
	}
	if !IsBuiltinID("6") || IsBuiltinID("7") {
		t.Fatal("unexpected builtin id lookup")
	}
}
