package filter

import (
	"testing"
	"time"
)

var parserNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestParseDateRangeSameMonth(t *testing.T) {
	from, to, err := parseDateRangeAt("Mar 1-15", parserNow)
	if err != nil {
		t.Fatalf("parseDateRangeAt: %v", err)
	}
	wantFrom := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, 3, 15, 23, 59, 59, 0, time.UTC)
	if !from.Equal(wantFrom) || !to.Equal(wantTo) {
		t.Errorf("range = %v..%v, want %v..%v", from, to, wantFrom, wantTo)
	}
}

func TestParseDateRangeCrossMonth(t *testing.T) {
	from, to, err := parseDateRangeAt("March 20 - April 5", parserNow)
	if err != nil {
		t.Fatalf("parseDateRangeAt: %v", err)
	}
	if from.Month() != time.March || to.Month() != time.April {
		t.Errorf("range = %v..%v", from, to)
	}
	if from.Year() != 2025 || to.Year() != 2025 {
		t.Errorf("years = %d..%d, want 2025..2025", from.Year(), to.Year())
	}
}

func TestParseDateRangeWholeMonth(t *testing.T) {
	from, to, err := parseDateRangeAt("April", parserNow)
	if err != nil {
		t.Fatalf("parseDateRangeAt: %v", err)
	}
	if from.Day() != 1 || to.Day() != 30 {
		t.Errorf("range = %v..%v, want the whole of April", from, to)
	}
}

func TestParseDateRangePastMonthRollsToNextYear(t *testing.T) {
	from, _, err := parseDateRangeAt("January", parserNow)
	if err != nil {
		t.Fatalf("parseDateRangeAt: %v", err)
	}
	if from.Year() != 2026 {
		t.Errorf("year = %d, want 2026", from.Year())
	}
}

func TestParseDateRangeWrapsPastDecember(t *testing.T) {
	from, to, err := parseDateRangeAt("Dec 20 - Jan 5", parserNow)
	if err != nil {
		t.Fatalf("parseDateRangeAt: %v", err)
	}
	if to.Year() != from.Year()+1 {
		t.Errorf("range = %v..%v, want the end in the following year", from, to)
	}
}

func TestParseDateRangeInvalid(t *testing.T) {
	for _, input := range []string{"", "not a range", "Mar 32-33", "Mar 15-1"} {
		if _, _, err := parseDateRangeAt(input, parserNow); err == nil {
			t.Errorf("parseDateRangeAt(%q) did not fail", input)
		}
	}
}
