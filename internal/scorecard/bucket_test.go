package scorecard

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"scorebook/internal/dates"
)

func TestQuarterToDateWeeklyExcludesCurrentWeek(t *testing.T) {
	// Wednesday, Oct 22 2025. Q4 starts Oct 1 (also a Wednesday).
	today := dates.MustParse("2025-10-22")
	buckets := QuarterToDateBuckets(BucketRequest{Today: today, Period: PeriodWeekly})

	want := []string{"2025-09-29", "2025-10-06", "2025-10-13"}
	if len(buckets) != len(want) {
		t.Fatalf("got %d buckets, want %d: %v", len(buckets), len(want), buckets)
	}
	for i, b := range buckets {
		if b.Start.String() != want[i] {
			t.Errorf("bucket[%d].Start = %s, want %s", i, b.Start, want[i])
		}
	}
	// The week containing today (starting Oct 20) must be absent.
	for _, b := range buckets {
		if b.Start.String() == "2025-10-20" {
			t.Fatal("bucket list includes the current incomplete week")
		}
	}
}

func TestWeeklyBucketsStartOnMondayAndAreContiguous(t *testing.T) {
	today := dates.MustParse("2025-12-10")
	buckets := QuarterToDateBuckets(BucketRequest{Today: today, Period: PeriodWeekly})
	if len(buckets) == 0 {
		t.Fatal("no buckets generated")
	}
	for i, b := range buckets {
		if b.Start.Weekday() != time.Monday {
			t.Errorf("bucket[%d] starts on %s, want Monday", i, b.Start.Weekday())
		}
		if i > 0 {
			if got := buckets[i-1].Start.DaysBetween(b.Start); got != 7 {
				t.Errorf("bucket[%d] is %d days after bucket[%d], want 7", i, got, i-1)
			}
		}
	}
}

func TestMonthlyBucketsAreContiguousCalendarMonths(t *testing.T) {
	today := dates.MustParse("2025-11-15")
	buckets := QuarterToDateBuckets(BucketRequest{
		Today:          today,
		Period:         PeriodMonthly,
		ShowHistorical: true,
		Earliest:       dates.MustParse("2025-03-20"),
	})
	if len(buckets) == 0 {
		t.Fatal("no buckets generated")
	}
	if got, want := buckets[0].Start.String(), "2025-03-01"; got != want {
		t.Fatalf("first bucket = %s, want %s", got, want)
	}
	if got, want := buckets[len(buckets)-1].Start.String(), "2025-10-01"; got != want {
		t.Fatalf("last bucket = %s, want %s (current month must be excluded)", got, want)
	}
	for i := 1; i < len(buckets); i++ {
		if got := buckets[i-1].Start.AddMonths(1); got != buckets[i].Start {
			t.Errorf("bucket[%d] = %s does not follow %s by one month", i, buckets[i].Start, buckets[i-1].Start)
		}
	}
}

func TestHistoricalWideningRequiresFlag(t *testing.T) {
	today := dates.MustParse("2025-10-22")
	earliest := dates.MustParse("2025-08-04")

	without := QuarterToDateBuckets(BucketRequest{Today: today, Period: PeriodWeekly, Earliest: earliest})
	if got, want := without[0].Start.String(), "2025-09-29"; got != want {
		t.Fatalf("without flag first bucket = %s, want %s", got, want)
	}

	with := QuarterToDateBuckets(BucketRequest{Today: today, Period: PeriodWeekly, ShowHistorical: true, Earliest: earliest})
	if got, want := with[0].Start.String(), "2025-08-04"; got != want {
		t.Fatalf("with flag first bucket = %s, want %s", got, want)
	}
}

func TestQuarterToDateTrimsToMostRecent26(t *testing.T) {
	today := dates.MustParse("2025-12-10")
	buckets := QuarterToDateBuckets(BucketRequest{
		Today:          today,
		Period:         PeriodWeekly,
		ShowHistorical: true,
		Earliest:       dates.MustParse("2025-01-06"),
	})
	if got := len(buckets); got != 26 {
		t.Fatalf("got %d buckets, want 26", got)
	}
	if got, want := buckets[len(buckets)-1].Start.String(), "2025-12-01"; got != want {
		t.Fatalf("last bucket = %s, want %s", got, want)
	}
	if got, want := buckets[0].Start.String(), "2025-06-09"; got != want {
		t.Fatalf("first bucket after trim = %s, want %s (oldest entries discarded)", got, want)
	}
}

func TestTrailingBucketsFixedCount(t *testing.T) {
	today := dates.MustParse("2025-10-22")
	buckets := TrailingBuckets(today, PeriodWeekly, 4)

	want := []string{"2025-09-22", "2025-09-29", "2025-10-06", "2025-10-13"}
	got := make([]string, len(buckets))
	for i, b := range buckets {
		got[i] = b.Start.String()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("trailing buckets mismatch (-want +got):\n%s", diff)
	}
}

func TestTrailingBucketsIndependentOfData(t *testing.T) {
	// Meeting mode derives buckets from today alone.
	today := dates.MustParse("2026-01-07")
	buckets := TrailingBuckets(today, PeriodWeekly, 2)
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	if got, want := buckets[1].Start.String(), "2025-12-29"; got != want {
		t.Fatalf("last bucket = %s, want %s", got, want)
	}
}

func TestWeekLabelFormatting(t *testing.T) {
	cases := map[string]string{
		"2025-10-20": "Oct 20 - 26",
		"2025-10-27": "Oct 27 - Nov 2",
		"2025-12-29": "Dec 29 - Jan 4",
	}
	for start, want := range cases {
		if got := weekLabel(dates.MustParse(start)); got != want {
			t.Errorf("weekLabel(%s) = %q, want %q", start, got, want)
		}
	}
}

func TestMonthAndQuarterLabels(t *testing.T) {
	if got, want := bucketLabel(dates.MustParse("2025-10-01"), PeriodMonthly), "OCT 25"; got != want {
		t.Errorf("monthly label = %q, want %q", got, want)
	}
	if got, want := bucketLabel(dates.MustParse("2026-01-01"), PeriodQuarterly), "Q1 26"; got != want {
		t.Errorf("quarterly label = %q, want %q", got, want)
	}
}

func TestReversedPreservesEntries(t *testing.T) {
	buckets := TrailingBuckets(dates.MustParse("2025-10-22"), PeriodWeekly, 3)
	rev := Reversed(buckets)
	if len(rev) != len(buckets) {
		t.Fatalf("reversed length = %d, want %d", len(rev), len(buckets))
	}
	for i := range buckets {
		if rev[i] != buckets[len(buckets)-1-i] {
			t.Fatalf("reversed[%d] = %v, want %v", i, rev[i], buckets[len(buckets)-1-i])
		}
	}
}
