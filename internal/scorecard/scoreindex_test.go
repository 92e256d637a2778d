package scorecard

import (
	"testing"

	"scorebook/internal/dates"
)

func TestScoreIndexZeroIsNotNoData(t *testing.T) {
	idx := NewScoreIndex()
	day := dates.MustParse("2025-10-20")
	idx.Set("m1", day, Observation{Value: Float(0)})

	obs, ok := idx.Get("m1", day)
	if !ok {
		t.Fatal("observation with value 0 not found")
	}
	if obs.Value == nil || *obs.Value != 0 {
		t.Fatalf("value = %v, want 0", obs.Value)
	}
	if got := FormatValue(obs.Value, ValueNumber); got != "0" {
		t.Fatalf("formatted zero = %q, want \"0\"", got)
	}

	if _, ok := idx.Get("m1", day.AddDays(1)); ok {
		t.Fatal("found observation on a date with no data")
	}
	if got := FormatValue(nil, ValueNumber); got != "-" {
		t.Fatalf("formatted absent = %q, want \"-\"", got)
	}
}

func TestValuesInWindowOrderedAndInclusive(t *testing.T) {
	idx := NewScoreIndex()
	idx.Set("m1", dates.MustParse("2025-10-27"), Observation{Value: Float(3)})
	idx.Set("m1", dates.MustParse("2025-10-20"), Observation{Value: Float(1)})
	idx.Set("m1", dates.MustParse("2025-10-23"), Observation{Value: Float(2)})
	idx.Set("m1", dates.MustParse("2025-11-01"), Observation{Value: Float(9)})

	values := idx.ValuesInWindow("m1", dates.MustParse("2025-10-20"), dates.MustParse("2025-10-27"))
	if len(values) != 3 {
		t.Fatalf("got %d values, want 3", len(values))
	}
	for i, want := range []float64{1, 2, 3} {
		if *values[i].Obs.Value != want {
			t.Errorf("values[%d] = %v, want %v", i, *values[i].Obs.Value, want)
		}
	}
}

func TestBucketValueExactMode(t *testing.T) {
	idx := NewScoreIndex()
	idx.Set("m1", dates.MustParse("2025-10-21"), Observation{Value: Float(10)})

	start := dates.MustParse("2025-10-20")
	if _, ok := idx.BucketValue("m1", start, start.AddDays(6), BucketExact); ok {
		t.Fatal("exact mode matched an observation not on the bucket start")
	}

	idx.Set("m1", start, Observation{Value: Float(7)})
	obs, ok := idx.BucketValue("m1", start, start.AddDays(6), BucketExact)
	if !ok || *obs.Value != 7 {
		t.Fatalf("exact mode = %v/%v, want 7/true", obs.Value, ok)
	}
}

func TestBucketValueLatestInRangeWins(t *testing.T) {
	// Two observations inside the week starting Oct 20: the later date
	// wins; the bucket value is not a sum or an average.
	idx := NewScoreIndex()
	idx.Set("m1", dates.MustParse("2025-10-21"), Observation{Value: Float(10)})
	idx.Set("m1", dates.MustParse("2025-10-23"), Observation{Value: Float(15)})

	start := dates.MustParse("2025-10-20")
	obs, ok := idx.BucketValue("m1", start, start.AddDays(6), BucketLatestInRange)
	if !ok {
		t.Fatal("no bucket value found")
	}
	if got := *obs.Value; got != 15 {
		t.Fatalf("bucket value = %v, want 15 (latest date wins)", got)
	}
}

func TestBucketValueLatestIgnoresOutOfRange(t *testing.T) {
	idx := NewScoreIndex()
	idx.Set("m1", dates.MustParse("2025-10-19"), Observation{Value: Float(1)})
	idx.Set("m1", dates.MustParse("2025-10-27"), Observation{Value: Float(2)})

	start := dates.MustParse("2025-10-20")
	if _, ok := idx.BucketValue("m1", start, start.AddDays(6), BucketLatestInRange); ok {
		t.Fatal("latest-in-range matched observations outside the bucket span")
	}
}
