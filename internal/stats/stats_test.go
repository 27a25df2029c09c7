package stats

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"strava-yearly/internal/strava"
)

func act(sport string, year int, distance float64, movingTime int) strava.Activity {
	return strava.Activity{
		SportType:      sport,
		StartDateLocal: time.Date(year, 6, 15, 8, 0, 0, 0, time.UTC),
		Distance:       distance,
		MovingTime:     movingTime,
	}
}

func TestGroupBySport(t *testing.T) {
	records := []strava.Activity{
		act("Run", 2023, 1000, 300),
		act("Ride", 2023, 5000, 900),
		act("Run", 2024, 2000, 600),
		{StartDateLocal: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Distance: 100},
	}

	groups, sports := GroupBySport(records)

	wantSports := []string{"Run", "Ride", UnknownSport}
	if !reflect.DeepEqual(sports, wantSports) {
		t.Errorf("sports = %v, want %v (first-occurrence order)", sports, wantSports)
	}

	if len(groups["Run"]) != 2 {
		t.Errorf("Run group has %d records, want 2", len(groups["Run"]))
	}
	if len(groups["Ride"]) != 1 {
		t.Errorf("Ride group has %d records, want 1", len(groups["Ride"]))
	}
	if len(groups[UnknownSport]) != 1 {
		t.Errorf("missing sport not grouped under %q", UnknownSport)
	}
}

func TestGroupBySportLegacyTypeFallback(t *testing.T) {
	records := []strava.Activity{
		{Type: "Run", StartDateLocal: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	_, sports := GroupBySport(records)
	if len(sports) != 1 || sports[0] != "Run" {
		t.Errorf("sports = %v, want [Run] via legacy type field", sports)
	}
}

func TestYearlyStats(t *testing.T) {
	records := []strava.Activity{
		act("Run", 2024, 3000, 900),
		act("Run", 2022, 1000, 300),
		act("Run", 2022, 2000, 700),
	}

	got := YearlyStats(records)

	want := []YearlyStat{
		{Year: 2022, Distance: 3000, MovingTime: 1000},
		{Year: 2024, Distance: 3000, MovingTime: 900},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("YearlyStats() = %v, want %v", got, want)
	}
}

func TestYearlyStatsEmpty(t *testing.T) {
	if got := YearlyStats(nil); len(got) != 0 {
		t.Errorf("YearlyStats(nil) = %v, want empty", got)
	}
}

func TestYearlyStatsUsesLocalDate(t *testing.T) {
	// Started Dec 31 local time; UTC variant already rolled into the
	// next year. The local year wins.
	records := []strava.Activity{
		{
			SportType:      "Run",
			StartDate:      time.Date(2024, 1, 1, 4, 30, 0, 0, time.UTC),
			StartDateLocal: time.Date(2023, 12, 31, 23, 30, 0, 0, time.UTC),
			Distance:       1000,
			MovingTime:     300,
		},
	}

	got := YearlyStats(records)
	if len(got) != 1 || got[0].Year != 2023 {
		t.Errorf("YearlyStats() = %v, want single 2023 bucket", got)
	}
}

func TestComputeSportYearlyStats(t *testing.T) {
	records := []strava.Activity{
		act("Run", 2023, 1000, 300),
		act("Run", 2023, 2000, 600),
		act("Ride", 2024, 5000, 1200),
	}

	got := ComputeSportYearlyStats(records)

	want := []SportYearlyStats{
		{Sport: "Run", Yearly: []YearlyStat{{Year: 2023, Distance: 3000, MovingTime: 900}}},
		{Sport: "Ride", Yearly: []YearlyStat{{Year: 2024, Distance: 5000, MovingTime: 1200}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeSportYearlyStats() = %+v, want %+v", got, want)
	}
}

func TestComputeSportYearlyStatsOrderIndependentSums(t *testing.T) {
	records := []strava.Activity{
		act("Run", 2021, 1000, 100),
		act("Run", 2022, 2000, 200),
		act("Run", 2022, 3000, 300),
		act("Ride", 2021, 4000, 400),
		act("Ride", 2023, 5000, 500),
		act("Hike", 2022, 6000, 600),
	}

	base := ComputeSportYearlyStats(records)

	// Sums and year ordering must survive any input permutation
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]strava.Activity, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := ComputeSportYearlyStats(shuffled)

		if len(got) != len(base) {
			t.Fatalf("permutation %d: %d sports, want %d", i, len(got), len(base))
		}
		for _, want := range base {
			var found *SportYearlyStats
			for j := range got {
				if got[j].Sport == want.Sport {
					found = &got[j]
					break
				}
			}
			if found == nil {
				t.Fatalf("permutation %d: sport %q missing", i, want.Sport)
			}
			if !reflect.DeepEqual(found.Yearly, want.Yearly) {
				t.Errorf("permutation %d: %s yearly = %v, want %v", i, want.Sport, found.Yearly, want.Yearly)
			}
		}
	}
}

func TestYearlyStatsAscendingYears(t *testing.T) {
	records := []strava.Activity{
		act("Run", 2025, 1, 1),
		act("Run", 2019, 1, 1),
		act("Run", 2022, 1, 1),
		act("Run", 2020, 1, 1),
	}

	got := YearlyStats(records)
	for i := 1; i < len(got); i++ {
		if got[i].Year <= got[i-1].Year {
			t.Fatalf("years not strictly ascending: %v", got)
		}
	}
}
