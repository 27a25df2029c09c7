// Package stats reduces raw activity records into chart-ready
// per-sport, per-year totals. Everything here is pure: the TUI re-runs
// these functions on every filter change without re-fetching.
package stats

import (
	"sort"

	"strava-yearly/internal/strava"
)

// UnknownSport buckets activities whose sport field is missing.
// Activities are grouped here rather than dropped.
const UnknownSport = "Unknown"

// YearlyStat is the total distance and moving time for one year.
// Values stay in raw API units (meters, seconds); conversion happens
// at the presentation boundary.
type YearlyStat struct {
	Year       int
	Distance   float64 // meters
	MovingTime int     // seconds
}

// SportYearlyStats is one sport's ascending-year totals
type SportYearlyStats struct {
	Sport  string
	Yearly []YearlyStat
}

// GroupBySport splits records by sport, keeping each group in input
// order. The returned slice lists sports in first-occurrence order.
func GroupBySport(records []strava.Activity) (map[string][]strava.Activity, []string) {
	groups := make(map[string][]strava.Activity)
	var sports []string

	for _, r := range records {
		sport := r.Sport()
		if sport == "" {
			sport = UnknownSport
		}
		if _, seen := groups[sport]; !seen {
			sports = append(sports, sport)
		}
		groups[sport] = append(groups[sport], r)
	}

	return groups, sports
}

// YearlyStats buckets records by the calendar year of their local
// start date, summing distance and moving time. Years are ascending;
// a year with no records never appears.
func YearlyStats(records []strava.Activity) []YearlyStat {
	byYear := make(map[int]*YearlyStat)

	for _, r := range records {
		// The athlete's wall-clock year, not UTC; a Dec 31 23:30
		// run counts toward the year it was experienced in.
		year := r.StartDateLocal.Year()

		stat, ok := byYear[year]
		if !ok {
			stat = &YearlyStat{Year: year}
			byYear[year] = stat
		}
		stat.Distance += r.Distance
		stat.MovingTime += r.MovingTime
	}

	yearly := make([]YearlyStat, 0, len(byYear))
	for _, stat := range byYear {
		yearly = append(yearly, *stat)
	}
	sort.Slice(yearly, func(i, j int) bool { return yearly[i].Year < yearly[j].Year })

	return yearly
}

// ComputeSportYearlyStats composes GroupBySport and YearlyStats: one
// entry per distinct sport in first-occurrence order, each with its
// own ascending year sequence.
func ComputeSportYearlyStats(records []strava.Activity) []SportYearlyStats {
	groups, sports := GroupBySport(records)

	result := make([]SportYearlyStats, 0, len(sports))
	for _, sport := range sports {
		result = append(result, SportYearlyStats{
			Sport:  sport,
			Yearly: YearlyStats(groups[sport]),
		})
	}

	return result
}
