package tui

import (
	"fmt"

	"strava-yearly/internal/config"
)

const (
	metersPerMile = 1609.34
	metersPerKm   = 1000.0
	secondsPerHour = 3600.0
)

// Units converts raw API values (meters, seconds) to the user's
// preferred display units. The aggregation engine stays unit-agnostic;
// this is the only place conversion happens.
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// DistanceValue converts meters to the preferred unit
func (u Units) DistanceValue(meters float64) float64 {
	if u.cfg.DistanceUnit == "mi" {
		return meters / metersPerMile
	}
	return meters / metersPerKm
}

// FormatDistance formats a distance in meters with its unit label
func (u Units) FormatDistance(meters float64) string {
	return fmt.Sprintf("%.1f %s", u.DistanceValue(meters), u.DistanceLabel())
}

// HoursValue converts seconds to hours
func (u Units) HoursValue(seconds int) float64 {
	return float64(seconds) / secondsPerHour
}

// FormatHours formats a duration in seconds as hours
func (u Units) FormatHours(seconds int) string {
	return fmt.Sprintf("%.1f h", u.HoursValue(seconds))
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.cfg.DistanceUnit == "mi" {
		return "mi"
	}
	return "km"
}
