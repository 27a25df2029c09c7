package strava

import "time"

// Activity is one Strava activity as returned by /athlete/activities.
// Activities are read-only value data; nothing here is ever written
// back to Strava.
type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"` // legacy sport field
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"`
	Timezone           string    `json:"timezone"`
	Distance           float64   `json:"distance"`             // meters
	MovingTime         int       `json:"moving_time"`          // seconds
	ElapsedTime        int       `json:"elapsed_time"`         // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"` // meters
}

// Sport returns the activity's sport, preferring the newer sport_type
// field over the legacy type field. Empty when Strava sent neither.
func (a Activity) Sport() string {
	if a.SportType != "" {
		return a.SportType
	}
	return a.Type
}
