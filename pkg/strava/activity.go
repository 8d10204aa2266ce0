package strava

// Activity is a summary activity as returned by the Strava API. Optional
// performance metrics use pointers so that an absent field can be told apart
// from a genuine zero.
type Activity struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	SportType string `json:"sport_type"`
	StartDate string `json:"start_date"`

	MovingTime         *float64 `json:"moving_time,omitempty"`
	ElapsedTime        *float64 `json:"elapsed_time,omitempty"`
	Distance           *float64 `json:"distance,omitempty"`
	TotalElevationGain *float64 `json:"total_elevation_gain,omitempty"`
	AverageHeartrate   *float64 `json:"average_heartrate,omitempty"`
	MaxHeartrate       *float64 `json:"max_heartrate,omitempty"`
	AverageCadence     *float64 `json:"average_cadence,omitempty"`
	AverageWatts       *float64 `json:"average_watts,omitempty"`
	MaxWatts           *float64 `json:"max_watts,omitempty"`
	Calories           *float64 `json:"calories,omitempty"`
	SufferScore        *float64 `json:"suffer_score,omitempty"`
}

// Sport returns the sport label, preferring the newer sport_type field over
// the legacy type field.
func (a *Activity) Sport() string {
	if a.SportType != "" {
		return a.SportType
	}
	return a.Type
}

// Metric looks up a numeric metric by its Strava field name. The second
// return value reports whether the metric was present on the activity.
// This is what lets the field-mapping table stay declarative: the translator
// resolves configured source fields by name instead of branching per field.
func (a *Activity) Metric(field string) (float64, bool) {
	var p *float64
	switch field {
	case "moving_time":
		p = a.MovingTime
	case "elapsed_time":
		p = a.ElapsedTime
	case "distance":
		p = a.Distance
	case "total_elevation_gain":
		p = a.TotalElevationGain
	case "average_heartrate":
		p = a.AverageHeartrate
	case "max_heartrate":
		p = a.MaxHeartrate
	case "average_cadence":
		p = a.AverageCadence
	case "average_watts":
		p = a.AverageWatts
	case "max_watts":
		p = a.MaxWatts
	case "calories":
		p = a.Calories
	case "suffer_score":
		p = a.SufferScore
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// KnownMetrics lists every source field name Metric can resolve. The mapping
// table validator uses it to reject typos at startup.
func KnownMetrics() []string {
	return []string{
		"moving_time",
		"elapsed_time",
		"distance",
		"total_elevation_gain",
		"average_heartrate",
		"max_heartrate",
		"average_cadence",
		"average_watts",
		"max_watts",
		"calories",
		"suffer_score",
	}
}
