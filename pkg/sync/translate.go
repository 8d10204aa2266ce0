package sync

import (
	"fmt"
	"math"

	"github.com/swimbikerun/trisync/pkg/config"
	"github.com/swimbikerun/trisync/pkg/notion"
	"github.com/swimbikerun/trisync/pkg/strava"
)

// untitledFallback keeps the title property populated when Strava returns an
// activity without a name.
const untitledFallback = "Untitled Activity"

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
)

// Translate converts one activity into destination properties plus the page
// icon, driven entirely by the category's mapping table. Source fields absent
// from the activity are left out of the result; derived fields with a zero
// denominator are left out as well rather than emitted as garbage.
//
// Translate is pure: it never touches the store. Relations (planned workout,
// category page) are attached by the orchestrator.
func Translate(a *strava.Activity, sport config.SportTable, table *config.Table) (notion.Properties, string) {
	props := notion.Properties{}

	name := a.Name
	if name == "" {
		name = untitledFallback
	}
	props[table.Common["name"]] = notion.NewTitle(name)
	props[table.Common["id"]] = notion.NewNumber(float64(a.ID))

	if target := table.Common["start_date"]; target != "" && a.StartDate != "" {
		props[target] = notion.NewDate(a.StartDate)
	}

	for _, field := range sport.SortedFields() {
		target := sport.Fields[field]
		if value, ok := translateField(a, field, sport, table.Options); ok {
			props[target] = value
		}
	}

	icon := sport.Icon
	if icon == "" {
		icon = fallbackIcon
	}
	return props, icon
}

func translateField(a *strava.Activity, field string, sport config.SportTable, opts config.Options) (notion.PropertyValue, bool) {
	switch field {
	case config.FieldPace:
		pace, ok := paceMinutes(a, sport.PaceDistance)
		if !ok {
			return notion.PropertyValue{}, false
		}
		return notion.NewRichText(formatPace(pace, sport.PaceSuffix, opts.IncludePaceSuffix)), true

	case config.FieldAveragePace:
		pace, ok := paceMinutes(a, sport.PaceDistance)
		if !ok {
			return notion.PropertyValue{}, false
		}
		return notion.NewNumber(round(pace, 2)), true

	case config.FieldSpeed:
		distance, dok := a.Metric("distance")
		moving, mok := a.Metric("moving_time")
		if !dok || !mok || moving <= 0 {
			return notion.PropertyValue{}, false
		}
		speed := (distance / opts.DistanceUnitDivisor) / (moving / secondsPerHour)
		return notion.NewNumber(round(speed, 2)), true
	}

	value, ok := a.Metric(field)
	if !ok {
		return notion.PropertyValue{}, false
	}

	switch field {
	case "moving_time", "elapsed_time":
		return notion.NewNumber(round(value/opts.TimeUnitDivisor, 1)), true
	case "distance":
		return notion.NewNumber(round(value/opts.DistanceUnitDivisor, 2)), true
	case "average_cadence":
		return notion.NewNumber(round(value*sport.CadenceMultiplier, 0)), true
	default:
		return notion.NewNumber(round(value, 0)), true
	}
}

// paceMinutes computes minutes per pace unit (e.g. min/km, min/100m).
func paceMinutes(a *strava.Activity, paceDistance float64) (float64, bool) {
	distance, dok := a.Metric("distance")
	moving, mok := a.Metric("moving_time")
	if !dok || !mok || distance <= 0 || paceDistance <= 0 {
		return 0, false
	}
	return (moving / secondsPerMinute) / (distance / paceDistance), true
}

// formatPace renders decimal minutes as M:SS text. Seconds truncate, they do
// not round: 4.999 min is 4:59.
func formatPace(pace float64, suffix string, includeSuffix bool) string {
	minutes := int(pace)
	seconds := int((pace - float64(minutes)) * 60)
	text := fmt.Sprintf("%d:%02d", minutes, seconds)
	if includeSuffix && suffix != "" {
		text += " " + suffix
	}
	return text
}

func round(value float64, precision int) float64 {
	factor := math.Pow(10, float64(precision))
	return math.Round(value*factor) / factor
}
