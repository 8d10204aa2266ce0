// Package config loads the declarative field-mapping table that drives the
// property translation. The table is parsed once at startup into a typed,
// validated structure; category-specific behavior (cadence semantics, pace
// units) lives here as data so that new categories are additive.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/swimbikerun/trisync/pkg/strava"
)

// Derived source fields are computed by the translator rather than read off
// the activity verbatim.
const (
	FieldPace        = "pace"         // M:SS text, minutes per pace unit
	FieldAveragePace = "average_pace" // numeric, minutes per pace unit
	FieldSpeed       = "speed"        // numeric, distance units per hour
)

// SportTable is the per-category slice of the mapping table.
type SportTable struct {
	// Icon is the page glyph for this category.
	Icon string `yaml:"icon"`

	// CadenceMultiplier converts the raw cadence value into the unit the
	// destination expects. Strava reports running cadence as half the true
	// step rate, so Run uses 2; Bike (rpm) and Swim (strokes/min) use 1.
	CadenceMultiplier float64 `yaml:"cadence_multiplier"`

	// PaceDistance is the distance in meters over which pace is expressed
	// (1000 for min/km, 100 for min/100m). Zero falls back to the global
	// distance divisor.
	PaceDistance float64 `yaml:"pace_distance"`

	// PaceSuffix is appended to the pace text when the global suffix option
	// is enabled, e.g. "/km".
	PaceSuffix string `yaml:"pace_suffix"`

	// Fields maps source field names to destination property names.
	Fields map[string]string `yaml:"fields"`
}

// SortedFields returns the mapped source field names in stable order.
func (s *SportTable) SortedFields() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options holds global numeric conversion options.
type Options struct {
	DistanceUnitDivisor float64 `yaml:"distance_unit_divisor"`
	TimeUnitDivisor     float64 `yaml:"time_unit_divisor"`
	IncludePaceSuffix   bool    `yaml:"include_pace_suffix"`
}

// PlannedSchema names the properties of the planned-workout collection.
type PlannedSchema struct {
	SportProperty   string `yaml:"sport_property"`
	DateProperty    string `yaml:"date_property"`
	StatusProperty  string `yaml:"status_property"`
	DoneValue       string `yaml:"done_value"`
	EntriesProperty string `yaml:"entries_property"`
}

// ActivitySchema names the properties of the activity-log collection.
type ActivitySchema struct {
	// PlannedProperty is the relation back to the matched planned workout.
	PlannedProperty string `yaml:"planned_property"`

	// SportRelationProperty, when set together with a sports lookup
	// collection, attaches a relation to the category reference page.
	SportRelationProperty string `yaml:"sport_relation_property"`

	// LookupTitleProperty is the title property of the sports lookup
	// collection, used to resolve category pages by name.
	LookupTitleProperty string `yaml:"lookup_title_property"`
}

// SyncOptions tunes the reconciliation pass.
type SyncOptions struct {
	ToleranceDays int `yaml:"tolerance_days"`

	// UpdateExisting switches the engine from create-only to reconcile mode:
	// records that already exist are re-translated and updated instead of
	// skipped. Off by default to preserve historical entries verbatim.
	UpdateExisting bool `yaml:"update_existing"`
}

// Table is the full mapping configuration.
type Table struct {
	Common   map[string]string     `yaml:"common"`
	Sports   map[string]SportTable `yaml:"sports"`
	Options  Options               `yaml:"options"`
	Planned  PlannedSchema         `yaml:"planned"`
	Activity ActivitySchema        `yaml:"activity"`
	Sync     SyncOptions           `yaml:"sync"`
}

// commonFields are the only source fields valid in the common table.
var commonFields = map[string]bool{
	"name":       true,
	"id":         true,
	"start_date": true,
}

// Default returns a table pre-populated with the defaults YAML loading
// overlays.
func Default() *Table {
	return &Table{
		Options: Options{
			DistanceUnitDivisor: 1000,
			TimeUnitDivisor:     60,
			IncludePaceSuffix:   true,
		},
		Planned: PlannedSchema{
			SportProperty:   "Sport relation",
			DateProperty:    "Date",
			StatusProperty:  "Selection status",
			DoneValue:       "Done",
			EntriesProperty: "Training Log Entries",
		},
		Activity: ActivitySchema{
			PlannedProperty:     "Linked Planned Workout",
			LookupTitleProperty: "Name",
		},
		Sync: SyncOptions{
			ToleranceDays: 3,
		},
	}
}

// Load reads and validates the mapping table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping table: %w", err)
	}

	table := Default()
	if err := yaml.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("parse mapping table %s: %w", path, err)
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mapping table %s: %w", path, err)
	}
	return table, nil
}

// Validate checks the table for structural problems that would otherwise only
// surface mid-run.
func (t *Table) Validate() error {
	var problems []string

	if t.Common["name"] == "" {
		problems = append(problems, "common.name mapping is required (title property)")
	}
	if t.Common["id"] == "" {
		problems = append(problems, "common.id mapping is required (duplicate detection)")
	}
	for field := range t.Common {
		if !commonFields[field] {
			problems = append(problems, fmt.Sprintf("common.%s: unknown source field", field))
		}
	}

	if len(t.Sports) == 0 {
		problems = append(problems, "at least one sport table is required")
	}

	known := map[string]bool{
		FieldPace:        true,
		FieldAveragePace: true,
		FieldSpeed:       true,
	}
	for _, name := range strava.KnownMetrics() {
		known[name] = true
	}

	for sport, st := range t.Sports {
		for field, target := range st.Fields {
			if !known[field] {
				problems = append(problems, fmt.Sprintf("sports.%s.fields.%s: unknown source field", sport, field))
			}
			if target == "" {
				problems = append(problems, fmt.Sprintf("sports.%s.fields.%s: empty destination property", sport, field))
			}
		}
		if st.CadenceMultiplier < 0 {
			problems = append(problems, fmt.Sprintf("sports.%s.cadence_multiplier: must not be negative", sport))
		}
	}

	if t.Options.DistanceUnitDivisor <= 0 {
		problems = append(problems, "options.distance_unit_divisor: must be positive")
	}
	if t.Options.TimeUnitDivisor <= 0 {
		problems = append(problems, "options.time_unit_divisor: must be positive")
	}
	if t.Sync.ToleranceDays < 0 {
		problems = append(problems, "sync.tolerance_days: must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// Sport returns the table for a display category. CadenceMultiplier and
// PaceDistance have their fallbacks applied.
func (t *Table) Sport(display string) (SportTable, bool) {
	st, ok := t.Sports[display]
	if !ok {
		return SportTable{}, false
	}
	if st.CadenceMultiplier == 0 {
		st.CadenceMultiplier = 1
	}
	if st.PaceDistance == 0 {
		st.PaceDistance = t.Options.DistanceUnitDivisor
	}
	return st, true
}
