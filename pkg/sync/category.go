package sync

// Strava labels cycling activities "Ride"; the training log calls the
// category "Bike". Every other supported category uses the same name on both
// sides.
var displaySport = map[string]string{
	"Run":  "Run",
	"Ride": "Bike",
	"Swim": "Swim",
}

// fallbackIcon is used when a category table has no icon configured.
const fallbackIcon = "🏃"

// DisplaySport maps a Strava sport label to its training-log category name.
// The second return value reports whether the sport is supported at all;
// unsupported sports are excluded from the sync entirely.
func DisplaySport(stravaSport string) (string, bool) {
	name, ok := displaySport[stravaSport]
	return name, ok
}
