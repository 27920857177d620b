package classifier

import "github.com/crisisradar/crisisradar/internal/models"

// typeKeywords maps each crisis type to its detection vocabulary. The
// classification tie-break follows models.CrisisTypes order.
var typeKeywords = map[models.CrisisType][]string{
	models.CrisisFlood:      {"flood", "flooding", "inundation", "waterlogging", "deluge", "submerg", "overflow"},
	models.CrisisEarthquake: {"earthquake", "quake", "tremor", "seismic", "magnitude", "epicenter", "aftershock"},
	models.CrisisCyclone:    {"cyclone", "hurricane", "typhoon", "storm", "tempest", "wind speed", "landfall"},
	models.CrisisFire:       {"fire", "wildfire", "blaze", "burning", "arson", "flame", "smoke"},
	models.CrisisDrought:    {"drought", "water shortage", "dry spell", "arid", "scarcity", "reservoir low"},
	models.CrisisLandslide:  {"landslide", "mudslide", "rockfall", "slope failure", "hill collapse"},
	models.CrisisStorm:      {"thunderstorm", "lightning", "hailstorm", "dust storm", "squall"},
	models.CrisisAccident:   {"accident", "crash", "collision", "derailment", "explosion", "collapse", "building fall"},
}

// crisisVocabulary is the flat keyword list driving the crisis gate and
// the confidence score.
var crisisVocabulary = []string{
	"flood", "flooding", "inundation", "waterlogging", "deluge",
	"earthquake", "quake", "tremor", "seismic", "magnitude",
	"cyclone", "hurricane", "typhoon", "storm", "tempest",
	"fire", "wildfire", "blaze", "burning", "arson",
	"drought", "water shortage", "dry spell", "arid",
	"landslide", "mudslide", "rockfall", "slope failure",
	"accident", "crash", "collision", "explosion", "collapse",
	"disaster", "emergency", "calamity", "catastrophe",
	"evacuation", "rescue", "relief", "alert", "warning",
}

// emergencyWords gates borderline text into the pipeline even without a
// direct crisis keyword.
var emergencyWords = []string{
	"emergency", "alert", "warning", "evacuate", "rescue",
	"damage", "injured", "killed", "destroyed",
}

// confidenceBoostWords are the subset of emergency terms that raise the
// confidence score.
var confidenceBoostWords = []string{"emergency", "alert", "rescue", "evacuate"}

// severityKeywords is scanned high first, then medium, then low; the
// first level with a hit wins.
var severityKeywords = []struct {
	level models.Severity
	words []string
}{
	{models.SeverityHigh, []string{
		"severe", "massive", "devastating", "major", "critical", "catastrophic",
		"extreme", "deadly", "killed", "died", "death", "hundreds", "thousands",
	}},
	{models.SeverityMedium, []string{
		"moderate", "significant", "considerable", "notable", "substantial",
		"injured", "damaged", "affected",
	}},
	{models.SeverityLow, []string{
		"minor", "small", "light", "slight", "minimal", "reported", "alert", "warning",
	}},
}
