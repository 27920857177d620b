package classifier

import "github.com/crisisradar/crisisradar/internal/models"

// trainingExample is one labeled sentence of the bundled corpus.
type trainingExample struct {
	text       string
	crisisType models.CrisisType
	severity   models.Severity
}

// trainingCorpus is a small synthetic corpus of Indian crisis headlines
// covering every crisis type at each severity; it seeds the naive Bayes
// model when no external training data is supplied.
var trainingCorpus = []trainingExample{
	{"Heavy monsoon rains cause severe flooding in Mumbai, thousands evacuated", models.CrisisFlood, models.SeverityHigh},
	{"Chennai witnesses waterlogging after overnight rainfall", models.CrisisFlood, models.SeverityMedium},
	{"Minor flooding reported in low-lying areas of Kolkata", models.CrisisFlood, models.SeverityLow},
	{"Yamuna river overflows, Delhi on high alert", models.CrisisFlood, models.SeverityHigh},
	{"Assam faces devastating floods, villages submerged", models.CrisisFlood, models.SeverityHigh},
	{"Urban flooding disrupts normal life in Bangalore", models.CrisisFlood, models.SeverityMedium},

	{"Massive 7.2 magnitude earthquake hits northeastern India", models.CrisisEarthquake, models.SeverityHigh},
	{"Tremors felt across Delhi after 5.5 magnitude quake", models.CrisisEarthquake, models.SeverityMedium},
	{"Minor earthquake of 3.2 magnitude recorded in Himachal Pradesh", models.CrisisEarthquake, models.SeverityLow},
	{"Strong earthquake jolts Kashmir, buildings evacuated", models.CrisisEarthquake, models.SeverityHigh},
	{"Earthquake of moderate intensity shakes parts of Gujarat", models.CrisisEarthquake, models.SeverityMedium},

	{"Cyclone Yaas makes landfall in Odisha with wind speeds of 140 kmph", models.CrisisCyclone, models.SeverityHigh},
	{"Severe cyclonic storm approaching Tamil Nadu coast", models.CrisisCyclone, models.SeverityHigh},
	{"Cyclonic circulation over Bay of Bengal may intensify", models.CrisisCyclone, models.SeverityMedium},
	{"West Bengal prepares for impending cyclone", models.CrisisCyclone, models.SeverityMedium},
	{"Deep depression in Arabian Sea likely to become cyclone", models.CrisisCyclone, models.SeverityLow},

	{"Massive forest fire engulfs Uttarakhand hills, emergency declared", models.CrisisFire, models.SeverityHigh},
	{"Industrial fire in Mumbai, several injured", models.CrisisFire, models.SeverityMedium},
	{"Minor fire incident at Delhi market, no casualties", models.CrisisFire, models.SeverityLow},
	{"Wildfire spreads across Himachal Pradesh forests", models.CrisisFire, models.SeverityHigh},
	{"Fire breaks out at textile factory in Tamil Nadu", models.CrisisFire, models.SeverityMedium},

	{"Severe drought conditions prevail in Maharashtra, crops fail", models.CrisisDrought, models.SeverityHigh},
	{"Water scarcity hits rural Karnataka", models.CrisisDrought, models.SeverityMedium},
	{"Minimal rainfall causes drought-like situation in Rajasthan", models.CrisisDrought, models.SeverityMedium},
	{"Andhra Pradesh faces acute water shortage", models.CrisisDrought, models.SeverityHigh},
	{"Dry spell affects agricultural activities in Punjab", models.CrisisDrought, models.SeverityLow},

	{"Massive landslide blocks Himachal Pradesh highway", models.CrisisLandslide, models.SeverityHigh},
	{"Heavy rains trigger landslides in Kerala hills", models.CrisisLandslide, models.SeverityMedium},
	{"Minor landslide reported in Uttarakhand", models.CrisisLandslide, models.SeverityLow},
	{"Landslide warning issued for mountainous regions", models.CrisisLandslide, models.SeverityMedium},
	{"Rock fall damages vehicles in hill station", models.CrisisLandslide, models.SeverityLow},

	{"Severe thunderstorm with hail hits North India", models.CrisisStorm, models.SeverityHigh},
	{"Lightning strikes claim lives in Bihar", models.CrisisStorm, models.SeverityHigh},
	{"Dust storm engulfs Delhi NCR", models.CrisisStorm, models.SeverityMedium},
	{"Heavy thunderstorm disrupts flight operations", models.CrisisStorm, models.SeverityMedium},
	{"Light thunderstorm expected in evening", models.CrisisStorm, models.SeverityLow},

	{"Train derailment in UP claims multiple lives", models.CrisisAccident, models.SeverityHigh},
	{"Bus accident on Mumbai-Pune highway", models.CrisisAccident, models.SeverityMedium},
	{"Industrial accident at chemical plant", models.CrisisAccident, models.SeverityHigh},
	{"Building collapse in construction site", models.CrisisAccident, models.SeverityMedium},
	{"Minor road accident causes traffic jam", models.CrisisAccident, models.SeverityLow},
}
