package classifier

import (
	"regexp"
	"strconv"

	"github.com/crisisradar/crisisradar/internal/models"
)

// figurePatterns pull out the numbers that indicate impact scale:
// casualties, displaced people, damaged structures, quake magnitude,
// wind speed and rainfall. The first capture group is the number.
var figurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*(?:dead|killed|died|deaths?)`),
	regexp.MustCompile(`(\d+)\s*(?:injured|hurt|wounded)`),
	regexp.MustCompile(`(\d+)\s*(?:missing|displaced|evacuated)`),
	regexp.MustCompile(`(\d+)\s*(?:houses?|buildings?|homes?)\s*(?:destroyed|damaged|collapsed)`),
	regexp.MustCompile(`magnitude\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(\d+)\s*(?:kmph|km/h|mph)\s*(?:wind|speed)`),
	regexp.MustCompile(`(\d+)\s*(?:mm|cm|inches?)\s*(?:rain|rainfall|precipitation)`),
}

// ExtractFigures returns every impact figure found in lowercase text.
func ExtractFigures(lower string) []float64 {
	var out []float64
	for _, re := range figurePatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				out = append(out, v)
			}
		}
	}
	return out
}

// ScoreSeverity derives a severity floor from impact figures: a number
// above 100 is high impact, above 50 at least medium. Returns the zero
// Severity when no figures are present, which ranks below every level.
func ScoreSeverity(lower string) models.Severity {
	maxFigure := 0.0
	for _, v := range ExtractFigures(lower) {
		if v > maxFigure {
			maxFigure = v
		}
	}
	switch {
	case maxFigure > 100:
		return models.SeverityHigh
	case maxFigure > 50:
		return models.SeverityMedium
	}
	return ""
}
