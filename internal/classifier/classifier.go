// Package classifier decides whether text describes a crisis, assigns a
// crisis type and severity, and scores confidence. Classification runs
// through a trained model when one is available and falls back to the
// keyword rule engine otherwise; both paths honor the same contract and
// never fail outright.
package classifier

import (
	"sort"
	"strings"

	"github.com/crisisradar/crisisradar/internal/models"
	"github.com/crisisradar/crisisradar/pkg/utils"
)

// Result is the outcome of classifying one text.
type Result struct {
	CrisisType models.CrisisType
	Severity   models.Severity
	Confidence float64
	Keywords   []string
}

// Classifier classifies crisis text. The zero value is not usable; call New.
type Classifier struct {
	model *ModelHandle
}

// New returns a classifier backed by the given model handle. Pass
// Unavailable() to force the rule engine.
func New(model *ModelHandle) *Classifier {
	if model == nil {
		model = Unavailable()
	}
	return &Classifier{model: model}
}

// IsCrisisRelated reports whether lowercase text contains crisis or
// emergency vocabulary. India relevance is the caller's concern.
func IsCrisisRelated(text string) bool {
	text = strings.ToLower(text)
	return utils.ContainsAny(text, crisisVocabulary) || utils.ContainsAny(text, emergencyWords)
}

// Classify assigns a crisis type, severity, confidence and the matched
// keywords. Text is lowercased internally.
func (c *Classifier) Classify(text string) Result {
	lower := strings.ToLower(text)

	crisisType, typeHits := c.classifyType(lower)
	severity, severityHits := classifySeverity(lower)

	// The numeric scorer only ever raises severity.
	if floor := ScoreSeverity(lower); floor.Rank() > severity.Rank() {
		severity = floor
	}

	keywords := append(typeHits, severityHits...)
	sort.Strings(keywords)
	keywords = dedupe(keywords)

	return Result{
		CrisisType: crisisType,
		Severity:   severity,
		Confidence: confidence(lower),
		Keywords:   keywords,
	}
}

func (c *Classifier) classifyType(lower string) (models.CrisisType, []string) {
	if predicted, ok := c.model.PredictType(lower); ok {
		_, hits := utils.CountMatches(lower, typeKeywords[predicted])
		return predicted, hits
	}

	best := models.CrisisAccident
	bestCount := 0
	var bestHits []string
	for _, ct := range models.CrisisTypes {
		count, hits := utils.CountMatches(lower, typeKeywords[ct])
		if count > bestCount {
			best, bestCount, bestHits = ct, count, hits
		}
	}
	return best, bestHits
}

func classifySeverity(lower string) (models.Severity, []string) {
	for _, level := range severityKeywords {
		if count, hits := utils.CountMatches(lower, level.words); count > 0 {
			return level.level, hits
		}
	}
	return models.SeverityLow, nil
}

// confidence starts at a 0.4 floor, adds 0.15 per crisis keyword and 0.1
// per emergency indicator, clamped to 1.0.
func confidence(lower string) float64 {
	keywordHits, _ := utils.CountMatches(lower, crisisVocabulary)
	emergencyHits, _ := utils.CountMatches(lower, confidenceBoostWords)
	score := 0.4 + 0.15*float64(keywordHits) + 0.1*float64(emergencyHits)
	if score > 1.0 {
		return 1.0
	}
	return score
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
