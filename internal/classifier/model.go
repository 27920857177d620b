package classifier

import (
	"math"
	"regexp"
	"strings"

	"github.com/crisisradar/crisisradar/internal/models"
)

// ModelHandle wraps an optional trained crisis-type model. A handle is
// explicitly either Loaded or Unavailable; the classifier falls back to
// the rule engine when no model is present.
type ModelHandle struct {
	nb *naiveBayes
}

// Loaded trains a naive Bayes crisis-type model from the bundled corpus
// and returns a handle backed by it.
func Loaded() *ModelHandle {
	nb := newNaiveBayes()
	for _, ex := range trainingCorpus {
		nb.observe(ex.text, ex.crisisType)
	}
	return &ModelHandle{nb: nb}
}

// Unavailable returns a handle with no model; predictions report ok=false.
func Unavailable() *ModelHandle {
	return &ModelHandle{}
}

// Available reports whether a trained model backs this handle.
func (h *ModelHandle) Available() bool {
	return h != nil && h.nb != nil
}

// PredictType returns the model's crisis-type prediction, or ok=false
// when no model is loaded or the text has no known features.
func (h *ModelHandle) PredictType(text string) (models.CrisisType, bool) {
	if !h.Available() {
		return "", false
	}
	return h.nb.predict(text)
}

// naiveBayes is a multinomial naive Bayes classifier over a bag of
// unigram and bigram features with Laplace smoothing.
type naiveBayes struct {
	docs   map[models.CrisisType]int
	counts map[models.CrisisType]map[string]int
	totals map[models.CrisisType]int
	vocab  map[string]struct{}
	nDocs  int
}

func newNaiveBayes() *naiveBayes {
	return &naiveBayes{
		docs:   make(map[models.CrisisType]int),
		counts: make(map[models.CrisisType]map[string]int),
		totals: make(map[models.CrisisType]int),
		vocab:  make(map[string]struct{}),
	}
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// features extracts lowercase unigrams plus adjacent-word bigrams.
func features(text string) []string {
	words := tokenRe.FindAllString(strings.ToLower(text), -1)
	feats := make([]string, 0, len(words)*2)
	feats = append(feats, words...)
	for i := 0; i+1 < len(words); i++ {
		feats = append(feats, words[i]+" "+words[i+1])
	}
	return feats
}

func (nb *naiveBayes) observe(text string, class models.CrisisType) {
	if nb.counts[class] == nil {
		nb.counts[class] = make(map[string]int)
	}
	nb.docs[class]++
	nb.nDocs++
	for _, f := range features(text) {
		nb.counts[class][f]++
		nb.totals[class]++
		nb.vocab[f] = struct{}{}
	}
}

func (nb *naiveBayes) predict(text string) (models.CrisisType, bool) {
	feats := features(text)
	known := 0
	for _, f := range feats {
		if _, ok := nb.vocab[f]; ok {
			known++
		}
	}
	if known == 0 {
		return "", false
	}

	vocabSize := float64(len(nb.vocab))
	best := models.CrisisType("")
	bestScore := math.Inf(-1)
	// Iterate in the fixed type order so equal scores break the same way.
	for _, class := range models.CrisisTypes {
		if nb.docs[class] == 0 {
			continue
		}
		score := math.Log(float64(nb.docs[class]) / float64(nb.nDocs))
		denom := float64(nb.totals[class]) + vocabSize
		for _, f := range feats {
			if _, ok := nb.vocab[f]; !ok {
				continue
			}
			score += math.Log((float64(nb.counts[class][f]) + 1) / denom)
		}
		if score > bestScore {
			best, bestScore = class, score
		}
	}
	return best, best != ""
}
