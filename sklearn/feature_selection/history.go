package feature_selection

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// GenerationRecord is the ranked state of one generation: chromosomes sorted
// by score, best first, with their scores and normalized fitness.
type GenerationRecord struct {
	Generation      int           `json:"generation"`
	Population      Population    `json:"population"`
	Scores          []float64     `json:"scores"`
	Fitness         []float64     `json:"fitness"`
	Elapsed         time.Duration `json:"elapsed"`
	UniformFallback bool          `json:"uniform_fallback,omitempty"`
}

// Best returns the rank-0 chromosome.
func (r GenerationRecord) Best() Chromosome {
	if len(r.Population) == 0 {
		return nil
	}
	return r.Population[0]
}

// BestScore returns the score of the rank-0 chromosome.
func (r GenerationRecord) BestScore() float64 {
	if len(r.Scores) == 0 {
		return 0
	}
	return r.Scores[0]
}

// MeanScore returns the mean score of the generation.
func (r GenerationRecord) MeanScore() float64 {
	if len(r.Scores) == 0 {
		return 0
	}
	return stat.Mean(r.Scores, nil)
}

// History holds one record per generation in order.
type History []GenerationRecord

// Record returns the record of the 1-indexed generation gen.
func (h History) Record(gen int) (GenerationRecord, bool) {
	if gen < 1 || gen > len(h) {
		return GenerationRecord{}, false
	}
	return h[gen-1], true
}

// Last returns the final generation's record.
func (h History) Last() (GenerationRecord, bool) {
	return h.Record(len(h))
}

// MeanScores returns the per-generation mean score series.
func (h History) MeanScores() []float64 {
	out := make([]float64, len(h))
	for i, r := range h {
		out[i] = r.MeanScore()
	}
	return out
}

// BestScores returns the per-generation best score series.
func (h History) BestScores() []float64 {
	out := make([]float64, len(h))
	for i, r := range h {
		out[i] = r.BestScore()
	}
	return out
}
