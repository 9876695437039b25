package feature_selection

import (
	"sort"

	"github.com/YuminosukeSato/geneticfs/pkg/errors"
)

// Normalize divides each score by the sum of scores. When the sum is zero,
// negative or not finite, every fitness is 1/len(scores) and uniform is true.
func Normalize(scores []float64) (fitness []float64, sum float64, uniform bool) {
	fitness = make([]float64, len(scores))
	for _, s := range scores {
		sum += s
	}
	if !(sum > 0) || !errors.IsFinite(sum) {
		for i := range fitness {
			fitness[i] = 1 / float64(len(scores))
		}
		return fitness, sum, true
	}
	for i, s := range scores {
		fitness[i] = s / sum
	}
	return fitness, sum, false
}

// ranking is one generation after sorting.
type ranking struct {
	population Population
	scores     []float64
	fitness    []float64
	sum        float64
	uniform    bool
}

// rank normalizes scores and stable-sorts the population by score, best first.
// Equal scores keep their evaluation order. The returned population is a deep copy.
func rank(pop Population, scores []float64) ranking {
	fitness, sum, uniform := Normalize(scores)

	order := make([]int, len(pop))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	r := ranking{
		population: make(Population, len(pop)),
		scores:     make([]float64, len(pop)),
		fitness:    make([]float64, len(pop)),
		sum:        sum,
		uniform:    uniform,
	}
	for k, i := range order {
		r.population[k] = pop[i].Clone()
		r.scores[k] = scores[i]
		r.fitness[k] = fitness[i]
	}
	return r
}
