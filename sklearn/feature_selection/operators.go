package feature_selection

import (
	"math/rand/v2"
)

// Reproduce builds the next generation from a ranked population.
//
// Rank 0 is the anchor. Each parent from rank 1 onward is crossed with the
// anchor at a split point drawn uniformly from 1..F-1, giving the offspring
// anchor[:s]+parent[s:] and parent[:s]+anchor[s:], each mutated gene by gene.
// Parents are taken until len(ranked) offspring exist; with an odd size the
// last parent's second offspring is dropped. With a single gene there is no
// split point and the offspring are mutated copies of anchor and parent.
func Reproduce(rng *rand.Rand, ranked Population, mutationRate float64) Population {
	size := len(ranked)
	offspring := make(Population, 0, size)
	if size == 0 {
		return offspring
	}
	anchor := ranked[0]

	for p := 1; len(offspring) < size && p < size; p++ {
		a, b := crossover(anchor, ranked[p], splitPoint(rng, len(anchor)))
		mutate(rng, a, mutationRate)
		mutate(rng, b, mutationRate)

		offspring = append(offspring, a)
		if len(offspring) < size {
			offspring = append(offspring, b)
		}
	}
	return offspring
}

// splitPoint draws s uniformly from {1, ..., n-1}; 0 when n < 2.
func splitPoint(rng *rand.Rand, n int) int {
	if n < 2 {
		return 0
	}
	return 1 + rng.IntN(n-1)
}

// crossover returns anchor[:s]+parent[s:] and parent[:s]+anchor[s:] as new
// chromosomes.
func crossover(anchor, parent Chromosome, s int) (Chromosome, Chromosome) {
	a := make(Chromosome, 0, len(anchor))
	a = append(a, anchor[:s]...)
	a = append(a, parent[s:]...)

	b := make(Chromosome, 0, len(parent))
	b = append(b, parent[:s]...)
	b = append(b, anchor[s:]...)
	return a, b
}

// mutate flips each gene independently with probability rate.
func mutate(rng *rand.Rand, c Chromosome, rate float64) {
	for j := range c {
		if rng.Float64() < rate {
			c[j] = 1 - c[j]
		}
	}
}
