package feature_selection

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/YuminosukeSato/geneticfs/pkg/errors"
)

// Chromosome is a binary inclusion mask over the candidate features:
// gene j is 1 when feature j is selected.
type Chromosome []uint8

// Selected returns the indices of the set genes in ascending order.
func (c Chromosome) Selected() []int {
	idx := make([]int, 0, len(c))
	for j, g := range c {
		if g == 1 {
			idx = append(idx, j)
		}
	}
	return idx
}

// Count returns the number of set genes.
func (c Chromosome) Count() int {
	n := 0
	for _, g := range c {
		if g == 1 {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (c Chromosome) Clone() Chromosome {
	if c == nil {
		return nil
	}
	return append(Chromosome(nil), c...)
}

// String renders the genes as a bit string, e.g. "0110".
func (c Chromosome) String() string {
	var b strings.Builder
	b.Grow(len(c))
	for _, g := range c {
		b.WriteByte('0' + g)
	}
	return b.String()
}

// ParseChromosome parses a bit string produced by String.
func ParseChromosome(s string) (Chromosome, error) {
	c := make(Chromosome, len(s))
	for j := 0; j < len(s); j++ {
		switch s[j] {
		case '0':
		case '1':
			c[j] = 1
		default:
			return nil, errors.NewValueError("ParseChromosome", fmt.Sprintf("invalid gene %q at %d", s[j], j))
		}
	}
	return c, nil
}

// MarshalJSON encodes the chromosome as its bit string.
func (c Chromosome) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a bit string.
func (c *Chromosome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseChromosome(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Population is an ordered set of chromosomes. After ranking, index 0 is the
// best chromosome of the generation.
type Population []Chromosome

// Clone returns a deep copy.
func (p Population) Clone() Population {
	out := make(Population, len(p))
	for i, c := range p {
		out[i] = c.Clone()
	}
	return out
}

// Store holds the current generation, fixed at size × nFeatures for a run.
type Store struct {
	pop       Population
	size      int
	nFeatures int
}

// NewStore fills a size × nFeatures population with independent fair coin
// flips drawn from rng.
func NewStore(rng *rand.Rand, size, nFeatures int) *Store {
	pop := make(Population, size)
	for i := range pop {
		c := make(Chromosome, nFeatures)
		for j := range c {
			c[j] = uint8(rng.IntN(2))
		}
		pop[i] = c
	}
	return &Store{pop: pop, size: size, nFeatures: nFeatures}
}

// Population returns the current generation. Callers must not modify it.
func (s *Store) Population() Population {
	return s.pop
}

// Replace swaps in the next generation after checking its shape.
func (s *Store) Replace(offspring Population) error {
	if len(offspring) != s.size {
		return errors.NewConfigurationError("population_size",
			fmt.Sprintf("offspring count must equal %d", s.size), len(offspring))
	}
	for i, c := range offspring {
		if len(c) != s.nFeatures {
			return errors.NewConfigurationError("chromosome_length",
				fmt.Sprintf("offspring %d must have %d genes", i, s.nFeatures), len(c))
		}
	}
	s.pop = offspring
	return nil
}
