package evolutionary

import (
	"golang.org/x/exp/rand"

	env "github.com/SenasCodes/AA-Projeto/environment"
)

// Genotype is a fixed-length open-loop action sequence. Gene i is the
// action taken on step i of an episode; every genotype in a population
// has the same length.
type Genotype []env.Action

// randomGenotype samples a genotype of the given length uniformly over
// the action set
func randomGenotype(length int, actions []env.Action,
	rng *rand.Rand) Genotype {
	g := make(Genotype, length)
	for i := range g {
		g[i] = actions[rng.Intn(len(actions))]
	}
	return g
}

// Clone returns an independent copy of the genotype
func (g Genotype) Clone() Genotype {
	clone := make(Genotype, len(g))
	copy(clone, g)
	return clone
}

// crossover performs one-point crossover between two parents, returning
// two children. The crossover point is never 0 or len, so each child
// always inherits from both parents.
func crossover(a, b Genotype, rng *rand.Rand) (Genotype, Genotype) {
	if len(a) < 2 {
		return a.Clone(), b.Clone()
	}
	point := 1 + rng.Intn(len(a)-1)

	first, second := a.Clone(), b.Clone()
	copy(first[point:], b[point:])
	copy(second[point:], a[point:])
	return first, second
}

// mutate resamples each gene independently with probability rate
func (g Genotype) mutate(rate float64, actions []env.Action,
	rng *rand.Rand) {
	for i := range g {
		if rng.Float64() < rate {
			g[i] = actions[rng.Intn(len(actions))]
		}
	}
}
