package evolutionary

import env "github.com/SenasCodes/AA-Projeto/environment"

// Default hyperparameters, as returned by NewConfig
const (
	DefaultPopulationSize  int     = 50
	DefaultMutationRate    float64 = 0.05
	DefaultCrossoverRate   float64 = 0.8
	DefaultNoveltyWeight   float64 = 0.7
	DefaultKNeighbors      int     = 15
	DefaultTournamentSize  int     = 5
	DefaultElitismRate     float64 = 0.1
	DefaultArchiveCapacity int     = 500
)

// Config implements the hyperparameters of the evolutionary policy
type Config struct {
	PopulationSize int     `json:"tamanho_populacao"`
	MutationRate   float64 `json:"taxa_mutacao"`
	CrossoverRate  float64 `json:"taxa_crossover"`
	ElitismRate    float64 `json:"taxa_elitismo"`

	// Novelty search: the weight of the novelty score in the combined
	// fitness, the number of nearest archive neighbours averaged over,
	// and the archive's capacity
	NoveltyWeight   float64 `json:"peso_novidade"`
	KNeighbors      int     `json:"k_vizinhos"`
	ArchiveCapacity int     `json:"capacidade_arquivo"`

	TournamentSize int `json:"tamanho_torneio"`

	// Learning controls whether the population evolves between
	// episodes. A frozen policy keeps replaying its best genotype.
	Learning bool `json:"-"`
}

// NewConfig returns a Config with every field at its default. Callers
// override the fields they want and may set any rate to 0 explicitly.
func NewConfig() Config {
	return Config{
		PopulationSize:  DefaultPopulationSize,
		MutationRate:    DefaultMutationRate,
		CrossoverRate:   DefaultCrossoverRate,
		ElitismRate:     DefaultElitismRate,
		NoveltyWeight:   DefaultNoveltyWeight,
		KNeighbors:      DefaultKNeighbors,
		ArchiveCapacity: DefaultArchiveCapacity,
		TournamentSize:  DefaultTournamentSize,
		Learning:        true,
	}
}

// Validate checks that every hyperparameter is in range
func (c Config) Validate() error {
	if c.PopulationSize < 2 {
		return env.NewConfigurationError("evolutionary: population size "+
			"must be at least 2, got %v", c.PopulationSize)
	}
	for name, rate := range map[string]float64{
		"taxa_mutacao":   c.MutationRate,
		"taxa_crossover": c.CrossoverRate,
		"taxa_elitismo":  c.ElitismRate,
		"peso_novidade":  c.NoveltyWeight,
	} {
		if rate < 0 || rate > 1 {
			return env.NewConfigurationError("evolutionary: %v must be in "+
				"[0, 1], got %v", name, rate)
		}
	}
	if c.KNeighbors < 1 {
		return env.NewConfigurationError("evolutionary: k_vizinhos must "+
			"be positive, got %v", c.KNeighbors)
	}
	if c.TournamentSize < 1 {
		return env.NewConfigurationError("evolutionary: tamanho_torneio "+
			"must be positive, got %v", c.TournamentSize)
	}
	if c.ArchiveCapacity < 1 {
		return env.NewConfigurationError("evolutionary: "+
			"capacidade_arquivo must be positive, got %v", c.ArchiveCapacity)
	}
	return nil
}
