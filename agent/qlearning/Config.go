package qlearning

import env "github.com/SenasCodes/AA-Projeto/environment"

// Default hyperparameters, matching the values the original
// configuration files shipped with
const (
	DefaultLearningRate float64 = 0.1
	DefaultDiscount     float64 = 0.95
	DefaultEpsilon      float64 = 1.0
	DefaultEpsilonDecay float64 = 0.995
	DefaultEpsilonMin   float64 = 0.01
)

// Config represents a configuration for creating a Q-learning agent.
// The JSON keys are the parameter names recognized in configuration
// files.
type Config struct {
	LearningRate float64 `json:"taxa_aprendizagem"` // alpha
	Discount     float64 `json:"fator_desconto"`    // gamma
	Epsilon      float64 `json:"epsilon"`           // initial exploration rate
	EpsilonDecay float64 `json:"epsilon_decay"`     // decay applied per decision
	EpsilonMin   float64 `json:"epsilon_min"`       // exploration floor
	Learning     bool    `json:"modo_aprendizagem"` // false freezes the table
	ModelFile    string  `json:"ficheiro_modelo"`   // optional saved Q-table
}

// NewConfig returns a Config with the default hyperparameters in
// learning mode
func NewConfig() Config {
	return Config{
		LearningRate: DefaultLearningRate,
		Discount:     DefaultDiscount,
		Epsilon:      DefaultEpsilon,
		EpsilonDecay: DefaultEpsilonDecay,
		EpsilonMin:   DefaultEpsilonMin,
		Learning:     true,
	}
}

// Validate returns a ConfigurationError describing the first invalid
// hyperparameter, or nil when the Config is usable
func (c Config) Validate() error {
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return env.NewConfigurationError("qlearning: learning rate %v not "+
			"in (0, 1]", c.LearningRate)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return env.NewConfigurationError("qlearning: discount %v not in "+
			"[0, 1]", c.Discount)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return env.NewConfigurationError("qlearning: epsilon %v not in "+
			"[0, 1]", c.Epsilon)
	}
	if c.EpsilonDecay <= 0 || c.EpsilonDecay > 1 {
		return env.NewConfigurationError("qlearning: epsilon decay %v not "+
			"in (0, 1]", c.EpsilonDecay)
	}
	if c.EpsilonMin < 0 || c.EpsilonMin > c.Epsilon {
		return env.NewConfigurationError("qlearning: epsilon floor %v not "+
			"in [0, epsilon]", c.EpsilonMin)
	}
	return nil
}
