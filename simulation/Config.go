package simulation

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"golang.org/x/exp/rand"

	"github.com/SenasCodes/AA-Projeto/agent"
	"github.com/SenasCodes/AA-Projeto/agent/evolutionary"
	"github.com/SenasCodes/AA-Projeto/agent/qlearning"
	"github.com/SenasCodes/AA-Projeto/agent/reactive"
	env "github.com/SenasCodes/AA-Projeto/environment"
	"github.com/SenasCodes/AA-Projeto/environment/envconfig"
)

// AgentConfig describes one agent in a simulation configuration. The
// Params block is policy-specific and deferred to the policy's own
// Config type.
type AgentConfig struct {
	ID     string             `json:"id"`
	Type   agent.Type         `json:"tipo"`
	Start  envconfig.Position `json:"posicao_inicial"`
	Params json.RawMessage    `json:"parametros,omitempty"`
}

// Config is the JSON form of a full simulation: the run parameters,
// one environment, and the agents placed in it
type Config struct {
	TotalSteps int     `json:"passos_totais"`
	Episodes   int     `json:"num_episodios"`
	Delay      float64 `json:"delay_entre_passos"` // seconds
	Visualize  bool    `json:"usar_visualizacao"`
	Seed       uint64  `json:"seed"`
	Discount   float64 `json:"desconto"`

	Environment envconfig.Config `json:"ambiente"`
	Agents      []AgentConfig    `json:"agentes"`
}

// LoadConfig reads and parses a simulation configuration file
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// ParseConfig parses a JSON simulation configuration. Run parameters
// the file leaves out keep their defaults; keys the file names are
// taken as written, an explicit zero included.
func ParseConfig(data []byte) (Config, error) {
	c := defaultConfig()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// defaultConfig holds the run-parameter defaults applied to keys a
// configuration file does not set
func defaultConfig() Config {
	return Config{
		TotalSteps: 1000,
		Episodes:   1,
		Delay:      0.1,
		Discount:   1.0,
	}
}

// CreateEngine builds the environment and agents the Config describes
// and wires them into a ready-to-run Engine. All randomness in the run
// derives from the single configured seed.
func (c Config) CreateEngine() (*Engine, error) {
	if len(c.Agents) == 0 {
		return nil, env.NewConfigurationError("config: no agents configured")
	}

	rng := rand.New(rand.NewSource(c.Seed))
	world, err := c.Environment.Create(rng)
	if err != nil {
		return nil, err
	}

	agents := make([]agent.Agent, 0, len(c.Agents))
	for _, ac := range c.Agents {
		if ac.ID == "" {
			return nil, env.NewConfigurationError("config: agent with " +
				"empty id")
		}
		start := env.Position{X: ac.Start.X, Y: ac.Start.Y}
		if err := world.Install(ac.ID, start); err != nil {
			return nil, err
		}

		a, err := c.createAgent(ac, world, rng)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}

	settings := Settings{
		TotalSteps: c.TotalSteps,
		Episodes:   c.Episodes,
		Discount:   c.Discount,
		Delay:      time.Duration(c.Delay * float64(time.Second)),
		Visualize:  c.Visualize,
		Progress:   !c.Visualize,
	}
	return New(world, agents, settings)
}

// createAgent builds one agent from its configuration. Policy
// hyperparameters start from the policy's defaults and are overridden
// by whatever keys the parametros block names.
func (c Config) createAgent(ac AgentConfig, world env.Environment,
	rng *rand.Rand) (agent.Agent, error) {
	seed := rng.Uint64()

	switch agent.Type(strings.ToLower(string(ac.Type))) {
	case agent.Reactive:
		return reactive.New(ac.ID, seed), nil

	case agent.QLearning:
		config := qlearning.NewConfig()
		if len(ac.Params) > 0 {
			if err := json.Unmarshal(ac.Params, &config); err != nil {
				return nil, err
			}
		}
		return qlearning.New(ac.ID, world.LegalActions(), config, seed)

	case agent.Genetic:
		config := evolutionary.NewConfig()
		if len(ac.Params) > 0 {
			if err := json.Unmarshal(ac.Params, &config); err != nil {
				return nil, err
			}
		}
		return evolutionary.New(ac.ID, world.LegalActions(), c.TotalSteps,
			config, c.rolloutMaker(ac, rng.Uint64()), seed)
	}

	return nil, env.NewConfigurationError("config: no such agent type %q",
		ac.Type)
}

// rolloutMaker returns the environment factory used for evolutionary
// fitness rollouts: each call builds a fresh instance of the configured
// environment holding only the owning agent
func (c Config) rolloutMaker(ac AgentConfig,
	seed uint64) evolutionary.EnvironmentMaker {
	rng := rand.New(rand.NewSource(seed))
	return func() (env.Environment, error) {
		world, err := c.Environment.Create(rng)
		if err != nil {
			return nil, err
		}
		start := env.Position{X: ac.Start.X, Y: ac.Start.Y}
		if err := world.Install(ac.ID, start); err != nil {
			return nil, err
		}
		return world, nil
	}
}
