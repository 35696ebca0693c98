package simulation

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/SenasCodes/AA-Projeto/agent"
	"github.com/SenasCodes/AA-Projeto/agent/reactive"
	env "github.com/SenasCodes/AA-Projeto/environment"
	"github.com/SenasCodes/AA-Projeto/environment/envconfig"
)

// lighthouseConfig builds a run on an obstacle-free 10x10 lighthouse
// grid with the goal at the centre
func lighthouseConfig(agents ...AgentConfig) Config {
	return Config{
		TotalSteps: 100,
		Episodes:   3,
		Seed:       7,
		Discount:   0.95,
		Environment: envconfig.Config{
			Type: envconfig.Lighthouse,
			Params: envconfig.Params{
				Width:  10,
				Height: 10,
				Goal:   &envconfig.Position{X: 5, Y: 5},
			},
		},
		Agents: agents,
	}
}

func run(t *testing.T, config Config) *RunMetrics {
	t.Helper()
	engine, err := config.CreateEngine()
	if err != nil {
		t.Fatalf("could not create engine: %v", err)
	}
	metrics, err := engine.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if engine.State() != Terminal {
		t.Errorf("engine should end terminal, got state %v", engine.State())
	}
	return metrics
}

func TestReactiveReachesLighthouse(t *testing.T) {
	metrics := run(t, lighthouseConfig(AgentConfig{
		ID:    "reativo_1",
		Type:  agent.Reactive,
		Start: envconfig.Position{X: 0, Y: 0},
	}))

	records := metrics.Episodes("reativo_1")
	if len(records) != 3 {
		t.Fatalf("expected 3 episode records, got %v", len(records))
	}
	for _, record := range records {
		if !record.Success {
			t.Errorf("episode %v should reach the lighthouse",
				record.Episode)
		}
		// Manhattan distance from (0,0) to (5,5) is 10
		if record.Steps != 10 {
			t.Errorf("episode %v should take 10 steps, took %v",
				record.Episode, record.Steps)
		}
		if record.Return <= 0 {
			t.Errorf("episode %v return should be positive, got %v",
				record.Episode, record.Return)
		}
		if record.DiscountedReturn >= record.Return {
			t.Errorf("episode %v discounted return %v should be below the "+
				"return %v", record.Episode, record.DiscountedReturn,
				record.Return)
		}
	}
}

func TestQLearningLearnsAndDecays(t *testing.T) {
	config := lighthouseConfig(AgentConfig{
		ID:    "qlearning_1",
		Type:  agent.QLearning,
		Start: envconfig.Position{X: 0, Y: 0},
	})
	config.Episodes = 50

	metrics := run(t, config)
	records := metrics.Episodes("qlearning_1")
	if len(records) != 50 {
		t.Fatalf("expected 50 episode records, got %v", len(records))
	}

	// Learning should pay off: the final episodes outperform the first
	early, late := 0.0, 0.0
	for i := 0; i < 10; i++ {
		early += records[i].Return
		late += records[len(records)-10+i].Return
	}
	if late <= early {
		t.Errorf("mean return should improve with learning: first 10 "+
			"episodes %v, last 10 episodes %v", early/10, late/10)
	}

	stats := records[len(records)-1].Stats
	if stats == nil {
		t.Fatal("q-learning episodes should report policy stats")
	}
	if stats["states"] == 0 {
		t.Error("the Q-table should have grown during the run")
	}
	if stats["epsilon"] >= 1.0 {
		t.Errorf("epsilon should have decayed below 1, got %v",
			stats["epsilon"])
	}

	// Epsilon after n decisions is max(floor, decay^n)
	expected := math.Max(0.01, math.Pow(0.995, stats["decisions"]))
	if math.Abs(stats["epsilon"]-expected) > 1e-9 {
		t.Errorf("after %v decisions expected epsilon %v, got %v",
			stats["decisions"], expected, stats["epsilon"])
	}
}

func TestForagingRunCompletes(t *testing.T) {
	config := Config{
		TotalSteps: 300,
		Episodes:   2,
		Seed:       11,
		Discount:   0.95,
		Environment: envconfig.Config{
			Type: envconfig.Foraging,
			Params: envconfig.Params{
				Width:        8,
				Height:       8,
				NumResources: 3,
				NumNests:     1,
			},
		},
		Agents: []AgentConfig{
			{ID: "reativo_1", Type: agent.Reactive,
				Start: envconfig.Position{X: 4, Y: 4}},
		},
	}

	metrics := run(t, config)
	records := metrics.Episodes("reativo_1")
	if len(records) != 2 {
		t.Fatalf("expected 2 episode records, got %v", len(records))
	}
	for _, record := range records {
		if record.Steps == 0 || record.Steps > 300 {
			t.Errorf("episode %v steps out of range: %v", record.Episode,
				record.Steps)
		}
	}
}

func TestGeneticBestNeverRegresses(t *testing.T) {
	config := lighthouseConfig(AgentConfig{
		ID:    "genetico_1",
		Type:  agent.Genetic,
		Start: envconfig.Position{X: 0, Y: 0},
		Params: json.RawMessage(`{
			"tamanho_populacao": 8,
			"k_vizinhos": 3,
			"tamanho_torneio": 3
		}`),
	})
	config.Episodes = 4
	config.TotalSteps = 25
	config.Environment.Params.Width = 6
	config.Environment.Params.Height = 6
	config.Environment.Params.Goal = &envconfig.Position{X: 5, Y: 5}

	metrics := run(t, config)
	records := metrics.Episodes("genetico_1")
	if len(records) != 4 {
		t.Fatalf("expected 4 episode records, got %v", len(records))
	}

	previous := math.Inf(-1)
	for _, record := range records {
		if record.Stats == nil {
			t.Fatal("genetic episodes should report policy stats")
		}
		if record.Stats["population"] != 8 {
			t.Errorf("population size should stay 8, got %v",
				record.Stats["population"])
		}
		if record.Stats["best_reward"] < previous {
			t.Errorf("best reward regressed from %v to %v", previous,
				record.Stats["best_reward"])
		}
		previous = record.Stats["best_reward"]
	}
}

func TestGeneticMazeBestNeverRegresses(t *testing.T) {
	density := 0.2
	config := Config{
		TotalSteps: 30,
		Episodes:   5,
		Seed:       13,
		Discount:   0.95,
		Environment: envconfig.Config{
			Type: envconfig.Maze,
			Params: envconfig.Params{
				Width:       8,
				Height:      8,
				WallDensity: &density,
			},
		},
		Agents: []AgentConfig{
			{ID: "genetico_1", Type: agent.Genetic,
				Start: envconfig.Position{X: 0, Y: 0},
				Params: json.RawMessage(`{
					"tamanho_populacao": 10,
					"k_vizinhos": 3,
					"tamanho_torneio": 3
				}`)},
		},
	}

	metrics := run(t, config)
	records := metrics.Episodes("genetico_1")
	if len(records) != 5 {
		t.Fatalf("expected 5 episode records, got %v", len(records))
	}

	first := records[0].Stats
	if first == nil {
		t.Fatal("genetic episodes should report policy stats")
	}
	previous := math.Inf(-1)
	for _, record := range records {
		if record.Stats["best_reward"] < previous {
			t.Errorf("best reward regressed from %v to %v", previous,
				record.Stats["best_reward"])
		}
		previous = record.Stats["best_reward"]
	}
	final := records[len(records)-1].Stats
	if final["best_reward"] < first["best_reward"] {
		t.Errorf("evolution should not fall below the initial best: "+
			"started %v, ended %v", first["best_reward"],
			final["best_reward"])
	}
	if final["generation"] != float64(len(records)) {
		t.Errorf("expected one generation per episode, got %v after %v "+
			"episodes", final["generation"], len(records))
	}
}

// callOrderEnv records the order of the environment calls the engine
// makes while stepping
type callOrderEnv struct {
	*env.Grid
	calls []string
}

func newCallOrderEnv() *callOrderEnv {
	return &callOrderEnv{Grid: env.NewGrid(5, 5)}
}

func (c *callOrderEnv) ObservationFor(agentID string) (env.Observation,
	error) {
	pos, ok := c.AgentPosition(agentID)
	if !ok {
		return env.Observation{}, c.Unknown("observationFor", agentID)
	}
	c.calls = append(c.calls, "obs:"+agentID)
	return env.Observation{AgentID: agentID, Position: pos}, nil
}

func (c *callOrderEnv) Act(action env.Action, agentID string) (float64,
	error) {
	if !c.Installed(agentID) {
		return 0, c.Unknown("act", agentID)
	}
	c.calls = append(c.calls, "act:"+agentID)
	return 0, nil
}

func (c *callOrderEnv) Advance() {
	c.calls = append(c.calls, "advance")
	c.Tick()
}

func (c *callOrderEnv) LegalActions() []env.Action {
	return []env.Action{env.North, env.South, env.East, env.West, env.Wait}
}

func (c *callOrderEnv) CellAt(p env.Position) env.Cell {
	return env.CellEmpty
}

func TestStepInterleavesObservationAndAction(t *testing.T) {
	world := newCallOrderEnv()
	agents := []agent.Agent{reactive.New("a", 1), reactive.New("b", 2)}
	for i, a := range agents {
		if err := world.Install(a.ID(), env.Position{X: i, Y: 0}); err != nil {
			t.Fatalf("could not install %v: %v", a.ID(), err)
		}
	}

	engine, err := New(world, agents,
		Settings{TotalSteps: 2, Episodes: 1, Discount: 1})
	if err != nil {
		t.Fatalf("could not create engine: %v", err)
	}
	world.calls = nil
	if _, err := engine.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Within every step each agent observes immediately before acting,
	// so it sees what earlier agents did in the same step; the
	// environment advances once all agents have acted. The trailing
	// observations close the episode.
	expected := []string{
		"obs:a", "act:a", "obs:b", "act:b", "advance",
		"obs:a", "act:a", "obs:b", "act:b", "advance",
		"obs:a", "obs:b",
	}
	if len(world.calls) != len(expected) {
		t.Fatalf("expected %v environment calls, got %v:\n%v",
			len(expected), len(world.calls), world.calls)
	}
	for i, call := range expected {
		if world.calls[i] != call {
			t.Fatalf("call %v should be %v, got %v (full order %v)", i,
				call, world.calls[i], world.calls)
		}
	}
}

func TestUninstalledAgentRejected(t *testing.T) {
	world := newCallOrderEnv()

	_, err := New(world, []agent.Agent{reactive.New("ghost", 1)},
		Settings{TotalSteps: 10, Episodes: 1, Discount: 1})
	var confErr *env.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("an agent missing from the environment should be a "+
			"ConfigurationError, got %v", err)
	}
}

func TestMultiAgentActingOrder(t *testing.T) {
	metrics := run(t, lighthouseConfig(
		AgentConfig{ID: "b", Type: agent.Reactive,
			Start: envconfig.Position{X: 0, Y: 0}},
		AgentConfig{ID: "a", Type: agent.Reactive,
			Start: envconfig.Position{X: 9, Y: 9}},
	))

	ids := metrics.AgentIDs()
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Errorf("metrics should keep the configured agent order, got %v",
			ids)
	}
	for _, id := range ids {
		for _, record := range metrics.Episodes(id) {
			if !record.Success {
				t.Errorf("agent %v episode %v should succeed", id,
					record.Episode)
			}
		}
	}
}

func TestDuplicateAgentIDRejected(t *testing.T) {
	config := lighthouseConfig(
		AgentConfig{ID: "a1", Type: agent.Reactive},
		AgentConfig{ID: "a1", Type: agent.Reactive,
			Start: envconfig.Position{X: 1, Y: 1}},
	)

	_, err := config.CreateEngine()
	var confErr *env.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("duplicate agent ids should be a ConfigurationError, "+
			"got %v", err)
	}
}

func TestUnknownAgentTypeRejected(t *testing.T) {
	config := lighthouseConfig(AgentConfig{ID: "a1", Type: "telepata"})

	_, err := config.CreateEngine()
	var confErr *env.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("unknown agent types should be a ConfigurationError, "+
			"got %v", err)
	}
}

func TestEmptyConfigurationsRejected(t *testing.T) {
	config := lighthouseConfig()
	if _, err := config.CreateEngine(); err == nil {
		t.Error("a run without agents should be rejected")
	}

	config = lighthouseConfig(AgentConfig{ID: "", Type: agent.Reactive})
	if _, err := config.CreateEngine(); err == nil {
		t.Error("an empty agent id should be rejected")
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`{
		"passos_totais": 500,
		"num_episodios": 10,
		"delay_entre_passos": 0.25,
		"usar_visualizacao": true,
		"seed": 99,
		"desconto": 0.9,
		"ambiente": {"tipo": "FAROL", "parametros": {"largura": 12}},
		"agentes": [
			{"id": "a1", "tipo": "reativo",
			 "posicao_inicial": {"x": 2, "y": 3}}
		]
	}`)

	config, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if config.TotalSteps != 500 || config.Episodes != 10 {
		t.Errorf("run parameters not parsed: %+v", config)
	}
	if config.Delay != 0.25 || !config.Visualize {
		t.Errorf("pacing parameters not parsed: %+v", config)
	}
	if config.Seed != 99 || config.Discount != 0.9 {
		t.Errorf("seed or discount not parsed: %+v", config)
	}
	if config.Environment.Type != envconfig.Lighthouse {
		t.Errorf("environment not parsed: %+v", config.Environment)
	}
	if len(config.Agents) != 1 || config.Agents[0].ID != "a1" ||
		(config.Agents[0].Start != envconfig.Position{X: 2, Y: 3}) {
		t.Errorf("agents not parsed: %+v", config.Agents)
	}
}

func TestParseConfigKeepsExplicitZeros(t *testing.T) {
	config, err := ParseConfig([]byte(`{
		"desconto": 0,
		"delay_entre_passos": 0
	}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if config.Discount != 0 {
		t.Errorf("an explicit desconto of 0 should be kept, got %v",
			config.Discount)
	}
	if config.Delay != 0 {
		t.Errorf("an explicit delay of 0 should be kept, got %v",
			config.Delay)
	}
	// Keys the file omits keep their defaults
	if config.TotalSteps != 1000 || config.Episodes != 1 {
		t.Errorf("omitted run parameters should default: %+v", config)
	}

	config, err = ParseConfig([]byte(`{}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if config.Discount != 1.0 || config.Delay != 0.1 {
		t.Errorf("omitted desconto and delay should default: %+v", config)
	}
}

func TestSeededRunsAreReproducible(t *testing.T) {
	config := lighthouseConfig(AgentConfig{
		ID:    "qlearning_1",
		Type:  agent.QLearning,
		Start: envconfig.Position{X: 0, Y: 0},
	})
	config.Episodes = 5

	first := run(t, config).Episodes("qlearning_1")
	second := run(t, config).Episodes("qlearning_1")

	for i := range first {
		if first[i].Return != second[i].Return ||
			first[i].Steps != second[i].Steps {
			t.Errorf("episode %v diverged between identical seeds: "+
				"%+v vs %+v", i, first[i], second[i])
		}
	}
}
