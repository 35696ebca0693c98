// Package simulation implements the discrete-time simulation engine:
// it owns one environment and a set of agents and drives them through
// episodes of a fixed protocol. On every step each agent, in its
// configured order, observes the current state of the environment,
// including the effects of the agents that already acted this tick,
// then selects and applies one action; once all agents have acted the
// environment advances. An episode ends when the environment reports
// terminal state or the step cap is reached.
package simulation

import (
	"time"

	"github.com/SenasCodes/AA-Projeto/agent"
	env "github.com/SenasCodes/AA-Projeto/environment"
	"github.com/SenasCodes/AA-Projeto/simulation/tracker"
	"github.com/SenasCodes/AA-Projeto/timestep"
	"github.com/SenasCodes/AA-Projeto/utils/progressbar"
)

// State is the engine's episode-cycle state. Every episode moves
// through Reset, Running, and Terminal in that order.
type State int

const (
	// Reset means the next episode has not started stepping yet
	Reset State = iota

	// Running means an episode is in progress
	Running

	// Terminal means the last stepped episode has finished
	Terminal
)

func (s State) String() string {
	switch s {
	case Reset:
		return "Reset"
	case Running:
		return "Running"
	}
	return "Terminal"
}

// Settings holds the engine's run parameters
type Settings struct {
	TotalSteps int           // step cap per episode
	Episodes   int           // number of episodes to run
	Discount   float64       // discount for the discounted-return metric
	Delay      time.Duration // pause between steps when visualizing
	Visualize  bool          // render frames and pace the run
	Progress   bool          // display a progress bar over episodes
}

// A Visualizer renders one frame of the running simulation
type Visualizer interface {
	Frame(world env.Environment, episode, step int) error
}

// Engine runs a multi-agent simulation
type Engine struct {
	settings Settings
	world    env.Environment
	agents   []agent.Agent

	state    State
	metrics  *RunMetrics
	trackers []tracker.Tracker
	visual   Visualizer
}

// New validates and creates an Engine over an environment and its
// agents. The agent slice order is the per-step acting order. Every
// agent must already be installed in the environment.
func New(world env.Environment, agents []agent.Agent,
	settings Settings) (*Engine, error) {
	if world == nil {
		return nil, env.NewConfigurationError("engine: no environment")
	}
	if len(agents) == 0 {
		return nil, env.NewConfigurationError("engine: no agents")
	}
	if settings.TotalSteps < 1 {
		return nil, env.NewConfigurationError("engine: passos_totais must "+
			"be positive, got %v", settings.TotalSteps)
	}
	if settings.Episodes < 1 {
		return nil, env.NewConfigurationError("engine: num_episodios must "+
			"be positive, got %v", settings.Episodes)
	}
	if settings.Discount < 0 || settings.Discount > 1 {
		return nil, env.NewConfigurationError("engine: desconto %v not in "+
			"[0, 1]", settings.Discount)
	}

	ids := make([]string, len(agents))
	seen := make(map[string]bool, len(agents))
	for i, a := range agents {
		if seen[a.ID()] {
			return nil, env.NewConfigurationError("engine: duplicate agent "+
				"id %q", a.ID())
		}
		if _, err := world.ObservationFor(a.ID()); err != nil {
			return nil, env.NewConfigurationError("engine: agent %q is not "+
				"installed in the environment", a.ID())
		}
		seen[a.ID()] = true
		ids[i] = a.ID()
	}

	return &Engine{
		settings: settings,
		world:    world,
		agents:   agents,
		metrics:  newRunMetrics(ids),
	}, nil
}

// Register adds a Tracker that will receive every timestep delivered
// to every agent
func (e *Engine) Register(t tracker.Tracker) {
	e.trackers = append(e.trackers, t)
}

// SetVisualizer sets the renderer used when visualization is enabled
func (e *Engine) SetVisualizer(v Visualizer) {
	e.visual = v
}

// State returns the engine's episode-cycle state
func (e *Engine) State() State {
	return e.state
}

// Environment returns the engine's environment
func (e *Engine) Environment() env.Environment {
	return e.world
}

// Agents returns the engine's agents in their acting order
func (e *Engine) Agents() []agent.Agent {
	agents := make([]agent.Agent, len(e.agents))
	copy(agents, e.agents)
	return agents
}

// Metrics returns the metrics collected so far
func (e *Engine) Metrics() *RunMetrics {
	return e.metrics
}

// Run executes the configured number of episodes and returns the
// collected metrics. Tracker data is saved once all episodes finish.
func (e *Engine) Run() (*RunMetrics, error) {
	var bar *progressbar.ProgressBar
	if e.settings.Progress {
		bar = progressbar.New(50, e.settings.Episodes)
	}

	for episode := 0; episode < e.settings.Episodes; episode++ {
		if err := e.runEpisode(episode); err != nil {
			return nil, err
		}
		if bar != nil {
			bar.Increment()
			bar.Display()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	for _, t := range e.trackers {
		if err := t.Save(); err != nil {
			return nil, err
		}
	}
	return e.metrics, nil
}

func (e *Engine) track(agentID string, t timestep.TimeStep) {
	for _, tr := range e.trackers {
		tr.Track(agentID, t)
	}
}

// runEpisode drives one full episode through the Reset, Running and
// Terminal phases
func (e *Engine) runEpisode(episode int) error {
	e.state = Reset
	e.world.Reset()

	records := make(map[string]*EpisodeMetrics, len(e.agents))
	for _, a := range e.agents {
		records[a.ID()] = &EpisodeMetrics{AgentID: a.ID(), Episode: episode}
	}

	e.state = Running
	rewards := make(map[string]float64, len(e.agents))
	discountPow := 1.0
	lastStep := 0
	for step := 1; step <= e.settings.TotalSteps; step++ {
		// Each agent observes before it acts, so it sees the effects of
		// the agents earlier in the acting order within the same step.
		// The observation delivered with a Mid timestep carries the
		// reward of the agent's previous action.
		for _, a := range e.agents {
			obs, err := e.world.ObservationFor(a.ID())
			if err != nil {
				return err
			}
			if step == 1 {
				first := timestep.New(timestep.First, 0,
					e.settings.Discount, obs, 0)
				a.ObserveFirst(first)
				e.track(a.ID(), first)
			} else {
				t := timestep.New(timestep.Mid, rewards[a.ID()],
					e.settings.Discount, obs, step-1)
				a.Observe(t)
				e.track(a.ID(), t)
				records[a.ID()].observe(t.Reward, discountPow, step-1,
					obs.AtGoal)
			}

			action := a.SelectAction()
			reward, err := e.world.Act(action, a.ID())
			if err != nil {
				return err
			}
			rewards[a.ID()] = reward
		}
		if step > 1 {
			discountPow *= e.settings.Discount
		}
		e.world.Advance()
		lastStep = step

		if e.settings.Visualize {
			if e.visual != nil {
				if err := e.visual.Frame(e.world, episode, step); err != nil {
					return err
				}
			}
			if e.settings.Delay > 0 {
				time.Sleep(e.settings.Delay)
			}
		}

		if e.world.IsTerminal() {
			break
		}
	}

	// Deliver the final rewards with a Last timestep and close the
	// episode. A collectively solved episode counts as a success for
	// every agent, whether or not it sits on a goal cell.
	e.state = Terminal
	terminal := e.world.IsTerminal()
	for _, a := range e.agents {
		obs, err := e.world.ObservationFor(a.ID())
		if err != nil {
			return err
		}
		t := timestep.New(timestep.Last, rewards[a.ID()],
			e.settings.Discount, obs, lastStep)
		a.Observe(t)
		e.track(a.ID(), t)

		record := records[a.ID()]
		record.observe(t.Reward, discountPow, lastStep, obs.AtGoal)
		if terminal {
			record.Success = true
		}

		a.EndEpisode()
		if statser, ok := a.(agent.Statser); ok {
			record.Stats = statser.Stats()
		}
		e.metrics.add(*record)
	}
	return nil
}
