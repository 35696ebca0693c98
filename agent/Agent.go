// Package agent defines the agent-policy interface shared by every
// policy variant
package agent

import (
	"github.com/SenasCodes/AA-Projeto/environment"
	"github.com/SenasCodes/AA-Projeto/timestep"
)

// Agent determines the implementation details of one agent policy.
//
// The simulation engine drives agents through a fixed protocol: at the
// start of an episode ObserveFirst delivers the initial observation;
// on every turn Observe delivers the current observation together with
// the reward earned by the agent's previous action, then SelectAction
// asks for the next action; EndEpisode runs once the episode is over
// and is where learning policies advance any between-episode state.
//
// Train and Eval toggle learning mode. In evaluation mode a policy
// must act deterministically given the same state: exploration is
// disabled and learned state is frozen.
type Agent interface {
	// ID returns the agent's unique identity, stable for the lifetime
	// of a run
	ID() string

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(t timestep.TimeStep)

	// Observe records a timestep: the current observation and the
	// reward for the previous action
	Observe(t timestep.TimeStep)

	// SelectAction chooses the next action from the last observation
	SelectAction() environment.Action

	// EndEpisode performs between-episode work
	EndEpisode()

	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}

// A Statser is an Agent that can report policy-specific counters,
// collected into the episode metrics (current epsilon, table size,
// generation number, and the like).
type Statser interface {
	Agent
	Stats() map[string]float64
}

// Type names the agent policies that a configuration can request
type Type string

const (
	Reactive  Type = "reativo"
	QLearning Type = "qlearning"
	Genetic   Type = "genetico"
)
