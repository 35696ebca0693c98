// Package environment outlines the interfaces and structs needed to
// implement concrete grid environments
package environment

import "fmt"

// Cell identifies what occupies a single grid cell, used when
// rasterizing an environment for rendering.
type Cell int

const (
	CellEmpty Cell = iota
	CellObstacle
	CellGoal
	CellResource
	CellNest
	CellAgent
)

// Environment implements a simulated 2D grid world stepped by the
// simulation engine. An environment owns all grid and agent-position
// state and is mutated only through this contract.
//
// The per-tick protocol is: for each agent, ObservationFor then Act;
// once every agent has acted, Advance exactly once. Reset starts a new
// episode and must be callable any number of times. Install registers
// an agent before its first ObservationFor/Act; referencing an
// unregistered agent yields an UnknownAgentError.
//
// Illegal actions (moving into a wall, collecting where there is
// nothing) are not errors: they return the environment's defined
// penalty reward and leave state unchanged.
type Environment interface {
	// Reset re-initializes grid state and returns every installed
	// agent to its configured initial position
	Reset()

	// Install registers an agent at a starting position
	Install(agentID string, start Position) error

	// ObservationFor returns the Observation for one agent given
	// current environment state
	ObservationFor(agentID string) (Observation, error)

	// Act applies one agent's action, mutating environment state, and
	// returns the scalar reward for that single action
	Act(action Action, agentID string) (float64, error)

	// Advance steps any environment-wide state not tied to a specific
	// agent's action; called once per engine tick after all agents
	// have acted
	Advance()

	// IsTerminal reports whether the environment's local success
	// condition has ended the episode. Step caps are the caller's
	// concern.
	IsTerminal() bool

	// LegalActions returns the environment's fixed action set
	LegalActions() []Action

	// Dims returns the width and height of the grid
	Dims() (int, int)

	// CellAt rasterizes one cell for rendering
	CellAt(p Position) Cell
}

// UnknownAgentError indicates that an observation or action was
// requested for an agent id that was never installed. It signals a
// coordination bug and is never retried.
type UnknownAgentError struct {
	AgentID string
	Op      string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("%v: unknown agent id %q", e.Op, e.AgentID)
}

// ConfigurationError indicates an invalid configuration: an unknown
// environment or agent type, a missing required parameter, or a
// duplicate agent id. It is fatal and surfaced before any episode
// runs.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// NewConfigurationError constructs a ConfigurationError from a format
// string
func NewConfigurationError(format string, args ...interface{}) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}
