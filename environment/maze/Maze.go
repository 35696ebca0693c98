// Package maze implements the maze grid environment.
//
// Random walls fill the grid at a configured density. Agents start at
// one corner and must reach the exit at the opposite corner; the wall
// layout is regenerated at the start of every episode.
package maze

import (
	"golang.org/x/exp/rand"

	env "github.com/SenasCodes/AA-Projeto/environment"
)

// Reward constants for a single action
const (
	ApproachReward float64 = 2.0
	RetreatReward  float64 = -1.0
	NeutralReward  float64 = -0.1
	ExitReward     float64 = 100.0
	IllegalReward  float64 = -0.5
)

// DefaultWallDensity is the fraction of cells filled with walls when
// no density is configured
const DefaultWallDensity = 0.3

// Maze implements environment.Environment
type Maze struct {
	*env.Grid

	entry       env.Position
	exit        env.Position
	wallDensity float64
	walls       map[env.Position]bool
	rng         *rand.Rand

	arrivals map[string]int // agent id -> arrival step
}

// New creates a maze of the given dimensions with the given entry and
// exit cells. Walls never cover the entry, the exit, or an installed
// agent's start cell.
func New(width, height int, wallDensity float64, entry,
	exit env.Position, rng *rand.Rand) (*Maze, error) {
	grid := env.NewGrid(width, height)
	if !grid.InBounds(entry) || !grid.InBounds(exit) {
		return nil, env.NewConfigurationError("maze: entry %v or exit %v "+
			"is outside the %dx%d grid", entry, exit, width, height)
	}
	if wallDensity < 0 || wallDensity >= 1 {
		return nil, env.NewConfigurationError("maze: wall density %v not "+
			"in [0, 1)", wallDensity)
	}

	m := &Maze{
		Grid:        grid,
		entry:       entry,
		exit:        exit,
		wallDensity: wallDensity,
		walls:       make(map[env.Position]bool),
		rng:         rng,
		arrivals:    make(map[string]int),
	}
	m.generateWalls()
	return m, nil
}

// Exit returns the maze exit position
func (m *Maze) Exit() env.Position {
	return m.exit
}

// generateWalls fills the grid with random walls at the configured
// density, keeping the entry, the exit, and every installed agent's
// start cell clear
func (m *Maze) generateWalls() {
	width, height := m.Dims()
	m.walls = make(map[env.Position]bool)

	for i := 0; i < int(float64(width*height)*m.wallDensity); i++ {
		p := env.Position{X: m.rng.Intn(width), Y: m.rng.Intn(height)}
		if p != m.entry && p != m.exit {
			m.walls[p] = true
		}
	}
	for _, id := range m.AgentIDs() {
		if start, ok := m.AgentStart(id); ok {
			delete(m.walls, start)
		}
	}
}

// Install registers an agent and clears any wall on its start cell
func (m *Maze) Install(agentID string, start env.Position) error {
	if err := m.Grid.Install(agentID, start); err != nil {
		return err
	}
	delete(m.walls, start)
	return nil
}

// Reset starts a new episode with a freshly generated wall layout
func (m *Maze) Reset() {
	m.Grid.Reset()
	m.arrivals = make(map[string]int)
	m.generateWalls()
}

func (m *Maze) blocked(p env.Position) bool {
	return !m.InBounds(p) || m.walls[p]
}

// ObservationFor returns the observation for one agent: direction and
// Manhattan distance to the exit plus the wall flags of the four
// neighbouring cells.
func (m *Maze) ObservationFor(agentID string) (env.Observation, error) {
	pos, ok := m.AgentPosition(agentID)
	if !ok {
		return env.Observation{}, m.Unknown("observationFor", agentID)
	}

	obs := env.Observation{
		AgentID:      agentID,
		Step:         m.Step(),
		Position:     pos,
		HasGoal:      true,
		GoalDelta:    env.Position{X: m.exit.X - pos.X, Y: m.exit.Y - pos.Y},
		GoalDistance: pos.ManhattanDistance(m.exit),
		AtGoal:       pos == m.exit,
	}
	for i, a := range env.Moves {
		obs.Blocked[i] = m.blocked(pos.Move(a))
	}
	return obs, nil
}

// Act applies one agent's action. Walking into a wall costs
// IllegalReward and leaves the agent in place.
func (m *Maze) Act(action env.Action, agentID string) (float64, error) {
	pos, ok := m.AgentPosition(agentID)
	if !ok {
		return 0, m.Unknown("act", agentID)
	}

	if !action.IsMove() && action != env.Wait {
		return IllegalReward, nil
	}

	next := pos.Move(action)
	if m.blocked(next) {
		return IllegalReward, nil
	}
	m.SetAgentPosition(agentID, next)

	if next == m.exit {
		if _, seen := m.arrivals[agentID]; !seen {
			m.arrivals[agentID] = m.Step()
		}
		return ExitReward, nil
	}

	oldDist := pos.ManhattanDistance(m.exit)
	newDist := next.ManhattanDistance(m.exit)
	switch {
	case newDist < oldDist:
		return ApproachReward, nil
	case newDist > oldDist:
		return RetreatReward, nil
	}
	return NeutralReward, nil
}

// Advance steps the environment clock and ends the episode once every
// agent has reached the exit
func (m *Maze) Advance() {
	m.Tick()
	if n := m.NumAgents(); n > 0 && len(m.arrivals) == n {
		m.Terminate()
	}
}

// ArrivalStep returns the step at which an agent first reached the
// exit and whether it has arrived at all
func (m *Maze) ArrivalStep(agentID string) (int, bool) {
	step, ok := m.arrivals[agentID]
	return step, ok
}

// LegalActions returns the maze action set
func (m *Maze) LegalActions() []env.Action {
	return []env.Action{env.North, env.South, env.East, env.West, env.Wait}
}

// CellAt rasterizes one cell for rendering
func (m *Maze) CellAt(p env.Position) env.Cell {
	for _, id := range m.AgentIDs() {
		if pos, ok := m.AgentPosition(id); ok && pos == p {
			return env.CellAgent
		}
	}
	switch {
	case p == m.exit:
		return env.CellGoal
	case m.walls[p]:
		return env.CellObstacle
	}
	return env.CellEmpty
}
