// Package lighthouse implements the lighthouse grid environment.
//
// A single lighthouse cell is the goal. Agents are rewarded for moving
// closer to it, penalized for moving away, and receive a large reward
// on arrival. The episode ends once every installed agent has reached
// the lighthouse.
package lighthouse

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	env "github.com/SenasCodes/AA-Projeto/environment"
)

// Reward constants for a single action
const (
	ApproachReward float64 = 1.0
	RetreatReward  float64 = -0.5
	NeutralReward  float64 = 0.1
	ArrivalReward  float64 = 10.0
	IllegalReward  float64 = -0.2
)

// Lighthouse implements environment.Environment
type Lighthouse struct {
	*env.Grid

	goal      env.Position
	obstacles map[env.Position]bool

	arrivals      map[string]int // agent id -> arrival step
	meanDistances []float64      // mean agent-goal distance per tick
}

// New creates a lighthouse environment of the given dimensions with
// the goal at the given position. When withObstacles is set, roughly
// one cell in ten is filled with an obstacle, never on the goal.
// Obstacles are generated once and survive resets.
func New(width, height int, goal env.Position, withObstacles bool,
	rng *rand.Rand) (*Lighthouse, error) {
	grid := env.NewGrid(width, height)
	if !grid.InBounds(goal) {
		return nil, env.NewConfigurationError("lighthouse: goal %v is "+
			"outside the %dx%d grid", goal, width, height)
	}

	l := &Lighthouse{
		Grid:      grid,
		goal:      goal,
		obstacles: make(map[env.Position]bool),
		arrivals:  make(map[string]int),
	}

	if withObstacles {
		for i := 0; i < (width*height)/10; i++ {
			p := env.Position{X: rng.Intn(width), Y: rng.Intn(height)}
			if p != goal {
				l.obstacles[p] = true
			}
		}
	}

	return l, nil
}

// Goal returns the lighthouse position
func (l *Lighthouse) Goal() env.Position {
	return l.goal
}

// Reset starts a new episode. Agents return to their initial
// positions; the obstacle layout is kept.
func (l *Lighthouse) Reset() {
	l.Grid.Reset()
	l.arrivals = make(map[string]int)
	l.meanDistances = l.meanDistances[:0]
}

// blocked reports whether p cannot be entered
func (l *Lighthouse) blocked(p env.Position) bool {
	return !l.InBounds(p) || l.obstacles[p]
}

// ObservationFor returns the observation for one agent: the direction
// and Manhattan distance to the lighthouse together with the blocked
// flags of the four neighbouring cells.
func (l *Lighthouse) ObservationFor(agentID string) (env.Observation,
	error) {
	pos, ok := l.AgentPosition(agentID)
	if !ok {
		return env.Observation{}, l.Unknown("observationFor", agentID)
	}

	obs := env.Observation{
		AgentID:      agentID,
		Step:         l.Step(),
		Position:     pos,
		HasGoal:      true,
		GoalDelta:    env.Position{X: l.goal.X - pos.X, Y: l.goal.Y - pos.Y},
		GoalDistance: pos.ManhattanDistance(l.goal),
		AtGoal:       pos == l.goal,
	}
	for i, a := range env.Moves {
		obs.Blocked[i] = l.blocked(pos.Move(a))
	}
	return obs, nil
}

// Act applies one agent's action. Moving into a wall or off the grid
// is not an error: the agent stays put and receives IllegalReward.
// Non-movement actions other than Wait are likewise absorbed as
// illegal.
func (l *Lighthouse) Act(action env.Action, agentID string) (float64,
	error) {
	pos, ok := l.AgentPosition(agentID)
	if !ok {
		return 0, l.Unknown("act", agentID)
	}

	if !action.IsMove() && action != env.Wait {
		return IllegalReward, nil
	}

	next := pos.Move(action)
	if l.blocked(next) {
		return IllegalReward, nil
	}
	l.SetAgentPosition(agentID, next)

	if next == l.goal {
		if _, seen := l.arrivals[agentID]; !seen {
			l.arrivals[agentID] = l.Step()
		}
		return ArrivalReward, nil
	}

	oldDist := pos.ManhattanDistance(l.goal)
	newDist := next.ManhattanDistance(l.goal)
	switch {
	case newDist < oldDist:
		return ApproachReward, nil
	case newDist > oldDist:
		return RetreatReward, nil
	}
	return NeutralReward, nil
}

// Advance steps the environment clock, records the mean agent-goal
// distance, and ends the episode once every agent has arrived.
func (l *Lighthouse) Advance() {
	l.Tick()

	ids := l.AgentIDs()
	if len(ids) == 0 {
		return
	}

	distances := make([]float64, 0, len(ids))
	for _, id := range ids {
		if pos, ok := l.AgentPosition(id); ok {
			distances = append(distances, pos.ManhattanDistance(l.goal))
		}
	}
	l.meanDistances = append(l.meanDistances, stat.Mean(distances, nil))

	if len(l.arrivals) == len(ids) {
		l.Terminate()
	}
}

// ArrivalStep returns the step at which an agent first reached the
// lighthouse and whether it has arrived at all
func (l *Lighthouse) ArrivalStep(agentID string) (int, bool) {
	step, ok := l.arrivals[agentID]
	return step, ok
}

// MeanDistances returns the per-tick mean agent-goal distances of the
// current episode
func (l *Lighthouse) MeanDistances() []float64 {
	return l.meanDistances
}

// LegalActions returns the lighthouse action set
func (l *Lighthouse) LegalActions() []env.Action {
	return []env.Action{env.North, env.South, env.East, env.West, env.Wait}
}

// CellAt rasterizes one cell for rendering
func (l *Lighthouse) CellAt(p env.Position) env.Cell {
	for _, id := range l.AgentIDs() {
		if pos, ok := l.AgentPosition(id); ok && pos == p {
			return env.CellAgent
		}
	}
	switch {
	case p == l.goal:
		return env.CellGoal
	case l.obstacles[p]:
		return env.CellObstacle
	}
	return env.CellEmpty
}
