package environment

import "fmt"

// ResourceSighting describes one resource within an agent's sight
// radius in the foraging environment.
type ResourceSighting struct {
	Position Position
	Value    int
	Distance float64
}

// NestSighting describes one nest within an agent's sight radius in
// the foraging environment.
type NestSighting struct {
	Position Position
	Distance float64
}

// Observation is the agent-specific snapshot an environment produces
// for a single agent. Which fields are populated depends on the
// environment type; the simulation engine never inspects them, only
// the owning agent does. Observations are deterministic given
// environment state and agent identity.
type Observation struct {
	AgentID string
	Step    int

	// Position of the observed agent as tracked by the environment
	Position Position

	// Goal-directed fields (lighthouse and maze). HasGoal reports
	// whether they are populated.
	HasGoal      bool
	GoalDelta    Position // displacement from agent to goal
	GoalDistance float64  // Manhattan distance to goal
	AtGoal       bool

	// Blocked flags the four neighbouring cells, indexed by the
	// movement actions North, South, East, West in that order. A cell
	// is blocked when it is out of bounds or holds an obstacle/wall.
	Blocked [4]bool

	// Foraging fields
	Carrying   int // value of the resource carried, 0 when empty-handed
	CanCollect bool
	CanDeposit bool
	Resources  []ResourceSighting
	Nests      []NestSighting
}

// ValidMoves returns the movement actions not flagged as blocked, in
// priority order. When every direction is blocked the Wait action is
// returned so a caller always has a legal choice.
func (o Observation) ValidMoves() []Action {
	valid := make([]Action, 0, len(Moves))
	for i, a := range Moves {
		if !o.Blocked[i] {
			valid = append(valid, a)
		}
	}
	if len(valid) == 0 {
		return []Action{Wait}
	}
	return valid
}

func (o Observation) String() string {
	return fmt.Sprintf("Obs[Agent: %v  |  At: %v  |  Step: %d]",
		o.AgentID, o.Position, o.Step)
}
