package environment

// agentState is the per-agent bookkeeping an environment tracks: the
// configured initial position, the current position, and the value of
// any carried resource.
type agentState struct {
	start    Position
	position Position
	carrying int
}

// Grid implements the agent registry and clock shared by every
// concrete environment. Concrete environments embed a *Grid and layer
// their own cell mechanics (obstacles, goals, resources) on top.
//
// Agents are iterated in installation order so that all grid-wide
// computations are deterministic.
type Grid struct {
	width  int
	height int

	ids    []string // installation order
	agents map[string]*agentState

	step       int
	terminated bool
}

// NewGrid returns a new Grid with the given dimensions
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		agents: make(map[string]*agentState),
	}
}

// Dims returns the width and height of the grid
func (g *Grid) Dims() (int, int) {
	return g.width, g.height
}

// InBounds returns whether p lies inside the grid
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Install registers an agent at a starting position. Installing the
// same id twice or installing outside the grid is a
// ConfigurationError.
func (g *Grid) Install(agentID string, start Position) error {
	if _, ok := g.agents[agentID]; ok {
		return NewConfigurationError("install: duplicate agent id %q",
			agentID)
	}
	if !g.InBounds(start) {
		return NewConfigurationError("install: start %v of agent %q is "+
			"outside the %dx%d grid", start, agentID, g.width, g.height)
	}

	g.ids = append(g.ids, agentID)
	g.agents[agentID] = &agentState{start: start, position: start}
	return nil
}

// Reset returns every installed agent to its initial position, empties
// carried resources, and rewinds the environment clock. Concrete
// environments call this from their own Reset before regenerating
// cells.
func (g *Grid) Reset() {
	g.step = 0
	g.terminated = false
	for _, state := range g.agents {
		state.position = state.start
		state.carrying = 0
	}
}

// AgentIDs returns the installed agent ids in installation order
func (g *Grid) AgentIDs() []string {
	ids := make([]string, len(g.ids))
	copy(ids, g.ids)
	return ids
}

// AgentPosition returns the current position of an agent and whether
// the agent is installed
func (g *Grid) AgentPosition(agentID string) (Position, bool) {
	state, ok := g.agents[agentID]
	if !ok {
		return Position{}, false
	}
	return state.position, true
}

// AgentStart returns the configured initial position of an agent and
// whether the agent is installed
func (g *Grid) AgentStart(agentID string) (Position, bool) {
	state, ok := g.agents[agentID]
	if !ok {
		return Position{}, false
	}
	return state.start, true
}

// SetAgentPosition moves an installed agent to p. Unknown ids are
// ignored; legality of the move is the concrete environment's
// responsibility.
func (g *Grid) SetAgentPosition(agentID string, p Position) {
	if state, ok := g.agents[agentID]; ok {
		state.position = p
	}
}

// Carrying returns the value of the resource carried by an agent, or
// 0 when the agent carries nothing or is not installed
func (g *Grid) Carrying(agentID string) int {
	if state, ok := g.agents[agentID]; ok {
		return state.carrying
	}
	return 0
}

// SetCarrying records the value of the resource carried by an agent
func (g *Grid) SetCarrying(agentID string, value int) {
	if state, ok := g.agents[agentID]; ok {
		state.carrying = value
	}
}

// Installed returns whether an agent id has been installed
func (g *Grid) Installed(agentID string) bool {
	_, ok := g.agents[agentID]
	return ok
}

// NumAgents returns the number of installed agents
func (g *Grid) NumAgents() int {
	return len(g.ids)
}

// Step returns the current environment clock value
func (g *Grid) Step() int {
	return g.step
}

// Tick advances the environment clock by one
func (g *Grid) Tick() {
	g.step++
}

// Terminate marks the episode as ended
func (g *Grid) Terminate() {
	g.terminated = true
}

// IsTerminal reports whether the episode has ended
func (g *Grid) IsTerminal() bool {
	return g.terminated
}

// Unknown constructs the UnknownAgentError for an operation that
// referenced an uninstalled agent id
func (g *Grid) Unknown(op, agentID string) error {
	return &UnknownAgentError{AgentID: agentID, Op: op}
}
