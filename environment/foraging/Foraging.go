// Package foraging implements the foraging grid environment.
//
// Resources of value 1-5 are scattered over the grid and nests sit on
// its edges. Agents carry at most one resource at a time: they collect
// it from a resource cell and deposit it at a nest. Resources, nests,
// and optional obstacles are regenerated at the start of every
// episode.
package foraging

import (
	"sort"

	"golang.org/x/exp/rand"

	env "github.com/SenasCodes/AA-Projeto/environment"
)

// Reward constants for a single action
const (
	ApproachReward      float64 = 0.5
	RetreatNestReward   float64 = -0.2
	RetreatSourceReward float64 = -0.1
	NeutralReward       float64 = 0.01
	CollectReward       float64 = 2.0
	DepositBaseReward   float64 = 5.0
	IllegalMoveReward   float64 = -0.1
	EmptyCollectReward  float64 = -0.2
	FullCollectReward   float64 = -0.5
	EmptyDepositReward  float64 = -0.3
	NoNestDepositReward float64 = -0.2
)

// Sight radii for observations
const (
	resourceSight float64 = 2
	nestSight     float64 = 3
)

// Foraging implements environment.Environment
type Foraging struct {
	*env.Grid

	numResources  int
	numNests      int
	withObstacles bool
	rng           *rand.Rand

	resources map[env.Position]int
	nests     []env.Position
	obstacles map[env.Position]bool

	collected int
	deposited int
	value     int // total value deposited this episode
}

// New creates a foraging environment of the given dimensions holding
// numResources resources and numNests nests
func New(width, height, numResources, numNests int, withObstacles bool,
	rng *rand.Rand) (*Foraging, error) {
	if numResources <= 0 || numNests <= 0 {
		return nil, env.NewConfigurationError("foraging: need at least "+
			"one resource and one nest, have %d and %d", numResources,
			numNests)
	}

	f := &Foraging{
		Grid:          env.NewGrid(width, height),
		numResources:  numResources,
		numNests:      numNests,
		withObstacles: withObstacles,
		rng:           rng,
	}
	f.generate()
	return f, nil
}

// generate lays out resources, nests, and obstacles for a new episode
func (f *Foraging) generate() {
	width, height := f.Dims()

	occupied := make(map[env.Position]bool)
	for _, id := range f.AgentIDs() {
		if pos, ok := f.AgentPosition(id); ok {
			occupied[pos] = true
		}
	}

	f.resources = make(map[env.Position]int)
	for i := 0; i < f.numResources; i++ {
		for attempt := 0; attempt < 100; attempt++ {
			p := env.Position{X: f.rng.Intn(width), Y: f.rng.Intn(height)}
			if !occupied[p] {
				f.resources[p] = 1 + f.rng.Intn(5)
				occupied[p] = true
				break
			}
		}
	}

	// Nests sit on the grid's edges
	f.nests = f.nests[:0]
	for i := 0; i < f.numNests; i++ {
		for attempt := 0; attempt < 100; attempt++ {
			var p env.Position
			if f.rng.Intn(2) == 0 {
				p = env.Position{
					X: []int{0, width - 1}[f.rng.Intn(2)],
					Y: f.rng.Intn(height),
				}
			} else {
				p = env.Position{
					X: f.rng.Intn(width),
					Y: []int{0, height - 1}[f.rng.Intn(2)],
				}
			}
			if !occupied[p] {
				f.nests = append(f.nests, p)
				occupied[p] = true
				break
			}
		}
	}
	if len(f.nests) == 0 {
		f.nests = append(f.nests, env.Position{X: width / 2, Y: height / 2})
	}

	f.obstacles = make(map[env.Position]bool)
	if f.withObstacles {
		for i := 0; i < (width*height)/15; i++ {
			p := env.Position{X: f.rng.Intn(width), Y: f.rng.Intn(height)}
			if !occupied[p] {
				f.obstacles[p] = true
				occupied[p] = true
			}
		}
	}
}

// Reset starts a new episode with freshly generated resources, nests,
// and obstacles
func (f *Foraging) Reset() {
	f.Grid.Reset()
	f.collected = 0
	f.deposited = 0
	f.value = 0
	f.generate()
}

func (f *Foraging) blocked(p env.Position) bool {
	return !f.InBounds(p) || f.obstacles[p]
}

// isNest reports whether p holds a nest
func (f *Foraging) isNest(p env.Position) bool {
	for _, nest := range f.nests {
		if nest == p {
			return true
		}
	}
	return false
}

// ObservationFor returns the observation for one agent: resources and
// nests within sight, neighbouring obstacle flags, and the value of
// any carried resource.
func (f *Foraging) ObservationFor(agentID string) (env.Observation,
	error) {
	pos, ok := f.AgentPosition(agentID)
	if !ok {
		return env.Observation{}, f.Unknown("observationFor", agentID)
	}

	carrying := f.Carrying(agentID)
	obs := env.Observation{
		AgentID:    agentID,
		Step:       f.Step(),
		Position:   pos,
		Carrying:   carrying,
		CanCollect: f.resources[pos] > 0 && carrying == 0,
		CanDeposit: f.isNest(pos) && carrying > 0,
	}

	for p, value := range f.resources {
		if d := pos.ManhattanDistance(p); d <= resourceSight {
			obs.Resources = append(obs.Resources, env.ResourceSighting{
				Position: p,
				Value:    value,
				Distance: d,
			})
		}
	}
	// Observations must be deterministic given environment state, so
	// sightings gathered from map iteration are sorted
	sort.Slice(obs.Resources, func(i, j int) bool {
		a, b := obs.Resources[i], obs.Resources[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Position.X != b.Position.X {
			return a.Position.X < b.Position.X
		}
		return a.Position.Y < b.Position.Y
	})

	for _, p := range f.nests {
		if d := pos.ManhattanDistance(p); d <= nestSight {
			obs.Nests = append(obs.Nests, env.NestSighting{
				Position: p,
				Distance: d,
			})
		}
	}
	for i, a := range env.Moves {
		obs.Blocked[i] = f.blocked(pos.Move(a))
	}
	return obs, nil
}

// nearestDistance returns the smallest Manhattan distance from p to
// any of the targets, or ok=false when there are none
func nearestDistance(p env.Position, targets []env.Position) (float64,
	bool) {
	if len(targets) == 0 {
		return 0, false
	}
	best := p.ManhattanDistance(targets[0])
	for _, t := range targets[1:] {
		if d := p.ManhattanDistance(t); d < best {
			best = d
		}
	}
	return best, true
}

func (f *Foraging) resourcePositions() []env.Position {
	positions := make([]env.Position, 0, len(f.resources))
	for p := range f.resources {
		positions = append(positions, p)
	}
	return positions
}

// Act applies one agent's action. Movement is shaped toward the
// agent's current target: the nearest nest when carrying, the nearest
// resource otherwise. Collect and Deposit outside their preconditions
// are absorbed as penalties, never errors.
func (f *Foraging) Act(action env.Action, agentID string) (float64,
	error) {
	pos, ok := f.AgentPosition(agentID)
	if !ok {
		return 0, f.Unknown("act", agentID)
	}
	carrying := f.Carrying(agentID)

	switch {
	case action.IsMove() || action == env.Wait:
		next := pos.Move(action)
		if f.blocked(next) {
			return IllegalMoveReward, nil
		}
		f.SetAgentPosition(agentID, next)
		return f.moveShaping(pos, next, carrying), nil

	case action == env.Collect:
		value, present := f.resources[pos]
		if !present {
			return EmptyCollectReward, nil
		}
		if carrying > 0 {
			return FullCollectReward, nil
		}
		f.SetCarrying(agentID, value)
		delete(f.resources, pos)
		f.collected++
		return CollectReward, nil

	case action == env.Deposit:
		if !f.isNest(pos) {
			return NoNestDepositReward, nil
		}
		if carrying == 0 {
			return EmptyDepositReward, nil
		}
		f.SetCarrying(agentID, 0)
		f.deposited++
		f.value += carrying
		return DepositBaseReward + float64(carrying), nil
	}

	return IllegalMoveReward, nil
}

// moveShaping rewards movement toward the agent's current target
func (f *Foraging) moveShaping(old, next env.Position,
	carrying int) float64 {
	var targets []env.Position
	retreat := RetreatSourceReward
	if carrying > 0 {
		targets = f.nests
		retreat = RetreatNestReward
	} else {
		targets = f.resourcePositions()
	}

	oldDist, ok := nearestDistance(old, targets)
	if !ok {
		return NeutralReward
	}
	newDist, _ := nearestDistance(next, targets)
	switch {
	case newDist < oldDist:
		return ApproachReward
	case newDist > oldDist:
		return retreat
	}
	return NeutralReward
}

// Advance steps the environment clock and ends the episode once every
// generated resource has been deposited
func (f *Foraging) Advance() {
	f.Tick()

	if len(f.resources) > 0 || f.deposited == 0 {
		return
	}
	for _, id := range f.AgentIDs() {
		if f.Carrying(id) > 0 {
			return
		}
	}
	f.Terminate()
}

// Collected returns the number of resources collected this episode
func (f *Foraging) Collected() int {
	return f.collected
}

// Deposited returns the number of resources deposited this episode and
// their total value
func (f *Foraging) Deposited() (int, int) {
	return f.deposited, f.value
}

// LegalActions returns the foraging action set
func (f *Foraging) LegalActions() []env.Action {
	return []env.Action{env.North, env.South, env.East, env.West,
		env.Collect, env.Deposit, env.Wait}
}

// CellAt rasterizes one cell for rendering
func (f *Foraging) CellAt(p env.Position) env.Cell {
	for _, id := range f.AgentIDs() {
		if pos, ok := f.AgentPosition(id); ok && pos == p {
			return env.CellAgent
		}
	}
	switch {
	case f.resources[p] > 0:
		return env.CellResource
	case f.isNest(p):
		return env.CellNest
	case f.obstacles[p]:
		return env.CellObstacle
	}
	return env.CellEmpty
}
