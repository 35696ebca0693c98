// Package reactive implements the fixed-policy baseline agent.
//
// The policy is purely reactive: in goal-directed environments it
// greedily walks toward the goal, stepping around obstacles; in the
// foraging environment it collects the nearest resource and carries it
// to the nearest nest. It learns nothing between episodes.
package reactive

import (
	"golang.org/x/exp/rand"

	env "github.com/SenasCodes/AA-Projeto/environment"
	"github.com/SenasCodes/AA-Projeto/timestep"
)

// Reactive implements agent.Agent with a fixed policy
type Reactive struct {
	id   string
	rng  *rand.Rand
	last env.Observation
	seen bool
}

// New returns a new reactive agent. The rng only breaks deadlocks when
// every informed choice is blocked.
func New(id string, seed uint64) *Reactive {
	return &Reactive{
		id:  id,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// ID returns the agent's identity
func (r *Reactive) ID() string {
	return r.id
}

// ObserveFirst records the first observation of an episode
func (r *Reactive) ObserveFirst(t timestep.TimeStep) {
	r.last = t.Observation
	r.seen = true
}

// Observe records an observation; the reward is ignored since the
// policy is fixed
func (r *Reactive) Observe(t timestep.TimeStep) {
	r.last = t.Observation
	r.seen = true
}

// SelectAction chooses the next action from the latest observation
func (r *Reactive) SelectAction() env.Action {
	if !r.seen {
		return env.Wait
	}
	obs := r.last

	if obs.HasGoal {
		return r.towardGoal(obs)
	}
	if obs.CanDeposit {
		return env.Deposit
	}
	if obs.Carrying > 0 {
		return r.towardNearestNest(obs)
	}
	if obs.CanCollect {
		return env.Collect
	}
	if len(obs.Resources) > 0 {
		return r.towardNearestResource(obs)
	}
	return r.randomMove(obs)
}

// towardGoal walks greedily toward the goal, preferring the axis with
// the larger remaining displacement and falling back to any open
// direction when the preferred ones are blocked
func (r *Reactive) towardGoal(obs env.Observation) env.Action {
	if obs.AtGoal {
		return env.Wait
	}

	preferred := directionsToward(obs.GoalDelta)
	for _, a := range preferred {
		if !blockedToward(obs, a) {
			return a
		}
	}
	for i, a := range env.Moves {
		if !obs.Blocked[i] {
			return a
		}
	}
	return env.Wait
}

func (r *Reactive) towardNearestNest(obs env.Observation) env.Action {
	if len(obs.Nests) == 0 {
		return r.randomMove(obs)
	}
	nearest := obs.Nests[0]
	for _, n := range obs.Nests[1:] {
		if n.Distance < nearest.Distance {
			nearest = n
		}
	}
	return r.toward(obs, nearest.Position)
}

func (r *Reactive) towardNearestResource(obs env.Observation) env.Action {
	nearest := obs.Resources[0]
	for _, s := range obs.Resources[1:] {
		if s.Distance < nearest.Distance {
			nearest = s
		}
	}
	return r.toward(obs, nearest.Position)
}

// toward walks greedily toward target, falling back to a random open
// direction when the greedy choices are blocked
func (r *Reactive) toward(obs env.Observation,
	target env.Position) env.Action {
	delta := env.Position{
		X: target.X - obs.Position.X,
		Y: target.Y - obs.Position.Y,
	}
	for _, a := range directionsToward(delta) {
		if !blockedToward(obs, a) {
			return a
		}
	}
	return r.randomMove(obs)
}

// randomMove picks uniformly among the unblocked movement directions
func (r *Reactive) randomMove(obs env.Observation) env.Action {
	valid := obs.ValidMoves()
	return valid[r.rng.Intn(len(valid))]
}

// directionsToward orders the movement actions that reduce the given
// displacement, larger axis first
func directionsToward(delta env.Position) []env.Action {
	var horizontal, vertical env.Action
	if delta.X > 0 {
		horizontal = env.East
	} else {
		horizontal = env.West
	}
	if delta.Y > 0 {
		vertical = env.South
	} else {
		vertical = env.North
	}

	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}

	switch {
	case delta.X == 0 && delta.Y == 0:
		return nil
	case delta.X == 0:
		return []env.Action{vertical}
	case delta.Y == 0:
		return []env.Action{horizontal}
	case abs(delta.X) > abs(delta.Y):
		return []env.Action{horizontal, vertical}
	}
	return []env.Action{vertical, horizontal}
}

// blockedToward reports whether the neighbouring cell in direction a
// is blocked
func blockedToward(obs env.Observation, a env.Action) bool {
	for i, move := range env.Moves {
		if move == a {
			return obs.Blocked[i]
		}
	}
	return true
}

// EndEpisode is a no-op: the reactive policy has no between-episode
// state
func (r *Reactive) EndEpisode() {
	r.seen = false
}

// Eval is a no-op: the policy is already deterministic up to blocked
// fallbacks
func (r *Reactive) Eval() {}

// Train is a no-op
func (r *Reactive) Train() {}

// IsEval always reports true: the reactive policy never learns
func (r *Reactive) IsEval() bool {
	return true
}
