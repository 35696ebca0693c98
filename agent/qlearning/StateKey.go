package qlearning

import (
	"fmt"
	"math"

	env "github.com/SenasCodes/AA-Projeto/environment"
)

// Distance buckets for goal-directed state keys
const (
	nearDistance float64 = 3
	farDistance  float64 = 10
)

// StateKey discretizes an observation into a hashable state key. It is
// a pure function of the observation: identical observations always
// map to the same key.
//
// Goal-directed observations discretize the goal bearing into eight
// octants plus a centre symbol, the distance into near/mid/far, and
// append the four neighbouring blocked bits. Foraging observations key
// on the carried flag, the collect/deposit affordances, and the
// bearings to the nearest visible resource and nest. Anything else
// falls back to a coarse position key.
func StateKey(obs env.Observation) string {
	if obs.HasGoal {
		return fmt.Sprintf("%v_%v_%v",
			octant(obs.GoalDelta.X, obs.GoalDelta.Y),
			distanceBucket(obs.GoalDistance),
			blockedBits(obs))
	}

	if obs.Carrying > 0 || obs.CanCollect || obs.CanDeposit ||
		len(obs.Resources) > 0 || len(obs.Nests) > 0 {
		carrying := 0
		if obs.Carrying > 0 {
			carrying = 1
		}
		return fmt.Sprintf("F%d%s%s_r%v_n%v_%v",
			carrying, affordance(obs.CanCollect), affordance(obs.CanDeposit),
			nearestBearing(obs.Position, resourcePositions(obs)),
			nearestBearing(obs.Position, nestPositions(obs)),
			blockedBits(obs))
	}

	// Coarse position fallback
	return fmt.Sprintf("pos_%d_%d", bucket(obs.Position.X),
		bucket(obs.Position.Y))
}

// octant maps a displacement to one of eight compass octants, or "C"
// for the zero displacement
func octant(dx, dy int) string {
	if dx == 0 && dy == 0 {
		return "C"
	}

	angle := math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi
	switch {
	case angle >= -22.5 && angle < 22.5:
		return "E"
	case angle >= 22.5 && angle < 67.5:
		return "SE"
	case angle >= 67.5 && angle < 112.5:
		return "S"
	case angle >= 112.5 && angle < 157.5:
		return "SW"
	case angle >= 157.5 || angle < -157.5:
		return "W"
	case angle >= -157.5 && angle < -112.5:
		return "NW"
	case angle >= -112.5 && angle < -67.5:
		return "N"
	}
	return "NE"
}

func distanceBucket(d float64) string {
	switch {
	case d < nearDistance:
		return "P"
	case d < farDistance:
		return "M"
	}
	return "L"
}

func blockedBits(obs env.Observation) string {
	bits := make([]byte, len(obs.Blocked))
	for i, blocked := range obs.Blocked {
		if blocked {
			bits[i] = '1'
		} else {
			bits[i] = '0'
		}
	}
	return string(bits)
}

func affordance(ok bool) string {
	if ok {
		return "y"
	}
	return "n"
}

// nearestBearing returns the octant toward the nearest of the targets,
// or "-" when there are none
func nearestBearing(from env.Position, targets []env.Position) string {
	if len(targets) == 0 {
		return "-"
	}
	nearest := targets[0]
	best := from.ManhattanDistance(nearest)
	for _, t := range targets[1:] {
		if d := from.ManhattanDistance(t); d < best {
			best = d
			nearest = t
		}
	}
	return octant(nearest.X-from.X, nearest.Y-from.Y)
}

func resourcePositions(obs env.Observation) []env.Position {
	positions := make([]env.Position, len(obs.Resources))
	for i, s := range obs.Resources {
		positions[i] = s.Position
	}
	return positions
}

func nestPositions(obs env.Observation) []env.Position {
	positions := make([]env.Position, len(obs.Nests))
	for i, s := range obs.Nests {
		positions[i] = s.Position
	}
	return positions
}

func bucket(v int) int {
	b := v / 10
	if b > 9 {
		b = 9
	}
	return b
}
