package environment

import "fmt"

// Position is an integer (x, y) grid coordinate. Positions are owned
// by the environment; agents only ever hold copies received through
// observations.
type Position struct {
	X int
	Y int
}

// Move returns the position reached by taking a movement action from p.
// Non-movement actions leave the position unchanged.
func (p Position) Move(a Action) Position {
	dx, dy := a.Delta()
	return Position{p.X + dx, p.Y + dy}
}

// ManhattanDistance returns the L1 distance between p and other
func (p Position) ManhattanDistance(other Position) float64 {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return float64(dx + dy)
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
