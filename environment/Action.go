package environment

// Action is one of the closed set of symbols an agent may emit. The
// declaration order is the fixed priority order used to break ties
// wherever two actions score equally, so reordering these constants
// changes tie-breaking behaviour everywhere.
type Action int

const (
	North Action = iota
	South
	East
	West
	Collect
	Deposit
	Wait
)

// NumActions is the total number of actions across all environments
const NumActions = 7

// Moves holds the four movement actions in priority order
var Moves = [4]Action{North, South, East, West}

// IsMove returns whether a is one of the four movement actions
func (a Action) IsMove() bool {
	return a == North || a == South || a == East || a == West
}

// Delta returns the (dx, dy) grid displacement of a movement action.
// Non-movement actions displace by (0, 0).
func (a Action) Delta() (int, int) {
	switch a {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

func (a Action) String() string {
	switch a {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	case Collect:
		return "Collect"
	case Deposit:
		return "Deposit"
	case Wait:
		return "Wait"
	}
	return "Unknown"
}

// ActionFromString is the inverse of Action.String. It reports false
// for strings that name no action.
func ActionFromString(s string) (Action, bool) {
	for a := Action(0); a < NumActions; a++ {
		if a.String() == s {
			return a, true
		}
	}
	return Wait, false
}
