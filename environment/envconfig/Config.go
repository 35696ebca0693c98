// Package envconfig provides configuration structs for constructing
// environments from their recognized parameter sets. Environment
// configurations in this package are JSON serializable and keep the
// key names of the original configuration files.
package envconfig

import (
	"strings"

	"golang.org/x/exp/rand"

	env "github.com/SenasCodes/AA-Projeto/environment"
	"github.com/SenasCodes/AA-Projeto/environment/foraging"
	"github.com/SenasCodes/AA-Projeto/environment/lighthouse"
	"github.com/SenasCodes/AA-Projeto/environment/maze"
)

// Type names the environments that can be configured with this package
type Type string

// Environments available for configuration
const (
	Lighthouse Type = "FAROL"
	Foraging   Type = "FORAGING"
	Maze       Type = "LABIRINTO"
)

// Position is the JSON form of a grid coordinate
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Params carries the union of the environment-specific parameters.
// Fields irrelevant to the configured type are ignored.
type Params struct {
	Width  int `json:"largura"`
	Height int `json:"altura"`

	// Lighthouse
	Goal          *Position `json:"pos_farol,omitempty"`
	WithObstacles bool      `json:"com_obstaculos"`

	// Maze
	WallDensity *float64  `json:"densidade_paredes,omitempty"`
	Entry       *Position `json:"pos_inicio,omitempty"`
	Exit        *Position `json:"pos_fim,omitempty"`

	// Foraging
	NumResources int `json:"num_recursos"`
	NumNests     int `json:"num_ninhos"`
}

// Config identifies one environment type together with its parameters
type Config struct {
	Type   Type   `json:"tipo"`
	Params Params `json:"parametros"`
}

// Create builds the environment the Config describes, drawing any
// random layout from rng. Unknown environment types yield a
// ConfigurationError.
func (c Config) Create(rng *rand.Rand) (env.Environment, error) {
	switch Type(strings.ToUpper(string(c.Type))) {
	case Lighthouse:
		return c.createLighthouse(rng)
	case Foraging:
		return c.createForaging(rng)
	case Maze:
		return c.createMaze(rng)
	}

	return nil, env.NewConfigurationError("create: no such environment "+
		"type %q", c.Type)
}

func (c Config) createLighthouse(rng *rand.Rand) (env.Environment,
	error) {
	width, height := c.Params.Width, c.Params.Height
	if width <= 0 {
		width = 10
	}
	if height <= 0 {
		height = 10
	}

	goal := env.Position{X: width / 2, Y: height / 2}
	if c.Params.Goal != nil {
		goal = env.Position{X: c.Params.Goal.X, Y: c.Params.Goal.Y}
	}

	return lighthouse.New(width, height, goal, c.Params.WithObstacles, rng)
}

func (c Config) createForaging(rng *rand.Rand) (env.Environment, error) {
	width, height := c.Params.Width, c.Params.Height
	if width <= 0 {
		width = 15
	}
	if height <= 0 {
		height = 15
	}

	numResources := c.Params.NumResources
	if numResources <= 0 {
		numResources = 20
	}
	numNests := c.Params.NumNests
	if numNests <= 0 {
		numNests = 1
	}

	return foraging.New(width, height, numResources, numNests,
		c.Params.WithObstacles, rng)
}

func (c Config) createMaze(rng *rand.Rand) (env.Environment, error) {
	width, height := c.Params.Width, c.Params.Height
	if width <= 0 {
		width = 10
	}
	if height <= 0 {
		height = 10
	}

	density := maze.DefaultWallDensity
	if c.Params.WallDensity != nil {
		density = *c.Params.WallDensity
	}

	entry := env.Position{X: 0, Y: 0}
	if c.Params.Entry != nil {
		entry = env.Position{X: c.Params.Entry.X, Y: c.Params.Entry.Y}
	}
	exit := env.Position{X: width - 1, Y: height - 1}
	if c.Params.Exit != nil {
		exit = env.Position{X: c.Params.Exit.X, Y: c.Params.Exit.Y}
	}

	return maze.New(width, height, density, entry, exit, rng)
}
