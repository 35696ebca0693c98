// Package evolutionary implements an evolutionary policy with novelty
// search.
//
// Each individual is an open-loop action sequence spanning a whole
// episode. Between episodes the population is evaluated on rollouts in
// fresh environment instances and evolved one generation: fitness is a
// weighted blend of normalized task reward and normalized novelty,
// where novelty is the mean distance from an individual's behaviour
// descriptor to its nearest neighbours in an archive of past
// descriptors. During live episodes the policy replays the best
// genotype found so far.
package evolutionary

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	env "github.com/SenasCodes/AA-Projeto/environment"
	"github.com/SenasCodes/AA-Projeto/timestep"
	"github.com/SenasCodes/AA-Projeto/utils/floatutils"
)

// An EnvironmentMaker returns a fresh environment instance with the
// owning agent already installed at its starting position, used for
// fitness rollouts that never touch the live simulation's environment.
type EnvironmentMaker func() (env.Environment, error)

// Evolutionary implements the evolutionary agent policy
type Evolutionary struct {
	id      string
	config  Config
	actions []env.Action
	length  int
	rng     *rand.Rand
	makeEnv EnvironmentMaker

	population []Genotype
	taskReward []float64
	combined   []float64
	archive    *Archive

	best       Genotype
	bestReward float64

	// Statistics of the most recently evaluated generation
	meanReward  float64
	maxReward   float64
	meanNovelty float64
	diversity   int // distinct behaviour descriptors

	learning   bool
	generation int
	cursor     int
}

// New creates an evolutionary agent whose genotypes span length steps
// over the given action set. The initial population is sampled
// uniformly and evaluated once, so the best genotype is available
// before the first live episode.
func New(id string, actions []env.Action, length int, config Config,
	makeEnv EnvironmentMaker, seed uint64) (*Evolutionary, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, env.NewConfigurationError("evolutionary: empty " +
			"action set")
	}
	if length < 1 {
		return nil, env.NewConfigurationError("evolutionary: genotype "+
			"length must be positive, got %v", length)
	}
	if makeEnv == nil {
		return nil, env.NewConfigurationError("evolutionary: no " +
			"environment maker for fitness rollouts")
	}

	e := &Evolutionary{
		id:         id,
		config:     config,
		actions:    actions,
		length:     length,
		rng:        rand.New(rand.NewSource(seed)),
		makeEnv:    makeEnv,
		archive:    NewArchive(config.ArchiveCapacity),
		bestReward: math.Inf(-1),
		learning:   config.Learning,
	}

	e.population = make([]Genotype, config.PopulationSize)
	for i := range e.population {
		e.population[i] = randomGenotype(length, actions, e.rng)
	}
	if err := e.evaluate(); err != nil {
		return nil, err
	}
	return e, nil
}

// ID returns the agent's identity
func (e *Evolutionary) ID() string {
	return e.id
}

// rollout plays one genotype in a fresh environment, returning its
// cumulative task reward and its behaviour descriptor: final position,
// number of distinct cells visited, and number of deposits made.
func (e *Evolutionary) rollout(g Genotype) (float64, []float64, error) {
	world, err := e.makeEnv()
	if err != nil {
		return 0, nil, err
	}
	world.Reset()

	obs, err := world.ObservationFor(e.id)
	if err != nil {
		return 0, nil, err
	}
	visited := map[env.Position]bool{obs.Position: true}
	last := obs.Position
	carrying := obs.Carrying

	var total float64
	deposits := 0
	for _, action := range g {
		reward, err := world.Act(action, e.id)
		if err != nil {
			return 0, nil, err
		}
		total += reward
		world.Advance()

		obs, err = world.ObservationFor(e.id)
		if err != nil {
			return 0, nil, err
		}
		visited[obs.Position] = true
		last = obs.Position
		if action == env.Deposit && carrying > 0 && obs.Carrying == 0 {
			deposits++
		}
		carrying = obs.Carrying

		if world.IsTerminal() {
			break
		}
	}

	descriptor := []float64{
		float64(last.X),
		float64(last.Y),
		float64(len(visited)),
		float64(deposits),
	}
	return total, descriptor, nil
}

// evaluate scores the current population. Novelty is computed against
// the archive as it stood before this generation; afterwards every
// descriptor is archived. The best genotype by task reward is tracked
// monotonically across generations.
func (e *Evolutionary) evaluate() error {
	n := len(e.population)
	e.taskReward = make([]float64, n)
	novelty := make([]float64, n)
	descriptors := make([][]float64, n)

	for i, g := range e.population {
		reward, descriptor, err := e.rollout(g)
		if err != nil {
			return err
		}
		e.taskReward[i] = reward
		descriptors[i] = descriptor
		novelty[i] = e.archive.Novelty(descriptor, e.config.KNeighbors)
	}

	normTask := floatutils.Normalize(e.taskReward)
	normNovelty := floatutils.Normalize(novelty)
	w := e.config.NoveltyWeight
	e.combined = make([]float64, n)
	for i := range e.combined {
		e.combined[i] = (1-w)*normTask[i] + w*normNovelty[i]
	}

	distinct := make(map[string]bool, n)
	for _, descriptor := range descriptors {
		e.archive.Add(descriptor)
		distinct[fmt.Sprint(descriptor)] = true
	}
	e.meanReward = stat.Mean(e.taskReward, nil)
	e.maxReward = floatutils.Max(e.taskReward...)
	e.meanNovelty = stat.Mean(novelty, nil)
	e.diversity = len(distinct)

	for i, reward := range e.taskReward {
		if reward > e.bestReward {
			e.bestReward = reward
			e.best = e.population[i].Clone()
		}
	}
	return nil
}

// tournament picks the fittest of TournamentSize uniformly sampled
// individuals
func (e *Evolutionary) tournament() Genotype {
	winner := e.rng.Intn(len(e.population))
	for i := 1; i < e.config.TournamentSize; i++ {
		challenger := e.rng.Intn(len(e.population))
		if e.combined[challenger] > e.combined[winner] {
			winner = challenger
		}
	}
	return e.population[winner]
}

// evolve produces and evaluates the next generation: elites carry over
// unchanged, the rest come from tournament selection, one-point
// crossover, and per-gene mutation. Population size is constant.
func (e *Evolutionary) evolve() error {
	n := len(e.population)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return e.combined[order[i]] > e.combined[order[j]]
	})

	elites := int(e.config.ElitismRate * float64(n))
	if elites > n {
		elites = n
	}

	next := make([]Genotype, 0, n)
	for _, idx := range order[:elites] {
		next = append(next, e.population[idx].Clone())
	}

	for len(next) < n {
		mother, father := e.tournament(), e.tournament()

		var first, second Genotype
		if e.rng.Float64() < e.config.CrossoverRate {
			first, second = crossover(mother, father, e.rng)
		} else {
			first, second = mother.Clone(), father.Clone()
		}

		first.mutate(e.config.MutationRate, e.actions, e.rng)
		next = append(next, first)
		if len(next) < n {
			second.mutate(e.config.MutationRate, e.actions, e.rng)
			next = append(next, second)
		}
	}

	e.population = next
	e.generation++
	return e.evaluate()
}

// ObserveFirst rewinds the replay cursor for a new live episode
func (e *Evolutionary) ObserveFirst(t timestep.TimeStep) {
	e.cursor = 0
}

// Observe is a no-op: the policy is open-loop, and learning happens on
// rollouts between episodes rather than on live timesteps
func (e *Evolutionary) Observe(t timestep.TimeStep) {}

// SelectAction replays the next gene of the best genotype. An episode
// outliving the genotype gets Wait for the remaining steps.
func (e *Evolutionary) SelectAction() env.Action {
	if e.cursor >= len(e.best) {
		return env.Wait
	}
	action := e.best[e.cursor]
	e.cursor++
	return action
}

// EndEpisode evolves the population one generation in training mode.
// Rollout errors are fatal at construction but an evolved generation
// reuses the same environment maker, so a failure here means the maker
// itself broke; the policy then freezes on its current best.
func (e *Evolutionary) EndEpisode() {
	if !e.learning {
		return
	}
	if err := e.evolve(); err != nil {
		e.learning = false
	}
}

// Eval freezes the population and keeps replaying the best genotype
func (e *Evolutionary) Eval() {
	e.learning = false
}

// Train re-enables between-episode evolution
func (e *Evolutionary) Train() {
	e.learning = true
}

// IsEval indicates if the policy is in evaluation mode
func (e *Evolutionary) IsEval() bool {
	return !e.learning
}

// Generation returns the number of generations evolved so far
func (e *Evolutionary) Generation() int {
	return e.generation
}

// BestReward returns the best task reward found over all generations
func (e *Evolutionary) BestReward() float64 {
	return e.bestReward
}

// PopulationSize returns the constant population size
func (e *Evolutionary) PopulationSize() int {
	return len(e.population)
}

// ArchiveLen returns the number of archived behaviour descriptors
func (e *Evolutionary) ArchiveLen() int {
	return e.archive.Len()
}

// Stats reports the policy-specific counters collected into episode
// metrics
func (e *Evolutionary) Stats() map[string]float64 {
	return map[string]float64{
		"generation":   float64(e.generation),
		"best_reward":  e.bestReward,
		"mean_reward":  e.meanReward,
		"max_reward":   e.maxReward,
		"mean_novelty": e.meanNovelty,
		"diversity":    float64(e.diversity),
		"archive":      float64(e.archive.Len()),
		"population":   float64(len(e.population)),
	}
}
