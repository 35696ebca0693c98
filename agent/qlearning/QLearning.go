// Package qlearning implements tabular Q-learning.
//
// The policy keeps a lazily growing table of action values over
// discretized observation keys and explores with an ε-greedy policy
// whose ε decays multiplicatively after every decision, floored at a
// configured minimum. In evaluation mode ε is treated as zero and the
// table is frozen.
package qlearning

import (
	"log"
	"os"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	env "github.com/SenasCodes/AA-Projeto/environment"
	"github.com/SenasCodes/AA-Projeto/timestep"
	"github.com/SenasCodes/AA-Projeto/utils/floatutils"
)

// QLearning implements the Q-learning agent policy
type QLearning struct {
	id      string
	config  Config
	actions []env.Action
	source  rand.Source

	epsilon  float64
	learning bool
	table    map[string][]float64 // state key -> value per action

	last       env.Observation
	seen       bool
	lastKey    string
	lastAction int // index into actions, -1 when no previous pair

	decisions int
	episodes  int
}

// New creates a new QLearning agent choosing among the given actions.
// The action slice order is the tie-breaking priority order. If the
// Config names a model file the Q-table is loaded from it; a missing
// model file is not an error, the agent simply starts with an empty
// table.
func New(id string, actions []env.Action, config Config,
	seed uint64) (*QLearning, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, env.NewConfigurationError("qlearning: empty action set")
	}

	q := &QLearning{
		id:         id,
		config:     config,
		actions:    actions,
		source:     rand.NewSource(seed),
		epsilon:    config.Epsilon,
		learning:   config.Learning,
		table:      make(map[string][]float64),
		lastAction: -1,
	}

	if config.ModelFile != "" {
		if err := q.LoadTable(config.ModelFile); err != nil {
			if os.IsNotExist(err) {
				log.Printf("qlearning [%v]: model %v not found, starting "+
					"with an empty table", id, config.ModelFile)
			} else {
				return nil, err
			}
		}
	}

	return q, nil
}

// ID returns the agent's identity
func (q *QLearning) ID() string {
	return q.id
}

// values returns the action values of a state key, initializing
// unseen keys to zero for every action first. Keys are never removed.
func (q *QLearning) values(key string) []float64 {
	if vals, ok := q.table[key]; ok {
		return vals
	}
	vals := make([]float64, len(q.actions))
	q.table[key] = vals
	return vals
}

// ObserveFirst records the first observation of an episode and clears
// the previous state-action pair
func (q *QLearning) ObserveFirst(t timestep.TimeStep) {
	if !t.First() {
		log.Printf("qlearning [%v]: ObserveFirst called on timestep %v",
			q.id, t.Number)
	}
	q.last = t.Observation
	q.seen = true
	q.lastKey = ""
	q.lastAction = -1
}

// Observe records an observation and, in learning mode, applies the
// Q-learning update for the transition that produced it:
//
//	Q[s,a] ← Q[s,a] + α(r + γ·max_a' Q[s',a'] − Q[s,a])
func (q *QLearning) Observe(t timestep.TimeStep) {
	q.last = t.Observation
	q.seen = true

	if !q.learning || q.lastAction < 0 {
		return
	}

	nextKey := StateKey(t.Observation)
	nextMax, _ := floatutils.MaxSlice(q.values(nextKey))

	vals := q.values(q.lastKey)
	current := vals[q.lastAction]
	target := t.Reward + q.config.Discount*nextMax
	vals[q.lastAction] = current + q.config.LearningRate*(target-current)
}

// SelectAction chooses an ε-greedy action over the current state key.
// In evaluation mode ε is treated as zero. Ties in the greedy argmax
// are broken by the fixed action priority order. After a learning-mode
// selection ε is decayed, floored at the configured minimum, so that
// after n decisions ε = max(εmin, ε₀·decayⁿ).
func (q *QLearning) SelectAction() env.Action {
	if !q.seen {
		return env.Wait
	}
	if q.last.AtGoal {
		// Nothing left to learn from this state; hold position
		q.lastAction = -1
		return env.Wait
	}

	key := StateKey(q.last)
	vals := q.values(key)
	_, maxIndices := floatutils.MaxSlice(vals)
	greedy := maxIndices[0]

	epsilon := q.epsilon
	if !q.learning {
		epsilon = 0
	}

	// Categorical action distribution: ε spread uniformly over all
	// actions, the remaining mass on the greedy one
	probs := make([]float64, len(q.actions))
	for i := range probs {
		probs[i] = epsilon / float64(len(q.actions))
	}
	probs[greedy] += 1.0 - epsilon

	dist := distuv.NewCategorical(probs, q.source)
	choice := int(dist.Rand())

	q.lastKey = key
	q.lastAction = choice
	q.decisions++

	if q.learning {
		q.epsilon = floatutils.Max(q.config.EpsilonMin,
			q.epsilon*q.config.EpsilonDecay)
	}

	return q.actions[choice]
}

// EndEpisode clears the pending state-action pair. The table and ε
// persist across episodes within a run.
func (q *QLearning) EndEpisode() {
	q.episodes++
	q.lastKey = ""
	q.lastAction = -1
	q.seen = false
}

// Eval freezes the table and disables exploration
func (q *QLearning) Eval() {
	q.learning = false
}

// Train re-enables learning and exploration
func (q *QLearning) Train() {
	q.learning = true
}

// IsEval indicates if the policy is in evaluation mode
func (q *QLearning) IsEval() bool {
	return !q.learning
}

// SaveModel persists the Q-table to the configured model file. It is a
// no-op when no model file is configured or the policy is frozen.
func (q *QLearning) SaveModel() error {
	if q.config.ModelFile == "" || !q.learning {
		return nil
	}
	return q.SaveTable(q.config.ModelFile)
}

// Epsilon returns the current exploration rate
func (q *QLearning) Epsilon() float64 {
	return q.epsilon
}

// TableSize returns the number of state keys learned so far
func (q *QLearning) TableSize() int {
	return len(q.table)
}

// Stats reports the policy-specific counters collected into episode
// metrics
func (q *QLearning) Stats() map[string]float64 {
	return map[string]float64{
		"epsilon":   q.epsilon,
		"states":    float64(len(q.table)),
		"decisions": float64(q.decisions),
	}
}
