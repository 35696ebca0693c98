package simulation

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// EpisodeMetrics records what one agent did over one episode
type EpisodeMetrics struct {
	AgentID string
	Episode int

	// Return is the cumulative reward; DiscountedReturn discounts each
	// step's reward by the engine's configured discount factor
	Return           float64
	DiscountedReturn float64

	Steps   int
	Success bool

	// Stats carries policy-specific counters reported at episode end,
	// nil for policies that report none
	Stats map[string]float64
}

// observe folds one timestep's reward into the episode record
func (m *EpisodeMetrics) observe(reward, discountPow float64, step int,
	success bool) {
	m.Return += reward
	m.DiscountedReturn += discountPow * reward
	m.Steps = step
	m.Success = success
}

// RunMetrics collects the EpisodeMetrics of every agent over a run
type RunMetrics struct {
	order    []string
	episodes map[string][]EpisodeMetrics
}

func newRunMetrics(agentIDs []string) *RunMetrics {
	m := &RunMetrics{
		order:    append([]string(nil), agentIDs...),
		episodes: make(map[string][]EpisodeMetrics, len(agentIDs)),
	}
	return m
}

func (m *RunMetrics) add(record EpisodeMetrics) {
	m.episodes[record.AgentID] = append(m.episodes[record.AgentID], record)
}

// AgentIDs returns the agent ids in their configured order
func (m *RunMetrics) AgentIDs() []string {
	return m.order
}

// Episodes returns one agent's episode records in episode order
func (m *RunMetrics) Episodes(agentID string) []EpisodeMetrics {
	return m.episodes[agentID]
}

// Summary aggregates one agent's episodes over a whole run
type Summary struct {
	AgentID     string
	Episodes    int
	MeanReturn  float64
	StdReturn   float64
	MeanSteps   float64
	SuccessRate float64
}

func (s Summary) String() string {
	return fmt.Sprintf("%v: episodes=%v  return=%.2f±%.2f  steps=%.1f  "+
		"success=%.0f%%", s.AgentID, s.Episodes, s.MeanReturn, s.StdReturn,
		s.MeanSteps, 100*s.SuccessRate)
}

// Summarize aggregates the run per agent, in configured agent order
func (m *RunMetrics) Summarize() []Summary {
	summaries := make([]Summary, 0, len(m.order))
	for _, id := range m.order {
		records := m.episodes[id]
		if len(records) == 0 {
			summaries = append(summaries, Summary{AgentID: id})
			continue
		}

		returns := make([]float64, len(records))
		steps := make([]float64, len(records))
		successes := 0.0
		for i, record := range records {
			returns[i] = record.Return
			steps[i] = float64(record.Steps)
			if record.Success {
				successes++
			}
		}

		std := 0.0
		if len(returns) > 1 {
			std = stat.StdDev(returns, nil)
		}
		summaries = append(summaries, Summary{
			AgentID:     id,
			Episodes:    len(records),
			MeanReturn:  stat.Mean(returns, nil),
			StdReturn:   std,
			MeanSteps:   stat.Mean(steps, nil),
			SuccessRate: successes / float64(len(records)),
		})
	}
	return summaries
}
