package tracker

import (
	"encoding/gob"
	"os"

	"github.com/SenasCodes/AA-Projeto/timestep"
)

// Return tracks and saves the episodic return of every agent in a run.
// On each timestep the reward is accumulated into the agent's running
// return; when the episode's last timestep arrives the accumulated
// return is appended to that agent's series.
//
// An episode must finish for its return to be saved: an episode cut
// short mid-run leaves its partial return unrecorded.
type Return struct {
	current  map[string]float64
	returns  map[string][]float64
	filename string
}

// NewReturn creates a Return Tracker saving to filename
func NewReturn(filename string) *Return {
	return &Return{
		current:  make(map[string]float64),
		returns:  make(map[string][]float64),
		filename: filename,
	}
}

// Track accumulates the reward on a timestep into the agent's return
// for the current episode
func (r *Return) Track(agentID string, t timestep.TimeStep) {
	r.current[agentID] += t.Reward
	if t.Last() {
		r.returns[agentID] = append(r.returns[agentID], r.current[agentID])
		r.current[agentID] = 0
	}
}

// Returns exposes the per-agent return series tracked so far
func (r *Return) Returns(agentID string) []float64 {
	return r.returns[agentID]
}

// Save gob-encodes the per-agent return series to the Tracker's file
func (r *Return) Save() error {
	file, err := os.Create(r.filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(r.returns)
}

// LoadReturns reads back the per-agent return series a Return Tracker
// saved
func LoadReturns(filename string) (map[string][]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var returns map[string][]float64
	if err := gob.NewDecoder(file).Decode(&returns); err != nil {
		return nil, err
	}
	return returns, nil
}
