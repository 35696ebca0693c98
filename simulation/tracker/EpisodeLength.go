package tracker

import (
	"encoding/gob"
	"os"

	"github.com/SenasCodes/AA-Projeto/timestep"
)

// EpisodeLength tracks and saves the number of steps in each episode
// of a run, per agent. Episodes that never deliver a last timestep are
// not recorded.
type EpisodeLength struct {
	lengths  map[string][]int
	filename string
}

// NewEpisodeLength creates an EpisodeLength Tracker saving to filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{
		lengths:  make(map[string][]int),
		filename: filename,
	}
}

// Track records the episode length once the last timestep arrives
func (e *EpisodeLength) Track(agentID string, t timestep.TimeStep) {
	if t.Last() {
		e.lengths[agentID] = append(e.lengths[agentID], t.Number)
	}
}

// Lengths exposes the per-agent episode lengths tracked so far
func (e *EpisodeLength) Lengths(agentID string) []int {
	return e.lengths[agentID]
}

// Save gob-encodes the per-agent episode lengths to the Tracker's file
func (e *EpisodeLength) Save() error {
	file, err := os.Create(e.filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(e.lengths)
}
