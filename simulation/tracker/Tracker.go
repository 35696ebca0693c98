// Package tracker provides Trackers for saving time series of
// simulation data to disk. Trackers receive every timestep the engine
// delivers to every agent and persist their series with gob once the
// run is over.
package tracker

import "github.com/SenasCodes/AA-Projeto/timestep"

// Tracker tracks a per-agent time series over a run
type Tracker interface {
	// Track records one timestep delivered to one agent
	Track(agentID string, t timestep.TimeStep)

	// Save persists the tracked data to disk
	Save() error
}
