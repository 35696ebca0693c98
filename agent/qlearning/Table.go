package qlearning

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// tableFile is the JSON layout of a persisted Q-table: state key to
// action name to value. Action names rather than indices keep saved
// tables readable and independent of the in-memory action order.
type tableFile map[string]map[string]float64

// SaveTable writes the Q-table to path as JSON, creating parent
// directories as needed
func (q *QLearning) SaveTable(path string) error {
	out := make(tableFile, len(q.table))
	for key, vals := range q.table {
		row := make(map[string]float64, len(vals))
		for i, v := range vals {
			row[q.actions[i].String()] = v
		}
		out[key] = row
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadTable replaces the Q-table with the one stored at path. Values
// for actions outside the agent's action set are dropped.
func (q *QLearning) LoadTable(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var in tableFile
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	q.table = make(map[string][]float64, len(in))
	for key, row := range in {
		vals := make([]float64, len(q.actions))
		for i, a := range q.actions {
			vals[i] = row[a.String()]
		}
		q.table[key] = vals
	}
	return nil
}
