package evolutionary

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Archive is the bounded novelty archive: the behaviour descriptors of
// every individual evaluated in past generations, in insertion order.
// Once the capacity is reached the oldest descriptors are evicted
// first.
type Archive struct {
	capacity int
	entries  [][]float64
}

// NewArchive creates an archive holding at most capacity descriptors
func NewArchive(capacity int) *Archive {
	return &Archive{capacity: capacity}
}

// Add appends a descriptor, evicting the oldest entry when full
func (a *Archive) Add(descriptor []float64) {
	entry := make([]float64, len(descriptor))
	copy(entry, descriptor)

	a.entries = append(a.entries, entry)
	if len(a.entries) > a.capacity {
		a.entries = a.entries[len(a.entries)-a.capacity:]
	}
}

// Len returns the number of archived descriptors
func (a *Archive) Len() int {
	return len(a.entries)
}

// Novelty scores a descriptor as the mean Euclidean distance to its k
// nearest archived descriptors. Against an empty archive every
// descriptor is maximally novel and scores 1.
func (a *Archive) Novelty(descriptor []float64, k int) float64 {
	if len(a.entries) == 0 {
		return 1.0
	}

	distances := make([]float64, len(a.entries))
	for i, entry := range a.entries {
		distances[i] = floats.Distance(descriptor, entry, 2)
	}
	sort.Float64s(distances)

	if k > len(distances) {
		k = len(distances)
	}
	return floats.Sum(distances[:k]) / float64(k)
}
