package foraging

import (
	"errors"
	"testing"

	"golang.org/x/exp/rand"

	env "github.com/SenasCodes/AA-Projeto/environment"
)

func newTest(t *testing.T, width, height, resources, nests int) *Foraging {
	t.Helper()
	f, err := New(width, height, resources, nests, false,
		rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("could not create foraging environment: %v", err)
	}
	return f
}

// findCells scans the grid for every cell of the given kind
func findCells(f *Foraging, kind env.Cell) []env.Position {
	width, height := f.Dims()
	var cells []env.Position
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := env.Position{X: x, Y: y}
			if f.CellAt(p) == kind {
				cells = append(cells, p)
			}
		}
	}
	return cells
}

func TestNewValidation(t *testing.T) {
	_, err := New(5, 5, 0, 1, false, rand.New(rand.NewSource(1)))

	var confErr *env.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("zero resources should be a ConfigurationError, got %v",
			err)
	}
}

func TestNestsOnEdges(t *testing.T) {
	f := newTest(t, 9, 9, 1, 4)

	for _, nest := range findCells(f, env.CellNest) {
		onEdge := nest.X == 0 || nest.X == 8 || nest.Y == 0 || nest.Y == 8
		if !onEdge {
			t.Errorf("nest at %v is not on a grid edge", nest)
		}
	}
}

func TestCollectDepositCycle(t *testing.T) {
	f := newTest(t, 7, 7, 1, 1)
	if err := f.Install("a1", env.Position{X: 3, Y: 3}); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	resources := findCells(f, env.CellResource)
	nests := findCells(f, env.CellNest)
	if len(resources) != 1 || len(nests) != 1 {
		t.Fatalf("expected 1 resource and 1 nest, got %v and %v",
			len(resources), len(nests))
	}

	// Empty-handed deposit attempts and collects on bare cells are
	// penalties, never errors
	if reward, _ := f.Act(env.Collect, "a1"); reward != EmptyCollectReward {
		t.Errorf("collecting on a bare cell: expected %v, got %v",
			EmptyCollectReward, reward)
	}

	f.SetAgentPosition("a1", resources[0])
	obs, _ := f.ObservationFor("a1")
	if !obs.CanCollect {
		t.Error("observation should allow collecting on a resource cell")
	}

	reward, err := f.Act(env.Collect, "a1")
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if reward != CollectReward {
		t.Errorf("collect: expected %v, got %v", CollectReward, reward)
	}
	value := f.Carrying("a1")
	if value < 1 || value > 5 {
		t.Errorf("carried value should be in [1, 5], got %v", value)
	}

	if reward, _ = f.Act(env.Collect, "a1"); reward != FullCollectReward {
		t.Errorf("collecting while carrying: expected %v, got %v",
			FullCollectReward, reward)
	}
	if reward, _ = f.Act(env.Deposit, "a1"); reward != NoNestDepositReward {
		t.Errorf("depositing off-nest: expected %v, got %v",
			NoNestDepositReward, reward)
	}

	f.SetAgentPosition("a1", nests[0])
	obs, _ = f.ObservationFor("a1")
	if !obs.CanDeposit {
		t.Error("observation should allow depositing on a nest while " +
			"carrying")
	}

	reward, err = f.Act(env.Deposit, "a1")
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if expected := DepositBaseReward + float64(value); reward != expected {
		t.Errorf("deposit: expected %v, got %v", expected, reward)
	}

	if reward, _ = f.Act(env.Deposit, "a1"); reward != EmptyDepositReward {
		t.Errorf("depositing empty-handed: expected %v, got %v",
			EmptyDepositReward, reward)
	}

	deposited, total := f.Deposited()
	if deposited != 1 || total != value {
		t.Errorf("expected 1 deposit worth %v, got %v worth %v", value,
			deposited, total)
	}

	f.Advance()
	if !f.IsTerminal() {
		t.Error("episode should end once every resource is deposited")
	}
}

func TestEpisodeContinuesWhileCarrying(t *testing.T) {
	f := newTest(t, 7, 7, 1, 1)
	if err := f.Install("a1", env.Position{X: 3, Y: 3}); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	f.SetAgentPosition("a1", findCells(f, env.CellResource)[0])
	if _, err := f.Act(env.Collect, "a1"); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	f.Advance()
	if f.IsTerminal() {
		t.Error("episode should continue while a resource is carried")
	}
}

func TestResetRegeneratesLayout(t *testing.T) {
	f := newTest(t, 10, 10, 5, 2)
	if err := f.Install("a1", env.Position{X: 5, Y: 5}); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	f.SetAgentPosition("a1", findCells(f, env.CellResource)[0])
	if _, err := f.Act(env.Collect, "a1"); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	f.Reset()

	if f.Carrying("a1") != 0 {
		t.Error("reset should empty carried resources")
	}
	if got := len(findCells(f, env.CellResource)); got != 5 {
		t.Errorf("reset should regenerate all 5 resources, got %v", got)
	}
	if f.Collected() != 0 {
		t.Error("reset should clear the collected counter")
	}
}

func TestObservationSightings(t *testing.T) {
	f := newTest(t, 10, 10, 5, 2)
	if err := f.Install("a1", env.Position{X: 5, Y: 5}); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	obs, err := f.ObservationFor("a1")
	if err != nil {
		t.Fatalf("observationFor failed: %v", err)
	}
	for _, sighting := range obs.Resources {
		if sighting.Distance > resourceSight {
			t.Errorf("resource at %v is beyond sight radius %v",
				sighting.Position, resourceSight)
		}
	}
	for _, sighting := range obs.Nests {
		if sighting.Distance > nestSight {
			t.Errorf("nest at %v is beyond sight radius %v",
				sighting.Position, nestSight)
		}
	}
	for i := 1; i < len(obs.Resources); i++ {
		if obs.Resources[i].Distance < obs.Resources[i-1].Distance {
			t.Error("resource sightings should be sorted by distance")
		}
	}
}
