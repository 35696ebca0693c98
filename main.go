package main

import (
	"fmt"
	"log"
	"os"

	"github.com/SenasCodes/AA-Projeto/agent"
	"github.com/SenasCodes/AA-Projeto/environment/envconfig"
	"github.com/SenasCodes/AA-Projeto/render"
	"github.com/SenasCodes/AA-Projeto/simulation"
	"github.com/SenasCodes/AA-Projeto/simulation/tracker"
)

// demoConfig is used when no configuration file is given: one agent of
// each policy racing to the lighthouse
func demoConfig() simulation.Config {
	return simulation.Config{
		TotalSteps: 200,
		Episodes:   50,
		Seed:       192382,
		Discount:   0.95,
		Environment: envconfig.Config{
			Type: envconfig.Lighthouse,
			Params: envconfig.Params{
				Width:         10,
				Height:        10,
				WithObstacles: true,
			},
		},
		Agents: []simulation.AgentConfig{
			{ID: "reativo_1", Type: agent.Reactive,
				Start: envconfig.Position{X: 0, Y: 0}},
			{ID: "qlearning_1", Type: agent.QLearning,
				Start: envconfig.Position{X: 9, Y: 0}},
			{ID: "genetico_1", Type: agent.Genetic,
				Start: envconfig.Position{X: 0, Y: 9}},
		},
	}
}

func main() {
	config := demoConfig()
	if len(os.Args) > 1 {
		loaded, err := simulation.LoadConfig(os.Args[1])
		if err != nil {
			log.Fatalf("could not load configuration: %v", err)
		}
		config = loaded
	}

	engine, err := config.CreateEngine()
	if err != nil {
		log.Fatalf("could not create simulation: %v", err)
	}

	returns := tracker.NewReturn("./returns.bin")
	engine.Register(returns)
	engine.Register(tracker.NewEpisodeLength("./lengths.bin"))

	if config.Visualize {
		renderer, err := render.New("./frames")
		if err != nil {
			log.Fatalf("could not create renderer: %v", err)
		}
		engine.SetVisualizer(renderer)
	}

	metrics, err := engine.Run()
	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	// Persist learned models where a policy has one configured
	for _, a := range engine.Agents() {
		if saver, ok := a.(interface{ SaveModel() error }); ok {
			if err := saver.SaveModel(); err != nil {
				log.Printf("could not save model of %v: %v", a.ID(), err)
			}
		}
	}

	for _, summary := range metrics.Summarize() {
		fmt.Println(summary)
	}

	data, err := tracker.LoadReturns("./returns.bin")
	if err != nil {
		log.Fatalf("could not load return data: %v", err)
	}
	for _, id := range metrics.AgentIDs() {
		series := data[id]
		if len(series) > 10 {
			series = series[len(series)-10:]
		}
		fmt.Printf("%v last returns: %.2f\n", id, series)
	}
}
