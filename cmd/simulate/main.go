// Command simulate runs a small two-character party against a single
// target and prints the resulting combat report. It is a demonstration
// host, not a production API surface — no HTTP, no persistence.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"combatsim/pkg/combat"
	"combatsim/pkg/combat/roster"
	"combatsim/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "optional path to a YAML config overriding the defaults")
	seconds := flag.Float64("seconds", 30, "simulated combat duration in seconds")
	seed := flag.Int64("seed", 1, "deterministic RNG seed")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromYAML(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	reg := combat.NewRegistry()
	roster.Register(reg, cfg)

	input := combat.SimulationInput{
		DurationSeconds: *seconds,
		Seed:            *seed,
		Target: combat.TargetInput{
			Name:     "Training Dummy",
			Level:    80,
			MaxHP:    500000,
			Defense:  600,
			PhysRes:  0.1,
			MagicRes: 0.1,
		},
		Characters: []combat.CharacterInput{
			{
				Kind:  roster.KindHeatStriker,
				ID:    "p1",
				Name:  "Ember",
				Level: 80,
				Script: `
wait 0.5
skill
wait 2
a1
a2
a3
a4
a5
wait 3
ult
wait_until 20
skill
`,
			},
			{
				Kind:  roster.KindImpactStriker,
				ID:    "p2",
				Name:  "Warden",
				Level: 80,
				Script: `
wait 0.8
a1
a2
a3
a4
wait 1
skill
wait 4
ult
`,
			},
		},
	}

	out := combat.RunSimulation(cfg, reg, input)

	fmt.Println(out.Statistics.GenerateReport())
	fmt.Printf("Total damage across party: %d\n", out.TotalDamage)
	fmt.Printf("Roster: %v\n", out.CharacterNames)
	for _, line := range out.Logs {
		fmt.Printf("[%.1fs][%s] %s\n", line.Time, line.Type, line.Message)
	}
}
