package experiments

import (
	"fmt"
	"slices"

	"uct/experiments/metrics"
)

type Preset struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
}

// PresetNames lists the experiments accepted by NewPreset
func PresetNames() []string {
	return []string{"selfplay", "iterations", "exploration"}
}

// NewPreset builds a named experiment around a baseline searcher
func NewPreset(name string, iterations int, exploration float64, seed uint64) (Preset, error) {
	baseline := metrics.AgentConfig{ID: 0, Iterations: iterations, Exploration: exploration, Seed: seed}
	switch name {
	case "selfplay":
		// Same config for both players, the outcome should be mostly draws
		return Preset{
			Name:     name,
			Configs:  []metrics.AgentConfig{baseline},
			MatchUps: [][2]metrics.AgentConfig{{baseline, baseline}},
		}, nil
	case "iterations":
		configs := []metrics.AgentConfig{}
		for i, divisor := range []int{16, 4, 2} {
			configs = append(configs, metrics.AgentConfig{
				ID:          i + 1,
				Iterations:  max(1, iterations/divisor),
				Exploration: exploration,
				Seed:        seed,
			})
		}
		return against(name, baseline, configs), nil
	case "exploration":
		configs := []metrics.AgentConfig{}
		for i, c := range []float64{0.25, 0.7, 2.8} {
			configs = append(configs, metrics.AgentConfig{
				ID:          i + 1,
				Iterations:  iterations,
				Exploration: c,
				Seed:        seed,
			})
		}
		return against(name, baseline, configs), nil
	default:
		return Preset{}, fmt.Errorf("unknown experiment %q, expected one of %v", name, PresetNames())
	}
}

// against pairs the baseline with each config
func against(name string, baseline metrics.AgentConfig, configs []metrics.AgentConfig) Preset {
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Preset{
		Name:     name,
		Configs:  append(slices.Clone(configs), baseline),
		MatchUps: matchUps,
	}
}
