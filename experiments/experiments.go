package experiments

import (
	"context"
	"fmt"
	"time"

	"uct/agent"
	"uct/engine"
	"uct/experiments/metrics"
	"uct/game/tictactoe"
	"uct/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Run plays every match-up games times, alternating the starting agent, and
// stores the configs and records through writer. A nil writer keeps the
// records in memory only.
func Run(ctx context.Context, name string, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig, games int, writer *metrics.Writer) ([]metrics.GameRecord, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchUp := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), matchUp[0], matchUp[1])

		for i := 0; i < games; i++ {
			gameMetric, moveMetrics, err := runGame(ctx, matchUp, i)
			if err != nil {
				return gameRecords, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     matchUp[0].ID,
				Agent2:     matchUp[1].ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d of %d with winner: %q", mi+1, len(matchUps), i+1, games, gameMetric.Winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	if writer == nil {
		return gameRecords, nil
	}
	if err := store(writer, configs, gameRecords, moveRecords); err != nil {
		return gameRecords, err
	}
	log.Info().Msgf("stored records in %s", writer.Dir())
	return gameRecords, nil
}

func store(writer *metrics.Writer, configs []metrics.AgentConfig, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) error {
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	return nil
}

// runGame plays one game of a matchup. Odd games let the second agent start.
// Metrics are reported with matchup indices, not seat indices.
func runGame(ctx context.Context, matchUp [2]metrics.AgentConfig, game int) (metrics.GameMetric, []metrics.MoveMetric, error) {
	first, second := 0, 1
	if game%2 == 1 {
		first, second = 1, 0
	}
	labels := [2]string{"agent1", "agent2"}
	e := &engine.Local[int]{
		State: tictactoe.New(),
		Agents: [2]agent.Agent[int]{
			NewAgent(matchUp[first], game),
			NewAgent(matchUp[second], game),
		},
		Labels: [2]string{labels[first], labels[second]},
	}

	_, gameMetric, moveMetrics, err := e.Run(ctx)
	if err != nil {
		return gameMetric, moveMetrics, err
	}
	gameMetric.StartingPlayer = first
	for i := range moveMetrics {
		if moveMetrics[i].Player == 0 {
			moveMetrics[i].Player = first
		} else {
			moveMetrics[i].Player = second
		}
	}
	return gameMetric, moveMetrics, nil
}

// NewAgent builds the agent described by config. A positive seed is offset by
// the game number so repeated games differ but stay reproducible.
func NewAgent(config metrics.AgentConfig, game int) agent.Agent[int] {
	options := []searcher.Option{searcher.WithMetrics()}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExplorationConstant(config.Exploration))
	}
	seed := uint64(time.Now().UnixNano())
	if config.Seed > 0 {
		seed = config.Seed + uint64(game)
		options = append(options, searcher.WithSeed(seed))
	}
	mcts := searcher.NewMCTS[int](options...)

	if config.Temperature > 0 {
		return agent.NewTrainingAgent(mcts, config.Iterations, config.Temperature, rand.New(rand.NewSource(seed^0x9e3779b97f4a7c15)))
	}
	return agent.NewEvaluationAgent(mcts, config.Iterations)
}
