package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uct/agent"
	"uct/config"
	"uct/experiments"
	"uct/experiments/metrics"
	"uct/searcher"
	"uct/server"
	"uct/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

const usage = `usage: uct <command> [flags]

commands:
  play    play tic-tac-toe against the searcher in the terminal
  serve   run the HTTP move server
  arena   play searcher configurations against each other

run "uct <command> --help" for the flags of a command`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	flags := pflag.NewFlagSet(command, pflag.ExitOnError)
	config.RegisterFlags(flags)
	path := flags.String("config", "", "optional config file")
	_ = flags.Parse(args)

	cfg, err := config.Load(*path, flags)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "play":
		err = play(cfg)
	case "serve":
		err = serve(ctx, cfg)
	case "arena":
		err = arena(ctx, cfg)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", command)
	}
}

func setupLogger(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func newMCTS(cfg config.Config) *searcher.MCTS[int] {
	options := []searcher.Option{
		searcher.WithExplorationConstant(cfg.Exploration),
		searcher.WithLogger(log.Logger),
		searcher.WithMetrics(),
	}
	if cfg.Seed > 0 {
		options = append(options, searcher.WithSeed(cfg.Seed))
	}
	return searcher.NewMCTS[int](options...)
}

func play(cfg config.Config) error {
	// The alternate screen owns stdout, so only warnings reach stderr
	zerolog.SetGlobalLevel(max(cfg.Level(), zerolog.WarnLevel))

	model := tui.NewModel(agent.NewEvaluationAgent(newMCTS(cfg), cfg.Iterations), termenv.EnvColorProfile())
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func serve(ctx context.Context, cfg config.Config) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(cfg, log.Logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Msgf("move server listening on %s", cfg.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down move server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func arena(ctx context.Context, cfg config.Config) error {
	preset, err := experiments.NewPreset(cfg.Experiment, cfg.Iterations, cfg.Exploration, cfg.Seed)
	if err != nil {
		return err
	}
	writer, err := metrics.NewWriter(cfg.Output, preset.Name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	records, err := experiments.Run(ctx, preset.Name, preset.Configs, preset.MatchUps, cfg.Games, writer)
	if err != nil {
		return err
	}

	wins := map[string]int{}
	for _, record := range records {
		wins[record.Winner]++
	}
	log.Info().
		Int("games", len(records)).
		Int("agent1", wins["agent1"]).
		Int("agent2", wins["agent2"]).
		Int("draws", wins[""]).
		Msg("arena summary")
	return nil
}
