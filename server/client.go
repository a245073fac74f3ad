package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"uct/agent"
	"uct/experiments/metrics"
	"uct/game"
	"uct/game/tictactoe"
)

var ErrUnsupportedState = errors.New("unsupported state")

// Client is an agent that asks a remote move server for its moves
type Client struct {
	baseURL    string
	iterations int
	http       *http.Client
}

var _ agent.Agent[int] = (*Client)(nil)

// NewClient returns a client of the server at baseURL. A nil httpClient uses
// http.DefaultClient.
func NewClient(baseURL string, iterations int, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, iterations: iterations, http: httpClient}
}

func (c *Client) FindMove(ctx context.Context, state game.State[int]) (int, metrics.SearchMetric, error) {
	board, ok := state.(tictactoe.Board)
	if !ok {
		return 0, metrics.SearchMetric{}, fmt.Errorf("%w: %T", ErrUnsupportedState, state)
	}

	body, err := json.Marshal(FindMoveRequest{
		Board:      board.Compact(),
		Player:     board.Player(),
		Iterations: c.iterations,
	})
	if err != nil {
		return 0, metrics.SearchMetric{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/findmove", bytes.NewReader(body))
	if err != nil {
		return 0, metrics.SearchMetric{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, metrics.SearchMetric{}, fmt.Errorf("failed to request move: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return 0, metrics.SearchMetric{}, fmt.Errorf("move server returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var payload FindMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, metrics.SearchMetric{}, fmt.Errorf("failed to decode move: %w", err)
	}
	return payload.Move, metrics.SearchMetric{Budget: c.iterations, Iterations: payload.Iterations}, nil
}
