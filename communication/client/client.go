package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"checkers/communication"
	"checkers/game"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Client is a player whose decisions are made by a remote agent.
type Client struct {
	serverURL string
	name      string
	http      *http.Client
}

// NewClient initializes and returns a new Client. A zero timeout waits
// forever for the agent.
func NewClient(serverURL, name string, timeout time.Duration) *Client {
	return &Client{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		name:      name,
		http:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) Decide(state *game.State) (int, error) {
	body, err := json.Marshal(communication.DecideRequest{History: state.History()})
	if err != nil {
		return 0, errors.Wrap(err, "encoding request")
	}

	resp, err := c.http.Post(c.serverURL+communication.DecidePath, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, errors.Wrapf(err, "requesting move from %s", c.name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return 0, errors.Errorf("agent %s returned status %d: %s", c.name, resp.StatusCode, strings.TrimSpace(string(out)))
	}

	var decided communication.DecideResponse
	if err := json.NewDecoder(resp.Body).Decode(&decided); err != nil {
		return 0, errors.Wrapf(err, "decoding move from %s", c.name)
	}
	return decided.Action, nil
}

// Reset asks the agent to drop its per-game state. Failures are logged: the
// next decision still carries the full history.
func (c *Client) Reset() {
	resp, err := c.http.Post(c.serverURL+communication.ResetPath, "application/json", nil)
	if err != nil {
		log.Warn().Err(err).Msgf("failed to reset %s", c.name)
		return
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Warn().Msgf("agent %s returned status %d on reset", c.name, resp.StatusCode)
	}
}
