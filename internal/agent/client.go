// Package agent forwards transcripts to the external summarization agent.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// ErrUnreachable wraps failures to connect to the agent at all: refused
// connections and unresolvable hosts.
var ErrUnreachable = errors.New("agent unreachable")

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client posts transcripts to the agent.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        zerolog.Logger
}

// New returns a client for cfg.
func New(cfg Config, log zerolog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With().Str("client", "agent").Logger(),
	}
}

// BaseURL returns the agent's base URL.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// ProcessTranscript sends transcript to the agent and returns its JSON
// response verbatim. A non-JSON response body is returned as a JSON string.
func (c *Client) ProcessTranscript(ctx context.Context, transcript any) (json.RawMessage, error) {
	body, err := json.Marshal(transcript)
	if err != nil {
		return nil, fmt.Errorf("encode transcript: %w", err)
	}

	url := c.cfg.BaseURL + "/process-transcript"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isUnreachable(err) {
			return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		return nil, fmt.Errorf("agent request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read agent response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("agent http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	c.log.Debug().Int("status", resp.StatusCode).Int("bytes", len(raw)).Msg("agent accepted transcript")

	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(raw) {
		quoted, _ := json.Marshal(string(raw))
		return quoted, nil
	}
	return raw, nil
}

func isUnreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
