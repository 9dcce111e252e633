// Package fireflies fetches meeting transcripts from the Fireflies GraphQL
// API.
package fireflies

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned when the API has no transcript for the id.
var ErrNotFound = errors.New("transcript not found")

const transcriptQuery = `query Transcript($transcriptId: String!) {
  transcript(id: $transcriptId) {
    id
    title
    date
    duration
    organizer_email
    participants
    transcript_url
    summary {
      overview
      shorthand_bullet
      action_items
      keywords
    }
    sentences {
      speaker_name
      text
    }
  }
}`

// Config configures a Client.
type Config struct {
	APIKey  string
	URL     string
	Timeout time.Duration
}

// Client queries the Fireflies API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        zerolog.Logger
}

// New returns a client for cfg, filling in defaults for unset fields.
func New(cfg Config, log zerolog.Logger) *Client {
	if strings.TrimSpace(cfg.URL) == "" {
		cfg.URL = "https://api.fireflies.ai/graphql"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With().Str("client", "fireflies").Logger(),
	}
}

// Transcript is a completed meeting transcript. Raw holds the object as
// returned by the API so it can be forwarded without loss.
type Transcript struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Date           float64    `json:"date"`
	Duration       float64    `json:"duration"`
	OrganizerEmail string     `json:"organizer_email"`
	Participants   []string   `json:"participants"`
	TranscriptURL  string     `json:"transcript_url"`
	Summary        *Summary   `json:"summary"`
	Sentences      []Sentence `json:"sentences"`

	Raw json.RawMessage `json:"-"`
}

// Summary is the service's own meeting summary.
type Summary struct {
	Overview        string   `json:"overview"`
	ShorthandBullet string   `json:"shorthand_bullet"`
	ActionItems     string   `json:"action_items"`
	Keywords        []string `json:"keywords"`
}

// Sentence is one spoken sentence.
type Sentence struct {
	SpeakerName string `json:"speaker_name"`
	Text        string `json:"text"`
}

// MarshalJSON returns Raw when set, so forwarded transcripts keep fields
// this package does not model.
func (t Transcript) MarshalJSON() ([]byte, error) {
	if len(t.Raw) > 0 {
		return t.Raw, nil
	}
	type plain Transcript
	return json.Marshal(plain(t))
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		Transcript json.RawMessage `json:"transcript"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Transcript fetches the transcript for meetingID. GraphQL errors are
// returned with the first error's message; a null transcript is
// ErrNotFound.
func (c *Client) Transcript(ctx context.Context, meetingID string) (*Transcript, error) {
	body, err := json.Marshal(graphQLRequest{
		Query:     transcriptQuery,
		Variables: map[string]any{"transcriptId": meetingID},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fireflies request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read fireflies response: %w", err)
	}

	var gql graphQLResponse
	if err := json.Unmarshal(raw, &gql); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("fireflies http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return nil, fmt.Errorf("decode fireflies response: %w", err)
	}
	if len(gql.Errors) > 0 {
		return nil, errors.New(gql.Errors[0].Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fireflies http %d", resp.StatusCode)
	}

	if len(gql.Data.Transcript) == 0 || string(gql.Data.Transcript) == "null" {
		return nil, ErrNotFound
	}

	var t Transcript
	if err := json.Unmarshal(gql.Data.Transcript, &t); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	t.Raw = gql.Data.Transcript

	c.log.Debug().Str("meeting_id", meetingID).Str("title", t.Title).Int("sentences", len(t.Sentences)).Msg("transcript fetched")
	return &t, nil
}
