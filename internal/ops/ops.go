// Package ops implements the relay's operations. Each operation takes the
// shared Deps and a typed input, talks to the external services through
// narrow interfaces, and returns a typed output or a *errors.RelayError.
package ops

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/rs/zerolog"

	"github.com/fuelcore/meetingrelay/internal/agent"
	"github.com/fuelcore/meetingrelay/internal/config"
	"github.com/fuelcore/meetingrelay/internal/errors"
	"github.com/fuelcore/meetingrelay/internal/fireflies"
	"github.com/fuelcore/meetingrelay/internal/ledger"
	"github.com/fuelcore/meetingrelay/internal/metrics"
	"github.com/fuelcore/meetingrelay/internal/notion"
)

// Workspace is the page store (the Notion client in production).
type Workspace interface {
	CreatePage(ctx context.Context, req notion.PageRequest) (*notion.Page, error)
	QueryDatabase(ctx context.Context, databaseID string, q notion.Query) ([]notion.Page, error)
}

// Transcripts fetches completed meeting transcripts.
type Transcripts interface {
	Transcript(ctx context.Context, meetingID string) (*fireflies.Transcript, error)
}

// Agent receives transcripts for summarization.
type Agent interface {
	ProcessTranscript(ctx context.Context, transcript any) (json.RawMessage, error)
	BaseURL() string
}

// Deps holds the collaborators shared by all operations.
type Deps struct {
	Workspace   Workspace
	Transcripts Transcripts
	Agent       Agent

	// Ledger deduplicates note and agenda publishes. Nil disables it.
	Ledger *ledger.Ledger

	Config  *config.Config
	Metrics *metrics.Metrics
	Log     zerolog.Logger
}

// NewDeps wires the production clients from cfg. The ledger is opened only
// when cfg.LedgerPath is set; the caller owns closing it.
func NewDeps(cfg *config.Config, m *metrics.Metrics, log zerolog.Logger) (*Deps, error) {
	d := &Deps{
		Workspace: notion.New(notion.Config{
			APIKey:  cfg.NotionKey,
			BaseURL: cfg.NotionAPIURL,
			Version: cfg.NotionVersion,
			Timeout: cfg.HTTPTimeout(),
		}, log),
		Transcripts: fireflies.New(fireflies.Config{
			APIKey:  cfg.FirefliesAPIKey,
			URL:     cfg.FirefliesAPIURL,
			Timeout: cfg.HTTPTimeout(),
		}, log),
		Agent: agent.New(agent.Config{
			BaseURL: cfg.AgentURL,
			Timeout: cfg.AgentTimeout(),
		}, log),
		Config:  cfg,
		Metrics: m,
		Log:     log,
	}
	if cfg.LedgerPath != "" {
		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return nil, err
		}
		d.Ledger = l
	}
	return d, nil
}

// workspaceError maps a workspace client failure to a relay error carrying
// the sink's status and message.
func workspaceError(err error) error {
	var apiErr *notion.APIError
	if stderrors.As(err, &apiErr) {
		return errors.NewPublishRejected(apiErr.Status, apiErr.Message, err)
	}
	return errors.NewPublishRejected(0, err.Error(), err)
}
