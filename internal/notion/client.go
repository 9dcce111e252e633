// Package notion is a minimal client for the Notion pages, blocks and
// databases endpoints used by the relay.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelcore/meetingrelay/internal/block"
)

// API limits per create or append call: top-level children, and blocks
// counted with their nested children.
const (
	MaxChildrenPerRequest = 100
	MaxBlocksPerRequest   = 1000
)

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string
	Version string
	Timeout time.Duration
}

// Client calls the Notion REST API. Calls are made once; failures are
// returned to the caller without retrying.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        zerolog.Logger
}

// New returns a client for cfg, filling in defaults for unset fields.
func New(cfg Config, log zerolog.Logger) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.notion.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Version == "" {
		cfg.Version = "2022-06-28"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With().Str("client", "notion").Logger(),
	}
}

// PageRequest describes a page to create in a database.
type PageRequest struct {
	DatabaseID string
	Icon       string
	Properties map[string]any
	Children   []block.Block
}

// Page is a created or queried page.
type Page struct {
	ID         string                   `json:"id"`
	URL        string                   `json:"url,omitempty"`
	Properties map[string]PropertyValue `json:"properties,omitempty"`
}

type createPageBody struct {
	Parent     parent         `json:"parent"`
	Icon       *icon          `json:"icon,omitempty"`
	Properties map[string]any `json:"properties"`
	Children   []block.Block  `json:"children,omitempty"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

type icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

// CreatePage creates a page. Tables longer than block.MaxTableRows are
// split, and children beyond the per-request limits are appended in
// follow-up calls; if one of those fails the page exists but is
// incomplete, and the error says so.
func (c *Client) CreatePage(ctx context.Context, req PageRequest) (*Page, error) {
	first, rest := splitChildren(block.SplitTables(req.Children))
	body := createPageBody{
		Parent:     parent{DatabaseID: req.DatabaseID},
		Properties: req.Properties,
		Children:   first,
	}
	if req.Icon != "" {
		body.Icon = &icon{Type: "emoji", Emoji: req.Icon}
	}

	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return nil, err
	}
	c.log.Debug().Str("page_id", page.ID).Int("blocks", len(req.Children)).Msg("page created")

	if len(rest) > 0 {
		if err := c.AppendChildren(ctx, page.ID, rest); err != nil {
			return &page, fmt.Errorf("page %s created but content is incomplete: %w", page.ID, err)
		}
	}
	return &page, nil
}

// AppendChildren appends blocks to a page or block, chunked to the API
// limits.
func (c *Client) AppendChildren(ctx context.Context, blockID string, children []block.Block) error {
	children = block.SplitTables(children)
	for len(children) > 0 {
		var chunk []block.Block
		chunk, children = splitChildren(children)
		body := map[string]any{"children": chunk}
		if err := c.do(ctx, http.MethodPatch, "/blocks/"+blockID+"/children", body, nil); err != nil {
			return err
		}
	}
	return nil
}

// Query filters and sorts a database query. Both are passed through
// verbatim.
type Query struct {
	Filter map[string]any   `json:"filter,omitempty"`
	Sorts  []map[string]any `json:"sorts,omitempty"`
}

type queryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// QueryDatabase returns the first page of results for q.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, q Query) ([]Page, error) {
	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", q, &resp); err != nil {
		return nil, err
	}
	if resp.HasMore {
		c.log.Debug().Str("database_id", databaseID).Int("returned", len(resp.Results)).Msg("query truncated to first page")
	}
	return resp.Results, nil
}

// splitChildren returns the longest prefix of children that fits one
// request, and the remainder. The prefix always holds at least one block.
func splitChildren(children []block.Block) (first, rest []block.Block) {
	total := 0
	for i, b := range children {
		total += b.Count()
		if i == MaxChildrenPerRequest || (i > 0 && total > MaxBlocksPerRequest) {
			return children[:i], children[i:]
		}
	}
	return children, nil
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("notion %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Notion-Version", c.cfg.Version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{}
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
