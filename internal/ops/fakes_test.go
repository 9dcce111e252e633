package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fuelcore/meetingrelay/internal/config"
	"github.com/fuelcore/meetingrelay/internal/fireflies"
	"github.com/fuelcore/meetingrelay/internal/logging"
	"github.com/fuelcore/meetingrelay/internal/notion"
)

type fakeWorkspace struct {
	mu      sync.Mutex
	created []notion.PageRequest
	queried []string
	pages   map[string][]notion.Page
	err     error
	nextID  int
	ctxErrs []error
}

func (f *fakeWorkspace) CreatePage(ctx context.Context, req notion.PageRequest) (*notion.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	f.nextID++
	return &notion.Page{ID: fmt.Sprintf("page-%d", f.nextID)}, nil
}

func (f *fakeWorkspace) QueryDatabase(ctx context.Context, databaseID string, q notion.Query) ([]notion.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queried = append(f.queried, databaseID)
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[databaseID], nil
}

type fakeTranscripts struct {
	transcript *fireflies.Transcript
	err        error
	asked      []string
}

func (f *fakeTranscripts) Transcript(ctx context.Context, meetingID string) (*fireflies.Transcript, error) {
	f.asked = append(f.asked, meetingID)
	if f.err != nil {
		return nil, f.err
	}
	return f.transcript, nil
}

type fakeAgent struct {
	resp json.RawMessage
	err  error
	got  []any
}

func (f *fakeAgent) ProcessTranscript(ctx context.Context, transcript any) (json.RawMessage, error) {
	f.got = append(f.got, transcript)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeAgent) BaseURL() string { return "http://agent.test" }

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.ProjectsDatabaseID = "db-projects"
	cfg.TasksDatabaseID = "db-tasks"
	cfg.NotesDatabaseID = "db-notes"
	return cfg
}

func newTestDeps() (*Deps, *fakeWorkspace, *fakeTranscripts, *fakeAgent) {
	ws := &fakeWorkspace{}
	tr := &fakeTranscripts{}
	ag := &fakeAgent{}
	return &Deps{
		Workspace:   ws,
		Transcripts: tr,
		Agent:       ag,
		Config:      testConfig(),
		Log:         logging.Nop(),
	}, ws, tr, ag
}
