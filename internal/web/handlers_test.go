package web

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fuelcore/meetingrelay/internal/agent"
	"github.com/fuelcore/meetingrelay/internal/config"
	"github.com/fuelcore/meetingrelay/internal/fireflies"
	"github.com/fuelcore/meetingrelay/internal/logging"
	"github.com/fuelcore/meetingrelay/internal/metrics"
	"github.com/fuelcore/meetingrelay/internal/notion"
	"github.com/fuelcore/meetingrelay/internal/ops"
	"github.com/fuelcore/meetingrelay/internal/signature"
)

type stubWorkspace struct {
	created []notion.PageRequest
	pages   []notion.Page
	err     error
}

func (s *stubWorkspace) CreatePage(ctx context.Context, req notion.PageRequest) (*notion.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, req)
	return &notion.Page{ID: fmt.Sprintf("page-%d", len(s.created))}, nil
}

func (s *stubWorkspace) QueryDatabase(ctx context.Context, databaseID string, q notion.Query) ([]notion.Page, error) {
	return s.pages, s.err
}

type stubTranscripts struct {
	tr  *fireflies.Transcript
	err error
}

func (s *stubTranscripts) Transcript(ctx context.Context, meetingID string) (*fireflies.Transcript, error) {
	return s.tr, s.err
}

type stubAgent struct {
	resp json.RawMessage
	err  error
}

func (s *stubAgent) ProcessTranscript(ctx context.Context, transcript any) (json.RawMessage, error) {
	return s.resp, s.err
}

func (s *stubAgent) BaseURL() string { return "http://localhost:8080" }

type fixture struct {
	handler     http.Handler
	deps        *ops.Deps
	workspace   *stubWorkspace
	transcripts *stubTranscripts
	agent       *stubAgent
}

func setupTest(t *testing.T) *fixture {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.NotesDatabaseID = "db-notes"
	cfg.ProjectsDatabaseID = "db-projects"
	cfg.TasksDatabaseID = "db-tasks"

	f := &fixture{
		workspace:   &stubWorkspace{},
		transcripts: &stubTranscripts{tr: &fireflies.Transcript{ID: "m-1", Title: "Weekly L10"}},
		agent:       &stubAgent{resp: json.RawMessage(`{"status":"processing"}`)},
	}
	f.deps = &ops.Deps{
		Workspace:   f.workspace,
		Transcripts: f.transcripts,
		Agent:       f.agent,
		Config:      cfg,
		Metrics:     metrics.NewWithRegisterer(prometheus.NewRegistry()),
		Log:         logging.Nop(),
	}
	f.handler = NewHandler(f.deps, "test")
	return f
}

func (f *fixture) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

// --- health ---

func TestRoot(t *testing.T) {
	f := setupTest(t)
	w := f.do("GET", "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "ok" || body["message"] != "Fireflies webhook server is running" {
		t.Errorf("body = %v", body)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
}

func TestHealth(t *testing.T) {
	f := setupTest(t)
	w := f.do("GET", "/health", "")
	body := decodeBody(t, w)
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
	if body["timestamp"] == "" {
		t.Error("missing timestamp")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	f := setupTest(t)
	w := f.do("GET", "/health", "", RequestIDHeader, "req-42")
	if got := w.Header().Get(RequestIDHeader); got != "req-42" {
		t.Errorf("request id = %q, want req-42", got)
	}
}

func TestUnknownRoute(t *testing.T) {
	f := setupTest(t)
	w := f.do("GET", "/nope", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// --- webhook ---

const completedEvent = `{"eventType":"Transcription completed","meetingId":"m-1","clientReferenceId":"c-1"}`

func TestWebhook_Forwarded(t *testing.T) {
	f := setupTest(t)
	w := f.do("POST", "/webhook/fireflies", completedEvent)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true || body["meetingId"] != "m-1" {
		t.Errorf("body = %v", body)
	}
	if body["message"] != "Transcript sent to Claude Agent for processing" {
		t.Errorf("message = %v", body["message"])
	}
	resp, _ := body["agentResponse"].(map[string]any)
	if resp["status"] != "processing" {
		t.Errorf("agentResponse = %v", body["agentResponse"])
	}
}

func TestWebhook_OtherEventAcknowledged(t *testing.T) {
	f := setupTest(t)
	w := f.do("POST", "/webhook/fireflies", `{"eventType":"Meeting started","meetingId":"m-1"}`)
	body := decodeBody(t, w)
	if w.Code != http.StatusOK || body["message"] != "Event acknowledged" {
		t.Errorf("status = %d, body = %v", w.Code, body)
	}
}

func TestWebhook_Signature(t *testing.T) {
	f := setupTest(t)
	f.deps.Config.WebhookSecret = "s3cret"

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "sha256=" + strings.Repeat("0", 64), http.StatusUnauthorized},
		{"truncated", signature.Sign("s3cret", []byte(completedEvent))[:10], http.StatusUnauthorized},
		{"prefixed", "sha256=" + signature.Sign("s3cret", []byte(completedEvent)), http.StatusOK},
		{"bare", signature.Sign("s3cret", []byte(completedEvent)), http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := f.do("POST", "/webhook/fireflies", completedEvent, signature.Header, tc.header)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tc.want, w.Body.String())
			}
			if tc.want == http.StatusUnauthorized {
				if body := decodeBody(t, w); body["error"] != "Invalid signature" {
					t.Errorf("body = %v", body)
				}
			}
		})
	}
}

func TestWebhook_NoSecretSkipsVerification(t *testing.T) {
	f := setupTest(t)
	w := f.do("POST", "/webhook/fireflies", completedEvent, signature.Header, "sha256=bogus")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestWebhook_AgentUnreachable(t *testing.T) {
	f := setupTest(t)
	f.agent.err = fmt.Errorf("%w: connection refused", agent.ErrUnreachable)

	w := f.do("POST", "/webhook/fireflies", completedEvent)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Claude Agent unavailable" {
		t.Errorf("error = %v", body["error"])
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "http://localhost:8080") {
		t.Errorf("message = %v", body["message"])
	}
}

func TestWebhook_FetchFailed(t *testing.T) {
	f := setupTest(t)
	f.transcripts.err = stderrors.New("Invalid API key")

	w := f.do("POST", "/webhook/fireflies", completedEvent)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Failed to process transcript" || body["message"] != "Invalid API key" {
		t.Errorf("body = %v", body)
	}
}

func TestWebhook_InvalidJSON(t *testing.T) {
	f := setupTest(t)
	w := f.do("POST", "/webhook/fireflies", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// --- manual trigger ---

func TestProcessMeeting(t *testing.T) {
	f := setupTest(t)

	w := f.do("POST", "/test/process-meeting", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing id: status = %d, want 400", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "meetingId is required" {
		t.Errorf("body = %v", body)
	}

	w = f.do("POST", "/test/process-meeting", `{"meetingId":"m-1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	tr, _ := body["transcript"].(map[string]any)
	if tr["title"] != "Weekly L10" {
		t.Errorf("transcript = %v", body["transcript"])
	}

	f.transcripts.err = fireflies.ErrNotFound
	w = f.do("POST", "/test/process-meeting", `{"meetingId":"gone"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("not found: status = %d, want 404", w.Code)
	}
}

// --- workspace bridge ---

func TestCreateProject(t *testing.T) {
	f := setupTest(t)
	w := f.do("POST", "/api/projects", `{"name":"CRM","status":"Not Started","description":"d"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["id"] != "page-1" || body["success"] != true {
		t.Errorf("body = %v", body)
	}
	if f.workspace.created[0].DatabaseID != "db-projects" {
		t.Errorf("database = %s", f.workspace.created[0].DatabaseID)
	}
}

func TestCreateProject_MissingName(t *testing.T) {
	f := setupTest(t)
	w := f.do("POST", "/api/projects", `{"status":"Done"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "project name is required" {
		t.Errorf("body = %v", body)
	}
}

func TestCreateTask_SinkRejects(t *testing.T) {
	f := setupTest(t)
	f.workspace.err = &notion.APIError{Status: 400, Code: "validation_error", Message: "Priority is expected to be status."}

	w := f.do("POST", "/api/tasks", `{"name":"x","priority":"High"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Priority is expected to be status." {
		t.Errorf("body = %v", body)
	}
}

func TestListTasks(t *testing.T) {
	f := setupTest(t)
	f.workspace.pages = []notion.Page{{ID: "t1"}}

	w := f.do("GET", "/api/tasks", "")
	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{"id": "t1", "name": "Untitled", "status": "Unknown", "priority": "Unknown"}
	if len(got) != 1 || fmt.Sprint(got[0]) != fmt.Sprint(want) {
		t.Errorf("tasks = %v", got)
	}
}

func TestListProjects_EmptyIsArray(t *testing.T) {
	f := setupTest(t)
	w := f.do("GET", "/api/projects", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", w.Body.String())
	}
}

func TestCreateNote(t *testing.T) {
	f := setupTest(t)
	w := f.do("POST", "/api/notes", `{"title":"Sync","overview":"All good","action_items":["Ship it"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["id"] != "page-1" || body["success"] != true {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["duplicate"]; ok {
		t.Error("duplicate should be omitted on a fresh publish")
	}
	if f.workspace.created[0].Icon != "🎙️" {
		t.Errorf("icon = %q", f.workspace.created[0].Icon)
	}
}

func TestCreateNote_InvalidBody(t *testing.T) {
	f := setupTest(t)
	w := f.do("POST", "/api/notes", `[1,2]`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if len(f.workspace.created) != 0 {
		t.Error("nothing should be published")
	}
}

func TestCreateAgenda(t *testing.T) {
	f := setupTest(t)
	w := f.do("POST", "/api/agendas", `{"title":"L10","meeting_type":"L10","duration_minutes":90}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if f.workspace.created[0].Icon != "🔟" {
		t.Errorf("icon = %q", f.workspace.created[0].Icon)
	}
}

// --- previews ---

func TestPreviewNote_JSON(t *testing.T) {
	f := setupTest(t)
	w := f.do("POST", "/preview/notes", `{"meeting_type":"L10","meeting_info":{"location":"HQ"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["dialect"] != "structured" || body["icon"] != "🔟" {
		t.Errorf("body = %v", body)
	}
	if fp, _ := body["fingerprint"].(string); len(fp) != 64 {
		t.Errorf("fingerprint = %v", body["fingerprint"])
	}
	if outline, _ := body["outline"].(string); !strings.Contains(outline, "# FUEL CORE SOLUTIONS") {
		t.Errorf("outline = %q", outline)
	}
	if len(f.workspace.created) != 0 {
		t.Error("preview must not publish")
	}
}

func TestPreviewAgenda_HTML(t *testing.T) {
	f := setupTest(t)
	w := f.do("POST", "/preview/agendas", `{"title":"<b>L10</b>","meeting_type":"L10"}`, "Accept", "text/html")
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	html := w.Body.String()
	if !strings.Contains(html, "<table>") {
		t.Error("segment table not rendered as HTML table")
	}
	if !strings.Contains(html, "&lt;b&gt;L10&lt;/b&gt;") {
		t.Error("title not escaped")
	}
}

// --- metrics ---

func TestMetricsEndpoint(t *testing.T) {
	f := setupTest(t)
	f.do("POST", "/webhook/fireflies", completedEvent)

	w := f.do("GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	out := w.Body.String()
	if !strings.Contains(out, `relay_webhook_events_total{event_type="Transcription completed",outcome="forwarded"} 1`) {
		t.Errorf("webhook counter missing:\n%s", out)
	}
	if !strings.Contains(out, `route="POST /webhook/{source}"`) {
		t.Errorf("request counter missing route label:\n%s", out)
	}
}
