package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fuelcore/meetingrelay/internal/block"
	"github.com/fuelcore/meetingrelay/internal/document"
	"github.com/fuelcore/meetingrelay/internal/errors"
	"github.com/fuelcore/meetingrelay/internal/logging"
	"github.com/fuelcore/meetingrelay/internal/ops"
	"github.com/fuelcore/meetingrelay/internal/signature"
)

// Handlers contains the HTTP route handlers.
type Handlers struct {
	deps    *ops.Deps
	version string
}

// HandleRoot handles GET /. Liveness check.
func (h *Handlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Fireflies webhook server is running",
	})
}

// HandleHealth handles GET /health. Liveness check.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"version":   h.version,
	})
}

// HandleWebhook handles POST /webhook/{source}, a transcription-service
// event. The signature is checked against the raw body before parsing.
func (h *Handlers) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	body, err := readBody(w, r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	secret := h.deps.Config.WebhookSecret
	if secret != "" && !signature.Verify(secret, body, r.Header.Get(signature.Header)) {
		log.Warn().Str("source", r.PathValue("source")).Msg("invalid webhook signature")
		h.deps.Metrics.Webhook("", "signature_invalid")
		renderError(w, r, errors.NewSignatureInvalid())
		return
	}

	var ev ops.WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		renderError(w, r, errors.NewInvalidRequest("invalid JSON body: "+err.Error()))
		return
	}
	log.Info().
		Str("source", r.PathValue("source")).
		Str("event_type", ev.EventType).
		Str("meeting_id", ev.MeetingID).
		Str("client_reference_id", ev.ClientReferenceID).
		Msg("webhook received")

	out, err := ops.HandleTranscription(r.Context(), h.deps, ev)
	if err != nil {
		renderWebhookError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// renderWebhookError distinguishes an unreachable agent (503, with operator
// guidance) from other processing failures.
func renderWebhookError(w http.ResponseWriter, r *http.Request, err error) {
	rErr, ok := errors.As(err)
	if !ok {
		rErr = errors.NewInternal(err)
	}
	switch rErr.Code {
	case errors.ErrAgentUnreachable:
		renderJSON(w, rErr.Status, errorBody{Error: "Claude Agent unavailable", Message: rErr.Message})
	case errors.ErrUpstreamFetchFailed, errors.ErrInternal:
		renderJSON(w, rErr.Status, errorBody{Error: "Failed to process transcript", Message: rErr.Message})
	default:
		renderError(w, r, err)
	}
}

type processMeetingRequest struct {
	MeetingID string `json:"meetingId"`
}

// HandleProcessMeeting handles POST /test/process-meeting. It runs the
// transcript fetch and forward for a meeting by hand.
func (h *Handlers) HandleProcessMeeting(w http.ResponseWriter, r *http.Request) {
	var req processMeetingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		renderError(w, r, err)
		return
	}
	out, err := ops.ProcessMeeting(r.Context(), h.deps, req.MeetingID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleListProjects handles GET /api/projects.
func (h *Handlers) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ListProjects(r.Context(), h.deps)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleListTasks handles GET /api/tasks.
func (h *Handlers) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ListTasks(r.Context(), h.deps)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleCreateProject handles POST /api/projects.
func (h *Handlers) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in ops.CreateProjectInput
	if err := decodeJSON(w, r, &in); err != nil {
		renderError(w, r, err)
		return
	}
	out, err := ops.CreateProject(r.Context(), h.deps, in)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleCreateTask handles POST /api/tasks.
func (h *Handlers) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in ops.CreateTaskInput
	if err := decodeJSON(w, r, &in); err != nil {
		renderError(w, r, err)
		return
	}
	out, err := ops.CreateTask(r.Context(), h.deps, in)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

type publishResponse struct {
	ID        string `json:"id"`
	Success   bool   `json:"success"`
	URL       string `json:"url,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

func toPublishResponse(out *ops.PublishOutput) publishResponse {
	return publishResponse{ID: out.ID, Success: true, URL: out.URL, Duplicate: out.Duplicate}
}

// HandleCreateNote handles POST /api/notes. It composes and publishes a
// meeting note in either dialect.
func (h *Handlers) HandleCreateNote(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeNote(w, r)
	if !ok {
		return
	}
	out, err := ops.PublishNote(r.Context(), h.deps, req)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, toPublishResponse(out))
}

// HandleCreateAgenda handles POST /api/agendas.
func (h *Handlers) HandleCreateAgenda(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAgenda(w, r)
	if !ok {
		return
	}
	out, err := ops.PublishAgenda(r.Context(), h.deps, req)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, toPublishResponse(out))
}

// previewResponse is a composed document that was not published.
type previewResponse struct {
	*document.Document
	Fingerprint string `json:"fingerprint"`
	Outline     string `json:"outline"`
}

// HandlePreviewNote handles POST /preview/notes. It composes a note
// without publishing it. Clients that accept text/html get a rendered page.
func (h *Handlers) HandlePreviewNote(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeNote(w, r)
	if !ok {
		return
	}
	renderPreview(w, r, document.ComposeNote(req))
}

// HandlePreviewAgenda handles POST /preview/agendas.
func (h *Handlers) HandlePreviewAgenda(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAgenda(w, r)
	if !ok {
		return
	}
	renderPreview(w, r, document.ComposeAgenda(req))
}

func renderPreview(w http.ResponseWriter, r *http.Request, doc *document.Document) {
	outline := block.Render(doc.Blocks)
	if wantsHTML(r) {
		renderHTMLPreview(w, doc.Properties.Title, doc.Icon, outline)
		return
	}
	renderJSON(w, http.StatusOK, previewResponse{
		Document:    doc,
		Fingerprint: doc.Fingerprint(),
		Outline:     outline,
	})
}

func decodeNote(w http.ResponseWriter, r *http.Request) (*document.NoteRequest, bool) {
	body, err := readBody(w, r)
	if err != nil {
		renderError(w, r, err)
		return nil, false
	}
	req, err := document.DecodeNote(body)
	if err != nil {
		renderError(w, r, errors.NewInvalidRequest("invalid note body: "+err.Error()))
		return nil, false
	}
	return req, true
}

func decodeAgenda(w http.ResponseWriter, r *http.Request) (*document.AgendaRequest, bool) {
	body, err := readBody(w, r)
	if err != nil {
		renderError(w, r, err)
		return nil, false
	}
	req, err := document.DecodeAgenda(body)
	if err != nil {
		renderError(w, r, errors.NewInvalidRequest("invalid agenda body: "+err.Error()))
		return nil, false
	}
	return req, true
}
