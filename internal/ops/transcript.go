package ops

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"github.com/fuelcore/meetingrelay/internal/agent"
	"github.com/fuelcore/meetingrelay/internal/errors"
	"github.com/fuelcore/meetingrelay/internal/fireflies"
)

// EventTranscriptionCompleted is the only webhook event that triggers
// processing. Everything else is acknowledged and dropped.
const EventTranscriptionCompleted = "Transcription completed"

// WebhookEvent is the body of a transcription-service webhook.
type WebhookEvent struct {
	EventType         string `json:"eventType"`
	MeetingID         string `json:"meetingId"`
	ClientReferenceID string `json:"clientReferenceId,omitempty"`
}

// WebhookOutput is the webhook response body.
type WebhookOutput struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	MeetingID     string          `json:"meetingId,omitempty"`
	AgentResponse json.RawMessage `json:"agentResponse,omitempty"`
}

// TranscriptRef names the transcript a manual run processed.
type TranscriptRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ProcessMeetingOutput is the result of a manual processing run.
type ProcessMeetingOutput struct {
	Success       bool            `json:"success"`
	Transcript    TranscriptRef   `json:"transcript"`
	AgentResponse json.RawMessage `json:"agentResponse"`
}

// HandleTranscription fetches the transcript named by a completed-
// transcription event and forwards it to the agent.
func HandleTranscription(ctx context.Context, d *Deps, ev WebhookEvent) (*WebhookOutput, error) {
	log := d.Log.With().
		Str("event_type", ev.EventType).
		Str("meeting_id", ev.MeetingID).
		Logger()

	if ev.EventType != EventTranscriptionCompleted {
		log.Info().Msg("ignoring webhook event")
		d.Metrics.Webhook(ev.EventType, "ignored")
		return &WebhookOutput{Success: true, Message: "Event acknowledged"}, nil
	}
	if strings.TrimSpace(ev.MeetingID) == "" {
		d.Metrics.Webhook(ev.EventType, "invalid")
		return nil, errors.NewInvalidRequest("meetingId is required")
	}

	tr, err := fetchTranscript(ctx, d, ev.MeetingID)
	if err != nil {
		if stderrors.Is(err, fireflies.ErrNotFound) {
			err = errors.NewUpstreamFetchFailed("fireflies", err)
		}
		log.Error().Err(err).Msg("transcript fetch failed")
		d.Metrics.Webhook(ev.EventType, "fetch_failed")
		return nil, err
	}
	log.Info().Str("title", tr.Title).Msg("fetched transcript")

	resp, err := forwardTranscript(ctx, d, tr)
	if err != nil {
		log.Error().Err(err).Msg("agent forward failed")
		d.Metrics.Webhook(ev.EventType, "forward_failed")
		return nil, err
	}

	log.Info().Msg("transcript sent to agent")
	d.Metrics.Webhook(ev.EventType, "forwarded")
	return &WebhookOutput{
		Success:       true,
		Message:       "Transcript sent to Claude Agent for processing",
		MeetingID:     ev.MeetingID,
		AgentResponse: resp,
	}, nil
}

// ProcessMeeting is the manual trigger: it runs the fetch and forward steps
// for meetingID without a webhook. A missing transcript is NOT_FOUND.
func ProcessMeeting(ctx context.Context, d *Deps, meetingID string) (*ProcessMeetingOutput, error) {
	meetingID = strings.TrimSpace(meetingID)
	if meetingID == "" {
		return nil, errors.NewInvalidRequest("meetingId is required")
	}

	tr, err := fetchTranscript(ctx, d, meetingID)
	if err != nil {
		if stderrors.Is(err, fireflies.ErrNotFound) {
			return nil, errors.NewNotFound("transcript", meetingID)
		}
		return nil, err
	}

	resp, err := forwardTranscript(ctx, d, tr)
	if err != nil {
		return nil, err
	}

	d.Log.Info().Str("meeting_id", meetingID).Msg("meeting processed manually")
	return &ProcessMeetingOutput{
		Success:       true,
		Transcript:    TranscriptRef{ID: tr.ID, Title: tr.Title},
		AgentResponse: resp,
	}, nil
}

// fetchTranscript returns fireflies.ErrNotFound unwrapped so callers can
// choose how to report it.
func fetchTranscript(ctx context.Context, d *Deps, meetingID string) (*fireflies.Transcript, error) {
	start := time.Now()
	tr, err := d.Transcripts.Transcript(ctx, meetingID)
	d.Metrics.ObserveSink("fetch_transcript", start)
	if err != nil {
		if stderrors.Is(err, fireflies.ErrNotFound) {
			return nil, err
		}
		return nil, errors.NewUpstreamFetchFailed("fireflies", err)
	}
	return tr, nil
}

func forwardTranscript(ctx context.Context, d *Deps, tr *fireflies.Transcript) (json.RawMessage, error) {
	start := time.Now()
	resp, err := d.Agent.ProcessTranscript(ctx, tr)
	d.Metrics.ObserveSink("forward_transcript", start)
	if err != nil {
		if stderrors.Is(err, agent.ErrUnreachable) {
			return nil, errors.NewAgentUnreachable(d.Agent.BaseURL(), err)
		}
		return nil, errors.NewUpstreamFetchFailed("agent", err)
	}
	return resp, nil
}
