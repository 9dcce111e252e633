package ops

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fuelcore/meetingrelay/internal/agent"
	"github.com/fuelcore/meetingrelay/internal/errors"
	"github.com/fuelcore/meetingrelay/internal/fireflies"
)

func TestHandleTranscription_Forwards(t *testing.T) {
	d, _, tr, ag := newTestDeps()
	tr.transcript = &fireflies.Transcript{ID: "m-1", Title: "Weekly L10"}
	ag.resp = json.RawMessage(`{"status":"processing"}`)

	out, err := HandleTranscription(context.Background(), d, WebhookEvent{
		EventType: EventTranscriptionCompleted,
		MeetingID: "m-1",
	})
	require.NoError(t, err)
	require.True(t, out.Success)
	require.Equal(t, "Transcript sent to Claude Agent for processing", out.Message)
	require.Equal(t, "m-1", out.MeetingID)
	require.JSONEq(t, `{"status":"processing"}`, string(out.AgentResponse))

	require.Equal(t, []string{"m-1"}, tr.asked)
	require.Len(t, ag.got, 1)
	require.Same(t, tr.transcript, ag.got[0])
}

func TestHandleTranscription_OtherEventAcknowledged(t *testing.T) {
	d, _, tr, _ := newTestDeps()

	out, err := HandleTranscription(context.Background(), d, WebhookEvent{EventType: "Meeting started", MeetingID: "m-1"})
	require.NoError(t, err)
	require.Equal(t, &WebhookOutput{Success: true, Message: "Event acknowledged"}, out)
	require.Empty(t, tr.asked)
}

func TestHandleTranscription_MissingMeetingID(t *testing.T) {
	d, _, _, _ := newTestDeps()

	_, err := HandleTranscription(context.Background(), d, WebhookEvent{EventType: EventTranscriptionCompleted})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestHandleTranscription_TranscriptNotFound(t *testing.T) {
	d, _, tr, ag := newTestDeps()
	tr.err = fireflies.ErrNotFound

	_, err := HandleTranscription(context.Background(), d, WebhookEvent{EventType: EventTranscriptionCompleted, MeetingID: "m-1"})
	rErr, ok := errors.As(err)
	require.True(t, ok)
	require.Equal(t, errors.ErrUpstreamFetchFailed, rErr.Code)
	require.Equal(t, 500, rErr.Status)
	require.Empty(t, ag.got)
}

func TestHandleTranscription_FetchError(t *testing.T) {
	d, _, tr, _ := newTestDeps()
	tr.err = stderrors.New("Invalid API key")

	_, err := HandleTranscription(context.Background(), d, WebhookEvent{EventType: EventTranscriptionCompleted, MeetingID: "m-1"})
	rErr, ok := errors.As(err)
	require.True(t, ok)
	require.Equal(t, errors.ErrUpstreamFetchFailed, rErr.Code)
	require.Equal(t, "Invalid API key", rErr.Message)
}

func TestHandleTranscription_AgentUnreachable(t *testing.T) {
	d, _, tr, ag := newTestDeps()
	tr.transcript = &fireflies.Transcript{ID: "m-1"}
	ag.err = fmt.Errorf("%w: dial tcp: connection refused", agent.ErrUnreachable)

	_, err := HandleTranscription(context.Background(), d, WebhookEvent{EventType: EventTranscriptionCompleted, MeetingID: "m-1"})
	rErr, ok := errors.As(err)
	require.True(t, ok)
	require.Equal(t, errors.ErrAgentUnreachable, rErr.Code)
	require.Equal(t, 503, rErr.Status)
	require.Contains(t, rErr.Message, "http://agent.test")
}

func TestHandleTranscription_AgentError(t *testing.T) {
	d, _, tr, ag := newTestDeps()
	tr.transcript = &fireflies.Transcript{ID: "m-1"}
	ag.err = stderrors.New("agent http 500: boom")

	_, err := HandleTranscription(context.Background(), d, WebhookEvent{EventType: EventTranscriptionCompleted, MeetingID: "m-1"})
	require.True(t, errors.Is(err, errors.ErrUpstreamFetchFailed))
}

func TestProcessMeeting(t *testing.T) {
	d, _, tr, ag := newTestDeps()
	tr.transcript = &fireflies.Transcript{ID: "m-7", Title: "Quarterly"}
	ag.resp = json.RawMessage(`"accepted"`)

	out, err := ProcessMeeting(context.Background(), d, "m-7")
	require.NoError(t, err)
	require.True(t, out.Success)
	require.Equal(t, TranscriptRef{ID: "m-7", Title: "Quarterly"}, out.Transcript)
	require.Equal(t, `"accepted"`, string(out.AgentResponse))
}

func TestProcessMeeting_Errors(t *testing.T) {
	d, _, tr, _ := newTestDeps()

	_, err := ProcessMeeting(context.Background(), d, "")
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	tr.err = fireflies.ErrNotFound
	_, err = ProcessMeeting(context.Background(), d, "missing")
	require.True(t, errors.Is(err, errors.ErrNotFound))
}
