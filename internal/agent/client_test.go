package agent

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestProcessTranscript_ReturnsAgentResponse(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		fmt.Fprint(w, `{"status":"processing","job":"j-1"}`)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/"}, zerolog.Nop())
	resp, err := c.ProcessTranscript(t.Context(), map[string]string{"id": "m-1"})
	require.NoError(t, err)
	require.Equal(t, "/process-transcript", gotPath)
	require.JSONEq(t, `{"id":"m-1"}`, gotBody)
	require.JSONEq(t, `{"status":"processing","job":"j-1"}`, string(resp))
}

func TestProcessTranscript_PlainTextResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "accepted")
	}))
	defer srv.Close()

	resp, err := New(Config{BaseURL: srv.URL}, zerolog.Nop()).ProcessTranscript(t.Context(), nil)
	require.NoError(t, err)
	require.Equal(t, `"accepted"`, string(resp))
}

func TestProcessTranscript_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}, zerolog.Nop()).ProcessTranscript(t.Context(), nil)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrUnreachable))
	require.Contains(t, err.Error(), "500")
}

func TestProcessTranscript_ConnectionRefused(t *testing.T) {
	// Grab a free port, then close the listener so nothing is accepting.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = New(Config{BaseURL: "http://" + addr}, zerolog.Nop()).ProcessTranscript(t.Context(), nil)
	require.ErrorIs(t, err, ErrUnreachable)
}

func TestIsUnreachable(t *testing.T) {
	require.True(t, isUnreachable(&net.DNSError{Err: "no such host", Name: "agent.invalid", IsNotFound: true}))
	require.False(t, isUnreachable(errors.New("timeout")))
}
