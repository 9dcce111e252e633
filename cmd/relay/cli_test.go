package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fuelcore/meetingrelay/internal/config"
	"github.com/fuelcore/meetingrelay/internal/ledger"
	"github.com/fuelcore/meetingrelay/internal/signature"
)

// runCLI runs the app with args and returns what it wrote to stdout.
func runCLI(t *testing.T, cfg *config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp(cfg)
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{"relay"}, args...))
	return out.String(), err
}

// writeFile writes content to a file in a temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const simpleNote = `{
  "title": "Weekly sync",
  "overview": "We shipped the beta.",
  "action_items": ["Email customers", "Update docs"],
  "key_points": ["Beta is live"]
}`

const l10Agenda = `{
  "title": "L10 2026-10-19",
  "meeting_type": "L10",
  "attendees": ["Ana", "Ben"],
  "known_issues": ["Churn"]
}`

func TestRender_NoteText(t *testing.T) {
	path := writeFile(t, "note.json", simpleNote)

	out, err := runCLI(t, config.DefaultConfig(), "", "render", path)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "# FUEL CORE SOLUTIONS") {
		t.Errorf("output missing company header:\n%s", out)
	}
	if !strings.Contains(out, "Email customers") {
		t.Errorf("output missing action item:\n%s", out)
	}
}

func TestRender_Stdin(t *testing.T) {
	out, err := runCLI(t, config.DefaultConfig(), simpleNote, "render")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "Beta is live") {
		t.Errorf("output missing key point:\n%s", out)
	}
}

func TestRender_AgendaJSON(t *testing.T) {
	path := writeFile(t, "agenda.json", l10Agenda)

	out, err := runCLI(t, config.DefaultConfig(), "", "render", "--kind", "agenda", "--format", "json", path)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if doc["kind"] != "Agenda" {
		t.Errorf("kind = %v, want Agenda", doc["kind"])
	}
	if doc["icon"] != "🔟" {
		t.Errorf("icon = %v, want 🔟", doc["icon"])
	}
	if fp, _ := doc["fingerprint"].(string); len(fp) != 64 {
		t.Errorf("fingerprint = %q, want 64 hex chars", fp)
	}
	if blocks, _ := doc["blocks"].([]any); len(blocks) == 0 {
		t.Error("expected blocks in output")
	}
}

func TestRender_Errors(t *testing.T) {
	note := writeFile(t, "note.json", simpleNote)
	bad := writeFile(t, "bad.json", `["not", "an", "object"]`)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"render", "--kind", "memo", note}},
		{"unknown format", []string{"render", "--format", "yaml", note}},
		{"invalid body", []string{"render", bad}},
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "nope.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, config.DefaultConfig(), "", tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSecret(t *testing.T) {
	out, err := runCLI(t, config.DefaultConfig(), "", "secret")
	if err != nil {
		t.Fatalf("secret failed: %v", err)
	}
	secret := strings.TrimSpace(out)
	// 32 bytes as unpadded base64url.
	if len(secret) != 43 {
		t.Errorf("secret length = %d, want 43", len(secret))
	}
}

func TestSign(t *testing.T) {
	body := `{"eventType":"Transcription completed","meetingId":"m1"}`
	path := writeFile(t, "body.json", body)

	out, err := runCLI(t, config.DefaultConfig(), "", "sign", "--secret", "s3cret", path)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	got := strings.TrimSpace(out)
	if got != signature.Sign("s3cret", []byte(body)) {
		t.Errorf("signature = %q", got)
	}
	if !signature.Verify("s3cret", []byte(body), got) {
		t.Error("printed signature does not verify")
	}
}

func TestSign_ConfiguredSecret(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.WebhookSecret = "from-env"

	out, err := runCLI(t, cfg, "payload", "sign")
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if strings.TrimSpace(out) != signature.Sign("from-env", []byte("payload")) {
		t.Errorf("signature = %q", out)
	}
}

func TestSign_NoSecret(t *testing.T) {
	_, err := runCLI(t, config.DefaultConfig(), "payload", "sign")
	if err == nil {
		t.Fatal("expected error without a secret")
	}
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestLedgerList(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LedgerPath = filepath.Join(t.TempDir(), "ledger.db")

	l, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	for _, fp := range []string{"fp-a", "fp-b"} {
		if err := l.Record(context.Background(), &ledger.Publication{
			Fingerprint: fp,
			Kind:        "Note",
			Title:       "Weekly sync",
			PageID:      "page-" + fp,
		}); err != nil {
			t.Fatalf("record %s: %v", fp, err)
		}
	}
	l.Close()

	out, err := runCLI(t, cfg, "", "ledger", "list", "--limit", "1")
	if err != nil {
		t.Fatalf("ledger list failed: %v", err)
	}

	var pubs []ledger.Publication
	if err := json.Unmarshal([]byte(out), &pubs); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(pubs) != 1 {
		t.Fatalf("got %d publications, want 1", len(pubs))
	}
}

func TestLedgerList_NotConfigured(t *testing.T) {
	_, err := runCLI(t, config.DefaultConfig(), "", "ledger", "list")
	if err == nil {
		t.Fatal("expected error when LEDGER_PATH is unset")
	}
}

func TestOutputError(t *testing.T) {
	err := outputError(os.ErrNotExist)
	if err == nil || !strings.Contains(err.Error(), "file does not exist") {
		t.Errorf("outputError = %v", err)
	}
}
