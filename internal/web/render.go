package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/fuelcore/meetingrelay/internal/errors"
	"github.com/fuelcore/meetingrelay/internal/logging"
)

// maxBodyBytes caps request bodies. Webhook payloads are tiny; note bodies
// carry a full meeting summary.
const maxBodyBytes = 5 << 20

// errorBody is the JSON error shape returned by every endpoint.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes err as {error: message} with the error's status.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	rErr, ok := errors.As(err)
	if !ok {
		rErr = errors.NewInternal(err)
	}
	if rErr.Status >= 500 {
		logging.FromContext(r.Context()).Error().Err(err).Str("code", string(rErr.Code)).Msg("request failed")
	}
	renderJSON(w, rErr.Status, errorBody{Error: rErr.Message})
}

// readBody reads the request body up to maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.NewInvalidRequest("failed to read request body: " + err.Error())
	}
	return body, nil
}

// decodeJSON reads the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewInvalidRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

// wantsHTML reports whether the client prefers an HTML response.
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

var previewMarkdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := previewMarkdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(md) + "</pre>")
	}
	return template.HTML(buf.String())
}

const previewPage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>%s</title>
<style>body{font-family:sans-serif;max-width:56rem;margin:2rem auto}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.25rem .5rem}</style>
</head>
<body>
<p>%s %s</p>
%s
</body>
</html>
`

// outlineMarkdown separates outline lines into their own Markdown blocks,
// keeping consecutive table rows together.
func outlineMarkdown(outline string) string {
	lines := strings.Split(strings.TrimRight(outline, "\n"), "\n")
	var sb strings.Builder
	for i, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
		isRow := strings.HasPrefix(line, "|")
		nextIsRow := i+1 < len(lines) && strings.HasPrefix(lines[i+1], "|")
		if !(isRow && nextIsRow) {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// renderHTMLPreview writes a standalone HTML page for a document outline.
func renderHTMLPreview(w http.ResponseWriter, title, icon, outline string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	esc := template.HTMLEscapeString(title)
	fmt.Fprintf(w, previewPage, esc, template.HTMLEscapeString(icon), esc, renderMarkdown(outlineMarkdown(outline)))
}
