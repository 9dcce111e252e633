// Package document composes meeting notes and agendas into workspace page
// block trees.
//
// Composition is pure: a request goes in, a Document comes out, and nothing
// is read from or written to the network. Publishing is done by callers.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fuelcore/meetingrelay/internal/block"
)

// Kind is the kind of page being composed.
type Kind string

const (
	KindNote   Kind = "Note"
	KindAgenda Kind = "Agenda"
)

// Dialect is the input shape a note request uses.
type Dialect string

const (
	DialectStructured Dialect = "structured"
	DialectSimple     Dialect = "simple"
)

// Document is a composed page: properties, icon and ordered content blocks.
type Document struct {
	Kind        Kind          `json:"kind"`
	Dialect     Dialect       `json:"dialect"`
	MeetingType MeetingType   `json:"meeting_type"`
	Icon        string        `json:"icon"`
	Properties  Properties    `json:"properties"`
	Blocks      []block.Block `json:"blocks"`
}

// Fingerprint returns a hex SHA-256 digest of the page content. Two
// documents with the same properties, icon and blocks share a fingerprint.
func (d *Document) Fingerprint() string {
	payload := struct {
		Kind       Kind           `json:"kind"`
		Icon       string         `json:"icon"`
		Properties map[string]any `json:"properties"`
		Blocks     []block.Block  `json:"blocks"`
	}{d.Kind, d.Icon, d.Properties.Wire(), d.Blocks}

	// Blocks and property maps always marshal.
	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
