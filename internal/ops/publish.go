package ops

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelcore/meetingrelay/internal/document"
	"github.com/fuelcore/meetingrelay/internal/errors"
	"github.com/fuelcore/meetingrelay/internal/ledger"
	"github.com/fuelcore/meetingrelay/internal/notion"
)

// PublishOutput is the result of publishing a note or agenda.
type PublishOutput struct {
	ID        string `json:"id"`
	URL       string `json:"url,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// PublishNote composes a meeting note and creates it in the notes database.
func PublishNote(ctx context.Context, d *Deps, req *document.NoteRequest) (*PublishOutput, error) {
	return publish(ctx, d, document.ComposeNote(req))
}

// PublishAgenda composes a meeting agenda and creates it in the notes
// database.
func PublishAgenda(ctx context.Context, d *Deps, req *document.AgendaRequest) (*PublishOutput, error) {
	return publish(ctx, d, document.ComposeAgenda(req))
}

func publish(ctx context.Context, d *Deps, doc *document.Document) (*PublishOutput, error) {
	kind := string(doc.Kind)
	log := d.Log.With().
		Str("kind", kind).
		Str("dialect", string(doc.Dialect)).
		Str("title", doc.Properties.Title).
		Logger()

	// The page is created even if the caller goes away mid-request.
	pubCtx := context.WithoutCancel(ctx)

	var rec *ledger.Publication
	claimed := false
	if d.Ledger != nil {
		rec = &ledger.Publication{
			Fingerprint: doc.Fingerprint(),
			Kind:        kind,
			Title:       doc.Properties.Title,
		}
		err := d.Ledger.Claim(pubCtx, rec)
		switch {
		case err == nil:
			claimed = true
		case err == ledger.ErrDuplicate:
			return publishedBefore(ctx, d, rec.Fingerprint, kind, log)
		default:
			log.Warn().Err(err).Msg("ledger claim failed; publishing anyway")
		}
	}

	start := time.Now()
	page, err := d.Workspace.CreatePage(pubCtx, notion.PageRequest{
		DatabaseID: d.Config.NotesDatabaseID,
		Icon:       doc.Icon,
		Properties: doc.Properties.Wire(),
		Children:   doc.Blocks,
	})
	d.Metrics.ObserveSink("create_page", start)
	if err != nil && claimed {
		if rerr := d.Ledger.Release(pubCtx, rec); rerr != nil {
			log.Warn().Err(rerr).Msg("failed to release publication claim")
		}
	}
	if err != nil {
		if page != nil {
			log.Error().Err(err).Str("page_id", page.ID).Msg("page created with incomplete content")
		} else {
			log.Error().Err(err).Msg("page rejected")
		}
		d.Metrics.Published(kind, "rejected")
		return nil, workspaceError(err)
	}

	log.Info().Str("page_id", page.ID).Int("blocks", len(doc.Blocks)).Msg("page published")
	d.Metrics.Published(kind, "created")

	switch {
	case claimed:
		if err := d.Ledger.Complete(pubCtx, rec, page.ID); err != nil {
			log.Warn().Err(err).Str("page_id", page.ID).Msg("publication claim lost; an identical page may exist")
		}
	case rec != nil:
		rec.PageID = page.ID
		err := d.Ledger.Record(pubCtx, rec)
		if err == ledger.ErrDuplicate {
			log.Warn().Str("page_id", page.ID).Msg("identical page was published concurrently")
		} else if err != nil {
			log.Warn().Err(err).Msg("failed to record publication")
		}
	}

	return &PublishOutput{ID: page.ID, URL: page.URL}, nil
}

// publishedBefore resolves a fingerprint another publish already holds:
// the earlier page when it is published, ErrInProgress while it is still
// pending.
func publishedBefore(ctx context.Context, d *Deps, fingerprint, kind string, log zerolog.Logger) (*PublishOutput, error) {
	prev, err := d.Ledger.Lookup(ctx, fingerprint)
	if errors.Is(err, errors.ErrNotFound) {
		// Released between the claim and the lookup.
		d.Metrics.Published(kind, "in_progress")
		return nil, ledger.ErrInProgress
	}
	if err != nil {
		return nil, err
	}

	if prev.State == ledger.StatePending {
		log.Info().Str("claim_id", prev.ID).Msg("identical page is being published")
		d.Metrics.Published(kind, "in_progress")
		return nil, ledger.ErrInProgress
	}
	log.Info().Str("page_id", prev.PageID).Msg("identical page already published")
	d.Metrics.Published(kind, "duplicate")
	return &PublishOutput{ID: prev.PageID, Duplicate: true}, nil
}
