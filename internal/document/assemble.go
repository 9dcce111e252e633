package document

import (
	"strings"

	"github.com/fuelcore/meetingrelay/internal/block"
)

// defaultAgendaMinutes is shown when an agenda does not state a duration.
const defaultAgendaMinutes = 90

// composer accumulates sections, separating each non-first section from
// the previous one with a divider.
type composer struct {
	blocks   []block.Block
	sections int
}

func (c *composer) section(blocks []block.Block) {
	if len(blocks) == 0 {
		return
	}
	if c.sections > 0 {
		c.blocks = append(c.blocks, block.Divider())
	}
	c.blocks = append(c.blocks, blocks...)
	c.sections++
}

func (c *composer) raw(blocks []block.Block) {
	c.blocks = append(c.blocks, blocks...)
}

// ComposeNote builds a meeting-note page from req. It never fails: missing
// optional sections are left out.
func ComposeNote(req *NoteRequest) *Document {
	mt := ParseMeetingType(req.MeetingType)
	dialect := DetectDialect(req)
	has := detect(req)

	var c composer
	c.raw(buildHeader(mt, KindNote))

	switch dialect {
	case DialectStructured:
		if has.meetingInfo {
			c.section(buildMeetingInfo(req.MeetingInfo))
		}
		if has.segue {
			c.section(buildSegue(req.Segue))
		}
		if has.scorecard {
			c.section(buildScorecard(req.Scorecard))
		}
		if has.rockReview {
			c.section(buildRockReview(req.RockReview))
		}
		if has.todoReview {
			c.section(buildTodoReview(req.TodoReview))
		}
		if has.headlines {
			c.section(buildHeadlines(req.Headlines))
		}
		if has.idsIssues {
			c.section(buildIDS(req.IDSIssues))
		}
		if has.concludeTodos {
			c.section(buildConcludeTodos(req.ConcludeTodos))
		}
		if has.cascading {
			c.section(buildCascading(req.CascadingMessages))
		}
		if has.nextMeeting {
			c.section(buildNextMeeting(req.NextMeeting))
		}
		if has.meetingRating {
			c.section(buildMeetingRating(req.MeetingRating))
		}
	default:
		if has.overview {
			c.section(buildOverview(req.Overview))
		}
		if has.actionItems {
			c.section(buildActionItems(Strings(req.ActionItems)))
		}
		if has.keyPoints {
			c.section(buildKeyPoints(Strings(req.KeyPoints)))
		}
	}

	c.raw(buildFooter(KindNote))

	props := Properties{
		Title:     titleOr(req.Title, "Meeting Notes"),
		Type:      TypeMeeting,
		Date:      isoDate(req.Date),
		ProjectID: strings.TrimSpace(req.ProjectID),
	}
	if secs, ok := req.DurationSeconds.Float(); ok && secs > 0 {
		props.DurationSeconds = &secs
	}

	return &Document{
		Kind:        KindNote,
		Dialect:     dialect,
		MeetingType: mt,
		Icon:        Icon(mt, KindNote),
		Properties:  props,
		Blocks:      c.blocks,
	}
}

// ComposeAgenda builds a meeting-agenda page from req. Agendas always use
// the structured layout; the meeting-info section is always present.
func ComposeAgenda(req *AgendaRequest) *Document {
	mt := ParseMeetingType(req.MeetingType)

	info := &MeetingInfo{
		Date:            req.MeetingDate,
		Time:            req.MeetingTime,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
		Facilitator:     req.Facilitator,
		Scribe:          req.Scribe,
		Attendees:       req.Attendees,
	}
	if !info.DurationMinutes.IsSet() {
		info.DurationMinutes = V(float64(defaultAgendaMinutes))
	}

	var c composer
	c.raw(buildHeader(mt, KindAgenda))
	c.section(buildMeetingInfo(info))
	if mt == MeetingL10 {
		c.section(buildL10Agenda())
	}
	if rocks := Strings(req.RocksToReview); len(rocks) > 0 {
		c.section(buildRocksToReview(rocks))
	}
	if issues := Strings(req.KnownIssues); len(issues) > 0 {
		c.section(buildIssuesForIDS(issues))
	}
	if items := Strings(req.AgendaItems); len(items) > 0 {
		c.section(buildAgendaItems(items))
	}
	c.raw(buildFooter(KindAgenda))

	props := Properties{
		Title:     titleOr(req.Title, "Meeting Agenda"),
		Type:      TypeAgenda,
		Date:      isoDate(req.MeetingDate),
		ProjectID: strings.TrimSpace(req.ProjectID),
	}
	if mins, ok := req.DurationMinutes.Float(); ok && mins > 0 {
		secs := mins * 60
		props.DurationSeconds = &secs
	}

	return &Document{
		Kind:        KindAgenda,
		Dialect:     DialectStructured,
		MeetingType: mt,
		Icon:        Icon(mt, KindAgenda),
		Properties:  props,
		Blocks:      c.blocks,
	}
}

func titleOr(title, fallback string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return fallback
}
