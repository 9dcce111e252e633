package document

// presence records which optional sections a note request carries. It is
// computed once per request and drives both dialect detection and section
// sequencing.
type presence struct {
	meetingInfo   bool
	segue         bool
	scorecard     bool
	rockReview    bool
	todoReview    bool
	headlines     bool
	idsIssues     bool
	concludeTodos bool
	cascading     bool
	nextMeeting   bool
	meetingRating bool

	overview    bool
	actionItems bool
	keyPoints   bool
}

// detect derives section presence from req. Object sections are present
// when non-nil, even if empty; list sections when they have entries. The
// raw-key variant used for dialect detection is structuredKeys.
func detect(req *NoteRequest) presence {
	return presence{
		meetingInfo:   req.MeetingInfo != nil,
		segue:         len(req.Segue) > 0,
		scorecard:     len(req.Scorecard) > 0,
		rockReview:    len(req.RockReview) > 0,
		todoReview:    req.TodoReview != nil,
		headlines:     len(req.Headlines) > 0,
		idsIssues:     len(req.IDSIssues) > 0,
		concludeTodos: len(req.ConcludeTodos) > 0,
		cascading:     len(req.CascadingMessages) > 0,
		nextMeeting:   req.NextMeeting != nil,
		meetingRating: req.MeetingRating != nil,

		overview:    req.Overview != "",
		actionItems: len(Strings(req.ActionItems)) > 0,
		keyPoints:   len(Strings(req.KeyPoints)) > 0,
	}
}

// structuredKeys reports whether any structured-dialect key was supplied.
// An empty list or object still counts: only absence or null does not.
func structuredKeys(req *NoteRequest) bool {
	return req.MeetingInfo != nil ||
		req.Segue != nil ||
		req.Scorecard != nil ||
		req.RockReview != nil ||
		req.TodoReview != nil ||
		req.IDSIssues != nil ||
		req.ConcludeTodos != nil ||
		req.MeetingRating != nil
}

// DetectDialect reports which input dialect a note request uses.
func DetectDialect(req *NoteRequest) Dialect {
	if structuredKeys(req) {
		return DialectStructured
	}
	return DialectSimple
}
