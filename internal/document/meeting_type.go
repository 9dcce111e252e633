package document

import "strings"

// MeetingType is the EOS/Traction meeting category.
type MeetingType string

const (
	MeetingL10                   MeetingType = "L10"
	MeetingQuarterly             MeetingType = "Quarterly"
	MeetingAnnual                MeetingType = "Annual"
	MeetingSamePage              MeetingType = "SamePage"
	MeetingStateOfCompany        MeetingType = "StateOfCompany"
	MeetingQuarterlyConversation MeetingType = "QuarterlyConversation"
	MeetingOther                 MeetingType = "Other"
	MeetingGeneral               MeetingType = "General"
)

// Fallback icons for types missing from the emoji table.
const (
	DefaultNoteIcon   = "🎙️"
	DefaultAgendaIcon = "📋"
)

// meetingAliases maps squashed spellings to the canonical type.
var meetingAliases = map[string]MeetingType{
	"l10":                   MeetingL10,
	"level10":               MeetingL10,
	"quarterly":             MeetingQuarterly,
	"annual":                MeetingAnnual,
	"annualplanning":        MeetingAnnual,
	"samepage":              MeetingSamePage,
	"stateofcompany":        MeetingStateOfCompany,
	"stateofthecompany":     MeetingStateOfCompany,
	"quarterlyconversation": MeetingQuarterlyConversation,
	"other":                 MeetingOther,
	"general":               MeetingGeneral,
}

var meetingEmoji = map[MeetingType]string{
	MeetingL10:            "🔟",
	MeetingQuarterly:      "📊",
	MeetingAnnual:         "📅",
	MeetingSamePage:       "🤝",
	MeetingStateOfCompany: "🏢",
	MeetingOther:          "📋",
}

var noteLabels = map[MeetingType]string{
	MeetingL10:                   "Level 10 Meeting Notes",
	MeetingQuarterly:             "Quarterly Planning Meeting Notes",
	MeetingAnnual:                "Annual Planning Session Notes",
	MeetingSamePage:              "Same Page Meeting Notes",
	MeetingStateOfCompany:        "State of the Company Meeting Notes",
	MeetingQuarterlyConversation: "Quarterly Conversation Notes",
}

var agendaLabels = map[MeetingType]string{
	MeetingL10:                   "Level 10 Meeting Agenda",
	MeetingQuarterly:             "Quarterly Planning Meeting Agenda",
	MeetingAnnual:                "Annual Planning Session Agenda",
	MeetingSamePage:              "Same Page Meeting Agenda",
	MeetingStateOfCompany:        "State of the Company Meeting Agenda",
	MeetingQuarterlyConversation: "Quarterly Conversation Agenda",
}

// ParseMeetingType resolves s to a canonical MeetingType. Case, spaces,
// hyphens and underscores are ignored, so "Same Page" and "same_page" both
// resolve to MeetingSamePage. Unrecognized input is returned trimmed but
// otherwise unchanged; lookups on it fall back to their defaults.
func ParseMeetingType(s string) MeetingType {
	s = strings.TrimSpace(s)
	squashed := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '/':
			return -1
		}
		return r
	}, strings.ToLower(s))
	if mt, ok := meetingAliases[squashed]; ok {
		return mt
	}
	return MeetingType(s)
}

// Icon returns the page icon for the meeting type and document kind.
func Icon(mt MeetingType, kind Kind) string {
	if e, ok := meetingEmoji[mt]; ok {
		return e
	}
	if kind == KindAgenda {
		return DefaultAgendaIcon
	}
	return DefaultNoteIcon
}

// Label returns the header label line for the meeting type and kind.
func Label(mt MeetingType, kind Kind) string {
	if kind == KindAgenda {
		if l, ok := agendaLabels[mt]; ok {
			return l
		}
		return "Meeting Agenda"
	}
	if l, ok := noteLabels[mt]; ok {
		return l
	}
	return "Meeting Notes"
}
