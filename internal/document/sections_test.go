package document

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/fuelcore/meetingrelay/internal/block"
)

func TestRatingText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`0`, "To be submitted"},
		{`"To be submitted"`, "To be submitted"},
		{`"to be submitted"`, "To be submitted"},
		{`null`, "To be submitted"},
		{`""`, "To be submitted"},
		{`7`, "7"},
		{`"8"`, "8"},
		{`8.5`, "8.5"},
		{`"great"`, "great"},
	}
	for _, tt := range tests {
		var v Value
		if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if got := ratingText(v); got != tt.want {
			t.Errorf("ratingText(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildMeetingRating(t *testing.T) {
	in := &MeetingRating{
		Ratings: []Rating{
			{Attendee: V("Ann"), Rating: V(0.0)},
			{Attendee: V("Bo"), Rating: V("To be submitted")},
			{Attendee: V("Cy"), Rating: V(7.0)},
		},
	}
	blocks := buildMeetingRating(in)
	if len(blocks) != 3 {
		t.Fatalf("blocks = %d, want 3 (no average callout)", len(blocks))
	}

	rows := blocks[1].Children
	if got := rows[0].CellTexts(); !reflect.DeepEqual(got, []string{"Attendee", "Rating (1–10)"}) {
		t.Errorf("header = %v", got)
	}
	for i, want := range []string{"To be submitted", "To be submitted", "7"} {
		if got := rows[i+1].CellTexts()[1]; got != want {
			t.Errorf("row %d rating = %q, want %q", i+1, got, want)
		}
	}
	if blocks[2].PlainText() != "Target Average: 8+" || !blocks[2].Text[0].Bold {
		t.Errorf("target paragraph = %+v", blocks[2])
	}

	in.Average = V("8.25")
	blocks = buildMeetingRating(in)
	if len(blocks) != 4 {
		t.Fatalf("blocks = %d, want 4 with average", len(blocks))
	}
	if got := blocks[3].PlainText(); got != "Average Rating: 8.3/10" {
		t.Errorf("average callout = %q", got)
	}

	in.Average = V(0.0)
	if got := len(buildMeetingRating(in)); got != 3 {
		t.Errorf("zero average emitted a callout (blocks = %d)", got)
	}
}

func TestBuildTodoReview_RowCount(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		in := &TodoReview{}
		for i := 0; i < n; i++ {
			in.Items = append(in.Items, TodoItem{Todo: V("x")})
		}
		blocks := buildTodoReview(in)
		table := blocks[1]
		if len(table.Children) != n+1 {
			t.Errorf("n=%d: rows = %d, want %d", n, len(table.Children), n+1)
		}
		for i, row := range table.Children {
			if len(row.Cells) != 3 {
				t.Errorf("n=%d row %d: cells = %d, want 3", n, i, len(row.Cells))
			}
		}
		if len(blocks) != 2 {
			t.Errorf("n=%d: completion callout emitted without a rate", n)
		}
	}
}

func TestBuildMeetingInfo_Fields(t *testing.T) {
	scribe := "Dee"
	in := &MeetingInfo{
		Date:            "2025-01-06",
		DurationMinutes: V("89.6"),
		Facilitator:     "Ann",
		Scribe:          &scribe,
		Attendees:       []string{"Ann", "Bo"},
	}
	rows := buildMeetingInfo(in)[1].Children

	var got [][]string
	for _, r := range rows[1:] {
		got = append(got, r.CellTexts())
	}
	want := [][]string{
		{"Date", "2025-01-06"},
		{"Duration", "~90 min"},
		{"Facilitator", "Ann"},
		{"Scribe", "Dee"},
		{"Attendees", "Ann, Bo"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rows =\n%v\nwant\n%v", got, want)
	}
}

func TestBuildIDS_OptionalParagraphs(t *testing.T) {
	blocks := buildIDS([]Issue{
		{Title: V("Churn"), Issue: V("Losing SMB"), Solution: V("Onboarding call")},
		{Issue: V("Hiring"), RootCause: V("Low pay"), DiscussionSummary: V("Benchmarked"), Solution: V("Raise band")},
	})

	var outline []string
	for _, b := range blocks {
		outline = append(outline, b.PlainText())
	}
	want := []string{
		"🔧 IDS: IDENTIFY, DISCUSS, SOLVE",
		"Issue 1: Churn",
		"Issue: Losing SMB",
		"Solution: Onboarding call",
		"Issue 2",
		"Issue: Hiring",
		"Root Cause: Low pay",
		"Discussion Summary: Benchmarked",
		"Solution: Raise band",
	}
	if !reflect.DeepEqual(outline, want) {
		t.Errorf("outline =\n%v\nwant\n%v", outline, want)
	}
	if !blocks[2].Text[0].Bold || blocks[2].Text[1].Bold {
		t.Errorf("labelled paragraph runs = %+v", blocks[2].Text)
	}
}

func TestBuildIDS_Todos(t *testing.T) {
	var issue Issue
	body := `{"title": "X", "todos": ["Call Acme", {"todo": "Draft plan", "owner": "Bo", "due_date": "Fri"}]}`
	if err := json.Unmarshal([]byte(body), &issue); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	blocks := buildIDS([]Issue{issue})
	got := block.Render(blocks[len(blocks)-3:])
	want := "**To-Dos:**\n- Call Acme\n- Draft plan (Owner: Bo, Due: Fri)\n"
	if got != want {
		t.Errorf("todos =\n%s\nwant\n%s", got, want)
	}
}

func TestHeadlineText(t *testing.T) {
	tests := []struct {
		in   Headline
		want string
	}{
		{Headline{Headline: V("Acme renewed")}, "Acme renewed"},
		{Headline{Type: V("Customer"), Headline: V("Acme renewed")}, "[Customer] Acme renewed"},
		{Headline{Headline: V("Server outage"), DroppedToIssues: true}, "Server outage → Dropped to Issues List"},
	}
	for _, tt := range tests {
		if got := headlineText(tt.in); got != tt.want {
			t.Errorf("headlineText(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCells_PadsToWidth(t *testing.T) {
	got := cells(4, V("a"))
	if !reflect.DeepEqual(got, []string{"a", "", "", ""}) {
		t.Errorf("cells = %q", got)
	}
}

func TestBuilders_Deterministic(t *testing.T) {
	in := []ScorecardEntry{{Metric: V("NPS"), Goal: V(50.0), Actual: V("48")}}
	if !reflect.DeepEqual(buildScorecard(in), buildScorecard(in)) {
		t.Error("buildScorecard is not deterministic")
	}
	if !reflect.DeepEqual(buildL10Agenda(), buildL10Agenda()) {
		t.Error("buildL10Agenda is not deterministic")
	}
}
