package document

import (
	"fmt"
	"math"
	"strings"

	"github.com/fuelcore/meetingrelay/internal/block"
)

const (
	companyName     = "FUEL CORE SOLUTIONS"
	frameworkLine   = "EOS / Traction Framework"
	defaultScribe   = "Fireflies AI"
	ratingPending   = "To be submitted"
	targetAverage   = "Target Average: 8+"
	droppedToIssues = "Dropped to Issues List"
)

func sectionHeading(text string) block.Block {
	return block.Heading(2, text)
}

// cells renders values as exactly width table cells, padding with empty
// strings.
func cells(width int, vals ...Value) []string {
	out := make([]string, width)
	for i := 0; i < width && i < len(vals); i++ {
		out[i] = vals[i].String()
	}
	return out
}

func buildHeader(mt MeetingType, kind Kind) []block.Block {
	return []block.Block{
		block.Heading(1, companyName),
		block.RichParagraph(block.Bold(Label(mt, kind))),
		block.Paragraph(frameworkLine),
		block.Divider(),
	}
}

func buildFooter(kind Kind) []block.Block {
	text := "Notes captured by Fireflies AI and formatted for the EOS workspace."
	if kind == KindAgenda {
		text = "Come prepared: review your rocks, to-dos and issues before the meeting."
	}
	return []block.Block{
		block.Divider(),
		block.Paragraph(text),
	}
}

// formatDuration renders minutes as "~N min". Unparseable input is shown
// as given.
func formatDuration(v Value) string {
	if f, ok := v.Float(); ok {
		return fmt.Sprintf("~%d min", int(math.Round(f)))
	}
	return v.String()
}

func buildMeetingInfo(in *MeetingInfo) []block.Block {
	var rows [][]string
	add := func(field, details string) {
		if details != "" {
			rows = append(rows, []string{field, details})
		}
	}
	add("Date", strings.TrimSpace(in.Date))
	add("Time", strings.TrimSpace(in.Time))
	if in.DurationMinutes.IsSet() {
		add("Duration", formatDuration(in.DurationMinutes))
	}
	add("Location", strings.TrimSpace(in.Location))
	add("Facilitator", strings.TrimSpace(in.Facilitator))
	if in.Scribe != nil {
		scribe := strings.TrimSpace(*in.Scribe)
		if scribe == "" {
			scribe = defaultScribe
		}
		add("Scribe", scribe)
	}
	if len(in.Attendees) > 0 {
		add("Attendees", strings.Join(in.Attendees, ", "))
	}

	return []block.Block{
		sectionHeading("📋 MEETING INFO"),
		block.Table([]string{"Field", "Details"}, rows),
	}
}

func buildSegue(in []SegueEntry) []block.Block {
	rows := make([][]string, 0, len(in))
	for _, e := range in {
		rows = append(rows, cells(3, e.Person, e.Personal, e.Professional))
	}
	return []block.Block{
		sectionHeading("🎉 SEGUE: GOOD NEWS"),
		block.Table([]string{"Person", "Personal Good News", "Professional Good News"}, rows),
	}
}

func buildScorecard(in []ScorecardEntry) []block.Block {
	rows := make([][]string, 0, len(in))
	for _, e := range in {
		rows = append(rows, cells(5, e.Metric, e.Owner, e.Goal, e.Actual, e.Status))
	}
	return []block.Block{
		sectionHeading("📊 SCORECARD REVIEW"),
		block.Table([]string{"Metric", "Owner", "Goal", "Actual", "Status"}, rows),
	}
}

func buildRockReview(in []RockEntry) []block.Block {
	rows := make([][]string, 0, len(in))
	for _, e := range in {
		rows = append(rows, cells(4, e.Rock, e.Owner, e.Due, e.Status))
	}
	return []block.Block{
		sectionHeading("🪨 ROCK REVIEW"),
		block.Table([]string{"Rock", "Owner", "Due", "Status"}, rows),
	}
}

func buildTodoReview(in *TodoReview) []block.Block {
	rows := make([][]string, 0, len(in.Items))
	for _, e := range in.Items {
		rows = append(rows, cells(3, e.Todo, e.Owner, e.Status))
	}
	out := []block.Block{
		sectionHeading("✅ TO-DO LIST REVIEW"),
		block.Table([]string{"To-Do", "Owner", "Status"}, rows),
	}
	if in.CompletionRate.IsSet() {
		out = append(out, block.Callout("Completion Rate: "+in.CompletionRate.String(), "✅"))
	}
	return out
}

func headlineText(h Headline) string {
	var sb strings.Builder
	if t := h.Type.String(); t != "" {
		sb.WriteString("[" + t + "] ")
	}
	sb.WriteString(h.Headline.String())
	if h.DroppedToIssues {
		sb.WriteString(" → " + droppedToIssues)
	}
	return sb.String()
}

func buildHeadlines(in []Headline) []block.Block {
	out := []block.Block{sectionHeading("📰 CUSTOMER/EMPLOYEE HEADLINES")}
	for _, h := range in {
		out = append(out, block.Bullet(headlineText(h)))
	}
	return out
}

func labelled(label string, v Value) block.Block {
	return block.RichParagraph(block.Bold(label+": "), block.Text(v.String()))
}

func issueTodoText(t IssueTodo) string {
	text := t.Todo.String()
	var meta []string
	if o := t.Owner.String(); o != "" {
		meta = append(meta, "Owner: "+o)
	}
	if d := t.DueDate.String(); d != "" {
		meta = append(meta, "Due: "+d)
	}
	if len(meta) > 0 {
		text += " (" + strings.Join(meta, ", ") + ")"
	}
	return text
}

func buildIDS(in []Issue) []block.Block {
	out := []block.Block{sectionHeading("🔧 IDS: IDENTIFY, DISCUSS, SOLVE")}
	for i, issue := range in {
		title := fmt.Sprintf("Issue %d", i+1)
		if t := issue.Title.String(); t != "" {
			title += ": " + t
		}
		out = append(out, block.Heading(2, title))
		out = append(out, labelled("Issue", issue.Issue))
		if issue.RootCause.String() != "" {
			out = append(out, labelled("Root Cause", issue.RootCause))
		}
		if issue.DiscussionSummary.String() != "" {
			out = append(out, labelled("Discussion Summary", issue.DiscussionSummary))
		}
		out = append(out, labelled("Solution", issue.Solution))

		var todos []block.Block
		for _, t := range issue.Todos {
			if text := issueTodoText(t); text != "" {
				todos = append(todos, block.Bullet(text))
			}
		}
		if len(todos) > 0 {
			out = append(out, block.RichParagraph(block.Bold("To-Dos:")))
			out = append(out, todos...)
		}
	}
	return out
}

func buildConcludeTodos(in []ConcludeTodo) []block.Block {
	rows := make([][]string, 0, len(in))
	for _, e := range in {
		rows = append(rows, cells(4, e.Todo, e.Owner, e.DueDate, e.Department))
	}
	return []block.Block{
		sectionHeading("📝 CONCLUDE: NEW TO-DOS"),
		block.Table([]string{"To-Do", "Owner", "Due Date", "Department"}, rows),
	}
}

func buildCascading(in []CascadingMessage) []block.Block {
	rows := make([][]string, 0, len(in))
	for _, e := range in {
		rows = append(rows, cells(3, e.Message, e.Who, e.ToWhom))
	}
	return []block.Block{
		sectionHeading("📣 CASCADING MESSAGES"),
		block.Table([]string{"Message", "Who Communicates", "To Whom"}, rows),
	}
}

func buildNextMeeting(in *NextMeeting) []block.Block {
	var parts []string
	for _, s := range []string{in.Date, in.Time, in.Location} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return []block.Block{
		sectionHeading("📅 NEXT MEETING"),
		block.Paragraph(strings.Join(parts, " | ")),
	}
}

// ratingText normalizes a rating cell. Zero, missing and the literal
// placeholder all mean the attendee has not rated yet.
func ratingText(v Value) string {
	if !v.IsSet() {
		return ratingPending
	}
	if f, ok := v.Float(); ok {
		if f == 0 {
			return ratingPending
		}
		return formatNumber(f)
	}
	s := v.String()
	if s == "" || strings.EqualFold(s, ratingPending) {
		return ratingPending
	}
	return s
}

func buildMeetingRating(in *MeetingRating) []block.Block {
	rows := make([][]string, 0, len(in.Ratings))
	for _, r := range in.Ratings {
		rows = append(rows, []string{r.Attendee.String(), ratingText(r.Rating)})
	}
	out := []block.Block{
		sectionHeading("⭐ MEETING RATING"),
		block.Table([]string{"Attendee", "Rating (1–10)"}, rows),
		block.RichParagraph(block.Bold(targetAverage)),
	}
	if avg, ok := in.Average.Float(); ok && avg > 0 {
		out = append(out, block.Callout(fmt.Sprintf("Average Rating: %s/10", formatNumber(avg)), "⭐"))
	}
	return out
}

// numberedTable renders items as a two-column table with 1-based row
// numbers.
func numberedTable(column string, items []string) block.Block {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{fmt.Sprint(i + 1), item})
	}
	return block.Table([]string{"#", column}, rows)
}

func buildActionItems(items []string) []block.Block {
	return []block.Block{
		sectionHeading("✅ ACTION ITEMS"),
		numberedTable("Action Item", items),
	}
}

func buildKeyPoints(items []string) []block.Block {
	return []block.Block{
		sectionHeading("💡 KEY POINTS"),
		numberedTable("Key Point", items),
	}
}

func buildOverview(text string) []block.Block {
	return append([]block.Block{sectionHeading("📝 OVERVIEW")}, markdownBlocks(text)...)
}

type segment struct {
	name, duration, description string
}

var l10Segments = [...]segment{
	{"Segue", "5 min", "Share personal and professional good news"},
	{"Scorecard Review", "5 min", "Review weekly metrics - on/off track"},
	{"Rock Review", "5 min", "Review quarterly priorities - on/off track"},
	{"Customer/Employee Headlines", "5 min", "Notable news and updates"},
	{"To-Do Review", "5 min", "Review last week's to-dos - done/not done"},
	{"IDS (Identify, Discuss, Solve)", "60 min", "Work through issues list"},
	{"Conclude", "5 min", "Recap to-dos, cascading messages, rate 1-10"},
}

func buildL10Agenda() []block.Block {
	rows := make([][]string, 0, len(l10Segments))
	for _, s := range l10Segments {
		rows = append(rows, []string{s.name, s.duration, s.description})
	}
	return []block.Block{
		sectionHeading("🔟 L10 MEETING AGENDA"),
		block.Table([]string{"Segment", "Duration", "Description"}, rows),
	}
}

func buildRocksToReview(items []string) []block.Block {
	return []block.Block{
		sectionHeading("🪨 ROCKS TO REVIEW"),
		numberedTable("Rock", items),
	}
}

func buildIssuesForIDS(items []string) []block.Block {
	return []block.Block{
		sectionHeading("⚠️ ISSUES FOR IDS"),
		numberedTable("Issue", items),
	}
}

func buildAgendaItems(items []string) []block.Block {
	return []block.Block{
		sectionHeading("📌 AGENDA ITEMS"),
		numberedTable("Agenda Item", items),
	}
}
