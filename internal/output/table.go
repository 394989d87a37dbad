package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/hussienjaafar/mojo-digital-wins/internal/database"
	"github.com/hussienjaafar/mojo-digital-wins/internal/evaluator"
	"github.com/hussienjaafar/mojo-digital-wins/internal/learning"
	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	t := NewTerminal(w)

	switch v := data.(type) {
	case []database.Organization:
		return organizationsTable(w, v)
	case *database.Organization:
		return organizationDetail(w, v)
	case []org.InterestTopic:
		return topicsTable(w, v)
	case []org.EntityRule:
		return rulesTable(w, v)
	case *org.AlertPreferences:
		return preferencesDetail(w, v)
	case []database.Evaluation:
		return evaluationsTable(w, v)
	case *database.Evaluation:
		return evaluationDetail(w, t, v)
	case *database.Stats:
		return statsTable(w, v)
	case []evaluator.Outcome:
		return outcomesTable(w, v)
	case *evaluator.Outcome:
		return outcomeDetail(w, t, v)
	case relevance.Result:
		return resultDetail(w, t, &v)
	case relevance.Verdict:
		return verdictDetail(w, t, v)
	case *learning.Summary:
		return feedbackDetail(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func organizationsTable(w io.Writer, orgs []database.Organization) error {
	if len(orgs) == 0 {
		fmt.Fprintln(w, "No organizations found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Name", "Type", "Geographies", "ID")
	for _, o := range orgs {
		if err := table.Append([]string{
			truncate(o.Name, 30),
			string(o.Type),
			truncate(strings.Join(o.Geographies, ", "), 30),
			o.ID,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func organizationDetail(w io.Writer, o *database.Organization) error {
	fmt.Fprintf(w, "Name:          %s\n", o.Name)
	fmt.Fprintf(w, "ID:            %s\n", o.ID)
	if o.Type != "" {
		fmt.Fprintf(w, "Type:          %s\n", o.Type)
	}
	if o.Mission != "" {
		fmt.Fprintf(w, "Mission:       %s\n", o.Mission)
	}
	printList(w, "Focus areas:   ", o.FocusAreas)
	printList(w, "Key issues:    ", o.KeyIssues)
	printList(w, "Geographies:   ", o.Geographies)
	printList(w, "Primary goals: ", o.PrimaryGoals)
	fmt.Fprintf(w, "Created:       %s\n", o.CreatedAt.Local().Format("Jan 02, 2006"))
	return nil
}

func topicsTable(w io.Writer, topics []org.InterestTopic) error {
	if len(topics) == 0 {
		fmt.Fprintln(w, "No interest topics.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Topic", "Weight", "Source", "ID")
	for _, tp := range topics {
		if err := table.Append([]string{
			tp.Topic,
			strconv.FormatFloat(tp.Weight, 'f', 2, 64),
			string(tp.Source),
			tp.ID,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func rulesTable(w io.Writer, rules []org.EntityRule) error {
	if len(rules) == 0 {
		fmt.Fprintln(w, "No entity rules.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Entity", "Rule", "Reason", "ID")
	for _, r := range rules {
		if err := table.Append([]string{r.EntityName, string(r.RuleType), r.Reason, r.ID}); err != nil {
			return err
		}
	}
	return table.Render()
}

func preferencesDetail(w io.Writer, p *org.AlertPreferences) error {
	fmt.Fprintf(w, "Min relevance:   %s\n", formatScore(p.MinRelevanceScore))
	fmt.Fprintf(w, "Min urgency:     %s\n", formatScore(p.MinUrgencyScore))
	if p.MaxAlertsPerDay > 0 {
		fmt.Fprintf(w, "Max alerts/day:  %d\n", p.MaxAlertsPerDay)
	} else {
		fmt.Fprintln(w, "Max alerts/day:  unlimited")
	}
	fmt.Fprintf(w, "Digest mode:     %s\n", p.DigestMode)
	return nil
}

func evaluationsTable(w io.Writer, evals []database.Evaluation) error {
	if len(evals) == 0 {
		fmt.Fprintln(w, "No evaluations found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("When", "Entity", "Score", "Bucket", "Gate", "Alert", "ID")
	for _, e := range evals {
		gate := "pass"
		switch {
		case e.IsBlocked:
			gate = "blocked"
		case !e.Passed:
			gate = "fail"
		}
		if err := table.Append([]string{
			formatAge(time.Since(e.CreatedAt)),
			truncate(e.EntityName, 30),
			strconv.Itoa(e.Score),
			string(e.PriorityBucket),
			gate,
			yesNo(e.Alerted),
			e.ID,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func evaluationDetail(w io.Writer, t *Terminal, e *database.Evaluation) error {
	fmt.Fprintf(w, "Entity:     %s\n", e.EntityName)
	if e.EntityType != "" {
		fmt.Fprintf(w, "Type:       %s\n", e.EntityType)
	}
	printList(w, "Topics:     ", e.Topics)
	fmt.Fprintf(w, "Score:      %d (%s)\n", e.Score, t.Color(BucketColor(e.PriorityBucket), string(e.PriorityBucket)))
	fmt.Fprintf(w, "Urgency:    %s\n", formatScore(e.Urgency))
	fmt.Fprintf(w, "Gate:       %s\n", t.Color(PassColor(e.Passed), passLabel(e.Passed, e.GateReason)))
	if e.Alerted && e.DeliverAt != nil {
		fmt.Fprintf(w, "Delivery:   %s\n", e.DeliverAt.Local().Format("Jan 02 15:04"))
	}
	if e.Feedback != nil {
		fmt.Fprintf(w, "Feedback:   %s\n", *e.Feedback)
	}
	printReasons(w, e.Reasons)
	return nil
}

func statsTable(w io.Writer, s *database.Stats) error {
	fmt.Fprintln(w, "Relevance Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Total evaluations:      %d\n", s.TotalEvaluations)
	fmt.Fprintf(w, "High priority:          %d\n", s.High)
	fmt.Fprintf(w, "Medium priority:        %d\n", s.Medium)
	fmt.Fprintf(w, "Low priority:           %d\n", s.Low)
	fmt.Fprintf(w, "Blocked:                %d\n", s.Blocked)
	fmt.Fprintf(w, "Passed gate:            %d\n", s.Passed)
	fmt.Fprintf(w, "Alerted:                %d\n", s.Alerted)

	if s.TotalEvaluations > 0 {
		fmt.Fprintf(w, "Average score:          %.1f\n", s.AverageScore)
		fmt.Fprintf(w, "Pass rate:              %.1f%%\n", s.PassRate()*100)
	}
	if s.Useful+s.NotUseful > 0 {
		fmt.Fprintf(w, "Feedback:               %d useful, %d not useful\n", s.Useful, s.NotUseful)
	}

	return nil
}

func outcomesTable(w io.Writer, outcomes []evaluator.Outcome) error {
	if len(outcomes) == 0 {
		fmt.Fprintln(w, "No candidates evaluated.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Entity", "Score", "Bucket", "Gate", "Delivery", "ID")
	for _, o := range outcomes {
		gate := "pass"
		switch {
		case o.Result.IsBlocked:
			gate = "blocked"
		case !o.Verdict.Passes:
			gate = "fail"
		}
		delivery := "-"
		if o.Delivery.Alert {
			delivery = o.Delivery.DeliverAt.Local().Format("Jan 02 15:04")
		} else if o.Verdict.Passes {
			delivery = "capped"
		}
		if err := table.Append([]string{
			truncate(o.Input.Candidate.EntityName, 30),
			strconv.Itoa(o.Result.Score),
			string(o.Result.PriorityBucket),
			gate,
			delivery,
			o.EvaluationID,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func outcomeDetail(w io.Writer, t *Terminal, o *evaluator.Outcome) error {
	fmt.Fprintf(w, "Entity:     %s\n", o.Input.Candidate.EntityName)
	if err := resultDetail(w, t, &o.Result); err != nil {
		return err
	}
	fmt.Fprintf(w, "Urgency:    %s\n", formatScore(o.Input.Urgency))
	if err := verdictDetail(w, t, o.Verdict); err != nil {
		return err
	}
	switch {
	case o.Delivery.Alert:
		fmt.Fprintf(w, "Delivery:   %s\n", o.Delivery.DeliverAt.Local().Format("Jan 02 15:04"))
	case o.Verdict.Passes:
		fmt.Fprintf(w, "Delivery:   none (%s)\n", o.Delivery.Reason)
	}
	if o.EvaluationID != "" {
		fmt.Fprintf(w, "Recorded:   %s\n", o.EvaluationID)
	}
	return nil
}

func resultDetail(w io.Writer, t *Terminal, r *relevance.Result) error {
	fmt.Fprintf(w, "Score:      %d (%s)\n", r.Score, t.Color(BucketColor(r.PriorityBucket), string(r.PriorityBucket)))
	if r.IsBlocked {
		fmt.Fprintln(w, "Blocked:    yes")
	}
	if r.IsAllowlisted {
		fmt.Fprintln(w, "Allowlist:  yes")
	}
	printList(w, "Topics:     ", r.MatchedTopics)
	printList(w, "Places:     ", r.MatchedGeographies)
	printReasons(w, r.Reasons)
	return nil
}

func verdictDetail(w io.Writer, t *Terminal, v relevance.Verdict) error {
	fmt.Fprintf(w, "Gate:       %s\n", t.Color(PassColor(v.Passes), passLabel(v.Passes, v.Reason)))
	return nil
}

func feedbackDetail(w io.Writer, s *learning.Summary) error {
	fmt.Fprintf(w, "Recorded %s feedback for %s\n", strings.ReplaceAll(string(s.Feedback), "_", " "), s.EvaluationID)
	if s.Previous != nil && *s.Previous != s.Feedback {
		fmt.Fprintf(w, "Replaced earlier %s feedback\n", strings.ReplaceAll(string(*s.Previous), "_", " "))
	}
	if s.Skipped != "" {
		fmt.Fprintf(w, "Topics unchanged: %s\n", s.Skipped)
		return nil
	}
	for _, c := range s.Adjusted {
		fmt.Fprintf(w, "  %-30s %.2f -> %.2f\n", c.Topic, c.Before, c.After)
	}
	for _, topic := range s.Added {
		fmt.Fprintf(w, "  + %s\n", topic)
	}
	if len(s.Adjusted) == 0 && len(s.Added) == 0 {
		fmt.Fprintln(w, "No learned topics changed.")
	}
	return nil
}

func printList(w io.Writer, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(w, "%s%s\n", label, strings.Join(values, ", "))
}

func printReasons(w io.Writer, reasons []string) {
	if len(reasons) == 0 {
		return
	}
	fmt.Fprintln(w, "Reasons:")
	for _, r := range reasons {
		fmt.Fprintf(w, "  - %s\n", r)
	}
}

func passLabel(passes bool, reason string) string {
	if passes {
		return "pass"
	}
	if reason == "" {
		return "fail"
	}
	return "fail: " + reason
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// formatScore prints whole scores without decimals
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
