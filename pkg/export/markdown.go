package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/learnmerge/pkg/reconcile"
)

// Markdown writes a human review report: headline figures, a pair table,
// and a section per pair that needs attention.
func Markdown(w io.Writer, res *reconcile.Result) error {
	doc := md.NewMarkdown(w)
	s := res.Summary

	doc.H1("Duplicate Account Review").LF()
	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Duplicate pairs", strconv.Itoa(s.Total)},
			{"Exact email", strconv.Itoa(s.ExactEmail)},
			{"Same phone", strconv.Itoa(s.SamePhone)},
			{"Fuzzy name", strconv.Itoa(s.FuzzyName)},
			{"Intra-platform", strconv.Itoa(s.Intra)},
			{"Ready to merge", strconv.Itoa(s.Ready)},
			{"Needs review", strconv.Itoa(s.NeedsReview)},
			{"Courses to migrate", strconv.Itoa(s.MissingCourses)},
		},
	}).LF()

	for _, src := range res.Sources {
		for _, warn := range src.Warnings {
			doc.Blockquote(fmt.Sprintf("%s: %s", src.Platform, warn)).LF()
		}
	}

	if len(res.Pairs) == 0 {
		doc.PlainText("No duplicate accounts found.").LF()
		return doc.Build()
	}

	doc.H2("Pairs").LF()
	rows := make([][]string, 0, len(res.Pairs))
	for _, p := range res.Pairs {
		rows = append(rows, []string{
			md.Code(shortID(p.ID)),
			p.Name,
			string(p.Strategy),
			strconv.Itoa(p.Score),
			p.PrimaryAccount,
			p.PrimaryEmail,
			p.SecondaryEmail,
			strconv.Itoa(len(p.MigrationSteps)),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"ID", "Name", "Match", "Score", "Primary", "Primary Email", "Secondary Email", "Gaps"},
		Rows:   rows,
	}).LF()

	for _, p := range res.Pairs {
		if !p.NeedsReview() && len(p.MigrationSteps) == 0 {
			continue
		}
		doc.H3(fmt.Sprintf("%s (%s)", p.Name, shortID(p.ID))).LF()
		doc.PlainText(md.Bold("Decision:") + " " + p.DecisionReason).LF().LF()
		if p.AIAnalysis != "" {
			doc.PlainText(md.Bold("Analysis:") + " " + p.AIAnalysis).LF().LF()
		}
		if len(p.Warnings) > 0 {
			doc.BulletList(p.Warnings...).LF()
		}
		if len(p.MigrationSteps) > 0 {
			steps := make([]string, 0, len(p.MigrationSteps))
			for _, step := range p.MigrationSteps {
				steps = append(steps, step.Action)
			}
			doc.OrderedList(steps...).LF()
		}
	}
	return doc.Build()
}

func shortID(id string) string {
	prefix, rest, ok := strings.Cut(id, "-")
	if !ok || len(rest) < 8 {
		return id
	}
	return prefix + "-" + rest[:8]
}
