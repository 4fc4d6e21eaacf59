package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/learnmerge/pkg/reconcile"
)

func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// SQL writes archive and completion statements for every pair flagged for
// deletion. Review-needed pairs are written commented out.
func SQL(w io.Writer, pairs []reconcile.MatchedPair) error {
	var b strings.Builder
	b.WriteString("-- LMS Migration Script\n\n")
	for _, p := range pairs {
		if !p.ShouldDeleteSecondary {
			continue
		}
		prefix := ""
		if !mergeable(p) {
			prefix = "-- "
			fmt.Fprintf(&b, "-- REVIEW NEEDED (%s): confirm the primary account before running.\n", p.ID)
		} else {
			fmt.Fprintf(&b, "-- %s: %s -> %s\n", p.ID, p.SecondaryEmail, p.PrimaryEmail)
		}

		secondary, primary := p.Secondary(), p.Primary()
		fmt.Fprintf(&b, "%sUPDATE %s_users SET status = 'archived', email = CONCAT(email, '_deleted') WHERE email = %s;\n",
			prefix, tablePrefix(secondary.Platform), sqlQuote(secondary.Email))
		for _, step := range p.MigrationSteps {
			fmt.Fprintf(&b, "%sINSERT INTO %s_completions (user_email, course_name, status, date) VALUES (%s, %s, 'Completed', NOW());\n",
				prefix, tablePrefix(primary.Platform), sqlQuote(primary.Email), sqlQuote(step.CourseName))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func pyQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// Python writes a pandas-style action log for every pair flagged for
// deletion. Review-needed pairs are written commented out.
func Python(w io.Writer, pairs []reconcile.MatchedPair) error {
	var b strings.Builder
	b.WriteString("# LMS Migration Script (Python/Pandas)\nimport pandas as pd\n\nlog = []\n\n")
	for _, p := range pairs {
		if !p.ShouldDeleteSecondary {
			continue
		}
		prefix := ""
		if !mergeable(p) {
			prefix = "# "
			fmt.Fprintf(&b, "# REVIEW NEEDED (%s)\n", p.ID)
		}
		fmt.Fprintf(&b, "# Merge %s -> %s\n", p.SecondaryEmail, p.PrimaryEmail)
		for _, step := range p.MigrationSteps {
			fmt.Fprintf(&b, "%slog.append({'user': %s, 'platform': %s, 'course': %s, 'action': 'add_completion'})\n",
				prefix, pyQuote(p.PrimaryEmail), pyQuote(p.Primary().Platform.String()), pyQuote(step.CourseName))
		}
		fmt.Fprintf(&b, "%slog.append({'user': %s, 'platform': %s, 'action': 'archive'})\n\n",
			prefix, pyQuote(p.SecondaryEmail), pyQuote(p.Secondary().Platform.String()))
	}
	b.WriteString("pd.DataFrame(log).to_csv('migration_log.csv', index=False)\n")
	_, err := io.WriteString(w, b.String())
	return err
}
