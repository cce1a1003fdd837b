package services

import (
	"fmt"
	"strings"

	"github.com/ad/go-telegram-practice/internal/models"
)

// ProblemURL builds the public problemset link for a problem.
func ProblemURL(contestID int, index string) string {
	return fmt.Sprintf("https://codeforces.com/problemset/problem/%d/%s", contestID, index)
}

// FormatProblem renders one delivery line in Markdown:
// [name](link) — 1200⭐ (dp, math)
func FormatProblem(p models.Problem) string {
	return fmt.Sprintf("[%s](%s) — %s⭐ (%s)",
		p.Name,
		ProblemURL(p.ContestID, p.Index),
		formatRating(p.Rating),
		strings.Join(p.Tags, ", "),
	)
}

// FormatHistory renders the recent-problems block, newest entry first.
func FormatHistory(entries []*models.HistoryEntry) string {
	var b strings.Builder
	b.WriteString("🕓 *Recent Problems:*\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "[%s](%s) — %s\n",
			e.Name,
			ProblemURL(e.ContestID, e.ProblemIndex),
			formatRating(e.Rating),
		)
	}
	return b.String()
}

func formatRating(r *int) string {
	if r == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *r)
}
