package roadmap

import (
	"fmt"
	"sort"
	"strings"

	logpkg "github.com/benvon/roadmap-api/internal/logger"
	"github.com/benvon/roadmap-api/internal/models"
)

const (
	// MaxTopCategories is how many feedback categories the context ranks
	MaxTopCategories = 3
	// MaxTopKeywords is how many extracted keywords the context ranks
	MaxTopKeywords = 5
	// MaxFeedbackExcerpts is how many high-priority excerpts are included
	MaxFeedbackExcerpts = 3
	// ExcerptLength is how many characters of feedback content an excerpt keeps
	ExcerptLength = 100
)

// RankedEntry is a label with its occurrence count across active feedback
type RankedEntry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ProjectContext is the aggregated view of a project and its active feedback
// that generation strategies consume
type ProjectContext struct {
	ProjectSummary      string        `json:"project_summary"`
	FeedbackSummary     string        `json:"feedback_summary"`
	ActiveFeedbackCount int           `json:"active_feedback_count"`
	TopCategories       []RankedEntry `json:"top_categories"`
	TopKeywords         []RankedEntry `json:"top_keywords"`
}

// BuildProjectContext aggregates a project and its active feedback into the
// context bundle used to drive generation. It is a pure function over
// already-loaded entities; the feedback slice must contain only active
// (non-ignored) items.
func BuildProjectContext(project *models.Project, feedback []models.FeedbackItem) ProjectContext {
	pc := ProjectContext{
		ProjectSummary:      buildProjectSummary(project),
		ActiveFeedbackCount: len(feedback),
		TopCategories:       rankCounts(categoryCounts(feedback), MaxTopCategories),
		TopKeywords:         rankCounts(keywordCounts(feedback), MaxTopKeywords),
	}
	pc.FeedbackSummary = buildFeedbackSummary(feedback, pc.TopCategories)
	return pc
}

func buildProjectSummary(project *models.Project) string {
	var b strings.Builder
	b.WriteString("Project: " + project.Name)
	if project.Description != "" {
		b.WriteString("\nDescription: " + project.Description)
	}
	if len(project.Goals) > 0 {
		b.WriteString("\nGoals:")
		for _, goal := range project.Goals {
			b.WriteString(fmt.Sprintf("\n- %s (%s priority)", goal.Title, goal.Priority))
		}
	}
	return b.String()
}

func buildFeedbackSummary(feedback []models.FeedbackItem, topCategories []RankedEntry) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Active feedback items: %d", len(feedback)))

	if len(topCategories) > 0 {
		b.WriteString("\nTop categories:")
		for _, entry := range topCategories {
			b.WriteString(fmt.Sprintf("\n- %s (%d items)", entry.Label, entry.Count))
		}
	}

	excerpts := highPriorityExcerpts(feedback)
	if len(excerpts) > 0 {
		b.WriteString("\nHigh priority feedback:")
		for _, excerpt := range excerpts {
			b.WriteString("\n- " + excerpt)
		}
	}

	return b.String()
}

// highPriorityExcerpts returns excerpts of up to MaxFeedbackExcerpts
// high/critical priority items, truncated to ExcerptLength characters
func highPriorityExcerpts(feedback []models.FeedbackItem) []string {
	var excerpts []string
	for i := range feedback {
		if len(excerpts) >= MaxFeedbackExcerpts {
			break
		}
		switch feedback[i].Priority {
		case models.FeedbackPriorityHigh, models.FeedbackPriorityCritical:
		default:
			continue
		}
		excerpts = append(excerpts, logpkg.Truncate(feedback[i].Content, ExcerptLength))
	}
	return excerpts
}

// orderedCounts tracks counts while remembering first-seen order so that
// ranking ties break deterministically
type orderedCounts struct {
	counts map[string]int
	order  map[string]int
	next   int
}

func newOrderedCounts() *orderedCounts {
	return &orderedCounts{
		counts: make(map[string]int),
		order:  make(map[string]int),
	}
}

func (c *orderedCounts) add(label string) {
	if label == "" {
		return
	}
	if _, seen := c.counts[label]; !seen {
		c.order[label] = c.next
		c.next++
	}
	c.counts[label]++
}

func categoryCounts(feedback []models.FeedbackItem) *orderedCounts {
	counts := newOrderedCounts()
	for i := range feedback {
		counts.add(feedback[i].Category)
	}
	return counts
}

func keywordCounts(feedback []models.FeedbackItem) *orderedCounts {
	counts := newOrderedCounts()
	for i := range feedback {
		for _, keyword := range feedback[i].ExtractedKeywords {
			counts.add(keyword)
		}
	}
	return counts
}

// rankCounts sorts by count descending, breaking ties by first-seen order,
// and keeps the top limit entries
func rankCounts(c *orderedCounts, limit int) []RankedEntry {
	entries := make([]RankedEntry, 0, len(c.counts))
	for label, count := range c.counts {
		entries = append(entries, RankedEntry{Label: label, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return c.order[entries[i].Label] < c.order[entries[j].Label]
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
