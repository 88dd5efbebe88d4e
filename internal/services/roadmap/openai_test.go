package roadmap

import (
	"strings"
	"testing"

	"github.com/benvon/roadmap-api/internal/models"
)

const sampleDraftJSON = `{
  "name": "Atlas roadmap",
  "description": "Next quarter",
  "rationale": "Prioritized by customer impact",
  "items": [
    {
      "title": "Offline sync",
      "category": "customer-driven",
      "priority": "high",
      "timeframe": {"quarter": "Q1 2026", "estimated_duration": {"value": 4, "unit": "weeks"}},
      "business_justification": {"customer_impact": 9, "risk_level": "medium"},
      "status": "proposed"
    }
  ]
}`

func TestParseDraftResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name:    "plain JSON",
			content: sampleDraftJSON,
		},
		{
			name:    "fenced with language tag",
			content: "```json\n" + sampleDraftJSON + "\n```",
		},
		{
			name:    "fenced without language tag",
			content: "```\n" + sampleDraftJSON + "\n```",
		},
		{
			name:    "JSON wrapped in prose",
			content: "Here is the roadmap you asked for:\n" + sampleDraftJSON + "\nLet me know if you need changes.",
		},
		{
			name:    "not JSON at all",
			content: "I could not produce a roadmap.",
			wantErr: true,
		},
		{
			name:    "valid JSON with no items",
			content: `{"name": "empty", "items": []}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			draft, err := parseDraftResponse(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if draft.Name != "Atlas roadmap" {
				t.Errorf("name = %q, want Atlas roadmap", draft.Name)
			}
			if len(draft.Items) != 1 {
				t.Fatalf("item count = %d, want 1", len(draft.Items))
			}
			if draft.Items[0].Title != "Offline sync" {
				t.Errorf("item title = %q", draft.Items[0].Title)
			}
			if draft.Items[0].BusinessJustification.CustomerImpact == nil ||
				*draft.Items[0].BusinessJustification.CustomerImpact != 9 {
				t.Error("customer impact score not parsed")
			}
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unfenced", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := stripCodeFences(tt.content); got != tt.want {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestBuildRoadmapPrompt(t *testing.T) {
	t.Parallel()

	pc := ProjectContext{
		ProjectSummary:  "Project: Atlas",
		FeedbackSummary: "Active feedback items: 4",
		TopKeywords:     []RankedEntry{{Label: "sync", Count: 3}},
	}
	alloc := models.AllocationStrategy{Strategic: 60, CustomerDriven: 30, Maintenance: 10}
	params := models.GenerationParameters{
		TimeHorizon: models.TimeHorizonQuarter,
		FocusAreas:  []string{"mobile"},
		Constraints: []string{"two engineers"},
	}

	prompt := buildRoadmapPrompt(pc, alloc, params)

	for _, want := range []string{
		"Project: Atlas",
		"Active feedback items: 4",
		"sync (3 mentions)",
		"strategic: 60%",
		"customer-driven: 30%",
		"maintenance: 10%",
		"Time horizon: quarter",
		"Focus areas: mobile",
		"Constraints: two engineers",
		"between 8 and 12 items",
		"Return only valid JSON",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
