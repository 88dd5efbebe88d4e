package validation

import (
	"testing"
)

func TestValidateRoadmapType(t *testing.T) {
	t.Parallel()

	valid := []string{"strategic-only", "customer-only", "balanced", "custom"}
	for _, v := range valid {
		if err := ValidateRoadmapType(v); err != nil {
			t.Errorf("ValidateRoadmapType(%q) = %v, want nil", v, err)
		}
	}

	invalid := []string{"", "aggressive", "Balanced", "strategic"}
	for _, v := range invalid {
		if err := ValidateRoadmapType(v); err == nil {
			t.Errorf("ValidateRoadmapType(%q) = nil, want error", v)
		}
	}
}

func TestValidateTimeHorizon(t *testing.T) {
	t.Parallel()

	valid := []string{"quarter", "half-year", "year", "multi-year"}
	for _, v := range valid {
		if err := ValidateTimeHorizon(v); err != nil {
			t.Errorf("ValidateTimeHorizon(%q) = %v, want nil", v, err)
		}
	}

	invalid := []string{"", "decade", "Quarter", "6months"}
	for _, v := range invalid {
		if err := ValidateTimeHorizon(v); err == nil {
			t.Errorf("ValidateTimeHorizon(%q) = nil, want error", v)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"keeps newlines and tabs", "line1\n\tline2", "line1\n\tline2"},
		{"strips control characters", "bad\x00\x07input", "badinput"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateStructWithCustomTags(t *testing.T) {
	t.Parallel()

	type payload struct {
		Type        string `validate:"omitempty,roadmap_type"`
		TimeHorizon string `validate:"omitempty,time_horizon"`
	}

	if err := Validate.Struct(payload{Type: "balanced", TimeHorizon: "quarter"}); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
	if err := Validate.Struct(payload{}); err != nil {
		t.Errorf("empty optional fields rejected: %v", err)
	}
	if err := Validate.Struct(payload{Type: "bogus"}); err == nil {
		t.Error("invalid roadmap type accepted")
	}
	if err := Validate.Struct(payload{TimeHorizon: "bogus"}); err == nil {
		t.Error("invalid time horizon accepted")
	}
}
