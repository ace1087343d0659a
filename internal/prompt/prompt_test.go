package prompt

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildRequiredFields(t *testing.T) {
	tests := []struct {
		name         string
		kind         Kind
		fields       map[string]string
		wantErr      bool
		missingField string
	}{
		{
			name:   "resume analysis with text",
			kind:   KindResumeAnalysis,
			fields: map[string]string{FieldResumeText: "5 years of Go"},
		},
		{
			name:         "resume analysis without text",
			kind:         KindResumeAnalysis,
			fields:       map[string]string{},
			wantErr:      true,
			missingField: FieldResumeText,
		},
		{
			name:         "resume analysis blank text",
			kind:         KindResumeAnalysis,
			fields:       map[string]string{FieldResumeText: "   "},
			wantErr:      true,
			missingField: FieldResumeText,
		},
		{
			name:   "roadmap with role",
			kind:   KindRoadmap,
			fields: map[string]string{FieldTargetRole: "DevOps Engineer"},
		},
		{
			name:         "roadmap without role",
			kind:         KindRoadmap,
			fields:       map[string]string{FieldExperienceLevel: "Beginner"},
			wantErr:      true,
			missingField: FieldTargetRole,
		},
		{
			name:   "interview with role",
			kind:   KindInterview,
			fields: map[string]string{FieldTargetRole: "Data Analyst"},
		},
		{
			name:         "interview without role",
			kind:         KindInterview,
			fields:       nil,
			wantErr:      true,
			missingField: FieldTargetRole,
		},
		{
			name:   "advice with question",
			kind:   KindAdvice,
			fields: map[string]string{FieldQuestion: "Should I switch careers?"},
		},
		{
			name:         "advice without question",
			kind:         KindAdvice,
			fields:       map[string]string{},
			wantErr:      true,
			missingField: FieldQuestion,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(tt.kind, tt.fields)
			if tt.wantErr {
				if !errors.Is(err, ErrMissingField) {
					t.Fatalf("expected ErrMissingField, got %v", err)
				}
				var missing *MissingFieldError
				if !errors.As(err, &missing) {
					t.Fatalf("expected MissingFieldError, got %T", err)
				}
				if missing.Field != tt.missingField {
					t.Fatalf("expected missing field %q, got %q", tt.missingField, missing.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if got == "" {
				t.Fatalf("expected non-empty prompt")
			}
		})
	}
}

func TestBuildSubstitutesFields(t *testing.T) {
	got, err := Build(KindRoadmap, map[string]string{
		FieldTargetRole:      "Cloud Engineer",
		FieldExperienceLevel: "Intermediate",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(got, "Cloud Engineer") {
		t.Fatalf("prompt missing target role: %q", got)
	}
	if !strings.Contains(got, "Intermediate") {
		t.Fatalf("prompt missing experience level: %q", got)
	}
	if strings.Contains(got, "{{") {
		t.Fatalf("prompt contains unexpanded placeholder: %q", got)
	}
}

func TestBuildOptionalFieldDefaults(t *testing.T) {
	got, err := Build(KindInterview, map[string]string{FieldTargetRole: "Frontend Developer"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(got, "Technical + Behavioral") {
		t.Fatalf("expected default focus in prompt: %q", got)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	fields := map[string]string{FieldQuestion: "How do I negotiate salary?"}
	first, err := Build(KindAdvice, fields)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Build(KindAdvice, fields)
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if again != first {
			t.Fatalf("expected deterministic prompt, got divergence:\n%q\n%q", first, again)
		}
	}
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := Build(Kind("astrology"), map[string]string{})
	if err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if errors.Is(err, ErrMissingField) {
		t.Fatalf("unknown kind must not report a missing field")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		raw  string
		want Kind
		ok   bool
	}{
		{raw: "resume-analysis", want: KindResumeAnalysis, ok: true},
		{raw: "Roadmap", want: KindRoadmap, ok: true},
		{raw: " interview ", want: KindInterview, ok: true},
		{raw: "advice", want: KindAdvice, ok: true},
		{raw: "resume", ok: false},
		{raw: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseKind(tt.raw)
		if ok != tt.ok {
			t.Fatalf("ParseKind(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
		}
		if ok && got != tt.want {
			t.Fatalf("ParseKind(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestRequirements(t *testing.T) {
	required, optional := Requirements(KindInterview)
	if len(required) != 1 || required[0] != FieldTargetRole {
		t.Fatalf("unexpected required fields: %v", required)
	}
	if len(optional) != 1 || optional[0] != FieldFocus {
		t.Fatalf("unexpected optional fields: %v", optional)
	}
}
