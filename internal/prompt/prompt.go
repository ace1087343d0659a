package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one of the supported coaching features.
type Kind string

const (
	KindResumeAnalysis Kind = "resume-analysis"
	KindRoadmap        Kind = "roadmap"
	KindInterview      Kind = "interview"
	KindAdvice         Kind = "advice"
)

// Field names accepted in the user-supplied field mapping.
const (
	FieldResumeText      = "resumeText"
	FieldTargetRole      = "targetRole"
	FieldExperienceLevel = "experienceLevel"
	FieldFocus           = "focus"
	FieldQuestion        = "question"
)

// ErrMissingField signals an absent or empty required field.
var ErrMissingField = errors.New("missing field")

// MissingFieldError names the field that failed validation.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

var (
	//go:embed templates/resume_analysis.txt
	resumeAnalysisTemplate string
	//go:embed templates/roadmap.txt
	roadmapTemplate string
	//go:embed templates/interview.txt
	interviewTemplate string
	//go:embed templates/advice.txt
	adviceTemplate string
)

type featureSpec struct {
	template string
	required []string
	optional []string
	defaults map[string]string
}

var placeholders = map[string]string{
	FieldResumeText:      "{{RESUME_TEXT}}",
	FieldTargetRole:      "{{TARGET_ROLE}}",
	FieldExperienceLevel: "{{EXPERIENCE_LEVEL}}",
	FieldFocus:           "{{FOCUS}}",
	FieldQuestion:        "{{QUESTION}}",
}

var specs = map[Kind]featureSpec{
	KindResumeAnalysis: {
		template: resumeAnalysisTemplate,
		required: []string{FieldResumeText},
	},
	KindRoadmap: {
		template: roadmapTemplate,
		required: []string{FieldTargetRole},
		optional: []string{FieldExperienceLevel},
		defaults: map[string]string{FieldExperienceLevel: "not specified"},
	},
	KindInterview: {
		template: interviewTemplate,
		required: []string{FieldTargetRole},
		optional: []string{FieldFocus},
		defaults: map[string]string{FieldFocus: "Technical + Behavioral"},
	},
	KindAdvice: {
		template: adviceTemplate,
		required: []string{FieldQuestion},
	},
}

// Kinds returns the supported feature kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindResumeAnalysis, KindRoadmap, KindInterview, KindAdvice}
}

// ParseKind maps a wire name to a Kind.
func ParseKind(raw string) (Kind, bool) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := specs[kind]
	return kind, ok
}

// Requirements returns the required and optional field names for a kind.
func Requirements(kind Kind) (required, optional []string) {
	spec, ok := specs[kind]
	if !ok {
		return nil, nil
	}
	return spec.required, spec.optional
}

// Build assembles the prompt text for a feature from the field mapping.
// Pure: same (kind, fields) always yields the same string. Fails with a
// MissingFieldError when a required field is absent or blank.
func Build(kind Kind, fields map[string]string) (string, error) {
	spec, ok := specs[kind]
	if !ok {
		return "", fmt.Errorf("unknown feature kind: %q", kind)
	}

	pairs := make([]string, 0, 2*(len(spec.required)+len(spec.optional)))
	for _, name := range spec.required {
		val := strings.TrimSpace(fields[name])
		if val == "" {
			return "", &MissingFieldError{Field: name}
		}
		pairs = append(pairs, placeholders[name], val)
	}
	for _, name := range spec.optional {
		val := strings.TrimSpace(fields[name])
		if val == "" {
			val = spec.defaults[name]
		}
		pairs = append(pairs, placeholders[name], val)
	}

	return strings.TrimSpace(strings.NewReplacer(pairs...).Replace(spec.template)), nil
}
