package scoring

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/veracomply/veracomply-backend/internal/types"
)

// WeightTolerance is the allowed drift of declared section weights from 1.0.
const WeightTolerance = 0.001

// ConfigurationError marks a template-authoring defect (declared section
// weights not summing to 1.0). It must be caught at publish time, before any
// assessment can reference the template.
type ConfigurationError struct {
	TemplateID uuid.UUID
	Sum        float64
	Delta      float64
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("template %s: section weights sum to %.4f (off by %.4f, tolerance %.3f)",
		e.TemplateID, e.Sum, e.Delta, WeightTolerance)
}

// NormalizedTemplate is the engine-facing view of a template: section weights
// validated, question weights renormalized to sum to 1.0 per section, scoring
// rules parsed into their typed form.
type NormalizedTemplate struct {
	TemplateID uuid.UUID
	Name       string
	Sections   []NormalizedSection
}

type NormalizedSection struct {
	SectionID uuid.UUID
	Title     string
	Category  string
	Weight    float64
	Questions []NormalizedQuestion
}

type NormalizedQuestion struct {
	QuestionID   uuid.UUID
	Prompt       string
	Type         string
	Weight       float64
	Required     bool
	Foundational bool

	// Rule is nil when the stored blob failed to parse; the engine scores
	// such questions 0 and logs, it never aborts.
	Rule    Rule
	RuleErr error
}

// NormalizeTemplate validates declared section weights and renormalizes raw
// question weights into per-section fractions. Pure; the input is not mutated.
func NormalizeTemplate(tpl *types.Template) (*NormalizedTemplate, error) {
	if tpl == nil {
		return nil, fmt.Errorf("nil template")
	}

	sum := 0.0
	for _, s := range tpl.Sections {
		sum += s.Weight
	}
	if delta := math.Abs(sum - 1.0); delta > WeightTolerance {
		return nil, &ConfigurationError{TemplateID: tpl.ID, Sum: sum, Delta: delta}
	}

	nt := &NormalizedTemplate{
		TemplateID: tpl.ID,
		Name:       tpl.Name,
		Sections:   make([]NormalizedSection, 0, len(tpl.Sections)),
	}
	for _, s := range tpl.Sections {
		ns := NormalizedSection{
			SectionID: s.ID,
			Title:     s.Title,
			Category:  s.Category,
			Weight:    s.Weight,
			Questions: make([]NormalizedQuestion, 0, len(s.Questions)),
		}

		rawSum := 0.0
		for _, q := range s.Questions {
			if q.RawWeight > 0 {
				rawSum += q.RawWeight
			}
		}

		for _, q := range s.Questions {
			nq := NormalizedQuestion{
				QuestionID:   q.ID,
				Prompt:       q.Prompt,
				Type:         q.Type,
				Required:     q.Required,
				Foundational: q.IsFoundational(),
			}
			if rawSum > 0 {
				raw := q.RawWeight
				if raw < 0 {
					raw = 0
				}
				nq.Weight = raw / rawSum
			} else if n := len(s.Questions); n > 0 {
				// All raw weights zero or absent: spread evenly
				// instead of dividing by zero.
				nq.Weight = 1.0 / float64(n)
			}
			nq.Rule, nq.RuleErr = ParseRule(q.ScoringRule)
			ns.Questions = append(ns.Questions, nq)
		}
		nt.Sections = append(nt.Sections, ns)
	}
	return nt, nil
}

// ValidateRules reports every question whose scoring rule failed to parse.
// Used at publish time so malformed rules are rejected with the template, not
// discovered during scoring.
func (nt *NormalizedTemplate) ValidateRules() error {
	var bad []string
	for _, s := range nt.Sections {
		for _, q := range s.Questions {
			if q.RuleErr != nil {
				bad = append(bad, fmt.Sprintf("question %s: %v", q.QuestionID, q.RuleErr))
			}
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return fmt.Errorf("invalid scoring rules: %v", bad)
}
