package seed

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/veracomply/veracomply-backend/internal/scoring"
)

const validSeed = `
templates:
  - name: SOC 2 Readiness
    framework: SOC2
    sections:
      - title: Access Control
        category: access_control
        weight: 0.6
        questions:
          - prompt: Is MFA enforced for all users?
            type: yes_no
            raw_weight: 2.0
            rule:
              kind: mapping
              points: {"yes": 100, "no": 0}
      - title: Data Protection
        category: data_protection
        weight: 0.4
        questions:
          - prompt: Is data encrypted at rest?
            type: yes_no
            rule:
              kind: mapping
              points: {"yes": 100, "no": 0}
vendors:
  - name: Vanta
    website: https://vanta.com
    categories: [access_control, data_protection]
`

func TestParseAndBuildValidSeed(t *testing.T) {
	f, err := Parse(strings.NewReader(validSeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Templates) != 1 || len(f.Vendors) != 1 {
		t.Fatalf("templates=%d vendors=%d, want 1/1", len(f.Templates), len(f.Vendors))
	}

	tpl, err := BuildTemplate(f.Templates[0])
	if err != nil {
		t.Fatalf("BuildTemplate: %v", err)
	}
	if len(tpl.Sections) != 2 {
		t.Fatalf("sections=%d, want 2", len(tpl.Sections))
	}
	q := tpl.Sections[0].Questions[0]
	if !q.IsFoundational() {
		t.Fatalf("raw_weight 2.0 should mark the question foundational")
	}
	// Omitted raw_weight defaults to the 1.0 baseline.
	if w := tpl.Sections[1].Questions[0].RawWeight; w != 1 {
		t.Fatalf("default raw weight=%v, want 1", w)
	}

	vendors, err := BuildVendors(f.Vendors)
	if err != nil {
		t.Fatalf("BuildVendors: %v", err)
	}
	if vendors[0].Name != "Vanta" || !strings.Contains(string(vendors[0].Categories), "access_control") {
		t.Fatalf("vendor built wrong: %+v", vendors[0])
	}
}

func TestBuildTemplateRejectsBadWeights(t *testing.T) {
	doc := strings.Replace(validSeed, "weight: 0.4", "weight: 0.3", 1)
	f, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = BuildTemplate(f.Templates[0])
	var cfgErr *scoring.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("weights summing to 0.9: want ConfigurationError, got %v", err)
	}
	if math.Abs(cfgErr.Sum-0.9) > 0.001 {
		t.Fatalf("reported sum=%v, want 0.9", cfgErr.Sum)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	doc := "templates:\n  - name: X\n    bogus: true\n"
	if _, err := Parse(strings.NewReader(doc)); err == nil {
		t.Fatalf("unknown field should be rejected")
	}
}
