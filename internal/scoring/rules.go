package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	RuleKindMapping     = "mapping"
	RuleKindKeyword     = "keyword"
	RuleKindCountBucket = "count_bucket"
)

// Rule evaluates an answer value to a raw question score in [0,100]. Each rule
// kind has its own evaluator; an unrecognized kind fails at parse time so the
// engine never has to guess at an untyped blob.
type Rule interface {
	Evaluate(value any) (float64, error)
}

// MappingRule scores by explicit option-to-points lookup. Multi-select values
// sum the points of every selected option, clamped to [0,100].
type MappingRule struct {
	Points map[string]float64 `json:"points"`
}

func (r MappingRule) Evaluate(value any) (float64, error) {
	switch v := value.(type) {
	case string:
		return r.lookup(v)
	case bool:
		if v {
			return r.lookup("yes")
		}
		return r.lookup("no")
	case float64:
		return r.lookup(strconv.FormatFloat(v, 'f', -1, 64))
	case []any:
		total := 0.0
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return 0, fmt.Errorf("mapping rule: non-string option %v", item)
			}
			pts, err := r.lookup(s)
			if err != nil {
				return 0, err
			}
			total += pts
		}
		return clampScore(total), nil
	default:
		return 0, fmt.Errorf("mapping rule: unsupported value type %T", value)
	}
}

func (r MappingRule) lookup(key string) (float64, error) {
	pts, ok := r.Points[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return 0, fmt.Errorf("mapping rule: option %q not in mapping", key)
	}
	return clampScore(pts), nil
}

// KeywordRule is the free-text heuristic: score is the fraction of expected
// keywords found in the answer, scaled to 100. MinLengthCredit grants a floor
// of 20 points to any substantive answer so honest prose is not scored as
// silence.
type KeywordRule struct {
	Keywords        []string `json:"keywords"`
	MinLengthCredit bool     `json:"minLengthCredit"`
}

const keywordFloorScore = 20.0

func (r KeywordRule) Evaluate(value any) (float64, error) {
	text, ok := value.(string)
	if !ok {
		return 0, fmt.Errorf("keyword rule: expected text, got %T", value)
	}
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0, nil
	}
	if len(r.Keywords) == 0 {
		if r.MinLengthCredit {
			return keywordFloorScore, nil
		}
		return 0, nil
	}
	matched := 0
	for _, kw := range r.Keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			matched++
		}
	}
	score := 100.0 * float64(matched) / float64(len(r.Keywords))
	if r.MinLengthCredit && score < keywordFloorScore {
		score = keywordFloorScore
	}
	return clampScore(score), nil
}

// CountBucket awards Points when the counted value is at least Min. Buckets
// are checked highest Min first; the first match wins.
type CountBucket struct {
	Min    int     `json:"min"`
	Points float64 `json:"points"`
}

type CountBucketRule struct {
	Buckets []CountBucket `json:"buckets"`
}

func (r CountBucketRule) Evaluate(value any) (float64, error) {
	var count int
	switch v := value.(type) {
	case float64:
		count = int(v)
	case []any:
		count = len(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("count bucket rule: %q is not a count", v)
		}
		count = n
	default:
		return 0, fmt.Errorf("count bucket rule: unsupported value type %T", value)
	}

	best := -1
	points := 0.0
	for _, b := range r.Buckets {
		if count >= b.Min && b.Min > best {
			best = b.Min
			points = b.Points
		}
	}
	if best < 0 {
		return 0, nil
	}
	return clampScore(points), nil
}

type ruleEnvelope struct {
	Kind string `json:"kind"`
}

// ParseRule decodes a question's scoring-rule blob into its typed rule.
func ParseRule(raw []byte) (Rule, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty scoring rule")
	}
	var env ruleEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode scoring rule: %w", err)
	}
	switch env.Kind {
	case RuleKindMapping:
		var r struct {
			Points map[string]float64 `json:"points"`
		}
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decode mapping rule: %w", err)
		}
		if len(r.Points) == 0 {
			return nil, fmt.Errorf("mapping rule: empty points table")
		}
		points := make(map[string]float64, len(r.Points))
		for k, v := range r.Points {
			points[strings.ToLower(strings.TrimSpace(k))] = v
		}
		return MappingRule{Points: points}, nil
	case RuleKindKeyword:
		var r KeywordRule
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decode keyword rule: %w", err)
		}
		return r, nil
	case RuleKindCountBucket:
		var r CountBucketRule
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decode count bucket rule: %w", err)
		}
		if len(r.Buckets) == 0 {
			return nil, fmt.Errorf("count bucket rule: no buckets")
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown scoring rule kind %q", env.Kind)
	}
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
