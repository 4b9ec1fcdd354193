// Package sanitize prepares agent workspace content for publication.
// Literal substitution rules strip private paths and agent names; the
// detectors flag PII and secret-shaped strings that have no rule yet.
package sanitize

import (
	"fmt"
	"sort"
	"strings"
)

type Rule struct {
	Find    string `yaml:"find" json:"find"`
	Replace string `yaml:"replace" json:"replace"`
}

type Sanitizer struct {
	rules []Rule
}

// New orders rules longest Find first so overlapping rules are
// deterministic: "/home/user/project" is rewritten before "/home/user"
// can take a bite out of it.
func New(rules []Rule) (*Sanitizer, error) {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.Find == "" {
			return nil, fmt.Errorf("sanitize rule with empty find string")
		}
		if seen[r.Find] {
			return nil, fmt.Errorf("duplicate sanitize rule for %q", r.Find)
		}
		seen[r.Find] = true
	}

	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Find) > len(ordered[j].Find)
	})

	return &Sanitizer{rules: ordered}, nil
}

type RuleHit struct {
	Rule  Rule
	Count int
}

type Result struct {
	Output  string
	Hits    []RuleHit
	Changed bool
}

// Apply runs one left-to-right pass over the input. At each position the
// rules are tried longest Find first; the winning rule's Replace is emitted
// and never re-matched, so a Replace containing another rule's Find stays
// intact.
func (s *Sanitizer) Apply(input string) Result {
	var out strings.Builder
	out.Grow(len(input))

	counts := make(map[string]int)

	for i := 0; i < len(input); {
		var hit *Rule
		for r := range s.rules {
			if strings.HasPrefix(input[i:], s.rules[r].Find) {
				hit = &s.rules[r]
				break
			}
		}

		if hit == nil {
			out.WriteByte(input[i])
			i++
			continue
		}

		out.WriteString(hit.Replace)
		counts[hit.Find]++
		i += len(hit.Find)
	}

	result := Result{Output: input}
	if len(counts) == 0 {
		return result
	}

	result.Output = out.String()
	result.Changed = true
	for _, rule := range s.rules {
		if n := counts[rule.Find]; n > 0 {
			result.Hits = append(result.Hits, RuleHit{Rule: rule, Count: n})
		}
	}

	return result
}

func (s *Sanitizer) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}
