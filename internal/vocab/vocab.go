// Package vocab holds the framework's controlled vocabulary: Snake_Case
// terms with definitions and broader/narrower/related links. Documents are
// expected to use the canonical casing of every term they mention.
package vocab

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

type Term struct {
	Name       string   `yaml:"name"`
	Definition string   `yaml:"definition"`
	Broader    []string `yaml:"broader,omitempty"`
	Narrower   []string `yaml:"narrower,omitempty"`
	Related    []string `yaml:"related,omitempty"`
}

type vocabFile struct {
	Terms []Term `yaml:"terms"`
}

// Canonical term names are Snake_Case with each segment capitalized,
// e.g. Fleet_Agent, Version_Json, V_Test.
var namePattern = regexp.MustCompile(`^[A-Z][a-z0-9]*(_[A-Z][a-z0-9]*)*$`)

// tokenPattern matches underscore-joined identifiers in prose. Single words
// are left alone so ordinary text never trips the casing check.
var tokenPattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9]*(?:_[A-Za-z][A-Za-z0-9]*)+`)

type Registry struct {
	terms  map[string]*Term
	folded map[string]string
	folder cases.Caser
}

func NewRegistry() *Registry {
	return &Registry{
		terms:  make(map[string]*Term),
		folded: make(map[string]string),
		folder: cases.Fold(),
	}
}

func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	var file vocabFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}

	r := NewRegistry()
	for i := range file.Terms {
		if err := r.Add(&file.Terms[i]); err != nil {
			return nil, err
		}
	}

	if err := r.checkLinks(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) Add(t *Term) error {
	if !namePattern.MatchString(t.Name) {
		return fmt.Errorf("term %q is not canonical Snake_Case", t.Name)
	}
	if _, exists := r.terms[t.Name]; exists {
		return fmt.Errorf("duplicate term %q", t.Name)
	}

	key := r.folder.String(t.Name)
	if prior, exists := r.folded[key]; exists {
		return fmt.Errorf("term %q collides with %q under case folding", t.Name, prior)
	}

	r.terms[t.Name] = t
	r.folded[key] = t.Name
	return nil
}

func (r *Registry) checkLinks() error {
	for _, t := range r.terms {
		for _, group := range [][]string{t.Broader, t.Narrower, t.Related} {
			for _, target := range group {
				if _, ok := r.terms[target]; !ok {
					return fmt.Errorf("term %q links to unknown term %q", t.Name, target)
				}
			}
		}
	}
	return nil
}

func (r *Registry) Lookup(name string) (*Term, bool) {
	t, ok := r.terms[name]
	return t, ok
}

// Resolve maps a token to its canonical term regardless of casing. The
// second return is false when the token is not in the vocabulary at all.
func (r *Registry) Resolve(token string) (*Term, bool) {
	if t, ok := r.terms[token]; ok {
		return t, true
	}
	canonical, ok := r.folded[r.folder.String(token)]
	if !ok {
		return nil, false
	}
	return r.terms[canonical], true
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.terms))
	for name := range r.terms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	return len(r.terms)
}

type Miscasing struct {
	Token     string
	Canonical string
	Line      int
}

// Scan reports vocabulary terms used with the wrong casing. Tokens that do
// not fold to a known term are ignored.
func (r *Registry) Scan(text string) []Miscasing {
	var hits []Miscasing

	for i, line := range strings.Split(text, "\n") {
		for _, token := range tokenPattern.FindAllString(line, -1) {
			if _, exact := r.terms[token]; exact {
				continue
			}
			term, ok := r.Resolve(token)
			if !ok {
				continue
			}
			hits = append(hits, Miscasing{
				Token:     token,
				Canonical: term.Name,
				Line:      i + 1,
			})
		}
	}

	return hits
}
