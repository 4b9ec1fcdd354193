package validate

import (
	"os"

	"github.com/aget-framework/aget-sub002/internal/config"
	"github.com/aget-framework/aget-sub002/internal/semver"
	"github.com/aget-framework/aget-sub002/internal/vocab"
)

// LoadVocabulary loads the configured vocabulary file. A missing or
// unconfigured file yields a nil registry, not an error: the vocabulary
// validator then reports itself unconfigured.
func LoadVocabulary(path string) (*vocab.Registry, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return vocab.Load(path)
}

// Validators builds the standard validator set from configuration and an
// already-loaded vocabulary registry (which may be nil).
func Validators(cfg config.ValidateConfig, tool semver.Version, registry *vocab.Registry) []Validator {
	return []Validator{
		&MemoryValidator{
			RequiredSections: cfg.MemorySections,
			MaxBytes:         cfg.MemoryMaxBytes,
		},
		&CompositionValidator{
			ReadmeSections: cfg.ReadmeSections,
			AgentsSections: cfg.AgentsSections,
		},
		&ContentValidator{
			DenyList: cfg.DenyListStrings,
		},
		&VersioningValidator{
			ToolVersion: tool,
		},
		&VocabularyValidator{
			Registry: registry,
		},
	}
}

// DefaultValidators is Validators with the vocabulary loaded from the
// configured path.
func DefaultValidators(cfg config.ValidateConfig, tool semver.Version) ([]Validator, error) {
	registry, err := LoadVocabulary(cfg.VocabularyFile)
	if err != nil {
		return nil, err
	}
	return Validators(cfg, tool, registry), nil
}

// Select filters validators by name; an empty selection keeps them all.
func Select(validators []Validator, names []string) []Validator {
	if len(names) == 0 {
		return validators
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []Validator
	for _, v := range validators {
		if wanted[v.Name()] {
			out = append(out, v)
		}
	}
	return out
}
