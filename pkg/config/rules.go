package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
)

//go:embed rules.schema.json
var rulesSchema []byte

// RuleSettings overrides one rule. Nil pointers keep the engine default.
type RuleSettings struct {
	Active              *bool        `yaml:"active"`
	AutoCorrect         *bool        `yaml:"autoCorrect"`
	WithAlternatives    Alternatives `yaml:"withAlternatives"`
	WithoutAlternatives []string     `yaml:"withoutAlternatives"`
}

// RuleConfig applies s on top of lint.DefaultRuleConfig.
func (s RuleSettings) RuleConfig() lint.RuleConfig {
	cfg := lint.DefaultRuleConfig()

	if s.Active != nil {
		cfg.Active = *s.Active
	}

	if s.AutoCorrect != nil {
		cfg.AutoCorrect = *s.AutoCorrect
	}

	if len(s.WithAlternatives) > 0 {
		cfg.WithAlternatives = map[string]string(s.WithAlternatives)
	}

	cfg.WithoutAlternatives = s.WithoutAlternatives

	return cfg
}

// Alternatives maps a banned import prefix to its replacement. It decodes
// either a list of "from=to" strings or a mapping.
type Alternatives map[string]string

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Alternatives) UnmarshalYAML(node *yaml.Node) error {
	out := Alternatives{}

	switch node.Kind {
	case yaml.SequenceNode:
		var entries []string
		if err := node.Decode(&entries); err != nil {
			return err
		}

		for _, entry := range entries {
			from, to, ok := strings.Cut(entry, "=")
			if !ok || strings.TrimSpace(from) == "" {
				return fmt.Errorf("%w: withAlternatives entry %q is not from=to", ErrInvalidRuleSettings, entry)
			}

			out[strings.TrimSpace(from)] = strings.TrimSpace(to)
		}
	case yaml.MappingNode:
		var entries map[string]string
		if err := node.Decode(&entries); err != nil {
			return err
		}

		for from, to := range entries {
			out[strings.TrimSpace(from)] = strings.TrimSpace(to)
		}
	default:
		return fmt.Errorf("%w: withAlternatives must be a list or a mapping", ErrInvalidRuleSettings)
	}

	*a = out

	return nil
}

// ParseRules extracts and validates the rules section of a config document.
// A document without one yields nil.
func ParseRules(data []byte) (map[string]RuleSettings, error) {
	var raw struct {
		Rules any `yaml:"rules"`
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRuleSettings, err)
	}

	if raw.Rules == nil {
		return nil, nil
	}

	if err := validateRules(raw.Rules); err != nil {
		return nil, err
	}

	var doc struct {
		Rules map[string]RuleSettings `yaml:"rules"`
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRuleSettings, err)
	}

	return doc.Rules, nil
}

func validateRules(doc any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(rulesSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRuleSettings, err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidRuleSettings, strings.Join(msgs, "; "))
}
