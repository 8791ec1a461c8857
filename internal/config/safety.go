package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/povarna/generative-ai-agents/support-agent/internal/safety"
	"gopkg.in/yaml.v3"
)

// LoadSafetyConfig reads the optional rule-extension file. A missing file
// is not an error: the built-in tables are complete on their own.
func LoadSafetyConfig() (*SafetyConfig, error) {
	path := os.Getenv("SAFETY_CONFIG_PATH")
	if path == "" {
		path = "configs/safety.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &SafetyConfig{}, nil
		}
		return nil, err
	}

	var cfg SafetyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *SafetyConfig) Validate() error {
	for _, custom := range c.CustomInjections {
		if custom.Name == "" {
			return fmt.Errorf("custom injection pattern must have a name")
		}
		if custom.Pattern == "" {
			return fmt.Errorf("custom injection %q has an empty pattern", custom.Name)
		}
	}
	if c.ScanCap < 0 {
		return fmt.Errorf("scan_cap must not be negative: %d", c.ScanCap)
	}
	return nil
}

// BuildRuleset compiles the built-in tables plus the configured extensions
// into the immutable ruleset the checker runs against.
func BuildRuleset(cfg *SafetyConfig) (*safety.Ruleset, error) {
	rules := safety.DefaultRuleset()
	if cfg == nil {
		return rules, nil
	}

	if cfg.ScanCap > 0 {
		rules.ScanCap = cfg.ScanCap
	}

	for _, custom := range cfg.CustomInjections {
		pattern, err := safety.NewCustomPattern(custom.Name, custom.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid custom pattern %q: %w", custom.Name, err)
		}
		rules.InjectionPatterns = append(rules.InjectionPatterns, pattern)
	}

	for _, keyword := range cfg.ExtraLegitimateKeywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			rules.LegitimateKeywords = append(rules.LegitimateKeywords, keyword)
		}
	}

	return rules, nil
}
