package config

// SafetyConfig holds the optional rule extensions layered over the
// built-in tables. The built-ins are always active; the file can only add.
type SafetyConfig struct {
	// ScanCap overrides how many runes the pattern scans look at.
	ScanCap int `yaml:"scan_cap"`

	// CustomInjections are extra injection rules, matched case-insensitively.
	CustomInjections []CustomPattern `yaml:"custom_injections"`

	// ExtraLegitimateKeywords extend the dampening keyword set.
	ExtraLegitimateKeywords []string `yaml:"extra_legitimate_keywords"`
}

// CustomPattern is one user-supplied detection rule.
type CustomPattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}
