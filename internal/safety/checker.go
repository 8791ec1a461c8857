package safety

import (
	"strings"
	"unicode"

	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
	"github.com/rs/zerolog"
)

const (
	injectionFactor     = 0.9
	inappropriateFactor = 0.8
	legitimateFactor    = 0.3
	lengthFactor        = 0.4
	specialCharFactor   = 0.5

	// Confidence reported when no signal fired at all.
	noSignalConfidence = 0.1

	longInputThreshold   = 1000
	specialCharThreshold = 0.15
)

// Checker assesses raw user input against a fixed Ruleset. It holds no
// per-call state, so one Checker is safe for concurrent use.
type Checker struct {
	rules  *Ruleset
	audit  *AuditLog
	logger *zerolog.Logger
}

// NewChecker builds a checker over rules. audit may be nil, in which case
// no audit trail is written.
func NewChecker(rules *Ruleset, audit *AuditLog, logger *zerolog.Logger) *Checker {
	return &Checker{
		rules:  rules,
		audit:  audit,
		logger: logger,
	}
}

// Assess classifies input and returns a fresh SafetyResult. It never fails:
// any string, including empty or arbitrary unicode, yields a well-formed
// result. The audit write is best-effort and cannot affect the outcome.
func (c *Checker) Assess(input string) models.SafetyResult {
	reasons := []string{}
	var factors []float64

	scanText := c.capForScan(input)

	hasInjection := false
	for _, p := range c.rules.InjectionPatterns {
		if p.Matches(scanText) {
			reasons = append(reasons, "Potential prompt injection: "+p.Name)
			hasInjection = true
		}
	}
	if hasInjection {
		factors = append(factors, injectionFactor)
	}

	hasInappropriate := false
	for _, p := range c.rules.InappropriatePatterns {
		if p.Matches(scanText) {
			reasons = append(reasons, "Inappropriate content detected: "+p.Name)
			hasInappropriate = true
		}
	}
	if hasInappropriate {
		factors = append(factors, inappropriateFactor)
	}

	hasLegitimate := c.hasLegitimateIndicators(scanText)
	if hasLegitimate {
		factors = append(factors, legitimateFactor)
	}

	runeCount := len([]rune(input))
	if runeCount > longInputThreshold {
		reasons = append(reasons, "Unusually long input")
		factors = append(factors, lengthFactor)
	}

	if specialCharRatio(input, runeCount) > specialCharThreshold {
		reasons = append(reasons, "High ratio of special characters")
		factors = append(factors, specialCharFactor)
	}

	var level models.SafetyLevel
	shouldBlock := false
	switch {
	case hasInjection && !hasLegitimate:
		level = models.LevelBlocked
		shouldBlock = true
	case hasInappropriate:
		level = models.LevelBlocked
		shouldBlock = true
	case hasInjection || len(reasons) >= 2:
		level = models.LevelCaution
	default:
		level = models.LevelSafe
	}

	confidence := noSignalConfidence
	if len(factors) > 0 {
		sum := 0.0
		for _, f := range factors {
			sum += f
		}
		confidence = clamp01(sum / float64(len(factors)))
	}

	var modified *string
	if sanitized := Sanitize(input); sanitized != input {
		modified = &sanitized
	}

	result := models.SafetyResult{
		Level:         level,
		Confidence:    confidence,
		Reasons:       reasons,
		ModifiedInput: modified,
		ShouldBlock:   shouldBlock,
	}

	if c.audit != nil {
		if err := c.audit.Record(input, result); err != nil {
			c.logger.Debug().Err(err).Msg("audit log write failed")
		}
	}

	return result
}

// capForScan bounds the text the regex tables run over. The cap is in
// runes so a multi-byte character is never split.
func (c *Checker) capForScan(input string) string {
	limit := c.rules.ScanCap
	if limit <= 0 {
		limit = DefaultScanCap
	}
	runes := []rune(input)
	if len(runes) <= limit {
		return input
	}
	return string(runes[:limit])
}

func (c *Checker) hasLegitimateIndicators(text string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range c.rules.LegitimateKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

func specialCharRatio(input string, runeCount int) float64 {
	special := 0
	for _, r := range input {
		if !isExpectedChar(r) {
			special++
		}
	}
	return float64(special) / float64(max(runeCount, 1))
}

func isExpectedChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case unicode.IsSpace(r):
		return true
	case r == '.' || r == ',' || r == '!' || r == '?':
		return true
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
