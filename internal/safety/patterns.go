package safety

import (
	"regexp"
)

// Pattern is one named detection rule. Rules are matched case-insensitively
// against the scanned text. When except is set, a base match is discarded if
// the text immediately following it matches except. RE2 has no negative
// lookahead, so exclusions are expressed this way.
type Pattern struct {
	Name   string
	re     *regexp.Regexp
	except *regexp.Regexp
}

func (p Pattern) Matches(s string) bool {
	if p.except == nil {
		return p.re.MatchString(s)
	}
	for _, loc := range p.re.FindAllStringIndex(s, -1) {
		if !p.except.MatchString(s[loc[1]:]) {
			return true
		}
	}
	return false
}

// Ruleset is the immutable rule configuration the checker evaluates against.
// It is built once at startup; all regexps are compiled at that point.
type Ruleset struct {
	InjectionPatterns     []Pattern
	InappropriatePatterns []Pattern
	LegitimateKeywords    []string

	// ScanCap bounds how many runes of the input the regex tables see.
	// Input length is attacker-controlled; the cap keeps scan cost bounded
	// independently of it. The length heuristic still uses the true length.
	ScanCap int
}

const DefaultScanCap = 10000

func inj(name, expr string) Pattern {
	return Pattern{Name: name, re: regexp.MustCompile(`(?i)` + expr)}
}

var defaultInjectionPatterns = []Pattern{
	// Direct instruction overrides
	inj("instruction_override", `ignore\s+(?:all\s+)?(?:previous|above|all)\s+(?:instructions?|prompts?|rules?)`),
	inj("memory_wipe", `forget\s+(?:everything|all|previous)`),
	inj("role_reassignment", `new\s+(?:instructions?|task|role|persona)`),
	{
		Name:   "persona_switch",
		re:     regexp.MustCompile(`(?i)act\s+as\s+(?:a\s+)?`),
		except: regexp.MustCompile(`(?i)^(?:customer|support|assistant)`),
	},
	inj("impersonation", `pretend\s+(?:to\s+be|you\s+are)`),
	inj("roleplay", `roleplay\s+as`),

	// System prompt extraction attempts
	inj("prompt_extraction", `what\s+(?:are|is)\s+your\s+(?:system\s+|initial\s+)?(?:instructions?|prompts?)`),
	inj("prompt_disclosure", `show\s+me\s+your\s+(?:instructions?|prompt|system)`),
	inj("prompt_repeat", `repeat\s+your\s+(?:instructions?|prompt)`),
	inj("prompt_print", `print\s+your\s+(?:instructions?|system)`),

	// Delimiter/escape attempts
	inj("delimiter_abuse", "```"+`|"""|\*\*\*`),
	inj("special_token", `<\|.*?\|>`),
	inj("role_marker", `\[SYSTEM\]|\[INST\]|\[/INST\]`),
	inj("role_label", `USER:|ASSISTANT:|SYSTEM:`),

	// Jailbreak attempts
	inj("jailbreak_keyword", `jailbreak|bypass|circumvent`),
	inj("hypothetical_framing", `hypothetically|imagine\s+if`),
	inj("fictional_framing", `in\s+a\s+fictional\s+world`),
	inj("educational_pretext", `for\s+educational\s+purposes`),

	// Code injection attempts
	inj("script_injection", `<script|javascript:|eval\(`),
	inj("code_execution", `exec\(|system\(|subprocess`),
	inj("os_import", `import\s+os|import\s+subprocess`),
}

var defaultInappropriatePatterns = []Pattern{
	inj("hateful_language", `\b(?:hate|racist|racism|sexist|sexism|violent|violence|illegal)\b`),
	inj("violent_acts", `\b(?:kill|murder|assault|attack)\b`),
	inj("illegal_substances", `\b(?:drugs?|cocaine|heroin|marijuana)\b`),
}

// Keywords that suggest legitimate customer support queries. They dampen
// suspicion; they never clear an inappropriate-content block.
var defaultLegitimateKeywords = []string{
	"account", "password", "login", "order", "payment", "billing", "refund",
	"shipping", "delivery", "product", "service", "support", "help",
	"cancel", "return", "exchange", "warranty", "subscription",
}

// DefaultRuleset returns the built-in rule tables.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		InjectionPatterns:     defaultInjectionPatterns,
		InappropriatePatterns: defaultInappropriatePatterns,
		LegitimateKeywords:    defaultLegitimateKeywords,
		ScanCap:               DefaultScanCap,
	}
}

// NewCustomPattern compiles a user-supplied rule (case-insensitive) so it
// can be appended to a Ruleset table.
func NewCustomPattern(name, expr string) (Pattern, error) {
	re, err := regexp.Compile(`(?i)` + expr)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{Name: name, re: re}, nil
}
