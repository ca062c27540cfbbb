// Package safety implements the hard content filter that gates both user
// input and model output. It is a deterministic pattern matcher, not a
// classifier: patterns are kept narrow so that ordinary emotional distress
// ("I feel awful", "nobody understands me") never trips it, while explicit
// method, target, or content phrasing always does.
package safety

import "regexp"

// Category labels a group of patterns so the table can be audited and
// extended independently of the orchestration logic.
type Category string

const (
	Violence          Category = "violence"
	SelfHarm          Category = "self-harm"
	Sexual            Category = "sexual"
	SexualViolence    Category = "sexual-violence"
	MinorExploitation Category = "minor-exploitation"
	Drugs             Category = "drugs"
	Weapons           Category = "weapons"
)

// ExitMessage is the fixed reply returned whenever the filter trips. It
// replaces the persona's voice entirely.
const ExitMessage = "I want to step outside our conversation for a moment. " +
	"What you've shared sounds serious, and you deserve real support from someone who can truly help. " +
	"Please reach out to a crisis resource — you don't have to go through this alone."

// Pattern pairs a category with its compiled expression.
type Pattern struct {
	Category Category
	Expr     *regexp.Regexp
}

// patterns is the fixed, ordered rule table. All expressions are
// case-insensitive and anchored on word boundaries.
var patterns = []Pattern{
	// Direct violence toward specific targets.
	{Violence, regexp.MustCompile(`(?i)\b(kill|murder|shoot|stab|strangle|choke)\s+(you|him|her|them|myself|everyone)\b`)},
	// How-to harm queries.
	{Violence, regexp.MustCompile(`(?i)\bhow\s+to\s+(kill|harm|hurt|poison|attack|injure|wound)\b`)},
	// Suicide methods and planning.
	{SelfHarm, regexp.MustCompile(`(?i)\b(suicide|suicidal)\s+(method|plan|how|way|ways|technique)\b`)},
	{SelfHarm, regexp.MustCompile(`(?i)\bhow\s+(to|do\s+i|can\s+i|should\s+i)\s+(cut|hang|overdose|end\s+it|end\s+my\s+life|jump|drown)\b`)},
	{SelfHarm, regexp.MustCompile(`(?i)\b(want|going|plan|planning|intend|trying)\s+to\s+(kill\s+myself|end\s+(my\s+)?life|die|commit\s+suicide)\b`)},
	// Self-harm instructions or encouragement.
	{SelfHarm, regexp.MustCompile(`(?i)\b(best|easiest|quickest|fastest|most\s+painless)\s+(way|method)\s+to\s+(die|end\s+it|kill)\b`)},
	{SelfHarm, regexp.MustCompile(`(?i)\bgive\s+me\s+(a\s+)?(method|way|plan)\s+to\s+(die|kill|harm|hurt)\b`)},
	// Sexually explicit content.
	{Sexual, regexp.MustCompile(`(?i)\b(nude|naked|sex|porn|pornography|hentai|nsfw)\b`)},
	// Sexual violence and abuse.
	{SexualViolence, regexp.MustCompile(`(?i)\b(molest|rape|assault|grope|trafficking)\b`)},
	// Child exploitation.
	{MinorExploitation, regexp.MustCompile(`(?i)\bchild\s+(abuse|porn|exploit|sex)\b`)},
	{MinorExploitation, regexp.MustCompile(`(?i)\bminors?\s+(sex|nude|naked|exploit)\b`)},
	// Drug manufacturing or acquisition instructions.
	{Drugs, regexp.MustCompile(`(?i)\bhow\s+to\s+(make|cook|synthesize|buy|get)\s+(meth|fentanyl|heroin|cocaine)\b`)},
	// Weapons creation.
	{Weapons, regexp.MustCompile(`(?i)\bhow\s+to\s+(make|build|assemble)\s+(a\s+)?(bomb|explosive|weapon|gun)\b`)},
}

// Patterns returns the rule table for auditing and tests.
func Patterns() []Pattern {
	return append([]Pattern(nil), patterns...)
}

// Check reports whether text trips any pattern in the table. It is
// stateless and single-shot: no context window, no scoring.
func Check(text string) bool {
	for _, p := range patterns {
		if p.Expr.MatchString(text) {
			return true
		}
	}
	return false
}
