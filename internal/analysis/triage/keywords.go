package triage

import (
	"fmt"
	"strings"
)

// Category identifies one emergency class.
type Category string

const (
	None          Category = ""
	ChestPain     Category = "chest_pain"
	Breathing     Category = "difficulty_breathing"
	Consciousness Category = "loss_of_consciousness"
	Bleeding      Category = "severe_bleeding"
	Stroke        Category = "stroke_symptoms"
)

// Rule ties a category to its trigger phrases and its canned safety response.
type Rule struct {
	Category Category
	Label    string
	Keywords []string
	Response string
}

// Decision is the outcome of keyword classification.
type Decision struct {
	IsEmergency bool
	Category    Category
	Response    string
}

// rules is ordered by priority: the first matching rule wins.
var rules = []Rule{
	{
		Category: ChestPain,
		Label:    "chest pain",
		Keywords: []string{"chest pain", "chest pressure", "chest tightness", "pain in my chest"},
		Response: "Seek immediate medical attention. Chest pain can be a sign of a heart attack.",
	},
	{
		Category: Breathing,
		Label:    "difficulty breathing",
		Keywords: []string{"difficulty breathing", "trouble breathing", "shortness of breath", "can't breathe", "cannot breathe", "hard to breathe"},
		Response: "Seek immediate medical attention. Difficulty breathing can be a sign of a serious respiratory issue.",
	},
	{
		Category: Consciousness,
		Label:    "loss of consciousness",
		Keywords: []string{"loss of consciousness", "lost consciousness", "unconscious", "passed out", "fainted", "blacked out"},
		Response: "Seek immediate medical attention. Loss of consciousness can indicate a serious medical condition.",
	},
	{
		Category: Bleeding,
		Label:    "severe bleeding",
		Keywords: []string{"severe bleeding", "heavy bleeding", "bleeding heavily", "won't stop bleeding", "bleeding a lot"},
		Response: "Seek immediate medical attention. Severe bleeding requires immediate medical intervention.",
	},
	{
		Category: Stroke,
		Label:    "stroke symptoms",
		Keywords: []string{"stroke", "face drooping", "arm weakness", "slurred speech", "speech difficulty"},
		Response: "Seek immediate medical attention. Act F.A.S.T. - Face drooping, Arm weakness, Speech difficulty, Time to call 911.",
	},
}

// Rules returns the rule table in priority order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify matches text against the rule table. It never fails: text without
// any trigger phrase yields a non-emergency decision with an empty response.
func Classify(text string) Decision {
	normalized := normalize(text)
	if normalized == "" {
		return Decision{}
	}

	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(normalized, keyword) {
				return Decision{IsEmergency: true, Category: rule.Category, Response: rule.Response}
			}
		}
	}
	return Decision{}
}

// ResponseFor returns the canned response of a category.
func ResponseFor(category Category) (string, bool) {
	for _, rule := range rules {
		if rule.Category == category {
			return rule.Response, true
		}
	}
	return "", false
}

// CategoryForResponse maps a canned response back to its category.
func CategoryForResponse(response string) Category {
	trimmed := strings.TrimSpace(response)
	for _, rule := range rules {
		if strings.EqualFold(rule.Response, trimmed) {
			return rule.Category
		}
	}
	return None
}

// PromptInstructions renders the rule table as the bullet list embedded in the
// model instruction, so prompt and keyword fallback share one source.
func PromptInstructions() string {
	var b strings.Builder
	for i, rule := range rules {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "* %s (for example: %s): isEmergency=true; category=%q; response=%q",
			rule.Label, strings.Join(rule.Keywords, ", "), rule.Category, rule.Response)
	}
	return b.String()
}

func normalize(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	// curly apostrophes from mobile keyboards
	return strings.NewReplacer("’", "'", "‘", "'").Replace(lowered)
}
