package service

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/symptom-intake-server/internal/domain"
)

// SymptomRuleEngine classifies free-text symptom descriptions against a fixed,
// ordered table of condition rules. Evaluation is first-match-wins: keyword
// sets overlap across rules, and table order is the deliberate tie-break. The
// engine holds no mutable state and is safe for concurrent use.
type SymptomRuleEngine struct {
	logger *logrus.Logger
	rules  []symptomRule
}

// symptomRule is one ordered entry in the classification table. Evaluate
// receives the lowercased text for keyword matching and the original-case text
// for lab-value patterns, and reports whether the rule applied.
type symptomRule struct {
	Name     string
	Evaluate func(lower, original string) (domain.Recommendation, bool)
}

// NewSymptomRuleEngine creates a rule engine with the full classification
// table. The table is built once and never mutated.
func NewSymptomRuleEngine(logger *logrus.Logger) *SymptomRuleEngine {
	engine := &SymptomRuleEngine{logger: logger}
	engine.initializeRules()
	return engine
}

// Classify maps symptom text to a Recommendation. It is total: every input,
// including the empty string, resolves to a fully-populated result because the
// table ends with an unconditional default.
func (e *SymptomRuleEngine) Classify(symptomsText string) domain.Recommendation {
	lower := strings.ToLower(symptomsText)

	for _, rule := range e.rules {
		result, ok := rule.Evaluate(lower, symptomsText)
		if !ok {
			continue
		}
		e.logger.WithFields(logrus.Fields{
			"rule":     rule.Name,
			"disease":  result.Disease,
			"severity": result.Severity,
		}).Debug("Symptom rule matched")
		return result
	}

	// Unreachable: the default rule always matches.
	return unspecifiedResult
}

// initializeRules builds the ordered rule table. Order is significant: the
// metabolic panel is checked first, the default entry last.
func (e *SymptomRuleEngine) initializeRules() {
	e.rules = []symptomRule{
		{Name: "metabolic_panel", Evaluate: e.evaluateMetabolicPanel},
		keywordRule("respiratory", []string{"fever", "cough", "cold", "sore throat", "runny nose"}, commonColdResult),
		keywordRule("neurological", []string{"headache", "migraine", "head pain"}, migraineResult),
		keywordRule("gastrointestinal", []string{"stomach", "nausea", "vomit", "diarrhea", "abdominal"}, gastroenteritisResult),
		keywordRule("fatigue", []string{"fatigue", "tired", "weakness", "exhaustion"}, fatigueResult),
		keywordRule("allergic", []string{"allergy", "sneeze", "itchy", "rash", "hives"}, allergyResult),
		{
			Name: "default",
			Evaluate: func(lower, original string) (domain.Recommendation, bool) {
				return unspecifiedResult, true
			},
		},
	}

	e.logger.WithField("rule_count", len(e.rules)).Info("Initialized symptom classification rules")
}

// keywordRule builds a rule that applies when any keyword appears in the
// lowercased text (OR semantics) and returns a fixed template.
func keywordRule(name string, keywords []string, result domain.Recommendation) symptomRule {
	return symptomRule{
		Name: name,
		Evaluate: func(lower, original string) (domain.Recommendation, bool) {
			if containsAny(lower, keywords) {
				return result, true
			}
			return domain.Recommendation{}, false
		},
	}
}

// evaluateMetabolicPanel handles the lab-value branch. The outer keyword set
// gates five independent condition sub-rules; every triggered condition
// contributes its name to a composite label. When the outer keywords match but
// no condition triggers, the rule does NOT apply and evaluation falls through
// to the next rule.
func (e *SymptomRuleEngine) evaluateMetabolicPanel(lower, original string) (domain.Recommendation, bool) {
	if !containsAny(lower, metabolicPanelKeywords) {
		return domain.Recommendation{}, false
	}

	var triggered []string
	for _, cond := range labConditions {
		if containsAny(lower, cond.Keywords) && cond.ValuePattern.MatchString(original) {
			triggered = append(triggered, cond.Name)
		}
	}

	if len(triggered) == 0 {
		// Documented fallthrough: lab keywords present, no value in range.
		e.logger.Debug("Metabolic panel keywords present but no condition triggered, falling through")
		return domain.Recommendation{}, false
	}

	result := metabolicPanelTemplate
	result.Disease = "Metabolic Syndrome / " + strings.Join(triggered, " + ")
	result.Description = "Based on your medical report, multiple metabolic conditions detected: " +
		strings.Join(triggered, ", ") +
		". These conditions often occur together and increase risk of heart disease, stroke, and other complications. Requires lifestyle modifications and medical supervision."

	e.logger.WithFields(logrus.Fields{
		"conditions": len(triggered),
		"disease":    result.Disease,
	}).Debug("Metabolic panel conditions triggered")

	return result, true
}

// containsAny reports whether any keyword occurs as a substring of text. Text
// is expected to be lowercased already; keywords are defined lowercase.
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
