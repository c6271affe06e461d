package domain

// Recommendation is the structured guidance record returned for every
// classification. All fields are always populated; the rule table ends with an
// unconditional default entry.
type Recommendation struct {
	Disease         string   `json:"disease"`
	Severity        string   `json:"severity"`
	Description     string   `json:"description"`
	SymptomsMatch   string   `json:"symptoms_match"`
	Tips            []Tip    `json:"tips"`
	DietPlan        DietPlan `json:"diet_plan"`
	WhenToSeeDoctor []string `json:"when_to_see_doctor"`
}

// Tip is a single actionable guidance entry.
type Tip struct {
	Icon   string `json:"icon"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// DietPlan groups dietary guidance for a condition.
type DietPlan struct {
	FoodsToEat   []FoodToEat   `json:"foods_to_eat"`
	FoodsToAvoid []FoodToAvoid `json:"foods_to_avoid"`
}

// FoodToEat is a recommended food with its benefit.
type FoodToEat struct {
	Icon    string `json:"icon"`
	Name    string `json:"name"`
	Benefit string `json:"benefit"`
}

// FoodToAvoid is a discouraged food with the reason to avoid it.
type FoodToAvoid struct {
	Icon   string `json:"icon"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Severity labels used by the rule table.
const (
	SeverityMild              = "Mild"
	SeverityMildToModerate    = "Mild to Moderate"
	SeverityModerate          = "Moderate"
	SeverityModerateToSerious = "Moderate to Serious"
	SeverityUnknown           = "Unknown"
)
