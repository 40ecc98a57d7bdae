package classifier

import "strings"

// KeywordFamily maps one category to the keywords that indicate it. The
// table is data, not code: scoring logic lives in Resolve, and ties break
// by declaration order here, not by the caller's category order.
type KeywordFamily struct {
	Category string
	Keywords []string
}

var keywordTable = []KeywordFamily{
	{Category: "Design", Keywords: []string{
		"design", "logo", "graphic", "branding", "illustration", "typography",
		"portfolio", "photoshop", "figma", "mockup", "ui", "ux",
	}},
	{Category: "Business", Keywords: []string{
		"business", "startup", "freelance", "marketing", "client", "invoice",
		"budget", "budgeting", "management", "revenue", "profit",
		"entrepreneur", "sales", "pricing",
	}},
	{Category: "Career", Keywords: []string{
		"career", "resume", "interview", "promotion", "salary", "mentor",
		"internship", "skill development", "cover letter",
	}},
	{Category: "Construction", Keywords: []string{
		"construction", "contractor", "cement", "concrete", "scaffold",
		"renovation", "plumbing", "wiring", "foundation", "building site",
		"blueprint",
	}},
	{Category: "Academic", Keywords: []string{
		"university", "research", "thesis", "exam", "course", "lecture",
		"assignment", "semester", "professor", "scholarship",
	}},
	{Category: "Informative", Keywords: []string{
		"announcement", "guide", "tips", "tutorial", "how to", "article",
		"news", "update",
	}},
	{Category: "Jobs", Keywords: []string{
		"job", "hiring", "vacancy", "position", "recruitment", "employer",
		"applicant", "job opening", "we are looking",
	}},
}

// ForcingRule adds categories when keywords from every trigger set
// co-occur in the text. Rules only ever add, never remove.
type ForcingRule struct {
	Categories  []string
	TriggerSets [][]string
}

var forcingRules = []ForcingRule{
	{
		Categories: []string{"Construction", "Business"},
		TriggerSets: [][]string{
			{"construction", "contractor", "renovation", "building"},
			{"budget", "budgeting", "management", "invoice", "cost", "business"},
		},
	},
	{
		Categories: []string{"Jobs", "Career"},
		TriggerSets: [][]string{
			{"hiring", "vacancy", "job opening", "position"},
			{"career", "resume", "interview"},
		},
	},
	{
		Categories: []string{"Design", "Business"},
		TriggerSets: [][]string{
			{"design", "logo", "branding"},
			{"client", "freelance", "invoice", "pricing"},
		},
	},
}

// scoreKeywords counts keyword occurrences per family in the lowercased
// text and returns the best-scoring category, or "" when nothing matched.
func scoreKeywords(text string) (string, int) {
	lower := strings.ToLower(text)
	best := ""
	bestScore := 0
	for _, fam := range keywordTable {
		score := 0
		for _, kw := range fam.Keywords {
			score += strings.Count(lower, kw)
		}
		if score > bestScore {
			best = fam.Category
			bestScore = score
		}
	}
	return best, bestScore
}

// anyKeyword reports whether at least one keyword from the set occurs in
// the lowercased text.
func anyKeyword(lower string, set []string) bool {
	for _, kw := range set {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
