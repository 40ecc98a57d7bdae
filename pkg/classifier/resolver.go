package classifier

import "strings"

// MaxCategories caps the resolved category set, matching the persisted
// per-post association limit.
const MaxCategories = 4

// Confidence values for resolutions that did not come from a usable model
// suggestion. A model-backed resolution carries the model's own score
// clamped to [0,1] (0.5 when the model omitted it).
const (
	defaultModelConfidence = 0.5
	keywordConfidence      = 0.4
	substringConfidence    = 0.3
)

// Resolve reconciles the model's raw suggestion against the caller's valid
// category list. It never fails: some tier always yields a result as long
// as availableCategories is non-empty. With an empty list it returns an
// empty category set with confidence 0.
//
// Tiers, in order, stopping at the first that yields a category:
//  1. case-insensitive exact match of suggested names
//  2. keyword-frequency scoring over the keyword table
//  3. meaningfulness heuristic (gibberish maps to "Other")
//  4. substring containment against the first raw suggestion
//  5. terminal default ("Informative", else "Other")
//
// A co-occurrence forcing pass then adds (never removes) categories, up to
// MaxCategories total.
func Resolve(raw *RawSuggestion, normalizedText string, availableCategories []string) Result {
	res := Result{Categories: []string{}, Tags: []string{}}
	if raw != nil {
		res.Tags = cleanTags(raw.Tags)
	}
	if len(availableCategories) == 0 {
		return res
	}

	// Tier 1: exact/case-insensitive match. Unknown names are dropped
	// silently rather than reported.
	if raw != nil {
		for _, suggested := range raw.Categories {
			if match, ok := matchCategory(suggested, availableCategories); ok {
				res.Categories = appendCategory(res.Categories, match)
			}
			if len(res.Categories) == 3 {
				break
			}
		}
		if len(res.Categories) > 0 {
			res.Confidence = clampConfidence(raw.Confidence)
			return force(res, normalizedText, availableCategories)
		}
	}

	// Tier 2: keyword scoring. The winning family still has to be a valid
	// caller category.
	if name, score := scoreKeywords(normalizedText); score > 0 {
		if match, ok := matchCategory(name, availableCategories); ok {
			res.Categories = []string{match}
			res.Confidence = keywordConfidence
			return force(res, normalizedText, availableCategories)
		}
	}

	// Tier 3: gibberish/spam goes to the generic bucket. Forcing still
	// applies: trigger keywords can co-occur in text the heuristic rejects.
	if !isMeaningful(normalizedText) {
		res.Categories = []string{fallbackCategory(availableCategories, "Other", "Informative")}
		res.Confidence = 0
		return force(res, normalizedText, availableCategories)
	}

	// Tier 4: substring containment, either direction, against the first
	// raw suggestion only.
	if raw != nil && len(raw.Categories) > 0 {
		first := strings.ToLower(strings.TrimSpace(raw.Categories[0]))
		if first != "" {
			for _, avail := range availableCategories {
				lower := strings.ToLower(avail)
				if strings.Contains(lower, first) || strings.Contains(first, lower) {
					res.Categories = []string{avail}
					res.Confidence = substringConfidence
					return force(res, normalizedText, availableCategories)
				}
			}
		}
	}

	// Tier 5: terminal default.
	res.Categories = []string{fallbackCategory(availableCategories, "Informative", "Other")}
	res.Confidence = 0
	return force(res, normalizedText, availableCategories)
}

// force applies the co-occurrence rules. Forced categories must be valid
// caller categories; the pass only adds and respects MaxCategories.
func force(res Result, normalizedText string, availableCategories []string) Result {
	lower := strings.ToLower(normalizedText)
	for _, rule := range forcingRules {
		fired := true
		for _, set := range rule.TriggerSets {
			if !anyKeyword(lower, set) {
				fired = false
				break
			}
		}
		if !fired {
			continue
		}
		for _, name := range rule.Categories {
			if len(res.Categories) >= MaxCategories {
				return res
			}
			if match, ok := matchCategory(name, availableCategories); ok {
				res.Categories = appendCategory(res.Categories, match)
			}
		}
	}
	return res
}

// matchCategory finds the case-accurate spelling of name within the
// available list.
func matchCategory(name string, available []string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, avail := range available {
		if strings.EqualFold(name, avail) {
			return avail, true
		}
	}
	return "", false
}

// fallbackCategory returns the first of the preferred names present in the
// available list, falling back to the caller's first category so the
// membership invariant always holds.
func fallbackCategory(available []string, preferred ...string) string {
	for _, p := range preferred {
		if match, ok := matchCategory(p, available); ok {
			return match
		}
	}
	return available[0]
}

func appendCategory(cats []string, name string) []string {
	for _, c := range cats {
		if c == name {
			return cats
		}
	}
	return append(cats, name)
}

func cleanTags(tags []string) []string {
	out := []string{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		dup := false
		for _, seen := range out {
			if strings.EqualFold(seen, t) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
		if len(out) == 5 {
			break
		}
	}
	return out
}

func clampConfidence(c *float64) float64 {
	if c == nil {
		return defaultModelConfidence
	}
	if *c < 0 {
		return 0
	}
	if *c > 1 {
		return 1
	}
	return *c
}
