package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var forumCategories = []string{
	"Design", "Informative", "Business", "Career", "Construction",
	"Academic", "Jobs", "Other",
}

func floatPtr(f float64) *float64 { return &f }

func TestResolve_ExactMatch(t *testing.T) {
	raw := &RawSuggestion{
		Categories: []string{"business", "DESIGN"},
		Tags:       []string{"freelance", "logo"},
		Confidence: floatPtr(0.9),
	}

	res := Resolve(raw, "Some text about starting a studio.", forumCategories)

	assert.Equal(t, []string{"Business", "Design"}, res.Categories, "matches must use the caller's exact spelling")
	assert.Equal(t, 0.9, res.Confidence)
	assert.Equal(t, []string{"freelance", "logo"}, res.Tags)
}

func TestResolve_UnknownSuggestionsDroppedSilently(t *testing.T) {
	raw := &RawSuggestion{
		Categories: []string{"Technology", "Business"},
		Confidence: floatPtr(0.8),
	}

	res := Resolve(raw, "Some text.", forumCategories)

	assert.Equal(t, []string{"Business"}, res.Categories, "names outside the valid list are dropped, not errors")
}

func TestResolve_ConfidenceClampedAndDefaulted(t *testing.T) {
	cases := []struct {
		name string
		in   *float64
		want float64
	}{
		{"absent defaults", nil, 0.5},
		{"negative clamps", floatPtr(-0.3), 0},
		{"above one clamps", floatPtr(1.7), 1},
		{"in range kept", floatPtr(0.42), 0.42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := &RawSuggestion{Categories: []string{"Business"}, Confidence: tc.in}
			res := Resolve(raw, "text", forumCategories)
			assert.Equal(t, tc.want, res.Confidence)
		})
	}
}

func TestResolve_GibberishGoesToOther(t *testing.T) {
	// AI unavailable: no raw suggestion at all.
	res := Resolve(nil, "abc123 random text xyz hello", forumCategories)

	assert.Equal(t, []string{"Other"}, res.Categories)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestResolve_GibberishStillForced(t *testing.T) {
	// A single glued-together token fails the meaningfulness check, but its
	// trigger keywords still co-occur, so the forcing pass adds on top of
	// the gibberish bucket.
	cats := []string{"Construction", "Business", "Other"}

	res := Resolve(nil, "buildingcost", cats)

	assert.Equal(t, []string{"Other", "Construction", "Business"}, res.Categories)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestResolve_KeywordScoringSurfacesBusiness(t *testing.T) {
	res := Resolve(nil, "I need help starting a freelance design business from home.", forumCategories)

	require.NotEmpty(t, res.Categories)
	assert.Contains(t, res.Categories, "Business", "business + freelance should outscore design")
	assert.Equal(t, keywordConfidence, res.Confidence)
}

func TestResolve_ForcingAddsConstructionAndBusiness(t *testing.T) {
	text := "Planning a construction project and struggling with budgeting and management of the contractor."

	// Regardless of model output: once with no suggestion, once with an
	// unrelated but valid suggestion.
	cases := []struct {
		name string
		raw  *RawSuggestion
	}{
		{"no model", nil},
		{"model says Academic", &RawSuggestion{Categories: []string{"Academic"}, Confidence: floatPtr(0.6)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Resolve(tc.raw, text, forumCategories)
			assert.Contains(t, res.Categories, "Construction")
			assert.Contains(t, res.Categories, "Business")
		})
	}
}

func TestResolve_ForcingNeverRemovesAndRespectsCap(t *testing.T) {
	text := "Our construction firm is hiring: open position for a contractor with budgeting and management experience, career growth, resume required, freelance design client invoice work too."
	raw := &RawSuggestion{Categories: []string{"Jobs", "Career", "Construction"}, Confidence: floatPtr(0.7)}

	res := Resolve(raw, text, forumCategories)

	assert.Contains(t, res.Categories, "Jobs")
	assert.Contains(t, res.Categories, "Career")
	assert.Contains(t, res.Categories, "Construction")
	assert.LessOrEqual(t, len(res.Categories), MaxCategories)
}

func TestResolve_SubstringFallback(t *testing.T) {
	// Meaningful text, no keyword hit, model proposed a superstring of a
	// valid category name.
	raw := &RawSuggestion{Categories: []string{"Academic Writing"}}

	res := Resolve(raw, "Thoughts about writing essays together with other people.", forumCategories)

	assert.Equal(t, []string{"Academic"}, res.Categories)
	assert.Equal(t, substringConfidence, res.Confidence)
}

func TestResolve_TerminalDefault(t *testing.T) {
	res := Resolve(nil, "We gathered around the old harbor and watched boats leave slowly.", forumCategories)

	assert.Equal(t, []string{"Informative"}, res.Categories)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestResolve_TerminalDefaultWithoutInformative(t *testing.T) {
	cats := []string{"Design", "Other"}

	res := Resolve(nil, "We gathered around the old harbor and watched boats leave slowly.", cats)

	assert.Equal(t, []string{"Other"}, res.Categories)
}

func TestResolve_EmptyCategoryList(t *testing.T) {
	res := Resolve(nil, "Anything at all.", []string{})

	assert.Empty(t, res.Categories)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestResolve_MembershipInvariant(t *testing.T) {
	texts := []string{
		"abc123 random text xyz hello",
		"I need help starting a freelance design business from home.",
		"Planning a construction project with budgeting issues.",
		"???!!!",
		"We gathered around the old harbor and watched boats leave slowly.",
	}
	raws := []*RawSuggestion{
		nil,
		{Categories: []string{"Nonsense", "biz", "Business"}},
		{Categories: []string{"informative"}, Confidence: floatPtr(2.0)},
	}

	valid := map[string]bool{}
	for _, c := range forumCategories {
		valid[c] = true
	}

	for _, text := range texts {
		for _, raw := range raws {
			res := Resolve(raw, text, forumCategories)
			require.GreaterOrEqual(t, len(res.Categories), 1)
			require.LessOrEqual(t, len(res.Categories), MaxCategories)
			for _, c := range res.Categories {
				assert.True(t, valid[c], "category %q is not a case-accurate member of the valid list", c)
			}
		}
	}
}

func TestResolve_DeterministicWithoutModel(t *testing.T) {
	text := "Advice on renovating a concrete foundation on a tight budget."
	first := Resolve(nil, text, forumCategories)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Resolve(nil, text, forumCategories))
	}
}
