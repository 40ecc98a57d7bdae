package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMeaningful(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"normal sentence", "I am looking for advice on my first job interview.", true},
		{"very short", "hi", false},
		{"empty", "", false},
		{"no vowels", "bcdfg hjklm npqrst", false},
		{"symbols and digits only", "123 456 !!! ???", false},
		{"long unbroken run", strings.Repeat("ab", 20), false},
		{"mixed noise tokens", "abc123 random text xyz hello", false},
		{"mostly real words", "Does anyone have tips for painting interior walls cheaply?", true},
		{"short but real", "need a logo", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isMeaningful(tc.text))
		})
	}
}

func TestScoreKeywords(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		wantCat   string
		wantScore int
	}{
		{"business beats design", "starting a freelance design business", "Business", 2},
		{"no match", "we watched the boats leave the harbor", "", 0},
		{"ties break by table order", "design career", "Design", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat, score := scoreKeywords(tc.text)
			assert.Equal(t, tc.wantCat, cat)
			assert.Equal(t, tc.wantScore, score)
		})
	}
}

func TestKeywordTableCoversAllFamilies(t *testing.T) {
	want := []string{"Design", "Business", "Career", "Construction", "Academic", "Informative", "Jobs"}
	got := make([]string, len(keywordTable))
	for i, fam := range keywordTable {
		got[i] = fam.Category
		assert.NotEmpty(t, fam.Keywords, "family %s has no keywords", fam.Category)
	}
	assert.Equal(t, want, got)
}
