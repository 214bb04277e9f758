// Package stem implements the two-layer stemmer (spec.md §4.9): a pure
// pattern-rule stemmer, and a WordNet-aware decorator that filters
// candidates against the dictionary's exception and index files.
package stem

import "strings"

// rule is one suffix-replacement pattern: a word ending in Suffix, unless
// it also ends in one of Ignore, becomes word[:-len(Suffix)] + Ending.
type rule struct {
	Suffix string
	Ending string
	Ignore []string
}

func (r rule) apply(word string) (string, bool) {
	if !strings.HasSuffix(word, r.Suffix) {
		return "", false
	}
	for _, ig := range r.Ignore {
		if strings.HasSuffix(word, ig) {
			return "", false
		}
	}
	return word[:len(word)-len(r.Suffix)] + r.Ending, true
}

var nounRules = []rule{
	{Suffix: "s", Ending: ""},
	{Suffix: "ses", Ending: "s"},
	{Suffix: "xes", Ending: "x"},
	{Suffix: "zes", Ending: "z"},
	{Suffix: "ches", Ending: "ch"},
	{Suffix: "shes", Ending: "sh"},
	{Suffix: "men", Ending: "man"},
	{Suffix: "ies", Ending: "y"},
}

var verbRules = []rule{
	{Suffix: "s", Ending: ""},
	{Suffix: "ies", Ending: "y"},
	{Suffix: "es", Ending: "e"},
	{Suffix: "es", Ending: ""},
	{Suffix: "ed", Ending: "e"},
	{Suffix: "ed", Ending: ""},
	{Suffix: "ing", Ending: "e"},
	{Suffix: "ing", Ending: ""},
}

var adjectiveRules = []rule{
	{Suffix: "er", Ending: ""},
	{Suffix: "er", Ending: "e"},
	{Suffix: "est", Ending: ""},
	{Suffix: "est", Ending: "e"},
}

var adverbRules = []rule{}
