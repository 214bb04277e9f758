package stem

import (
	"strings"

	jwik "github.com/1313ou/jwik-go"
	"github.com/1313ou/jwik-go/dict"
)

func rulesFor(pos jwik.POS) []rule {
	switch pos {
	case jwik.NOUN:
		return nounRules
	case jwik.VERB:
		return verbRules
	case jwik.ADJECTIVE:
		return adjectiveRules
	case jwik.ADVERB:
		return adverbRules
	default:
		return nil
	}
}

func allRules() []rule {
	var all []rule
	all = append(all, nounRules...)
	all = append(all, verbRules...)
	all = append(all, adjectiveRules...)
	all = append(all, adverbRules...)
	return all
}

func dedupInOrder(words []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(words))
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// Simple applies pos's pattern rules to word, returning every distinct
// result in rule-application order. pos == 0 applies every rule set and
// merges the results, deduplicated (spec.md §4.9).
func Simple(word string, pos jwik.POS) []string {
	word = strings.ToLower(strings.TrimSpace(word))
	var rules []rule
	if pos == 0 {
		rules = allRules()
	} else {
		rules = rulesFor(pos)
	}
	var out []string
	for _, r := range rules {
		if stemmed, ok := r.apply(word); ok {
			out = append(out, stemmed)
		}
	}
	return dedupInOrder(out)
}

// WordNetAware decorates Simple with dictionary lookup: an exception-file
// hit wins outright; otherwise the word itself (if it is an index word)
// plus Simple's output filtered down to candidates that are themselves
// index words, falling back to Simple's raw output if nothing survives
// (spec.md §4.9).
type WordNetAware struct {
	reader dict.Reader
}

// New builds a WordNet-aware stemmer backed by reader (a *dict.Dictionary
// or *cache.Cache, or a *ram.Snapshot once loaded).
func New(reader dict.Reader) *WordNetAware {
	return &WordNetAware{reader: reader}
}

func normalize(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	return strings.Join(strings.Fields(word), "_")
}

// Stem resolves word's root form(s) under pos (pos == 0 meaning "try
// every part of speech").
func (w *WordNetAware) Stem(word string, pos jwik.POS) ([]string, error) {
	if pos == 0 {
		var merged []string
		for _, p := range jwik.AllPOS() {
			got, err := w.Stem(word, p)
			if err != nil {
				return nil, err
			}
			merged = append(merged, got...)
		}
		return dedupInOrder(merged), nil
	}

	norm := normalize(word)

	if entry, err := w.reader.GetExceptionEntry(norm, pos); err != nil {
		return nil, err
	} else if entry != nil {
		roots := append([]string(nil), entry.RootForms...)
		if iw, err := w.reader.GetIndexWord(norm, pos); err != nil {
			return nil, err
		} else if iw != nil {
			roots = append(roots, norm)
		}
		return dedupInOrder(roots), nil
	}

	raw := Simple(norm, pos)
	var candidates []string
	if iw, err := w.reader.GetIndexWord(norm, pos); err != nil {
		return nil, err
	} else if iw != nil {
		candidates = append(candidates, norm)
	}
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		iw, err := w.reader.GetIndexWord(c, pos)
		if err != nil {
			return nil, err
		}
		if iw != nil {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) > 0 {
		return dedupInOrder(candidates), nil
	}
	return dedupInOrder(raw), nil
}
