package jwik

import "strings"

// POS is a WordNet part of speech. The teacher's PartOfSpeech enum
// (lloyd-wnram/wordnet.go) collapses adjective satellites into Adjective;
// here the satellite-ness lives on Synset/SenseKey instead, so POS itself
// stays a plain four-way enum.
type POS uint8

const (
	NOUN POS = iota + 1
	VERB
	ADJECTIVE
	ADVERB
)

// adjSatellite is accepted on parse (tag 's', numeric code 5) and always
// normalizes to ADJECTIVE; callers track satellite-ness on the record.
const adjSatelliteCode = 5

var posTags = map[POS]byte{
	NOUN:      'n',
	VERB:      'v',
	ADJECTIVE: 'a',
	ADVERB:    'r',
}

var tagToPOS = map[byte]POS{
	'n': NOUN,
	'v': VERB,
	'a': ADJECTIVE,
	's': ADJECTIVE,
	'r': ADVERB,
}

var posCodes = map[POS]int{
	NOUN:      1,
	VERB:      2,
	ADJECTIVE: 3,
	ADVERB:    4,
}

var codeToPOS = map[int]POS{
	1: NOUN,
	2: VERB,
	3: ADJECTIVE,
	4: ADVERB,
	5: ADJECTIVE,
}

// filenameHints are the substrings the file provider looks for in a
// candidate filename, per the directory-discovery rule in spec.md §4.5.
var filenameHints = map[POS][]string{
	NOUN:      {"noun", ".n"},
	VERB:      {"verb", ".v"},
	ADJECTIVE: {"adj", ".a"},
	ADVERB:    {"adv", ".r"},
}

// Tag returns the single-character WordNet tag for pos ('n','v','a','r').
func (p POS) Tag() byte {
	t, ok := posTags[p]
	if !ok {
		return 0
	}
	return t
}

// Code returns the numeric ss_type code (1..4) for pos. Adjective
// satellites (ss_type 5) are represented separately; see Synset.Satellite.
func (p POS) Code() int {
	return posCodes[p]
}

// UpperTag is the uppercase tag used in string identifiers, e.g. "SID-...-N".
func (p POS) UpperTag() string {
	return strings.ToUpper(string(p.Tag()))
}

func (p POS) String() string {
	switch p {
	case NOUN:
		return "noun"
	case VERB:
		return "verb"
	case ADJECTIVE:
		return "adjective"
	case ADVERB:
		return "adverb"
	}
	return "unknown"
}

func (p POS) FilenameHints() []string {
	return filenameHints[p]
}

// ParsePOSTag parses a single-character WordNet POS tag. The fifth
// character 's' (adjective satellite) normalizes to ADJECTIVE, per
// spec.md §3.
func ParsePOSTag(tag byte) (POS, error) {
	if p, ok := tagToPOS[tag]; ok {
		return p, nil
	}
	return 0, &InvalidArgumentError{Argument: "pos tag", Reason: string(tag)}
}

// ParsePOSCode parses a numeric ss_type code. 5 (adjective satellite)
// normalizes to ADJECTIVE; callers that need satellite-ness should also
// inspect the raw code.
func ParsePOSCode(code int) (POS, error) {
	if p, ok := codeToPOS[code]; ok {
		return p, nil
	}
	return 0, &InvalidArgumentError{Argument: "pos code", Reason: "out of range"}
}

// AllPOS enumerates the four parts of speech in a fixed, stable order.
func AllPOS() []POS {
	return []POS{NOUN, VERB, ADJECTIVE, ADVERB}
}
