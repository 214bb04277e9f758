package jwik

import (
	"fmt"
	"sync"
)

// LexFile is a named, numbered partition of the dictionary, e.g.
// noun.animal (spec.md §3). AssocPOS is the zero value when a
// lexicographer file has no fixed associated part of speech (none of the
// standard 45 entries are like this, but unknown numbers resolve to one).
type LexFile struct {
	Number   int
	Name     string
	Desc     string
	AssocPOS POS // zero value: none
}

// lexFileCatalog is the fixed 45-entry catalogue of standard WordNet
// lexicographer files (spec.md §3). It is a process-wide constant table,
// built once at package init and never mutated (spec.md §9).
var lexFileCatalog = map[int]LexFile{
	0:  {0, "adj.all", "all adjective clusters", ADJECTIVE},
	1:  {1, "adj.pert", "relational adjectives (pertainyms)", ADJECTIVE},
	2:  {2, "adv.all", "all adverbs", ADVERB},
	3:  {3, "noun.Tops", "unique beginners for nouns", NOUN},
	4:  {4, "noun.act", "nouns denoting acts or actions", NOUN},
	5:  {5, "noun.animal", "nouns denoting animals", NOUN},
	6:  {6, "noun.artifact", "nouns denoting man-made objects", NOUN},
	7:  {7, "noun.attribute", "nouns denoting attributes of people and objects", NOUN},
	8:  {8, "noun.body", "nouns denoting body parts", NOUN},
	9:  {9, "noun.cognition", "nouns denoting cognitive processes and contents", NOUN},
	10: {10, "noun.communication", "nouns denoting communicative processes and contents", NOUN},
	11: {11, "noun.event", "nouns denoting natural events", NOUN},
	12: {12, "noun.feeling", "nouns denoting feelings and emotions", NOUN},
	13: {13, "noun.food", "nouns denoting foods and drinks", NOUN},
	14: {14, "noun.group", "nouns denoting groupings of people or objects", NOUN},
	15: {15, "noun.location", "nouns denoting spatial position", NOUN},
	16: {16, "noun.motive", "nouns denoting goals", NOUN},
	17: {17, "noun.object", "nouns denoting natural objects (not man-made)", NOUN},
	18: {18, "noun.person", "nouns denoting people", NOUN},
	19: {19, "noun.phenomenon", "nouns denoting natural phenomena", NOUN},
	20: {20, "noun.plant", "nouns denoting plants", NOUN},
	21: {21, "noun.possession", "nouns denoting possession and transfer of possession", NOUN},
	22: {22, "noun.process", "nouns denoting natural processes", NOUN},
	23: {23, "noun.quantity", "nouns denoting quantities and units of measure", NOUN},
	24: {24, "noun.relation", "nouns denoting relations between people or things or ideas", NOUN},
	25: {25, "noun.shape", "nouns denoting two- and three-dimensional shapes", NOUN},
	26: {26, "noun.state", "nouns denoting stable states of affairs", NOUN},
	27: {27, "noun.substance", "nouns denoting substances", NOUN},
	28: {28, "noun.time", "nouns denoting time and temporal relations", NOUN},
	29: {29, "verb.body", "verbs of grooming, dressing and bodily care", VERB},
	30: {30, "verb.change", "verbs of size, temperature change, intensifying, etc.", VERB},
	31: {31, "verb.cognition", "verbs of thinking, judging, analyzing, doubting", VERB},
	32: {32, "verb.communication", "verbs of telling, asking, ordering, singing", VERB},
	33: {33, "verb.competition", "verbs of fighting, athletic activities", VERB},
	34: {34, "verb.consumption", "verbs of eating and drinking", VERB},
	35: {35, "verb.contact", "verbs of touching, hitting, tying, digging", VERB},
	36: {36, "verb.creation", "verbs of sewing, baking, painting, performing", VERB},
	37: {37, "verb.emotion", "verbs of feeling", VERB},
	38: {38, "verb.motion", "verbs of walking, flying, swimming", VERB},
	39: {39, "verb.perception", "verbs of seeing, hearing, feeling", VERB},
	40: {40, "verb.possession", "verbs of buying, selling, owning", VERB},
	41: {41, "verb.social", "verbs of political and social activities and events", VERB},
	42: {42, "verb.stative", "verbs of being, having, spatial relations", VERB},
	43: {43, "verb.weather", "verbs of raining, snowing, thawing, thundering", VERB},
	44: {44, "adj.ppl", "participial adjectives", ADJECTIVE},
}

var (
	unknownLexFileMu    sync.Mutex
	unknownLexFileCache = map[int]LexFile{}
)

// LookupLexFile resolves a lexical-file number. Unknown numbers resolve
// to a dynamically cached "Unknown" descriptor rather than an error
// (spec.md §3), since malformed or future WordNet distributions may use
// numbers outside the standard 45.
func LookupLexFile(number int) LexFile {
	if lf, ok := lexFileCatalog[number]; ok {
		return lf
	}
	unknownLexFileMu.Lock()
	defer unknownLexFileMu.Unlock()
	if lf, ok := unknownLexFileCache[number]; ok {
		return lf
	}
	lf := LexFile{Number: number, Name: fmt.Sprintf("unknown.%02d", number), Desc: "unknown lexicographer file"}
	unknownLexFileCache[number] = lf
	return lf
}
