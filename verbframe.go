package jwik

import (
	"fmt"
	"sync"
)

// VerbFrame is one of WordNet's generic verb sentence frames. Template
// carries the literal substring "----" marking where the verb goes
// (spec.md §3), e.g. "Somebody ---- something".
type VerbFrame struct {
	Number   int
	Template string
}

// MinVerbFrameNumber/MaxVerbFrameNumber bound the legal frame numbers
// (spec.md §3). WordNet's standard frames.vrb only populates 1..35;
// 36..39 are valid slots that resolve to a dynamically cached "Unknown"
// descriptor, the same policy LookupLexFile uses for out-of-catalogue
// numbers.
const (
	MinVerbFrameNumber = 1
	MaxVerbFrameNumber = 39
)

var verbFrameCatalog = map[int]VerbFrame{
	1:  {1, "Something ----s"},
	2:  {2, "Somebody ----s"},
	3:  {3, "It is ----ing"},
	4:  {4, "Something is ----ing PP"},
	5:  {5, "Something ----s something Adjective/Noun"},
	6:  {6, "Something ----s Adjective/Noun"},
	7:  {7, "Somebody ----s Adjective"},
	8:  {8, "Somebody ----s something"},
	9:  {9, "Somebody ----s somebody"},
	10: {10, "Something ----s somebody"},
	11: {11, "Something ----s something"},
	12: {12, "Something ----s to somebody"},
	13: {13, "Somebody ----s on something"},
	14: {14, "Somebody ----s somebody something"},
	15: {15, "Somebody ----s something to somebody"},
	16: {16, "Somebody ----s something from somebody"},
	17: {17, "Somebody ----s somebody with something"},
	18: {18, "Somebody ----s somebody of something"},
	19: {19, "Somebody ----s something on somebody"},
	20: {20, "Somebody ----s somebody PP"},
	21: {21, "Somebody ----s something PP"},
	22: {22, "Somebody ----s PP"},
	23: {23, "Somebody's (body part) ----s"},
	24: {24, "Somebody ----s somebody to INFINITIVE"},
	25: {25, "Somebody ----s somebody INFINITIVE"},
	26: {26, "Somebody ----s that CLAUSE"},
	27: {27, "Somebody ----s to somebody"},
	28: {28, "Somebody ----s to INFINITIVE"},
	29: {29, "Somebody ----s whether INFINITIVE"},
	30: {30, "Somebody ----s somebody into V-ing something"},
	31: {31, "Somebody ----s something with something"},
	32: {32, "Somebody ----s INFINITIVE"},
	33: {33, "Somebody ----s VERB-ing"},
	34: {34, "It ----s that CLAUSE"},
	35: {35, "Something ----s INFINITIVE"},
}

var (
	unknownVerbFrameMu    sync.Mutex
	unknownVerbFrameCache = map[int]VerbFrame{}
)

// LookupVerbFrame resolves a verb-frame number in [1,39]. Numbers outside
// the standard 35-entry catalogue resolve to a cached placeholder
// template rather than an error.
func LookupVerbFrame(number int) (VerbFrame, error) {
	if number < MinVerbFrameNumber || number > MaxVerbFrameNumber {
		return VerbFrame{}, &InvalidArgumentError{Argument: "verb frame number", Reason: "out of range [1,39]"}
	}
	if vf, ok := verbFrameCatalog[number]; ok {
		return vf, nil
	}
	unknownVerbFrameMu.Lock()
	defer unknownVerbFrameMu.Unlock()
	if vf, ok := unknownVerbFrameCache[number]; ok {
		return vf, nil
	}
	vf := VerbFrame{Number: number, Template: fmt.Sprintf("(unknown frame %d) ----", number)}
	unknownVerbFrameCache[number] = vf
	return vf, nil
}
