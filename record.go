package jwik

import "strings"

// Word is one member of a Synset: a lemma plus its lexical id, optional
// adjective marker, verb-frame applicability, and lexical (word-to-word)
// pointers.
type Word struct {
	Lemma         string
	LexID         int // 0..15
	AdjMarker     string
	HasAdjMarker  bool
	VerbFrames    []int
	LexicalPtrs   map[Pointer][]WordID
}

// Synset is one WordNet concept: a set of synonymous word senses plus its
// gloss and its typed relations to other synsets (semantic pointers) and
// other words (lexical pointers, carried per-Word).
type Synset struct {
	ID        SynsetID
	LexFile   LexFile
	Satellite bool
	Head      bool
	Gloss     string
	Words     []Word
	Semantic  map[Pointer][]SynsetID
}

// NewSynset validates the invariants from spec.md §3 and constructs a
// Synset: satellite implies lexical-file number 0 (adj.all); a synset is
// never simultaneously satellite and head; an adjective marker is only
// legal when pos is ADJECTIVE; the word list is non-empty.
func NewSynset(id SynsetID, lexFile LexFile, satellite, head bool, gloss string, words []Word, semantic map[Pointer][]SynsetID) (Synset, error) {
	if len(words) == 0 {
		return Synset{}, &InvalidArgumentError{Argument: "synset words", Reason: "must be non-empty"}
	}
	if satellite && lexFile.Number != 0 {
		return Synset{}, &InvalidArgumentError{Argument: "synset lexfile", Reason: "satellite synsets must use lexfile 0 (adj.all)"}
	}
	if satellite && head {
		return Synset{}, &InvalidArgumentError{Argument: "synset", Reason: "cannot be both satellite and head"}
	}
	if id.POS != ADJECTIVE {
		for _, w := range words {
			if w.HasAdjMarker {
				return Synset{}, &InvalidArgumentError{Argument: "word adjective marker", Reason: "only legal for ADJECTIVE synsets"}
			}
		}
	}
	if semantic == nil {
		semantic = map[Pointer][]SynsetID{}
	}
	return Synset{ID: id, LexFile: lexFile, Satellite: satellite, Head: head, Gloss: gloss, Words: words, Semantic: semantic}, nil
}

// WordID returns the WordID of the synset member at 1-based position n.
func (s Synset) WordID(n int) (WordID, bool) {
	if n < 1 || n > len(s.Words) {
		return WordID{}, false
	}
	id, err := NewWordID(s.ID, n, s.Words[n-1].Lemma)
	return id, err == nil
}

// IndexWord is one (lemma, pos) entry of an index file: the set of
// synsets containing that lemma, plus aggregate stats across all of its
// senses.
type IndexWord struct {
	ID             IndexWordID
	TagSenseCount  int
	WordIDs        []WordID
	PointerKinds   map[Pointer]bool
}

func NewIndexWord(id IndexWordID, tagSenseCount int, wordIDs []WordID, pointerKinds map[Pointer]bool) (IndexWord, error) {
	if len(wordIDs) == 0 {
		return IndexWord{}, &InvalidArgumentError{Argument: "index word ids", Reason: "must be non-empty"}
	}
	if tagSenseCount < 0 {
		return IndexWord{}, &InvalidArgumentError{Argument: "tag sense count", Reason: "must be >= 0"}
	}
	if pointerKinds == nil {
		pointerKinds = map[Pointer]bool{}
	}
	return IndexWord{ID: id, TagSenseCount: tagSenseCount, WordIDs: wordIDs, PointerKinds: pointerKinds}, nil
}

// SenseEntry is one row of the sense-index file: a sense key's synset
// offset, ordinal sense number, and tagged-corpus count.
type SenseEntry struct {
	SenseKey     SenseKey
	SynsetOffset uint32
	SenseNumber  int
	TagCount     int
}

func NewSenseEntry(key SenseKey, offset uint32, senseNumber, tagCount int) (SenseEntry, error) {
	if senseNumber < 1 {
		return SenseEntry{}, &InvalidArgumentError{Argument: "sense number", Reason: "must be >= 1"}
	}
	if tagCount < 0 {
		return SenseEntry{}, &InvalidArgumentError{Argument: "tag count", Reason: "must be >= 0"}
	}
	return SenseEntry{SenseKey: key, SynsetOffset: offset, SenseNumber: senseNumber, TagCount: tagCount}, nil
}

// ExceptionEntryProxy is a parsed exception-file line before it is paired
// with a part of speech (the file itself is per-POS, so the proxy is POS-
// free; Dictionary.getExceptionEntry attaches the POS).
type ExceptionEntryProxy struct {
	Surface   string
	RootForms []string
}

func NewExceptionEntryProxy(surface string, rootForms []string) (ExceptionEntryProxy, error) {
	surface = strings.ToLower(strings.TrimSpace(surface))
	if surface == "" {
		return ExceptionEntryProxy{}, &InvalidArgumentError{Argument: "surface form", Reason: "empty"}
	}
	cleaned := make([]string, 0, len(rootForms))
	for _, r := range rootForms {
		r = strings.TrimSpace(r)
		if r == "" {
			return ExceptionEntryProxy{}, &InvalidArgumentError{Argument: "root form", Reason: "empty"}
		}
		cleaned = append(cleaned, r)
	}
	if len(cleaned) == 0 {
		return ExceptionEntryProxy{}, &InvalidArgumentError{Argument: "root forms", Reason: "must be non-empty"}
	}
	return ExceptionEntryProxy{Surface: surface, RootForms: cleaned}, nil
}

// ExceptionEntry combines an ExceptionEntryProxy with a part of speech.
type ExceptionEntry struct {
	ID        ExceptionID
	RootForms []string
}

func NewExceptionEntry(proxy ExceptionEntryProxy, pos POS) (ExceptionEntry, error) {
	id, err := NewExceptionID(proxy.Surface, pos)
	if err != nil {
		return ExceptionEntry{}, err
	}
	return ExceptionEntry{ID: id, RootForms: proxy.RootForms}, nil
}
