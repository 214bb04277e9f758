// Package parse turns one raw WordNet-format text line into one structured
// record. Every function here is a pure total function: parse(line) ->
// record | error (spec.md §4.1). The tokenizer generalizes the teacher's
// lexable scanner (lloyd-wnram/parser.go), which already walks offsets,
// hex lex-ids, POS tags, pointer symbols, and glosses one rune at a time.
package parse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	jwik "github.com/1313ou/jwik-go"
)

// lexer is a minimal cursor over one line's remaining bytes, in the style
// of the teacher's `lexable` string type.
type lexer struct {
	s string
}

func newLexer(s string) *lexer { return &lexer{s: s} }

func (l *lexer) skipSpace() {
	l.s = strings.TrimLeft(l.s, " \t")
}

func (l *lexer) field() (string, error) {
	l.skipSpace()
	if l.s == "" {
		return "", fmt.Errorf("unexpected end of line")
	}
	i := strings.IndexAny(l.s, " \t")
	if i < 0 {
		tok := l.s
		l.s = ""
		return tok, nil
	}
	tok := l.s[:i]
	l.s = l.s[i:]
	return tok, nil
}

func (l *lexer) decimal() (int64, error) {
	tok, err := l.field()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected decimal number, got %q: %w", tok, err)
	}
	return n, nil
}

func (l *lexer) hex() (int64, error) {
	tok, err := l.field()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(tok, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("expected hex number, got %q: %w", tok, err)
	}
	return n, nil
}

func (l *lexer) offset() (uint32, error) {
	tok, err := l.field()
	if err != nil {
		return 0, err
	}
	if len(tok) != 8 {
		return 0, fmt.Errorf("expected 8-digit offset, got %q", tok)
	}
	n, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("expected 8-digit offset, got %q: %w", tok, err)
	}
	return uint32(n), nil
}

func (l *lexer) posTag() (jwik.POS, error) {
	tok, err := l.field()
	if err != nil {
		return 0, err
	}
	if len(tok) != 1 {
		return 0, fmt.Errorf("expected single-character pos tag, got %q", tok)
	}
	return jwik.ParsePOSTag(tok[0])
}

// adjMarkerRe-free split: "word(ip)" -> "word", "ip". No parens -> no marker.
func splitAdjMarker(tok string) (lemma, marker string, has bool) {
	i := strings.IndexByte(tok, '(')
	if i < 0 || !strings.HasSuffix(tok, ")") {
		return tok, "", false
	}
	return tok[:i], tok[i+1 : len(tok)-1], true
}

// ParseDataLine parses one line of a data.<pos> file into a Synset
// (spec.md §4.1). It does not detect comment-header lines; callers should
// filter those out first via a comparator's IsComment.
func ParseDataLine(line string) (jwik.Synset, error) {
	parts := strings.SplitN(line, " | ", 2)
	if len(parts) != 2 {
		return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "missing ' | ' gloss separator"}
	}
	data, gloss := parts[0], strings.TrimSpace(parts[1])

	l := newLexer(data)
	offset, err := l.offset()
	if err != nil {
		return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "offset: " + err.Error()}
	}
	lexFileNum, err := l.decimal()
	if err != nil {
		return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "lex_filenum: " + err.Error()}
	}
	ssTypeTok, err := l.field()
	if err != nil {
		return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "ss_type: " + err.Error()}
	}
	if len(ssTypeTok) != 1 {
		return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "ss_type must be one character"}
	}
	pos, err := jwik.ParsePOSTag(ssTypeTok[0])
	if err != nil {
		return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "ss_type: " + err.Error()}
	}
	satellite := ssTypeTok[0] == 's'

	id, err := jwik.NewSynsetID(offset, pos)
	if err != nil {
		return jwik.Synset{}, err
	}
	lexFile := jwik.LookupLexFile(int(lexFileNum))

	wCount, err := l.hex()
	if err != nil {
		return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "w_cnt: " + err.Error()}
	}
	words := make([]jwik.Word, 0, wCount)
	for i := int64(0); i < wCount; i++ {
		tok, err := l.field()
		if err != nil {
			return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "word: " + err.Error()}
		}
		lexID, err := l.hex()
		if err != nil {
			return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "lex_id: " + err.Error()}
		}
		lemma, marker, hasMarker := splitAdjMarker(tok)
		if hasMarker && pos != jwik.ADJECTIVE {
			return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "adjective marker on non-adjective synset"}
		}
		words = append(words, jwik.Word{
			Lemma:        lemma,
			LexID:        int(lexID),
			AdjMarker:    marker,
			HasAdjMarker: hasMarker,
			LexicalPtrs:  map[jwik.Pointer][]jwik.WordID{},
		})
	}

	pCount, err := l.decimal()
	if err != nil {
		return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "p_cnt: " + err.Error()}
	}
	semantic := map[jwik.Pointer][]jwik.SynsetID{}
	for i := int64(0); i < pCount; i++ {
		symbol, err := l.field()
		if err != nil {
			return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "pointer symbol: " + err.Error()}
		}
		ptr, err := jwik.LookupPointer(symbol, pos)
		if err != nil {
			return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: err.Error()}
		}
		targetOffset, err := l.offset()
		if err != nil {
			return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "pointer target offset: " + err.Error()}
		}
		targetPOS, err := l.posTag()
		if err != nil {
			return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "pointer target pos: " + err.Error()}
		}
		targetID, err := jwik.NewSynsetID(targetOffset, targetPOS)
		if err != nil {
			return jwik.Synset{}, err
		}
		srcTgtTok, err := l.field()
		if err != nil {
			return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "pointer src/tgt: " + err.Error()}
		}
		if len(srcTgtTok) != 4 {
			return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "pointer src/tgt must be 4 hex digits"}
		}
		srcTgt, err := strconv.ParseInt(srcTgtTok, 16, 32)
		if err != nil {
			return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "pointer src/tgt: " + err.Error()}
		}
		src, tgt := int((srcTgt>>8)&0xff), int(srcTgt&0xff)
		if src == 0 && tgt == 0 {
			semantic[ptr] = append(semantic[ptr], targetID)
			continue
		}
		if src < 1 || src > len(words) {
			return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "pointer source word index out of range"}
		}
		targetWordID, err := jwik.NewWordIDByNumber(targetID, tgt)
		if err != nil {
			return jwik.Synset{}, err
		}
		w := &words[src-1]
		w.LexicalPtrs[ptr] = append(w.LexicalPtrs[ptr], targetWordID)
	}

	// Optional verb-frame section: f_cnt (<frame> <word>)*.
	l.skipSpace()
	if l.s != "" {
		fCount, err := l.decimal()
		if err != nil {
			return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "f_cnt: " + err.Error()}
		}
		for i := int64(0); i < fCount; i++ {
			l.skipSpace()
			if !strings.HasPrefix(l.s, "+") {
				return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "missing '+' frame marker"}
			}
			l.s = strings.TrimPrefix(l.s, "+")
			frameNum, err := l.decimal()
			if err != nil {
				return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "frame number: " + err.Error()}
			}
			wordNum, err := l.hex()
			if err != nil {
				return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "frame word number: " + err.Error()}
			}
			if wordNum == 0 {
				for i := range words {
					words[i].VerbFrames = append(words[i].VerbFrames, int(frameNum))
				}
			} else {
				if int(wordNum) < 1 || int(wordNum) > len(words) {
					return jwik.Synset{}, &jwik.MisformattedLineError{Line: line, Reason: "frame word number out of range"}
				}
				words[wordNum-1].VerbFrames = append(words[wordNum-1].VerbFrames, int(frameNum))
			}
		}
	}

	head := false // adjective-head detection is the caller's job (spec.md §4.6 head resolution), not the parser's
	return jwik.NewSynset(id, lexFile, satellite, head, gloss, words, semantic)
}

// ParseIndexLine parses one line of an index.<pos> file into an IndexWord
// (spec.md §4.1). The second sense_cnt field is redundant with the first
// and is read but not separately validated.
func ParseIndexLine(line string) (jwik.IndexWord, error) {
	l := newLexer(line)
	lemma, err := l.field()
	if err != nil {
		return jwik.IndexWord{}, &jwik.MisformattedLineError{Line: line, Reason: "lemma: " + err.Error()}
	}
	pos, err := l.posTag()
	if err != nil {
		return jwik.IndexWord{}, &jwik.MisformattedLineError{Line: line, Reason: "pos: " + err.Error()}
	}
	senseCount, err := l.decimal()
	if err != nil {
		return jwik.IndexWord{}, &jwik.MisformattedLineError{Line: line, Reason: "sense_cnt: " + err.Error()}
	}
	pCount, err := l.decimal()
	if err != nil {
		return jwik.IndexWord{}, &jwik.MisformattedLineError{Line: line, Reason: "p_cnt: " + err.Error()}
	}
	pointerKinds := map[jwik.Pointer]bool{}
	for i := int64(0); i < pCount; i++ {
		symbol, err := l.field()
		if err != nil {
			return jwik.IndexWord{}, &jwik.MisformattedLineError{Line: line, Reason: "pointer symbol: " + err.Error()}
		}
		ptr, err := jwik.LookupPointer(symbol, pos)
		if err != nil {
			return jwik.IndexWord{}, &jwik.MisformattedLineError{Line: line, Reason: err.Error()}
		}
		pointerKinds[ptr] = true
	}
	if _, err := l.decimal(); err != nil { // redundant sense_cnt repeat
		return jwik.IndexWord{}, &jwik.MisformattedLineError{Line: line, Reason: "sense_cnt repeat: " + err.Error()}
	}
	tagSenseCount, err := l.decimal()
	if err != nil {
		return jwik.IndexWord{}, &jwik.MisformattedLineError{Line: line, Reason: "tagsense_cnt: " + err.Error()}
	}
	wordIDs := make([]jwik.WordID, 0, senseCount)
	for i := int64(0); i < senseCount; i++ {
		offset, err := l.offset()
		if err != nil {
			return jwik.IndexWord{}, &jwik.MisformattedLineError{Line: line, Reason: "synset offset: " + err.Error()}
		}
		synset, err := jwik.NewSynsetID(offset, pos)
		if err != nil {
			return jwik.IndexWord{}, err
		}
		wid, err := jwik.NewWordIDByLemma(synset, lemma)
		if err != nil {
			return jwik.IndexWord{}, err
		}
		wordIDs = append(wordIDs, wid)
	}
	id, err := jwik.NewIndexWordID(lemma, pos)
	if err != nil {
		return jwik.IndexWord{}, err
	}
	return jwik.NewIndexWord(id, int(tagSenseCount), wordIDs, pointerKinds)
}

// ParseExceptionLine parses one line of a *.exc file: a surface form
// followed by one or more root forms.
func ParseExceptionLine(line string) (jwik.ExceptionEntryProxy, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return jwik.ExceptionEntryProxy{}, &jwik.MisformattedLineError{Line: line, Reason: "expected surface form and at least one root"}
	}
	return jwik.NewExceptionEntryProxy(fields[0], fields[1:])
}

// ParseSenseIndexLine parses one line of an index.sense (or sense.index)
// file into a SenseEntry.
func ParseSenseIndexLine(line string) (jwik.SenseEntry, error) {
	l := newLexer(line)
	keyTok, err := l.field()
	if err != nil {
		return jwik.SenseEntry{}, &jwik.MisformattedLineError{Line: line, Reason: "sense_key: " + err.Error()}
	}
	key, err := jwik.ParseSenseKey(keyTok)
	if err != nil {
		return jwik.SenseEntry{}, &jwik.MisformattedLineError{Line: line, Reason: "sense_key: " + err.Error()}
	}
	offset, err := l.offset()
	if err != nil {
		return jwik.SenseEntry{}, &jwik.MisformattedLineError{Line: line, Reason: "synset_offset: " + err.Error()}
	}
	senseNumber, err := l.decimal()
	if err != nil {
		return jwik.SenseEntry{}, &jwik.MisformattedLineError{Line: line, Reason: "sense_number: " + err.Error()}
	}
	tagCount, err := l.decimal()
	if err != nil {
		return jwik.SenseEntry{}, &jwik.MisformattedLineError{Line: line, Reason: "tag_count: " + err.Error()}
	}
	return jwik.NewSenseEntry(key, offset, int(senseNumber), int(tagCount))
}

// isHeaderNumberLine reports whether line is a bare decimal number
// matching lineNumber, the convention the teacher uses (lloyd-wnram/
// parser.go parseLine) to recognize a comment-header line when an offset
// fails to parse. This package's own comment detection lives in the
// compare package (spec.md §4.2); this helper is retained only for the
// rare caller that wants to double check a single suspect line without a
// full comparator.
func isHeaderNumberLine(line string, lineNumber int64) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	for _, r := range fields[0] {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	n, err := strconv.ParseInt(fields[0], 10, 64)
	return err == nil && n == lineNumber
}
