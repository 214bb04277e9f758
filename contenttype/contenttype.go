// Package contenttype implements the content-type registry (spec.md
// §4.3): the table pairing (data-type × part-of-speech) to a parser
// selector, a line comparator, an optional character set, and filename
// discovery hints. spec.md §9 calls this out explicitly as a case for an
// enum-indexed table rather than subclass dispatch; that's what this
// package is.
package contenttype

import (
	"regexp"
	"sync"

	jwik "github.com/1313ou/jwik-go"
	"github.com/1313ou/jwik-go/compare"
)

// Key names one entry of the fixed content-type table.
type Key string

const (
	IndexNoun Key = "INDEX_NOUN"
	IndexVerb Key = "INDEX_VERB"
	IndexAdj  Key = "INDEX_ADJ"
	IndexAdv  Key = "INDEX_ADV"

	DataNoun Key = "DATA_NOUN"
	DataVerb Key = "DATA_VERB"
	DataAdj  Key = "DATA_ADJ"
	DataAdv  Key = "DATA_ADV"

	ExceptionNoun Key = "EXCEPTION_NOUN"
	ExceptionVerb Key = "EXCEPTION_VERB"
	ExceptionAdj  Key = "EXCEPTION_ADJ"
	ExceptionAdv  Key = "EXCEPTION_ADV"

	Sense  Key = "SENSE"
	Senses Key = "SENSES"
)

// DataType selects which parser a content type's lines are run through.
type DataType int

const (
	DataTypeSynset DataType = iota
	DataTypeIndex
	DataTypeException
	DataTypeSenseIndex
)

// ContentType bundles everything a data source needs to read one file:
// which parser applies (DataType), how lines sort (Comparator), which
// character set decodes them (Charset, "" meaning UTF-8), and which part
// of speech it belongs to (zero value for the POS-less sense-index keys).
type ContentType struct {
	Key        Key
	DataType   DataType
	POS        jwik.POS
	Comparator compare.Comparator
	Charset    string
}

var dataTypeHints = map[DataType][]string{
	DataTypeSynset:     {"data", ".dat"},
	DataTypeIndex:      {"index", ".idx"},
	DataTypeException:  {".exc"},
	DataTypeSenseIndex: {"index.sense", "sense.index"},
}

// FilenameHints returns the substrings the file provider looks for when
// matching this content type's data type to a candidate filename
// (spec.md §4.5).
func (c ContentType) FilenameHints() []string {
	return dataTypeHints[c.DataType]
}

// Registry is the mutable content-type table. Mutation (comparator,
// charset, or matcher overrides) is rejected once the registry is marked
// open by its owning provider (spec.md §4.3, §7 ObjectOpenError).
type Registry struct {
	mu       sync.Mutex
	open     bool
	types    map[Key]*ContentType
	matchers map[Key]*regexp.Regexp
	aliases  map[Key]Key
}

// NewRegistry builds the default 14-entry content-type table: four
// index files, four data files, four exception files, and the two
// sense-index parse modes (single match vs. prefix-sharing array).
func NewRegistry() *Registry {
	r := &Registry{
		types:    map[Key]*ContentType{},
		matchers: map[Key]*regexp.Regexp{},
		aliases:  map[Key]Key{},
	}
	add := func(key Key, dt DataType, pos jwik.POS, cmp compare.Comparator) {
		r.types[key] = &ContentType{Key: key, DataType: dt, POS: pos, Comparator: cmp}
	}
	add(IndexNoun, DataTypeIndex, jwik.NOUN, compare.IndexComparator{})
	add(IndexVerb, DataTypeIndex, jwik.VERB, compare.IndexComparator{})
	add(IndexAdj, DataTypeIndex, jwik.ADJECTIVE, compare.IndexComparator{})
	add(IndexAdv, DataTypeIndex, jwik.ADVERB, compare.IndexComparator{})

	add(DataNoun, DataTypeSynset, jwik.NOUN, compare.DataComparator{})
	add(DataVerb, DataTypeSynset, jwik.VERB, compare.DataComparator{})
	add(DataAdj, DataTypeSynset, jwik.ADJECTIVE, compare.DataComparator{})
	add(DataAdv, DataTypeSynset, jwik.ADVERB, compare.DataComparator{})

	add(ExceptionNoun, DataTypeException, jwik.NOUN, compare.ExceptionComparator{})
	add(ExceptionVerb, DataTypeException, jwik.VERB, compare.ExceptionComparator{})
	add(ExceptionAdj, DataTypeException, jwik.ADJECTIVE, compare.ExceptionComparator{})
	add(ExceptionAdv, DataTypeException, jwik.ADVERB, compare.ExceptionComparator{})

	add(Sense, DataTypeSenseIndex, 0, compare.SenseKeyComparator{})
	add(Senses, DataTypeSenseIndex, 0, compare.SenseKeyComparator{})
	return r
}

func posKey(prefix string, pos jwik.POS) (Key, error) {
	switch pos {
	case jwik.NOUN:
		return Key(prefix + "_NOUN"), nil
	case jwik.VERB:
		return Key(prefix + "_VERB"), nil
	case jwik.ADJECTIVE:
		return Key(prefix + "_ADJ"), nil
	case jwik.ADVERB:
		return Key(prefix + "_ADV"), nil
	}
	return "", &jwik.InvalidArgumentError{Argument: "pos", Reason: "unknown"}
}

// GetIndex, GetData, and GetException select the named content type by
// part of speech (spec.md §4.3).
func (r *Registry) GetIndex(pos jwik.POS) (*ContentType, error) { return r.getByPOS("INDEX", pos) }
func (r *Registry) GetData(pos jwik.POS) (*ContentType, error)  { return r.getByPOS("DATA", pos) }
func (r *Registry) GetException(pos jwik.POS) (*ContentType, error) {
	return r.getByPOS("EXCEPTION", pos)
}

func (r *Registry) getByPOS(prefix string, pos jwik.POS) (*ContentType, error) {
	key, err := posKey(prefix, pos)
	if err != nil {
		return nil, err
	}
	return r.Get(key)
}

// Get returns the content type registered under key.
func (r *Registry) Get(key Key) (*ContentType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.aliases[key]; ok {
		key = a
	}
	ct, ok := r.types[key]
	if !ok {
		return nil, &jwik.InvalidArgumentError{Argument: "content type key", Reason: string(key)}
	}
	return ct, nil
}

// All returns every registered content type, for provider discovery.
func (r *Registry) All() []*ContentType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ContentType, 0, len(r.types))
	for _, ct := range r.types {
		out = append(out, ct)
	}
	return out
}

// Alias registers word, e.g. a WORD_NOUN key, as a synonym for an
// existing content type (spec.md §4.3's "optionally WORD_{...} aliases").
func (r *Registry) Alias(word, existing Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open {
		return jwik.ErrObjectOpen
	}
	if _, ok := r.types[existing]; !ok {
		return &jwik.InvalidArgumentError{Argument: "content type key", Reason: string(existing)}
	}
	r.aliases[word] = existing
	return nil
}

// SetComparator overrides the comparator for one content type. Rejected
// once the registry is open.
func (r *Registry) SetComparator(key Key, cmp compare.Comparator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open {
		return jwik.ErrObjectOpen
	}
	ct, ok := r.types[key]
	if !ok {
		return &jwik.InvalidArgumentError{Argument: "content type key", Reason: string(key)}
	}
	ct.Comparator = cmp
	return nil
}

// SetCharset overrides the character set for one content type. Rejected
// once the registry is open.
func (r *Registry) SetCharset(key Key, charset string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open {
		return jwik.ErrObjectOpen
	}
	ct, ok := r.types[key]
	if !ok {
		return &jwik.InvalidArgumentError{Argument: "content type key", Reason: string(key)}
	}
	ct.Charset = charset
	return nil
}

// SetMatcher registers a filename regex override for key, honoured by the
// file provider before it falls back to filename hints (spec.md §4.3,
// §4.5). Rejected once the registry is open.
func (r *Registry) SetMatcher(key Key, re *regexp.Regexp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open {
		return jwik.ErrObjectOpen
	}
	if _, ok := r.types[key]; !ok {
		return &jwik.InvalidArgumentError{Argument: "content type key", Reason: string(key)}
	}
	r.matchers[key] = re
	return nil
}

// Matcher returns the registered filename-regex override for key, if any.
func (r *Registry) Matcher(key Key) (*regexp.Regexp, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	re, ok := r.matchers[key]
	return re, ok
}

// MarkOpen and MarkClosed toggle the mutation guard; the file provider
// calls these around its own lifecycle.
func (r *Registry) MarkOpen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open = true
}

func (r *Registry) MarkClosed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open = false
}
