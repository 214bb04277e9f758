// Package dict implements the dictionary facade (spec.md §4.6): the
// user-visible query surface that orchestrates the content-type registry,
// file provider, and line parsers to answer semantic queries like
// getSynset and getWord.
package dict

import (
	"context"
	"fmt"
	"strings"
	"sync"

	jwik "github.com/1313ou/jwik-go"
	"github.com/1313ou/jwik-go/compare"
	"github.com/1313ou/jwik-go/contenttype"
	"github.com/1313ou/jwik-go/parse"
	"github.com/1313ou/jwik-go/provider"
	"github.com/1313ou/jwik-go/source"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type lifecycleState int

const (
	stateClosed lifecycleState = iota
	stateOpening
	stateOpen
	stateClosing
)

// ResolvedWord bundles a WordID with the synset and per-word record it
// resolves to, the shape getWord's two overloads (by id, by sense key)
// both return (spec.md §4.6).
type ResolvedWord struct {
	ID     jwik.WordID
	Synset jwik.Synset
	Word   jwik.Word
}

// Options configures a Dictionary prior to Open (spec.md §6).
type Options struct {
	SourcePath      string
	LoadPolicy      provider.LoadPolicy
	Charset         string
	CheckLexicalID  bool
	Logger          *zap.Logger
	ComparatorOverr map[contenttype.Key]compare.Comparator
}

// Reader is the read surface a plain Dictionary and a cache.Cache both
// satisfy, so callers (including the stemmer) can depend on either.
type Reader interface {
	GetIndexWord(lemma string, pos jwik.POS) (*jwik.IndexWord, error)
	GetIndexWordByID(id jwik.IndexWordID) (*jwik.IndexWord, error)
	GetSynset(id jwik.SynsetID) (*jwik.Synset, error)
	GetWord(id jwik.WordID) (*ResolvedWord, error)
	GetWordBySenseKey(key jwik.SenseKey) (*ResolvedWord, error)
	GetSenseEntry(key jwik.SenseKey) (*jwik.SenseEntry, error)
	GetExceptionEntry(surface string, pos jwik.POS) (*jwik.ExceptionEntry, error)
	GetExceptionEntryByID(id jwik.ExceptionID) (*jwik.ExceptionEntry, error)
	GetWords(prefix string, pos jwik.POS, limit int) ([]string, error)
	Version() (source.Version, bool)
	SenseKeyFor(synset jwik.Synset, w jwik.Word) (jwik.SenseKey, error)
}

// Dictionary is the facade over one opened WordNet distribution
// (spec.md §4.6). Its own lifecycle (open/load/close) is serialized by a
// lifecycle lock, per spec.md §5; reads from an open Dictionary may be
// called concurrently from any number of goroutines.
type Dictionary struct {
	lifecycleMu sync.Mutex
	state       lifecycleState

	registry *contenttype.Registry
	prov     *provider.Provider
	opts     Options
	sf       singleflight.Group
	logger   *zap.Logger
}

// New builds a Dictionary over opts.SourcePath. It does not touch the
// filesystem until Open is called.
func New(opts Options) *Dictionary {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	registry := contenttype.NewRegistry()
	if opts.Charset != "" {
		for _, ct := range registry.All() {
			_ = registry.SetCharset(ct.Key, opts.Charset)
		}
	}
	for key, cmp := range opts.ComparatorOverr {
		_ = registry.SetComparator(key, cmp)
	}
	prov := provider.New(opts.SourcePath, registry)
	_ = prov.SetLoadPolicy(opts.LoadPolicy)
	prov.SetLogger(opts.Logger)
	return &Dictionary{registry: registry, prov: prov, opts: opts, logger: opts.Logger}
}

// Open transitions CLOSED -> OPENING -> OPEN (spec.md §5).
func (d *Dictionary) Open(ctx context.Context) error {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()
	if d.state != stateClosed {
		return jwik.ErrObjectOpen
	}
	d.state = stateOpening
	if err := d.prov.Open(ctx); err != nil {
		d.state = stateClosed
		return err
	}
	d.state = stateOpen
	return nil
}

// Close transitions OPEN -> CLOSING -> CLOSED. Idempotent.
func (d *Dictionary) Close() error {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()
	if d.state == stateClosed {
		return nil
	}
	d.state = stateClosing
	err := d.prov.Close()
	d.state = stateClosed
	return err
}

// Provider exposes the facade's underlying file provider, for components
// (the RAM snapshot builder) that need to enumerate every source file's
// full contents rather than look up one key at a time.
func (d *Dictionary) Provider() *provider.Provider { return d.prov }

// Registry exposes the facade's content-type table, paired with Provider
// for the same reason.
func (d *Dictionary) Registry() *contenttype.Registry { return d.registry }

func (d *Dictionary) requireOpen() error {
	d.lifecycleMu.Lock()
	state := d.state
	d.lifecycleMu.Unlock()
	if state != stateOpen {
		return jwik.ErrObjectClosed
	}
	return nil
}

// Version reports the dictionary's version, if every source agrees.
func (d *Dictionary) Version() (source.Version, bool) {
	if d.requireOpen() != nil {
		return source.Version{}, false
	}
	return d.prov.Version()
}

func offsetKey(offset uint32) string { return fmt.Sprintf("%08d", offset) }

// GetSynset resolves id to its Synset, or nil if absent (spec.md §4.6).
func (d *Dictionary) GetSynset(id jwik.SynsetID) (*jwik.Synset, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}
	ct, err := d.registry.GetData(id.POS)
	if err != nil {
		return nil, err
	}
	ds, ok := d.prov.Get(ct.Key)
	if !ok {
		return nil, nil
	}
	sfKey := "synset:" + string(ct.Key) + ":" + offsetKey(id.Offset)
	v, err, _ := d.sf.Do(sfKey, func() (interface{}, error) {
		line, found, err := ds.Lookup(offsetKey(id.Offset))
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		syn, err := parse.ParseDataLine(line)
		if err != nil {
			return nil, err
		}
		return &syn, nil
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.(*jwik.Synset), nil
}

// GetIndexWord resolves (lemma, pos) to its IndexWord, or nil if absent.
func (d *Dictionary) GetIndexWord(lemma string, pos jwik.POS) (*jwik.IndexWord, error) {
	id, err := jwik.NewIndexWordID(lemma, pos)
	if err != nil {
		return nil, err
	}
	return d.GetIndexWordByID(id)
}

func (d *Dictionary) GetIndexWordByID(id jwik.IndexWordID) (*jwik.IndexWord, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}
	ct, err := d.registry.GetIndex(id.POS)
	if err != nil {
		return nil, err
	}
	ds, ok := d.prov.Get(ct.Key)
	if !ok {
		return nil, nil
	}
	line, found, err := ds.Lookup(id.Lemma)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	iw, err := parse.ParseIndexLine(line)
	if err != nil {
		return nil, err
	}
	return &iw, nil
}

// GetWord resolves a WordID to its ResolvedWord. Either the word number
// or the lemma inside id must be present (spec.md §4.6).
func (d *Dictionary) GetWord(id jwik.WordID) (*ResolvedWord, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}
	if !id.HasLemma && id.Number <= 0 {
		return nil, &jwik.InvalidArgumentError{Argument: "word id", Reason: "neither number nor lemma present"}
	}
	synset, err := d.GetSynset(id.Synset)
	if err != nil || synset == nil {
		return nil, err
	}
	for i, w := range synset.Words {
		n := i + 1
		if id.Number > 0 && n != id.Number {
			continue
		}
		if id.HasLemma && !strings.EqualFold(w.Lemma, id.Lemma) {
			continue
		}
		wid, _ := jwik.NewWordID(synset.ID, n, w.Lemma)
		return &ResolvedWord{ID: wid, Synset: *synset, Word: w}, nil
	}
	return nil, nil
}

// GetWordBySenseKey resolves a SenseKey to its ResolvedWord by consulting
// the sense-index file for the synset offset, reading that synset, and
// selecting the member whose lexical id matches (spec.md §4.6).
func (d *Dictionary) GetWordBySenseKey(key jwik.SenseKey) (*ResolvedWord, error) {
	entry, err := d.GetSenseEntry(key)
	if err != nil || entry == nil {
		return nil, err
	}
	synsetID, err := jwik.NewSynsetID(entry.SynsetOffset, key.POS)
	if err != nil {
		return nil, err
	}
	synset, err := d.GetSynset(synsetID)
	if err != nil || synset == nil {
		return nil, err
	}
	for i, w := range synset.Words {
		if w.LexID == key.LexID && strings.EqualFold(w.Lemma, key.Lemma) {
			wid, _ := jwik.NewWordID(synset.ID, i+1, w.Lemma)
			return &ResolvedWord{ID: wid, Synset: *synset, Word: w}, nil
		}
	}
	return nil, nil
}

// GetSenseEntry resolves a SenseKey to its SenseEntry via the sense-index
// file (the single-match "Sense" content type, spec.md §4.1).
func (d *Dictionary) GetSenseEntry(key jwik.SenseKey) (*jwik.SenseEntry, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}
	ct, err := d.registry.Get(contenttype.Sense)
	if err != nil {
		return nil, err
	}
	ds, ok := d.prov.Get(ct.Key)
	if !ok {
		return nil, nil
	}
	line, found, err := ds.Lookup(key.String())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	entry, err := parse.ParseSenseIndexLine(line)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetExceptionEntry resolves (surface, pos) to its ExceptionEntry.
func (d *Dictionary) GetExceptionEntry(surface string, pos jwik.POS) (*jwik.ExceptionEntry, error) {
	id, err := jwik.NewExceptionID(surface, pos)
	if err != nil {
		return nil, err
	}
	return d.GetExceptionEntryByID(id)
}

func (d *Dictionary) GetExceptionEntryByID(id jwik.ExceptionID) (*jwik.ExceptionEntry, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}
	ct, err := d.registry.GetException(id.POS)
	if err != nil {
		return nil, err
	}
	ds, ok := d.prov.Get(ct.Key)
	if !ok {
		return nil, nil
	}
	line, found, err := ds.Lookup(id.Surface)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	proxy, err := parse.ParseExceptionLine(line)
	if err != nil {
		return nil, err
	}
	entry, err := jwik.NewExceptionEntry(proxy, id.POS)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetWords iterates the index file(s) starting at prefix, collecting up
// to limit lemmas whose leading field starts with prefix (spec.md §4.6).
// pos == 0 searches all four parts of speech.
func (d *Dictionary) GetWords(prefix string, pos jwik.POS, limit int) ([]string, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, &jwik.InvalidArgumentError{Argument: "prefix", Reason: "empty"}
	}
	poses := []jwik.POS{pos}
	if pos == 0 {
		poses = jwik.AllPOS()
	}
	var out []string
	for _, p := range poses {
		ct, err := d.registry.GetIndex(p)
		if err != nil {
			return nil, err
		}
		ds, ok := d.prov.Get(ct.Key)
		if !ok {
			continue
		}
		bs, ok := ds.(*source.BinarySearchSource)
		if !ok {
			continue
		}
		it, found := bs.IteratePrefix(prefix)
		if !found {
			continue
		}
		for it.HasNext() && len(out) < limit {
			line, err := it.Next()
			if err != nil {
				return out, err
			}
			lemma := firstField(line)
			if !strings.HasPrefix(strings.ToLower(lemma), prefix) {
				break
			}
			out = append(out, lemma)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func firstField(line string) string {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line
	}
	return line[:i]
}

// resolveSatelliteHead follows a satellite synset's SIMILAR_TO (or, failing
// that, ANTONYM) pointer to its cluster head and returns the head's first
// word's lemma and lexical id (spec.md §4.6's lazy head-resolution
// strategy).
func (d *Dictionary) resolveSatelliteHead(synset jwik.Synset) (string, int, error) {
	targets := synset.Semantic[jwik.PtrSimilarTo]
	if len(targets) == 0 {
		targets = synset.Semantic[jwik.PtrAntonym]
	}
	if len(targets) == 0 {
		return "", 0, &jwik.InvalidArgumentError{Argument: "satellite synset", Reason: "no similar_to/antonym link to a head"}
	}
	head, err := d.GetSynset(targets[0])
	if err != nil {
		return "", 0, err
	}
	if head == nil || len(head.Words) == 0 {
		return "", 0, &jwik.InvalidArgumentError{Argument: "satellite synset", Reason: "head synset unresolvable"}
	}
	return head.Words[0].Lemma, head.Words[0].LexID, nil
}

// SenseKeyFor builds the fully-resolved SenseKey for one member of
// synset, following satellite head resolution lazily if needed
// (spec.md §4.6 strategy 1; invariant 7).
func (d *Dictionary) SenseKeyFor(synset jwik.Synset, w jwik.Word) (jwik.SenseKey, error) {
	key, err := jwik.NewSenseKey(w.Lemma, synset.ID.POS, synset.LexFile.Number, w.LexID, synset.Satellite)
	if err != nil {
		return key, err
	}
	if synset.Satellite {
		lemma, lexID, err := d.resolveSatelliteHead(synset)
		if err != nil {
			return key, err
		}
		if err := key.SetHead(lemma, lexID); err != nil {
			return key, err
		}
	}
	return key, nil
}

var _ Reader = (*Dictionary)(nil)
