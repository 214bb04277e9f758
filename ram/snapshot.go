// Package ram implements the in-memory dictionary snapshot (spec.md
// §4.8): every collection of a backing dictionary loaded into four
// POS-keyed maps plus two flat maps, compacted for cheap equality and
// exported as one gzip-compressed stream for fast warm start.
package ram

import (
	"compress/gzip"
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	jwik "github.com/1313ou/jwik-go"
	"github.com/1313ou/jwik-go/contenttype"
	"github.com/1313ou/jwik-go/dict"
	"github.com/1313ou/jwik-go/parse"
	"github.com/1313ou/jwik-go/provider"
	"github.com/1313ou/jwik-go/source"
)

// Snapshot is a fully-materialized, read-only copy of one dictionary's
// contents. It satisfies dict.Reader, so it can be substituted for the
// backing facade directly once loading completes.
type Snapshot struct {
	mu sync.RWMutex

	synsets    map[jwik.POS]map[jwik.SynsetID]*jwik.Synset
	indexWords map[jwik.POS]map[jwik.IndexWordID]*jwik.IndexWord
	exceptions map[jwik.POS]map[jwik.ExceptionID]*jwik.ExceptionEntry

	wordsByKey  map[jwik.SenseKey]*dict.ResolvedWord
	sensesByKey map[jwik.SenseKey]*jwik.SenseEntry

	// resolvedHeads caches satellite head lookups computed eagerly during
	// Build, keyed by the satellite's not-yet-headed sense key.
	resolvedHeads map[jwik.SenseKey]resolvedHead

	version    source.Version
	hasVersion bool

	generation uuid.UUID
}

type resolvedHead struct {
	lemma string
	lexID int
}

func empty() *Snapshot {
	s := &Snapshot{
		synsets:     map[jwik.POS]map[jwik.SynsetID]*jwik.Synset{},
		indexWords:  map[jwik.POS]map[jwik.IndexWordID]*jwik.IndexWord{},
		exceptions:  map[jwik.POS]map[jwik.ExceptionID]*jwik.ExceptionEntry{},
		wordsByKey:  map[jwik.SenseKey]*dict.ResolvedWord{},
		sensesByKey: map[jwik.SenseKey]*jwik.SenseEntry{},
	}
	for _, p := range jwik.AllPOS() {
		s.synsets[p] = map[jwik.SynsetID]*jwik.Synset{}
		s.indexWords[p] = map[jwik.IndexWordID]*jwik.IndexWord{}
		s.exceptions[p] = map[jwik.ExceptionID]*jwik.ExceptionEntry{}
	}
	return s
}

// keyResolver is the subset of dict.Dictionary needed to build a
// snapshot: per-POS head resolution for adjective satellites. Requiring
// only this interface (rather than the full facade) keeps Build
// testable against a bare in-memory Dictionary.
type keyResolver interface {
	SenseKeyFor(synset jwik.Synset, w jwik.Word) (jwik.SenseKey, error)
}

// Build walks every content type registered in registry, reads each
// backing source in full, and assembles a compacted Snapshot. resolver
// supplies satellite head resolution (spec.md §4.6); pass the same
// *dict.Dictionary the provider came from.
func Build(ctx context.Context, prov *provider.Provider, registry *contenttype.Registry, resolver keyResolver) (*Snapshot, error) {
	s := empty()

	for _, pos := range jwik.AllPOS() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.loadSynsets(prov, registry, pos); err != nil {
			return nil, err
		}
		if err := s.loadIndexWords(prov, registry, pos); err != nil {
			return nil, err
		}
		if err := s.loadExceptions(prov, registry, pos); err != nil {
			return nil, err
		}
	}
	if err := s.loadSenses(prov, registry, resolver); err != nil {
		return nil, err
	}
	if v, ok := firstVersion(prov, registry); ok {
		s.version, s.hasVersion = v, true
	}
	s.compact()
	return s, nil
}

func firstVersion(prov *provider.Provider, registry *contenttype.Registry) (source.Version, bool) {
	for _, ct := range registry.All() {
		if ds, ok := prov.Get(ct.Key); ok {
			if v, ok := ds.Version(); ok {
				return v, true
			}
		}
	}
	return source.Version{}, false
}

func (s *Snapshot) loadSynsets(prov *provider.Provider, registry *contenttype.Registry, pos jwik.POS) error {
	ct, err := registry.GetData(pos)
	if err != nil {
		return err
	}
	ds, ok := prov.Get(ct.Key)
	if !ok {
		return nil
	}
	it, err := ds.IterateAll()
	if err != nil {
		return err
	}
	for it.HasNext() {
		line, err := it.Next()
		if err != nil {
			return err
		}
		syn, err := parse.ParseDataLine(line)
		if err != nil {
			return err
		}
		s.synsets[pos][syn.ID] = &syn
	}
	return it.Err()
}

func (s *Snapshot) loadIndexWords(prov *provider.Provider, registry *contenttype.Registry, pos jwik.POS) error {
	ct, err := registry.GetIndex(pos)
	if err != nil {
		return err
	}
	ds, ok := prov.Get(ct.Key)
	if !ok {
		return nil
	}
	it, err := ds.IterateAll()
	if err != nil {
		return err
	}
	for it.HasNext() {
		line, err := it.Next()
		if err != nil {
			return err
		}
		iw, err := parse.ParseIndexLine(line)
		if err != nil {
			return err
		}
		s.indexWords[pos][iw.ID] = &iw
	}
	return it.Err()
}

func (s *Snapshot) loadExceptions(prov *provider.Provider, registry *contenttype.Registry, pos jwik.POS) error {
	ct, err := registry.GetException(pos)
	if err != nil {
		return err
	}
	ds, ok := prov.Get(ct.Key)
	if !ok {
		return nil // not every distribution carries every POS's exception file
	}
	it, err := ds.IterateAll()
	if err != nil {
		return err
	}
	for it.HasNext() {
		line, err := it.Next()
		if err != nil {
			return err
		}
		proxy, err := parse.ParseExceptionLine(line)
		if err != nil {
			return err
		}
		entry, err := jwik.NewExceptionEntry(proxy, pos)
		if err != nil {
			return err
		}
		s.exceptions[pos][entry.ID] = &entry
	}
	return it.Err()
}

func (s *Snapshot) loadSenses(prov *provider.Provider, registry *contenttype.Registry, resolver keyResolver) error {
	ct, err := registry.Get(contenttype.Sense)
	if err != nil {
		return err
	}
	ds, ok := prov.Get(ct.Key)
	if !ok {
		return nil
	}
	it, err := ds.IterateAll()
	if err != nil {
		return err
	}
	for it.HasNext() {
		line, err := it.Next()
		if err != nil {
			return err
		}
		entry, err := parse.ParseSenseIndexLine(line)
		if err != nil {
			return err
		}
		s.sensesByKey[entry.SenseKey] = &entry

		synID, err := jwik.NewSynsetID(entry.SynsetOffset, entry.SenseKey.POS)
		if err != nil {
			return err
		}
		synset, ok := s.synsets[entry.SenseKey.POS][synID]
		if !ok {
			continue // synset file and sense-index file disagree; skip rather than fail the whole load
		}
		for i, w := range synset.Words {
			if w.LexID != entry.SenseKey.LexID || !strings.EqualFold(w.Lemma, entry.SenseKey.Lemma) {
				continue
			}
			wid, _ := jwik.NewWordID(synset.ID, i+1, w.Lemma)
			s.wordsByKey[entry.SenseKey] = &dict.ResolvedWord{ID: wid, Synset: *synset, Word: w}
			break
		}
	}
	if err := it.Err(); err != nil {
		return err
	}

	if resolver == nil {
		return nil
	}
	// Eager head resolution (spec.md §4.6 strategy 2): every satellite
	// synset's member words get their sense-key head resolved up front,
	// since the whole dictionary is already in memory and SenseKeyFor
	// (unlike the lazy facade path) can't block on a later lookup.
	s.resolvedHeads = map[jwik.SenseKey]resolvedHead{}
	for _, bucket := range s.synsets {
		for _, syn := range bucket {
			if !syn.Satellite {
				continue
			}
			for _, w := range syn.Words {
				bare, err := jwik.NewSenseKey(w.Lemma, syn.ID.POS, syn.LexFile.Number, w.LexID, true)
				if err != nil {
					continue
				}
				headed, err := resolver.SenseKeyFor(*syn, w)
				if err != nil {
					continue // a dangling similar_to link shouldn't fail the whole snapshot
				}
				if lemma, lexID, ok := headed.Head(); ok {
					s.resolvedHeads[bare] = resolvedHead{lemma: lemma, lexID: lexID}
				}
			}
		}
	}
	return nil
}

// compact resizes every POS-keyed map to its exact occupancy (Go maps never shrink
// their bucket array automatically) and interns repeated strings, so two
// records built from the same line share one backing string rather than
// each holding their own copy (spec.md §4.8 step 1-2).
func (s *Snapshot) compact() {
	pool := map[string]string{}
	intern := func(str string) string {
		if v, ok := pool[str]; ok {
			return v
		}
		pool[str] = str
		return str
	}
	for _, bucket := range s.synsets {
		for _, syn := range bucket {
			syn.Gloss = intern(syn.Gloss)
			for i := range syn.Words {
				syn.Words[i].Lemma = intern(syn.Words[i].Lemma)
			}
		}
	}
	for _, bucket := range s.indexWords {
		for _, iw := range bucket {
			iw.ID.Lemma = intern(iw.ID.Lemma)
		}
	}
	// Reallocating each map to its current length frees any slack the
	// original grow-on-insert capacity left behind.
	for pos, bucket := range s.synsets {
		resized := make(map[jwik.SynsetID]*jwik.Synset, len(bucket))
		for k, v := range bucket {
			resized[k] = v
		}
		s.synsets[pos] = resized
	}
	for pos, bucket := range s.indexWords {
		resized := make(map[jwik.IndexWordID]*jwik.IndexWord, len(bucket))
		for k, v := range bucket {
			resized[k] = v
		}
		s.indexWords[pos] = resized
	}
	for pos, bucket := range s.exceptions {
		resized := make(map[jwik.ExceptionID]*jwik.ExceptionEntry, len(bucket))
		for k, v := range bucket {
			resized[k] = v
		}
		s.exceptions[pos] = resized
	}
}

// --- dict.Reader ---

func (s *Snapshot) GetSynset(id jwik.SynsetID) (*jwik.Synset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.synsets[id.POS]
	if !ok {
		return nil, nil
	}
	return bucket[id], nil
}

// SenseKeyFor builds the fully-resolved SenseKey for one member of
// synset, using the head resolved eagerly at snapshot build time rather
// than following the similar_to pointer on demand (spec.md §4.6
// strategy 2, the snapshot's counterpart to dict.Dictionary.SenseKeyFor).
func (s *Snapshot) SenseKeyFor(synset jwik.Synset, w jwik.Word) (jwik.SenseKey, error) {
	key, err := jwik.NewSenseKey(w.Lemma, synset.ID.POS, synset.LexFile.Number, w.LexID, synset.Satellite)
	if err != nil {
		return key, err
	}
	if !synset.Satellite {
		return key, nil
	}
	s.mu.RLock()
	head, ok := s.resolvedHeads[key]
	s.mu.RUnlock()
	if !ok {
		return key, &jwik.InvalidArgumentError{Argument: "satellite synset", Reason: "head not resolved in snapshot"}
	}
	if err := key.SetHead(head.lemma, head.lexID); err != nil {
		return key, err
	}
	return key, nil
}

func (s *Snapshot) GetIndexWord(lemma string, pos jwik.POS) (*jwik.IndexWord, error) {
	id, err := jwik.NewIndexWordID(lemma, pos)
	if err != nil {
		return nil, err
	}
	return s.GetIndexWordByID(id)
}

func (s *Snapshot) GetIndexWordByID(id jwik.IndexWordID) (*jwik.IndexWord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.indexWords[id.POS]
	if !ok {
		return nil, nil
	}
	return bucket[id], nil
}

func (s *Snapshot) GetWord(id jwik.WordID) (*dict.ResolvedWord, error) {
	syn, err := s.GetSynset(id.Synset)
	if err != nil || syn == nil {
		return nil, err
	}
	for i, w := range syn.Words {
		n := i + 1
		if id.Number > 0 && n != id.Number {
			continue
		}
		if id.HasLemma && !strings.EqualFold(w.Lemma, id.Lemma) {
			continue
		}
		wid, _ := jwik.NewWordID(syn.ID, n, w.Lemma)
		return &dict.ResolvedWord{ID: wid, Synset: *syn, Word: w}, nil
	}
	return nil, nil
}

func (s *Snapshot) GetWordBySenseKey(key jwik.SenseKey) (*dict.ResolvedWord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wordsByKey[key], nil
}

func (s *Snapshot) GetSenseEntry(key jwik.SenseKey) (*jwik.SenseEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sensesByKey[key], nil
}

func (s *Snapshot) GetExceptionEntry(surface string, pos jwik.POS) (*jwik.ExceptionEntry, error) {
	id, err := jwik.NewExceptionID(surface, pos)
	if err != nil {
		return nil, err
	}
	return s.GetExceptionEntryByID(id)
}

func (s *Snapshot) GetExceptionEntryByID(id jwik.ExceptionID) (*jwik.ExceptionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.exceptions[id.POS]
	if !ok {
		return nil, nil
	}
	return bucket[id], nil
}

func (s *Snapshot) GetWords(prefix string, pos jwik.POS, limit int) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, &jwik.InvalidArgumentError{Argument: "prefix", Reason: "empty"}
	}
	poses := []jwik.POS{pos}
	if pos == 0 {
		poses = jwik.AllPOS()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []string
	for _, p := range poses {
		for id := range s.indexWords[p] {
			if strings.HasPrefix(id.Lemma, prefix) {
				matches = append(matches, id.Lemma)
			}
		}
	}
	sortStrings(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}

func (s *Snapshot) Version() (source.Version, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version, s.hasVersion
}

var _ dict.Reader = (*Snapshot)(nil)

// --- export / import ---

type envelope struct {
	Generation  uuid.UUID
	Version     source.Version
	HasVersion  bool
	Synsets     map[jwik.POS][]jwik.Synset
	IndexWords  map[jwik.POS][]jwik.IndexWord
	Exceptions  map[jwik.POS][]jwik.ExceptionEntry
	WordsByKey  []dict.ResolvedWord
	SensesByKey []jwik.SenseEntry
}

// Export serializes the snapshot as a single gzip-compressed gob stream,
// stamped with a fresh generation id so two exports can be told apart
// without hashing their contents (spec.md §4.8).
func (s *Snapshot) Export(w io.Writer) (uuid.UUID, error) {
	s.mu.RLock()
	env := envelope{
		Generation: uuid.New(),
		Version:    s.version,
		HasVersion: s.hasVersion,
		Synsets:    map[jwik.POS][]jwik.Synset{},
		IndexWords: map[jwik.POS][]jwik.IndexWord{},
		Exceptions: map[jwik.POS][]jwik.ExceptionEntry{},
	}
	for pos, bucket := range s.synsets {
		for _, syn := range bucket {
			env.Synsets[pos] = append(env.Synsets[pos], *syn)
		}
	}
	for pos, bucket := range s.indexWords {
		for _, iw := range bucket {
			env.IndexWords[pos] = append(env.IndexWords[pos], *iw)
		}
	}
	for pos, bucket := range s.exceptions {
		for _, e := range bucket {
			env.Exceptions[pos] = append(env.Exceptions[pos], *e)
		}
	}
	for _, w := range s.wordsByKey {
		env.WordsByKey = append(env.WordsByKey, *w)
	}
	for _, e := range s.sensesByKey {
		env.SensesByKey = append(env.SensesByKey, *e)
	}
	s.mu.RUnlock()

	gz := gzip.NewWriter(w)
	if err := gob.NewEncoder(gz).Encode(env); err != nil {
		gz.Close()
		return uuid.Nil, fmt.Errorf("ram: encode snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return uuid.Nil, fmt.Errorf("ram: flush snapshot stream: %w", err)
	}
	return env.Generation, nil
}

// Import deserializes a stream written by Export. No validation beyond
// structural deserialization is performed (spec.md §4.8).
func Import(r io.Reader) (*Snapshot, uuid.UUID, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("ram: open snapshot stream: %w", err)
	}
	defer gz.Close()
	var env envelope
	if err := gob.NewDecoder(gz).Decode(&env); err != nil {
		return nil, uuid.Nil, fmt.Errorf("ram: decode snapshot: %w", err)
	}
	s := empty()
	s.generation = env.Generation
	s.version, s.hasVersion = env.Version, env.HasVersion
	for pos, list := range env.Synsets {
		for i := range list {
			syn := list[i]
			s.synsets[pos][syn.ID] = &syn
		}
	}
	for pos, list := range env.IndexWords {
		for i := range list {
			iw := list[i]
			s.indexWords[pos][iw.ID] = &iw
		}
	}
	for pos, list := range env.Exceptions {
		for i := range list {
			e := list[i]
			s.exceptions[pos][e.ID] = &e
		}
	}
	for i := range env.WordsByKey {
		w := env.WordsByKey[i]
		key, err := dictKeyOf(w)
		if err != nil {
			continue
		}
		s.wordsByKey[key] = &w
	}
	for i := range env.SensesByKey {
		e := env.SensesByKey[i]
		s.sensesByKey[e.SenseKey] = &e
	}
	s.compact()
	return s, env.Generation, nil
}

func dictKeyOf(w dict.ResolvedWord) (jwik.SenseKey, error) {
	return jwik.NewSenseKey(w.Word.Lemma, w.Synset.ID.POS, w.Synset.LexFile.Number, w.Word.LexID, w.Synset.Satellite)
}

// Generation reports the generation id of the stream this snapshot was
// imported from, or the zero UUID if it was built fresh. Export returns
// its new id without recording it here.
func (s *Snapshot) Generation() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// --- snapshot-side sequences, for HotSwapIterator's swap target ---

type sliceSeq[T any] struct {
	items []T
	pos   int
}

func (s *sliceSeq[T]) HasNext() bool { return s.pos < len(s.items) }

func (s *sliceSeq[T]) Next() (T, error) {
	v := s.items[s.pos]
	s.pos++
	return v, nil
}

// SynsetSequence returns a snapshot-backed sequence over every synset of
// pos, for a HotSwapIterator to swap into once this snapshot is ready.
func (s *Snapshot) SynsetSequence(pos jwik.POS) sequence[jwik.Synset] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]jwik.Synset, 0, len(s.synsets[pos]))
	for _, syn := range s.synsets[pos] {
		items = append(items, *syn)
	}
	return &sliceSeq[jwik.Synset]{items: items}
}

// IndexWordSequence returns a snapshot-backed sequence over every index
// word of pos.
func (s *Snapshot) IndexWordSequence(pos jwik.POS) sequence[jwik.IndexWord] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]jwik.IndexWord, 0, len(s.indexWords[pos]))
	for _, iw := range s.indexWords[pos] {
		items = append(items, *iw)
	}
	return &sliceSeq[jwik.IndexWord]{items: items}
}

// ExceptionSequence returns a snapshot-backed sequence over every
// exception entry of pos.
func (s *Snapshot) ExceptionSequence(pos jwik.POS) sequence[jwik.ExceptionEntry] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]jwik.ExceptionEntry, 0, len(s.exceptions[pos]))
	for _, e := range s.exceptions[pos] {
		items = append(items, *e)
	}
	return &sliceSeq[jwik.ExceptionEntry]{items: items}
}

// SenseEntrySequence returns a snapshot-backed sequence over every
// sense-index entry.
func (s *Snapshot) SenseEntrySequence() sequence[jwik.SenseEntry] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]jwik.SenseEntry, 0, len(s.sensesByKey))
	for _, e := range s.sensesByKey {
		items = append(items, *e)
	}
	return &sliceSeq[jwik.SenseEntry]{items: items}
}
