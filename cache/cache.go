// Package cache implements the LRU caching layer in front of a
// dictionary facade (spec.md §4.7): four maps — item-id,
// sense-key-for-words, sense-key-for-sense-entries, and
// prefix-search-request-for-word-arrays — each bounded by the same max_capacity,
// so a hot synset or index word survives without re-parsing its
// source line.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	jwik "github.com/1313ou/jwik-go"
	"github.com/1313ou/jwik-go/dict"
	"github.com/1313ou/jwik-go/source"
)

// DefaultMaxCapacity is the per-map entry ceiling used when Options
// leaves MaxCapacity at its zero value (spec.md §4.7).
const DefaultMaxCapacity = 512

// DefaultInitialCapacity is a per-map starting size. New does not pass
// it to the LRU maps, which size themselves.
const DefaultInitialCapacity = 16

// Options configures a Cache's four LRU maps. MaxCapacity == 0 selects
// DefaultMaxCapacity; a negative MaxCapacity disables caching entirely,
// turning every Cache method into a passthrough to the wrapped Reader
// (spec.md §4.7 "Disabled").
type Options struct {
	MaxCapacity int
}

type wordsKey struct {
	prefix string
	pos    jwik.POS
	limit  int
}

// Cache wraps a dict.Reader, satisfying dict.Reader itself so it can be
// substituted transparently wherever the plain facade is used. It holds
// exactly the four maps spec.md §4.7 specifies, all sharing the same
// max_capacity, so size() never exceeds 4 × max_capacity (spec.md:305):
//
//   - items:       keyed by item-id (SynsetID, IndexWordID, or
//     ExceptionID's String() form — each id kind has its own unique
//     prefix, so one map safely holds all three)
//   - wordsByKey:  keyed by sense-key, holding resolved words
//   - sensesByKey: keyed by sense-key, holding sense-index entries
//   - arrays:      keyed by the prefix-search request shape, holding
//     the resulting array of matching surface forms
type Cache struct {
	inner dict.Reader

	disabled bool

	items       *lru.Cache[string, any]
	wordsByKey  *lru.Cache[jwik.SenseKey, *dict.ResolvedWord]
	sensesByKey *lru.Cache[jwik.SenseKey, *jwik.SenseEntry]
	arrays      *lru.Cache[wordsKey, []string]
}

// New wraps inner with an LRU cache per Options.
func New(inner dict.Reader, opts Options) (*Cache, error) {
	if opts.MaxCapacity < 0 {
		return &Cache{inner: inner, disabled: true}, nil
	}
	cap := opts.MaxCapacity
	if cap == 0 {
		cap = DefaultMaxCapacity
	}
	items, err := lru.New[string, any](cap)
	if err != nil {
		return nil, err
	}
	wordsByKey, err := lru.New[jwik.SenseKey, *dict.ResolvedWord](cap)
	if err != nil {
		return nil, err
	}
	sensesByKey, err := lru.New[jwik.SenseKey, *jwik.SenseEntry](cap)
	if err != nil {
		return nil, err
	}
	arrays, err := lru.New[wordsKey, []string](cap)
	if err != nil {
		return nil, err
	}
	return &Cache{
		inner:       inner,
		items:       items,
		wordsByKey:  wordsByKey,
		sensesByKey: sensesByKey,
		arrays:      arrays,
	}, nil
}

// Purge discards every cached entry without affecting the wrapped
// Reader's own state.
func (c *Cache) Purge() {
	if c.disabled {
		return
	}
	c.items.Purge()
	c.wordsByKey.Purge()
	c.sensesByKey.Purge()
	c.arrays.Purge()
}

func (c *Cache) GetSynset(id jwik.SynsetID) (*jwik.Synset, error) {
	if c.disabled {
		return c.inner.GetSynset(id)
	}
	if v, ok := c.items.Get(id.String()); ok {
		return v.(*jwik.Synset), nil
	}
	v, err := c.inner.GetSynset(id)
	if err != nil || v == nil {
		return v, err
	}
	c.items.Add(id.String(), v)
	c.cascadeWords(v)
	return v, nil
}

// cascadeWords inserts every member word of syn, and every
// word-by-sense-key it resolves to, into wordsByKey (spec.md:196 "a
// synset insert also inserts every member word and every
// word-by-sense-key"). A word whose sense key can't be resolved (e.g. a
// satellite whose head synset isn't reachable) is skipped rather than
// failing the whole synset insert.
func (c *Cache) cascadeWords(syn *jwik.Synset) {
	for i, w := range syn.Words {
		wid, err := jwik.NewWordID(syn.ID, i+1, w.Lemma)
		if err != nil {
			continue
		}
		key, err := c.inner.SenseKeyFor(*syn, w)
		if err != nil {
			continue
		}
		c.wordsByKey.Add(key, &dict.ResolvedWord{ID: wid, Synset: *syn, Word: w})
	}
}

func (c *Cache) GetIndexWord(lemma string, pos jwik.POS) (*jwik.IndexWord, error) {
	id, err := jwik.NewIndexWordID(lemma, pos)
	if err != nil {
		return nil, err
	}
	return c.GetIndexWordByID(id)
}

func (c *Cache) GetIndexWordByID(id jwik.IndexWordID) (*jwik.IndexWord, error) {
	if c.disabled {
		return c.inner.GetIndexWordByID(id)
	}
	if v, ok := c.items.Get(id.String()); ok {
		return v.(*jwik.IndexWord), nil
	}
	v, err := c.inner.GetIndexWordByID(id)
	if err != nil || v == nil {
		return v, err
	}
	c.items.Add(id.String(), v)
	return v, nil
}

func (c *Cache) GetWord(id jwik.WordID) (*dict.ResolvedWord, error) {
	return c.inner.GetWord(id)
}

func (c *Cache) GetWordBySenseKey(key jwik.SenseKey) (*dict.ResolvedWord, error) {
	if c.disabled {
		return c.inner.GetWordBySenseKey(key)
	}
	if v, ok := c.wordsByKey.Get(key); ok {
		return v, nil
	}
	v, err := c.inner.GetWordBySenseKey(key)
	if err != nil || v == nil {
		return v, err
	}
	c.wordsByKey.Add(key, v)
	return v, nil
}

func (c *Cache) GetSenseEntry(key jwik.SenseKey) (*jwik.SenseEntry, error) {
	if c.disabled {
		return c.inner.GetSenseEntry(key)
	}
	if v, ok := c.sensesByKey.Get(key); ok {
		return v, nil
	}
	v, err := c.inner.GetSenseEntry(key)
	if err != nil || v == nil {
		return v, err
	}
	c.sensesByKey.Add(key, v)
	return v, nil
}

func (c *Cache) GetExceptionEntry(surface string, pos jwik.POS) (*jwik.ExceptionEntry, error) {
	id, err := jwik.NewExceptionID(surface, pos)
	if err != nil {
		return nil, err
	}
	return c.GetExceptionEntryByID(id)
}

func (c *Cache) GetExceptionEntryByID(id jwik.ExceptionID) (*jwik.ExceptionEntry, error) {
	if c.disabled {
		return c.inner.GetExceptionEntryByID(id)
	}
	if v, ok := c.items.Get(id.String()); ok {
		return v.(*jwik.ExceptionEntry), nil
	}
	v, err := c.inner.GetExceptionEntryByID(id)
	if err != nil || v == nil {
		return v, err
	}
	c.items.Add(id.String(), v)
	return v, nil
}

func (c *Cache) GetWords(prefix string, pos jwik.POS, limit int) ([]string, error) {
	if c.disabled {
		return c.inner.GetWords(prefix, pos, limit)
	}
	key := wordsKey{prefix: prefix, pos: pos, limit: limit}
	if v, ok := c.arrays.Get(key); ok {
		return v, nil
	}
	v, err := c.inner.GetWords(prefix, pos, limit)
	if err != nil {
		return v, err
	}
	c.arrays.Add(key, v)
	return v, nil
}

func (c *Cache) Version() (source.Version, bool) {
	return c.inner.Version()
}

// SenseKeyFor delegates to the wrapped Reader; resolving a satellite's
// head lemma is backing-specific (lazy for a Dictionary, precomputed
// for a Snapshot) and not itself worth caching here.
func (c *Cache) SenseKeyFor(synset jwik.Synset, w jwik.Word) (jwik.SenseKey, error) {
	return c.inner.SenseKeyFor(synset, w)
}

var _ dict.Reader = (*Cache)(nil)
