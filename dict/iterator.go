package dict

import (
	jwik "github.com/1313ou/jwik-go"
	"github.com/1313ou/jwik-go/contenttype"
	"github.com/1313ou/jwik-go/parse"
	"github.com/1313ou/jwik-go/source"
)

// SynsetIterator is a forward sequence of synsets decoded from a
// data.<pos> file (spec.md §4.6).
type SynsetIterator struct{ li *source.LineIterator }

func (it *SynsetIterator) HasNext() bool { return it.li.HasNext() }

func (it *SynsetIterator) Next() (jwik.Synset, error) {
	line, err := it.li.Next()
	if err != nil {
		return jwik.Synset{}, err
	}
	return parse.ParseDataLine(line)
}

// IndexWordIterator is a forward sequence of index words.
type IndexWordIterator struct{ li *source.LineIterator }

func (it *IndexWordIterator) HasNext() bool { return it.li.HasNext() }

func (it *IndexWordIterator) Next() (jwik.IndexWord, error) {
	line, err := it.li.Next()
	if err != nil {
		return jwik.IndexWord{}, err
	}
	return parse.ParseIndexLine(line)
}

// ExceptionIterator is a forward sequence of exception entries for one
// part of speech.
type ExceptionIterator struct {
	li  *source.LineIterator
	pos jwik.POS
}

func (it *ExceptionIterator) HasNext() bool { return it.li.HasNext() }

func (it *ExceptionIterator) Next() (jwik.ExceptionEntry, error) {
	line, err := it.li.Next()
	if err != nil {
		return jwik.ExceptionEntry{}, err
	}
	proxy, err := parse.ParseExceptionLine(line)
	if err != nil {
		return jwik.ExceptionEntry{}, err
	}
	return jwik.NewExceptionEntry(proxy, it.pos)
}

// SenseEntryIterator is a forward sequence of sense-index entries.
type SenseEntryIterator struct{ li *source.LineIterator }

func (it *SenseEntryIterator) HasNext() bool { return it.li.HasNext() }

func (it *SenseEntryIterator) Next() (jwik.SenseEntry, error) {
	line, err := it.li.Next()
	if err != nil {
		return jwik.SenseEntry{}, err
	}
	return parse.ParseSenseIndexLine(line)
}

// GetSynsetIterator returns a forward iterator over every synset of pos.
func (d *Dictionary) GetSynsetIterator(pos jwik.POS) (*SynsetIterator, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}
	ct, err := d.registry.GetData(pos)
	if err != nil {
		return nil, err
	}
	ds, ok := d.prov.Get(ct.Key)
	if !ok {
		return nil, nil
	}
	li, err := ds.IterateAll()
	if err != nil {
		return nil, err
	}
	return &SynsetIterator{li: li}, nil
}

// GetIndexWordIterator returns a forward iterator over every index word
// of pos.
func (d *Dictionary) GetIndexWordIterator(pos jwik.POS) (*IndexWordIterator, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}
	ct, err := d.registry.GetIndex(pos)
	if err != nil {
		return nil, err
	}
	ds, ok := d.prov.Get(ct.Key)
	if !ok {
		return nil, nil
	}
	li, err := ds.IterateAll()
	if err != nil {
		return nil, err
	}
	return &IndexWordIterator{li: li}, nil
}

// GetExceptionIterator returns a forward iterator over every exception
// entry of pos.
func (d *Dictionary) GetExceptionIterator(pos jwik.POS) (*ExceptionIterator, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}
	ct, err := d.registry.GetException(pos)
	if err != nil {
		return nil, err
	}
	ds, ok := d.prov.Get(ct.Key)
	if !ok {
		return nil, nil
	}
	li, err := ds.IterateAll()
	if err != nil {
		return nil, err
	}
	return &ExceptionIterator{li: li, pos: pos}, nil
}

// GetSenseEntryIterator returns a forward iterator over every row of the
// sense-index file.
func (d *Dictionary) GetSenseEntryIterator() (*SenseEntryIterator, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}
	ct, err := d.registry.Get(contenttype.Senses)
	if err != nil {
		return nil, err
	}
	ds, ok := d.prov.Get(ct.Key)
	if !ok {
		return nil, nil
	}
	li, err := ds.IterateAll()
	if err != nil {
		return nil, err
	}
	return &SenseEntryIterator{li: li}, nil
}
