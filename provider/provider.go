// Package provider discovers WordNet-format files in a directory, matches
// them to content types, opens a data source per content type, and
// manages the provider's own open/load/close lifecycle (spec.md §4.5).
package provider

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	jwik "github.com/1313ou/jwik-go"
	"github.com/1313ou/jwik-go/contenttype"
	"github.com/1313ou/jwik-go/source"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LoadPolicy controls when a provider pre-loads its sources into RAM.
type LoadPolicy int

const (
	NoLoad LoadPolicy = iota
	BackgroundLoad
	ImmediateLoad
)

// Provider owns one open directory's worth of data sources.
type Provider struct {
	mu         sync.Mutex
	dir        string
	registry   *contenttype.Registry
	loadPolicy LoadPolicy
	logger     *zap.Logger

	open     bool
	sources  map[contenttype.Key]source.DataSource
	cancel   context.CancelFunc
	loadDone chan struct{}
}

// New constructs a provider over dir using registry's content-type table.
// The provider does not discover or open any files until Open is called.
func New(dir string, registry *contenttype.Registry) *Provider {
	return &Provider{
		dir:      dir,
		registry: registry,
		logger:   zap.NewNop(),
	}
}

// SetLoadPolicy sets the pre-load policy. Rejected once the provider is
// open (spec.md §7 ObjectOpenError).
func (p *Provider) SetLoadPolicy(policy LoadPolicy) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open {
		return jwik.ErrObjectOpen
	}
	p.loadPolicy = policy
	return nil
}

// SetLogger installs a structured logger for provider diagnostics
// (fallback-to-binary-search notices, background loader failures).
func (p *Provider) SetLogger(logger *zap.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	p.logger = logger
}

// candidate is one regular file discovered under the source directory.
type candidate struct {
	path string
	name string // lowercased base name
}

func (p *Provider) discoverCandidates() ([]candidate, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, &jwik.IOError{Path: p.dir, Err: err}
	}
	var out []candidate
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, candidate{path: filepath.Join(p.dir, e.Name()), name: strings.ToLower(e.Name())})
	}
	return out, nil
}

// matchContentType finds the first candidate satisfying ct, per spec.md
// §4.5: a registered regex override wins outright; otherwise a filename
// must contain one of the data type's hints and one of the POS's hints.
func matchContentType(ct *contenttype.ContentType, registry *contenttype.Registry, pool []candidate, used map[string]bool) (candidate, bool) {
	if re, ok := registry.Matcher(ct.Key); ok {
		for _, c := range pool {
			if used[c.path] {
				continue
			}
			if re.MatchString(c.name) {
				return c, true
			}
		}
		return candidate{}, false
	}
	dtHints := ct.FilenameHints()
	posHints := ct.POS.FilenameHints()
	for _, c := range pool {
		if used[c.path] {
			continue
		}
		if !containsAny(c.name, dtHints) {
			continue
		}
		if len(posHints) > 0 && !containsAny(c.name, posHints) {
			continue
		}
		return c, true
	}
	return candidate{}, false
}

func containsAny(name string, hints []string) bool {
	if len(hints) == 0 {
		return true
	}
	for _, h := range hints {
		if strings.Contains(name, h) {
			return true
		}
	}
	return false
}

// Open discovers files, builds and opens one DataSource per content type,
// marks the registry open, and kicks off pre-loading per the configured
// LoadPolicy (spec.md §4.5).
func (p *Provider) Open(ctx context.Context) error {
	p.mu.Lock()
	if p.open {
		p.mu.Unlock()
		return jwik.ErrObjectOpen
	}
	p.mu.Unlock()

	pool, err := p.discoverCandidates()
	if err != nil {
		return err
	}
	used := map[string]bool{}
	sources := map[contenttype.Key]source.DataSource{}

	for _, ct := range p.registry.All() {
		c, ok := matchContentType(ct, p.registry, pool, used)
		if !ok {
			continue // not every distribution carries every content type (e.g. no adverb exceptions file)
		}
		if ct.DataType != contenttype.DataTypeSenseIndex {
			used[c.path] = true
		}
		ds, err := p.openSource(c.path, ct)
		if err != nil {
			return err
		}
		sources[ct.Key] = ds
	}

	p.mu.Lock()
	p.sources = sources
	p.open = true
	p.registry.MarkOpen()
	policy := p.loadPolicy
	p.mu.Unlock()

	switch policy {
	case NoLoad:
	case BackgroundLoad:
		loadCtx, cancel := context.WithCancel(context.Background())
		p.mu.Lock()
		p.cancel = cancel
		p.loadDone = make(chan struct{})
		p.mu.Unlock()
		go func() {
			defer close(p.loadDone)
			p.runBackgroundLoad(loadCtx)
		}()
	case ImmediateLoad:
		loadCtx, cancel := context.WithCancel(context.Background())
		p.mu.Lock()
		p.cancel = cancel
		p.mu.Unlock()
		p.runBackgroundLoad(loadCtx)
	}
	return nil
}

// openSource builds a DataSource for one matched file. Data files try
// direct-offset access first; if the first data line's self-reported
// offset can't be re-fetched (a distribution extracted with CRLF line
// endings desynchronizes byte offsets from the index), it silently falls
// back to binary search over the same file, logging a diagnostic
// (spec.md §4.4 "Fallback policy").
func (p *Provider) openSource(path string, ct *contenttype.ContentType) (source.DataSource, error) {
	if ct.DataType != contenttype.DataTypeSynset {
		bs := source.NewBinarySearchSource(path, ct)
		if err := bs.Open(); err != nil {
			return nil, err
		}
		return bs, nil
	}

	direct := source.NewDirectAccessSource(path, ct)
	if err := direct.Open(); err != nil {
		return nil, err
	}
	it, err := direct.IterateAll()
	if err == nil && it.HasNext() {
		line, lerr := it.Next()
		if lerr == nil {
			if offset := leadingOffset(line); offset != "" {
				if _, ok, verr := direct.Lookup(offset); verr == nil && ok {
					return direct, nil
				}
			}
		}
	}
	p.logger.Warn("direct-offset access failed on data file; falling back to binary search",
		zap.String("path", path))
	direct.Close()
	bs := source.NewBinarySearchSource(path, ct)
	if err := bs.Open(); err != nil {
		return nil, err
	}
	return bs, nil
}

func leadingOffset(line string) string {
	i := strings.IndexAny(line, " \t")
	tok := line
	if i >= 0 {
		tok = line[:i]
	}
	if len(tok) != 8 {
		return ""
	}
	if _, err := strconv.ParseUint(tok, 10, 32); err != nil {
		return ""
	}
	return tok
}

func (p *Provider) runBackgroundLoad(ctx context.Context) {
	p.mu.Lock()
	srcs := make([]source.DataSource, 0, len(p.sources))
	for _, s := range p.sources {
		srcs = append(srcs, s)
	}
	p.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	for _, s := range srcs {
		s := s
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := s.Load(true); err != nil {
				p.logger.Error("background load of data source failed", zap.String("path", s.Path()), zap.Error(err))
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Info("background load stopped early", zap.Error(err))
	}
}

// Get returns the data source registered for key, if the provider
// matched one to a file during Open.
func (p *Provider) Get(key contenttype.Key) (source.DataSource, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return nil, false
	}
	ds, ok := p.sources[key]
	return ds, ok
}

// Version reports the dictionary's version if every open source agrees;
// otherwise it reports no version (spec.md §4.5).
func (p *Provider) Version() (source.Version, bool) {
	p.mu.Lock()
	srcs := make([]source.DataSource, 0, len(p.sources))
	for _, s := range p.sources {
		srcs = append(srcs, s)
	}
	p.mu.Unlock()

	var agreed source.Version
	seen := false
	for _, s := range srcs {
		v, ok := s.Version()
		if !ok {
			continue
		}
		if !seen {
			agreed, seen = v, true
			continue
		}
		if v != agreed {
			return source.Version{}, false
		}
	}
	return agreed, seen
}

// Close interrupts any background loader, joins it, closes every data
// source, and marks the registry closed again. Close is idempotent and
// swallows I/O errors from underlying file handles; it only logs them
// (spec.md §7).
func (p *Provider) Close() error {
	p.mu.Lock()
	if !p.open {
		p.mu.Unlock()
		return nil
	}
	cancel := p.cancel
	done := p.loadDone
	srcs := p.sources
	p.open = false
	p.sources = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	for _, s := range srcs {
		if err := s.Close(); err != nil {
			p.logger.Warn("error closing data source", zap.String("path", s.Path()), zap.Error(err))
		}
	}
	p.registry.MarkClosed()
	return nil
}

// IsOpen reports whether the provider has been successfully opened.
func (p *Provider) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}
