// Package engine bundles everything built from one catalog load: the catalog
// itself, the entity extractor, the intent classifier, the resolver and the
// keyword index. A bundle is immutable; a reload builds a new one and swaps
// it in through a Holder.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/garyellow/casmate/internal/catalog"
	domerrors "github.com/garyellow/casmate/internal/errors"
	"github.com/garyellow/casmate/internal/nlu"
	"github.com/garyellow/casmate/internal/rag"
	"github.com/garyellow/casmate/internal/resolver"
	"github.com/garyellow/casmate/internal/storage"
	"github.com/garyellow/casmate/internal/stringutil"
)

// Options tune how a bundle is built.
type Options struct {
	Thresholds resolver.Thresholds
	Normalizer stringutil.Normalizer
}

// DefaultOptions returns the stock thresholds and normalizer.
func DefaultOptions() Options {
	return Options{
		Thresholds: resolver.DefaultThresholds(),
		Normalizer: stringutil.Default,
	}
}

// Engine is one consistent set of NLU components over a single catalog.
type Engine struct {
	Catalog    *catalog.Catalog
	Extractor  *nlu.Extractor
	Classifier *nlu.Classifier
	Resolver   *resolver.Resolver
	Index      *rag.TitleIndex

	Source   string
	LoadedAt time.Time
}

// Build constructs an Engine from raw rows.
func Build(d catalog.Data, opts Options) (*Engine, error) {
	c, err := catalog.New(d)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return FromCatalog(c, opts)
}

// FromCatalog wires the NLU components around an already built catalog.
func FromCatalog(c *catalog.Catalog, opts Options) (*Engine, error) {
	idx, err := rag.NewTitleIndex(indexDocs(c))
	if err != nil {
		return nil, fmt.Errorf("build title index: %w", err)
	}

	x := nlu.NewExtractor(c, opts.Normalizer)
	return &Engine{
		Catalog:    c,
		Extractor:  x,
		Classifier: nlu.NewClassifier(x),
		Resolver: resolver.New(c,
			resolver.WithThresholds(opts.Thresholds),
			resolver.WithNormalizer(opts.Normalizer),
			resolver.WithIndex(idx),
		),
		Index:    idx,
		LoadedAt: time.Now(),
	}, nil
}

// Load reads src and builds an Engine from it.
func Load(ctx context.Context, src storage.Source, opts Options) (*Engine, error) {
	op := domerrors.At(domerrors.ModuleEngine, "load")
	d, err := src.Load(ctx)
	if err != nil {
		return nil, op.Wrapf(err, "could not read the catalog from %s", src.Name())
	}
	e, err := Build(d, opts)
	if err != nil {
		return nil, op.Wrapf(err, "the catalog from %s is invalid", src.Name())
	}
	e.Source = src.Name()
	return e, nil
}

// indexDocs lists course titles first, then program names.
func indexDocs(c *catalog.Catalog) []rag.Doc {
	courses := c.Courses()
	programs := c.Programs()
	docs := make([]rag.Doc, 0, len(courses)+len(programs))
	for _, course := range courses {
		docs = append(docs, rag.Doc{ID: course.ID, Kind: rag.KindCourse, Title: course.Title})
	}
	for _, p := range programs {
		docs = append(docs, rag.Doc{ID: p.ID, Kind: rag.KindProgram, Title: p.Name})
	}
	return docs
}

// IssueCounts groups the catalog's integrity issues by type.
func (e *Engine) IssueCounts() map[string]int {
	counts := make(map[string]int)
	for _, is := range e.Catalog.Issues() {
		counts[string(is.Type)]++
	}
	return counts
}
