package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/glorpus-work/pyscope/pkg/model"
	"github.com/glorpus-work/pyscope/pkg/pip"
)

// Search queries the registry for term asynchronously and delivers the
// results with EventSearchFinished. Results are annotated with the local
// installed state and cached; a cache hit still goes through the event
// channel so the consumer has a single code path.
func (e *Engine) Search(ctx context.Context, term string) error {
	if err := pip.ValidateSearchTerm(term); err != nil {
		return err
	}
	key := strings.ToLower(strings.TrimSpace(term))

	e.mu.Lock()
	if e.shuttingDown {
		e.mu.Unlock()
		e.emit(Event{Type: EventSearchFinished, Package: term})
		return nil
	}
	if cached, ok := e.searches.Get(key); ok {
		// Re-annotate: installed state may have changed since the fetch.
		results := e.annotateLocked(cached)
		e.mu.Unlock()
		e.log.Debug("search cache hit", "term", term)
		e.emit(Event{Type: EventSearchFinished, Package: term, Results: results})
		return nil
	}
	e.mu.Unlock()

	go e.runSearch(ctx, term, key)
	return nil
}

func (e *Engine) runSearch(ctx context.Context, term, key string) {
	results := e.registry.Search(ctx, term)
	sort.Slice(results, func(i, j int) bool {
		return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
	})

	e.mu.Lock()
	if e.shuttingDown {
		e.mu.Unlock()
		return
	}
	e.searches.Put(key, results)
	annotated := e.annotateLocked(results)
	e.mu.Unlock()

	e.log.Info("search finished", "term", term, "results", len(annotated))
	e.emit(Event{Type: EventSearchFinished, Package: term, Results: annotated})
}

// annotateLocked marks search results that are installed locally and copies
// in their known versions. Callers must hold e.mu.
func (e *Engine) annotateLocked(results []model.SearchResult) []model.SearchResult {
	byKey := make(map[string]model.Package, len(e.packages))
	for _, p := range e.packages {
		byKey[p.Key()] = p
	}

	out := make([]model.SearchResult, len(results))
	for i, r := range results {
		if p, ok := byKey[strings.ToLower(r.Name)]; ok {
			r.Installed = true
			r.InstalledVersion = p.InstalledVersion
			r.LatestVersion = p.LatestVersion
		}
		out[i] = r
	}
	return out
}
