package jpathcache

import (
	"path/filepath"
	"sync"
)

// Handle owns one mapped region of a JSON document plus its array
// cache (§3). A single Handle is not safe for concurrent queries — it
// owns mutable state (the tokenizer cursor and the array cache) that
// is not internally synchronized; callers must serialize calls
// against one Handle (§5, §9d). This is a deliberate, documented
// constraint, not an oversight — see DESIGN.md.
type Handle struct {
	path  string
	src   *source
	cache *arrayCache
}

// Path returns the canonical absolute path this handle was opened for.
func (h *Handle) Path() string {
	return h.path
}

// QueryConfig is built from QueryOption values passed to Query.
type QueryConfig struct {
	limit     int
	predicate func(Value) bool
}

// QueryOption configures a single Query call.
type QueryOption func(*QueryConfig)

// WithLimit bounds the number of results. n <= 0 means unlimited.
func WithLimit(n int) QueryOption {
	return func(c *QueryConfig) { c.limit = n }
}

// WithPredicate applies an additional caller-supplied filter, run
// after any path-level filter segment, at leaf materializations only.
func WithPredicate(pred func(Value) bool) QueryOption {
	return func(c *QueryConfig) { c.predicate = pred }
}

func defaultQueryConfig() *QueryConfig {
	return &QueryConfig{limit: -1}
}

// Query is the primary entry point (§6). It never returns an error:
// construction failures (NotFound, IOError) surface when a Handle is
// obtained, but query-time failures — a malformed path, a streaming
// error, a filter that fails to parse — are absorbed, logged, and
// folded into an empty result, per §7's "no partial results" rule.
func (h *Handle) Query(path string, opts ...QueryOption) (result []Value) {
	cfg := defaultQueryConfig()
	for _, o := range opts {
		o(cfg)
	}

	defer func() {
		if r := recover(); r != nil {
			log().WithField("panic", r).WithField("path", path).Warn("jpathcache: query panicked, returning empty result")
			result = []Value{}
		}
	}()

	if arrayPath, filterExpr, ok := splitArrayFilter(path); ok {
		if cached, found := h.cache.get(arrayPath); found {
			filter := parseFilter(filterExpr)
			return scanCachedFilter(cached, filter, cfg.limit, cfg.predicate)
		}
	} else if cached, found := h.cache.get(path); found {
		return applyLimitAndPred(cached, cfg.limit, cfg.predicate)
	}

	raw, err := h.rawEvaluate(path, cfg.limit, cfg.predicate)
	if err != nil {
		log().WithError(err).WithField("path", path).Warn("jpathcache: query failed, returning empty result")
		return []Value{}
	}
	return flattenResults(raw)
}

// rawEvaluate compiles path and drives the streaming evaluator over a
// fresh tokenizer, returning the unflattened result list C6 needs to
// make its own cache/no-cache decision.
func (h *Handle) rawEvaluate(path string, limit int, pred func(Value) bool) ([]Value, error) {
	segs, err := compilePath(path)
	if err != nil {
		return nil, err
	}
	dec := h.src.tokenizer()
	ev := newPathEvaluator(limit, pred)
	if err := ev.evalStream(dec, segs, 0); err != nil {
		return nil, err
	}
	return ev.results, nil
}

// CacheArray materializes path once and stores it under cacheKey
// (defaulting to path itself) for future `<path>[?(...)]` or exact-path
// queries to serve from memory (§4.6). Returns ok=false if the query
// produced no cacheable result.
func (h *Handle) CacheArray(path string, cacheKey ...string) ([]Value, bool) {
	key := path
	if len(cacheKey) > 0 && cacheKey[0] != "" {
		key = cacheKey[0]
	}

	raw, err := h.rawEvaluate(path, -1, nil)
	if err != nil {
		log().WithError(err).WithField("path", path).Warn("jpathcache: cache_array query failed")
		return nil, false
	}

	var toCache []Value
	switch {
	case len(raw) == 1 && raw[0].Kind == KindArray:
		toCache = raw[0].Arr
	case len(raw) > 0:
		toCache = raw
	default:
		return nil, false
	}

	h.cache.put(key, toCache)
	return toCache, true
}

// IsArrayCached reports whether key (a path or cache alias) is cached.
func (h *Handle) IsArrayCached(key string) bool {
	return h.cache.isCached(key)
}

// InvalidateArrayCache drops a single cache entry.
func (h *Handle) InvalidateArrayCache(key string) {
	h.cache.invalidate(key)
}

// ClearArrayCache empties the whole array cache.
func (h *Handle) ClearArrayCache() {
	h.cache.clear()
}

// Stats reports a lightweight operational snapshot: how many array
// paths are resident and whether the backing file is still mapped.
// Not part of the core query surface — a read-only convenience (see
// SPEC_FULL.md's supplemented features).
type Stats struct {
	CachedArrays int
	Mapped       bool
}

// Stats returns a point-in-time snapshot of this handle's state.
func (h *Handle) Stats() Stats {
	return Stats{CachedArrays: h.cache.len(), Mapped: h.src.mapped()}
}

// Release unmaps the backing file and clears the array cache. The
// Handle is unusable afterward.
func (h *Handle) Release() error {
	h.cache.clear()
	return h.src.release()
}

// registry implements C7: a process-wide, mutex-guarded mapping from
// canonical absolute file path to document Handle.
type registry struct {
	mu      sync.Mutex
	handles map[string]*Handle
}

var defaultRegistry = &registry{handles: make(map[string]*Handle)}

// GetOrCreate returns the existing Handle for path's canonical
// absolute form, or opens and registers a new one. Idempotent and
// thread-safe: concurrent callers for the same path observe the same
// Handle (§8 law 3).
func GetOrCreate(path string) (*Handle, error) {
	return defaultRegistry.getOrCreate(path)
}

func (r *registry) getOrCreate(path string) (*Handle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &Error{Code: ErrIOError, Message: "resolve path " + path, Cause: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[abs]; ok {
		return h, nil
	}

	src, err := openSource(abs)
	if err != nil {
		return nil, err
	}
	h := &Handle{path: abs, src: src, cache: newArrayCache()}
	r.handles[abs] = h
	return h, nil
}

// ReleaseInstance drops path's Handle from the registry without
// releasing the Handle itself — a caller still holding a reference
// keeps it usable, per §9's "shared reference" ownership model.
func ReleaseInstance(path string) {
	defaultRegistry.release(path)
}

func (r *registry) release(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, abs)
}

// ReleaseAll empties the registry, dropping every tracked reference.
func ReleaseAll() {
	defaultRegistry.releaseAll()
}

func (r *registry) releaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles = make(map[string]*Handle)
}
