// Package jpathcache provides a read-only, memory-mapped JSONPath query
// engine tuned for repeated filtered lookups against large array-shaped
// JSON documents — config files, fixture bundles, generated catalogs —
// that are loaded once and queried many times over a process's
// lifetime.
//
// Unlike a conventional JSONPath library that unmarshals the whole
// document into interface{} and walks a generic path grammar, this
// package memory-maps the source file once per path, streams it
// through a single-pass pull tokenizer on every query, and lets a
// caller promote one array into an in-memory cache so that repeated
// `array[?(filter)]` queries never re-touch the file. The path grammar
// it accepts is deliberately narrower than full JSONPath: root `$`,
// dotted and bracketed property access, integer indices, `[*]`
// wildcards, and `[?(expr)]` filters with `&&`/`||` and the six
// comparison operators. Recursive descent (`..`), slices, unions, and
// regex filters are out of scope.
//
// # Basic usage
//
//	h, err := jpathcache.GetOrCreate("catalog.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer jpathcache.ReleaseInstance("catalog.json")
//
//	titles := h.Query("$.store.book[*].title")
//
// # Caching a hot array
//
//	if _, ok := h.CacheArray("$.store.book"); !ok {
//	    log.Println("nothing to cache")
//	}
//	cheap := h.Query(`$.store.book[?(@.price<10)]`)
//
// # Concurrency
//
// GetOrCreate and the registry-level Release* functions are safe for
// concurrent use from any number of goroutines. A single Handle is
// not: Query, CacheArray, and the cache-control methods mutate state
// that is not internally synchronized, so concurrent callers against
// one Handle must serialize their own calls (open one Handle per
// goroutine, or guard a shared Handle with your own mutex).
//
// # Errors
//
// Construction failures — a missing file, a permission error, an
// unmappable path — surface from GetOrCreate as an *Error with a
// Code of ErrNotFound or ErrIOError. Query, by contrast, never
// returns an error: a malformed path, an unparseable filter, or a
// mid-stream decode failure is logged and folded into an empty
// result slice, matching the fail-safe contract a lookup API needs
// when it sits on a hot path.
package jpathcache
