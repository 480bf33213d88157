package jpathcache

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/blevesearch/mmap-go"
)

// source owns the memory-mapped read-only view of a JSON file and
// produces pull tokenizers positioned at offset 0 (C1). A zero-length
// file is legal and is served from an empty slice rather than an
// actual mmap — mapping a zero-length region fails on several
// platforms, and an empty tokenizer must surface as an empty result
// list, never an error (§4.1).
type source struct {
	path     string
	file     *os.File
	mm       mmap.MMap
	raw      []byte // used only when the file is empty
	empty    bool
	released bool
}

// openSource opens path read-only and maps its full length.
func openSource(path string) (*source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &Error{Code: ErrIOError, Message: "resolve path " + path, Cause: err}
	}

	f, err := os.Open(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Code: ErrNotFound, Message: "file not found: " + abs, Cause: err}
		}
		return nil, &Error{Code: ErrIOError, Message: "open " + abs, Cause: err}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &Error{Code: ErrIOError, Message: "stat " + abs, Cause: err}
	}

	if info.Size() == 0 {
		f.Close()
		return &source{path: abs, raw: []byte{}, empty: true}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, &Error{Code: ErrIOError, Message: "mmap " + abs, Cause: err}
	}

	return &source{path: abs, file: f, mm: m}, nil
}

// bytes returns the mapped region (or the empty-file sentinel slice).
func (s *source) bytes() []byte {
	if s.mm != nil {
		return []byte(s.mm)
	}
	return s.raw
}

// tokenizer returns a pull tokenizer reading from offset 0 of the
// mapped buffer. Every query gets its own decoder; the mapped buffer
// itself is never copied or mutated.
func (s *source) tokenizer() *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(s.bytes()))
	dec.UseNumber()
	return dec
}

// release unmaps the region and closes the file. Safe to call more
// than once.
func (s *source) release() error {
	var err error
	if s.mm != nil {
		err = s.mm.Unmap()
		s.mm = nil
	}
	if s.file != nil {
		if cerr := s.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
		s.file = nil
	}
	s.released = true
	return err
}

// mapped reports whether the backing region is still live — either an
// active mmap, or the empty-file sentinel, which was never mapped in
// the first place and is never considered released.
func (s *source) mapped() bool {
	if s.released {
		return false
	}
	return s.mm != nil || s.empty
}
