// Package extract converts files into displayable text using a closed,
// extension-keyed dispatch table.
package extract

import (
	"errors"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// DefaultCacheEntries is the size of the result cache created by New when no
// WithCache option is supplied.
const DefaultCacheEntries = 512

var errNoDecoder = errors.New("no decoder configured")

type cacheKey struct {
	path    string
	size    int64
	modTime int64
}

type result struct {
	text string
	ok   bool
}

// Extractor resolves a file's category and runs the matching strategy.
// It is not safe for concurrent use by multiple traversals; the tree builder
// calls it sequentially.
type Extractor struct {
	decoders Decoders
	logger   *zap.Logger
	cache    *lru.Cache[cacheKey, result]
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithLogger sets the logger used to report extraction fallbacks.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// WithDecoders replaces the decoder collaborators.
func WithDecoders(d Decoders) Option {
	return func(e *Extractor) error {
		e.decoders = d
		return nil
	}
}

// WithCache sets the number of cached extraction results. Zero or less disables caching.
func WithCache(entries int) Option {
	return func(e *Extractor) error {
		if entries <= 0 {
			e.cache = nil
			return nil
		}
		c, err := lru.New[cacheKey, result](entries)
		if err != nil {
			return fmt.Errorf("create extraction cache: %w", err)
		}
		e.cache = c
		return nil
	}
}

// New returns an Extractor with the default decoders and a result cache.
func New(opts ...Option) (*Extractor, error) {
	e := &Extractor{
		decoders: DefaultDecoders(),
		logger:   zap.NewNop(),
	}
	opts = append([]Option{WithCache(DefaultCacheEntries)}, opts...)
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Extract returns the text of the file at path. The boolean is false when the
// file has no textual content: a skipped binary type, a decode failure or an
// unreadable file. Extract never panics on decoder failures.
func (e *Extractor) Extract(path string) (string, bool) {
	category := Classify(path)
	if category == CategorySkip {
		return "", false
	}

	var key cacheKey
	cacheable := false
	if e.cache != nil {
		if info, err := os.Stat(path); err == nil {
			key = cacheKey{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()}
			cacheable = true
			if r, ok := e.cache.Get(key); ok {
				e.logger.Debug("Extraction cache hit", zap.String("filePath", path))
				return r.text, r.ok
			}
		}
	}

	text, err := e.run(path, category)
	r := result{text: text, ok: err == nil}
	if err != nil {
		r.text = ""
		e.logger.Debug("Extraction yielded no content",
			zap.String("filePath", path),
			zap.Stringer("category", category),
			zap.Error(err))
	}
	if cacheable {
		e.cache.Add(key, r)
	}
	return r.text, r.ok
}

// run dispatches to the strategy for category, converting decoder panics into errors.
func (e *Extractor) run(path string, category Category) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("decoder panicked: %v", rec)
		}
	}()

	switch category {
	case CategoryText:
		return readText(path)
	case CategoryStructured:
		return reformatJSON(path)
	case CategoryDocument:
		if e.decoders.Document == nil {
			return "", errNoDecoder
		}
		return e.decoders.Document(path)
	case CategorySpreadsheet:
		if e.decoders.Spreadsheet == nil {
			return "", errNoDecoder
		}
		sheets, err := e.decoders.Spreadsheet(path)
		if err != nil {
			return "", err
		}
		return joinSheets(sheets), nil
	case CategoryPDF:
		if e.decoders.PDF == nil {
			return "", errNoDecoder
		}
		return e.decoders.PDF(path)
	default:
		return readSniffedText(path)
	}
}
