// Package index maintains a short-lived, document-scoped cache of the diagram
// bindings found on a document, used to map an edit to the diagrams it may affect.
//
// The index is never a source of truth: losing a cached entry only costs one
// rescan of the document.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ukaji3/vennsync/pkg/vennsync/binding"
	"github.com/ukaji3/vennsync/pkg/vennsync/geometry"
	"github.com/ukaji3/vennsync/pkg/vennsync/models"
)

// CacheKey names the serialized binding projection within a document's cache.
const CacheKey = "database"

// DefaultTTL is how long a projection stays cached.
const DefaultTTL = 10 * time.Minute

// Lister enumerates the image-like objects of a document.
type Lister interface {
	DocumentID() string
	Images() ([]models.Image, error)
}

// Index resolves the binding projection of a document through a Cache.
type Index struct {
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// New creates an Index over cache. A non-positive ttl uses DefaultTTL and a nil
// logger discards output.
func New(cache Cache, ttl time.Duration, logger *zap.Logger) *Index {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{cache: cache, ttl: ttl, logger: logger}
}

// Resolve returns the binding projection of the document behind l, scanning the
// document and caching the result on a miss.
func (x *Index) Resolve(ctx context.Context, l Lister) ([]models.IndexEntry, error) {
	doc := l.DocumentID()

	data, ok, err := x.cache.Get(ctx, doc, CacheKey)
	if err != nil {
		x.logger.Warn("Binding index cache read failed", zap.String("doc", doc), zap.Error(err))
	} else if ok {
		var entries []models.IndexEntry
		if err := json.Unmarshal(data, &entries); err == nil {
			x.logger.Debug("Using cached binding index", zap.String("doc", doc), zap.Int("entries", len(entries)))
			return entries, nil
		}
		x.logger.Warn("Discarding unreadable binding index", zap.String("doc", doc))
	}

	images, err := l.Images()
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	entries := Project(images, x.logger)

	data, err = json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	if err := x.cache.Put(ctx, doc, CacheKey, data, x.ttl); err != nil {
		x.logger.Warn("Binding index cache write failed", zap.String("doc", doc), zap.Error(err))
	}

	x.logger.Debug("Rebuilt binding index", zap.String("doc", doc), zap.Int("entries", len(entries)))
	return entries, nil
}

// Invalidate drops the cached projection of doc.
func (x *Index) Invalidate(ctx context.Context, doc string) error {
	return x.cache.Remove(ctx, doc, CacheKey)
}

// Project decodes the bound images among images into index entries.
// Foreign identifiers and unparsable extents are dropped.
func Project(images []models.Image, logger *zap.Logger) []models.IndexEntry {
	entries := make([]models.IndexEntry, 0, len(images))
	for _, img := range images {
		b, ok := binding.Decode(img.Alt)
		if !ok {
			continue
		}
		ext, err := geometry.ParseExtent(b.ExtentText)
		if err != nil {
			if logger != nil {
				logger.Debug("Skipping binding with invalid extent", zap.String("alt", img.Alt), zap.Error(err))
			}
			continue
		}
		entries = append(entries, models.IndexEntry{
			Alt:         b.Alt,
			SheetID:     b.SheetID,
			RangeExtent: ext,
		})
	}
	return entries
}
