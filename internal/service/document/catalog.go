// Package document owns the template catalog and the draft lifecycle behind
// the document-generation modal.
package document

import (
	"context"
	"sync"

	"go.uber.org/zap"

	model "github.com/ritankar/legalaid/internal/model/document"
)

// TemplateSource fetches the template definitions offered by the backend.
type TemplateSource interface {
	Templates(ctx context.Context) ([]model.Template, error)
}

// Catalog caches templates for the lifetime of one modal opening.
type Catalog struct {
	source TemplateSource
	logger *zap.Logger

	mu        sync.RWMutex
	templates []model.Template
}

// NewCatalog returns an empty catalog backed by the given source.
func NewCatalog(source TemplateSource, logger *zap.Logger) *Catalog {
	return &Catalog{source: source, logger: logger}
}

// Load replaces the cached set with a fresh fetch. An empty result is valid.
// A fetch failure keeps the prior set and is logged; the modal simply opens
// with whatever is already cached.
func (c *Catalog) Load(ctx context.Context) {
	templates, err := c.source.Templates(ctx)
	if err != nil {
		c.logger.Warn("template fetch failed", zap.Error(err))
		return
	}

	c.mu.Lock()
	c.templates = templates
	c.mu.Unlock()
}

// Templates returns the cached set in backend order.
func (c *Catalog) Templates() []model.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Template(nil), c.templates...)
}

// Find looks up a cached template by identifier.
func (c *Catalog) Find(id string) (model.Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.templates {
		if t.ID == id {
			return t, true
		}
	}
	return model.Template{}, false
}
