package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Handle returns the transaction when one is open, otherwise db, bound to
// the context.
func (c Context) Handle(db *gorm.DB) *gorm.DB {
	h := c.Tx
	if h == nil {
		h = db
	}
	if c.Ctx != nil {
		h = h.WithContext(c.Ctx)
	}
	return h
}
