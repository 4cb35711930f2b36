package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// A nil Tx means the repository should use its default connection.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// New wraps a plain context with no transaction attached.
func New(ctx context.Context) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return Context{Ctx: ctx}
}

// WithTx wraps a context together with an open transaction.
func WithTx(ctx context.Context, tx *gorm.DB) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return Context{Ctx: ctx, Tx: tx}
}
