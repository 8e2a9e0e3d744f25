package dbctx

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/studyflow-backend/internal/platform/ctxutil"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Conn returns the transaction when one is attached, otherwise db scoped to Ctx.
func (c Context) Conn(db *gorm.DB) *gorm.DB {
	t := c.Tx
	if t == nil {
		t = db
	}
	return t.WithContext(ctxutil.Default(c.Ctx))
}
